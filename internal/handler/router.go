/*
Package handler provides the HTTP handlers and routing setup for the development server.

This file defines the main Router, applying logging, CORS and recovery middleware before
delegating to the health, env, live reload and static bundle handlers.
*/
package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"assassin/internal/pkg/logx"
	"assassin/internal/pkg/resp"
)

const (
	// LiveReloadRate is the number of live reload connections allowed per second per IP.
	LiveReloadRate = 1
	// LiveReloadBurst lets a handful of tabs connect at once.
	LiveReloadBurst = 10
)

// Router sets up the main HTTP routing table for the development server.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}
			if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":  "ok",
			"clients": deps.Hub.ClientCount(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Get("/env.js", HandleEnvJS(deps.Config))
	r.Get("/livereload.js", HandleLiveReloadScript())
	r.Get("/livereload", HandleLiveReload(wsUpgrader, deps))

	r.NotFound(HandleStatic(deps.Config.BundleDir))

	return r
}
