package handler

import (
	_ "embed"
	"net/http"

	"github.com/gorilla/websocket"

	"assassin/internal/app/reload"
	"assassin/internal/pkg/errs"
	"assassin/internal/pkg/limiter"
	"assassin/internal/pkg/logx"
	"assassin/internal/pkg/resp"
)

//go:embed assets/livereload.js
var liveReloadScript []byte

// HandleLiveReloadScript serves the browser snippet that listens on /livereload.
func HandleLiveReloadScript() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(liveReloadScript)
	}
}

// HandleLiveReload upgrades the request to a WebSocket and subscribes it to reload events.
func HandleLiveReload(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Limiter != nil && !deps.Limiter.Allow(r) {
			logx.Warn("Live reload connection rejected: Rate limit exceeded.", "ip", limiter.ClientIP(r))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := reload.NewClient(deps.Hub, conn)

		if !deps.Hub.Register(client) {
			logx.Info("Live reload hub stopped, closing connection", "client_id", client.ID())
			conn.Close()
			return
		}

		go client.WritePump()

		client.ReadPump()
	}
}
