package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"assassin/internal/app/reload"
	"assassin/internal/configs"
	"assassin/internal/pkg/limiter"
	"assassin/internal/pkg/resp"
)

func newTestServer(t *testing.T, burst int) (*httptest.Server, *reload.Hub) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>assassin</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := reload.NewHub()
	go hub.Run(ctx)

	cfg := &configs.AppConfig{
		Environment: "development",
		BaseURL:     "http://localhost:8000/assassin/",
		BundleDir:   dir,
	}

	srv := httptest.NewServer(Router(&AppDeps{
		Config:  cfg,
		Hub:     hub,
		Limiter: limiter.NewIPRateLimiter(ctx, rate.Limit(0.001), burst),
	}))
	t.Cleanup(srv.Close)

	return srv, hub
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, string(body)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, 5)

	res, body := get(t, srv.URL+"/health")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var envelope resp.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.Equal(t, 0, envelope.Code)
	assert.Equal(t, "success", envelope.Message)
	assert.Equal(t, "ok", envelope.Data.(map[string]any)["status"])
}

func TestEnvJS(t *testing.T) {
	srv, _ := newTestServer(t, 5)

	res, body := get(t, srv.URL+"/env.js")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/javascript")

	require.True(t, strings.HasPrefix(body, "export const env = "))
	raw := strings.TrimSuffix(strings.TrimPrefix(body, "export const env = "), ";\n")

	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &values))
	assert.Equal(t, map[string]string{
		"ASSASSIN_BASE_URL": "http://localhost:8000/assassin/",
		"ENVIRONMENT":       "development",
	}, values)
}

func TestStaticFiles(t *testing.T) {
	srv, _ := newTestServer(t, 5)

	res, body := get(t, srv.URL+"/app.js")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "console.log(1)", body)

	res, body = get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "assassin")

	res, body = get(t, srv.URL+"/games/42")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "assassin")

	res, _ = get(t, srv.URL+"/missing.css")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = get(t, srv.URL+"/livereload.js")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "/livereload")
}

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/livereload", nil)
}

func readEvent(t *testing.T, conn *websocket.Conn) reload.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event reload.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestLiveReloadPushesEvents(t *testing.T) {
	srv, hub := newTestServer(t, 5)

	conn, _, err := dial(t, srv)
	require.NoError(t, err)
	defer conn.Close()

	connected := readEvent(t, conn)
	assert.Equal(t, reload.TypeConnected, connected.Type)
	assert.NotEmpty(t, connected.ID)

	hub.Broadcast([]string{"app.js"})

	event := readEvent(t, conn)
	assert.Equal(t, reload.TypeReload, event.Type)
	assert.Equal(t, []string{"app.js"}, event.Changed)
	assert.NotZero(t, event.Timestamp)
}

func TestLiveReloadRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	conn, _, err := dial(t, srv)
	require.NoError(t, err)
	defer conn.Close()

	_, res, err := dial(t, srv)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}
