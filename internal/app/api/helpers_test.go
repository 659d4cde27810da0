package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// captured is one request seen by fakeServer.
type captured struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// fakeServer answers every request with a fixed status and body and records what it saw.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []captured
	status   int
	body     string
}

func newFakeServer(t *testing.T, status int, body string) *fakeServer {
	t.Helper()

	fs := &fakeServer{status: status, body: body}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		fs.mu.Lock()
		fs.requests = append(fs.requests, captured{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     raw,
		})
		status, body := fs.status, fs.body
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(fs.Close)

	return fs
}

func (fs *fakeServer) respond(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status, fs.body = status, body
}

func (fs *fakeServer) last(t *testing.T) captured {
	t.Helper()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.requests) == 0 {
		t.Fatalf("expected at least one request")
	}
	return fs.requests[len(fs.requests)-1]
}

func (fs *fakeServer) count() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

// client returns a Client rooted at the fake server's /assassin/ prefix.
func (fs *fakeServer) client() *Client {
	return NewClient(fs.URL+"/assassin/", WithLogger(zerolog.Nop()))
}
