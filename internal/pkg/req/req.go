/*
Package req provides helpers for building outbound HTTP requests to the Assassin server.

It owns the wire conventions shared by every call: the session header name, the JSON
content type on writes, and body encoding.
*/
package req

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	// HeaderSession carries the opaque session token on authenticated requests.
	HeaderSession = "X-Session-ID"

	// ContentTypeJSON is the content type sent with every write request.
	ContentTypeJSON = "application/json"
)

// NewGet builds a GET request. The session header is attached only when session is non-empty.
func NewGet(ctx context.Context, url string, session string) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build GET request: %w", err)
	}

	r.Header.Set("Accept", ContentTypeJSON)
	setSession(r, session)

	return r, nil
}

// NewPost builds a POST request with a JSON content type. A nil body produces an empty
// request body; anything else is JSON encoded.
func NewPost(ctx context.Context, url string, session string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build POST request: %w", err)
	}

	r.Header.Set("Content-Type", ContentTypeJSON)
	r.Header.Set("Accept", ContentTypeJSON)
	setSession(r, session)

	return r, nil
}

func setSession(r *http.Request, session string) {
	if session != "" {
		r.Header.Set(HeaderSession, session)
	}
}
