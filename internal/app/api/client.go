/*
Package api is the client for the remote Assassin game server.

A Client knows the server's base address and performs the two kinds of request the
server understands: reads (GET) and JSON writes (POST). Authenticated calls go through
a User, which pairs a username with the opaque session token issued at login.

Responses are returned as Documents. A response with a failing status is returned as
an *APIError carrying the server's parsed error body; callers branch on its fields.
*/
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"assassin/internal/pkg/logx"
	"assassin/internal/pkg/req"
)

// DefaultBaseURL is the production Assassin server.
const DefaultBaseURL = "https://sheep.thingkingland.app/assassin/"

// Client issues requests against a single Assassin server. It is safe for concurrent use.
type Client struct {
	// baseURL always ends with a slash; endpoint paths are appended verbatim.
	baseURL string

	httpClient *http.Client

	logger zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the http.Client used for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger replaces the client's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logx.Component("api"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the server address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get issues a read. The session header is sent only when session is non-empty.
func (c *Client) get(ctx context.Context, path string, session string) (Document, error) {
	r, err := req.NewGet(ctx, c.baseURL+path, session)
	if err != nil {
		return nil, err
	}
	return c.do(r, path)
}

// post issues a JSON write. A nil body is sent as an empty request body.
func (c *Client) post(ctx context.Context, path string, session string, body any) (Document, error) {
	r, err := req.NewPost(ctx, c.baseURL+path, session, body)
	if err != nil {
		return nil, err
	}
	return c.do(r, path)
}

// do performs r and normalizes the outcome. Transport errors are returned as-is.
func (c *Client) do(r *http.Request, path string) (Document, error) {
	start := time.Now()

	res, err := c.httpClient.Do(r)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("method", r.Method).
			Str("endpoint", endpointName(path)).
			Msg("API request failed before a response")
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &MalformedResponseError{Status: res.StatusCode, Err: err}
	}

	success := res.StatusCode >= 200 && res.StatusCode < 300

	c.logger.Debug().
		Str("method", r.Method).
		Str("endpoint", endpointName(path)).
		Int("status", res.StatusCode).
		Int("bytes", len(raw)).
		Dur("latency", time.Since(start)).
		Msg("API request completed")

	doc, err := parseDocument(raw, success)
	if err != nil {
		return nil, &MalformedResponseError{Status: res.StatusCode, Err: err}
	}

	if !success {
		return nil, &APIError{Status: res.StatusCode, Body: doc}
	}

	return doc, nil
}

// parseDocument validates raw as JSON. An empty body is accepted only on success.
func parseDocument(raw []byte, success bool) (Document, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		if success {
			return nil, nil
		}
		return nil, errEmptyBody
	}

	if !json.Valid(raw) {
		return nil, errNotJSON
	}

	return Document(raw), nil
}
