package api

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNoSession is returned by authenticated calls on a User without a session,
// typically after Logout. No request is sent.
var ErrNoSession = errors.New("api: user has no session")

var (
	errEmptyBody = errors.New("empty response body")
	errNotJSON   = errors.New("response body is not valid JSON")
)

// APIError is a response with a failing HTTP status. Body is the server's parsed error
// payload; its schema belongs to the server.
type APIError struct {
	Status int
	Body   Document
}

func (e *APIError) Error() string {
	for _, field := range []string{"error", "message"} {
		if msg := e.Body.Get(field); msg.Type == gjson.String {
			return fmt.Sprintf("assassin: %s (HTTP %d)", msg.String(), e.Status)
		}
	}
	return fmt.Sprintf("assassin: HTTP %d: %s", e.Status, e.Body.String())
}

// Get returns the error payload field at path (gjson syntax).
func (e *APIError) Get(path string) gjson.Result {
	return e.Body.Get(path)
}

// MalformedResponseError reports a response body that could not be used: not JSON,
// empty on a failing status, or missing a field the client depends on.
type MalformedResponseError struct {
	Status int
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("assassin: malformed response (HTTP %d): %v", e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
