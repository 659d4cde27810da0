package api

import (
	"context"
	"errors"
	"net/http"
)

// NewAccount is the payload for creating an account. Empty optional fields are omitted.
type NewAccount struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// Credentials identify an existing account.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUser registers a new account and returns it logged in.
func (c *Client) CreateUser(ctx context.Context, account NewAccount) (*User, error) {
	doc, err := c.post(ctx, pathCreateUser, "", account)
	if err != nil {
		return nil, err
	}
	return c.userFromSession(account.Username, doc)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	doc, err := c.post(ctx, pathLogin, "", creds)
	if err != nil {
		return nil, err
	}
	return c.userFromSession(creds.Username, doc)
}

// RestoreUser rebuilds a User from a previously saved username and session.
// An empty session yields a logged-out User.
func (c *Client) RestoreUser(username, session string) *User {
	return newUser(c, username, session)
}

// GetUser fetches a public profile. No session is sent.
func (c *Client) GetUser(ctx context.Context, username string) (Document, error) {
	return c.get(ctx, withQuery(pathUser, "user", username), "")
}

// GetGame fetches the public view of a game. No session is sent.
func (c *Client) GetGame(ctx context.Context, gameID string) (Document, error) {
	return c.get(ctx, gamePath(pathGame, gameID), "")
}

func (c *Client) userFromSession(username string, doc Document) (*User, error) {
	session := doc.Get("session").String()
	if session == "" {
		return nil, &MalformedResponseError{
			Status: http.StatusOK,
			Err:    errors.New("response carries no session"),
		}
	}
	return newUser(c, username, session), nil
}
