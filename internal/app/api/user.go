package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// UserSettings updates account settings. Empty fields are omitted and left unchanged
// by the server; changing the password requires OldPassword.
type UserSettings struct {
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Password    string `json:"password,omitempty"`
	OldPassword string `json:"oldPassword,omitempty"`
	Email       string `json:"email,omitempty"`
}

// GameSettings describes a game when creating or reconfiguring it.
type GameSettings struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Password    string `json:"password,omitempty"`
}

// User is an account with a session. The username never changes; the session is
// cleared by a successful Logout. Methods are safe for concurrent use; each call
// uses the session held when it started.
type User struct {
	client   *Client
	username string

	mu      sync.RWMutex
	session string
}

func newUser(c *Client, username, session string) *User {
	return &User{client: c, username: username, session: session}
}

// Username returns the account name.
func (u *User) Username() string {
	return u.username
}

// Session returns the current session token, or "" after logout.
func (u *User) Session() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.session
}

// LoggedIn reports whether the user holds a session.
func (u *User) LoggedIn() bool {
	return u.Session() != ""
}

func (u *User) currentSession() (string, error) {
	session := u.Session()
	if session == "" {
		return "", ErrNoSession
	}
	return session, nil
}

func (u *User) get(ctx context.Context, path string) (Document, error) {
	session, err := u.currentSession()
	if err != nil {
		return nil, err
	}
	return u.client.get(ctx, path, session)
}

func (u *User) post(ctx context.Context, path string, body any) (Document, error) {
	session, err := u.currentSession()
	if err != nil {
		return nil, err
	}
	return u.client.post(ctx, path, session, body)
}

// Logout ends the session on the server. The local session is cleared only after the
// server confirms; on error it is kept so the call can be retried.
func (u *User) Logout(ctx context.Context) error {
	session, err := u.currentSession()
	if err != nil {
		return err
	}

	if _, err := u.client.post(ctx, pathLogout, session, nil); err != nil {
		return err
	}

	u.mu.Lock()
	if u.session == session {
		u.session = ""
	}
	u.mu.Unlock()

	return nil
}

// GetSettings returns the account's private settings.
func (u *User) GetSettings(ctx context.Context) (Document, error) {
	return u.get(ctx, pathUserSettings)
}

// SetSettings updates the account's settings.
func (u *User) SetSettings(ctx context.Context, settings UserSettings) (Document, error) {
	return u.post(ctx, pathUserSettings, settings)
}

// CreateGame creates a game owned by the user and returns its identifier.
func (u *User) CreateGame(ctx context.Context, settings GameSettings) (string, error) {
	doc, err := u.post(ctx, pathCreateGame, settings)
	if err != nil {
		return "", err
	}

	game := doc.Get("game")
	if !game.Exists() {
		return "", &MalformedResponseError{
			Status: http.StatusOK,
			Err:    errors.New("response carries no game"),
		}
	}

	return game.String(), nil
}

func (u *User) GetGameSettings(ctx context.Context, gameID string) (Document, error) {
	return u.get(ctx, gamePath(pathGameSettings, gameID))
}

func (u *User) SetGameSettings(ctx context.Context, gameID string, settings GameSettings) (Document, error) {
	return u.post(ctx, gamePath(pathGameSettings, gameID), settings)
}

// Join enters a game. An empty password is left out of the request for open games.
func (u *User) Join(ctx context.Context, gameID, password string) (Document, error) {
	return u.post(ctx, gamePath(pathJoin, gameID), struct {
		Password string `json:"password,omitempty"`
	}{password})
}

func (u *User) Leave(ctx context.Context, gameID string) (Document, error) {
	return u.post(ctx, gamePath(pathLeave, gameID), nil)
}

// Kick removes target from a game the user administers. The server exposes this
// through the leave endpoint with a target field.
func (u *User) Kick(ctx context.Context, gameID, target string) (Document, error) {
	return u.post(ctx, gamePath(pathLeave, gameID), struct {
		Target string `json:"target"`
	}{target})
}

func (u *User) Start(ctx context.Context, gameID string) (Document, error) {
	return u.post(ctx, gamePath(pathStart, gameID), nil)
}

// Shuffle reassigns targets.
func (u *User) Shuffle(ctx context.Context, gameID string) (Document, error) {
	return u.post(ctx, gamePath(pathShuffle, gameID), nil)
}

// Status returns the user's private view of the game (target, kill code).
func (u *User) Status(ctx context.Context, gameID string) (Document, error) {
	return u.get(ctx, gamePath(pathStatus, gameID))
}

// Kill reports eliminating the user's target with the target's kill code.
func (u *User) Kill(ctx context.Context, gameID, code string) (Document, error) {
	return u.post(ctx, gamePath(pathKill, gameID), struct {
		Code string `json:"code"`
	}{code})
}
