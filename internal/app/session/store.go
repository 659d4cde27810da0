/*
Package session remembers the logged-in account between runs.

A Store holds a single saved Record per profile: the username and the opaque session
token the server issued. It is written after login or account creation and cleared
after a successful logout. The token is stored verbatim and never inspected.
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"assassin/internal/app/api"
	"assassin/internal/app/db"
	"assassin/internal/configs"
)

// ErrNotFound is returned by Load when nothing is saved.
var ErrNotFound = errors.New("session: nothing saved")

// Record is a saved login.
type Record struct {
	Username string    `json:"username"`
	Session  string    `json:"session"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store persists at most one Record.
type Store interface {
	// Load returns the saved record or ErrNotFound.
	Load(ctx context.Context) (Record, error)

	// Save replaces the saved record.
	Save(ctx context.Context, rec Record) error

	// Clear removes the saved record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Open returns the Store selected by cfg.
func Open(ctx context.Context, cfg configs.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case configs.SessionBackendFile:
		return NewFileStore(profileFile(cfg.File, cfg.Profile)), nil
	case configs.SessionBackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open session database: %w", err)
		}
		return NewPostgresStore(pool, cfg.Profile), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// DefaultProfile shares the configured session file unchanged.
const DefaultProfile = "default"

// profileFile derives a per-profile file next to path, e.g. session-work.json.
func profileFile(path, profile string) string {
	if profile == "" || profile == DefaultProfile {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + profile + ext
}

// Remember saves the user's current session.
func Remember(ctx context.Context, store Store, u *api.User) error {
	if !u.LoggedIn() {
		return api.ErrNoSession
	}
	return store.Save(ctx, Record{
		Username: u.Username(),
		Session:  u.Session(),
		SavedAt:  time.Now().UTC(),
	})
}

// Restore rebuilds the saved user against client.
func Restore(ctx context.Context, store Store, client *api.Client) (*api.User, error) {
	rec, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec.Session == "" {
		return nil, ErrNotFound
	}
	return client.RestoreUser(rec.Username, rec.Session), nil
}
