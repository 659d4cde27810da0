package api

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRequests(t *testing.T) {
	tests := []struct {
		name      string
		call      func(u *User) error
		wantVerb  string
		wantPath  string
		wantQuery string
		wantBody  string
	}{
		{
			name:     "get settings",
			call:     func(u *User) error { _, err := u.GetSettings(context.Background()); return err },
			wantVerb: http.MethodGet,
			wantPath: "/assassin/user-settings",
		},
		{
			name: "set settings",
			call: func(u *User) error {
				_, err := u.SetSettings(context.Background(), UserSettings{Bio: "quiet", Password: "new", OldPassword: "old"})
				return err
			},
			wantVerb: http.MethodPost,
			wantPath: "/assassin/user-settings",
			wantBody: `{"bio":"quiet","password":"new","oldPassword":"old"}`,
		},
		{
			name: "get game settings",
			call: func(u *User) error {
				_, err := u.GetGameSettings(context.Background(), "g1")
				return err
			},
			wantVerb:  http.MethodGet,
			wantPath:  "/assassin/game-settings",
			wantQuery: "game=g1",
		},
		{
			name: "set game settings",
			call: func(u *User) error {
				_, err := u.SetGameSettings(context.Background(), "g1", GameSettings{Name: "Finals", Description: "last round"})
				return err
			},
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/game-settings",
			wantQuery: "game=g1",
			wantBody:  `{"name":"Finals","description":"last round"}`,
		},
		{
			name:      "join",
			call:      func(u *User) error { _, err := u.Join(context.Background(), "g1", "secret"); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/join",
			wantQuery: "game=g1",
			wantBody:  `{"password":"secret"}`,
		},
		{
			name:      "join open game omits password",
			call:      func(u *User) error { _, err := u.Join(context.Background(), "g1", ""); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/join",
			wantQuery: "game=g1",
			wantBody:  `{}`,
		},
		{
			name:      "leave",
			call:      func(u *User) error { _, err := u.Leave(context.Background(), "g1"); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/leave",
			wantQuery: "game=g1",
		},
		{
			name:      "kick reuses leave",
			call:      func(u *User) error { _, err := u.Kick(context.Background(), "g1", "mallory"); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/leave",
			wantQuery: "game=g1",
			wantBody:  `{"target":"mallory"}`,
		},
		{
			name:      "start",
			call:      func(u *User) error { _, err := u.Start(context.Background(), "g1"); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/start",
			wantQuery: "game=g1",
		},
		{
			name:      "shuffle",
			call:      func(u *User) error { _, err := u.Shuffle(context.Background(), "g1"); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/shuffle",
			wantQuery: "game=g1",
		},
		{
			name:      "status",
			call:      func(u *User) error { _, err := u.Status(context.Background(), "g1"); return err },
			wantVerb:  http.MethodGet,
			wantPath:  "/assassin/status",
			wantQuery: "game=g1",
		},
		{
			name:      "kill",
			call:      func(u *User) error { _, err := u.Kill(context.Background(), "g1", "blue-heron"); return err },
			wantVerb:  http.MethodPost,
			wantPath:  "/assassin/kill",
			wantQuery: "game=g1",
			wantBody:  `{"code":"blue-heron"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, http.StatusOK, `{}`)
			u := srv.client().RestoreUser("alice", "sess-1")

			require.NoError(t, tt.call(u))

			got := srv.last(t)
			assert.Equal(t, tt.wantVerb, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantQuery, got.RawQuery)
			assert.Equal(t, "sess-1", got.Header.Get("X-Session-ID"))

			if tt.wantVerb == http.MethodPost {
				assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
			}
			if tt.wantBody == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, string(got.Body))
			}
		})
	}
}

func TestCreateGameReturnsIdentifier(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string id", body: `{"game":"g-abc"}`, want: "g-abc"},
		{name: "numeric id", body: `{"game":42}`, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, http.StatusOK, tt.body)
			u := srv.client().RestoreUser("alice", "sess-1")

			id, err := u.CreateGame(context.Background(), GameSettings{Name: "Dorm", Password: "pw"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)

			got := srv.last(t)
			assert.Equal(t, "/assassin/create-game", got.Path)
			assert.JSONEq(t, `{"name":"Dorm","password":"pw"}`, string(got.Body))
		})
	}
}

func TestCreateGameWithoutGameIsMalformed(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)

	_, err := srv.client().RestoreUser("alice", "s").CreateGame(context.Background(), GameSettings{})

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestLogoutClearsSessionOnSuccess(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)
	u := srv.client().RestoreUser("alice", "sess-1")

	require.NoError(t, u.Logout(context.Background()))

	assert.Equal(t, "", u.Session())
	assert.False(t, u.LoggedIn())
	assert.Equal(t, "alice", u.Username())

	got := srv.last(t)
	assert.Equal(t, "/assassin/logout", got.Path)
	assert.Equal(t, "sess-1", got.Header.Get("X-Session-ID"))
}

func TestLogoutKeepsSessionOnFailure(t *testing.T) {
	srv := newFakeServer(t, http.StatusInternalServerError, `{"error":"try-again"}`)
	u := srv.client().RestoreUser("alice", "sess-1")

	err := u.Logout(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "sess-1", u.Session())

	srv.respond(http.StatusOK, `{}`)
	require.NoError(t, u.Logout(context.Background()))
	assert.Equal(t, "", u.Session())
}

func TestLogoutKeepsSessionOnNetworkFailure(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)
	u := srv.client().RestoreUser("alice", "sess-1")
	srv.Close()

	require.Error(t, u.Logout(context.Background()))
	assert.Equal(t, "sess-1", u.Session())
}

func TestCallsAfterLogoutFailWithoutRequest(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{}`)
	u := srv.client().RestoreUser("alice", "sess-1")
	require.NoError(t, u.Logout(context.Background()))
	before := srv.count()

	ctx := context.Background()
	calls := map[string]func() error{
		"logout":       func() error { return u.Logout(ctx) },
		"settings":     func() error { _, err := u.GetSettings(ctx); return err },
		"set settings": func() error { _, err := u.SetSettings(ctx, UserSettings{Name: "x"}); return err },
		"create game":  func() error { _, err := u.CreateGame(ctx, GameSettings{}); return err },
		"join":         func() error { _, err := u.Join(ctx, "g1", ""); return err },
		"kick":         func() error { _, err := u.Kick(ctx, "g1", "bob"); return err },
		"status":       func() error { _, err := u.Status(ctx, "g1"); return err },
		"kill":         func() error { _, err := u.Kill(ctx, "g1", "c"); return err },
	}

	for name, call := range calls {
		assert.ErrorIs(t, call(), ErrNoSession, name)
	}
	assert.Equal(t, before, srv.count())
}

func TestConcurrentCallsShareSession(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"alive":true}`)
	u := srv.client().RestoreUser("alice", "sess-1")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := u.Status(context.Background(), "g1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, srv.count())
	assert.Equal(t, "sess-1", srv.last(t).Header.Get("X-Session-ID"))
}
