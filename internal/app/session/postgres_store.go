package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"assassin/internal/app/db"
)

// PostgresStore keeps one record per profile in the saved_sessions table, so several
// machines can share a login.
type PostgresStore struct {
	pool    *pgxpool.Pool
	profile string
}

// NewPostgresStore returns a store for profile. The store owns pool and closes it.
func NewPostgresStore(pool *pgxpool.Pool, profile string) *PostgresStore {
	return &PostgresStore{pool: pool, profile: profile}
}

func (ps *PostgresStore) Load(ctx context.Context) (Record, error) {
	var rec Record
	err := ps.pool.QueryRow(ctx,
		`SELECT username, session, saved_at FROM saved_sessions WHERE profile = $1`,
		ps.profile,
	).Scan(&rec.Username, &rec.Session, &rec.SavedAt)

	if db.IsNoRows(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load saved session: %w", err)
	}

	return rec, nil
}

func (ps *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO saved_sessions (profile, username, session, saved_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (profile) DO UPDATE
		 SET username = EXCLUDED.username, session = EXCLUDED.session, saved_at = EXCLUDED.saved_at`,
		ps.profile, rec.Username, rec.Session, rec.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Clear(ctx context.Context) error {
	if _, err := ps.pool.Exec(ctx, `DELETE FROM saved_sessions WHERE profile = $1`, ps.profile); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	ps.pool.Close()
	return nil
}
