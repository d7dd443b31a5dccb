// Package postgres keeps blobs in a single Postgres table, one row per path.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

const schema = `
	CREATE TABLE IF NOT EXISTS blobs (
		path       TEXT PRIMARY KEY,
		data       BYTEA NOT NULL,
		revision   UUID NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type Transport struct {
	db *sql.DB
}

func New(db *sql.DB) *Transport {
	return &Transport{db: db}
}

// EnsureSchema creates the blobs table if it does not exist.
func (t *Transport) EnsureSchema(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating blobs table: %w", err)
	}

	return nil
}

func (t *Transport) Download(ctx context.Context, path string) ([]byte, error) {
	var data []byte

	err := t.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE path = $1`, path).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("download %s: %w", path, blob.ErrNotFound)
		}

		return nil, fmt.Errorf("selecting blob %s: %w", path, err)
	}

	return data, nil
}

// Upload replaces the row for path and stamps it with a fresh revision.
func (t *Transport) Upload(ctx context.Context, path string, data []byte) error {
	query := `
		INSERT INTO blobs (path, data, revision, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (path) DO UPDATE
		SET data = EXCLUDED.data, revision = EXCLUDED.revision, updated_at = NOW()
	`

	if _, err := t.db.ExecContext(ctx, query, path, data, uuid.New()); err != nil {
		return fmt.Errorf("upserting blob %s: %w", path, err)
	}

	return nil
}
