// Package sqlite keeps blobs in a local SQLite file, one row per path.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

const schema = `
	CREATE TABLE IF NOT EXISTS blobs (
		path       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		revision   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)
`

type Transport struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path and prepares the table.
func Open(ctx context.Context, path string) (*Transport, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	// SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating blobs table: %w", err)
	}

	return &Transport{db: db}, nil
}

func (t *Transport) Close() error {
	return t.db.Close()
}

func (t *Transport) Download(ctx context.Context, path string) ([]byte, error) {
	var data []byte

	err := t.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE path = ?`, path).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("download %s: %w", path, blob.ErrNotFound)
		}

		return nil, fmt.Errorf("selecting blob %s: %w", path, err)
	}

	return data, nil
}

func (t *Transport) Upload(ctx context.Context, path string, data []byte) error {
	query := `
		INSERT INTO blobs (path, data, revision, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE
		SET data = excluded.data, revision = excluded.revision, updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := t.db.ExecContext(ctx, query, path, data, uuid.NewString(), now); err != nil {
		return fmt.Errorf("upserting blob %s: %w", path, err)
	}

	return nil
}
