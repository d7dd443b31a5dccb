package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

// Revision returns the revision of the last upload to path.
func (t *Transport) Revision(ctx context.Context, path string) (string, error) {
	var rev string

	err := t.db.QueryRowContext(ctx, `SELECT revision FROM blobs WHERE path = ?`, path).Scan(&rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", blob.ErrNotFound
		}

		return "", fmt.Errorf("selecting revision %s: %w", path, err)
	}

	return rev, nil
}
