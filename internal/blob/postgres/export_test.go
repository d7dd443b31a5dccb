package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

// Revision returns the revision of the last upload to path.
func (t *Transport) Revision(ctx context.Context, path string) (uuid.UUID, error) {
	var rev uuid.UUID

	err := t.db.QueryRowContext(ctx, `SELECT revision FROM blobs WHERE path = $1`, path).Scan(&rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, blob.ErrNotFound
		}

		return uuid.Nil, fmt.Errorf("selecting revision %s: %w", path, err)
	}

	return rev, nil
}
