// Package bolt keeps blobs in a single bbolt bucket keyed by path.
package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

var bucket = []byte("blobs")

const openTimeout = time.Second

type Transport struct {
	db *bbolt.DB
}

// Open opens (or creates) the bolt file at path. Only one process may hold
// it; a second Open fails after openTimeout.
func Open(path string) (*Transport, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Transport{db: db}, nil
}

func (t *Transport) Close() error {
	return t.db.Close()
}

func (t *Transport) Download(_ context.Context, path string) ([]byte, error) {
	var data []byte

	err := t.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(path))
		if v == nil {
			return fmt.Errorf("download %s: %w", path, blob.ErrNotFound)
		}

		// v is only valid inside the transaction.
		data = append([]byte(nil), v...)

		return nil
	})

	return data, err
}

func (t *Transport) Upload(_ context.Context, path string, data []byte) error {
	if err := t.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(path), data)
	}); err != nil {
		return fmt.Errorf("putting blob %s: %w", path, err)
	}

	return nil
}
