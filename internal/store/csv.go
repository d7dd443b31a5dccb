package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
	"github.com/MrJamesThe3rd/jobbook/internal/encoding"
)

// NewCSV returns a persistent collection stored as a CSV blob at path.
// defaults is used whenever nothing usable can be downloaded. The caller is
// expected to call Load once before use.
func NewCSV[T any](transport blob.Transport, path string, codec csvcodec.Codec[T], defaults []T, opts ...Option) *Persistent[[]T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.With("path", path)

	load := func(ctx context.Context) ([]T, error) {
		data, err := transport.Download(ctx, path)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				logger.Warn("collection not found, using defaults")
				return defaults, nil
			}

			return nil, fmt.Errorf("downloading %s: %w", path, err)
		}

		text, err := encoding.ToUTF8(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}

		return csvcodec.Decode(path, codec, text)
	}

	save := func(ctx context.Context, records []T) error {
		if err := transport.Upload(ctx, path, csvcodec.Encode(codec, records)); err != nil {
			return fmt.Errorf("uploading %s: %w", path, err)
		}

		return nil
	}

	name := o.name
	if name == "" {
		name = path
	}

	opts = append(opts, WithName(name), WithLogger(logger))

	return NewPersistent(defaults, load, save, opts...)
}
