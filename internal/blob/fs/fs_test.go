package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/fs"
)

func TestTransport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tr, err := fs.New(dir)
	require.NoError(t, err)

	require.NoError(t, tr.Upload(ctx, "clients.csv", []byte("1,Acme")))

	got, err := tr.Download(ctx, "clients.csv")
	require.NoError(t, err)
	assert.Equal(t, "1,Acme", string(got))

	onDisk, err := os.ReadFile(filepath.Join(dir, "clients.csv"))
	require.NoError(t, err)
	assert.Equal(t, "1,Acme", string(onDisk))
}

func TestTransport_NestedKey(t *testing.T) {
	ctx := context.Background()

	tr, err := fs.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, tr.Upload(ctx, "books/2024/jobs.csv", []byte("x")))

	got, err := tr.Download(ctx, "books/2024/jobs.csv")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestTransport_Missing(t *testing.T) {
	tr, err := fs.New(t.TempDir())
	require.NoError(t, err)

	_, err = tr.Download(context.Background(), "jobs.csv")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestTransport_RejectsBadKeys(t *testing.T) {
	tr, err := fs.New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "  ", "/etc/passwd", "../escape.csv", "a/../../b.csv"} {
		t.Run(key, func(t *testing.T) {
			err := tr.Upload(context.Background(), key, []byte("x"))
			assert.Error(t, err)
			assert.NotErrorIs(t, err, blob.ErrNotFound)
		})
	}
}

func TestTransport_CancelledContext(t *testing.T) {
	tr, err := fs.New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tr.Upload(ctx, "jobs.csv", nil), context.Canceled)
}
