package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/postgres"
	"github.com/MrJamesThe3rd/jobbook/internal/database"
)

// Runs only against a real database, e.g.
// JOBBOOK_TEST_DSN=postgres://postgres@localhost:5432/jobbook_test?sslmode=disable
func newTransport(t *testing.T) *postgres.Transport {
	t.Helper()

	dsn := os.Getenv("JOBBOOK_TEST_DSN")
	if dsn == "" {
		t.Skip("JOBBOOK_TEST_DSN not set")
	}

	db, err := database.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tr := postgres.New(db)
	require.NoError(t, tr.EnsureSchema(context.Background()))

	return tr
}

func TestTransport_UploadReplacesAndBumpsRevision(t *testing.T) {
	ctx := context.Background()
	tr := newTransport(t)
	path := "test-" + uuid.NewString() + ".csv"

	require.NoError(t, tr.Upload(ctx, path, []byte("1,Acme")))
	first, err := tr.Revision(ctx, path)
	require.NoError(t, err)

	require.NoError(t, tr.Upload(ctx, path, []byte("1,Acme\n2,Globex")))
	second, err := tr.Revision(ctx, path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := tr.Download(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "1,Acme\n2,Globex", string(got))
}

func TestTransport_DownloadMissing(t *testing.T) {
	tr := newTransport(t)

	_, err := tr.Download(context.Background(), "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, blob.ErrNotFound)
}
