package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/app"
	"github.com/MrJamesThe3rd/jobbook/internal/blob"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/memory"
	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
	"github.com/MrJamesThe3rd/jobbook/internal/http/auth"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
	"github.com/MrJamesThe3rd/jobbook/internal/matching"
)

const sheet = "Date;Client;Description;Hours;Rate\n" +
	"01-04-2024;Acme;Workshop;4;80\n" +
	"02-04-2024;Umbrella;Consulting;1;100\n"

// run executes one command against a fresh App over transport, the way a
// separate process would.
func run(t *testing.T, transport blob.Transport, args ...string) string {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Blob.Driver = blob.DriverMemory
	cfg.Store.SaveDelay = time.Hour

	open := func(context.Context) (*app.App, error) {
		return app.New(transport, cfg, nil), nil
	}

	var out bytes.Buffer

	root := newRootCmd(open)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute(), out.String())

	return out.String()
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	transport := memory.New()
	require.NoError(t, transport.Upload(ctx, client.Path, []byte("1,Acme")))
	require.NoError(t, transport.Upload(ctx, job.Path, nil))

	file := filepath.Join(t.TempDir(), "april.csv")
	require.NoError(t, os.WriteFile(file, []byte(sheet), 0o600))

	out := run(t, transport, "learn", "work", "Workshop day")
	assert.Equal(t, "mapping 1: \"work\" -> \"Workshop day\"\n", out)

	_, err := transport.Download(ctx, matching.Path)
	require.NoError(t, err, "learned mappings are flushed on exit")

	assert.Equal(t, "Workshop day\n", run(t, transport, "suggest", "Team WORKSHOP"))
	assert.Equal(t, "no match\n", run(t, transport, "suggest", "Audit"))

	out = run(t, transport, "import", "--dry-run", file)
	assert.Equal(t, "skipped line 3 (Umbrella): unknown client\nwould import 1 jobs\n", out)

	out = run(t, transport, "import", "--create-clients", file)
	assert.Equal(t, "created client \"Umbrella\"\nimported 2 jobs\n", out)

	out = run(t, transport, "status")
	assert.Contains(t, out, "clients          2 records  loaded=true saved=true\n")
	assert.Contains(t, out, "jobs             2 records  loaded=true saved=true\n")
	assert.Contains(t, out, "descriptions     1 records  loaded=true saved=true\n")

	archive := filepath.Join(t.TempDir(), "backup.zip")
	out = run(t, transport, "export", "-o", archive)
	assert.Equal(t, "wrote "+archive+": 2 clients, 2 jobs, 0 invoices\n", out)
	assert.FileExists(t, archive)
}

func TestCommands_ImportRejectsMissingFile(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Blob.Driver = blob.DriverMemory

	root := newRootCmd(func(context.Context) (*app.App, error) {
		return app.New(memory.New(), cfg, nil), nil
	})
	root.SetArgs([]string{"import", filepath.Join(t.TempDir(), "missing.csv")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	opened := false
	open := func(context.Context) (*app.App, error) {
		opened = true
		return nil, errors.New("token must not open the collections")
	}

	var out bytes.Buffer

	root := newRootCmd(open)
	root.SetArgs([]string{"token", "--subject", "ci", "--ttl", "1h"})
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute(), out.String())
	assert.False(t, opened)

	subject, err := auth.Verify(strings.TrimSpace(out.String()), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "ci", subject)
}

func TestTokenCmd_NoSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	var out bytes.Buffer

	root := newRootCmd(func(context.Context) (*app.App, error) { return nil, nil })
	root.SetArgs([]string{"token"})
	root.SetOut(&out)
	root.SetErr(&out)

	assert.ErrorIs(t, root.Execute(), errNoSecret)
}
