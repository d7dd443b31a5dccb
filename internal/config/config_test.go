package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Jobbook", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, blob.DriverFilesystem, cfg.Blob.Driver)
	assert.Equal(t, "clients.csv", cfg.Blob.ClientsPath)
	assert.Equal(t, "jobs.csv", cfg.Blob.JobsPath)
	assert.Equal(t, "descriptions.csv", cfg.Blob.DescriptionsPath)
	assert.Equal(t, "./data/jobbook.db", cfg.Blob.File)
	assert.Equal(t, 10*time.Second, cfg.Store.SaveDelay)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "0.19", cfg.Import.DefaultVAT.String())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BLOB_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "books")
	t.Setenv("S3_PATH_STYLE", "true")
	t.Setenv("STORE_SAVE_DELAY", "250ms")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, blob.DriverS3, cfg.Blob.Driver)
	assert.Equal(t, "books", cfg.S3.Bucket)
	assert.True(t, cfg.S3.PathStyle)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.SaveDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.Origins)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}

	tests := []testCase{
		{
			name:   "defaults are valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *config.Config) { c.Blob.Driver = "ftp" },
			wantErr: config.ErrUnknownDriver,
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *config.Config) { c.Blob.Driver = blob.DriverS3 },
			wantErr: config.ErrMissingBucket,
		},
		{
			name:    "zero save delay",
			mutate:  func(c *config.Config) { c.Store.SaveDelay = 0 },
			wantErr: config.ErrInvalidDelay,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.Load()
			require.NoError(t, err)

			tc.mutate(cfg)

			err = cfg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestConfig_ConnectionString(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:@localhost:5432/jobbook?sslmode=disable", cfg.ConnectionString())
}
