package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

var (
	ErrUnknownDriver = errors.New("unknown blob driver")
	ErrMissingBucket = errors.New("s3 driver requires S3_BUCKET")
	ErrInvalidDelay  = errors.New("save delay must be positive")
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Jobbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level slog.Level `envconfig:"LOG_LEVEL" default:"info"`
		File  string     `envconfig:"LOG_FILE"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Blob struct {
		Driver      blob.Driver `envconfig:"BLOB_DRIVER" default:"fs"`
		Dir         string      `envconfig:"BLOB_DIR" default:"./data"`
		ClientsPath string      `envconfig:"BLOB_CLIENTS_PATH" default:"clients.csv"`
		JobsPath    string      `envconfig:"BLOB_JOBS_PATH" default:"jobs.csv"`

		DescriptionsPath string `envconfig:"BLOB_DESCRIPTIONS_PATH" default:"descriptions.csv"`

		// File is the database file of the sqlite and bolt drivers.
		File string `envconfig:"BLOB_FILE" default:"./data/jobbook.db"`
	}

	S3 struct {
		Bucket    string `envconfig:"S3_BUCKET"`
		Region    string `envconfig:"S3_REGION" default:"us-east-1"`
		Endpoint  string `envconfig:"S3_ENDPOINT"`
		PathStyle bool   `envconfig:"S3_PATH_STYLE" default:"false"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"jobbook"`
	}

	Store struct {
		SaveDelay time.Duration `envconfig:"STORE_SAVE_DELAY" default:"10s"`
	}

	Import struct {
		DefaultVAT decimal.Decimal `envconfig:"IMPORT_DEFAULT_VAT" default:"0.19"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	CORS struct {
		Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate checks the combinations envconfig cannot express with tags.
func (c *Config) Validate() error {
	if !c.Blob.Driver.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Blob.Driver)
	}

	if c.Blob.Driver == blob.DriverS3 && c.S3.Bucket == "" {
		return ErrMissingBucket
	}

	if c.Store.SaveDelay <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDelay, c.Store.SaveDelay)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
