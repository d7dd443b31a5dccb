package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/jobbook/internal/app"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
)

func main() {
	_ = godotenv.Load()

	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))

		return app.Open(ctx, cfg, logger, nil)
	}

	if err := newRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}
