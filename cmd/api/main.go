package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/jobbook/internal/app"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
	jobbookHttp "github.com/MrJamesThe3rd/jobbook/internal/http"
	clientHandler "github.com/MrJamesThe3rd/jobbook/internal/http/client"
	exportHandler "github.com/MrJamesThe3rd/jobbook/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/jobbook/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/jobbook/internal/http/invoice"
	jobHandler "github.com/MrJamesThe3rd/jobbook/internal/http/job"
	matchingHandler "github.com/MrJamesThe3rd/jobbook/internal/http/matching"
	systemHandler "github.com/MrJamesThe3rd/jobbook/internal/http/system"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.Open(ctx, cfg, slog.Default(), reg)
	if err != nil {
		slog.Error("failed to open blob transport", "driver", cfg.Blob.Driver, "error", err)
		os.Exit(1)
	}

	a.Load(ctx)

	router := jobbookHttp.New(
		jobbookHttp.Options{
			JWTSecret:   []byte(cfg.Auth.JWTSecret),
			CORSOrigins: cfg.CORS.Origins,
			Gatherer:    reg,
		},
		clientHandler.NewHandler(a.Clients),
		jobHandler.NewHandler(a.Jobs),
		invoiceHandler.NewHandler(a.Invoices),
		importHandler.NewHandler(a.Imports),
		matchingHandler.NewHandler(a.Matching),
		exportHandler.NewHandler(a.Exports),
		systemHandler.NewHandler(a),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "port", srv.Addr, "driver", cfg.Blob.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if err := a.Flush(shutdownCtx); err != nil {
		slog.Error("failed to save collections", "error", err)
	}

	if err := a.Close(); err != nil {
		slog.Error("failed to close app", "error", err)
	}

	slog.Info("server stopped")
}
