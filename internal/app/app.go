// Package app assembles the transport, the persistent collections and the
// services on top of them. Both binaries build exactly one App.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/bolt"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/fs"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/memory"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/postgres"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/s3"
	"github.com/MrJamesThe3rd/jobbook/internal/blob/sqlite"
	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
	"github.com/MrJamesThe3rd/jobbook/internal/database"
	"github.com/MrJamesThe3rd/jobbook/internal/export"
	"github.com/MrJamesThe3rd/jobbook/internal/importer"
	"github.com/MrJamesThe3rd/jobbook/internal/invoice"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
	"github.com/MrJamesThe3rd/jobbook/internal/matching"
	"github.com/MrJamesThe3rd/jobbook/internal/metrics"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

type App struct {
	Clients  *client.Handler
	Jobs     *job.Handler
	Invoices *invoice.Service
	Imports  *importer.Service
	Matching *matching.Service
	Exports  *export.Service

	clients      *store.Persistent[[]client.Client]
	jobs         *store.Persistent[[]job.Job]
	descriptions *store.Persistent[[]matching.Mapping]
	closer       io.Closer
	logger       *slog.Logger
}

// StoreStatus is the sync state of one collection.
type StoreStatus struct {
	Name    string `json:"name"`
	Loaded  bool   `json:"loaded"`
	Saved   bool   `json:"saved"`
	Records int    `json:"records"`
}

type Status struct {
	Clients      StoreStatus `json:"clients"`
	Jobs         StoreStatus `json:"jobs"`
	Descriptions StoreStatus `json:"descriptions"`
}

// Open connects the configured blob driver, instruments it when reg is not
// nil and builds the App on top of it. The collections are not loaded yet.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	transport, closer, err := openTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if reg != nil {
		transport = metrics.NewCollectors(reg).Instrument(cfg.Blob.Driver, transport)
	}

	a := New(transport, cfg, logger)
	a.closer = closer

	return a, nil
}

// New builds the collections and services over an already opened transport.
func New(transport blob.Transport, cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	opts := func(name string) []store.Option {
		return []store.Option{
			store.WithSaveDelay(cfg.Store.SaveDelay),
			store.WithLogger(logger),
			store.WithName(name),
		}
	}

	a := &App{logger: logger}

	a.clients = store.NewCSV(transport, cfg.Blob.ClientsPath, client.Codec{}, client.Defaults, opts("clients")...)
	a.jobs = store.NewCSV(transport, cfg.Blob.JobsPath, job.Codec{}, job.Defaults, opts("jobs")...)
	a.descriptions = store.NewCSV(transport, cfg.Blob.DescriptionsPath, matching.Codec{}, []matching.Mapping{}, opts("descriptions")...)

	a.Clients = client.NewHandler(a.clients)
	a.Jobs = job.NewHandler(a.jobs)
	a.Invoices = invoice.NewService(a.Clients, a.Jobs)
	a.Matching = matching.NewService(a.descriptions)
	a.Imports = importer.NewService(importer.NewParser(cfg.Import.DefaultVAT), a.Clients, a.Jobs, a.Matching)
	a.Exports = export.NewService(a.Clients, a.Jobs, a.Invoices)

	return a
}

// openTransport returns the driver's transport and, for drivers holding a
// connection or file, what to close on shutdown.
func openTransport(ctx context.Context, cfg *config.Config) (blob.Transport, io.Closer, error) {
	switch cfg.Blob.Driver {
	case blob.DriverFilesystem:
		t, err := fs.New(cfg.Blob.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening fs transport: %w", err)
		}

		return t, nil, nil
	case blob.DriverMemory:
		return memory.New(), nil, nil
	case blob.DriverS3:
		t, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening s3 transport: %w", err)
		}

		return t, nil, nil
	case blob.DriverPostgres:
		db, err := database.Open(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		t := postgres.New(db)
		if err := t.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("preparing blob table: %w", err)
		}

		return t, db, nil
	case blob.DriverSQLite:
		t, err := sqlite.Open(ctx, cfg.Blob.File)
		if err != nil {
			return nil, nil, err
		}

		return t, t, nil
	case blob.DriverBolt:
		t, err := bolt.Open(cfg.Blob.File)
		if err != nil {
			return nil, nil, err
		}

		return t, t, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Blob.Driver)
}

// Load fetches every collection. Failures fall back to the defaults inside
// the stores, so Load cannot fail.
func (a *App) Load(ctx context.Context) {
	a.clients.Load(ctx)
	a.jobs.Load(ctx)
	a.descriptions.Load(ctx)

	a.logger.Info("collections loaded",
		"clients", len(a.clients.Get()),
		"jobs", len(a.jobs.Get()),
		"descriptions", len(a.descriptions.Get()),
	)
}

// Flush writes every collection with unsaved changes.
func (a *App) Flush(ctx context.Context) error {
	return errors.Join(a.clients.Flush(ctx), a.jobs.Flush(ctx), a.descriptions.Flush(ctx))
}

// Sync writes every collection, dirty or not.
func (a *App) Sync(ctx context.Context) error {
	return errors.Join(a.clients.Save(ctx), a.jobs.Save(ctx), a.descriptions.Save(ctx))
}

func (a *App) Status() Status {
	return Status{
		Clients:      statusOf(a.clients),
		Jobs:         statusOf(a.jobs),
		Descriptions: statusOf(a.descriptions),
	}
}

func statusOf[T any](p *store.Persistent[[]T]) StoreStatus {
	return StoreStatus{
		Name:    p.Name(),
		Loaded:  p.Loaded(),
		Saved:   p.Saved(),
		Records: len(p.Get()),
	}
}

// Close cancels pending debounced saves and releases the database or file
// held by the driver, if any.
// Call Flush first to keep unsaved changes.
func (a *App) Close() error {
	a.clients.Close()
	a.jobs.Close()
	a.descriptions.Close()

	if a.closer != nil {
		return a.closer.Close()
	}

	return nil
}
