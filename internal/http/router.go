package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/jobbook/internal/http/auth"
	"github.com/MrJamesThe3rd/jobbook/internal/http/client"
	"github.com/MrJamesThe3rd/jobbook/internal/http/export"
	"github.com/MrJamesThe3rd/jobbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/jobbook/internal/http/invoice"
	"github.com/MrJamesThe3rd/jobbook/internal/http/job"
	"github.com/MrJamesThe3rd/jobbook/internal/http/matching"
	"github.com/MrJamesThe3rd/jobbook/internal/http/system"
)

type Options struct {
	// JWTSecret enables bearer auth on /api when non-empty.
	JWTSecret   []byte
	CORSOrigins []string
	// Gatherer, when set, is served on /metrics.
	Gatherer prometheus.Gatherer
}

func New(
	opts Options,
	clientsV1 *client.Handler,
	jobsV1 *job.Handler,
	invoicesV1 *invoice.Handler,
	importV1 *importcsv.Handler,
	matchingV1 *matching.Handler,
	exportV1 *export.Handler,
	systemV1 *system.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			clientsV1.Routes(r)
			invoicesV1.Routes(r)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			jobsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			matchingV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)

		systemV1.Routes(r)
	})

	return router
}
