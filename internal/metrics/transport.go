// Package metrics exposes Prometheus instrumentation for blob transfers.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

type Collectors struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytes    *prometheus.CounterVec
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobbook",
			Subsystem: "blob",
			Name:      "operations_total",
			Help:      "Blob transport operations by driver, operation and result.",
		}, []string{"driver", "op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobbook",
			Subsystem: "blob",
			Name:      "operation_duration_seconds",
			Help:      "Latency of blob transport operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"driver", "op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobbook",
			Subsystem: "blob",
			Name:      "bytes_total",
			Help:      "Bytes moved through the blob transport.",
		}, []string{"driver", "op"}),
	}

	reg.MustRegister(c.ops, c.duration, c.bytes)

	return c
}

type instrumented struct {
	next   blob.Transport
	driver string
	c      *Collectors
}

// Instrument wraps t so every call is counted and timed.
func (c *Collectors) Instrument(driver blob.Driver, t blob.Transport) blob.Transport {
	return &instrumented{next: t, driver: string(driver), c: c}
}

func (i *instrumented) Download(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := i.next.Download(ctx, path)
	i.observe("download", start, len(data), err)

	return data, err
}

func (i *instrumented) Upload(ctx context.Context, path string, data []byte) error {
	start := time.Now()
	err := i.next.Upload(ctx, path, data)

	n := len(data)
	if err != nil {
		n = 0
	}

	i.observe("upload", start, n, err)

	return err
}

func (i *instrumented) observe(op string, start time.Time, n int, err error) {
	result := resultOK

	switch {
	case errors.Is(err, blob.ErrNotFound):
		result = resultNotFound
	case err != nil:
		result = resultError
	}

	i.c.ops.WithLabelValues(i.driver, op, result).Inc()
	i.c.duration.WithLabelValues(i.driver, op).Observe(time.Since(start).Seconds())
	i.c.bytes.WithLabelValues(i.driver, op).Add(float64(n))
}
