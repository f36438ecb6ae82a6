// Package metrics содержит метрики Prometheus конвейера импорта заказов.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry объединяет метрики сервиса и собственный реестр Prometheus.
type Registry struct {
	reg             *prometheus.Registry
	OrdersImported  prometheus.Counter
	ImportsFailed   *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ExportedRows    prometheus.Counter
	RemoteFetchSec  prometheus.Histogram
	ImportBatchSize prometheus.Histogram
}

// NewRegistry создаёт и регистрирует метрики.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	imported := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_imported_total",
		Help: "Orders persisted by import-and-summarize.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_import_failures_total",
		Help: "Import batches aborted, by failure stage.",
	}, []string{"stage"})
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cache_hits_total",
		Help: "Order reads served from the cache.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cache_misses_total",
		Help: "Order reads that went to the store or the remote source.",
	})
	exported := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_exported_rows_total",
		Help: "Order rows written to CSV exports.",
	})
	fetchSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orders_remote_fetch_seconds",
		Help:    "Latency of remote order source requests.",
		Buckets: prometheus.DefBuckets,
	})
	batch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orders_import_batch_size",
		Help:    "Records received per imported page.",
		Buckets: []float64{1, 10, 50, 100, 500, 1000},
	})

	r.MustRegister(imported, failed, hits, misses, exported, fetchSec, batch)
	return &Registry{
		reg:             r,
		OrdersImported:  imported,
		ImportsFailed:   failed,
		CacheHits:       hits,
		CacheMisses:     misses,
		ExportedRows:    exported,
		RemoteFetchSec:  fetchSec,
		ImportBatchSize: batch,
	}
}

// Handler отдаёт метрики в формате Prometheus.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
