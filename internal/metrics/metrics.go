package metrics

import (
	"errors"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ReorderOperations результаты переупорядочивания по коллекциям: ok, not_found, scope_mismatch, invalid, error
	ReorderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_reorder_operations_total",
			Help: "Reorder requests by collection and outcome",
		},
		[]string{"collection", "result"},
	)

	MediaUploadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_media_upload_bytes_total",
			Help: "Bytes stored by media uploads",
		},
		[]string{"media_type"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_lookups_total",
			Help: "Public cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveReorder учитывает исход переупорядочивания коллекции
func ObserveReorder(collection string, err error) {
	ReorderOperations.WithLabelValues(collection, reorderResult(err)).Inc()
}

func reorderResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrScopeMismatch):
		return "scope_mismatch"
	case errors.Is(err, storage.ErrDuplicateID), models.IsValidationError(err):
		return "invalid"
	default:
		return "error"
	}
}
