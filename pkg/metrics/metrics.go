// Package metrics provides the centralized Prometheus metrics registry for
// the recipe browser. All metrics are defined in their respective packages
// (api, store) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the recipe browser.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Store Metrics (pkg/store):
//   - recipe_store_cache_hits_total (Counter): Identity cache hits
//   - recipe_store_cache_misses_total (Counter): Identity cache misses
//   - recipe_store_collection_size (Gauge): Records in the collection snapshot
//   - recipe_store_fetch_failures_total{operation} (Counter): Failed fetches by operation
//
// Request Metrics (pkg/api):
//   - recipe_api_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - recipe_api_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - recipe_api_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Retry Metrics (pkg/api):
//   - recipe_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - recipe_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - recipe_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(recipe_store_cache_hits_total[5m])) /
//   (sum(rate(recipe_store_cache_hits_total[5m])) + sum(rate(recipe_store_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(recipe_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(recipe_api_request_duration_seconds_bucket[5m]))
//
//   # Fetch Failure Rate
//   rate(recipe_store_fetch_failures_total[5m])
