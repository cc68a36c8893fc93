// Package metrics provides the Prometheus registry and the end-of-run push
// for the snapshot tool. Metrics are defined in their respective packages
// (client, pagination, storage); this package documents them and ships them
// to a Pushgateway, since a batch run exits before it could be scraped.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the default Prometheus registry used by the snapshot tool.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source pushed to the Pushgateway.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "seatgeek_snapshot"

// LastSuccess records the completion time of the last successful run.
var LastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "snapshot_last_success_timestamp_seconds",
	Help: "Unix time of the last successful snapshot run",
})

// MarkSuccess sets LastSuccess to t.
func MarkSuccess(t time.Time) {
	LastSuccess.Set(float64(t.Unix()))
}

// PushConfig configures the end-of-run push.
type PushConfig struct {
	// URL of the Pushgateway. Empty disables pushing.
	URL string

	// Job name grouping the pushed metrics.
	Job string
}

// Enabled reports whether a Pushgateway is configured.
func (c PushConfig) Enabled() bool {
	return c.URL != ""
}

// Push replaces the job's metrics on the Pushgateway with the current
// values from Gatherer. It is a no-op when the config is disabled.
func Push(ctx context.Context, cfg PushConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	job := cfg.Job
	if job == "" {
		job = DefaultJob
	}

	if err := push.New(cfg.URL, job).Gatherer(Gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", cfg.URL, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - snapshot_api_requests_total{status} (Counter): Requests by HTTP status or failure kind
//   - snapshot_api_request_duration_seconds (Histogram): Request duration
//   - snapshot_api_errors_total{class} (Counter): Failures by class (client, server, network, unexpected)
//
// Pagination Metrics (pkg/pagination):
//   - snapshot_pages_fetched_total (Counter): Event pages fetched
//   - snapshot_events_accumulated (Gauge): Events accumulated by the last loop
//
// Storage Metrics (pkg/storage):
//   - snapshot_store_inserts_total{backend, result} (Counter): Snapshot inserts
//   - snapshot_store_events{backend} (Gauge): Events in the last stored snapshot
//
// Run Metrics (pkg/metrics):
//   - snapshot_last_success_timestamp_seconds (Gauge): Last successful run
//
// Example Prometheus Queries:
//
//   # Hours since last successful snapshot
//   (time() - snapshot_last_success_timestamp_seconds) / 3600
//
//   # Failed inserts
//   snapshot_store_inserts_total{result="error"}
