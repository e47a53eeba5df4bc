// Package metrics records run metrics and pushes them to a Prometheus Pushgateway.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const jobName = "storybook_link_comment"

// Recorder holds the metrics of one run on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	apiCalls    *prometheus.CounterVec
	upserts     *prometheus.CounterVec
	lastSuccess prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		apiCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "storybook_link_comment_api_calls_total", Help: "GitHub API calls by operation and result"},
			[]string{"operation", "result"},
		),
		upserts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "storybook_link_comment_upserts_total", Help: "Comment upserts by action"},
			[]string{"action"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "storybook_link_comment_last_success_timestamp_seconds", Help: "Unix time of the last successful run"},
		),
	}
	r.registry.MustRegister(r.apiCalls, r.upserts, r.lastSuccess)
	return r
}

// ObserveCall counts an API call.
func (r *Recorder) ObserveCall(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.apiCalls.WithLabelValues(operation, result).Inc()
}

// ObserveUpsert counts an upsert outcome.
func (r *Recorder) ObserveUpsert(action string) {
	r.upserts.WithLabelValues(action).Inc()
}

// MarkSuccess records the run finished successfully.
func (r *Recorder) MarkSuccess() {
	r.lastSuccess.SetToCurrentTime()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push sends all metrics to the Pushgateway at url, grouped by repository.
func (r *Recorder) Push(ctx context.Context, url, repository string) error {
	pusher := push.New(url, jobName).Gatherer(r.registry)
	if repository != "" {
		pusher = pusher.Grouping("repository", repository)
	}
	if err := pusher.AddContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
