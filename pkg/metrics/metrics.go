package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// RunMetrics is the outcome of one run, as exported to Prometheus.
type RunMetrics struct {
	Generated int
	Saved     int
	Skipped   int
	Success   bool
	Duration  time.Duration
	Finished  time.Time
}

// Pusher sends run metrics to a Prometheus Pushgateway. A batch job has no
// scrape endpoint, so metrics are pushed once at the end of the run.
type Pusher struct {
	url string
	job string
}

// NewPusher creates a Pusher for the gateway at url, grouping under job.
func NewPusher(url, job string) *Pusher {
	return &Pusher{url: url, job: job}
}

// Push replaces the metrics of the job on the gateway with m.
func (p *Pusher) Push(m RunMetrics) error {
	registry := prometheus.NewRegistry()

	generated := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daily_agent_records_generated",
		Help: "Intelligence records produced by the generator in the last run.",
	})
	saved := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daily_agent_records_saved",
		Help: "Intelligence rows inserted in the last run.",
	})
	skipped := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daily_agent_records_skipped",
		Help: "Records skipped by the dedup guard in the last run.",
	})
	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daily_agent_success",
		Help: "1 if the last run finished without error, 0 otherwise.",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daily_agent_duration_seconds",
		Help: "Wall time of the last run.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daily_agent_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run.",
	})

	registry.MustRegister(generated, saved, skipped, success, duration)

	generated.Set(float64(m.Generated))
	saved.Set(float64(m.Saved))
	skipped.Set(float64(m.Skipped))
	duration.Set(m.Duration.Seconds())
	pusher := push.New(p.url, p.job).Gatherer(registry)

	if m.Success {
		success.Set(1)
		registry.MustRegister(lastSuccess)
		lastSuccess.Set(float64(m.Finished.Unix()))
		// PUT replaces every metric of the group, including the last success time.
		if err := pusher.Push(); err != nil {
			return fmt.Errorf("failed to push metrics: %w", err)
		}
		return nil
	}

	// POST keeps the last success timestamp of an earlier run.
	if err := pusher.Add(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
