// Package metrics records forwarding outcomes in Prometheus collectors and
// optionally pushes them to a Pushgateway at the end of an invocation.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/bjaus/fanout"
)

// Metrics holds the forwarder's collectors on a private registry.
type Metrics struct {
	InvocationsTotal *prometheus.CounterVec
	OutcomesTotal    *prometheus.CounterVec
	SkippedTotal     prometheus.Counter
	SendDurationSecs *prometheus.HistogramVec
	InvalidDestTotal prometheus.Counter
	LastReportFailed prometheus.Gauge

	registry *prometheus.Registry
	pusher   *push.Pusher
}

// New creates Metrics. When pushgatewayURL is empty, Push is a no-op.
func New(pushgatewayURL, job string) *Metrics {
	m := &Metrics{
		InvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "s3_forwarder_invocations_total",
			Help: "Invocations by result (forwarded, partial, unrecognized, config_error)",
		}, []string{"result"}),
		OutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "s3_forwarder_destination_outcomes_total",
			Help: "Per-destination outcomes by destination type and error kind",
		}, []string{"type", "error_kind"}),
		SkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "s3_forwarder_destinations_skipped_total",
			Help: "Disabled destinations skipped",
		}),
		SendDurationSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "s3_forwarder_send_duration_seconds",
			Help:    "Duration of individual send attempts",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"type"}),
		InvalidDestTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "s3_forwarder_invalid_destinations_total",
			Help: "Destination validation errors found at load time",
		}),
		LastReportFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "s3_forwarder_last_report_failures",
			Help: "Number of failed destinations in the most recent report",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.InvocationsTotal,
		m.OutcomesTotal,
		m.SkippedTotal,
		m.SendDurationSecs,
		m.InvalidDestTotal,
		m.LastReportFailed,
	)

	if pushgatewayURL != "" {
		m.pusher = push.New(pushgatewayURL, job).Gatherer(m.registry)
	}

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns fanout options that record into m.
func (m *Metrics) Hooks() []fanout.Option {
	outcome := func(_ context.Context, d fanout.Destination, o fanout.Outcome, dur time.Duration) {
		kind := "none"
		if !o.Success {
			kind = o.Error.String()
		}
		m.OutcomesTotal.WithLabelValues(d.Kind.String(), kind).Inc()
		m.SendDurationSecs.WithLabelValues(d.Kind.String()).Observe(dur.Seconds())
	}

	return []fanout.Option{
		fanout.WithOnSuccess(outcome),
		fanout.WithOnFailure(outcome),
		fanout.WithOnSkip(func(context.Context, fanout.Destination) {
			m.SkippedTotal.Inc()
		}),
		fanout.WithOnInvalidDestination(func(context.Context, error) {
			m.InvalidDestTotal.Inc()
		}),
		fanout.WithOnNoShape(func(context.Context, []byte, error) {
			m.InvocationsTotal.WithLabelValues("unrecognized").Inc()
		}),
		fanout.WithOnConfigError(func(context.Context, error) {
			m.InvocationsTotal.WithLabelValues("config_error").Inc()
		}),
		fanout.WithOnComplete(func(_ context.Context, _ fanout.Event, r fanout.Report, _ time.Duration) {
			result := "forwarded"
			if !r.Success() {
				result = "partial"
			}
			m.InvocationsTotal.WithLabelValues(result).Inc()
			m.LastReportFailed.Set(float64(len(r.Failures)))
		}),
	}
}

// Push sends the current metrics to the Pushgateway, if configured.
func (m *Metrics) Push(ctx context.Context) error {
	if m.pusher == nil {
		return nil
	}
	if err := m.pusher.AddContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
