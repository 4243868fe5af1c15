package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request durations and outcomes.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	reg.MustRegister(duration)
	return &HTTPMetrics{duration: duration}
}

// ObserveRequest records one handled request.
func (h *HTTPMetrics) ObserveRequest(method string, status int, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// GateMetrics counts request-gate classifications.
type GateMetrics struct {
	decisions *prometheus.CounterVec
}

// NewGateMetrics registers the gate decision counter.
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	if reg == nil {
		return &GateMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_decisions_total",
		Help: "Request gate decisions by outcome.",
	}, []string{"outcome", "target"})
	reg.MustRegister(decisions)
	return &GateMetrics{decisions: decisions}
}

// IncAllow counts an allowed navigation.
func (g *GateMetrics) IncAllow() {
	if g == nil || g.decisions == nil {
		return
	}
	g.decisions.WithLabelValues("allow", "").Inc()
}

// IncRedirect counts a redirect to the named target.
func (g *GateMetrics) IncRedirect(target string) {
	if g == nil || g.decisions == nil {
		return
	}
	g.decisions.WithLabelValues("redirect", normalizeLabel(target)).Inc()
}

// ReminderMetrics counts reminder trigger evaluations.
type ReminderMetrics struct {
	triggers *prometheus.CounterVec
}

// NewReminderMetrics registers the reminder trigger counter.
func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	if reg == nil {
		return &ReminderMetrics{}
	}
	triggers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_triggers_total",
		Help: "Reminder evaluations by trigger kind and outcome.",
	}, []string{"trigger", "outcome"})
	reg.MustRegister(triggers)
	return &ReminderMetrics{triggers: triggers}
}

// IncTrigger counts one evaluation outcome for the named trigger kind.
func (r *ReminderMetrics) IncTrigger(trigger, outcome string) {
	if r == nil || r.triggers == nil {
		return
	}
	r.triggers.WithLabelValues(normalizeLabel(trigger), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
