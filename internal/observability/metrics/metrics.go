package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes.
const (
	OutcomeSaved    = "saved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// LeadMetrics exposes counters/histograms for the lead intake flow.
type LeadMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	saveLatency        *prometheus.HistogramVec
	notificationsTotal *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "silentequity",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead form submissions by track and outcome",
		}, []string{"service", "outcome"}),
		saveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "silentequity",
			Subsystem: "leads",
			Name:      "save_duration_seconds",
			Help:      "Latency of schema setup plus insert",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "silentequity",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "Post-save lead notifications by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.saveLatency, m.notificationsTotal)
	return m
}

// ObserveSubmission counts one request. service should already be bucketed to a
// known track tag or "other" to keep label cardinality fixed.
func (m *LeadMetrics) ObserveSubmission(service, outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *LeadMetrics) ObserveSaveLatency(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.saveLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *LeadMetrics) ObserveNotification(ok bool) {
	if m == nil {
		return
	}
	status := "delivered"
	if !ok {
		status = "failed"
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}
