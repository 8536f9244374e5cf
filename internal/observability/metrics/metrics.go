// Package metrics exposes prometheus instrumentation for the tax engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// EngineMetrics counts sync/recompute activity and, most importantly,
// swallowed cascade failures: a recompute failure after a successful
// state transition is non-fatal by design, so the counter is the only
// place it stays visible.
type EngineMetrics struct {
	paymentSyncs      *prometheus.CounterVec
	recomputeFailures *prometheus.CounterVec
	filingsFiled      *prometheus.CounterVec
	paymentsPaid      *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		paymentSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxrail",
			Name:      "tax_payment_syncs_total",
			Help:      "Tax payment upserts performed by the sync engine.",
		}, []string{"payment_type"}),
		recomputeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxrail",
			Name:      "recompute_failures_total",
			Help:      "Best-effort recomputes that failed and were swallowed.",
		}, []string{"scope"}),
		filingsFiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxrail",
			Name:      "filings_filed_total",
			Help:      "Filings transitioned to filed.",
		}, []string{"filing_type"}),
		paymentsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxrail",
			Name:      "tax_payments_paid_total",
			Help:      "Tax payments transitioned to paid.",
		}, []string{"payment_type"}),
	}
	reg.MustRegister(m.paymentSyncs, m.recomputeFailures, m.filingsFiled, m.paymentsPaid)
	return m
}

func (m *EngineMetrics) PaymentSynced(paymentType string) {
	m.paymentSyncs.WithLabelValues(paymentType).Inc()
}

func (m *EngineMetrics) RecomputeFailure(scope string) {
	m.recomputeFailures.WithLabelValues(scope).Inc()
}

func (m *EngineMetrics) FilingFiled(filingType string) {
	m.filingsFiled.WithLabelValues(filingType).Inc()
}

func (m *EngineMetrics) PaymentPaid(paymentType string) {
	m.paymentsPaid.WithLabelValues(paymentType).Inc()
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	return reg
}

func provideRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

func provideGatherer(reg *prometheus.Registry) prometheus.Gatherer {
	return reg
}

var Module = fx.Module("observability.metrics",
	fx.Provide(newRegistry),
	fx.Provide(provideRegisterer),
	fx.Provide(provideGatherer),
	fx.Provide(NewEngineMetrics),
)
