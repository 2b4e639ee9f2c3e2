package bankgate

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Guard decision and sign-in outcome labels recorded by the collector.
const (
	GuardAdmittedPublic  = "public"
	GuardAdmitted        = "admitted"
	GuardUnauthenticated = "unauthenticated"
	GuardForbidden       = "forbidden"

	SignInSuccess   = "success"
	SignInChallenge = "challenge"
	SignInRejected  = "rejected"
)

// MetricsCollector is the recording surface used by the guard and resolver.
type MetricsCollector interface {
	RecordGuardDecision(decision string)
	RecordSignIn(outcome string)
	RecordProviderFailure(operation string)
}

// Collector implements MetricsCollector on Prometheus counters.
type Collector struct {
	guardDecisions   *prometheus.CounterVec
	signIns          *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
}

// NewCollector registers the auth metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankgate_guard_decisions_total",
			Help: "Access guard decisions by outcome.",
		}, []string{"decision"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankgate_sign_in_total",
			Help: "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankgate_provider_failures_total",
			Help: "Identity provider call failures by operation.",
		}, []string{"operation"}),
	}

	reg.MustRegister(c.guardDecisions, c.signIns, c.providerFailures)
	return c
}

func (c *Collector) RecordGuardDecision(decision string) {
	c.guardDecisions.WithLabelValues(decision).Inc()
}

func (c *Collector) RecordSignIn(outcome string) {
	c.signIns.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordProviderFailure(operation string) {
	c.providerFailures.WithLabelValues(operation).Inc()
}

type noopMetrics struct{}

func (noopMetrics) RecordGuardDecision(string)   {}
func (noopMetrics) RecordSignIn(string)          {}
func (noopMetrics) RecordProviderFailure(string) {}
