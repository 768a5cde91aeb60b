// Package metrics exposes Prometheus counters for event lifecycle outcomes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "gamemate"

// OutcomeOK labels successful operations.
const OutcomeOK = "ok"

// Metrics holds the lifecycle counters. A nil *Metrics records nothing.
type Metrics struct {
	votes            *prometheus.CounterVec
	ratings          *prometheus.CounterVec
	proposals        *prometheus.CounterVec
	eventsPlanned    prometheus.Counter
	eventsCompleted  prometheus.Counter
	sweepSkipped     prometheus.Counter
	versionConflicts prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Vote attempts by category and outcome.",
		}, []string{"category", "outcome"}),
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_total",
			Help:      "Rating submissions by outcome.",
		}, []string{"outcome"}),
		proposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Proposals added by category.",
		}, []string{"category"}),
		eventsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_planned_total",
			Help:      "Events created.",
		}),
		eventsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_completed_total",
			Help:      "Events moved to completed by a sweep.",
		}),
		sweepSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_skipped_total",
			Help:      "Events a sweep could not evaluate or persist.",
		}),
		versionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_version_conflicts_total",
			Help:      "Conditional writes retried after a concurrent update.",
		}),
	}
	reg.MustRegister(
		m.votes,
		m.ratings,
		m.proposals,
		m.eventsPlanned,
		m.eventsCompleted,
		m.sweepSkipped,
		m.versionConflicts,
	)
	return m
}

// Vote counts a vote attempt.
func (m *Metrics) Vote(category, outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(category, outcome).Inc()
}

// Rating counts a rating submission.
func (m *Metrics) Rating(outcome string) {
	if m == nil {
		return
	}
	m.ratings.WithLabelValues(outcome).Inc()
}

// Proposal counts an added proposal.
func (m *Metrics) Proposal(category string) {
	if m == nil {
		return
	}
	m.proposals.WithLabelValues(category).Inc()
}

// EventPlanned counts a created event.
func (m *Metrics) EventPlanned() {
	if m == nil {
		return
	}
	m.eventsPlanned.Inc()
}

// EventCompleted counts an event flipped to completed.
func (m *Metrics) EventCompleted() {
	if m == nil {
		return
	}
	m.eventsCompleted.Inc()
}

// SweepSkipped counts an event a sweep had to skip.
func (m *Metrics) SweepSkipped() {
	if m == nil {
		return
	}
	m.sweepSkipped.Inc()
}

// VersionConflict counts a retried conditional write.
func (m *Metrics) VersionConflict() {
	if m == nil {
		return
	}
	m.versionConflicts.Inc()
}
