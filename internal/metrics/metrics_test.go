package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Vote("games", OutcomeOK)
	m.Vote("games", OutcomeOK)
	m.Vote("games", "ALREADY_VOTED")
	m.Rating(OutcomeOK)
	m.EventCompleted()

	if got := testutil.ToFloat64(m.votes.WithLabelValues("games", OutcomeOK)); got != 2 {
		t.Errorf("votes ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.votes.WithLabelValues("games", "ALREADY_VOTED")); got != 1 {
		t.Errorf("votes already_voted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ratings.WithLabelValues(OutcomeOK)); got != 1 {
		t.Errorf("ratings ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsCompleted); got != 1 {
		t.Errorf("events completed = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Vote("food", OutcomeOK)
	m.Rating(OutcomeOK)
	m.Proposal("food")
	m.EventPlanned()
	m.EventCompleted()
	m.SweepSkipped()
	m.VersionConflict()
}
