// Package metrics counts construction attempts and failover decisions.
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "failover"

var (
	// Attempts tracks construction attempts per class
	Attempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "construct_attempts_total",
			Help:      "Total number of construction attempts",
		},
		[]string{"class"},
	)

	// PredictedFailures tracks failures caught by the attribute checker
	PredictedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predicted_failures_total",
			Help:      "Total number of construction failures predicted before construction",
		},
		[]string{"class", "kind"},
	)

	// RaisedFailures tracks errors returned by real constructors
	RaisedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raised_failures_total",
			Help:      "Total number of errors returned by constructors",
		},
		[]string{"class"},
	)

	// Hops tracks transitions from a failed class to its next candidate
	Hops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hops_total",
			Help:      "Total number of failover hops",
		},
		[]string{"from", "to"},
	)

	// Exhausted tracks chains that ended without any candidate left
	Exhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exhausted_total",
			Help:      "Total number of constructions that failed with no candidate left",
		},
		[]string{"class"},
	)

	// Rebinds tracks in-place rebinding outcomes per candidate class
	Rebinds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebinds_total",
			Help:      "Total number of in-place rebinding attempts",
		},
		[]string{"class", "outcome"},
	)
)

// Rebind outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomePredicted  = "predicted"
	OutcomeRolledBack = "rolled_back"
)

// Write prints the failover metric families gathered from g in the
// Prometheus text format.
func Write(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}

		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
