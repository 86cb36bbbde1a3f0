package v1

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	preferenceMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_mutations_total",
			Help: "Preference store mutations by collection and operation",
		},
		[]string{"collection", "op"},
	)

	pendingRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pending_actions_recorded_total",
			Help: "Pending actions recorded for anonymous visitors",
		},
		[]string{"type"},
	)

	pendingReplayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pending_actions_replayed_total",
			Help: "Pending actions replayed after sign-in by outcome",
		},
		[]string{"type", "outcome"},
	)

	malformedValues = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storage_malformed_values_total",
			Help: "Stored values discarded because they were not valid JSON",
		},
	)

	collaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborator_failures_total",
			Help: "Failed fire-and-forget calls to external collaborators",
		},
		[]string{"collaborator"},
	)
)
