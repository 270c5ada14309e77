package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EnqueuesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchqueue_enqueues_total",
		Help: "Match requests that were debited and enqueued.",
	})

	CancelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchqueue_cancels_total",
		Help: "Queue entries canceled by the user or a disconnect.",
	})

	MatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchqueue_matches_total",
		Help: "Pairs successfully claimed and matched.",
	})

	ClaimConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchqueue_claim_conflicts_total",
		Help: "Pairing attempts that lost the conditional claim to a concurrent attempt or cancel.",
	})

	SweepCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchqueue_sweep_cycles_total",
		Help: "Completed sweep cycles.",
	})

	SweepPairsLast = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchqueue_sweep_pairs_last",
		Help: "Pairs matched by the most recent sweep cycle.",
	})
)
