// Package metrics defines prometheus counters for relay runs
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// result label values
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

var (
	// PostsRelayed counts feed posts relayed to the sink, by result
	PostsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redhook_posts_relayed_total",
			Help: "Total number of feed posts relayed to the webhook",
		},
		[]string{"result"},
	)

	// UploadsRelayed counts uploaded files relayed to the sink, by result
	UploadsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redhook_uploads_relayed_total",
			Help: "Total number of uploaded files relayed to the webhook",
		},
		[]string{"result"},
	)

	// LedgerErrors counts ledger load and save failures
	LedgerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redhook_ledger_errors_total",
			Help: "Total number of sent posts ledger errors",
		},
		[]string{"op"},
	)

	// RelayRuns counts feed relay runs, by outcome status
	RelayRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redhook_relay_runs_total",
			Help: "Total number of feed relay runs",
		},
		[]string{"status"},
	)
)
