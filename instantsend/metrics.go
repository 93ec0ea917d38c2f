// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"github.com/luxfi/metric"

	"github.com/luxfi/instantsend/utils/wrappers"
)

const reasonLabel = "reason"

var reasonLabels = []string{reasonLabel}

type engineMetrics struct {
	numCandidates      metric.Gauge
	numVotes           metric.Gauge
	numOrphanVotes     metric.Gauge
	numLockedOutpoints metric.Gauge

	numLocked      metric.Counter
	numDoubleVotes metric.Counter
	numCollisions  metric.Counter
	numTimedOut    metric.Counter
	numExpired     metric.Counter
	votesAccepted  metric.Counter
	votesRejected  metric.CounterVec
}

func newMetrics(registerer metric.Registerer) (*engineMetrics, error) {
	m := &engineMetrics{
		numCandidates: metric.NewGauge(metric.GaugeOpts{
			Name: "lock_candidates",
			Help: "Number of transactions being voted on",
		}),
		numVotes: metric.NewGauge(metric.GaugeOpts{
			Name: "lock_votes",
			Help: "Number of votes known",
		}),
		numOrphanVotes: metric.NewGauge(metric.GaugeOpts{
			Name: "lock_orphan_votes",
			Help: "Number of votes waiting for their lock request",
		}),
		numLockedOutpoints: metric.NewGauge(metric.GaugeOpts{
			Name: "locked_outpoints",
			Help: "Number of outpoints owned by a finalized lock",
		}),
		numLocked: metric.NewCounter(metric.CounterOpts{
			Name: "locks_finalized",
			Help: "Number of transaction locks finalized",
		}),
		numDoubleVotes: metric.NewCounter(metric.CounterOpts{
			Name: "double_votes",
			Help: "Number of masternodes caught voting for conflicting transactions",
		}),
		numCollisions: metric.NewCounter(metric.CounterOpts{
			Name: "lock_collisions",
			Help: "Number of ready locks that conflicted with an existing lock",
		}),
		numTimedOut: metric.NewCounter(metric.CounterOpts{
			Name: "lock_candidates_timed_out",
			Help: "Number of candidates dropped before becoming ready",
		}),
		numExpired: metric.NewCounter(metric.CounterOpts{
			Name: "lock_candidates_expired",
			Help: "Number of candidates dropped after being confirmed deeply enough",
		}),
		votesAccepted: metric.NewCounter(metric.CounterOpts{
			Name: "votes_accepted",
			Help: "Number of votes counted towards a lock",
		}),
		votesRejected: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "votes_rejected",
				Help: "Number of votes dropped",
			},
			reasonLabels,
		),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.numCandidates)),
		registerer.Register(metric.AsCollector(m.numVotes)),
		registerer.Register(metric.AsCollector(m.numOrphanVotes)),
		registerer.Register(metric.AsCollector(m.numLockedOutpoints)),
		registerer.Register(metric.AsCollector(m.numLocked)),
		registerer.Register(metric.AsCollector(m.numDoubleVotes)),
		registerer.Register(metric.AsCollector(m.numCollisions)),
		registerer.Register(metric.AsCollector(m.numTimedOut)),
		registerer.Register(metric.AsCollector(m.numExpired)),
		registerer.Register(metric.AsCollector(m.votesAccepted)),
		registerer.Register(metric.AsCollector(m.votesRejected)),
	)
	return m, errs.Err
}

func (m *engineMetrics) rejectVote(reason string) {
	m.votesRejected.With(metric.Labels{
		reasonLabel: reason,
	}).Inc()
}

func (m *engineMetrics) update(candidates, votes, orphanVotes, lockedOutpoints int) {
	m.numCandidates.Set(float64(candidates))
	m.numVotes.Set(float64(votes))
	m.numOrphanVotes.Set(float64(orphanVotes))
	m.numLockedOutpoints.Set(float64(lockedOutpoints))
}
