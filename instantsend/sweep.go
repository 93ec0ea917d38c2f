// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"context"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/instantsend/instantsend/message"
)

// CheckAndRemove drops candidates that expired or timed out along with every
// vote, orphan vote and rate limit entry that no longer serves a purpose.
// Nothing is removed while the masternode list is not synced.
func (e *Engine) CheckAndRemove() {
	_ = e.withLock(func() error {
		e.checkAndRemove(e.clock.Time(), e.chain.Height())
		return nil
	})
}

func (e *Engine) checkAndRemove(now time.Time, height uint64) {
	if !e.directory.IsSynced() {
		return
	}

	for txID, cand := range e.candidates {
		switch {
		case cand.IsExpired(height, e.config.KeepLockDepth):
			e.log.Debug("removing expired lock candidate",
				log.String("txID", message.HashString(txID)),
				log.Stringer("state", cand.state),
			)
			e.removeCandidate(cand)
			delete(e.accepted, txID)
			delete(e.rejected, txID)
			e.metrics.numExpired.Inc()
		case cand.IsTimedOut(now, e.config.LockTimeout):
			e.log.Debug("removing timed out lock candidate",
				log.String("txID", message.HashString(txID)),
				log.Stringer("state", cand.state),
				log.Int("numVotes", cand.CountVotes()),
			)
			e.removeCandidate(cand)
			e.metrics.numTimedOut.Inc()
		}
	}

	for voteID, v := range e.votes {
		if _, ok := e.candidates[v.TxID]; !ok || v.IsExpired(height, e.config.KeepLockDepth) {
			delete(e.votes, voteID)
		}
	}

	for voteID, v := range e.orphanVotes {
		if _, ok := e.candidates[v.TxID]; !ok || v.IsTimedOut(now, e.config.OrphanVoteTimeout) {
			delete(e.orphanVotes, voteID)
		}
	}

	for voter, expiry := range e.orphanVoterExpiry {
		if expiry.Before(now) {
			delete(e.orphanVoterExpiry, voter)
		}
	}

	// Requests outlive their candidate for the orphan window so that late
	// votes can still complete them.
	for _, requests := range []map[ids.ID]requestEntry{e.accepted, e.rejected} {
		for txID, entry := range requests {
			if _, ok := e.candidates[txID]; !ok && now.Sub(entry.receivedAt) > e.config.OrphanRateWindow {
				delete(requests, txID)
			}
		}
	}
}

// NotifyLockStatus reports a lock failure for every locally submitted request
// that has not locked within the configured timeout.
func (e *Engine) NotifyLockStatus() {
	_ = e.withLock(func() error {
		e.notifyLockStatus(e.clock.Time())
		return nil
	})
}

func (e *Engine) notifyLockStatus(now time.Time) {
	for txID, submittedAt := range e.selfRequests {
		if e.isLocked(txID) {
			delete(e.selfRequests, txID)
			continue
		}
		if now.Sub(submittedAt) <= e.config.LockFailedTimeout {
			continue
		}

		e.log.Info("lock failed",
			log.String("txID", message.HashString(txID)),
			log.Duration("elapsed", now.Sub(submittedAt)),
		)
		delete(e.selfRequests, txID)
		e.emit(event{
			kind: eventLockFailed,
			txID: txID,
		})
	}
}

// Run sweeps the engine every sweep interval until [ctx] is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.CheckAndRemove()
			e.NotifyLockStatus()
		}
	}
}
