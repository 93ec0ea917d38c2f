// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"slices"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/instantsend/instantsend/message"
)

// processOrphanVote buffers a vote whose lock request has not been seen.
func (e *Engine) processOrphanVote(v *Vote) error {
	now := e.clock.Time()
	voteID := v.ID()
	if _, ok := e.orphanVotes[voteID]; ok {
		return nil
	}
	// A rate limited vote is neither buffered nor given a candidate.
	if e.isOrphanSpam(v.Voter(), now) {
		e.metrics.rejectVote("orphan_spam")
		e.log.Debug("masternode is spamming orphan votes",
			log.Stringer("voter", v.Voter()),
			log.Stringer("voteID", voteID),
		)
		return ErrOrphanVoteSpam
	}

	if _, ok := e.candidates[v.TxID]; !ok {
		e.candidates[v.TxID] = newEmptyCandidate(v.TxID, now)
	}
	e.orphanVotes[voteID] = v
	e.log.Debug("buffered orphan vote",
		log.String("txID", message.HashString(v.TxID)),
		log.Stringer("outpoint", v.Outpoint),
		log.Stringer("voter", v.Voter()),
	)

	// The request may be known even though no candidate holds it, for
	// example after the previous candidate timed out.
	entry, ok := e.accepted[v.TxID]
	if !ok || !e.isEnoughOrphanVotesForTx(entry.request) {
		return nil
	}
	_, self := e.selfRequests[v.TxID]
	if err := e.processLockRequest(ids.EmptyNodeID, entry.request, self); err != nil {
		e.log.Debug("failed to reprocess lock request",
			log.String("txID", message.HashString(v.TxID)),
			log.Err(err),
		)
	}
	return nil
}

// isOrphanSpam returns true if [voter] sent an orphan vote within the rate
// window and did so more recently than the average masternode. Otherwise the
// voter's window is restarted.
func (e *Engine) isOrphanSpam(voter message.Outpoint, now time.Time) bool {
	if prev, ok := e.orphanVoterExpiry[voter]; ok && prev.After(now) && prev.Unix() > e.averageOrphanVoterExpiry() {
		return true
	}
	e.orphanVoterExpiry[voter] = now.Add(e.config.OrphanRateWindow)
	return false
}

func (e *Engine) averageOrphanVoterExpiry() int64 {
	if len(e.orphanVoterExpiry) == 0 {
		return 0
	}
	var total int64
	for _, expiry := range e.orphanVoterExpiry {
		total += expiry.Unix()
	}
	return total / int64(len(e.orphanVoterExpiry))
}

// processOrphanVotes applies the buffered votes for [txID] now that its
// request is attached. Votes that fail are kept until they time out.
func (e *Engine) processOrphanVotes(txID ids.ID) {
	orphans := make([]*Vote, 0, e.config.SignaturesTotal)
	for _, v := range e.orphanVotes {
		if v.TxID == txID {
			orphans = append(orphans, v)
		}
	}
	slices.SortFunc(orphans, func(a, b *Vote) int {
		if c := a.createdAt.Compare(b.createdAt); c != 0 {
			return c
		}
		return a.ID().Compare(b.ID())
	})

	for _, v := range orphans {
		cand, ok := e.candidates[txID]
		if !ok || cand.request == nil {
			return
		}
		if err := e.verifyVote(v); err != nil {
			e.metrics.rejectVote("invalid")
			e.log.Debug("dropping invalid orphan vote",
				log.Stringer("voteID", v.ID()),
				log.Err(err),
			)
			continue
		}
		if err := e.applyVote(cand, v); err != nil {
			e.log.Debug("orphan vote was not counted",
				log.Stringer("voteID", v.ID()),
				log.Err(err),
			)
			continue
		}
		delete(e.orphanVotes, v.ID())
	}
}

// isEnoughOrphanVotesForTx returns true if every input of [req] has at least
// the required number of buffered orphan votes.
func (e *Engine) isEnoughOrphanVotesForTx(req *message.LockRequest) bool {
	txID := req.ID()
	counts := make(map[message.Outpoint]int, len(req.Inputs()))
	for _, v := range e.orphanVotes {
		if v.TxID == txID {
			counts[v.Outpoint]++
		}
	}
	for _, op := range req.Inputs() {
		if counts[op] < e.config.SignaturesRequired {
			return false
		}
	}
	return true
}
