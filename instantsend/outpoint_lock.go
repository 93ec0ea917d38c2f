// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"slices"

	"github.com/luxfi/instantsend/instantsend/message"
)

// OutpointLock collects the votes that one input of a transaction should be
// locked to it. Each masternode contributes at most one vote.
type OutpointLock struct {
	outpoint message.Outpoint
	required int
	total    int
	votes    map[message.Outpoint]*Vote
	attacked bool
}

func NewOutpointLock(outpoint message.Outpoint, required, total int) *OutpointLock {
	return &OutpointLock{
		outpoint: outpoint,
		required: required,
		total:    total,
		votes:    make(map[message.Outpoint]*Vote, total),
	}
}

func (l *OutpointLock) Outpoint() message.Outpoint {
	return l.outpoint
}

// AddVote returns false if the voter already voted on this outpoint or the
// lock already holds the maximum number of votes.
func (l *OutpointLock) AddVote(v *Vote) bool {
	voter := v.Voter()
	if _, ok := l.votes[voter]; ok {
		return false
	}
	if len(l.votes) >= l.total {
		return false
	}
	l.votes[voter] = v
	return true
}

func (l *OutpointLock) HasVoted(voter message.Outpoint) bool {
	_, ok := l.votes[voter]
	return ok
}

// Votes returns the votes ordered by voter.
func (l *OutpointLock) Votes() []*Vote {
	votes := make([]*Vote, 0, len(l.votes))
	for _, v := range l.votes {
		votes = append(votes, v)
	}
	slices.SortFunc(votes, func(a, b *Vote) int {
		return a.Voter().Compare(b.Voter())
	})
	return votes
}

// CountVotes returns the number of votes that count towards the lock. An
// attacked outpoint counts none.
func (l *OutpointLock) CountVotes() int {
	if l.attacked {
		return 0
	}
	return len(l.votes)
}

func (l *OutpointLock) IsReady() bool {
	return !l.attacked && len(l.votes) >= l.required
}

// MarkAttacked permanently prevents the outpoint from becoming ready.
func (l *OutpointLock) MarkAttacked() {
	l.attacked = true
}

func (l *OutpointLock) IsAttacked() bool {
	return l.attacked
}
