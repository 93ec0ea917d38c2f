// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"time"

	"github.com/luxfi/instantsend/instantsend/message"
)

// Vote is a received vote together with the local bookkeeping the engine
// needs to age it out.
type Vote struct {
	*message.Vote

	createdAt       time.Time
	confirmedHeight uint64
	confirmed       bool
}

func NewVote(msg *message.Vote, now time.Time) *Vote {
	return &Vote{
		Vote:      msg,
		createdAt: now,
	}
}

// Voter identifies the masternode that cast the vote.
func (v *Vote) Voter() message.Outpoint {
	return v.MasternodeOutpoint
}

func (v *Vote) CreatedAt() time.Time {
	return v.createdAt
}

func (v *Vote) setConfirmedHeight(height uint64) {
	v.confirmedHeight = height
	v.confirmed = true
}

func (v *Vote) clearConfirmedHeight() {
	v.confirmedHeight = 0
	v.confirmed = false
}

// IsExpired returns true once the voted transaction has been buried more than
// [keepDepth] blocks below [height].
func (v *Vote) IsExpired(height, keepDepth uint64) bool {
	return v.confirmed && height > v.confirmedHeight+keepDepth
}

func (v *Vote) IsTimedOut(now time.Time, timeout time.Duration) bool {
	return now.Sub(v.createdAt) > timeout
}
