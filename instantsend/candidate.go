// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/instantsend/instantsend/message"
)

// State is the lifecycle position of a lock candidate.
//
//	Empty -> Pending -> Ready -> Finalized
//	Empty, Pending, Ready, Finalized -> Expired
type State uint8

const (
	// StateEmpty candidates were created by a vote that arrived before its
	// lock request.
	StateEmpty State = iota
	StatePending
	// StateReady candidates have enough votes on every input and are about
	// to be finalized or rejected.
	StateReady
	StateFinalized
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFinalized:
		return "finalized"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Candidate tracks the voting on every input of one transaction.
type Candidate struct {
	txID    ids.ID
	request *message.LockRequest
	// locks is keyed by input and inputs preserves the request's input order.
	locks  map[message.Outpoint]*OutpointLock
	inputs []message.Outpoint
	state  State

	createdAt       time.Time
	confirmedHeight uint64
	confirmed       bool
}

func newEmptyCandidate(txID ids.ID, now time.Time) *Candidate {
	return &Candidate{
		txID:      txID,
		state:     StateEmpty,
		createdAt: now,
	}
}

// NewCandidate creates a pending candidate with one lock per input of [req].
func NewCandidate(req *message.LockRequest, now time.Time, required, total int) *Candidate {
	c := newEmptyCandidate(req.ID(), now)
	c.attach(req, required, total)
	return c
}

func (c *Candidate) attach(req *message.LockRequest, required, total int) {
	c.request = req
	c.locks = make(map[message.Outpoint]*OutpointLock, len(req.Inputs()))
	c.inputs = make([]message.Outpoint, 0, len(req.Inputs()))
	for _, op := range req.Inputs() {
		if _, ok := c.locks[op]; ok {
			continue
		}
		c.locks[op] = NewOutpointLock(op, required, total)
		c.inputs = append(c.inputs, op)
	}
	c.state = StatePending
}

func (c *Candidate) TxID() ids.ID {
	return c.txID
}

// Request is nil while the candidate is empty.
func (c *Candidate) Request() *message.LockRequest {
	return c.request
}

func (c *Candidate) State() State {
	return c.state
}

func (c *Candidate) CreatedAt() time.Time {
	return c.createdAt
}

// Outpoints returns the inputs in request order.
func (c *Candidate) Outpoints() []message.Outpoint {
	return c.inputs
}

func (c *Candidate) OutpointLock(op message.Outpoint) (*OutpointLock, bool) {
	lock, ok := c.locks[op]
	return lock, ok
}

func (c *Candidate) HasOutpoint(op message.Outpoint) bool {
	_, ok := c.locks[op]
	return ok
}

// AddVote adds [v] to the lock of the outpoint it votes on.
func (c *Candidate) AddVote(v *Vote) bool {
	lock, ok := c.locks[v.Outpoint]
	return ok && lock.AddVote(v)
}

func (c *Candidate) HasMasternodeVoted(op, voter message.Outpoint) bool {
	lock, ok := c.locks[op]
	return ok && lock.HasVoted(voter)
}

func (c *Candidate) MarkOutpointAttacked(op message.Outpoint) {
	if lock, ok := c.locks[op]; ok {
		lock.MarkAttacked()
	}
}

// IsAllOutpointsReady returns true if the candidate has inputs and every one
// of them has gathered enough votes.
func (c *Candidate) IsAllOutpointsReady() bool {
	if len(c.locks) == 0 {
		return false
	}
	for _, lock := range c.locks {
		if !lock.IsReady() {
			return false
		}
	}
	return true
}

// CountVotes sums the votes that count towards the lock over all inputs.
func (c *Candidate) CountVotes() int {
	count := 0
	for _, lock := range c.locks {
		count += lock.CountVotes()
	}
	return count
}

func (c *Candidate) setConfirmedHeight(height uint64) {
	c.confirmedHeight = height
	c.confirmed = true
}

func (c *Candidate) clearConfirmedHeight() {
	c.confirmedHeight = 0
	c.confirmed = false
}

// IsExpired returns true if the candidate was rejected or has been buried
// more than [keepDepth] blocks below [height].
func (c *Candidate) IsExpired(height, keepDepth uint64) bool {
	return c.state == StateExpired || (c.confirmed && height > c.confirmedHeight+keepDepth)
}

// IsTimedOut returns true if the candidate failed to become ready within
// [timeout] of its creation.
func (c *Candidate) IsTimedOut(now time.Time, timeout time.Duration) bool {
	return c.state <= StatePending && now.Sub(c.createdAt) > timeout
}
