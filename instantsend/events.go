// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"go.uber.org/zap"

	"github.com/luxfi/ids"

	"github.com/luxfi/instantsend/instantsend/message"
)

type eventKind uint8

const (
	eventRelayVote eventKind = iota
	eventRelayRequest
	eventDoubleVote
	eventLocked
	eventLockFailed
)

// event is a notification produced while the engine mutex is held.
type event struct {
	kind      eventKind
	from      ids.NodeID
	txID      ids.ID
	voter     message.Outpoint
	vote      *message.Vote
	request   *message.LockRequest
	outpoints []message.Outpoint
	// wasLocked is set on a failure of a lock that had been finalized.
	wasLocked bool
}

func (e *Engine) emit(ev event) {
	e.events = append(e.events, ev)
}

// dispatch must be called without holding the engine mutex.
func (e *Engine) dispatch(events []event) {
	for _, ev := range events {
		switch ev.kind {
		case eventRelayVote:
			if e.relayer != nil {
				e.relayer.RelayVote(ev.from, ev.vote)
			}
		case eventRelayRequest:
			if e.relayer != nil {
				e.relayer.RelayLockRequest(ev.from, ev.request)
			}
		case eventDoubleVote:
			e.directory.BanScoreIncrease(ev.voter)
		case eventLocked:
			e.confidence.NotifyLocked(ev.txID)
			if e.store == nil {
				continue
			}
			if err := e.store.PutLock(ev.txID, ev.outpoints); err != nil {
				e.log.Error("failed to persist lock",
					zap.Stringer("txID", ev.txID),
					zap.Error(err),
				)
			}
		case eventLockFailed:
			e.confidence.NotifyLockFailed(ev.txID)
			if e.store == nil || !ev.wasLocked {
				continue
			}
			if err := e.store.DeleteLock(ev.txID); err != nil {
				e.log.Error("failed to delete revoked lock",
					zap.Stringer("txID", ev.txID),
					zap.Error(err),
				)
			}
		}
	}
}
