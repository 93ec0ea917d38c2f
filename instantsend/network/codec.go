// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"errors"
	"fmt"

	"github.com/luxfi/instantsend/instantsend/message"
)

// Op identifies the payload of a gossip message.
type Op byte

const (
	VoteOp Op = iota
	// LockRequestOp carries a transaction announced as a lock request.
	LockRequestOp
	// TxOp carries an ordinary transaction that may be locked automatically.
	TxOp
)

var (
	errEmptyMessage = errors.New("empty message")
	errUnknownOp    = errors.New("unknown message op")
)

func (op Op) String() string {
	switch op {
	case VoteOp:
		return "vote"
	case LockRequestOp:
		return "lock_request"
	case TxOp:
		return "tx"
	default:
		return "unknown"
	}
}

func encode(op Op, payload []byte) []byte {
	msg := make([]byte, 0, 1+len(payload))
	msg = append(msg, byte(op))
	return append(msg, payload...)
}

// EncodeVote returns the gossip message carrying [vote].
func EncodeVote(vote *message.Vote) []byte {
	return encode(VoteOp, vote.Bytes())
}

// EncodeLockRequest returns the gossip message carrying [req].
func EncodeLockRequest(req *message.LockRequest) []byte {
	if req.Explicit {
		return encode(LockRequestOp, req.Bytes())
	}
	return encode(TxOp, req.Bytes())
}

func decode(msg []byte) (Op, []byte, error) {
	if len(msg) == 0 {
		return 0, nil, errEmptyMessage
	}
	op := Op(msg[0])
	if op > TxOp {
		return 0, nil, fmt.Errorf("%w: %d", errUnknownOp, msg[0])
	}
	return op, msg[1:], nil
}
