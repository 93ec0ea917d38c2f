// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/luxfi/ids"
)

var ErrInvalidOutputValue = errors.New("output value out of range")

// LockRequest is a transaction whose inputs are asked to be locked. Explicit
// requests were announced as lock requests by their sender. Implicit ones are
// ordinary transactions that are eligible for automatic locking.
type LockRequest struct {
	Tx       *wire.MsgTx
	Explicit bool

	id     ids.ID
	inputs []Outpoint
	bytes  []byte
}

// NewLockRequest wraps [tx].
func NewLockRequest(tx *wire.MsgTx, explicit bool) (*LockRequest, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSizeStripped())
	if err := tx.SerializeNoWitness(&buf); err != nil {
		return nil, fmt.Errorf("couldn't serialize transaction: %w", err)
	}

	inputs := make([]Outpoint, len(tx.TxIn))
	for i, in := range tx.TxIn {
		inputs[i] = OutpointFromWire(in.PreviousOutPoint)
	}
	return &LockRequest{
		Tx:       tx,
		Explicit: explicit,
		id:       ids.ID(tx.TxHash()),
		inputs:   inputs,
		bytes:    buf.Bytes(),
	}, nil
}

// ParseLockRequest decodes a serialized transaction.
func ParseLockRequest(b []byte, explicit bool) (*LockRequest, error) {
	r := bytes.NewReader(b)
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return nil, fmt.Errorf("couldn't parse transaction: %w", err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d", ErrTrailingBytes, r.Len())
	}
	return NewLockRequest(tx, explicit)
}

// ID is the transaction hash.
func (r *LockRequest) ID() ids.ID {
	return r.id
}

// Bytes returns the serialized transaction.
func (r *LockRequest) Bytes() []byte {
	return r.bytes
}

// Inputs returns the outpoints spent by the transaction in input order.
func (r *LockRequest) Inputs() []Outpoint {
	return r.inputs
}

func (r *LockRequest) NumOutputs() int {
	return len(r.Tx.TxOut)
}

func (r *LockRequest) LockTime() uint32 {
	return r.Tx.LockTime
}

// OutputValue is the sum of the transaction's outputs. Every output and the
// running total must stay within [0, btcutil.MaxSatoshi].
func (r *LockRequest) OutputValue() (btcutil.Amount, error) {
	var total int64
	for i, out := range r.Tx.TxOut {
		if out.Value < 0 || out.Value > btcutil.MaxSatoshi {
			return 0, fmt.Errorf("%w: output %d has value %d", ErrInvalidOutputValue, i, out.Value)
		}
		total += out.Value
		if total > btcutil.MaxSatoshi {
			return 0, fmt.Errorf("%w: total exceeds %d", ErrInvalidOutputValue, int64(btcutil.MaxSatoshi))
		}
	}
	return btcutil.Amount(total), nil
}
