// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/instantsend/utils/wrappers"
)

// MaxSignatureLen bounds the signature carried by a vote. Compact ECDSA
// signatures are 65 bytes and BLS signatures are 96 bytes.
const MaxSignatureLen = 128

const (
	legacyUnsignedLen        = wrappers.HashLen + 2*OutpointLen
	deterministicUnsignedLen = legacyUnsignedLen + 2*wrappers.HashLen
)

var (
	ErrTrailingBytes  = errors.New("trailing bytes after message")
	ErrEmptySignature = errors.New("empty signature")
)

// Vote is a masternode's signed statement that a transaction should own one
// of its inputs.
type Vote struct {
	TxID               ids.ID
	Outpoint           Outpoint
	MasternodeOutpoint Outpoint

	// Deterministic votes additionally commit to the quorum they were cast
	// in and the registration of the voting masternode.
	Deterministic  bool
	QuorumModifier ids.ID
	ProTxHash      ids.ID

	Signature []byte

	id    ids.ID
	bytes []byte
}

// Initialize computes the identity and the serialization of the vote. It must
// be called after the fields are set and before the vote is used.
func (v *Vote) Initialize() error {
	unsigned, err := v.unsignedBytes()
	if err != nil {
		return err
	}
	v.id = DoubleHash(unsigned)

	p := wrappers.Packer{
		MaxSize: len(unsigned) + wrappers.VarBytesLen(v.Signature),
		Bytes:   make([]byte, 0, len(unsigned)+wrappers.VarBytesLen(v.Signature)),
	}
	p.PackFixedBytes(unsigned)
	p.PackVarBytes(v.Signature)
	if p.Err != nil {
		return fmt.Errorf("couldn't pack vote: %w", p.Err)
	}
	v.bytes = p.Bytes
	return nil
}

// ID is the hash of the signed-over content. Two votes that differ only in
// their signature share an ID.
func (v *Vote) ID() ids.ID {
	return v.id
}

// Bytes returns the wire encoding of the vote.
func (v *Vote) Bytes() []byte {
	return v.bytes
}

// SigningPayload is the message the masternode signs.
func (v *Vote) SigningPayload() []byte {
	return v.id[:]
}

func (v *Vote) unsignedBytes() ([]byte, error) {
	size := legacyUnsignedLen
	if v.Deterministic {
		size = deterministicUnsignedLen
	}
	p := wrappers.Packer{
		MaxSize: size,
		Bytes:   make([]byte, 0, size),
	}
	p.PackHash(v.TxID)
	v.Outpoint.pack(&p)
	v.MasternodeOutpoint.pack(&p)
	if v.Deterministic {
		p.PackHash(v.QuorumModifier)
		p.PackHash(v.ProTxHash)
	}
	if p.Err != nil {
		return nil, fmt.Errorf("couldn't pack unsigned vote: %w", p.Err)
	}
	return p.Bytes, nil
}

// ParseVote decodes a vote. Whether the quorum fields are present on the wire
// depends on the network being past deterministic activation, so the caller
// supplies [deterministic].
func ParseVote(b []byte, deterministic bool) (*Vote, error) {
	p := wrappers.Packer{Bytes: b}
	v := &Vote{
		TxID:               p.UnpackHash(),
		Outpoint:           unpackOutpoint(&p),
		MasternodeOutpoint: unpackOutpoint(&p),
		Deterministic:      deterministic,
	}
	if deterministic {
		v.QuorumModifier = p.UnpackHash()
		v.ProTxHash = p.UnpackHash()
	}
	v.Signature = p.UnpackLimitedVarBytes(MaxSignatureLen)
	if p.Err != nil {
		return nil, fmt.Errorf("couldn't parse vote: %w", p.Err)
	}
	if p.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d", ErrTrailingBytes, p.Remaining())
	}
	if len(v.Signature) == 0 {
		return nil, ErrEmptySignature
	}
	return v, v.Initialize()
}
