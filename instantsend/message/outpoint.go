// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/luxfi/ids"
	"github.com/luxfi/instantsend/utils/wrappers"
)

// OutpointLen is the number of bytes of a packed outpoint.
const OutpointLen = wrappers.HashLen + wrappers.IntLen

// Outpoint references a transaction output. It is comparable and is used
// directly as a map key.
type Outpoint struct {
	TxID  ids.ID `serialize:"true" json:"txID"`
	Index uint32 `serialize:"true" json:"index"`
}

// OutpointFromWire converts a btcd outpoint.
func OutpointFromWire(op wire.OutPoint) Outpoint {
	return Outpoint{
		TxID:  ids.ID(op.Hash),
		Index: op.Index,
	}
}

// Wire returns the btcd form of the outpoint.
func (o Outpoint) Wire() wire.OutPoint {
	return wire.OutPoint{
		Hash:  chainhash.Hash(o.TxID),
		Index: o.Index,
	}
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s-%d", HashString(o.TxID), o.Index)
}

// Compare orders outpoints by transaction and then by index.
func (o Outpoint) Compare(other Outpoint) int {
	if c := o.TxID.Compare(other.TxID); c != 0 {
		return c
	}
	switch {
	case o.Index < other.Index:
		return -1
	case o.Index > other.Index:
		return 1
	default:
		return 0
	}
}

func (o Outpoint) pack(p *wrappers.Packer) {
	p.PackHash(o.TxID)
	p.PackInt(o.Index)
}

func unpackOutpoint(p *wrappers.Packer) Outpoint {
	return Outpoint{
		TxID:  p.UnpackHash(),
		Index: p.UnpackInt(),
	}
}
