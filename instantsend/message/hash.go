// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/luxfi/ids"
)

// HashString formats [id] the way block explorers display transaction and
// block hashes: byte reversed hex.
func HashString(id ids.ID) string {
	return chainhash.Hash(id).String()
}

// ParseHash parses a byte reversed hex hash.
func ParseHash(s string) (ids.ID, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ID(*h), nil
}

// DoubleHash returns the double SHA-256 of [b].
func DoubleHash(b []byte) ids.ID {
	return ids.ID(chainhash.DoubleHashH(b))
}
