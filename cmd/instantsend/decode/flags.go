// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decode

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

const (
	HexKey           = "hex"
	KindKey          = "kind"
	DeterministicKey = "deterministic"

	VoteKind        = "vote"
	LockRequestKind = "lock-request"
	TxKind          = "tx"
)

var (
	errMissingHex  = errors.New("missing --hex")
	errUnknownKind = errors.New("unknown message kind")
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(HexKey, "", "Hex encoded message (required)")
	flags.String(KindKey, VoteKind, "Message kind: vote, lock-request or tx")
	flags.Bool(DeterministicKey, true, "Whether votes carry quorum fields")
}

type Config struct {
	Bytes         []byte
	Kind          string
	Deterministic bool
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	hexStr, err := flags.GetString(HexKey)
	if err != nil {
		return nil, err
	}
	if hexStr == "" {
		return nil, errMissingHex
	}
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode hex: %w", err)
	}

	kind, err := flags.GetString(KindKey)
	if err != nil {
		return nil, err
	}
	switch kind {
	case VoteKind, LockRequestKind, TxKind:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownKind, kind)
	}

	deterministic, err := flags.GetBool(DeterministicKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Bytes:         b,
		Kind:          kind,
		Deterministic: deterministic,
	}, nil
}
