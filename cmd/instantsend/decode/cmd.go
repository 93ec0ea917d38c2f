// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decode

import (
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/cobra"

	"github.com/luxfi/instantsend/instantsend/message"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "decode",
		Short: "Decodes a vote or lock request",
		RunE:  decodeFunc,
	}
	AddFlags(c.Flags())
	return c
}

type voteJSON struct {
	ID                 string `json:"id"`
	TxID               string `json:"txID"`
	Outpoint           string `json:"outpoint"`
	MasternodeOutpoint string `json:"masternodeOutpoint"`
	QuorumModifier     string `json:"quorumModifier,omitempty"`
	ProTxHash          string `json:"proTxHash,omitempty"`
	Signature          string `json:"signature"`
}

type lockRequestJSON struct {
	TxID     string         `json:"txID"`
	Explicit bool           `json:"explicit"`
	Inputs   []string       `json:"inputs"`
	Outputs  int            `json:"outputs"`
	Value    btcutil.Amount `json:"value"`
	LockTime uint32         `json:"lockTime"`
}

func decodeFunc(c *cobra.Command, args []string) error {
	config, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	var out any
	switch config.Kind {
	case VoteKind:
		v, err := message.ParseVote(config.Bytes, config.Deterministic)
		if err != nil {
			return err
		}
		out = newVoteJSON(v)
	default:
		req, err := message.ParseLockRequest(config.Bytes, config.Kind == LockRequestKind)
		if err != nil {
			return err
		}
		out, err = newLockRequestJSON(req)
		if err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = c.OutOrStdout().Write(append(b, '\n'))
	return err
}

func newVoteJSON(v *message.Vote) voteJSON {
	out := voteJSON{
		ID:                 message.HashString(v.ID()),
		TxID:               message.HashString(v.TxID),
		Outpoint:           v.Outpoint.String(),
		MasternodeOutpoint: v.MasternodeOutpoint.String(),
		Signature:          hex.EncodeToString(v.Signature),
	}
	if v.Deterministic {
		out.QuorumModifier = message.HashString(v.QuorumModifier)
		out.ProTxHash = message.HashString(v.ProTxHash)
	}
	return out
}

func newLockRequestJSON(req *message.LockRequest) (lockRequestJSON, error) {
	value, err := req.OutputValue()
	if err != nil {
		return lockRequestJSON{}, err
	}
	inputs := make([]string, len(req.Inputs()))
	for i, op := range req.Inputs() {
		inputs[i] = op.String()
	}
	return lockRequestJSON{
		TxID:     message.HashString(req.ID()),
		Explicit: req.Explicit,
		Inputs:   inputs,
		Outputs:  req.NumOutputs(),
		Value:    value,
		LockTime: req.LockTime(),
	}, nil
}
