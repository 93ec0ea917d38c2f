// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulate

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"

	"github.com/btcsuite/btcd/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/instantsend/instantsend"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/instantsend/instantsend/signer"
	"github.com/luxfi/instantsend/instantsend/state"
	"github.com/luxfi/instantsend/masternode"
)

const chainHeight = 1_000

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "simulate",
		Short: "Runs a lock vote among locally generated masternodes",
		RunE:  simulateFunc,
	}
	AddFlags(c.Flags())
	return c
}

// Result summarizes a simulation.
type Result struct {
	TxID       ids.ID
	Locked     bool
	Signatures int
	Stats      instantsend.Stats
	Persisted  []*state.Lock
	Banned     []message.Outpoint
}

func simulateFunc(c *cobra.Command, args []string) error {
	config, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	result, err := Run(config, registry)
	if err != nil {
		return err
	}

	w := c.OutOrStdout()
	fmt.Fprintf(w, "tx %s locked=%t signatures=%d\n", message.HashString(result.TxID), result.Locked, result.Signatures)
	fmt.Fprintf(w, "candidates=%d votes=%d orphans=%d lockedOutpoints=%d\n",
		result.Stats.Candidates,
		result.Stats.Votes,
		result.Stats.OrphanVotes,
		result.Stats.LockedOutpoints,
	)
	for _, banned := range result.Banned {
		fmt.Fprintf(w, "banned %s\n", banned)
	}
	for _, lock := range result.Persisted {
		fmt.Fprintf(w, "persisted lock %s with %d inputs\n", message.HashString(lock.TxID), len(lock.Outpoints))
	}
	return writeMetrics(w, registry)
}

type staticChain struct {
	height uint64
	hash   ids.ID
}

func (c *staticChain) Height() uint64 {
	return c.height
}

func (c *staticChain) BlockHash(height uint64) (ids.ID, bool) {
	return c.hash, height == c.height
}

type confidence struct {
	log log.Logger
}

func (c *confidence) NotifyLocked(txID ids.ID) {
	c.log.Info("lock succeeded", log.String("txID", message.HashString(txID)))
}

func (c *confidence) NotifyLockFailed(txID ids.ID) {
	c.log.Info("lock failed", log.String("txID", message.HashString(txID)))
}

func randomID() ids.ID {
	var id ids.ID
	_, _ = rand.Read(id[:])
	return id
}

// Run registers [config.Masternodes] masternodes, submits a transaction and
// has its quorum vote on every input.
func Run(config *Config, registry *prometheus.Registry) (*Result, error) {
	logger := log.NewNoOpLogger()
	if config.Verbose {
		logger = log.NewLogger("instantsend")
	}

	directory, err := masternode.New(logger)
	if err != nil {
		return nil, err
	}
	signers := make(map[message.Outpoint]signer.Signer, config.Masternodes)
	for range config.Masternodes {
		s, err := signer.NewBLSSigner()
		if err != nil {
			return nil, err
		}
		collateral := message.Outpoint{TxID: randomID()}
		signers[collateral] = s
		err = directory.Add(masternode.Entry{
			ProTxHash:     randomID(),
			Collateral:    collateral,
			ConfirmedHash: randomID(),
			PublicKey:     s.PublicKey(),
		})
		if err != nil {
			return nil, err
		}
	}
	directory.SetSynced(true)

	chain := &staticChain{
		height: chainHeight,
		hash:   randomID(),
	}
	store := state.New(memdb.New())
	engine, err := instantsend.New(&instantsend.Backend{
		Config:     config.Params,
		Log:        logger,
		Directory:  directory,
		Verifier:   signer.Verifier{},
		Chain:      chain,
		Confidence: &confidence{log: logger},
		Store:      store,
	}, registry)
	if err != nil {
		return nil, err
	}

	inputs := make([]message.Outpoint, config.Inputs)
	for i := range inputs {
		inputs[i] = message.Outpoint{TxID: randomID(), Index: uint32(i)}
	}
	req, err := newRequest(inputs, 50_000)
	if err != nil {
		return nil, err
	}
	if err := engine.SubmitLockRequest(req); err != nil {
		return nil, err
	}

	var conflict *message.LockRequest
	if config.DoubleVoters > 0 {
		conflict, err = newRequest(inputs[:1], 40_000)
		if err != nil {
			return nil, err
		}
		if err := engine.ProcessLockRequest(ids.EmptyNodeID, conflict); err != nil {
			return nil, err
		}
	}

	quorum := directory.Quorum(chain.hash, config.Params.SignaturesTotal)
	for i, mn := range quorum {
		s := signers[mn.Collateral]
		for _, op := range inputs {
			vote, err := signVote(s, mn, chain.hash, req.ID(), op)
			if err != nil {
				return nil, err
			}
			if err := engine.ProcessVote(ids.EmptyNodeID, vote); err != nil {
				logger.Debug("vote not counted", log.Err(err))
			}
		}
		if i >= config.DoubleVoters {
			continue
		}
		vote, err := signVote(s, mn, chain.hash, conflict.ID(), inputs[0])
		if err != nil {
			return nil, err
		}
		if err := engine.ProcessVote(ids.EmptyNodeID, vote); err != nil {
			logger.Debug("conflicting vote not counted", log.Err(err))
		}
	}

	persisted, err := store.Locks()
	if err != nil {
		return nil, err
	}
	result := &Result{
		TxID:       req.ID(),
		Locked:     engine.IsLocked(req.ID()),
		Signatures: engine.LockSignatures(req.ID()),
		Stats:      engine.Stats(),
		Persisted:  persisted,
	}
	for _, mn := range quorum {
		if directory.IsBanned(mn.Collateral) {
			result.Banned = append(result.Banned, mn.Collateral)
		}
	}
	return result, nil
}

func newRequest(inputs []message.Outpoint, value int64) (*message.LockRequest, error) {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, op := range inputs {
		prev := op.Wire()
		tx.AddTxIn(wire.NewTxIn(&prev, nil, nil))
	}
	tx.AddTxOut(wire.NewTxOut(value, []byte{0x51}))
	return message.NewLockRequest(tx, true)
}

func signVote(s signer.Signer, mn masternode.Entry, modifier, txID ids.ID, op message.Outpoint) (*message.Vote, error) {
	vote := &message.Vote{
		TxID:               txID,
		Outpoint:           op,
		MasternodeOutpoint: mn.Collateral,
		Deterministic:      true,
		QuorumModifier:     modifier,
		ProTxHash:          mn.ProTxHash,
	}
	if err := vote.Initialize(); err != nil {
		return nil, err
	}
	sig, err := s.Sign(vote.SigningPayload())
	if err != nil {
		return nil, err
	}
	vote.Signature = sig
	return vote, vote.Initialize()
}

func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, family := range families {
		for _, m := range family.GetMetric() {
			value := m.GetGauge().GetValue() + m.GetCounter().GetValue()
			labels := ""
			for _, label := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", label.GetName(), label.GetValue())
			}
			fmt.Fprintf(w, "%s%s %g\n", family.GetName(), labels, value)
		}
	}
	return nil
}
