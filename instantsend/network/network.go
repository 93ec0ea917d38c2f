// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package network relays votes and lock requests between peers and feeds
// the ones it receives into the lock engine.
package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/instantsend/instantsend"
	"github.com/luxfi/instantsend/instantsend/message"
)

const (
	knownInventorySize = 4096
	relayQueueSize     = 1024
	sendTimeout        = 10 * time.Second
	maxConcurrentSends = 16
)

var (
	errNoEngine = errors.New("no engine attached")

	_ instantsend.Relayer = (*Network)(nil)
)

// Sender delivers a gossip message to a single peer.
type Sender interface {
	SendGossip(ctx context.Context, nodeID ids.NodeID, msg []byte) error
}

// Engine consumes the votes and lock requests received from peers.
type Engine interface {
	IsDeterministic() bool
	ProcessVote(from ids.NodeID, vote *message.Vote) error
	ProcessLockRequest(from ids.NodeID, req *message.LockRequest) error
}

type relayJob struct {
	id      ids.ID
	op      Op
	msg     []byte
	targets []ids.NodeID
}

// Network tracks which inventory every connected peer already has so that
// each vote and lock request is sent to a peer at most once. Relays are
// queued and sent by Run, so relaying never blocks the caller.
type Network struct {
	log     log.Logger
	sender  Sender
	metrics *networkMetrics
	jobs    chan relayJob

	lock   sync.Mutex
	engine Engine
	// peers maps each connected peer to the vote and transaction IDs it is
	// known to have.
	peers map[ids.NodeID]cache.Cacher[ids.ID, struct{}]
}

func New(logger log.Logger, sender Sender, registerer metric.Registerer) (*Network, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("couldn't register metrics: %w", err)
	}
	return &Network{
		log:     logger,
		sender:  sender,
		metrics: m,
		jobs:    make(chan relayJob, relayQueueSize),
		peers:   make(map[ids.NodeID]cache.Cacher[ids.ID, struct{}]),
	}, nil
}

// SetEngine attaches the engine that received messages are delivered to.
func (n *Network) SetEngine(engine Engine) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.engine = engine
}

func (n *Network) Connected(nodeID ids.NodeID) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if _, ok := n.peers[nodeID]; ok {
		return
	}
	n.peers[nodeID] = lru.NewCache[ids.ID, struct{}](knownInventorySize)
	n.metrics.peers.Set(float64(len(n.peers)))
}

func (n *Network) Disconnected(nodeID ids.NodeID) {
	n.lock.Lock()
	defer n.lock.Unlock()

	delete(n.peers, nodeID)
	n.metrics.peers.Set(float64(len(n.peers)))
}

// AppGossip handles a gossip message from [nodeID]. Only malformed messages
// produce an error. Messages the engine refuses are logged and dropped.
func (n *Network) AppGossip(_ context.Context, nodeID ids.NodeID, msg []byte) error {
	op, payload, err := decode(msg)
	if err != nil {
		return err
	}
	n.metrics.observeReceived(op)

	n.lock.Lock()
	engine := n.engine
	n.lock.Unlock()
	if engine == nil {
		return errNoEngine
	}

	switch op {
	case VoteOp:
		vote, err := message.ParseVote(payload, engine.IsDeterministic())
		if err != nil {
			return fmt.Errorf("couldn't parse vote: %w", err)
		}
		n.markKnown(nodeID, vote.ID())
		if err := engine.ProcessVote(nodeID, vote); err != nil {
			n.log.Debug("vote not processed",
				log.Stringer("nodeID", nodeID),
				log.Stringer("voteID", vote.ID()),
				log.Err(err),
			)
		}
	default:
		req, err := message.ParseLockRequest(payload, op == LockRequestOp)
		if err != nil {
			return fmt.Errorf("couldn't parse lock request: %w", err)
		}
		n.markKnown(nodeID, req.ID())
		if err := engine.ProcessLockRequest(nodeID, req); err != nil {
			n.log.Debug("lock request not processed",
				log.Stringer("nodeID", nodeID),
				log.String("txID", message.HashString(req.ID())),
				log.Err(err),
			)
		}
	}
	return nil
}

func (n *Network) markKnown(nodeID ids.NodeID, id ids.ID) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if known, ok := n.peers[nodeID]; ok {
		known.Put(id, struct{}{})
	}
}

func (n *Network) RelayVote(from ids.NodeID, vote *message.Vote) {
	n.relay(from, vote.ID(), VoteOp, EncodeVote(vote))
}

func (n *Network) RelayLockRequest(from ids.NodeID, req *message.LockRequest) {
	op := TxOp
	if req.Explicit {
		op = LockRequestOp
	}
	n.relay(from, req.ID(), op, EncodeLockRequest(req))
}

// relay queues [msg] for every connected peer other than [from] that does not
// already have [id]. If the queue is full the relay is dropped and no peer is
// marked as having [id].
func (n *Network) relay(from ids.NodeID, id ids.ID, op Op, msg []byte) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if known, ok := n.peers[from]; ok {
		known.Put(id, struct{}{})
	}
	targets := make([]ids.NodeID, 0, len(n.peers))
	for nodeID, known := range n.peers {
		if nodeID == from {
			continue
		}
		if _, ok := known.Get(id); ok {
			continue
		}
		targets = append(targets, nodeID)
	}
	if len(targets) == 0 {
		return
	}

	select {
	case n.jobs <- relayJob{id: id, op: op, msg: msg, targets: targets}:
	default:
		n.metrics.relaysDropped.Inc()
		n.log.Debug("relay queue full",
			log.Stringer("id", id),
			log.Stringer("op", op),
		)
		return
	}
	for _, nodeID := range targets {
		n.peers[nodeID].Put(id, struct{}{})
	}
}

// Run sends queued relays until [ctx] is cancelled.
func (n *Network) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-n.jobs:
			n.send(ctx, job)
		}
	}
}

func (n *Network) send(ctx context.Context, job relayJob) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var eg errgroup.Group
	eg.SetLimit(maxConcurrentSends)
	for _, nodeID := range job.targets {
		eg.Go(func() error {
			if err := n.sender.SendGossip(ctx, nodeID, job.msg); err != nil {
				n.metrics.sendFailures.Inc()
				return fmt.Errorf("couldn't send %s to %s: %w", job.op, nodeID, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		n.log.Warn("failed to relay",
			log.Stringer("id", job.id),
			log.Err(err),
		)
	}
	n.metrics.observeSent(job.op, len(job.targets))
}
