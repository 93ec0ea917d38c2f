// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package masternode tracks the registered masternodes and ranks them into
// per-transaction voting quorums.
package masternode

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/btree"
	"github.com/holiman/uint256"

	lru "github.com/hashicorp/golang-lru"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/log"
)

const (
	// MaxPoSePenalty is the proof-of-service score at which a masternode is
	// banned.
	MaxPoSePenalty = 100

	defaultTreeDegree = 2
	rankCacheSize     = 256
)

var (
	ErrDuplicateMasternode = errors.New("duplicate masternode")
	ErrUnknownMasternode   = errors.New("unknown masternode")
	ErrMissingPublicKey    = errors.New("missing public key")
)

// Entry is a registered masternode.
type Entry struct {
	ProTxHash  ids.ID
	Collateral message.Outpoint
	// ConfirmedHash is the hash of the block that confirmed the
	// registration. Unconfirmed masternodes are not ranked.
	ConfirmedHash ids.ID
	// PublicKey is the operator key votes are verified against.
	PublicKey []byte
}

// Info is what vote verification needs to know about a masternode.
type Info struct {
	ProTxHash ids.ID
	PublicKey []byte
	Banned    bool
}

type entry struct {
	Entry
	penalty int
}

// Directory is a thread-safe set of masternodes.
type Directory struct {
	log log.Logger

	lock    sync.RWMutex
	entries map[message.Outpoint]*entry
	synced  bool
	// ranks caches modifier -> map[message.Outpoint]uint32. Any change to
	// the set of ranked masternodes purges it.
	ranks *lru.Cache
}

func New(log log.Logger) (*Directory, error) {
	ranks, err := lru.New(rankCacheSize)
	if err != nil {
		return nil, err
	}
	return &Directory{
		log:     log,
		entries: make(map[message.Outpoint]*entry),
		ranks:   ranks,
	}, nil
}

func (d *Directory) Add(e Entry) error {
	if len(e.PublicKey) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingPublicKey, e.Collateral)
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if _, ok := d.entries[e.Collateral]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMasternode, e.Collateral)
	}
	e.PublicKey = slices.Clone(e.PublicKey)
	d.entries[e.Collateral] = &entry{Entry: e}
	d.ranks.Purge()
	return nil
}

func (d *Directory) Remove(collateral message.Outpoint) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if _, ok := d.entries[collateral]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMasternode, collateral)
	}
	delete(d.entries, collateral)
	d.ranks.Purge()
	return nil
}

func (d *Directory) Len() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.entries)
}

// SetSynced marks whether the masternode list is believed to be current.
func (d *Directory) SetSynced(synced bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.synced = synced
}

func (d *Directory) IsSynced() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.synced
}

func (d *Directory) Masternode(collateral message.Outpoint) (Info, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	e, ok := d.entries[collateral]
	if !ok {
		return Info{}, false
	}
	return Info{
		ProTxHash: e.ProTxHash,
		PublicKey: e.PublicKey,
		Banned:    e.penalty >= MaxPoSePenalty,
	}, true
}

// BanScoreIncrease applies the maximum proof-of-service penalty to the
// masternode, banning it immediately.
func (d *Directory) BanScoreIncrease(collateral message.Outpoint) {
	d.lock.Lock()
	defer d.lock.Unlock()

	e, ok := d.entries[collateral]
	if !ok {
		d.log.Debug("ignoring penalty for unknown masternode",
			log.Stringer("collateral", collateral),
		)
		return
	}
	if e.penalty >= MaxPoSePenalty {
		return
	}
	e.penalty = MaxPoSePenalty
	d.ranks.Purge()

	d.log.Info("banned masternode",
		log.Stringer("collateral", collateral),
		log.Stringer("proTxHash", e.ProTxHash),
	)
}

func (d *Directory) IsBanned(collateral message.Outpoint) bool {
	info, ok := d.Masternode(collateral)
	return ok && info.Banned
}

// Rank returns the 1-based position of the masternode among all ranked
// masternodes ordered by descending score for [modifier].
func (d *Directory) Rank(modifier ids.ID, collateral message.Outpoint) (uint32, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	ranks := d.ranksFor(modifier)
	rank, ok := ranks[collateral]
	return rank, ok
}

// Quorum returns up to [size] masternodes with the best scores for
// [modifier], best first.
func (d *Directory) Quorum(modifier ids.ID, size int) []Entry {
	d.lock.RLock()
	defer d.lock.RUnlock()

	quorum := make([]Entry, 0, size)
	d.scores(modifier).Ascend(func(s *scored) bool {
		if len(quorum) == size {
			return false
		}
		quorum = append(quorum, s.entry.Entry)
		return true
	})
	return quorum
}

func (d *Directory) ranksFor(modifier ids.ID) map[message.Outpoint]uint32 {
	if cached, ok := d.ranks.Get(modifier); ok {
		return cached.(map[message.Outpoint]uint32)
	}

	ranks := make(map[message.Outpoint]uint32, len(d.entries))
	d.scores(modifier).Ascend(func(s *scored) bool {
		ranks[s.entry.Collateral] = uint32(len(ranks) + 1)
		return true
	})
	d.ranks.Add(modifier, ranks)
	return ranks
}

type scored struct {
	score *uint256.Int
	entry *entry
}

// Less orders higher scores first. Ties are broken by the registration hash.
func (s *scored) Less(than *scored) bool {
	if c := s.score.Cmp(than.score); c != 0 {
		return c > 0
	}
	return bytes.Compare(s.entry.ProTxHash[:], than.entry.ProTxHash[:]) < 0
}

func (d *Directory) scores(modifier ids.ID) *btree.BTreeG[*scored] {
	tree := btree.NewG(defaultTreeDegree, (*scored).Less)
	for _, e := range d.entries {
		if e.ConfirmedHash == ids.Empty || e.penalty >= MaxPoSePenalty {
			continue
		}
		tree.ReplaceOrInsert(&scored{
			score: Score(e.ProTxHash, e.ConfirmedHash, modifier),
			entry: e,
		})
	}
	return tree
}

// Score is SHA256(SHA256(proTxHash || confirmedHash) || modifier) read as a
// little-endian 256 bit integer.
func Score(proTxHash, confirmedHash, modifier ids.ID) *uint256.Int {
	registration := hash.ComputeHash256(append(proTxHash[:], confirmedHash[:]...))
	digest := hash.ComputeHash256(append(registration, modifier[:]...))
	slices.Reverse(digest)
	return new(uint256.Int).SetBytes(digest)
}
