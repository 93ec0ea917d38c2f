// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists finalized transaction locks.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"

	"github.com/luxfi/instantsend/instantsend"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/instantsend/utils/wrappers"
)

const (
	lockCacheSize  = 2048
	outpointKeyLen = wrappers.HashLen + wrappers.IntLen
)

var (
	lockPrefix     = []byte("lock")
	outpointPrefix = []byte("outpoint")

	errWrongVersion = errors.New("wrong codec version")

	_ instantsend.LockStore = (*Store)(nil)
)

// Lock is a transaction whose inputs were locked to it.
type Lock struct {
	TxID      ids.ID             `serialize:"true" json:"txID"`
	Outpoints []message.Outpoint `serialize:"true" json:"outpoints"`
}

// Store keeps finalized locks and an index from each locked outpoint to the
// transaction it is locked to.
type Store struct {
	lock sync.Mutex

	// A nil entry caches a lock that is not in the database.
	lockCache cache.Cacher[ids.ID, *Lock]

	db         *versiondb.Database
	lockDB     database.Database
	outpointDB database.Database
}

func New(db database.Database) *Store {
	vdb := versiondb.New(db)
	return &Store{
		lockCache:  lru.NewCache[ids.ID, *Lock](lockCacheSize),
		db:         vdb,
		lockDB:     prefixdb.New(lockPrefix, vdb),
		outpointDB: prefixdb.New(outpointPrefix, vdb),
	}
}

func outpointKey(op message.Outpoint) []byte {
	p := wrappers.Packer{MaxSize: outpointKeyLen}
	p.PackFixedBytes(op.TxID[:])
	p.PackInt(op.Index)
	return p.Bytes
}

// PutLock records that [outpoints] are locked to [txID].
func (s *Store) PutLock(txID ids.ID, outpoints []message.Outpoint) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	lock := &Lock{
		TxID:      txID,
		Outpoints: outpoints,
	}
	lockBytes, err := Codec.Marshal(CodecVersion, lock)
	if err != nil {
		return fmt.Errorf("couldn't marshal lock: %w", err)
	}

	if err := s.lockDB.Put(txID[:], lockBytes); err != nil {
		s.db.Abort()
		return err
	}
	for _, op := range outpoints {
		if err := s.outpointDB.Put(outpointKey(op), txID[:]); err != nil {
			s.db.Abort()
			return err
		}
	}
	if err := s.db.Commit(); err != nil {
		return err
	}
	s.lockCache.Put(txID, lock)
	return nil
}

// DeleteLock removes the lock of [txID]. Outpoints that have since been
// locked to another transaction keep their index entry.
func (s *Store) DeleteLock(txID ids.ID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	lock, err := s.getLock(txID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, op := range lock.Outpoints {
		key := outpointKey(op)
		lockedBy, err := s.outpointDB.Get(key)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			s.db.Abort()
			return err
		}
		if ids.ID(lockedBy) != txID {
			continue
		}
		if err := s.outpointDB.Delete(key); err != nil {
			s.db.Abort()
			return err
		}
	}
	if err := s.lockDB.Delete(txID[:]); err != nil {
		s.db.Abort()
		return err
	}
	if err := s.db.Commit(); err != nil {
		return err
	}
	s.lockCache.Put(txID, nil)
	return nil
}

// GetLock returns database.ErrNotFound if [txID] is not locked.
func (s *Store) GetLock(txID ids.ID) (*Lock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.getLock(txID)
}

func (s *Store) getLock(txID ids.ID) (*Lock, error) {
	if lock, found := s.lockCache.Get(txID); found {
		if lock == nil {
			return nil, database.ErrNotFound
		}
		return lock, nil
	}

	lockBytes, err := s.lockDB.Get(txID[:])
	if errors.Is(err, database.ErrNotFound) {
		s.lockCache.Put(txID, nil)
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	lock, err := parseLock(lockBytes)
	if err != nil {
		return nil, err
	}
	s.lockCache.Put(txID, lock)
	return lock, nil
}

// LockedTx returns the transaction [op] is locked to, or
// database.ErrNotFound.
func (s *Store) LockedTx(op message.Outpoint) (ids.ID, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	txIDBytes, err := s.outpointDB.Get(outpointKey(op))
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(txIDBytes)
}

// Locks returns every stored lock ordered by transaction ID.
func (s *Store) Locks() ([]*Lock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	it := s.lockDB.NewIterator()
	defer it.Release()

	var locks []*Lock
	for it.Next() {
		lock, err := parseLock(it.Value())
		if err != nil {
			return nil, err
		}
		locks = append(locks, lock)
	}
	return locks, it.Error()
}

func parseLock(b []byte) (*Lock, error) {
	lock := &Lock{}
	version, err := Codec.Unmarshal(b, lock)
	if err != nil {
		return nil, fmt.Errorf("couldn't unmarshal lock: %w", err)
	}
	if version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongVersion, version)
	}
	return lock, nil
}
