// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves the lock engine's state over JSON-RPC.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/instantsend/instantsend"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/instantsend/instantsend/state"
	"github.com/luxfi/instantsend/utils/json"
)

const ServiceName = "instantsend"

var (
	errMissingTxID = errors.New("missing txID")
	errNoStore     = errors.New("locks are not persisted")

	_ Engine = (*instantsend.Engine)(nil)
	_ Store  = (*state.Store)(nil)
)

// Engine is the part of the lock engine the service reads.
type Engine interface {
	Status(txID ids.ID) (instantsend.State, bool)
	IsLocked(txID ids.ID) bool
	IsLockTimedOut(txID ids.ID) bool
	LockSignatures(txID ids.ID) int
	LockedBy(op message.Outpoint) (ids.ID, bool)
	Stats() instantsend.Stats
}

// Store holds locks that outlive the engine's in-memory state.
type Store interface {
	GetLock(txID ids.ID) (*state.Lock, error)
	LockedTx(op message.Outpoint) (ids.ID, error)
	Locks() ([]*state.Lock, error)
}

// Service is the "instantsend" JSON-RPC service.
type Service struct {
	log    log.Logger
	engine Engine
	// store is optional.
	store Store
}

// NewHTTPHandler returns a handler serving [engine] and, if not nil,
// [store].
func NewHTTPHandler(logger log.Logger, engine Engine, store Store) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")

	service := &Service{
		log:    logger,
		engine: engine,
		store:  store,
	}
	return server, server.RegisterService(service, ServiceName)
}

type TxIDArgs struct {
	// TxID is the byte reversed hex transaction hash.
	TxID string `json:"txID"`
}

func (a *TxIDArgs) parse() (ids.ID, error) {
	if a.TxID == "" {
		return ids.Empty, errMissingTxID
	}
	txID, err := message.ParseHash(a.TxID)
	if err != nil {
		return ids.Empty, fmt.Errorf("couldn't parse txID: %w", err)
	}
	return txID, nil
}

type GetLockStatusReply struct {
	// Known is true if the engine is tracking the transaction.
	Known      bool   `json:"known"`
	State      string `json:"state"`
	Locked     bool   `json:"locked"`
	TimedOut   bool   `json:"timedOut"`
	Signatures int    `json:"signatures"`
	// Persisted is true if the lock is in the store. A persisted lock may
	// already have been pruned from memory.
	Persisted bool `json:"persisted"`
}

// GetLockStatus returns what is known about the lock of a transaction.
func (s *Service) GetLockStatus(_ *http.Request, args *TxIDArgs, reply *GetLockStatusReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getLockStatus"),
	)

	txID, err := args.parse()
	if err != nil {
		return err
	}

	st, known := s.engine.Status(txID)
	reply.Known = known
	reply.Locked = s.engine.IsLocked(txID)
	reply.TimedOut = s.engine.IsLockTimedOut(txID)
	if known {
		reply.State = st.String()
		reply.Signatures = s.engine.LockSignatures(txID)
	}

	if s.store == nil {
		return nil
	}
	_, err = s.store.GetLock(txID)
	switch {
	case err == nil:
		reply.Persisted = true
		reply.Locked = true
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return nil
}

type OutpointArgs struct {
	TxID  string      `json:"txID"`
	Index json.Uint32 `json:"index"`
}

type IsOutpointLockedReply struct {
	Locked   bool   `json:"locked"`
	LockedBy string `json:"lockedBy,omitempty"`
}

// IsOutpointLocked returns the transaction an outpoint is locked to, if any.
func (s *Service) IsOutpointLocked(_ *http.Request, args *OutpointArgs, reply *IsOutpointLockedReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "isOutpointLocked"),
	)

	prevTxID, err := (&TxIDArgs{TxID: args.TxID}).parse()
	if err != nil {
		return err
	}
	op := message.Outpoint{TxID: prevTxID, Index: uint32(args.Index)}

	if txID, ok := s.engine.LockedBy(op); ok {
		reply.Locked = true
		reply.LockedBy = message.HashString(txID)
		return nil
	}
	if s.store == nil {
		return nil
	}
	txID, err := s.store.LockedTx(op)
	switch {
	case err == nil:
		reply.Locked = true
		reply.LockedBy = message.HashString(txID)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return nil
}

// GetStats returns the sizes of the engine's indices.
func (s *Service) GetStats(_ *http.Request, _ *struct{}, reply *instantsend.Stats) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getStats"),
	)

	*reply = s.engine.Stats()
	return nil
}

type APILock struct {
	TxID      string   `json:"txID"`
	Outpoints []string `json:"outpoints"`
}

type GetLocksReply struct {
	Locks []APILock `json:"locks"`
}

// GetLocks returns every persisted lock.
func (s *Service) GetLocks(_ *http.Request, _ *struct{}, reply *GetLocksReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getLocks"),
	)

	if s.store == nil {
		return errNoStore
	}
	locks, err := s.store.Locks()
	if err != nil {
		return err
	}
	reply.Locks = make([]APILock, len(locks))
	for i, lock := range locks {
		outpoints := make([]string, len(lock.Outpoints))
		for j, op := range lock.Outpoints {
			outpoints[j] = op.String()
		}
		reply.Locks[i] = APILock{
			TxID:      message.HashString(lock.TxID),
			Outpoints: outpoints,
		}
	}
	return nil
}
