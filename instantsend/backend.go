// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/instantsend/instantsend/config"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/instantsend/instantsend/signer"
	"github.com/luxfi/instantsend/masternode"
	"github.com/luxfi/instantsend/utils/timer/mockable"
)

// Directory answers questions about the registered masternodes. Every method
// except BanScoreIncrease is called with the engine mutex held, so they must
// not block or call back into the engine.
type Directory interface {
	Masternode(collateral message.Outpoint) (masternode.Info, bool)
	// Rank returns the 1-based quorum position of the masternode for
	// [quorumModifier], or false if it is not ranked.
	Rank(quorumModifier ids.ID, collateral message.Outpoint) (uint32, bool)
	// BanScoreIncrease penalizes a masternode caught voting for conflicting
	// transactions.
	BanScoreIncrease(collateral message.Outpoint)
	IsSynced() bool
}

// Verifier checks a vote signature. It is called with the engine mutex held.
type Verifier interface {
	Verify(scheme signer.Scheme, payload, publicKey, signature []byte) bool
}

// Chain exposes the local view of the best chain. It is called with the engine
// mutex held and must not call back into the engine.
type Chain interface {
	Height() uint64
	BlockHash(height uint64) (ids.ID, bool)
}

// ConfidenceSink is told when a transaction's lock succeeds or fails. Calls
// are made after the engine mutex is released.
type ConfidenceSink interface {
	NotifyLocked(txID ids.ID)
	NotifyLockFailed(txID ids.ID)
}

// Relayer forwards messages the engine has accepted to its peers. [from] is
// the peer the message was received from, or ids.EmptyNodeID if it was
// produced locally.
type Relayer interface {
	RelayVote(from ids.NodeID, vote *message.Vote)
	RelayLockRequest(from ids.NodeID, request *message.LockRequest)
}

// LockStore persists finalized locks.
type LockStore interface {
	PutLock(txID ids.ID, outpoints []message.Outpoint) error
	DeleteLock(txID ids.ID) error
}

// LocalVoter is the identity of the masternode running this engine.
type LocalVoter struct {
	Collateral message.Outpoint
	ProTxHash  ids.ID
	Signer     signer.Signer
}

// Backend bundles the engine's configuration and collaborators. Relayer,
// Store and Voter are optional.
type Backend struct {
	Config     config.Config
	Log        log.Logger
	Clock      *mockable.Clock
	Directory  Directory
	Verifier   Verifier
	Chain      Chain
	Confidence ConfidenceSink
	Relayer    Relayer
	Store      LockStore
	Voter      *LocalVoter
}
