// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantsend

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/instantsend/instantsend/config"
	"github.com/luxfi/instantsend/instantsend/instantsendmock"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/instantsend/instantsend/signer"
	"github.com/luxfi/instantsend/masternode"
	"github.com/luxfi/instantsend/utils/timer/mockable"
)

const numTestMasternodes = 12

var (
	testStartTime = time.Unix(1_600_000_000, 0)
	badSignature  = []byte{0xba, 0xd0}
)

type testEnv struct {
	engine     *Engine
	clock      *mockable.Clock
	directory  *instantsendmock.Directory
	confidence *instantsendmock.ConfidenceSink
	relayer    *instantsendmock.Relayer

	height      uint64
	synced      bool
	modifier    ids.ID
	masternodes []message.Outpoint
	proTxHashes map[message.Outpoint]ids.ID
	ranks       map[message.Outpoint]uint32
}

func newTestEnv(t *testing.T, modify func(*Backend)) *testEnv {
	ctrl := gomock.NewController(t)

	env := &testEnv{
		clock:       &mockable.Clock{},
		directory:   instantsendmock.NewDirectory(ctrl),
		confidence:  instantsendmock.NewConfidenceSink(ctrl),
		relayer:     instantsendmock.NewRelayer(ctrl),
		height:      100,
		synced:      true,
		modifier:    ids.GenerateTestID(),
		proTxHashes: make(map[message.Outpoint]ids.ID),
		ranks:       make(map[message.Outpoint]uint32),
	}
	env.clock.Set(testStartTime)
	for i := 0; i < numTestMasternodes; i++ {
		mn := message.Outpoint{TxID: ids.GenerateTestID()}
		env.masternodes = append(env.masternodes, mn)
		env.proTxHashes[mn] = ids.GenerateTestID()
		env.ranks[mn] = uint32(i%10 + 1)
	}

	env.directory.EXPECT().Masternode(gomock.Any()).DoAndReturn(
		func(collateral message.Outpoint) (masternode.Info, bool) {
			proTxHash, ok := env.proTxHashes[collateral]
			return masternode.Info{
				ProTxHash: proTxHash,
				PublicKey: []byte{1},
			}, ok
		},
	).AnyTimes()
	env.directory.EXPECT().Rank(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ ids.ID, collateral message.Outpoint) (uint32, bool) {
			rank, ok := env.ranks[collateral]
			return rank, ok
		},
	).AnyTimes()
	env.directory.EXPECT().IsSynced().DoAndReturn(func() bool {
		return env.synced
	}).AnyTimes()

	verifier := instantsendmock.NewVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ signer.Scheme, _, _, sig []byte) bool {
			return !bytes.Equal(sig, badSignature)
		},
	).AnyTimes()

	chain := instantsendmock.NewChain(ctrl)
	chain.EXPECT().Height().DoAndReturn(func() uint64 {
		return env.height
	}).AnyTimes()
	chain.EXPECT().BlockHash(gomock.Any()).DoAndReturn(func(uint64) (ids.ID, bool) {
		return env.modifier, true
	}).AnyTimes()

	env.relayer.EXPECT().RelayVote(gomock.Any(), gomock.Any()).AnyTimes()
	env.relayer.EXPECT().RelayLockRequest(gomock.Any(), gomock.Any()).AnyTimes()

	cfg := config.Default
	cfg.DeterministicActivationHeight = 0
	backend := &Backend{
		Config:     cfg,
		Log:        log.NewNoOpLogger(),
		Clock:      env.clock,
		Directory:  env.directory,
		Verifier:   verifier,
		Chain:      chain,
		Confidence: env.confidence,
		Relayer:    env.relayer,
	}
	if modify != nil {
		modify(backend)
	}

	engine, err := New(backend, metric.NewNoOpRegistry())
	require.NoError(t, err)
	env.engine = engine
	return env
}

func newTestOutpoint() message.Outpoint {
	return message.Outpoint{TxID: ids.GenerateTestID(), Index: 0}
}

// newTestRequest builds a transaction spending [inputs]. [salt] makes
// transactions with the same inputs distinct.
func newTestRequest(t *testing.T, explicit bool, salt int64, inputs ...message.Outpoint) *message.LockRequest {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, op := range inputs {
		prev := op.Wire()
		tx.AddTxIn(wire.NewTxIn(&prev, nil, nil))
	}
	tx.AddTxOut(wire.NewTxOut(1000+salt, []byte{0x51}))
	req, err := message.NewLockRequest(tx, explicit)
	require.NoError(t, err)
	return req
}

func (env *testEnv) newVote(t *testing.T, txID ids.ID, op message.Outpoint, mn int) *message.Vote {
	voter := env.masternodes[mn]
	v := &message.Vote{
		TxID:               txID,
		Outpoint:           op,
		MasternodeOutpoint: voter,
		Deterministic:      true,
		QuorumModifier:     env.modifier,
		ProTxHash:          env.proTxHashes[voter],
		Signature:          []byte{1},
	}
	require.NoError(t, v.Initialize())
	return v
}

func (env *testEnv) voteN(t *testing.T, txID ids.ID, op message.Outpoint, first, n int) {
	for mn := first; mn < first+n; mn++ {
		require.NoError(t, env.engine.ProcessVote(ids.GenerateTestNodeID(), env.newVote(t, txID, op, mn)))
	}
}

func TestLockFinalizesWithRequiredVotes(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	txID := req.ID()
	require.NoError(env.engine.ProcessLockRequest(ids.GenerateTestNodeID(), req))

	state, ok := env.engine.Status(txID)
	require.True(ok)
	require.Equal(StatePending, state)

	env.voteN(t, txID, op, 0, config.DefaultSignaturesRequired-1)
	require.False(env.engine.IsLocked(txID))
	require.Equal(config.DefaultSignaturesRequired-1, env.engine.LockSignatures(txID))

	env.confidence.EXPECT().NotifyLocked(txID).Times(1)
	env.voteN(t, txID, op, config.DefaultSignaturesRequired-1, 1)

	require.True(env.engine.IsLocked(txID))
	state, _ = env.engine.Status(txID)
	require.Equal(StateFinalized, state)
	lockedBy, ok := env.engine.LockedBy(op)
	require.True(ok)
	require.Equal(txID, lockedBy)
	require.Equal(config.DefaultSignaturesRequired, env.engine.LockSignatures(txID))
}

func TestLockRequiresEveryInput(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op0, op1 := newTestOutpoint(), newTestOutpoint()
	req := newTestRequest(t, true, 0, op0, op1)
	txID := req.ID()
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	env.voteN(t, txID, op0, 0, config.DefaultSignaturesRequired)
	require.False(env.engine.IsLocked(txID))
	_, ok := env.engine.LockedBy(op0)
	require.False(ok)

	env.confidence.EXPECT().NotifyLocked(txID).Times(1)
	env.voteN(t, txID, op1, 0, config.DefaultSignaturesRequired)
	require.True(env.engine.IsLocked(txID))
}

func TestProcessVoteIsIdempotent(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	v := env.newVote(t, req.ID(), op, 0)
	require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, v))
	stats := env.engine.Stats()

	err := env.engine.ProcessVote(ids.EmptyNodeID, v)
	require.ErrorIs(err, ErrDuplicateVote)
	require.Equal(stats, env.engine.Stats())
	require.Equal(1, env.engine.LockSignatures(req.ID()))

	// A vote re-signed by the same masternode has the same identity.
	resigned := *v
	resigned.Signature = []byte{2}
	require.NoError(resigned.Initialize())
	err = env.engine.ProcessVote(ids.EmptyNodeID, &resigned)
	require.ErrorIs(err, ErrDuplicateVote)
}

func TestDoubleVoteMarksBothAttacked(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req1 := newTestRequest(t, true, 1, op)
	req2 := newTestRequest(t, true, 2, op)
	require.NotEqual(req1.ID(), req2.ID())
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req1))
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req2))

	require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, req1.ID(), op, 0)))
	require.Equal(1, env.engine.LockSignatures(req1.ID()))

	env.directory.EXPECT().BanScoreIncrease(env.masternodes[0]).Times(1)
	require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, req2.ID(), op, 0)))

	require.Zero(env.engine.LockSignatures(req1.ID()))
	require.Zero(env.engine.LockSignatures(req2.ID()))

	// The attacked outpoint never becomes ready, however many votes arrive.
	env.voteN(t, req1.ID(), op, 1, config.DefaultSignaturesTotal-1)
	require.False(env.engine.IsLocked(req1.ID()))
	_, ok := env.engine.LockedBy(op)
	require.False(ok)
}

func TestOrphanVotesAppliedWhenRequestArrives(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	txID := req.ID()

	env.voteN(t, txID, op, 0, config.DefaultSignaturesRequired)
	state, ok := env.engine.Status(txID)
	require.True(ok)
	require.Equal(StateEmpty, state)
	require.Equal(config.DefaultSignaturesRequired, env.engine.Stats().OrphanVotes)
	require.False(env.engine.IsLocked(txID))

	env.confidence.EXPECT().NotifyLocked(txID).Times(1)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	require.True(env.engine.IsLocked(txID))
	require.Zero(env.engine.Stats().OrphanVotes)
}

func TestLateVotesReprocessKnownRequest(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	txID := req.ID()
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	env.clock.Advance(config.DefaultLockTimeout + time.Second)
	require.True(env.engine.IsLockTimedOut(txID))
	env.engine.CheckAndRemove()
	_, ok := env.engine.Status(txID)
	require.False(ok)
	require.True(env.engine.AlreadyHave(txID))

	env.confidence.EXPECT().NotifyLocked(txID).Times(1)
	env.voteN(t, txID, op, 0, config.DefaultSignaturesRequired)
	require.True(env.engine.IsLocked(txID))
}

func TestOrphanVoteSweptAfterTimeout(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	txID := ids.GenerateTestID()
	require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, txID, op, 0)))

	stats := env.engine.Stats()
	require.Equal(1, stats.Candidates)
	require.Equal(1, stats.Votes)
	require.Equal(1, stats.OrphanVotes)

	env.clock.Advance(config.DefaultLockTimeout)
	env.engine.CheckAndRemove()
	require.Equal(1, env.engine.Stats().Candidates)

	env.clock.Advance(time.Second)
	env.engine.CheckAndRemove()
	stats = env.engine.Stats()
	require.Zero(stats.Candidates)
	require.Zero(stats.Votes)
	require.Zero(stats.OrphanVotes)
}

func TestCheckAndRemoveLeavesNoDanglingReferences(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	txID := req.ID()
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))
	env.confidence.EXPECT().NotifyLocked(txID).Times(1)
	env.voteN(t, txID, op, 0, config.DefaultSignaturesRequired)
	require.True(env.engine.IsLocked(txID))

	// Finalized candidates are kept until buried deep enough.
	env.clock.Advance(time.Hour)
	env.engine.CheckAndRemove()
	require.True(env.engine.IsLocked(txID))

	env.engine.MarkConfirmed(txID, env.height)
	env.height += config.Default.KeepLockDepth
	env.engine.CheckAndRemove()
	require.True(env.engine.IsLocked(txID))

	env.height++
	env.engine.CheckAndRemove()
	require.False(env.engine.IsLocked(txID))

	e := env.engine
	require.Empty(e.candidates)
	require.Empty(e.votes)
	require.Empty(e.orphanVotes)
	require.Empty(e.votedOutpoints)
	require.Empty(e.lockedOutpoints)
	require.Empty(e.accepted)
	require.Empty(e.rejected)
}

func TestMarkUnconfirmedKeepsLock(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	txID := req.ID()
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))
	env.confidence.EXPECT().NotifyLocked(txID).Times(1)
	env.voteN(t, txID, op, 0, config.DefaultSignaturesRequired)

	env.engine.MarkConfirmed(txID, env.height)
	env.engine.MarkUnconfirmed(txID)
	env.height += 10 * config.Default.KeepLockDepth
	env.engine.CheckAndRemove()
	require.True(env.engine.IsLocked(txID))
}

func TestCheckAndRemoveWaitsForSync(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, ids.GenerateTestID(), newTestOutpoint(), 0)))

	env.synced = false
	env.clock.Advance(time.Hour)
	env.engine.CheckAndRemove()
	require.Equal(1, env.engine.Stats().Candidates)

	env.synced = true
	env.engine.CheckAndRemove()
	require.Zero(env.engine.Stats().Candidates)
}

func TestLockCollisionRejectsBoth(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req1 := newTestRequest(t, true, 1, op)
	req2 := newTestRequest(t, true, 2, op)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req1))
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req2))

	env.confidence.EXPECT().NotifyLocked(req1.ID()).Times(1)
	env.voteN(t, req1.ID(), op, 0, config.DefaultSignaturesRequired)
	require.True(env.engine.IsLocked(req1.ID()))

	env.confidence.EXPECT().NotifyLockFailed(req1.ID()).Times(1)
	env.confidence.EXPECT().NotifyLockFailed(req2.ID()).Times(1)
	env.voteN(t, req2.ID(), op, config.DefaultSignaturesRequired, config.DefaultSignaturesRequired)

	require.False(env.engine.IsLocked(req1.ID()))
	require.False(env.engine.IsLocked(req2.ID()))
	_, ok := env.engine.LockedBy(op)
	require.False(ok)
	_, ok = env.engine.Status(req1.ID())
	require.False(ok)
	require.True(env.engine.AlreadyHave(req2.ID()))

	err := env.engine.ProcessLockRequest(ids.EmptyNodeID, req1)
	require.ErrorIs(err, ErrRejected)
}

func TestConflictingRequestAfterLockRevokesBoth(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	store := instantsendmock.NewLockStore(ctrl)
	env := newTestEnv(t, func(b *Backend) {
		b.Store = store
	})

	op := newTestOutpoint()
	req1 := newTestRequest(t, true, 1, op)
	req2 := newTestRequest(t, true, 2, op)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req1))
	env.confidence.EXPECT().NotifyLocked(req1.ID()).Times(1)
	store.EXPECT().PutLock(req1.ID(), []message.Outpoint{op}).Return(nil).Times(1)
	env.voteN(t, req1.ID(), op, 0, config.DefaultSignaturesRequired)
	require.True(env.engine.IsLocked(req1.ID()))

	// The conflicting request is still tracked so that it can win a quorum.
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req2))
	state, ok := env.engine.Status(req2.ID())
	require.True(ok)
	require.Equal(StatePending, state)
	require.True(env.engine.IsLocked(req1.ID()))

	env.voteN(t, req2.ID(), op, config.DefaultSignaturesRequired, config.DefaultSignaturesRequired-1)
	require.True(env.engine.IsLocked(req1.ID()))

	env.confidence.EXPECT().NotifyLockFailed(req1.ID()).Times(1)
	env.confidence.EXPECT().NotifyLockFailed(req2.ID()).Times(1)
	store.EXPECT().DeleteLock(req1.ID()).Return(nil).Times(1)
	env.voteN(t, req2.ID(), op, 2*config.DefaultSignaturesRequired-1, 1)

	require.False(env.engine.IsLocked(req1.ID()))
	require.False(env.engine.IsLocked(req2.ID()))
	_, ok = env.engine.LockedBy(op)
	require.False(ok)
	require.ErrorIs(env.engine.ProcessLockRequest(ids.EmptyNodeID, req1), ErrRejected)
	require.ErrorIs(env.engine.ProcessLockRequest(ids.EmptyNodeID, req2), ErrRejected)
}

func TestInvalidVotes(t *testing.T) {
	op := newTestOutpoint()

	tests := []struct {
		name        string
		modify      func(env *testEnv, v *message.Vote)
		expectedErr error
	}{
		{
			name: "unknown masternode",
			modify: func(_ *testEnv, v *message.Vote) {
				v.MasternodeOutpoint = newTestOutpoint()
			},
			expectedErr: ErrUnknownMasternode,
		},
		{
			name: "registration mismatch",
			modify: func(_ *testEnv, v *message.Vote) {
				v.ProTxHash = ids.GenerateTestID()
			},
			expectedErr: ErrProTxHashMismatch,
		},
		{
			name: "outside quorum",
			modify: func(env *testEnv, v *message.Vote) {
				env.ranks[v.MasternodeOutpoint] = config.DefaultSignaturesTotal + 1
			},
			expectedErr: ErrNotInQuorum,
		},
		{
			name: "bad signature",
			modify: func(_ *testEnv, v *message.Vote) {
				v.Signature = badSignature
			},
			expectedErr: ErrInvalidSignature,
		},
		{
			name: "missing quorum fields",
			modify: func(_ *testEnv, v *message.Vote) {
				v.Deterministic = false
			},
			expectedErr: ErrMissingQuorumFields,
		},
		{
			name: "outpoint not spent by the transaction",
			modify: func(_ *testEnv, v *message.Vote) {
				v.Outpoint = newTestOutpoint()
			},
			expectedErr: ErrUnknownOutpoint,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			env := newTestEnv(t, nil)

			req := newTestRequest(t, true, 0, op)
			require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

			v := env.newVote(t, req.ID(), op, 0)
			test.modify(env, v)
			require.NoError(v.Initialize())

			err := env.engine.ProcessVote(ids.EmptyNodeID, v)
			require.ErrorIs(err, test.expectedErr)
			require.Zero(env.engine.LockSignatures(req.ID()))
		})
	}
}

func TestOutpointLockFull(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	env.confidence.EXPECT().NotifyLocked(req.ID()).Times(1)
	env.voteN(t, req.ID(), op, 0, config.DefaultSignaturesTotal)
	require.Equal(config.DefaultSignaturesTotal, env.engine.LockSignatures(req.ID()))

	err := env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, req.ID(), op, config.DefaultSignaturesTotal))
	require.ErrorIs(err, ErrVoteNotAdded)
	require.Equal(config.DefaultSignaturesTotal, env.engine.LockSignatures(req.ID()))
}

func TestLockRequestValidation(t *testing.T) {
	tests := []struct {
		name        string
		request     func(t *testing.T) *message.LockRequest
		modify      func(*Backend)
		self        bool
		expectedErr error
	}{
		{
			name: "no inputs",
			request: func(t *testing.T) *message.LockRequest {
				return newTestRequest(t, true, 0)
			},
			expectedErr: ErrNoInputs,
		},
		{
			name: "no outputs",
			request: func(t *testing.T) *message.LockRequest {
				tx := wire.NewMsgTx(wire.TxVersion)
				tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{1}, 0), nil, nil))
				req, err := message.NewLockRequest(tx, true)
				require.NoError(t, err)
				return req
			},
			expectedErr: ErrNoOutputs,
		},
		{
			name: "lock time",
			request: func(t *testing.T) *message.LockRequest {
				req := newTestRequest(t, true, 0, newTestOutpoint())
				req.Tx.LockTime = 1
				return req
			},
			expectedErr: ErrNotFinal,
		},
		{
			name: "lock time on a local request",
			request: func(t *testing.T) *message.LockRequest {
				req := newTestRequest(t, true, 0, newTestOutpoint())
				req.Tx.LockTime = 1
				return req
			},
			self: true,
		},
		{
			name: "value too high",
			request: func(t *testing.T) *message.LockRequest {
				return newTestRequest(t, true, 0, newTestOutpoint())
			},
			modify: func(b *Backend) {
				b.Config.MaxLockRequestValue = 10
			},
			expectedErr: ErrValueTooHigh,
		},
		{
			name: "output values wrap around the cap",
			request: func(t *testing.T) *message.LockRequest {
				req := newTestRequest(t, true, 0, newTestOutpoint())
				req.Tx.TxOut = nil
				for i := 0; i < 4; i++ {
					req.Tx.AddTxOut(wire.NewTxOut(1<<62, []byte{0x51}))
				}
				return req
			},
			expectedErr: message.ErrInvalidOutputValue,
		},
		{
			name: "automatic lock with too many inputs",
			request: func(t *testing.T) *message.LockRequest {
				return newTestRequest(t, false, 0,
					newTestOutpoint(), newTestOutpoint(), newTestOutpoint(),
					newTestOutpoint(), newTestOutpoint(),
				)
			},
			expectedErr: ErrTooManyInputs,
		},
		{
			name: "explicit lock with many inputs",
			request: func(t *testing.T) *message.LockRequest {
				return newTestRequest(t, true, 0,
					newTestOutpoint(), newTestOutpoint(), newTestOutpoint(),
					newTestOutpoint(), newTestOutpoint(),
				)
			},
		},
		{
			name: "automatic locks disabled",
			request: func(t *testing.T) *message.LockRequest {
				return newTestRequest(t, false, 0, newTestOutpoint())
			},
			modify: func(b *Backend) {
				b.Config.AutoLocksEnabled = false
			},
			expectedErr: ErrAutoLockDisabled,
		},
		{
			name: "disabled",
			request: func(t *testing.T) *message.LockRequest {
				return newTestRequest(t, true, 0, newTestOutpoint())
			},
			modify: func(b *Backend) {
				b.Config.Enabled = false
			},
			expectedErr: ErrDisabled,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			env := newTestEnv(t, test.modify)

			req := test.request(t)
			var err error
			if test.self {
				err = env.engine.SubmitLockRequest(req)
			} else {
				err = env.engine.ProcessLockRequest(ids.EmptyNodeID, req)
			}
			require.ErrorIs(err, test.expectedErr)

			_, ok := env.engine.Status(req.ID())
			require.Equal(test.expectedErr == nil, ok)
		})
	}
}

func TestOrphanVoteRateLimit(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	vote := func(mn int) error {
		return env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, ids.GenerateTestID(), newTestOutpoint(), mn))
	}

	require.NoError(vote(0))
	env.clock.Advance(time.Second)
	require.NoError(vote(1))
	env.clock.Advance(time.Second)

	// Masternode 1 voted more recently than the average.
	require.ErrorIs(vote(1), ErrOrphanVoteSpam)
	stats := env.engine.Stats()
	require.Equal(2, stats.OrphanVotes)
	require.Equal(2, stats.Candidates)

	require.NoError(vote(0))
	require.Equal(3, env.engine.Stats().OrphanVotes)

	env.clock.Advance(config.DefaultOrphanRateWindow)
	require.NoError(vote(1))
}

func TestNotifyLockStatus(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	req := newTestRequest(t, true, 0, newTestOutpoint())
	require.NoError(env.engine.SubmitLockRequest(req))

	env.clock.Advance(config.DefaultLockFailedTimeout)
	env.engine.NotifyLockStatus()

	env.confidence.EXPECT().NotifyLockFailed(req.ID()).Times(1)
	env.clock.Advance(time.Second)
	env.engine.NotifyLockStatus()
	env.engine.NotifyLockStatus()
}

func TestNotifyLockStatusSkipsLocked(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	require.NoError(env.engine.SubmitLockRequest(req))
	env.confidence.EXPECT().NotifyLocked(req.ID()).Times(1)
	env.voteN(t, req.ID(), op, 0, config.DefaultSignaturesRequired)

	env.clock.Advance(time.Minute)
	env.engine.NotifyLockStatus()
	require.Empty(env.engine.selfRequests)
}

func TestNotificationsDeliveredWithoutLock(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	// Calling back into the engine would deadlock if the mutex were held.
	env.confidence.EXPECT().NotifyLocked(req.ID()).Do(func(txID ids.ID) {
		require.True(env.engine.IsLocked(txID))
	}).Times(1)
	env.voteN(t, req.ID(), op, 0, config.DefaultSignaturesRequired)
}

func TestPersistsLocks(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	store := instantsendmock.NewLockStore(ctrl)
	env := newTestEnv(t, func(b *Backend) {
		b.Store = store
	})

	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))

	env.confidence.EXPECT().NotifyLocked(req.ID()).Times(1)
	store.EXPECT().PutLock(req.ID(), []message.Outpoint{op}).Return(nil).Times(1)
	env.voteN(t, req.ID(), op, 0, config.DefaultSignaturesRequired)
}

func TestRelaysAcceptedMessages(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	relayer := instantsendmock.NewRelayer(ctrl)
	env := newTestEnv(t, func(b *Backend) {
		b.Relayer = relayer
	})

	from := ids.GenerateTestNodeID()
	op := newTestOutpoint()
	req := newTestRequest(t, true, 0, op)
	relayer.EXPECT().RelayLockRequest(from, req).Times(1)
	require.NoError(env.engine.ProcessLockRequest(from, req))
	require.NoError(env.engine.ProcessLockRequest(from, req))

	v := env.newVote(t, req.ID(), op, 0)
	relayer.EXPECT().RelayVote(from, v).Times(1)
	require.NoError(env.engine.ProcessVote(from, v))
	require.ErrorIs(env.engine.ProcessVote(from, v), ErrDuplicateVote)

	// Votes are relayed before they are verified.
	invalid := env.newVote(t, req.ID(), op, 1)
	invalid.Signature = badSignature
	require.NoError(invalid.Initialize())
	relayer.EXPECT().RelayVote(from, invalid).Times(1)
	require.ErrorIs(env.engine.ProcessVote(from, invalid), ErrInvalidSignature)
}

func TestNewValidatesBackend(t *testing.T) {
	require := require.New(t)

	_, err := New(&Backend{Config: config.Default}, metric.NewNoOpRegistry())
	require.ErrorIs(err, errMissingDeps)

	cfg := config.Default
	cfg.SignaturesRequired = 0
	_, err = New(&Backend{Config: cfg}, metric.NewNoOpRegistry())
	require.ErrorIs(err, config.ErrInvalidSignatureCounts)
}

func TestLocalMasternodeVotes(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	blsSigner, err := signer.NewBLSSigner()
	require.NoError(err)
	voter := env.masternodes[0]
	env.engine.voter = &LocalVoter{
		Collateral: voter,
		ProTxHash:  env.proTxHashes[voter],
		Signer:     blsSigner,
	}

	op0, op1 := newTestOutpoint(), newTestOutpoint()
	req := newTestRequest(t, true, 0, op0, op1)
	require.NoError(env.engine.ProcessLockRequest(ids.GenerateTestNodeID(), req))
	require.Equal(2, env.engine.LockSignatures(req.ID()))

	var votes []*message.Vote
	for _, v := range env.engine.votes {
		votes = append(votes, v.Vote)
	}
	require.Len(votes, 2)
	for _, v := range votes {
		require.Equal(voter, v.MasternodeOutpoint)
		require.Equal(env.modifier, v.QuorumModifier)
		require.True(signer.Verifier{}.Verify(signer.BLS, v.SigningPayload(), blsSigner.PublicKey(), v.Signature))
	}
}

func TestLocalMasternodeOutsideQuorumDoesNotVote(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	blsSigner, err := signer.NewBLSSigner()
	require.NoError(err)
	voter := env.masternodes[0]
	env.ranks[voter] = config.DefaultSignaturesTotal + 1
	env.engine.voter = &LocalVoter{
		Collateral: voter,
		ProTxHash:  env.proTxHashes[voter],
		Signer:     blsSigner,
	}

	req := newTestRequest(t, true, 0, newTestOutpoint())
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))
	require.Zero(env.engine.LockSignatures(req.ID()))
	require.Empty(env.engine.votes)
}

func TestLocalMasternodeWithWrongSchemeDoesNotVote(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	legacySigner, err := signer.NewLegacySigner()
	require.NoError(err)
	env.engine.voter = &LocalVoter{
		Collateral: env.masternodes[0],
		Signer:     legacySigner,
	}

	req := newTestRequest(t, true, 0, newTestOutpoint())
	require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))
	require.Empty(env.engine.votes)
}

func TestConcurrentProcessing(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, nil)

	const numRequests = 16
	var (
		requests = make([]*message.LockRequest, numRequests)
		inputs   = make([]message.Outpoint, numRequests)
		votes    []*message.Vote
	)
	for i := range requests {
		inputs[i] = newTestOutpoint()
		requests[i] = newTestRequest(t, true, int64(i), inputs[i])
		env.confidence.EXPECT().NotifyLocked(requests[i].ID()).Times(1)
		for mn := 0; mn < config.DefaultSignaturesRequired; mn++ {
			votes = append(votes, env.newVote(t, requests[i].ID(), inputs[i], mn))
		}
	}

	var eg errgroup.Group
	for _, req := range requests {
		eg.Go(func() error {
			return env.engine.ProcessLockRequest(ids.GenerateTestNodeID(), req)
		})
	}
	require.NoError(eg.Wait())

	for _, v := range votes {
		eg.Go(func() error {
			return env.engine.ProcessVote(ids.GenerateTestNodeID(), v)
		})
	}
	for i := 0; i < numRequests; i++ {
		eg.Go(func() error {
			env.engine.CheckAndRemove()
			env.engine.NotifyLockStatus()
			_ = env.engine.Stats()
			_ = env.engine.IsLocked(requests[i].ID())
			return nil
		})
	}
	require.NoError(eg.Wait())

	for i, req := range requests {
		require.True(env.engine.IsLocked(req.ID()))
		lockedBy, ok := env.engine.LockedBy(inputs[i])
		require.True(ok)
		require.Equal(req.ID(), lockedBy)
	}
	require.Equal(numRequests, env.engine.Stats().LockedOutpoints)
}

func TestVotesSplitAroundRequestFinalizeOnce(t *testing.T) {
	for numEarly := 0; numEarly <= config.DefaultSignaturesRequired; numEarly++ {
		t.Run(fmt.Sprintf("%d early votes", numEarly), func(t *testing.T) {
			require := require.New(t)
			env := newTestEnv(t, nil)

			op0, op1 := newTestOutpoint(), newTestOutpoint()
			req := newTestRequest(t, true, 0, op0, op1)
			txID := req.ID()

			for mn := 0; mn < numEarly; mn++ {
				for _, op := range []message.Outpoint{op0, op1} {
					require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, txID, op, mn)))
				}
			}
			require.False(env.engine.IsLocked(txID))

			env.confidence.EXPECT().NotifyLocked(txID).Times(1)
			require.NoError(env.engine.ProcessLockRequest(ids.EmptyNodeID, req))
			require.Equal(numEarly == config.DefaultSignaturesRequired, env.engine.IsLocked(txID))

			for mn := numEarly; mn < config.DefaultSignaturesTotal; mn++ {
				for _, op := range []message.Outpoint{op0, op1} {
					require.NoError(env.engine.ProcessVote(ids.EmptyNodeID, env.newVote(t, txID, op, mn)))
				}
			}
			require.True(env.engine.IsLocked(txID))
			require.Zero(env.engine.Stats().OrphanVotes)
			require.Equal(2*config.DefaultSignaturesTotal, env.engine.LockSignatures(txID))
		})
	}
}
