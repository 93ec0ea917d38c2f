// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instantsend collects masternode votes that lock the inputs of a
// transaction to it before the transaction is mined.
package instantsend

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"
	"github.com/luxfi/metric"

	"github.com/luxfi/instantsend/instantsend/config"
	"github.com/luxfi/instantsend/instantsend/message"
	"github.com/luxfi/instantsend/instantsend/signer"
	"github.com/luxfi/instantsend/utils/timer/mockable"
)

var (
	ErrDisabled     = errors.New("instantsend is disabled")
	errMissingDeps  = errors.New("backend is missing a required collaborator")
	errNilRequest   = errors.New("nil lock request")
	errNilVoteInput = errors.New("nil vote")

	ErrDuplicateVote       = errors.New("duplicate vote")
	ErrOrphanVoteSpam      = errors.New("orphan vote rate limit exceeded")
	ErrInvalidVote         = errors.New("invalid vote")
	ErrUnknownMasternode   = errors.New("unknown masternode")
	ErrBannedMasternode    = errors.New("banned masternode")
	ErrProTxHashMismatch   = errors.New("vote registration hash does not match masternode")
	ErrNotInQuorum         = errors.New("masternode is not in the quorum")
	ErrMissingQuorumFields = errors.New("vote is missing quorum fields")
	ErrInvalidSignature    = errors.New("invalid vote signature")
	ErrUnknownOutpoint     = errors.New("vote for an outpoint the transaction does not spend")
	ErrVoteNotAdded        = errors.New("masternode already voted or outpoint lock is full")
	ErrCandidateTimedOut   = errors.New("lock candidate timed out")
	ErrCandidateExpired    = errors.New("lock candidate expired")

	ErrInvalidLockRequest = errors.New("invalid lock request")
	ErrNoInputs           = errors.New("no inputs")
	ErrNoOutputs          = errors.New("no outputs")
	ErrNotFinal           = errors.New("non-zero lock time")
	ErrValueTooHigh       = errors.New("output value exceeds the lock limit")
	ErrAutoLockDisabled   = errors.New("automatic locks are disabled")
	ErrTooManyInputs      = errors.New("too many inputs for an automatic lock")
	ErrRejected           = errors.New("lock request was rejected")
)

type requestEntry struct {
	request    *message.LockRequest
	receivedAt time.Time
}

// Stats is a snapshot of the engine's bookkeeping.
type Stats struct {
	Candidates      int `json:"candidates"`
	Votes           int `json:"votes"`
	OrphanVotes     int `json:"orphanVotes"`
	LockedOutpoints int `json:"lockedOutpoints"`
	Accepted        int `json:"accepted"`
	Rejected        int `json:"rejected"`
}

// Engine tracks lock requests and votes and decides when a transaction is
// locked. All state is guarded by a single mutex. Notifications to
// collaborators are queued while the mutex is held and delivered after it is
// released.
type Engine struct {
	config     config.Config
	log        log.Logger
	clock      *mockable.Clock
	directory  Directory
	verifier   Verifier
	chain      Chain
	confidence ConfidenceSink
	relayer    Relayer
	store      LockStore
	voter      *LocalVoter
	metrics    *engineMetrics

	lock            sync.Mutex
	accepted        map[ids.ID]requestEntry
	rejected        map[ids.ID]requestEntry
	votes           map[ids.ID]*Vote
	orphanVotes     map[ids.ID]*Vote
	candidates      map[ids.ID]*Candidate
	votedOutpoints  map[message.Outpoint]set.Set[ids.ID]
	lockedOutpoints map[message.Outpoint]ids.ID
	// orphanVoterExpiry is when each masternode may next send an orphan vote
	// without being considered a spammer.
	orphanVoterExpiry map[message.Outpoint]time.Time
	// selfRequests are the lock requests submitted locally and when.
	selfRequests map[ids.ID]time.Time

	events []event
}

func New(backend *Backend, registerer metric.Registerer) (*Engine, error) {
	if err := backend.Config.Validate(); err != nil {
		return nil, err
	}
	if backend.Directory == nil || backend.Verifier == nil || backend.Chain == nil || backend.Confidence == nil {
		return nil, errMissingDeps
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("couldn't register metrics: %w", err)
	}

	clock := backend.Clock
	if clock == nil {
		clock = &mockable.Clock{}
	}
	logger := backend.Log
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Engine{
		config:            backend.Config,
		log:               logger,
		clock:             clock,
		directory:         backend.Directory,
		verifier:          backend.Verifier,
		chain:             backend.Chain,
		confidence:        backend.Confidence,
		relayer:           backend.Relayer,
		store:             backend.Store,
		voter:             backend.Voter,
		metrics:           m,
		accepted:          make(map[ids.ID]requestEntry),
		rejected:          make(map[ids.ID]requestEntry),
		votes:             make(map[ids.ID]*Vote),
		orphanVotes:       make(map[ids.ID]*Vote),
		candidates:        make(map[ids.ID]*Candidate),
		votedOutpoints:    make(map[message.Outpoint]set.Set[ids.ID]),
		lockedOutpoints:   make(map[message.Outpoint]ids.ID),
		orphanVoterExpiry: make(map[message.Outpoint]time.Time),
		selfRequests:      make(map[ids.ID]time.Time),
	}, nil
}

// withLock runs [f] under the engine mutex and then delivers the
// notifications [f] queued.
func (e *Engine) withLock(f func() error) error {
	e.lock.Lock()
	err := f()
	e.metrics.update(len(e.candidates), len(e.votes), len(e.orphanVotes), len(e.lockedOutpoints))
	events := e.events
	e.events = nil
	e.lock.Unlock()

	e.dispatch(events)
	return err
}

// IsDeterministic returns true if votes are currently expected to carry
// quorum fields.
func (e *Engine) IsDeterministic() bool {
	return e.config.IsDeterministic(e.chain.Height())
}

// ProcessVote handles a vote received from [from]. Errors report why the vote
// was not counted. They never indicate that the engine is in a bad state.
func (e *Engine) ProcessVote(from ids.NodeID, msg *message.Vote) error {
	if msg == nil {
		return errNilVoteInput
	}
	return e.withLock(func() error {
		return e.processVote(from, msg)
	})
}

// ProcessLockRequest handles a lock request received from [from].
func (e *Engine) ProcessLockRequest(from ids.NodeID, req *message.LockRequest) error {
	if req == nil {
		return errNilRequest
	}
	return e.withLock(func() error {
		return e.processLockRequest(from, req, false)
	})
}

// SubmitLockRequest handles a lock request created by the local wallet. If it
// does not lock within the configured timeout, the confidence sink is told
// the lock failed.
func (e *Engine) SubmitLockRequest(req *message.LockRequest) error {
	if req == nil {
		return errNilRequest
	}
	return e.withLock(func() error {
		return e.processLockRequest(ids.EmptyNodeID, req, true)
	})
}

func (e *Engine) processVote(from ids.NodeID, msg *message.Vote) error {
	if !e.config.Enabled {
		return ErrDisabled
	}

	voteID := msg.ID()
	if _, ok := e.votes[voteID]; ok {
		return ErrDuplicateVote
	}

	v := NewVote(msg, e.clock.Time())
	e.votes[voteID] = v
	e.emit(event{
		kind: eventRelayVote,
		from: from,
		vote: msg,
	})
	return e.processTxLockVote(v)
}

func (e *Engine) processTxLockVote(v *Vote) error {
	cand, ok := e.candidates[v.TxID]
	if !ok || cand.request == nil {
		return e.processOrphanVote(v)
	}

	if err := e.verifyVote(v); err != nil {
		e.metrics.rejectVote("invalid")
		e.log.Debug("dropping invalid vote",
			log.Stringer("voteID", v.ID()),
			log.Stringer("voter", v.Voter()),
			log.Err(err),
		)
		return err
	}
	if cand.IsTimedOut(e.clock.Time(), e.config.LockTimeout) {
		e.metrics.rejectVote("timed_out")
		return fmt.Errorf("%w: %s", ErrCandidateTimedOut, message.HashString(v.TxID))
	}
	return e.applyVote(cand, v)
}

// verifyVote checks that the voter is a recognized member of the vote's
// quorum and that the signature is valid.
func (e *Engine) verifyVote(v *Vote) error {
	deterministic := e.IsDeterministic()
	if deterministic && !v.Deterministic {
		return fmt.Errorf("%w: %w", ErrInvalidVote, ErrMissingQuorumFields)
	}

	info, ok := e.directory.Masternode(v.Voter())
	if !ok {
		return fmt.Errorf("%w: %w: %s", ErrInvalidVote, ErrUnknownMasternode, v.Voter())
	}
	if info.Banned {
		return fmt.Errorf("%w: %w: %s", ErrInvalidVote, ErrBannedMasternode, v.Voter())
	}
	if v.Deterministic {
		if info.ProTxHash != v.ProTxHash {
			return fmt.Errorf("%w: %w", ErrInvalidVote, ErrProTxHashMismatch)
		}
		rank, ok := e.directory.Rank(v.QuorumModifier, v.Voter())
		if !ok || rank > uint32(e.config.SignaturesTotal) {
			return fmt.Errorf("%w: %w: rank=%d", ErrInvalidVote, ErrNotInQuorum, rank)
		}
	}
	scheme := signer.SchemeFor(v.Deterministic)
	if !e.verifier.Verify(scheme, v.SigningPayload(), info.PublicKey, v.Signature) {
		return fmt.Errorf("%w: %w", ErrInvalidVote, ErrInvalidSignature)
	}
	return nil
}

// applyVote records a verified vote against [cand], first checking whether
// the voter already voted for a different transaction spending the same
// outpoint.
func (e *Engine) applyVote(cand *Candidate, v *Vote) error {
	if cand.state == StateExpired {
		return ErrCandidateExpired
	}
	if !cand.HasOutpoint(v.Outpoint) {
		e.metrics.rejectVote("unknown_outpoint")
		return fmt.Errorf("%w: %s", ErrUnknownOutpoint, v.Outpoint)
	}

	voter := v.Voter()
	voted := e.votedOutpoints[v.Outpoint]
	for otherID := range voted {
		if otherID == cand.txID {
			continue
		}
		other, ok := e.candidates[otherID]
		if !ok || !other.HasMasternodeVoted(v.Outpoint, voter) {
			continue
		}

		cand.MarkOutpointAttacked(v.Outpoint)
		other.MarkOutpointAttacked(v.Outpoint)
		e.metrics.numDoubleVotes.Inc()
		e.log.Warn("masternode voted for conflicting transactions",
			log.Stringer("voter", voter),
			log.Stringer("outpoint", v.Outpoint),
			log.String("txID", message.HashString(cand.txID)),
			log.String("conflictingTxID", message.HashString(otherID)),
		)
		e.emit(event{
			kind:  eventDoubleVote,
			voter: voter,
		})
	}

	if voted == nil {
		voted = set.NewSet[ids.ID](1)
		e.votedOutpoints[v.Outpoint] = voted
	}
	voted.Add(cand.txID)

	if !cand.AddVote(v) {
		e.metrics.rejectVote("not_added")
		return ErrVoteNotAdded
	}
	e.metrics.votesAccepted.Inc()
	e.log.Debug("counted vote",
		log.String("txID", message.HashString(cand.txID)),
		log.Stringer("outpoint", v.Outpoint),
		log.Stringer("voter", voter),
	)

	e.tryFinalize(cand)
	return nil
}

func (e *Engine) processLockRequest(from ids.NodeID, req *message.LockRequest, self bool) error {
	if !e.config.Enabled {
		return ErrDisabled
	}

	txID := req.ID()
	if _, ok := e.rejected[txID]; ok {
		return fmt.Errorf("%w: %s", ErrRejected, message.HashString(txID))
	}

	now := e.clock.Time()
	if err := e.verifyLockRequest(req, self); err != nil {
		e.rejected[txID] = requestEntry{request: req, receivedAt: now}
		e.log.Debug("rejected lock request",
			log.String("txID", message.HashString(txID)),
			log.Err(err),
		)
		return err
	}

	// Conflicts are only logged here. If the conflicting request gathers a
	// quorum anyway, finalizing it revokes both locks.
	for _, op := range req.Inputs() {
		if lockedBy, ok := e.lockedOutpoints[op]; ok && lockedBy != txID {
			e.log.Warn("found conflicting completed lock",
				log.String("txID", message.HashString(txID)),
				log.String("lockedTxID", message.HashString(lockedBy)),
				log.Stringer("outpoint", op),
			)
		}
		for otherID := range e.votedOutpoints[op] {
			if otherID != txID {
				e.log.Info("double spend attempt",
					log.String("txID", message.HashString(txID)),
					log.String("conflictingTxID", message.HashString(otherID)),
					log.Stringer("outpoint", op),
				)
			}
		}
	}

	if _, ok := e.accepted[txID]; !ok {
		e.accepted[txID] = requestEntry{request: req, receivedAt: now}
	}
	cand, isNew, err := e.createCandidate(req, now)
	if err != nil {
		return err
	}
	if self {
		if _, ok := e.selfRequests[txID]; !ok {
			e.selfRequests[txID] = now
		}
	}
	if isNew {
		e.log.Debug("accepted lock request",
			log.String("txID", message.HashString(txID)),
			log.Int("numInputs", len(req.Inputs())),
		)
		e.emit(event{
			kind:    eventRelayRequest,
			from:    from,
			request: req,
		})
	}

	e.voteOn(cand)
	e.processOrphanVotes(txID)
	e.tryFinalize(cand)
	return nil
}

func (e *Engine) verifyLockRequest(req *message.LockRequest, self bool) error {
	value, err := req.OutputValue()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLockRequest, err)
	}
	switch {
	case len(req.Inputs()) == 0:
		return fmt.Errorf("%w: %w", ErrInvalidLockRequest, ErrNoInputs)
	case req.NumOutputs() == 0:
		return fmt.Errorf("%w: %w", ErrInvalidLockRequest, ErrNoOutputs)
	case req.LockTime() != 0 && !self:
		return fmt.Errorf("%w: %w: %d", ErrInvalidLockRequest, ErrNotFinal, req.LockTime())
	case e.config.MaxLockRequestValue > 0 && value > e.config.MaxLockRequestValue:
		return fmt.Errorf("%w: %w: %s", ErrInvalidLockRequest, ErrValueTooHigh, value)
	case !req.Explicit && !e.config.AutoLocksEnabled:
		return fmt.Errorf("%w: %w", ErrInvalidLockRequest, ErrAutoLockDisabled)
	case !req.Explicit && len(req.Inputs()) > e.config.MaxInputsForAutoLock:
		return fmt.Errorf("%w: %w: %d", ErrInvalidLockRequest, ErrTooManyInputs, len(req.Inputs()))
	default:
		return nil
	}
}

// createCandidate returns the candidate for [req], attaching the request to an
// empty candidate created by earlier votes. isNew is true if the request was
// not previously attached.
func (e *Engine) createCandidate(req *message.LockRequest, now time.Time) (*Candidate, bool, error) {
	txID := req.ID()
	cand, ok := e.candidates[txID]
	switch {
	case !ok:
		cand = NewCandidate(req, now, e.config.SignaturesRequired, e.config.SignaturesTotal)
		e.candidates[txID] = cand
		return cand, true, nil
	case cand.request == nil:
		if cand.IsTimedOut(now, e.config.LockTimeout) {
			return nil, false, fmt.Errorf("%w: %s", ErrCandidateTimedOut, message.HashString(txID))
		}
		cand.attach(req, e.config.SignaturesRequired, e.config.SignaturesTotal)
		return cand, true, nil
	default:
		return cand, false, nil
	}
}

// tryFinalize locks the inputs of [cand] to it once every input is ready,
// unless one of them is already locked to another transaction.
func (e *Engine) tryFinalize(cand *Candidate) {
	if cand.state != StatePending || !cand.IsAllOutpointsReady() {
		return
	}
	cand.state = StateReady

	if e.resolveConflicts(cand) {
		return
	}

	for _, op := range cand.Outpoints() {
		e.lockedOutpoints[op] = cand.txID
	}
	cand.state = StateFinalized
	e.metrics.numLocked.Inc()
	e.log.Info("transaction locked",
		log.String("txID", message.HashString(cand.txID)),
		log.Int("numVotes", cand.CountVotes()),
	)
	e.emit(event{
		kind:      eventLocked,
		txID:      cand.txID,
		outpoints: cand.Outpoints(),
	})
}

// resolveConflicts returns true if an input of the ready candidate is locked
// to another transaction. Both candidates are then rejected.
func (e *Engine) resolveConflicts(cand *Candidate) bool {
	for _, op := range cand.Outpoints() {
		otherID, ok := e.lockedOutpoints[op]
		if !ok || otherID == cand.txID {
			continue
		}

		e.metrics.numCollisions.Inc()
		e.log.Error("lock collision",
			log.String("txID", message.HashString(cand.txID)),
			log.String("lockedTxID", message.HashString(otherID)),
			log.Stringer("outpoint", op),
		)

		now := e.clock.Time()
		e.rejectCandidate(cand, now)
		if other, ok := e.candidates[otherID]; ok {
			e.rejectCandidate(other, now)
		}
		return true
	}
	return false
}

func (e *Engine) rejectCandidate(cand *Candidate, now time.Time) {
	wasLocked := cand.state == StateFinalized
	cand.state = StateExpired
	e.removeCandidate(cand)
	delete(e.accepted, cand.txID)
	delete(e.selfRequests, cand.txID)
	if cand.request != nil {
		e.rejected[cand.txID] = requestEntry{request: cand.request, receivedAt: now}
	}
	e.emit(event{
		kind:      eventLockFailed,
		txID:      cand.txID,
		wasLocked: wasLocked,
	})
}

// removeCandidate deletes [cand] and every index entry that refers to it.
func (e *Engine) removeCandidate(cand *Candidate) {
	for _, op := range cand.Outpoints() {
		voted := e.votedOutpoints[op]
		voted.Remove(cand.txID)
		if voted.Len() == 0 {
			delete(e.votedOutpoints, op)
		} else {
			e.votedOutpoints[op] = voted
		}
		if lockedBy, ok := e.lockedOutpoints[op]; ok && lockedBy == cand.txID {
			delete(e.lockedOutpoints, op)
		}
	}
	delete(e.candidates, cand.txID)
}

// voteOn casts the local masternode's votes for the inputs of [cand].
func (e *Engine) voteOn(cand *Candidate) {
	if e.voter == nil {
		return
	}

	height := e.chain.Height()
	deterministic := e.config.IsDeterministic(height)
	if e.voter.Signer.Scheme() != signer.SchemeFor(deterministic) {
		e.log.Warn("local signer does not match the active vote scheme",
			log.Stringer("scheme", e.voter.Signer.Scheme()),
		)
		return
	}

	var modifier ids.ID
	if deterministic {
		blkID, ok := e.chain.BlockHash(height)
		if !ok {
			e.log.Debug("missing quorum block",
				log.Uint64("height", height),
			)
			return
		}
		rank, ok := e.directory.Rank(blkID, e.voter.Collateral)
		if !ok || rank > uint32(e.config.SignaturesTotal) {
			e.log.Debug("not in quorum",
				log.String("txID", message.HashString(cand.txID)),
				log.Uint32("rank", rank),
			)
			return
		}
		modifier = blkID
	}

	for _, op := range cand.Outpoints() {
		msg, err := e.signVote(cand.txID, op, deterministic, modifier)
		if err != nil {
			e.log.Error("failed to sign vote",
				log.Stringer("outpoint", op),
				log.Err(err),
			)
			return
		}
		if err := e.processVote(ids.EmptyNodeID, msg); err != nil && !errors.Is(err, ErrDuplicateVote) {
			e.log.Warn("local vote was not counted",
				log.Stringer("outpoint", op),
				log.Err(err),
			)
		}
	}
}

func (e *Engine) signVote(txID ids.ID, op message.Outpoint, deterministic bool, modifier ids.ID) (*message.Vote, error) {
	msg := &message.Vote{
		TxID:               txID,
		Outpoint:           op,
		MasternodeOutpoint: e.voter.Collateral,
		Deterministic:      deterministic,
	}
	if deterministic {
		msg.QuorumModifier = modifier
		msg.ProTxHash = e.voter.ProTxHash
	}
	if err := msg.Initialize(); err != nil {
		return nil, err
	}
	sig, err := e.voter.Signer.Sign(msg.SigningPayload())
	if err != nil {
		return nil, err
	}
	msg.Signature = sig
	return msg, msg.Initialize()
}

// MarkConfirmed records that [txID] was included in the block at [height].
func (e *Engine) MarkConfirmed(txID ids.ID, height uint64) {
	_ = e.withLock(func() error {
		e.syncTransaction(txID, func(c *Candidate) { c.setConfirmedHeight(height) }, func(v *Vote) { v.setConfirmedHeight(height) })
		return nil
	})
}

// MarkUnconfirmed records that the block including [txID] was disconnected.
func (e *Engine) MarkUnconfirmed(txID ids.ID) {
	_ = e.withLock(func() error {
		e.syncTransaction(txID, (*Candidate).clearConfirmedHeight, (*Vote).clearConfirmedHeight)
		return nil
	})
}

func (e *Engine) syncTransaction(txID ids.ID, onCandidate func(*Candidate), onVote func(*Vote)) {
	if cand, ok := e.candidates[txID]; ok {
		onCandidate(cand)
	}
	for _, v := range e.votes {
		if v.TxID == txID {
			onVote(v)
		}
	}
	for _, v := range e.orphanVotes {
		if v.TxID == txID {
			onVote(v)
		}
	}
}

// AlreadyHave returns true if [id] is a known vote or lock request.
func (e *Engine) AlreadyHave(id ids.ID) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	_, isVote := e.votes[id]
	_, isAccepted := e.accepted[id]
	_, isRejected := e.rejected[id]
	return isVote || isAccepted || isRejected
}

// Vote returns a known vote.
func (e *Engine) Vote(voteID ids.ID) (*message.Vote, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	v, ok := e.votes[voteID]
	if !ok {
		return nil, false
	}
	return v.Vote, true
}

// LockRequest returns a known lock request.
func (e *Engine) LockRequest(txID ids.ID) (*message.LockRequest, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if entry, ok := e.accepted[txID]; ok {
		return entry.request, true
	}
	entry, ok := e.rejected[txID]
	return entry.request, ok
}

// IsLocked returns true if every input of [txID] is locked to it.
func (e *Engine) IsLocked(txID ids.ID) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.isLocked(txID)
}

func (e *Engine) isLocked(txID ids.ID) bool {
	if !e.config.Enabled {
		return false
	}
	cand, ok := e.candidates[txID]
	if !ok || cand.state != StateFinalized {
		return false
	}
	for _, op := range cand.Outpoints() {
		if lockedBy, ok := e.lockedOutpoints[op]; !ok || lockedBy != txID {
			return false
		}
	}
	return true
}

// IsLockTimedOut returns true if [txID] failed to gather enough votes in time.
func (e *Engine) IsLockTimedOut(txID ids.ID) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	cand, ok := e.candidates[txID]
	return ok && cand.IsTimedOut(e.clock.Time(), e.config.LockTimeout)
}

// LockSignatures returns the number of votes counted towards locking [txID],
// or -1 if the transaction is unknown.
func (e *Engine) LockSignatures(txID ids.ID) int {
	e.lock.Lock()
	defer e.lock.Unlock()

	cand, ok := e.candidates[txID]
	if !e.config.Enabled || !ok {
		return -1
	}
	return cand.CountVotes()
}

// Status returns the state of the candidate for [txID].
func (e *Engine) Status(txID ids.ID) (State, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	cand, ok := e.candidates[txID]
	if !ok {
		return StateEmpty, false
	}
	return cand.state, true
}

// LockedBy returns the transaction [op] is locked to.
func (e *Engine) LockedBy(op message.Outpoint) (ids.ID, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	txID, ok := e.lockedOutpoints[op]
	return txID, ok
}

// IsEnoughOrphanVotesForTx returns true if every input of the known request
// for [txID] has enough buffered orphan votes to become ready.
func (e *Engine) IsEnoughOrphanVotesForTx(txID ids.ID) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	entry, ok := e.accepted[txID]
	return ok && e.isEnoughOrphanVotesForTx(entry.request)
}

func (e *Engine) Stats() Stats {
	e.lock.Lock()
	defer e.lock.Unlock()

	return Stats{
		Candidates:      len(e.candidates),
		Votes:           len(e.votes),
		OrphanVotes:     len(e.orphanVotes),
		LockedOutpoints: len(e.lockedOutpoints),
		Accepted:        len(e.accepted),
		Rejected:        len(e.rejected),
	}
}
