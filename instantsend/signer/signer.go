// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package signer signs and verifies masternode lock votes under either the
// legacy ECDSA scheme or the BLS scheme used by deterministic quorums.
package signer

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/crypto/bls/signer/localsigner"
)

// Scheme identifies how a vote signature is produced.
type Scheme uint8

const (
	// Legacy votes carry a 65 byte recoverable secp256k1 signature.
	Legacy Scheme = iota
	// BLS votes carry a BLS signature made with the operator key.
	BLS
)

var (
	_ Signer = (*BLSSigner)(nil)
	_ Signer = (*LegacySigner)(nil)

	errUnknownScheme = errors.New("unknown signature scheme")
)

func (s Scheme) String() string {
	switch s {
	case Legacy:
		return "legacy"
	case BLS:
		return "bls"
	default:
		return "unknown"
	}
}

// SchemeFor returns the scheme in force for votes on a deterministic or
// legacy network.
func SchemeFor(deterministic bool) Scheme {
	if deterministic {
		return BLS
	}
	return Legacy
}

// Signer produces vote signatures with a masternode key.
type Signer interface {
	Scheme() Scheme
	// PublicKey returns the serialized public key that verifiers will be
	// given for this masternode.
	PublicKey() []byte
	Sign(payload []byte) ([]byte, error)
}

type BLSSigner struct {
	sk *localsigner.LocalSigner
}

// NewBLSSigner generates a fresh operator key.
func NewBLSSigner() (*BLSSigner, error) {
	sk, err := localsigner.New()
	if err != nil {
		return nil, err
	}
	return &BLSSigner{sk: sk}, nil
}

func (*BLSSigner) Scheme() Scheme {
	return BLS
}

func (s *BLSSigner) PublicKey() []byte {
	return bls.PublicKeyToCompressedBytes(s.sk.PublicKey())
}

func (s *BLSSigner) Sign(payload []byte) ([]byte, error) {
	sig, err := s.sk.Sign(payload)
	if err != nil {
		return nil, err
	}
	return bls.SignatureToBytes(sig), nil
}

type LegacySigner struct {
	sk *btcec.PrivateKey
}

// NewLegacySigner generates a fresh secp256k1 masternode key.
func NewLegacySigner() (*LegacySigner, error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &LegacySigner{sk: sk}, nil
}

func (*LegacySigner) Scheme() Scheme {
	return Legacy
}

func (s *LegacySigner) PublicKey() []byte {
	return s.sk.PubKey().SerializeCompressed()
}

// Sign produces a compact recoverable signature over the 32 byte payload.
func (s *LegacySigner) Sign(payload []byte) ([]byte, error) {
	return ecdsa.SignCompact(s.sk, payload, true), nil
}

// Verifier checks vote signatures against a masternode's registered key.
type Verifier struct{}

// Verify returns true if [sig] is a valid signature of [payload] by the owner
// of [publicKey] under [scheme]. Malformed keys or signatures never verify.
func (Verifier) Verify(scheme Scheme, payload, publicKey, sig []byte) bool {
	switch scheme {
	case BLS:
		return verifyBLS(payload, publicKey, sig)
	case Legacy:
		return verifyLegacy(payload, publicKey, sig)
	default:
		return false
	}
}

func verifyBLS(payload, publicKey, sig []byte) bool {
	pk, err := bls.PublicKeyFromCompressedBytes(publicKey)
	if err != nil {
		return false
	}
	signature, err := bls.SignatureFromBytes(sig)
	if err != nil {
		return false
	}
	return bls.Verify(pk, signature, payload)
}

func verifyLegacy(payload, publicKey, sig []byte) bool {
	recovered, _, err := ecdsa.RecoverCompact(sig, payload)
	if err != nil {
		return false
	}
	if bytes.Equal(recovered.SerializeCompressed(), publicKey) {
		return true
	}
	expected, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	return recovered.IsEqual(expected)
}

// New generates a signer for [scheme].
func New(scheme Scheme) (Signer, error) {
	switch scheme {
	case BLS:
		return NewBLSSigner()
	case Legacy:
		return NewLegacySigner()
	default:
		return nil, errUnknownScheme
	}
}
