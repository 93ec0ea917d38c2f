// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	Mainnet = "mainnet"
	Testnet = "testnet"

	DefaultSignaturesRequired   = 6
	DefaultSignaturesTotal      = 10
	DefaultLockTimeout          = 65 * time.Second
	DefaultLockFailedTimeout    = 10 * time.Second
	DefaultOrphanRateWindow     = 10 * time.Minute
	DefaultMaxInputsForAutoLock = 4
)

var (
	ErrUnknownNetwork          = errors.New("unknown network")
	ErrInvalidSignatureCounts  = errors.New("signatures required must be in (0, signatures total]")
	ErrInvalidTimeout          = errors.New("timeouts must be positive")
	ErrInvalidKeepLockDepth    = errors.New("keep lock depth must be positive")
	ErrInvalidSweepInterval    = errors.New("sweep interval must be positive")
	ErrInvalidMaxAutoLockInput = errors.New("max inputs for auto lock must be positive")
)

// Default is the mainnet configuration.
var Default = Config{
	Network:                       Mainnet,
	Enabled:                       true,
	AutoLocksEnabled:              true,
	SignaturesRequired:            DefaultSignaturesRequired,
	SignaturesTotal:               DefaultSignaturesTotal,
	LockTimeout:                   DefaultLockTimeout,
	OrphanVoteTimeout:             DefaultLockTimeout,
	LockFailedTimeout:             DefaultLockFailedTimeout,
	OrphanRateWindow:              DefaultOrphanRateWindow,
	KeepLockDepth:                 24,
	MaxInputsForAutoLock:          DefaultMaxInputsForAutoLock,
	MaxLockRequestValue:           1000 * btcutil.SatoshiPerBitcoin,
	DeterministicActivationHeight: 1_088_640,
	SweepInterval:                 5 * time.Second,
}

// Testnet keeps locks for fewer blocks and activates deterministic quorums
// early.
var TestnetDefault = func() Config {
	c := Default
	c.Network = Testnet
	c.KeepLockDepth = 6
	c.DeterministicActivationHeight = 4001
	return c
}()

// Config contains the tunable parameters of the lock voting engine.
type Config struct {
	Network string `json:"network"`

	// Enabled turns processing of votes and lock requests on or off.
	Enabled bool `json:"enabled"`
	// AutoLocksEnabled allows plain transactions with few inputs to be locked
	// without an explicit lock request.
	AutoLocksEnabled bool `json:"auto-locks-enabled"`

	SignaturesRequired int `json:"signatures-required"`
	SignaturesTotal    int `json:"signatures-total"`

	LockTimeout       time.Duration `json:"lock-timeout"`
	OrphanVoteTimeout time.Duration `json:"orphan-vote-timeout"`
	// LockFailedTimeout is how long a locally submitted request may remain
	// unlocked before the lock failure is reported.
	LockFailedTimeout time.Duration `json:"lock-failed-timeout"`
	OrphanRateWindow  time.Duration `json:"orphan-rate-window"`

	// KeepLockDepth is the number of blocks a confirmed candidate is retained.
	KeepLockDepth uint64 `json:"keep-lock-depth"`

	MaxInputsForAutoLock int            `json:"max-inputs-for-auto-lock"`
	MaxLockRequestValue  btcutil.Amount `json:"max-lock-request-value"`

	// DeterministicActivationHeight is the first height at which votes carry
	// the quorum modifier and are signed with BLS.
	DeterministicActivationHeight uint64 `json:"deterministic-activation-height"`

	SweepInterval time.Duration `json:"sweep-interval"`
}

// ForNetwork returns the default configuration of the named network.
func ForNetwork(network string) (Config, error) {
	switch network {
	case Mainnet:
		return Default, nil
	case Testnet:
		return TestnetDefault, nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, network)
	}
}

// GetConfig returns a Config from the provided json encoded bytes. Values
// missing from the bytes keep the defaults of the named network. If empty
// bytes are provided, the mainnet default config is returned.
func GetConfig(b []byte) (*Config, error) {
	c := Default
	if len(b) == 0 {
		return &c, nil
	}

	var header struct {
		Network string `json:"network"`
	}
	if err := json.Unmarshal(b, &header); err != nil {
		return nil, err
	}
	if header.Network != "" {
		var err error
		c, err = ForNetwork(header.Network)
		if err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, c.Validate()
}

// Validate returns an error if the configuration can never produce a lock.
func (c *Config) Validate() error {
	switch {
	case c.SignaturesRequired <= 0 || c.SignaturesRequired > c.SignaturesTotal:
		return fmt.Errorf("%w: required=%d total=%d", ErrInvalidSignatureCounts, c.SignaturesRequired, c.SignaturesTotal)
	case c.LockTimeout <= 0 || c.OrphanVoteTimeout <= 0 || c.LockFailedTimeout <= 0 || c.OrphanRateWindow <= 0:
		return ErrInvalidTimeout
	case c.KeepLockDepth == 0:
		return ErrInvalidKeepLockDepth
	case c.SweepInterval <= 0:
		return ErrInvalidSweepInterval
	case c.MaxInputsForAutoLock <= 0:
		return ErrInvalidMaxAutoLockInput
	default:
		return nil
	}
}

// IsDeterministic returns true if votes at [height] use deterministic
// quorums.
func (c *Config) IsDeterministic(height uint64) bool {
	return height >= c.DeterministicActivationHeight
}
