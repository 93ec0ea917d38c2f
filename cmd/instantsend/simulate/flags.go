// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulate

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/luxfi/instantsend/instantsend/config"
)

const (
	NetworkKey      = "network"
	MasternodesKey  = "masternodes"
	InputsKey       = "inputs"
	DoubleVotersKey = "double-voters"
	VerboseKey      = "verbose"
)

var (
	errTooFewMasternodes = errors.New("not enough masternodes to fill a quorum")
	errNoInputs          = errors.New("at least one input is required")
	errTooManyDouble     = errors.New("more double voters than quorum members")
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(NetworkKey, config.Mainnet, "Network whose parameters to use")
	flags.Int(MasternodesKey, 20, "Number of registered masternodes")
	flags.Int(InputsKey, 2, "Number of inputs of the simulated transaction")
	flags.Int(DoubleVotersKey, 0, "Number of quorum members that also vote for a conflicting transaction")
	flags.Bool(VerboseKey, false, "Log engine activity")
}

type Config struct {
	Params       config.Config
	Masternodes  int
	Inputs       int
	DoubleVoters int
	Verbose      bool
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	network, err := flags.GetString(NetworkKey)
	if err != nil {
		return nil, err
	}
	params, err := config.ForNetwork(network)
	if err != nil {
		return nil, err
	}
	// Every simulated vote uses deterministic quorums.
	params.DeterministicActivationHeight = 0

	masternodes, err := flags.GetInt(MasternodesKey)
	if err != nil {
		return nil, err
	}
	if masternodes < params.SignaturesTotal {
		return nil, errTooFewMasternodes
	}

	inputs, err := flags.GetInt(InputsKey)
	if err != nil {
		return nil, err
	}
	if inputs <= 0 {
		return nil, errNoInputs
	}

	doubleVoters, err := flags.GetInt(DoubleVotersKey)
	if err != nil {
		return nil, err
	}
	if doubleVoters < 0 || doubleVoters > params.SignaturesTotal {
		return nil, errTooManyDouble
	}

	verbose, err := flags.GetBool(VerboseKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Params:       params,
		Masternodes:  masternodes,
		Inputs:       inputs,
		DoubleVoters: doubleVoters,
		Verbose:      verbose,
	}, nil
}
