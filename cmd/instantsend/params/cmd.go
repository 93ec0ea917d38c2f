// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package params

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/luxfi/instantsend/instantsend/config"
)

const NetworkKey = "network"

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "params",
		Short: "Prints the default engine configuration of a network",
		RunE:  paramsFunc,
	}
	c.Flags().String(NetworkKey, config.Mainnet, "Network whose defaults to print")
	return c
}

func paramsFunc(c *cobra.Command, _ []string) error {
	network, err := c.Flags().GetString(NetworkKey)
	if err != nil {
		return err
	}
	cfg, err := config.ForNetwork(network)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = c.OutOrStdout().Write(append(b, '\n'))
	return err
}
