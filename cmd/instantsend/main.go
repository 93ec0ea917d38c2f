// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/instantsend/cmd/instantsend/decode"
	"github.com/luxfi/instantsend/cmd/instantsend/params"
	"github.com/luxfi/instantsend/cmd/instantsend/simulate"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:   "instantsend",
		Short: "Inspects and simulates transaction lock voting",
	}
	cmd.AddCommand(
		decode.Command(),
		simulate.Command(),
		params.Command(),
	)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
