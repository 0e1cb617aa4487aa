// File: cmd/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/momentics/zerosend/cmd/client"
	"github.com/momentics/zerosend/cmd/serve"
)

const Version = "1.0.0"

var (
	// RootCmd represents the base command when called without any subcommands.
	RootCmd = &cobra.Command{
		Use:   "zerosend",
		Short: "TCP send-path copy benchmark",
		Long: fmt.Sprintf(`zerosend (v%s)

Measures the cost of user-to-kernel copies on the TCP transmit path by
contrasting three strategies: one write per payload segment, a single
gathered write per message, and MSG_ZEROCOPY with completion tracking.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of zerosend",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("zerosend v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(client.ClientCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
