// Package cli wires the jab commands: send for a single probe, bench for
// repeated probes with aggregate statistics, run for YAML profiles.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd is the base command when jab is called without subcommands.
var RootCmd = &cobra.Command{
	Use:     "jab",
	Short:   "Probe and benchmark HTTP endpoints from the terminal",
	Version: version,
	Long: `Jab issues HTTP requests against a target endpoint and reports timing,
success, and aggregate statistics. A single probe runs through a
retry-with-backoff pipeline with optional rate limiting; benchmarks
repeat the probe and summarize latency and throughput.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(sendCmd)
	RootCmd.AddCommand(benchCmd)
	RootCmd.AddCommand(runCmd)
}
