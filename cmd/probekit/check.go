package main

import (
	"github.com/spf13/cobra"
)

// checkCmd is a thin shim: flags pass through untouched so the registered
// check command owns its own validation and the full lifecycle runs
// through the Executor.
var checkCmd = &cobra.Command{
	Use:   "check [--check <name>]... [--report] [--output json|yaml|text]",
	Short: "Run health checks and report the aggregate status",
	Long: `Run health checks, aggregate the results and render a report.

Examples:
  # Run every enabled check
  probekit check

  # Restrict the pass to specific checks
  probekit check --check disk --check service

  # Include the summary and recommendations block, as JSON
  probekit check --report --output json

  # Re-run every minute until interrupted
  probekit check --watch --interval 1m

Exit codes:
  0 - overall status healthy
  1 - overall status unhealthy or error, or any failure path`,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		dispatch(cmd.Context(), "check", args)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <list|show|prune>",
	Short: "Inspect and prune recorded check runs",
	Long: `List, show and prune the recorded run history.

Recording is controlled by the history section of the config file.

Examples:
  probekit history list
  probekit history show --run <id>
  probekit history prune --older-than 720h`,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		dispatch(cmd.Context(), "history", args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
}
