package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runCmd executes any registered command by name. It exists mostly for
// scripting: `probekit run check --report` and `probekit check --report`
// are the same invocation.
var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Execute a registered command by name",
	Long: `Execute a registered command through the standard lifecycle
(validate, pre-execute, execute, post-execute) and exit with its code.

An unknown command name exits 1; it is never an uncaught fault.`,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: run requires a command name")
			os.Exit(1)
		}
		dispatch(cmd.Context(), args[0], args[1:])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered commands and available checks",
	Run: func(cmd *cobra.Command, args []string) {
		reg := buildRegistry()

		fmt.Println("Commands:")
		for _, name := range reg.List() {
			usage, _ := reg.UsageFor(name)
			fmt.Printf("  %-10s %s\n", name, usage)
		}

		available, err := builtinChecks(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nChecks:")
		for _, c := range available {
			fmt.Printf("  %s\n", c.Name())
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}
