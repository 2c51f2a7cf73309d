package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/probekit/probekit/internal/check"
	"github.com/probekit/probekit/internal/format"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive shell for running checks",
	Long: `Open an interactive shell for exploring checks one at a time.

Commands inside the console:
  list              list available checks
  run <name>...     run one or more checks and show their results
  report            run every check and render the full report
  help              show this help
  exit              leave the console`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConsole(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(ctx context.Context) error {
	available, err := builtinChecks(cfg)
	if err != nil {
		return fmt.Errorf("building checks: %w", err)
	}
	byName := make(map[string]check.Check, len(available))
	for _, c := range available {
		byName[c.Name()] = c
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "probekit> ",
		HistoryFile:     filepathJoinHome(".probekit_console_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing console: %w", err)
	}
	defer rl.Close()

	text := &format.TextFormatter{}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return nil

		case "help":
			fmt.Println("Commands: list, run <name>..., report, help, exit")

		case "list":
			for _, c := range available {
				fmt.Printf("  %s\n", c.Name())
			}

		case "run":
			if len(fields) < 2 {
				fmt.Println("usage: run <name>...")
				continue
			}
			var results []check.Result
			for _, name := range fields[1:] {
				c, ok := byName[name]
				if !ok {
					fmt.Printf("unknown check %q (try: list)\n", name)
					continue
				}
				results = append(results, check.Run(ctx, c))
			}
			printResults(text, results, false)

		case "report":
			var results []check.Result
			for _, c := range available {
				results = append(results, check.Run(ctx, c))
			}
			printResults(text, results, true)

		default:
			fmt.Printf("unknown command %q (try: help)\n", fields[0])
		}
	}
}

func printResults(text *format.TextFormatter, results []check.Result, withRollup bool) {
	if len(results) == 0 {
		return
	}
	report := check.Combine(results)
	if !withRollup {
		report.Rollup = nil
	}
	rendered, err := text.FormatOutput(report)
	if err != nil {
		fmt.Println(text.FormatError(err.Error()))
		return
	}
	fmt.Println(rendered)
}

func filepathJoinHome(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}
