package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/probekit/probekit/internal/command"
	"github.com/probekit/probekit/internal/config"
	"github.com/probekit/probekit/internal/history"
)

// HistoryCommand inspects and prunes the recorded run history.
type HistoryCommand struct {
	command.Base

	cfg config.Config
	log logrus.FieldLogger
	out io.Writer

	opts historyOptions
}

type historyOptions struct {
	action    string
	limit     int
	olderThan time.Duration
	runID     string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(cfg config.Config, log logrus.FieldLogger, out io.Writer) *HistoryCommand {
	return &HistoryCommand{
		Base: command.NewBase("history", "list, show and prune recorded check runs"),
		cfg:  cfg,
		log:  log,
		out:  out,
	}
}

// Usage implements command.Command.
func (c *HistoryCommand) Usage() string {
	return "history <list|show|prune> [-n N] [--run <id>] [--older-than 168h]"
}

// Examples implements command.Command.
func (c *HistoryCommand) Examples() []string {
	return []string{
		"history list",
		"history list -n 50",
		"history show --run 4f7c1c3a-...",
		"history prune --older-than 720h",
	}
}

// Validate implements command.Command.
func (c *HistoryCommand) Validate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("history requires an action: list, show or prune")
	}
	c.opts.action = args[0]

	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&c.opts.limit, "n", 20, "max runs to list")
	fs.StringVar(&c.opts.runID, "run", "", "run ID to show")
	fs.DurationVar(&c.opts.olderThan, "older-than", 30*24*time.Hour, "prune runs older than this")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if extra := fs.Args(); len(extra) > 0 {
		return fmt.Errorf("unexpected arguments: %v", extra)
	}

	switch c.opts.action {
	case "list":
		if c.opts.limit < 1 {
			return fmt.Errorf("-n must be at least 1, got %d", c.opts.limit)
		}
	case "show":
		if c.opts.runID == "" {
			return fmt.Errorf("show requires --run <id>")
		}
	case "prune":
		if c.opts.olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive, got %v", c.opts.olderThan)
		}
	default:
		return fmt.Errorf("unknown action %q: expected list, show or prune", c.opts.action)
	}
	return nil
}

// Run implements command.Command.
func (c *HistoryCommand) Run(ctx context.Context, args []string) (int, error) {
	store, err := history.Open(c.cfg.History.Path)
	if err != nil {
		return command.ExitFailure, fmt.Errorf("opening run history: %w", err)
	}
	defer store.Close()

	switch c.opts.action {
	case "list":
		return c.list(ctx, store)
	case "show":
		return c.show(ctx, store)
	case "prune":
		return c.prune(ctx, store)
	}
	// Unreachable: Validate rejects anything else.
	return command.ExitFailure, fmt.Errorf("unknown action %q", c.opts.action)
}

func (c *HistoryCommand) list(ctx context.Context, store *history.Store) (int, error) {
	runs, err := store.ListRuns(ctx, c.opts.limit)
	if err != nil {
		return command.ExitFailure, err
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "No recorded runs.")
		return command.ExitSuccess, nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSTATUS\tCHECKS\tHEALTH\tID")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\t%s\n",
			r.Timestamp.Format(time.RFC3339), r.Status,
			r.TotalChecks, r.HealthPercentage, r.ID)
	}
	if err := w.Flush(); err != nil {
		return command.ExitFailure, err
	}
	return command.ExitSuccess, nil
}

func (c *HistoryCommand) show(ctx context.Context, store *history.Store) (int, error) {
	results, err := store.GetRun(ctx, c.opts.runID)
	if err != nil {
		return command.ExitFailure, err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDURATION\tERROR")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Status, r.Duration, r.Error)
	}
	if err := w.Flush(); err != nil {
		return command.ExitFailure, err
	}
	return command.ExitSuccess, nil
}

func (c *HistoryCommand) prune(ctx context.Context, store *history.Store) (int, error) {
	cutoff := time.Now().UTC().Add(-c.opts.olderThan)
	removed, err := store.PruneBefore(ctx, cutoff)
	if err != nil {
		return command.ExitFailure, err
	}
	fmt.Fprintf(c.out, "Pruned %d run(s) recorded before %s\n",
		removed, cutoff.Format(time.RFC3339))
	return command.ExitSuccess, nil
}
