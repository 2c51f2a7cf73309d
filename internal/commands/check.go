// Package commands implements probekit's registered commands. Each is a
// command.Command constructed fresh per invocation and driven through
// the Executor's lifecycle; the cobra layer in cmd/probekit is only a
// thin shim over the registry.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/probekit/probekit/internal/check"
	"github.com/probekit/probekit/internal/command"
	"github.com/probekit/probekit/internal/config"
	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/internal/history"
)

// CheckBuilder assembles the available checks for a pass, in their
// default execution order.
type CheckBuilder func(cfg config.Config) ([]check.Check, error)

// CheckCommand runs health checks, aggregates their results and renders
// the report. It exits 0 only when the overall status is healthy.
type CheckCommand struct {
	command.Base

	cfg     config.Config
	log     logrus.FieldLogger
	out     io.Writer
	builder CheckBuilder

	opts checkOptions

	// selected is resolved during Validate so unknown names are
	// rejected before any lifecycle stage runs.
	selected []check.Check
}

type checkOptions struct {
	names    stringSlice
	report   bool
	output   string
	parallel int
	watch    bool
	interval time.Duration
}

// NewCheckCommand creates the check command. builder supplies the
// available checks; cmd/probekit wires the built-in set.
func NewCheckCommand(cfg config.Config, log logrus.FieldLogger, out io.Writer, builder CheckBuilder) *CheckCommand {
	return &CheckCommand{
		Base:    command.NewBase("check", "run health checks and report the aggregate status"),
		cfg:     cfg,
		log:     log,
		out:     out,
		builder: builder,
	}
}

// Usage implements command.Command.
func (c *CheckCommand) Usage() string {
	return "check [--check <name>]... [--report] [--output json|yaml|text] [--parallel N] [--watch] [--interval 30s]"
}

// Examples implements command.Command.
func (c *CheckCommand) Examples() []string {
	return []string{
		"check",
		"check --check disk --check service",
		"check --report --output json",
		"check --watch --interval 1m",
	}
}

// Validate implements command.Command. It parses the flags into typed
// options and resolves the selected checks, so a bad flag or an unknown
// check name fails here with no partial execution.
func (c *CheckCommand) Validate(args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&c.opts.names, "check", "check to run (repeatable; default all)")
	fs.BoolVar(&c.opts.report, "report", false, "include the summary and recommendations block")
	fs.StringVar(&c.opts.output, "output", c.cfg.Output, "output format")
	fs.IntVar(&c.opts.parallel, "parallel", 1, "max checks in flight")
	fs.BoolVar(&c.opts.watch, "watch", false, "re-run the pass on an interval until interrupted")
	fs.DurationVar(&c.opts.interval, "interval", 30*time.Second, "pass interval in watch mode")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if extra := fs.Args(); len(extra) > 0 {
		return fmt.Errorf("unexpected arguments: %v", extra)
	}
	if _, err := format.New(c.opts.output); err != nil {
		return err
	}
	if c.opts.parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", c.opts.parallel)
	}
	if c.opts.watch && c.opts.interval <= 0 {
		return fmt.Errorf("--interval must be positive in watch mode, got %v", c.opts.interval)
	}

	available, err := c.builder(c.cfg)
	if err != nil {
		return fmt.Errorf("building checks: %w", err)
	}
	c.selected, err = selectChecks(available, c.opts.names)
	return err
}

// selectChecks restricts available to the requested names, preserving
// the request order. An empty request selects everything.
func selectChecks(available []check.Check, names []string) ([]check.Check, error) {
	if len(names) == 0 {
		return available, nil
	}

	byName := make(map[string]check.Check, len(available))
	for _, c := range available {
		byName[c.Name()] = c
	}

	selected := make([]check.Check, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			known := make([]string, 0, len(available))
			for _, a := range available {
				known = append(known, a.Name())
			}
			return nil, fmt.Errorf("unknown check %q (available: %v)", name, known)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// Run implements command.Command.
func (c *CheckCommand) Run(ctx context.Context, args []string) (int, error) {
	runner := check.NewRunner(c.log)
	runner.Parallel = int64(c.opts.parallel)

	formatter, err := format.New(c.opts.output)
	if err != nil {
		return command.ExitFailure, err
	}

	var store *history.Store
	if c.cfg.History.Enabled {
		store, err = history.Open(c.cfg.History.Path)
		if err != nil {
			return command.ExitFailure, fmt.Errorf("opening run history: %w", err)
		}
		defer store.Close()
	}

	if !c.opts.watch {
		return c.pass(ctx, runner, formatter, store)
	}

	// Watch mode: one pass per interval until the context is cancelled.
	// Cancellation is the normal way to stop, so it exits 0.
	limiter := rate.NewLimiter(rate.Every(c.opts.interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return command.ExitSuccess, nil
		}
		if _, err := c.pass(ctx, runner, formatter, store); err != nil {
			return command.ExitFailure, err
		}
	}
}

// pass runs one full check pass and renders the report.
func (c *CheckCommand) pass(ctx context.Context, runner *check.Runner, formatter format.Formatter, store *history.Store) (int, error) {
	results := runner.RunAll(ctx, c.selected)
	report := check.Combine(results)

	if store != nil {
		if err := store.RecordRun(ctx, report); err != nil {
			// History is advisory; a recording failure must not mask
			// the pass outcome.
			c.log.WithError(err).Warn("failed to record run history")
		}
	}

	if !c.opts.report {
		report.Rollup = nil
	}

	rendered, err := formatter.FormatOutput(report)
	if err != nil {
		fmt.Fprintln(c.out, formatter.FormatError(err.Error()))
		return command.ExitFailure, err
	}
	fmt.Fprintln(c.out, rendered)

	if report.Status != check.StatusHealthy {
		return command.ExitFailure, nil
	}
	return command.ExitSuccess, nil
}
