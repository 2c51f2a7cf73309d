package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/probekit/probekit/internal/check"
	"github.com/probekit/probekit/internal/checks"
	"github.com/probekit/probekit/internal/command"
	"github.com/probekit/probekit/internal/commands"
	"github.com/probekit/probekit/internal/config"
)

var (
	cfgPath  string
	logLevel string

	// logLevelSet records whether --log-level was given explicitly, by
	// cobra's parse or by extractGlobalFlags; only then does it override
	// the config file's level.
	logLevelSet bool

	cfg = config.Default()
	log = logrus.New()

	// cfgErr is kept instead of failing fast so doctor can diagnose a
	// broken configuration; every other command refuses to run on it.
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "probekit",
	Short: "Operational health checks for services and hosts",
	Long: `probekit runs diagnostic health checks, aggregates their results into a
single report and renders it as text, JSON or YAML.

Checks are probes over collaborators (databases, disks, services). Each
pass yields exactly one verdict per check; probe faults are captured as
status "error", never raw stack traces.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stderr)

		if cmd.Flags().Changed("log-level") || cmd.InheritedFlags().Changed("log-level") {
			logLevelSet = true
		}
		return applyGlobals(cmd.Name())
	},
}

// applyGlobals loads the config file and applies the effective log
// level. It runs from the persistent pre-run hook and again from
// dispatch: the shim subcommands disable cobra's flag parsing, so for
// them --config and --log-level only surface in the raw argument vector.
func applyGlobals(cmdName string) error {
	if cfgPath != "" {
		cfg, cfgErr = config.Load(cfgPath)
	}
	if cfgErr != nil && cmdName != "doctor" {
		return cfgErr
	}

	level := cfg.LogLevel
	if logLevelSet {
		level = logLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(parsed)
	return nil
}

// extractGlobalFlags pulls --config and --log-level out of a raw
// argument vector, in any position and in both --flag value and
// --flag=value spellings. Everything else passes through untouched for
// the registered command's own flag parsing.
func extractGlobalFlags(args []string) (rest []string, found bool, err error) {
	for i := 0; i < len(args); i++ {
		name, value, hasValue := splitFlag(args[i])
		if name != "config" && name != "log-level" {
			rest = append(rest, args[i])
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, false, fmt.Errorf("flag --%s requires a value", name)
			}
			i++
			value = args[i]
		}
		found = true
		if name == "config" {
			cfgPath = value
		} else {
			logLevel = value
			logLevelSet = true
		}
	}
	return rest, found, nil
}

// splitFlag parses -name, --name, -name=value and --name=value.
func splitFlag(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if eq := strings.IndexByte(trimmed, '='); eq >= 0 {
		return trimmed[:eq], trimmed[eq+1:], true
	}
	return trimmed, "", false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
}

// buildRegistry assembles the command registry. Factories capture the
// loaded config, so a fresh instance picks up the active settings on
// every invocation.
func buildRegistry() *command.Registry {
	reg := command.NewRegistry(log)
	reg.Register("check", func() command.Command {
		return commands.NewCheckCommand(cfg, log, os.Stdout, builtinChecks)
	})
	reg.Register("history", func() command.Command {
		return commands.NewHistoryCommand(cfg, log, os.Stdout)
	})
	return reg
}

// builtinChecks assembles the enabled built-in checks in their default
// execution order.
func builtinChecks(cfg config.Config) ([]check.Check, error) {
	var out []check.Check
	if cfg.Checks.Service.Enabled {
		out = append(out, checks.NewServiceCheck("service", checks.NewProcessCollaborator()))
	}
	if cfg.Checks.Disk.Enabled {
		out = append(out, checks.NewDiskCheck(cfg.Checks.Disk.Path, cfg.Checks.Disk.WarnPercent))
	}
	if cfg.Checks.Database.Enabled {
		out = append(out, checks.NewDatabaseCheck(cfg.Checks.Database.Path))
	}
	return out, nil
}

// dispatch runs a registered command through the Executor and exits the
// process with its code. Registry help is served for --help/-h since the
// shim commands disable cobra's flag parsing; global flags arriving in
// the raw vector are applied here before the command sees its args.
func dispatch(ctx context.Context, name string, args []string) {
	rest, found, err := extractGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if found {
		if err := applyGlobals(name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	args = rest

	reg := buildRegistry()

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			if help, ok := reg.Help(name); ok {
				fmt.Print(help)
				os.Exit(0)
			}
			break
		}
	}

	exec := command.NewExecutor(reg, log)
	os.Exit(exec.Execute(ctx, name, args))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
