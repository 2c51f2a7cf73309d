package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/internal/history"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check probekit installation and configuration health",
	Long: `Run self-diagnosis to find common probekit configuration problems.

This command checks:
- Configuration file syntax and field values
- Version compatibility with the config's min_version
- Output format setting
- Run-history database accessibility
- Built-in check availability

Exit codes:
  0 - All checks passed
  1 - One or more checks failed (but not critical)
  2 - Critical failures that prevent probekit from running`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running probekit self-diagnosis...\n\n")

		var failures []string
		var warnings []string
		var criticalFailures []string

		// Check 1: configuration
		fmt.Printf("%s Configuration\n", cyan("→"))
		switch {
		case cfgPath == "":
			fmt.Printf("  %s No config file given (built-in defaults active)\n", green("✓"))
		case cfgErr != nil:
			criticalFailures = append(criticalFailures, fmt.Sprintf("Config unusable: %v", cfgErr))
			fmt.Printf("  %s Cannot use config file %s\n", red("✗"), cfgPath)
			if verbose {
				fmt.Printf("    Error: %v\n", cfgErr)
			}
		default:
			fmt.Printf("  %s Loaded config: %s\n", green("✓"), cfgPath)
		}

		// Check 2: version compatibility
		fmt.Printf("%s Version compatibility\n", cyan("→"))
		if cfg.MinVersion == "" {
			fmt.Printf("  %s No min_version pinned in config\n", green("✓"))
		} else if !semver.IsValid("v" + cfg.MinVersion) {
			warnings = append(warnings, fmt.Sprintf("min_version %q is not valid semver", cfg.MinVersion))
			fmt.Printf("  %s min_version %q is not valid semver\n", yellow("⚠"), cfg.MinVersion)
		} else if semver.Compare("v"+version, "v"+cfg.MinVersion) < 0 {
			failures = append(failures, fmt.Sprintf("probekit %s is older than required min_version %s", version, cfg.MinVersion))
			fmt.Printf("  %s probekit %s < required %s\n", red("✗"), version, cfg.MinVersion)
		} else {
			fmt.Printf("  %s probekit %s satisfies min_version %s\n", green("✓"), version, cfg.MinVersion)
		}

		// Check 3: output format
		fmt.Printf("%s Output format\n", cyan("→"))
		if _, err := format.New(cfg.Output); err != nil {
			failures = append(failures, fmt.Sprintf("Invalid output format: %v", err))
			fmt.Printf("  %s Invalid output format %q\n", red("✗"), cfg.Output)
		} else {
			fmt.Printf("  %s Output format: %s\n", green("✓"), cfg.Output)
		}

		// Check 4: run-history database
		fmt.Printf("%s Run history\n", cyan("→"))
		if !cfg.History.Enabled {
			fmt.Printf("  %s History recording disabled\n", green("✓"))
		} else {
			if store, err := history.Open(cfg.History.Path); err != nil {
				failures = append(failures, fmt.Sprintf("Cannot open history database: %v", err))
				fmt.Printf("  %s Cannot open history database %s\n", red("✗"), cfg.History.Path)
				if verbose {
					fmt.Printf("    Error: %v\n", err)
				}
			} else {
				store.Close()
				abs, _ := filepath.Abs(cfg.History.Path)
				fmt.Printf("  %s History database writable: %s\n", green("✓"), abs)
			}
		}

		// Check 5: built-in checks
		fmt.Printf("%s Built-in checks\n", cyan("→"))
		available, err := builtinChecks(cfg)
		if err != nil {
			failures = append(failures, fmt.Sprintf("Cannot build checks: %v", err))
			fmt.Printf("  %s Cannot build checks\n", red("✗"))
		} else if len(available) == 0 {
			warnings = append(warnings, "No checks enabled; a pass will be vacuously healthy")
			fmt.Printf("  %s No checks enabled\n", yellow("⚠"))
		} else {
			names := make([]string, 0, len(available))
			for _, c := range available {
				names = append(names, c.Name())
			}
			fmt.Printf("  %s %d check(s) enabled: %s\n", green("✓"), len(available), strings.Join(names, ", "))
		}

		// Summary
		fmt.Printf("\n%s\n", strings.Repeat("─", 60))

		totalIssues := len(criticalFailures) + len(failures) + len(warnings)
		if totalIssues == 0 {
			fmt.Printf("%s All checks passed! probekit is ready to run.\n", green("✓"))
			os.Exit(0)
		}

		if len(criticalFailures) > 0 {
			fmt.Printf("\n%s Critical failures (%d):\n", red("✗"), len(criticalFailures))
			for _, failure := range criticalFailures {
				fmt.Printf("  • %s\n", failure)
			}
		}

		if len(failures) > 0 {
			fmt.Printf("\n%s Failures (%d):\n", red("✗"), len(failures))
			for _, failure := range failures {
				fmt.Printf("  • %s\n", failure)
			}
		}

		if len(warnings) > 0 {
			fmt.Printf("\n%s Warnings (%d):\n", yellow("⚠"), len(warnings))
			for _, warning := range warnings {
				fmt.Printf("  • %s\n", warning)
			}
		}

		if len(criticalFailures) > 0 {
			fmt.Printf("\n%s probekit cannot run until critical issues are resolved.\n", red("✗"))
			os.Exit(2)
		}
		if len(failures) > 0 {
			fmt.Printf("\n%s probekit may not work correctly. Please address the failures above.\n", yellow("⚠"))
			os.Exit(1)
		}
		fmt.Printf("\n%s probekit should work, but some warnings were detected.\n", green("✓"))
		os.Exit(0)
	},
}

func init() {
	doctorCmd.Flags().BoolP("verbose", "v", false, "Show detailed diagnostic information")
	rootCmd.AddCommand(doctorCmd)
}
