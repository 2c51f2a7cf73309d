package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "0.4.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the probekit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("probekit %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
