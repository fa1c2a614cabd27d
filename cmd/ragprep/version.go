package main

import (
	"github.com/spf13/cobra"

	"github.com/eholt723/ragprep/internal/cache"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("ragprep version %s\n", version)
		cmd.Printf("Build Time: %s\n", buildTime)
		cmd.Printf("SQLite Driver: %s (%s)\n", cache.DriverName, cache.BuildMode)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
