// Package cli implements the command line adapter of ephemera.
// Commands build a container spec from flags and delegate to the app kernel.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/bnema/ephemera/pkg/version"
)

// NewRootCmd creates the root command of the ephemera CLI.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ephemera",
		Short: "ephemera - disposable containers for tests and local tooling",
		Long: `ephemera starts throwaway containers, publishes their ports on free host
ports, waits until they are ready and removes them when you are done.

Every container is labelled with the session that created it, so leftovers
of a crashed run can be removed with 'ephemera prune'.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./ephemera.toml)")

	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newPruneCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("ephemera %s\n", version.Version())
			cmd.Printf("Commit: %s\n", version.Commit())
			cmd.Printf("Build Date: %s\n", version.BuildDate())
		},
	}
}

// SetVersionInfo sets the version information reported by the CLI and the
// telemetry resource.
func SetVersionInfo(v, commit, date string) {
	version.Set(v, commit, date)
}
