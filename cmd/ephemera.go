// Package cmd is the process entry point of the ephemera binary.
package cmd

import (
	"context"
	"os"

	"github.com/bnema/ephemera/internal/adapters/in/cli"
)

// ExecuteCLI runs the root command with the build information injected by
// the linker and exits non-zero on failure.
func ExecuteCLI(version, commit, date string) {
	os.Exit(execute(context.Background(), version, commit, date, os.Args[1:]))
}

func execute(ctx context.Context, version, commit, date string, args []string) int {
	cli.SetVersionInfo(version, commit, date)

	root := cli.NewRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
