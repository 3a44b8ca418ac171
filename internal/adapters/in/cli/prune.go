package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/ephemera/internal/app"
	"github.com/bnema/ephemera/internal/boundaries/in"
)

func newPruneCmd(configPath *string) *cobra.Command {
	var (
		session string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove containers left behind by earlier sessions",
		Long: `Removes every container ephemera created for a session, or for all sessions
with --all. Containers started by other tools are never touched.

Examples:
  ephemera prune --session 4f1c2a9e-...
  ephemera prune --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := pruneTarget(session, all)
			if err != nil {
				return err
			}

			kernel, err := app.NewKernel(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer kernel.Close(context.WithoutCancel(cmd.Context()))

			return prune(cmd.Context(), cmd.OutOrStdout(), kernel.Launcher(), sessionID)
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Session whose containers are removed")
	cmd.Flags().BoolVar(&all, "all", false, "Remove the containers of every session")

	return cmd
}

// pruneTarget returns the session to prune; empty means every session.
func pruneTarget(session string, all bool) (string, error) {
	switch {
	case all && session != "":
		return "", errors.New("--session and --all are mutually exclusive")
	case !all && session == "":
		return "", errors.New("either --session or --all is required")
	}
	return session, nil
}

func prune(ctx context.Context, w io.Writer, launcher in.ContainerLauncher, sessionID string) error {
	removed, err := launcher.Prune(ctx, sessionID)

	msg := fmt.Sprintf("removed %d container(s)", removed)
	if removed == 0 && err == nil {
		return cliWriteLine(w, cliRenderMuted("nothing to remove"))
	}
	if err != nil {
		_ = cliWriteLine(w, cliRenderWarning(msg))
		return err
	}
	return cliWriteLine(w, cliRenderSuccess(msg))
}
