package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/terranastra/terran/internal/core/domain"
)

type upOptions struct {
	strict bool
}

func newUpCommand(d deps, opts *rootOptions) *cobra.Command {
	up := &upOptions{}
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Check git and docker, then make sure the container is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUp(cmd, d, opts, up)
		},
	}
	cmd.Flags().BoolVar(&up.strict, "strict", false, "exit non-zero when the container could not be brought up")
	return cmd
}

// runUp is the full bootstrap: git is informational, docker is required.
func runUp(cmd *cobra.Command, d deps, opts *rootOptions, up *upOptions) error {
	a, err := newApp(cmd, d, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	a.report.Text("terran bootstrap beginning")

	a.checker.Check(ctx, domain.Git)
	a.reportWorkspace(ctx)

	if !a.checker.Check(ctx, domain.Docker).OK {
		a.report.Fail("docker")
		return &ExitError{Code: 1}
	}

	outcome, err := a.provisionLocked(ctx)
	if err != nil {
		return err
	}
	a.reportOutcome(outcome)
	if up.strict && !outcome.OK() {
		return &ExitError{Code: 1}
	}
	return nil
}

func (a *app) reportWorkspace(ctx context.Context) {
	dir, err := os.Getwd()
	if err != nil {
		a.log.WithError(err).Debug("cannot determine working directory")
		return
	}
	ws, err := a.inspector.Inspect(ctx, dir)
	switch {
	case errors.Is(err, domain.ErrNotRepository):
		a.report.Detail("not inside a git repository")
	case err != nil:
		a.log.WithError(err).Warn("failed to inspect git workspace")
	case ws.Head == "":
		a.report.Detail("repository %s on %s (no commits yet)", ws.Root, ws.Branch)
	default:
		a.report.Detail("repository %s on %s (%s)", ws.Root, ws.Branch, ws.Head)
	}
}
