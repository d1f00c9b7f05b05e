package cmd

import (
	"github.com/spf13/cobra"
	"github.com/terranastra/terran/internal/core/domain"
)

func newCheckCommand(d deps, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that git and docker are installed",
		Long: `Runs "<tool> --version" for git and docker. A missing git is only
reported; a missing docker makes the command exit 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, d, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			results := a.checker.CheckAll(cmd.Context(), domain.Git, domain.Docker)
			for _, r := range results {
				if r.Tool == domain.Docker.Name && !r.OK {
					return &ExitError{Code: 1}
				}
			}
			return nil
		},
	}
}
