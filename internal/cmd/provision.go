package cmd

import (
	"github.com/spf13/cobra"
)

func newProvisionCommand(d deps, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Start or provision the managed container",
		Long: `Starts the managed container if it exists but is stopped, otherwise runs
"docker compose up -d" with the configured file and profile. Exits 1 when the
container is not running afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, d, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.provisionLocked(cmd.Context())
			if err != nil {
				return err
			}
			a.reportOutcome(outcome)
			if !outcome.OK() {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}
