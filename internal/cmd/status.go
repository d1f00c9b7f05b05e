package cmd

import (
	"github.com/spf13/cobra"
)

func newStatusCommand(d deps, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the status of the managed container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, d, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			st := a.provisioner.Status(cmd.Context())
			a.report.Step("%s", a.cfg.Container.Name)
			a.report.Detail("status: %s", st)
			if st.IsRunning() {
				a.report.Detail("running")
			} else {
				a.report.Detail("not running")
			}
			return nil
		},
	}
}
