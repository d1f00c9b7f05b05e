package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/terranastra/terran/internal/config"
	"github.com/terranastra/terran/internal/core/ports"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ExitError asks main to exit with Code. A nil Err means the failure has
// already been reported on the console.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

type rootOptions struct {
	configPath string
	logLevel   string
	driver     string
}

// deps are the seams tests replace.
type deps struct {
	stdout io.Writer
	stderr io.Writer
	// runner overrides the os/exec command runner when set.
	runner ports.CommandRunner
}

// NewRootCommand creates and returns the root cobra command for terran
func NewRootCommand() *cobra.Command {
	return newRootCommand(deps{stdout: os.Stdout, stderr: os.Stderr})
}

func newRootCommand(d deps) *cobra.Command {
	opts := &rootOptions{}
	up := &upOptions{}

	cmd := &cobra.Command{
		Use:   "terran",
		Short: "Bootstrap a workstation: check git and docker, bring up the SQL container",
		Long: `terran checks that git and docker are installed and makes sure the managed
SQL Server (Azure SQL Edge) container is running, starting it or provisioning
it from its docker compose profile when needed.

Running terran without a subcommand is the same as "terran up".`,
		Version:      Version,
		SilenceUsage: true,
		// Errors are printed by main
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUp(cmd, d, opts, up)
		},
	}
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultPath, "path to the terran configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "diagnostics level (trace, debug, info, warn, error)")
	pf.StringVar(&opts.driver, "driver", "", `how docker is queried: "cli" or "api"`)
	cmd.Flags().BoolVar(&up.strict, "strict", false, "exit non-zero when the container could not be brought up")

	cmd.AddCommand(newUpCommand(d, opts))
	cmd.AddCommand(newCheckCommand(d, opts))
	cmd.AddCommand(newStatusCommand(d, opts))
	cmd.AddCommand(newProvisionCommand(d, opts))
	cmd.AddCommand(newServeCommand(d, opts))

	return cmd
}
