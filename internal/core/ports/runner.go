package ports

import (
	"context"

	"github.com/terranastra/terran/internal/core/domain"
)

// RunOption tweaks a single command invocation.
type RunOption func(*RunOptions)

// RunOptions are the per-call settings built from RunOption values.
type RunOptions struct {
	// Quiet suppresses echoing stdout on success. Stderr is always echoed.
	Quiet bool
	// Silent suppresses all echoing, including failure diagnostics.
	Silent bool
}

// Quiet suppresses echoing stdout of a successful command.
func Quiet() RunOption {
	return func(o *RunOptions) { o.Quiet = true }
}

// Silent suppresses all echoing. Used for probes whose failure is expected.
func Silent() RunOption {
	return func(o *RunOptions) { o.Quiet, o.Silent = true, true }
}

// Apply folds opts into a RunOptions value.
func Apply(opts ...RunOption) RunOptions {
	var o RunOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CommandRunner executes external programs synchronously.
// Errors match domain.ErrExecutableNotFound, domain.ErrCommandFailed or
// domain.ErrCommandTimeout.
type CommandRunner interface {
	Run(ctx context.Context, args []string, opts ...RunOption) (*domain.CommandResult, error)
}
