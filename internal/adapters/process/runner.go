// Package process runs external programs and captures what they print.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terranastra/terran/internal/core/domain"
	"github.com/terranastra/terran/internal/core/ports"
)

// DefaultTimeout bounds a single command when Runner.Timeout is zero.
const DefaultTimeout = 10 * time.Minute

// Runner implements ports.CommandRunner on top of os/exec.
type Runner struct {
	// Timeout is the deadline for one command. Negative disables it.
	Timeout time.Duration
	// Dir and Env default to the caller's working directory and environment.
	Dir string
	Env []string
	// Out receives echoed stdout/stderr. Nil discards it.
	Out    io.Writer
	Logger logrus.FieldLogger
}

// NewRunner creates a Runner echoing to out with the given deadline.
func NewRunner(out io.Writer, timeout time.Duration, logger logrus.FieldLogger) *Runner {
	return &Runner{Timeout: timeout, Out: out, Logger: logger}
}

// Run executes args synchronously. A non-zero exit returns a
// *domain.CommandFailedError after echoing the captured output; on success
// stdout is echoed unless ports.Quiet was given, stderr always is.
func (r *Runner) Run(ctx context.Context, args []string, opts ...ports.RunOption) (*domain.CommandResult, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	o := ports.Apply(opts...)

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	res := &domain.CommandResult{
		Args:     args,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	log := r.logger().WithFields(logrus.Fields{
		"cmd":      strings.Join(args, " "),
		"duration": res.Duration.Round(time.Millisecond),
	})

	if runErr != nil {
		if notFound(runErr, args[0]) {
			log.WithError(runErr).Debug("executable not found")
			return nil, fmt.Errorf("%w: %s", domain.ErrExecutableNotFound, args[0])
		}
		if ctx.Err() == context.DeadlineExceeded {
			log.Warn("command timed out")
			return res, fmt.Errorf("%w: %s after %s: %w", domain.ErrCommandTimeout, strings.Join(args, " "), timeout, context.DeadlineExceeded)
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("executing %s: %w", args[0], runErr)
		}
		res.ExitCode = exitErr.ExitCode()
		log.WithField("exit_code", res.ExitCode).Debug("command failed")

		if !o.Silent {
			r.echo(" ! Command failed: " + strings.Join(args, " "))
			r.echo(res.Stdout)
			r.echo(res.Stderr)
		}
		return res, &domain.CommandFailedError{
			Args:     args,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}

	log.WithField("exit_code", 0).Debug("command finished")
	if !o.Quiet {
		r.echo(res.Stdout)
	}
	if !o.Silent {
		r.echo(res.Stderr)
	}
	return res, nil
}

// notFound reports whether runErr means the program itself is missing: a
// failed PATH lookup, or a path name that does not exist at exec time.
func notFound(runErr error, name string) bool {
	var lookErr *exec.Error
	if errors.As(runErr, &lookErr) {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(runErr, &pathErr) && pathErr.Path == name && errors.Is(pathErr, fs.ErrNotExist)
}

func (r *Runner) echo(s string) {
	s = strings.TrimSpace(s)
	if s == "" || r.Out == nil {
		return
	}
	fmt.Fprintln(r.Out, s)
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return r.Logger
}
