package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExecutableNotFound means the program is not on PATH.
	ErrExecutableNotFound = errors.New("executable not found")
	// ErrCommandFailed means the program ran and exited non-zero.
	ErrCommandFailed = errors.New("command failed")
	// ErrCommandTimeout means the program was killed at its deadline.
	ErrCommandTimeout = errors.New("command timed out")
	// ErrPreconditionMissing means a required file is absent.
	ErrPreconditionMissing = errors.New("precondition missing")
	// ErrNotRepository means no git repository encloses the directory.
	ErrNotRepository = errors.New("not a git repository")
	// ErrLocked means another run holds the provisioning lock.
	ErrLocked = errors.New("provisioning already in progress")
)

// CommandFailedError carries the captured output of a command that exited non-zero.
type CommandFailedError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("%s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
}

// Is lets errors.Is(err, ErrCommandFailed) match.
func (e *CommandFailedError) Is(target error) bool {
	return target == ErrCommandFailed
}
