package domain

import "time"

// CommandResult is what a finished external command produced.
type CommandResult struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}
