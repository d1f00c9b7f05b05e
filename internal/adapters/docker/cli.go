package docker

import (
	"context"
	"strings"
	"time"

	"github.com/terranastra/terran/internal/core/domain"
	"github.com/terranastra/terran/internal/core/ports"
)

// CLIRuntime implements ports.ContainerRuntime by shelling out to the docker CLI.
type CLIRuntime struct {
	runner ports.CommandRunner
	// Binary is the docker executable, "docker" by default.
	Binary string
	// ProbeTimeout bounds a status query. Zero leaves it to the runner.
	ProbeTimeout time.Duration
}

// NewCLIRuntime creates a CLI-backed runtime.
func NewCLIRuntime(runner ports.CommandRunner) *CLIRuntime {
	return &CLIRuntime{runner: runner, Binary: "docker"}
}

// Status runs `docker ps -a` filtered on the exact container name. Any failure,
// including a missing docker binary, is reported as domain.NoStatus.
func (c *CLIRuntime) Status(ctx context.Context, name string) domain.ContainerStatus {
	if c.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ProbeTimeout)
		defer cancel()
	}
	res, err := c.runner.Run(ctx, c.PsArgs(name), ports.Silent())
	if err != nil || res == nil {
		return domain.NoStatus
	}
	out := strings.TrimSpace(res.Stdout)
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return domain.StatusOf(out)
}

// Start runs `docker start <name>` with stdout suppressed.
func (c *CLIRuntime) Start(ctx context.Context, name string) error {
	_, err := c.runner.Run(ctx, []string{c.bin(), "start", name}, ports.Quiet())
	return err
}

// ComposeUp runs `docker compose -f <file> --profile <profile> up -d` with stdout suppressed.
func (c *CLIRuntime) ComposeUp(ctx context.Context, file, profile string) error {
	_, err := c.runner.Run(ctx, c.ComposeUpArgs(file, profile), ports.Quiet())
	return err
}

// PsArgs is the argv of the status query.
func (c *CLIRuntime) PsArgs(name string) []string {
	return []string{c.bin(), "ps", "-a", "--filter", "name=^" + name + "$", "--format", "{{.Status}}"}
}

// ComposeUpArgs is the argv of the provisioning command.
func (c *CLIRuntime) ComposeUpArgs(file, profile string) []string {
	return []string{c.bin(), "compose", "-f", file, "--profile", profile, "up", "-d"}
}

func (c *CLIRuntime) bin() string {
	if c.Binary == "" {
		return "docker"
	}
	return c.Binary
}
