package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"
	"github.com/terranastra/terran/internal/core/domain"
)

// engine is the subset of the Docker SDK client the API runtime uses.
type engine interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	Close() error
}

// APIRuntime implements ports.ContainerRuntime using the Docker Engine API.
// Compose has no engine endpoint, so ComposeUp goes through the CLI runtime.
type APIRuntime struct {
	cli     engine
	compose *CLIRuntime
	log     logrus.FieldLogger

	// ProbeTimeout bounds the container list call made by Status. Zero
	// leaves it bounded only by ctx.
	ProbeTimeout time.Duration
}

// NewAPIRuntime creates an Engine API runtime configured from the environment
// (DOCKER_HOST, DOCKER_API_VERSION, ...).
func NewAPIRuntime(compose *CLIRuntime, log logrus.FieldLogger) (*APIRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return newAPIRuntime(cli, compose, log), nil
}

func newAPIRuntime(cli engine, compose *CLIRuntime, log logrus.FieldLogger) *APIRuntime {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &APIRuntime{cli: cli, compose: compose, log: log}
}

// Status lists all containers (running or not) whose name is exactly name.
// An unreachable daemon yields domain.NoStatus.
func (a *APIRuntime) Status(ctx context.Context, name string) domain.ContainerStatus {
	if a.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.ProbeTimeout)
		defer cancel()
	}
	containers, err := a.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", "^"+name+"$")),
	})
	if err != nil {
		a.log.WithError(err).WithField("container", name).Debug("container list failed")
		return domain.NoStatus
	}
	for _, c := range containers {
		for _, n := range c.Names {
			// Engine names carry a leading slash.
			if strings.TrimPrefix(n, "/") == name {
				return domain.StatusOf(c.Status)
			}
		}
	}
	return domain.NoStatus
}

// Start starts an existing container by name.
func (a *APIRuntime) Start(ctx context.Context, name string) error {
	if err := a.cli.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}
	return nil
}

// ComposeUp delegates to the docker CLI.
func (a *APIRuntime) ComposeUp(ctx context.Context, file, profile string) error {
	return a.compose.ComposeUp(ctx, file, profile)
}

// Close releases the API client.
func (a *APIRuntime) Close() error {
	return a.cli.Close()
}
