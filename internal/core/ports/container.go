package ports

import (
	"context"

	"github.com/terranastra/terran/internal/core/domain"
)

// ContainerRuntime defines the container operations provisioning relies on.
// Docker is driven either through its CLI or its Engine API; the provisioner
// does not care which.
type ContainerRuntime interface {
	// Status returns the lifecycle label of the container with exactly this
	// name, or domain.NoStatus when it does not exist or cannot be queried.
	Status(ctx context.Context, name string) domain.ContainerStatus
	// Start starts an existing, stopped container.
	Start(ctx context.Context, name string) error
	// ComposeUp brings up the services of a compose profile in detached mode.
	ComposeUp(ctx context.Context, file, profile string) error
}
