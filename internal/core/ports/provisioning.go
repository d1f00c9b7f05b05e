package ports

import (
	"context"

	"github.com/terranastra/terran/internal/core/domain"
)

// ToolChecker reports whether external tools are installed.
type ToolChecker interface {
	CheckAll(ctx context.Context, tools ...domain.Tool) []domain.CheckResult
}

// ProvisioningService ensures the managed container is running.
type ProvisioningService interface {
	Target() domain.Target
	Status(ctx context.Context) domain.ContainerStatus
	Provision(ctx context.Context) domain.Outcome
}

// Lock guards a provisioning run.
type Lock interface {
	TryAcquire() error
	Release() error
}
