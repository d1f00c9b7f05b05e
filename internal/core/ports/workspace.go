package ports

import (
	"context"

	"github.com/terranastra/terran/internal/core/domain"
)

// WorkspaceInspector reports on the git repository enclosing a directory.
type WorkspaceInspector interface {
	// Inspect returns domain.ErrNotRepository when dir is not inside a repository.
	Inspect(ctx context.Context, dir string) (domain.Workspace, error)
}
