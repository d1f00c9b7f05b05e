package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/terranastra/terran/internal/core/domain"
)

// Inspector implements ports.WorkspaceInspector with go-git, so it works even
// when the git binary itself is missing.
type Inspector struct{}

// NewInspector creates an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect finds the repository enclosing dir and reports its branch and head.
// A repository without commits reports the branch HEAD points at and an empty head.
func (i *Inspector) Inspect(ctx context.Context, dir string) (domain.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return domain.Workspace{}, err
	}

	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return domain.Workspace{}, fmt.Errorf("%w: %s", domain.ErrNotRepository, dir)
		}
		return domain.Workspace{}, fmt.Errorf("failed to open repository: %w", err)
	}

	var ws domain.Workspace
	if wt, err := repo.Worktree(); err == nil {
		ws.Root = wt.Filesystem.Root()
	}

	head, err := repo.Head()
	switch {
	case err == nil:
		if head.Name().IsBranch() {
			ws.Branch = head.Name().Short()
		} else {
			ws.Branch = "HEAD"
		}
		ws.Head = head.Hash().String()[:7]
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: HEAD is symbolic and points at a ref with no commits yet.
		sym, serr := repo.Storer.Reference(plumbing.HEAD)
		if serr != nil {
			return domain.Workspace{}, fmt.Errorf("failed to read HEAD: %w", serr)
		}
		ws.Branch = sym.Target().Short()
	default:
		return domain.Workspace{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ws, nil
}
