package workflows

import (
	"context"

	"github.com/temirov/gitfleet/internal/registry"
)

// BranchSynchronizer brings a branch up to date and checks it out.
type BranchSynchronizer interface {
	SyncBranch(executionContext context.Context, repositoryPath string, branch string) error
}

// CheckoutOperation switches every project to the branch, fetching or pulling it first.
func CheckoutOperation(synchronizer BranchSynchronizer, branch string) ProjectOperation {
	return func(executionContext context.Context, project registry.Project) error {
		return synchronizer.SyncBranch(executionContext, project.Path, branch)
	}
}
