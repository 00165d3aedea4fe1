package workflows

import (
	"context"

	"github.com/temirov/gitfleet/internal/registry"
)

// BranchPuller pulls the checked-out branch of a repository.
type BranchPuller interface {
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	PullBranch(executionContext context.Context, repositoryPath string, branch string) error
}

// PullOperation rebases each project's checked-out branch onto its remote counterpart.
func PullOperation(puller BranchPuller) ProjectOperation {
	return func(executionContext context.Context, project registry.Project) error {
		currentBranch, branchError := puller.CurrentBranch(executionContext, project.Path)
		if branchError != nil {
			return branchError
		}
		return puller.PullBranch(executionContext, project.Path, currentBranch)
	}
}
