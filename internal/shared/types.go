package shared

import (
	"context"
	"io/fs"
	"time"

	"github.com/temirov/gitfleet/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default remote fleet branches track.
	OriginRemoteNameConstant = "origin"
	// DevelopmentBranchNameConstant is the default integration branch.
	DevelopmentBranchNameConstant = "dev"
	// ReleaseBranchNameConstant is the default release branch.
	ReleaseBranchNameConstant = "master"
	// NotAvailableValueConstant is displayed when a value cannot be determined.
	NotAvailableValueConstant = "N/A"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FileSystem exposes the filesystem operations used for project and manifest handling.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// GitExecutor exposes the subset of shell execution used by fleet services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ConfirmationPrompter collects operator confirmations prior to mutating actions.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// InputPrompter collects free-text answers from the operator.
type InputPrompter interface {
	ReadLine(prompt string) (string, error)
}

// ProjectDiscoverer finds git repositories beneath a root directory.
type ProjectDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}
