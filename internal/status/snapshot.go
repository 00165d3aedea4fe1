package status

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/gitops"
	"github.com/temirov/gitfleet/internal/manifest"
	"github.com/temirov/gitfleet/internal/registry"
)

const (
	errorValueConstant           = "ERR"
	statusReadFailedMessage      = "unable to read repository status"
	manifestsMissingMessage      = "no manifest files found in project directory"
	manifestListingFailedMessage = "unable to list manifests"
	logFieldProjectConstant      = "project"
	logFieldProjectPathConstant  = "project_path"
	logFieldStatusFieldConstant  = "status_field"
	statusFieldUncommitted       = "uncommitted"
	statusFieldUnpushed          = "unpushed"
	statusFieldUnpulled          = "unpulled"
	statusFieldBranch            = "branch"
	statusFieldLatestCommit      = "latest_commit"
)

// GitStatusReader exposes the repository queries behind a status snapshot.
type GitStatusReader interface {
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	LatestCommitDate(executionContext context.Context, repositoryPath string) (gitops.CommitTimestamp, error)
	CountUncommittedChanges(executionContext context.Context, repositoryPath string) (int, error)
	CountUnpushedCommits(executionContext context.Context, repositoryPath string) (int, error)
	CountUnpulledCommits(executionContext context.Context, repositoryPath string, branch string) (int, error)
}

// ManifestReader lists manifest records beneath a project.
type ManifestReader interface {
	Inspect(projectDirectory string) ([]manifest.Record, error)
}

// CountValue is a commit or change count that may have failed to load.
type CountValue struct {
	Count int
	Error error
}

// String renders the count, or "ERR" when it could not be determined.
func (value CountValue) String() string {
	if value.Error != nil {
		return errorValueConstant
	}
	return strconv.Itoa(value.Count)
}

// Snapshot is the point-in-time git state of one project.
type Snapshot struct {
	Uncommitted     CountValue
	Unpushed        CountValue
	Unpulled        CountValue
	UnpulledLoaded  bool
	CurrentBranch   string
	BranchError     error
	LatestCommit    gitops.CommitTimestamp
	LatestCommitErr error
}

// ProjectStatus couples a project with its snapshot and manifests.
type ProjectStatus struct {
	Project   registry.Project
	Snapshot  Snapshot
	Manifests []manifest.Record
}

// Collector gathers project statuses.
type Collector struct {
	gitReader      GitStatusReader
	manifestReader ManifestReader
	logger         *zap.Logger
}

// NewCollector constructs a Collector.
func NewCollector(gitReader GitStatusReader, manifestReader ManifestReader, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{gitReader: gitReader, manifestReader: manifestReader, logger: logger}
}

// Collect reads the snapshot and manifests of one project. Individual failures are recorded in the snapshot.
func (collector *Collector) Collect(executionContext context.Context, project registry.Project, includeUnpulled bool) ProjectStatus {
	projectStatus := ProjectStatus{Project: project}
	snapshot := &projectStatus.Snapshot

	manifests, manifestError := collector.manifestReader.Inspect(project.Path)
	if manifestError != nil {
		collector.logger.Warn(manifestListingFailedMessage, collector.projectFields(project, zap.Error(manifestError))...)
	}
	projectStatus.Manifests = manifests
	if manifestError == nil && len(manifests) == 0 {
		collector.logger.Warn(manifestsMissingMessage, collector.projectFields(project)...)
	}

	uncommittedCount, uncommittedError := collector.gitReader.CountUncommittedChanges(executionContext, project.Path)
	snapshot.Uncommitted = CountValue{Count: uncommittedCount, Error: collector.recordFailure(project, statusFieldUncommitted, uncommittedError)}

	unpushedCount, unpushedError := collector.gitReader.CountUnpushedCommits(executionContext, project.Path)
	snapshot.Unpushed = CountValue{Count: unpushedCount, Error: collector.recordFailure(project, statusFieldUnpushed, unpushedError)}

	currentBranch, branchError := collector.gitReader.CurrentBranch(executionContext, project.Path)
	snapshot.CurrentBranch = currentBranch
	snapshot.BranchError = collector.recordFailure(project, statusFieldBranch, branchError)

	if includeUnpulled {
		snapshot.UnpulledLoaded = true
		if snapshot.BranchError != nil {
			snapshot.Unpulled = CountValue{Error: snapshot.BranchError}
		} else {
			unpulledCount, unpulledError := collector.gitReader.CountUnpulledCommits(executionContext, project.Path, currentBranch)
			snapshot.Unpulled = CountValue{Count: unpulledCount, Error: collector.recordFailure(project, statusFieldUnpulled, unpulledError)}
		}
	}

	latestCommit, latestCommitError := collector.gitReader.LatestCommitDate(executionContext, project.Path)
	snapshot.LatestCommit = latestCommit
	snapshot.LatestCommitErr = collector.recordFailure(project, statusFieldLatestCommit, latestCommitError)

	return projectStatus
}

func (collector *Collector) recordFailure(project registry.Project, field string, failure error) error {
	if failure == nil {
		return nil
	}
	collector.logger.Warn(statusReadFailedMessage, collector.projectFields(project, zap.String(logFieldStatusFieldConstant, field), zap.Error(failure))...)
	return failure
}

func (collector *Collector) projectFields(project registry.Project, additional ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String(logFieldProjectConstant, project.Identifier),
		zap.String(logFieldProjectPathConstant, project.Path),
	}
	return append(fields, additional...)
}
