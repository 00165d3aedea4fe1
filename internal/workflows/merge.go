package workflows

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/gitops"
	"github.com/temirov/gitfleet/internal/manifest"
	"github.com/temirov/gitfleet/internal/registry"
)

const (
	amendMessageTemplateConstant     = "%s Merge '%s' to '%s' (%s)"
	mergeStepErrorTemplateConstant   = "merge of %s stopped after %s: %v"
	mergeTransitionMessageConstant   = "merge state reached"
	mergeConflictResolvedMessage     = "merge conflict resolved with source changes"
	manifestVersionsUpdatedMessage   = "manifest versions updated"
	logFieldMergeStateConstant       = "merge_state"
	logFieldSourceBranchConstant     = "source_branch"
	logFieldDestinationBranchConst   = "destination_branch"
	logFieldChangedManifestsConstant = "changed_manifests"
	logFieldCommitMessageConstant    = "commit_message"
)

// MergeState is a step of the per-project merge state machine.
type MergeState int

// Merge states in transition order. MergeStateFailed is terminal and reachable from every step.
const (
	MergeStatePending MergeState = iota
	MergeStateValidated
	MergeStateSourceSynced
	MergeStateDestinationSynced
	MergeStateMerged
	MergeStateVersionBumped
	MergeStateAmended
	MergeStateSucceeded
	MergeStateFailed
)

var mergeStateNames = map[MergeState]string{
	MergeStatePending:           "pending",
	MergeStateValidated:         "validated",
	MergeStateSourceSynced:      "source synced",
	MergeStateDestinationSynced: "destination synced",
	MergeStateMerged:            "merged",
	MergeStateVersionBumped:     "version bumped",
	MergeStateAmended:           "amended",
	MergeStateSucceeded:         "succeeded",
	MergeStateFailed:            "failed",
}

// String returns the state name.
func (state MergeState) String() string {
	if name, known := mergeStateNames[state]; known {
		return name
	}
	return fmt.Sprintf("MergeState(%d)", int(state))
}

// MergeStepError identifies the last state a failed merge reached.
type MergeStepError struct {
	Project   string
	LastState MergeState
	Cause     error
}

func (stepError MergeStepError) Error() string {
	return fmt.Sprintf(mergeStepErrorTemplateConstant, stepError.Project, stepError.LastState, stepError.Cause)
}

// Unwrap exposes the failing step's error.
func (stepError MergeStepError) Unwrap() error {
	return stepError.Cause
}

// MergeOperator is the git surface the merge workflow drives.
type MergeOperator interface {
	EnsureCleanWorkingDirectory(executionContext context.Context, repositoryPath string) error
	EnsureNoCommitsToPush(executionContext context.Context, repositoryPath string, branch string) error
	SyncBranch(executionContext context.Context, repositoryPath string, branch string) error
	MergeBranch(executionContext context.Context, repositoryPath string, sourceBranch string, destinationBranch string) (gitops.MergeOutcome, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	StageAllChanges(executionContext context.Context, repositoryPath string) error
	AmendCommit(executionContext context.Context, repositoryPath string, commitMessage string) error
}

// VersionEditor bumps manifest versions and reports the resulting project version.
type VersionEditor interface {
	UpdateVersions(projectDirectory string, branch string) ([]manifest.VersionChange, error)
	FirstVersion(projectDirectory string) string
}

// MergeRequest holds the operator inputs of a merge batch.
type MergeRequest struct {
	Ticket            string
	SourceBranch      string
	DestinationBranch string
	SkipVersionBump   bool
}

type mergeStep struct {
	target MergeState
	run    func(executionContext context.Context, project registry.Project) error
}

// MergeExecutor runs the merge state machine for one project at a time.
type MergeExecutor struct {
	operator MergeOperator
	editor   VersionEditor
	logger   *zap.Logger
	request  MergeRequest
}

// NewMergeExecutor constructs a MergeExecutor.
func NewMergeExecutor(operator MergeOperator, editor VersionEditor, logger *zap.Logger, request MergeRequest) *MergeExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeExecutor{operator: operator, editor: editor, logger: logger, request: request}
}

// Operation adapts the executor to the session loop.
func (executor *MergeExecutor) Operation() ProjectOperation {
	return func(executionContext context.Context, project registry.Project) error {
		_, mergeError := executor.Execute(executionContext, project)
		return mergeError
	}
}

// Execute walks the project through every merge state and returns the terminal state.
func (executor *MergeExecutor) Execute(executionContext context.Context, project registry.Project) (MergeState, error) {
	currentState := MergeStatePending
	for _, step := range executor.steps() {
		if stepError := step.run(executionContext, project); stepError != nil {
			return MergeStateFailed, MergeStepError{Project: project.Identifier, LastState: currentState, Cause: stepError}
		}
		currentState = step.target
		executor.logger.Debug(mergeTransitionMessageConstant,
			zap.String(logFieldProjectConstant, project.Identifier),
			zap.Stringer(logFieldMergeStateConstant, currentState),
		)
	}
	return MergeStateSucceeded, nil
}

func (executor *MergeExecutor) steps() []mergeStep {
	steps := []mergeStep{
		{target: MergeStateValidated, run: executor.validate},
		{target: MergeStateSourceSynced, run: func(executionContext context.Context, project registry.Project) error {
			return executor.operator.SyncBranch(executionContext, project.Path, executor.request.SourceBranch)
		}},
		{target: MergeStateDestinationSynced, run: func(executionContext context.Context, project registry.Project) error {
			return executor.operator.SyncBranch(executionContext, project.Path, executor.request.DestinationBranch)
		}},
		{target: MergeStateMerged, run: executor.merge},
	}
	if !executor.request.SkipVersionBump {
		steps = append(steps, mergeStep{target: MergeStateVersionBumped, run: executor.bumpVersions})
	}
	return append(steps, mergeStep{target: MergeStateAmended, run: executor.amend})
}

func (executor *MergeExecutor) validate(executionContext context.Context, project registry.Project) error {
	if cleanError := executor.operator.EnsureCleanWorkingDirectory(executionContext, project.Path); cleanError != nil {
		return cleanError
	}
	for _, branch := range []string{executor.request.SourceBranch, executor.request.DestinationBranch} {
		if pushError := executor.operator.EnsureNoCommitsToPush(executionContext, project.Path, branch); pushError != nil {
			return pushError
		}
	}
	return nil
}

func (executor *MergeExecutor) merge(executionContext context.Context, project registry.Project) error {
	outcome, mergeError := executor.operator.MergeBranch(executionContext, project.Path, executor.request.SourceBranch, executor.request.DestinationBranch)
	if mergeError != nil {
		return mergeError
	}
	if outcome.ConflictResolved {
		executor.logger.Warn(mergeConflictResolvedMessage,
			zap.String(logFieldProjectConstant, project.Identifier),
			zap.String(logFieldSourceBranchConstant, executor.request.SourceBranch),
			zap.String(logFieldDestinationBranchConst, executor.request.DestinationBranch),
			zap.String(logFieldCommitMessageConstant, outcome.CommitMessage),
		)
	}
	return nil
}

func (executor *MergeExecutor) bumpVersions(executionContext context.Context, project registry.Project) error {
	currentBranch, branchError := executor.operator.CurrentBranch(executionContext, project.Path)
	if branchError != nil {
		return branchError
	}

	changes, updateError := executor.editor.UpdateVersions(project.Path, currentBranch)
	if updateError != nil {
		return updateError
	}
	if len(changes) > 0 {
		executor.logger.Info(manifestVersionsUpdatedMessage,
			zap.String(logFieldProjectConstant, project.Identifier),
			zap.Int(logFieldChangedManifestsConstant, len(changes)),
		)
	}

	return executor.operator.StageAllChanges(executionContext, project.Path)
}

func (executor *MergeExecutor) amend(executionContext context.Context, project registry.Project) error {
	commitMessage := fmt.Sprintf(amendMessageTemplateConstant,
		executor.request.Ticket,
		executor.request.SourceBranch,
		executor.request.DestinationBranch,
		executor.editor.FirstVersion(project.Path),
	)
	return executor.operator.AmendCommit(executionContext, project.Path, commitMessage)
}
