package gitops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/execshell"
	"github.com/temirov/gitfleet/internal/shared"
)

const (
	fatalOutputMarkerConstant           = "fatal"
	terminalPromptEnvironmentVariable   = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant = "0"
	headReferenceConstant               = "HEAD"
	upstreamSuffixConstant              = "@{u}"
	remoteReferenceSeparatorConstant    = "/"
	remoteHeadsPrefixConstant           = "refs/heads/"
	lsRemoteMissingHeadExitCodeConstant = 2
	conflictCommitMessageTemplate       = "Merged %s into %s and resolved conflict with %s changes."
	currentBranchOperationConstant      = "detect current branch"
	fetchOperationConstant              = "fetch"
	checkoutOperationConstant           = "checkout"
	trackUpstreamOperationConstant      = "set upstream for"
	mergeOperationConstant              = "merge"
	conflictResolutionOperationConstant = "resolve merge conflict for"
	pullOperationConstant               = "pull"
	syncOperationConstant               = "sync"
	amendOperationConstant              = "amend commit"
	stageOperationConstant              = "stage changes"
	versionOperationConstant            = "git --version"
	logFieldRepositoryPathConstant      = "repository_path"
	logFieldBranchConstant              = "branch"
	logFieldSourceBranchConstant        = "source_branch"
	logFieldDestinationBranchConstant   = "destination_branch"
	logFieldUpstreamConstant            = "upstream"
	upstreamTrackedMessageConstant      = "branch tracks upstream"
	upstreamMissingMessageConstant      = "branch is not tracking a remote branch; setting upstream"
	mergeConflictMessageConstant        = "merge failed; resolving conflict with source changes"
	remoteLookupFailedMessageConstant   = "unable to look up remote branch; continuing with pull"
	checkoutSkippedMessageConstant      = "already on branch; pulling instead of checkout"
	checkoutRequiredMessageConstant     = "switching branch"
	logFieldCurrentBranchConstant       = "current_branch"
	gitVersionArgumentConstant          = "--version"
	revParseCommandConstant             = "rev-parse"
	abbreviatedReferenceFlagConstant    = "--abbrev-ref"
	fetchCommandConstant                = "fetch"
	noTagsFlagConstant                  = "--no-tags"
	checkoutCommandConstant             = "checkout"
	progressFlagConstant                = "--progress"
	theirsFlagConstant                  = "--theirs"
	branchCommandConstant               = "branch"
	setUpstreamFlagPrefixConstant       = "--set-upstream-to="
	mergeCommandConstant                = "merge"
	noFastForwardFlagConstant           = "--no-ff"
	noEditFlagConstant                  = "--no-edit"
	addCommandConstant                  = "add"
	currentDirectoryPathspecConstant    = "."
	commitCommandConstant               = "commit"
	messageFlagConstant                 = "-m"
	quietFlagConstant                   = "-q"
	amendFlagConstant                   = "--amend"
	lsRemoteCommandConstant             = "ls-remote"
	headsFlagConstant                   = "--heads"
	exitCodeFlagConstant                = "--exit-code"
	pullCommandConstant                 = "pull"
	rebaseFlagConstant                  = "--rebase"
	fetchReferenceSpecTemplateConstant  = "%s:%s"
	branchDifferenceRangeTemplate       = "%s..%s"
	symmetricDifferenceRangeTemplate    = "%s...%s"
	lineSeparatorConstant               = "\n"
	globalOptionsConfigFlagConstant     = "-c"
	mnemonicPrefixDisabledConstant      = "diff.mnemonicprefix=false"
	quotePathDisabledConstant           = "core.quotepath=false"
	noOptionalLocksFlagConstant         = "--no-optional-locks"
)

var baseGitArguments = []string{
	globalOptionsConfigFlagConstant, mnemonicPrefixDisabledConstant,
	globalOptionsConfigFlagConstant, quotePathDisabledConstant,
	noOptionalLocksFlagConstant,
}

// AdapterDependencies describes the collaborators of an Adapter.
type AdapterDependencies struct {
	Executor shared.GitExecutor
	Logger   *zap.Logger
	Clock    shared.Clock
}

// MergeOutcome reports how a merge completed.
type MergeOutcome struct {
	ConflictResolved bool
	CommitMessage    string
}

// Adapter runs git with the fleet safety flags and interprets its output.
type Adapter struct {
	executor shared.GitExecutor
	logger   *zap.Logger
	clock    shared.Clock
	policy   shared.BranchPolicy
}

// NewAdapter validates its collaborators and constructs an Adapter.
func NewAdapter(dependencies AdapterDependencies, policy shared.BranchPolicy) (*Adapter, error) {
	if dependencies.Executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}

	return &Adapter{
		executor: dependencies.Executor,
		logger:   logger,
		clock:    clock,
		policy:   policy.Sanitize(),
	}, nil
}

// Version reports the installed git version.
func (adapter *Adapter) Version(executionContext context.Context) (string, error) {
	result, executionError := adapter.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitVersionArgumentConstant},
		EnvironmentVariables: adapter.environment(),
	})
	if executionError != nil {
		return "", OperationError{Operation: versionOperationConstant, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// CurrentBranch returns the abbreviated name of HEAD.
func (adapter *Adapter) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	result, executionError := adapter.runGit(executionContext, repositoryPath, revParseCommandConstant, abbreviatedReferenceFlagConstant, headReferenceConstant)
	if executionError != nil {
		return "", OperationError{Operation: currentBranchOperationConstant, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// FetchBranch updates the local branch ref from the remote without fetching tags.
func (adapter *Adapter) FetchBranch(executionContext context.Context, repositoryPath string, branch string) error {
	referenceSpec := fmt.Sprintf(fetchReferenceSpecTemplateConstant, branch, branch)
	if _, executionError := adapter.runGit(executionContext, repositoryPath, fetchCommandConstant, noTagsFlagConstant, adapter.policy.RemoteName, referenceSpec); executionError != nil {
		return OperationError{Operation: fetchOperationConstant, Target: branch, Cause: executionError}
	}
	return nil
}

// CheckoutBranch switches to the branch and ensures it tracks the same-named remote branch.
func (adapter *Adapter) CheckoutBranch(executionContext context.Context, repositoryPath string, branch string) error {
	if _, checkoutError := adapter.runGit(executionContext, repositoryPath, checkoutCommandConstant, branch, progressFlagConstant); checkoutError != nil {
		return OperationError{Operation: checkoutOperationConstant, Target: branch, Cause: checkoutError}
	}

	upstreamResult, upstreamError := adapter.runGit(executionContext, repositoryPath, revParseCommandConstant, abbreviatedReferenceFlagConstant, branch+upstreamSuffixConstant)
	if upstreamError == nil {
		adapter.logger.Debug(upstreamTrackedMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.String(logFieldBranchConstant, branch),
			zap.String(logFieldUpstreamConstant, strings.TrimSpace(upstreamResult.StandardOutput)),
		)
		return nil
	}

	remoteBranch := adapter.remoteBranch(branch)
	adapter.logger.Info(upstreamMissingMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldBranchConstant, branch),
		zap.String(logFieldUpstreamConstant, remoteBranch),
	)
	if _, trackError := adapter.runGit(executionContext, repositoryPath, branchCommandConstant, setUpstreamFlagPrefixConstant+remoteBranch, branch); trackError != nil {
		return OperationError{Operation: trackUpstreamOperationConstant, Target: branch, Cause: trackError}
	}
	return nil
}

// MergeBranch merges source into the checked-out destination with a merge commit.
// A failed merge is resolved by taking the source side of every conflicted path and committing the result.
func (adapter *Adapter) MergeBranch(executionContext context.Context, repositoryPath string, sourceBranch string, destinationBranch string) (MergeOutcome, error) {
	_, mergeError := adapter.runGit(executionContext, repositoryPath, mergeCommandConstant, noFastForwardFlagConstant, noEditFlagConstant, sourceBranch)
	if mergeError == nil {
		return MergeOutcome{}, nil
	}
	if executionContext.Err() != nil {
		return MergeOutcome{}, OperationError{Operation: mergeOperationConstant, Target: sourceBranch, Cause: mergeError}
	}

	adapter.logger.Warn(mergeConflictMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldSourceBranchConstant, sourceBranch),
		zap.String(logFieldDestinationBranchConstant, destinationBranch),
		zap.Error(mergeError),
	)

	resolutionSteps := [][]string{
		{checkoutCommandConstant, theirsFlagConstant, currentDirectoryPathspecConstant},
		{addCommandConstant, currentDirectoryPathspecConstant},
	}
	for _, resolutionStep := range resolutionSteps {
		if _, stepError := adapter.runGit(executionContext, repositoryPath, resolutionStep...); stepError != nil {
			return MergeOutcome{}, OperationError{Operation: conflictResolutionOperationConstant, Target: sourceBranch, Cause: stepError}
		}
	}

	commitMessage := fmt.Sprintf(conflictCommitMessageTemplate, sourceBranch, destinationBranch, sourceBranch)
	if _, commitError := adapter.runGit(executionContext, repositoryPath, commitCommandConstant, messageFlagConstant, commitMessage); commitError != nil {
		return MergeOutcome{}, OperationError{Operation: conflictResolutionOperationConstant, Target: sourceBranch, Cause: commitError}
	}

	return MergeOutcome{ConflictResolved: true, CommitMessage: commitMessage}, nil
}

// PullBranch rebases the checked-out branch onto its remote counterpart.
// Branches outside the development/release pair must exist on the remote.
func (adapter *Adapter) PullBranch(executionContext context.Context, repositoryPath string, branch string) error {
	currentBranch, currentBranchError := adapter.CurrentBranch(executionContext, repositoryPath)
	if currentBranchError != nil {
		return OperationError{Operation: pullOperationConstant, Target: branch, Cause: currentBranchError}
	}
	if currentBranch != branch {
		return OperationError{Operation: pullOperationConstant, Target: branch, Cause: BranchMismatchError{ExpectedBranch: branch, CurrentBranch: currentBranch}}
	}

	if !adapter.policy.IsProtectedBranch(branch) {
		lookupResult, lookupError := adapter.runGit(executionContext, repositoryPath, lsRemoteCommandConstant, headsFlagConstant, exitCodeFlagConstant, adapter.policy.RemoteName, remoteHeadsPrefixConstant+branch)
		if lookupError != nil {
			if lookupResult.ExitCode == lsRemoteMissingHeadExitCodeConstant {
				return OperationError{Operation: pullOperationConstant, Target: branch, Cause: ErrRemoteBranchMissing}
			}
			adapter.logger.Debug(remoteLookupFailedMessageConstant,
				zap.String(logFieldRepositoryPathConstant, repositoryPath),
				zap.String(logFieldBranchConstant, branch),
				zap.Error(lookupError),
			)
		}
	}

	if _, pullError := adapter.runGit(executionContext, repositoryPath, pullCommandConstant, rebaseFlagConstant, adapter.policy.RemoteName, branch); pullError != nil {
		return OperationError{Operation: pullOperationConstant, Target: branch, Cause: pullError}
	}
	return nil
}

// SyncBranch brings the branch up to date: pulls when it is checked out, otherwise fetches and checks it out.
func (adapter *Adapter) SyncBranch(executionContext context.Context, repositoryPath string, branch string) error {
	currentBranch, currentBranchError := adapter.CurrentBranch(executionContext, repositoryPath)
	if currentBranchError != nil {
		return OperationError{Operation: syncOperationConstant, Target: branch, Cause: currentBranchError}
	}

	if currentBranch == branch {
		adapter.logger.Debug(checkoutSkippedMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.String(logFieldBranchConstant, branch),
		)
		return adapter.PullBranch(executionContext, repositoryPath, branch)
	}

	adapter.logger.Debug(checkoutRequiredMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldCurrentBranchConstant, currentBranch),
		zap.String(logFieldBranchConstant, branch),
	)

	if fetchError := adapter.FetchBranch(executionContext, repositoryPath, branch); fetchError != nil {
		return fetchError
	}
	if checkoutError := adapter.CheckoutBranch(executionContext, repositoryPath, branch); checkoutError != nil {
		return checkoutError
	}

	switchedBranch, switchedBranchError := adapter.CurrentBranch(executionContext, repositoryPath)
	if switchedBranchError != nil {
		return OperationError{Operation: syncOperationConstant, Target: branch, Cause: switchedBranchError}
	}
	if switchedBranch != branch {
		return OperationError{Operation: syncOperationConstant, Target: branch, Cause: BranchMismatchError{ExpectedBranch: branch, CurrentBranch: switchedBranch}}
	}
	return nil
}

// AmendCommit rewrites the message of the last commit.
func (adapter *Adapter) AmendCommit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	if _, amendError := adapter.runGit(executionContext, repositoryPath, commitCommandConstant, quietFlagConstant, amendFlagConstant, messageFlagConstant, commitMessage); amendError != nil {
		return OperationError{Operation: amendOperationConstant, Cause: amendError}
	}
	return nil
}

// StageAllChanges stages every change in the working tree.
func (adapter *Adapter) StageAllChanges(executionContext context.Context, repositoryPath string) error {
	if _, stageError := adapter.runGit(executionContext, repositoryPath, addCommandConstant, currentDirectoryPathspecConstant); stageError != nil {
		return OperationError{Operation: stageOperationConstant, Cause: stageError}
	}
	return nil
}

// runGit prefixes the safety flags, executes git in the repository, and applies fatal-output detection.
// Failed invocations still return the captured result so callers can inspect exit codes.
func (adapter *Adapter) runGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandArguments := make([]string, 0, len(baseGitArguments)+len(arguments))
	commandArguments = append(commandArguments, baseGitArguments...)
	commandArguments = append(commandArguments, arguments...)

	result, executionError := adapter.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            commandArguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: adapter.environment(),
	})
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) {
			return failedError.Result, executionError
		}
		return execshell.ExecutionResult{}, executionError
	}

	if strings.Contains(result.StandardOutput, fatalOutputMarkerConstant) {
		return result, FatalOutputError{Arguments: arguments, Output: result.StandardOutput}
	}
	return result, nil
}

func (adapter *Adapter) environment() map[string]string {
	return map[string]string{terminalPromptEnvironmentVariable: terminalPromptDisabledValueConstant}
}

func (adapter *Adapter) remoteBranch(branch string) string {
	return adapter.policy.RemoteName + remoteReferenceSeparatorConstant + branch
}

func splitOutputLines(output string) []string {
	trimmedOutput := strings.TrimRight(output, lineSeparatorConstant)
	if len(strings.TrimSpace(trimmedOutput)) == 0 {
		return nil
	}
	lines := make([]string, 0)
	for _, line := range strings.Split(trimmedOutput, lineSeparatorConstant) {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
