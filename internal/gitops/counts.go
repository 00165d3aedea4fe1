package gitops

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	statusCommandConstant               = "status"
	porcelainFlagConstant               = "--porcelain"
	logCommandConstant                  = "log"
	onelineFlagConstant                 = "--oneline"
	unpushedRangeConstant               = "@{u}..HEAD"
	revListCommandConstant              = "rev-list"
	countFlagConstant                   = "--count"
	rightOnlyFlagConstant               = "--right-only"
	countUncommittedOperationConstant   = "count uncommitted changes"
	countUnpushedOperationConstant      = "count unpushed commits"
	countUnpulledOperationConstant      = "count unpulled commits for"
	cleanWorkingDirectoryOperation      = "check for changes in working directory"
	noCommitsToPushOperationConstant    = "check for unpushed commits for"
	uncommittedChangesFieldConstant     = "uncommitted_changes"
	dirtyWorkingDirectoryMessageConst   = "changes detected in working directory"
	unpushedCommitsMessageConstant      = "commits waiting to be pushed"
	logFieldUnpushedCommitCountConstant = "unpushed_commit_count"
)

// CountUncommittedChanges returns the number of entries reported by git status.
func (adapter *Adapter) CountUncommittedChanges(executionContext context.Context, repositoryPath string) (int, error) {
	result, statusError := adapter.runGit(executionContext, repositoryPath, statusCommandConstant, porcelainFlagConstant)
	if statusError != nil {
		return 0, OperationError{Operation: countUncommittedOperationConstant, Cause: statusError}
	}
	return len(splitOutputLines(result.StandardOutput)), nil
}

// CountUnpushedCommits returns the number of commits on HEAD that its upstream lacks.
func (adapter *Adapter) CountUnpushedCommits(executionContext context.Context, repositoryPath string) (int, error) {
	result, logError := adapter.runGit(executionContext, repositoryPath, logCommandConstant, onelineFlagConstant, unpushedRangeConstant)
	if logError != nil {
		return 0, OperationError{Operation: countUnpushedOperationConstant, Cause: logError}
	}
	return len(splitOutputLines(result.StandardOutput)), nil
}

// CountUnpulledCommits fetches the remote and counts commits on the remote branch missing locally.
func (adapter *Adapter) CountUnpulledCommits(executionContext context.Context, repositoryPath string, branch string) (int, error) {
	if _, fetchError := adapter.runGit(executionContext, repositoryPath, fetchCommandConstant); fetchError != nil {
		return 0, OperationError{Operation: countUnpulledOperationConstant, Target: branch, Cause: fetchError}
	}

	commitRange := fmt.Sprintf(branchDifferenceRangeTemplate, branch, adapter.remoteBranch(branch))
	result, countError := adapter.runGit(executionContext, repositoryPath, revListCommandConstant, countFlagConstant, commitRange)
	if countError != nil {
		return 0, OperationError{Operation: countUnpulledOperationConstant, Target: branch, Cause: countError}
	}

	count, parseError := parseCount(result.StandardOutput)
	if parseError != nil {
		return 0, OperationError{Operation: countUnpulledOperationConstant, Target: branch, Cause: parseError}
	}
	return count, nil
}

// EnsureCleanWorkingDirectory fails with DirtyWorkingDirectoryError when git status reports any change.
func (adapter *Adapter) EnsureCleanWorkingDirectory(executionContext context.Context, repositoryPath string) error {
	result, statusError := adapter.runGit(executionContext, repositoryPath, statusCommandConstant, porcelainFlagConstant)
	if statusError != nil {
		return OperationError{Operation: cleanWorkingDirectoryOperation, Cause: statusError}
	}

	changes := splitOutputLines(result.StandardOutput)
	if len(changes) == 0 {
		return nil
	}

	adapter.logger.Warn(dirtyWorkingDirectoryMessageConst,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.Strings(uncommittedChangesFieldConstant, changes),
	)
	return OperationError{Operation: cleanWorkingDirectoryOperation, Cause: DirtyWorkingDirectoryError{Changes: changes}}
}

// EnsureNoCommitsToPush fails with UnpushedCommitsError when the local branch is ahead of its remote counterpart.
func (adapter *Adapter) EnsureNoCommitsToPush(executionContext context.Context, repositoryPath string, branch string) error {
	remoteBranch := adapter.remoteBranch(branch)
	commitRange := fmt.Sprintf(symmetricDifferenceRangeTemplate, remoteBranch, branch)
	result, countError := adapter.runGit(executionContext, repositoryPath, revListCommandConstant, rightOnlyFlagConstant, countFlagConstant, commitRange)
	if countError != nil {
		return OperationError{Operation: noCommitsToPushOperationConstant, Target: branch, Cause: countError}
	}

	count, parseError := parseCount(result.StandardOutput)
	if parseError != nil {
		return OperationError{Operation: noCommitsToPushOperationConstant, Target: branch, Cause: parseError}
	}
	if count > 0 {
		adapter.logger.Warn(unpushedCommitsMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.String(logFieldBranchConstant, branch),
			zap.Int(logFieldUnpushedCommitCountConstant, count),
		)
		return OperationError{Operation: noCommitsToPushOperationConstant, Target: branch, Cause: UnpushedCommitsError{RemoteBranch: remoteBranch, Count: count}}
	}
	return nil
}

func parseCount(output string) (int, error) {
	trimmedOutput := strings.TrimSpace(output)
	count, parseError := strconv.Atoi(trimmedOutput)
	if parseError != nil {
		return 0, fmt.Errorf(countParseErrorTemplateConstant, trimmedOutput, parseError)
	}
	return count, nil
}
