package gitops

import (
	"errors"
	"fmt"
	"strings"
)

const (
	gitExecutorNotConfiguredMessageConstant = "git executor not configured"
	operationErrorTemplateConstant          = "%s failed: %v"
	operationWithTargetTemplateConstant     = "%s '%s' failed: %v"
	fatalOutputErrorTemplateConstant        = "git %s reported a fatal error: %s"
	branchMismatchErrorTemplateConstant     = "expected current branch '%s' but found '%s'"
	dirtyWorkingDirectoryTemplateConstant   = "working directory has %d uncommitted change(s)"
	unpushedCommitsTemplateConstant         = "%d commit(s) waiting to be pushed to %s"
	remoteBranchMissingMessageConstant      = "remote branch does not exist"
	countParseErrorTemplateConstant         = "unable to parse commit count %q: %w"
)

// ErrGitExecutorNotConfigured indicates the adapter was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)

// ErrRemoteBranchMissing indicates the remote has no head for the requested branch.
var ErrRemoteBranchMissing = errors.New(remoteBranchMissingMessageConstant)

// OperationError wraps the failure of one logical git operation.
type OperationError struct {
	Operation string
	Target    string
	Cause     error
}

// Error describes the failed operation.
func (operationError OperationError) Error() string {
	if len(operationError.Target) == 0 {
		return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
	}
	return fmt.Sprintf(operationWithTargetTemplateConstant, operationError.Operation, operationError.Target, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// FatalOutputError reports a git invocation that exited cleanly but printed "fatal".
type FatalOutputError struct {
	Arguments []string
	Output    string
}

// Error describes the fatal output.
func (fatalError FatalOutputError) Error() string {
	return fmt.Sprintf(fatalOutputErrorTemplateConstant, strings.Join(fatalError.Arguments, " "), strings.TrimSpace(fatalError.Output))
}

// BranchMismatchError reports that HEAD is not on the expected branch.
type BranchMismatchError struct {
	ExpectedBranch string
	CurrentBranch  string
}

// Error describes the mismatch.
func (mismatchError BranchMismatchError) Error() string {
	return fmt.Sprintf(branchMismatchErrorTemplateConstant, mismatchError.ExpectedBranch, mismatchError.CurrentBranch)
}

// DirtyWorkingDirectoryError reports uncommitted changes.
type DirtyWorkingDirectoryError struct {
	Changes []string
}

// Error describes the dirty working directory.
func (dirtyError DirtyWorkingDirectoryError) Error() string {
	return fmt.Sprintf(dirtyWorkingDirectoryTemplateConstant, len(dirtyError.Changes))
}

// UnpushedCommitsError reports local commits missing from the remote branch.
type UnpushedCommitsError struct {
	RemoteBranch string
	Count        int
}

// Error describes the unpushed commits.
func (unpushedError UnpushedCommitsError) Error() string {
	return fmt.Sprintf(unpushedCommitsTemplateConstant, unpushedError.Count, unpushedError.RemoteBranch)
}
