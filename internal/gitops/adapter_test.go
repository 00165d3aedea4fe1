package gitops_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/gitops"
	"github.com/temirov/gitfleet/internal/gitops/testsupport"
	"github.com/temirov/gitfleet/internal/shared"
)

const (
	testRepositoryPathConstant       = "/srv/projects/services/billing"
	testCurrentBranchCommandConstant = "rev-parse --abbrev-ref HEAD"
	testDevelopmentBranchConstant    = "dev"
	testFeatureBranchConstant        = "feature/DEV-1234"
	testFatalOutputConstant          = "fatal: couldn't find remote ref dev"
)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

func newTestAdapter(testInstance *testing.T, executor shared.GitExecutor, clock shared.Clock) *gitops.Adapter {
	testInstance.Helper()
	adapter, adapterError := gitops.NewAdapter(gitops.AdapterDependencies{Executor: executor, Logger: zap.NewNop(), Clock: clock}, shared.DefaultBranchPolicy())
	require.NoError(testInstance, adapterError)
	return adapter
}

func TestNewAdapterRequiresExecutor(testInstance *testing.T) {
	_, adapterError := gitops.NewAdapter(gitops.AdapterDependencies{}, shared.DefaultBranchPolicy())
	require.ErrorIs(testInstance, adapterError, gitops.ErrGitExecutorNotConfigured)
}

func TestAdapterAppliesSafetyFlagsAndEnvironment(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", testCurrentBranchCommandConstant, testsupport.Response{StandardOutput: "dev\n"})
	adapter := newTestAdapter(testInstance, executor, nil)

	branch, branchError := adapter.CurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testDevelopmentBranchConstant, branch)

	require.Len(testInstance, executor.Invocations, 1)
	details := executor.Invocations[0].Details
	require.Equal(testInstance, []string{
		"-c", "diff.mnemonicprefix=false",
		"-c", "core.quotepath=false",
		"--no-optional-locks",
		"rev-parse", "--abbrev-ref", "HEAD",
	}, details.Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, details.WorkingDirectory)
	require.Equal(testInstance, "0", details.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
}

func TestPullBranchSucceedsIffOutputHasNoFatal(testInstance *testing.T) {
	testCases := []struct {
		name          string
		pullOutput    string
		expectSuccess bool
	}{
		{name: "clean_output", pullOutput: "Already up to date.\n", expectSuccess: true},
		{name: "empty_output", pullOutput: "", expectSuccess: true},
		{name: "fatal_output", pullOutput: testFatalOutputConstant, expectSuccess: false},
		{name: "fatal_inside_output", pullOutput: "From origin\nfatal: refusing to merge unrelated histories\n", expectSuccess: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			executor := testsupport.NewGitExecutorStub()
			executor.Script("", testCurrentBranchCommandConstant, testsupport.Response{StandardOutput: "dev\n"})
			executor.Script("", "pull --rebase origin dev", testsupport.Response{StandardOutput: testCase.pullOutput})
			adapter := newTestAdapter(subTest, executor, nil)

			pullError := adapter.PullBranch(context.Background(), testRepositoryPathConstant, testDevelopmentBranchConstant)
			if testCase.expectSuccess {
				require.NoError(subTest, pullError)
				return
			}
			require.Error(subTest, pullError)
			var fatalError gitops.FatalOutputError
			require.True(subTest, errors.As(pullError, &fatalError))
		})
	}
}

func TestPullBranchRejectsBranchOtherThanCurrent(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", testCurrentBranchCommandConstant, testsupport.Response{StandardOutput: "master\n"})
	adapter := newTestAdapter(testInstance, executor, nil)

	pullError := adapter.PullBranch(context.Background(), testRepositoryPathConstant, testDevelopmentBranchConstant)
	var mismatchError gitops.BranchMismatchError
	require.True(testInstance, errors.As(pullError, &mismatchError))
	require.Equal(testInstance, "master", mismatchError.CurrentBranch)
	require.False(testInstance, executor.ExecutedSubcommand(testRepositoryPathConstant, "pull"))
}

func TestPullBranchChecksRemoteHeadForFeatureBranches(testInstance *testing.T) {
	testCases := []struct {
		name             string
		lsRemoteResponse testsupport.Response
		expectMissing    bool
		expectPull       bool
	}{
		{name: "remote_head_exists", lsRemoteResponse: testsupport.Response{StandardOutput: "abc123\trefs/heads/feature/DEV-1234\n"}, expectPull: true},
		{name: "remote_head_missing", lsRemoteResponse: testsupport.Response{ExitCode: 2}, expectMissing: true},
		{name: "ls_remote_failed_otherwise", lsRemoteResponse: testsupport.Response{ExitCode: 128, StandardError: "network unreachable"}, expectPull: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			executor := testsupport.NewGitExecutorStub()
			executor.Script("", testCurrentBranchCommandConstant, testsupport.Response{StandardOutput: testFeatureBranchConstant + "\n"})
			executor.Script("", "ls-remote --heads --exit-code origin refs/heads/"+testFeatureBranchConstant, testCase.lsRemoteResponse)
			adapter := newTestAdapter(subTest, executor, nil)

			pullError := adapter.PullBranch(context.Background(), testRepositoryPathConstant, testFeatureBranchConstant)
			if testCase.expectMissing {
				require.ErrorIs(subTest, pullError, gitops.ErrRemoteBranchMissing)
			} else {
				require.NoError(subTest, pullError)
			}
			require.Equal(subTest, testCase.expectPull, executor.ExecutedSubcommand(testRepositoryPathConstant, "pull"))
		})
	}
}

func TestPullBranchSkipsRemoteHeadCheckForProtectedBranches(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", testCurrentBranchCommandConstant, testsupport.Response{StandardOutput: "master\n"})
	adapter := newTestAdapter(testInstance, executor, nil)

	require.NoError(testInstance, adapter.PullBranch(context.Background(), testRepositoryPathConstant, "master"))
	require.Equal(testInstance, []string{testCurrentBranchCommandConstant, "pull --rebase origin master"}, executor.Commands(testRepositoryPathConstant))
}

func TestCheckoutBranchSetsUpstreamWhenMissing(testInstance *testing.T) {
	testCases := []struct {
		name             string
		upstreamResponse testsupport.Response
		expectedCommands []string
	}{
		{
			name:             "upstream_present",
			upstreamResponse: testsupport.Response{StandardOutput: "origin/dev\n"},
			expectedCommands: []string{"checkout dev --progress", "rev-parse --abbrev-ref dev@{u}"},
		},
		{
			name:             "upstream_missing",
			upstreamResponse: testsupport.Response{ExitCode: 128, StandardError: "fatal: no upstream configured"},
			expectedCommands: []string{"checkout dev --progress", "rev-parse --abbrev-ref dev@{u}", "branch --set-upstream-to=origin/dev dev"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			executor := testsupport.NewGitExecutorStub()
			executor.Script("", "rev-parse --abbrev-ref dev@{u}", testCase.upstreamResponse)
			adapter := newTestAdapter(subTest, executor, nil)

			require.NoError(subTest, adapter.CheckoutBranch(context.Background(), testRepositoryPathConstant, testDevelopmentBranchConstant))
			require.Equal(subTest, testCase.expectedCommands, executor.Commands(testRepositoryPathConstant))
		})
	}
}

func TestMergeBranchFallsBackToSourceChanges(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "merge --no-ff --no-edit "+testFeatureBranchConstant, testsupport.Response{ExitCode: 1, StandardOutput: "CONFLICT (content): Merge conflict in pom.xml"})
	adapter := newTestAdapter(testInstance, executor, nil)

	outcome, mergeError := adapter.MergeBranch(context.Background(), testRepositoryPathConstant, testFeatureBranchConstant, testDevelopmentBranchConstant)
	require.NoError(testInstance, mergeError)
	require.True(testInstance, outcome.ConflictResolved)
	require.Contains(testInstance, outcome.CommitMessage, testFeatureBranchConstant)
	require.Contains(testInstance, outcome.CommitMessage, testDevelopmentBranchConstant)

	require.Equal(testInstance, []string{
		"merge --no-ff --no-edit " + testFeatureBranchConstant,
		"checkout --theirs .",
		"add .",
		"commit -m " + outcome.CommitMessage,
	}, executor.Commands(testRepositoryPathConstant))
}

func TestMergeBranchFailsWhenFallbackStepFails(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "merge --no-ff --no-edit "+testFeatureBranchConstant, testsupport.Response{ExitCode: 1})
	executor.Script("", "add .", testsupport.Response{StandardOutput: "fatal: pathspec '.' did not match any files"})
	adapter := newTestAdapter(testInstance, executor, nil)

	_, mergeError := adapter.MergeBranch(context.Background(), testRepositoryPathConstant, testFeatureBranchConstant, testDevelopmentBranchConstant)
	require.Error(testInstance, mergeError)
	require.False(testInstance, executor.ExecutedSubcommand(testRepositoryPathConstant, "commit"))
}

func TestSyncBranch(testInstance *testing.T) {
	testCases := []struct {
		name             string
		branchResponses  []testsupport.Response
		expectedCommands []string
		expectError      bool
	}{
		{
			name:            "already_on_branch_pulls_only",
			branchResponses: []testsupport.Response{{StandardOutput: "dev\n"}},
			expectedCommands: []string{
				testCurrentBranchCommandConstant,
				testCurrentBranchCommandConstant,
				"pull --rebase origin dev",
			},
		},
		{
			name:            "other_branch_fetches_and_checks_out",
			branchResponses: []testsupport.Response{{StandardOutput: "master\n"}, {StandardOutput: "dev\n"}},
			expectedCommands: []string{
				testCurrentBranchCommandConstant,
				"fetch --no-tags origin dev:dev",
				"checkout dev --progress",
				"rev-parse --abbrev-ref dev@{u}",
				testCurrentBranchCommandConstant,
			},
		},
		{
			name:            "checkout_did_not_switch",
			branchResponses: []testsupport.Response{{StandardOutput: "master\n"}},
			expectedCommands: []string{
				testCurrentBranchCommandConstant,
				"fetch --no-tags origin dev:dev",
				"checkout dev --progress",
				"rev-parse --abbrev-ref dev@{u}",
				testCurrentBranchCommandConstant,
			},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			executor := testsupport.NewGitExecutorStub()
			executor.Script("", testCurrentBranchCommandConstant, testCase.branchResponses...)
			adapter := newTestAdapter(subTest, executor, nil)

			syncError := adapter.SyncBranch(context.Background(), testRepositoryPathConstant, testDevelopmentBranchConstant)
			if testCase.expectError {
				var mismatchError gitops.BranchMismatchError
				require.True(subTest, errors.As(syncError, &mismatchError))
			} else {
				require.NoError(subTest, syncError)
			}
			require.Equal(subTest, testCase.expectedCommands, executor.Commands(testRepositoryPathConstant))
		})
	}
}

func TestSyncBranchStopsWhenFetchFails(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", testCurrentBranchCommandConstant, testsupport.Response{StandardOutput: "master\n"})
	executor.Script("", "fetch --no-tags origin dev:dev", testsupport.Response{ExitCode: 128, StandardError: "fatal: couldn't find remote ref dev"})
	adapter := newTestAdapter(testInstance, executor, nil)

	syncError := adapter.SyncBranch(context.Background(), testRepositoryPathConstant, testDevelopmentBranchConstant)
	require.Error(testInstance, syncError)
	require.False(testInstance, executor.ExecutedSubcommand(testRepositoryPathConstant, "checkout"))
}

func TestAdapterCounts(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "status --porcelain", testsupport.Response{StandardOutput: " M pom.xml\n?? notes.txt\n"})
	executor.Script("", "log --oneline @{u}..HEAD", testsupport.Response{StandardOutput: "abc123 first\n"})
	executor.Script("", "rev-list --count dev..origin/dev", testsupport.Response{StandardOutput: "3\n"})
	adapter := newTestAdapter(testInstance, executor, nil)

	executionContext := context.Background()

	uncommitted, uncommittedError := adapter.CountUncommittedChanges(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, uncommittedError)
	require.Equal(testInstance, 2, uncommitted)

	unpushed, unpushedError := adapter.CountUnpushedCommits(executionContext, testRepositoryPathConstant)
	require.NoError(testInstance, unpushedError)
	require.Equal(testInstance, 1, unpushed)

	unpulled, unpulledError := adapter.CountUnpulledCommits(executionContext, testRepositoryPathConstant, testDevelopmentBranchConstant)
	require.NoError(testInstance, unpulledError)
	require.Equal(testInstance, 3, unpulled)

	require.Equal(testInstance, []string{
		"status --porcelain",
		"log --oneline @{u}..HEAD",
		"fetch",
		"rev-list --count dev..origin/dev",
	}, executor.Commands(testRepositoryPathConstant))
}

func TestCountUnpushedCommitsFailsWithoutUpstream(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "log --oneline @{u}..HEAD", testsupport.Response{ExitCode: 128, StandardError: "fatal: no upstream configured for branch 'topic'"})
	adapter := newTestAdapter(testInstance, executor, nil)

	_, countError := adapter.CountUnpushedCommits(context.Background(), testRepositoryPathConstant)
	var operationError gitops.OperationError
	require.True(testInstance, errors.As(countError, &operationError))
}

func TestEnsurePreconditions(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("/clean", "status --porcelain", testsupport.Response{})
	executor.Script("/dirty", "status --porcelain", testsupport.Response{StandardOutput: " M pom.xml\n"})
	executor.Script("/clean", "rev-list --right-only --count origin/dev...dev", testsupport.Response{StandardOutput: "0\n"})
	executor.Script("/dirty", "rev-list --right-only --count origin/dev...dev", testsupport.Response{StandardOutput: "2\n"})
	adapter := newTestAdapter(testInstance, executor, nil)

	executionContext := context.Background()
	require.NoError(testInstance, adapter.EnsureCleanWorkingDirectory(executionContext, "/clean"))
	require.NoError(testInstance, adapter.EnsureNoCommitsToPush(executionContext, "/clean", testDevelopmentBranchConstant))

	var dirtyError gitops.DirtyWorkingDirectoryError
	require.True(testInstance, errors.As(adapter.EnsureCleanWorkingDirectory(executionContext, "/dirty"), &dirtyError))
	require.Equal(testInstance, []string{" M pom.xml"}, dirtyError.Changes)

	var unpushedError gitops.UnpushedCommitsError
	require.True(testInstance, errors.As(adapter.EnsureNoCommitsToPush(executionContext, "/dirty", testDevelopmentBranchConstant), &unpushedError))
	require.Equal(testInstance, 2, unpushedError.Count)
	require.Equal(testInstance, "origin/dev", unpushedError.RemoteBranch)
}

func TestLatestCommitDate(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "log -1 --format=%cd --date=local", testsupport.Response{StandardOutput: "Wed Jun 4 09:15:00 2025\n"})
	clock := fixedClock{now: time.Date(2025, time.June, 14, 10, 0, 0, 0, time.Local)}
	adapter := newTestAdapter(testInstance, executor, clock)

	timestamp, timestampError := adapter.LatestCommitDate(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, timestampError)
	require.Equal(testInstance, 10, timestamp.DaysElapsed)
	require.Equal(testInstance, "2025-06-04 09:15 AM (-10d)", timestamp.String())
}

func TestLatestCommitDateRejectsUnexpectedFormat(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "log -1 --format=%cd --date=local", testsupport.Response{StandardOutput: "2025-06-04T09:15:00"})
	adapter := newTestAdapter(testInstance, executor, nil)

	_, timestampError := adapter.LatestCommitDate(context.Background(), testRepositoryPathConstant)
	require.Error(testInstance, timestampError)
}

func TestAmendAndStageCommands(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	adapter := newTestAdapter(testInstance, executor, nil)

	executionContext := context.Background()
	require.NoError(testInstance, adapter.StageAllChanges(executionContext, testRepositoryPathConstant))
	require.NoError(testInstance, adapter.AmendCommit(executionContext, testRepositoryPathConstant, "DEV-1234 Merge 'dev' to 'master' (2.6)"))
	require.Equal(testInstance, []string{
		"add .",
		"commit -q --amend -m DEV-1234 Merge 'dev' to 'master' (2.6)",
	}, executor.Commands(testRepositoryPathConstant))
}

func TestVersionRunsWithoutSafetyFlags(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "--version", testsupport.Response{StandardOutput: "git version 2.45.1\n"})
	adapter := newTestAdapter(testInstance, executor, nil)

	version, versionError := adapter.Version(context.Background())
	require.NoError(testInstance, versionError)
	require.Equal(testInstance, "git version 2.45.1", version)
	require.Equal(testInstance, []string{"--version"}, executor.Invocations[0].Details.Arguments)
}

func TestOperationErrorDescribesTarget(testInstance *testing.T) {
	operationError := gitops.OperationError{Operation: "fetch", Target: "dev", Cause: errors.New("boom")}
	require.True(testInstance, strings.HasPrefix(operationError.Error(), "fetch 'dev' failed"))
}
