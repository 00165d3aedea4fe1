package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitfleet/internal/execshell"
	"github.com/temirov/gitfleet/internal/ui"
)

const (
	testProjectDirectoryConstant = "/srv/fleet/billing"
	testCommandLabelConstant     = "git --prune (in /srv/fleet/billing)"
)

func TestGitActivityLoggerLevelsAndMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"--prune"},
			WorkingDirectory: testProjectDirectoryConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(activity *ui.GitActivityLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name:            "started",
			invoke:          func(activity *ui.GitActivityLogger) { activity.CommandStarted(command) },
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Running " + testCommandLabelConstant,
		},
		{
			name: "completed",
			invoke: func(activity *ui.GitActivityLogger) {
				activity.CommandCompleted(command, execshell.ExecutionResult{})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Completed " + testCommandLabelConstant,
		},
		{
			name: "non_zero_exit",
			invoke: func(activity *ui.GitActivityLogger) {
				activity.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testCommandLabelConstant + " failed with exit code 128: fatal: not a git repository",
		},
		{
			name: "could_not_start",
			invoke: func(activity *ui.GitActivityLogger) {
				activity.CommandExecutionFailed(command, errors.New("executable file not found"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testCommandLabelConstant + " failed: executable file not found",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			testCase.invoke(ui.NewGitActivityLogger(zap.New(observerCore)))

			entries := observedLogs.All()
			require.Len(subTest, entries, 1)
			require.Equal(subTest, testCase.expectedLevel, entries[0].Level)
			require.Equal(subTest, testCase.expectedMessage, entries[0].Message)
			require.Equal(subTest, "billing", entries[0].ContextMap()["project"])
		})
	}
}

func TestGitActivityLoggerDescribesPull(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	activity := ui.NewGitActivityLogger(zap.New(observerCore))

	activity.CommandStarted(execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"-c", "core.quotepath=false", "--no-optional-locks", "pull", "--rebase", "origin", "dev"},
			WorkingDirectory: testProjectDirectoryConstant,
		},
	})

	entries := observedLogs.All()
	require.Len(testInstance, entries, 1)
	require.Equal(testInstance, "Pulling dev from origin in /srv/fleet/billing", entries[0].Message)
}

func TestGitActivityLoggerToleratesNilReceiverAndLogger(testInstance *testing.T) {
	var activity *ui.GitActivityLogger
	require.NotPanics(testInstance, func() {
		activity.CommandStarted(execshell.ShellCommand{Name: execshell.CommandGit})
		ui.NewGitActivityLogger(nil).CommandStarted(execshell.ShellCommand{Name: execshell.CommandGit})
	})
}
