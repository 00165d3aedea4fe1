package ui

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/execshell"
)

const projectFieldConstant = "project"

// GitActivityLogger narrates git invocations for operators who chose console logging.
// Each entry carries the project directory name so interleaved fleet output stays readable.
type GitActivityLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewGitActivityLogger wraps logger; a nil logger discards everything.
func NewGitActivityLogger(logger *zap.Logger) *GitActivityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitActivityLogger{logger: logger}
}

func (activity *GitActivityLogger) CommandStarted(command execshell.ShellCommand) {
	if activity == nil {
		return
	}
	activity.logger.Info(activity.formatter.BuildStartedMessage(command), projectField(command))
}

// CommandCompleted logs a warning for non-zero exits and an info line otherwise.
func (activity *GitActivityLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if activity == nil {
		return
	}
	if result.ExitCode != 0 {
		activity.logger.Warn(activity.formatter.BuildFailureMessage(command, result), projectField(command))
		return
	}
	activity.logger.Info(activity.formatter.BuildSuccessMessage(command), projectField(command))
}

func (activity *GitActivityLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if activity == nil {
		return
	}
	activity.logger.Error(activity.formatter.BuildExecutionFailureMessage(command, failure), projectField(command))
}

func projectField(command execshell.ShellCommand) zap.Field {
	if len(command.Details.WorkingDirectory) == 0 {
		return zap.Skip()
	}
	return zap.String(projectFieldConstant, filepath.Base(command.Details.WorkingDirectory))
}
