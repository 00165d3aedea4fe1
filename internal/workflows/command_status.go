package workflows

import (
	"github.com/spf13/cobra"
)

const (
	statusCommandUseConstant       = "status"
	statusShortDescriptionConstant = "Print the version and branch status of every registered project"
	statusLongDescriptionConstant  = "status validates the registry and prints one table row per manifest with uncommitted, unpushed and optionally unpulled counts, the checked-out branch and the latest commit date."
	statusBannerTitleConstant      = "GIT Status"
)

// StatusCommandBuilder assembles the status command.
type StatusCommandBuilder struct {
	CommandDependencies
}

// Build constructs the cobra command.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   statusCommandUseConstant,
		Short: statusShortDescriptionConstant,
		Long:  statusLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	addReportFlags(command)
	return command, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime, runtimeError := builder.prepareRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	session, sessionError := runtime.newSession(command, SessionOptions{Title: statusBannerTitleConstant})
	if sessionError != nil {
		return sessionError
	}
	return session.Begin(command.Context())
}
