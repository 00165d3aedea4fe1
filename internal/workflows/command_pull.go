package workflows

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitfleet/internal/utils/flags"
)

const (
	pullCommandUseConstant       = "pull"
	pullShortDescriptionConstant = "Pull the checked-out branch of every registered project"
	pullLongDescriptionConstant  = "pull rebases the checked-out branch of every registered project onto its remote counterpart."
	pullBannerTitleConstant      = "GIT Pull"
	pullActionLabelConstant      = "Pulling"
)

// PullCommandBuilder assembles the pull command.
type PullCommandBuilder struct {
	CommandDependencies
}

// Build constructs the cobra command.
func (builder *PullCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pullCommandUseConstant,
		Short: pullShortDescriptionConstant,
		Long:  pullLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	addReportFlags(command)
	flags.BindAssumeYesFlag(command)
	return command, nil
}

func (builder *PullCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime, runtimeError := builder.prepareRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	assumeYes, _ := command.Flags().GetBool(flags.AssumeYesFlagName)
	session, sessionError := runtime.newSession(command, SessionOptions{
		Title:       pullBannerTitleConstant,
		ActionLabel: pullActionLabelConstant,
		AssumeYes:   assumeYes,
	})
	if sessionError != nil {
		return sessionError
	}

	if beginError := session.Begin(command.Context()); beginError != nil {
		return beginError
	}
	confirmed, confirmationError := session.Confirm()
	if confirmationError != nil || !confirmed {
		return confirmationError
	}

	_, executionError := session.Execute(command.Context(), PullOperation(runtime.adapter))
	return executionError
}
