package workflows

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitfleet/internal/manifest"
	"github.com/temirov/gitfleet/internal/utils/flags"
)

const (
	mergeCommandUseConstant         = "merge"
	mergeShortDescriptionConstant   = "Merge a source branch into a destination branch in every registered project"
	mergeLongDescriptionConstant    = "merge validates each project, synchronizes both branches, merges source into destination preferring source changes on conflict, bumps manifest versions for the development and release branches, and amends the merge commit with the ticket."
	mergeBannerTitleConstant        = "GIT Merge"
	mergeActionLabelConstant        = "Merging"
	mergeTicketFlagName             = "ticket"
	mergeTicketFlagDescription      = "Deployment ticket prefixed to the merge commit (prompted when omitted)"
	mergeSourceFlagName             = "source"
	mergeSourceFlagDescription      = "Source branch (prompted when omitted)"
	mergeDestinationFlagName        = "destination"
	mergeDestinationFlagDescription = "Destination branch (prompted when omitted)"
	mergeSkipVersionFlagName        = "skipversion"
	mergeSkipVersionFlagDescription = "Leave manifest versions untouched"
	deploymentTicketPromptConstant  = "Enter Deployment Ticket (e.g. DEV-1234):"
	sourceBranchPromptConstant      = "Enter Source Branch:"
	mergeDestinationPromptConstant  = destinationBranchPromptConstant
)

// MergeCommandBuilder assembles the merge command.
type MergeCommandBuilder struct {
	CommandDependencies
}

// Build constructs the cobra command.
func (builder *MergeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   mergeCommandUseConstant,
		Short: mergeShortDescriptionConstant,
		Long:  mergeLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	addReportFlags(command)
	flags.BindAssumeYesFlag(command)
	command.Flags().String(mergeTicketFlagName, "", mergeTicketFlagDescription)
	command.Flags().String(mergeSourceFlagName, "", mergeSourceFlagDescription)
	command.Flags().String(mergeDestinationFlagName, "", mergeDestinationFlagDescription)
	flags.AddToggleFlag(command.Flags(), mergeSkipVersionFlagName, "", false, mergeSkipVersionFlagDescription)
	return command, nil
}

func (builder *MergeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime, runtimeError := builder.prepareRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	assumeYes, _ := command.Flags().GetBool(flags.AssumeYesFlagName)
	skipVersionBump, _ := command.Flags().GetBool(mergeSkipVersionFlagName)
	session, sessionError := runtime.newSession(command, SessionOptions{
		Title:       mergeBannerTitleConstant,
		ActionLabel: mergeActionLabelConstant,
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

	request := MergeRequest{SkipVersionBump: skipVersionBump}
	inputs := []struct {
		flagName string
		prompt   string
		target   *string
	}{
		{flagName: mergeTicketFlagName, prompt: deploymentTicketPromptConstant, target: &request.Ticket},
		{flagName: mergeSourceFlagName, prompt: sourceBranchPromptConstant, target: &request.SourceBranch},
		{flagName: mergeDestinationFlagName, prompt: mergeDestinationPromptConstant, target: &request.DestinationBranch},
	}
	for _, input := range inputs {
		value, inputError := session.Input(flags.StringValue(command, input.flagName), input.prompt)
		if inputError != nil {
			return inputError
		}
		*input.target = value
	}

	editor := manifest.NewEditor(runtime.fileSystem, runtime.logger, runtime.configuration.Policy)
	executor := NewMergeExecutor(runtime.adapter, editor, runtime.logger, request)
	_, executionError := session.Execute(command.Context(), executor.Operation())
	return executionError
}
