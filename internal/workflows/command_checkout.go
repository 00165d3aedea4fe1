package workflows

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitfleet/internal/utils/flags"
)

const (
	checkoutCommandUseConstant       = "checkout"
	checkoutShortDescriptionConstant = "Check out the same branch in every registered project"
	checkoutLongDescriptionConstant  = "checkout fetches the destination branch, checks it out with upstream tracking, or pulls it when it is already checked out, in every registered project."
	checkoutBannerTitleConstant      = "GIT Checkout"
	checkoutActionLabelConstant      = "Checking out"
	checkoutBranchFlagName           = "branch"
	checkoutBranchFlagDescription    = "Destination branch (prompted when omitted)"
	destinationBranchPromptConstant  = "Enter Destination Branch:"
)

// CheckoutCommandBuilder assembles the checkout command.
type CheckoutCommandBuilder struct {
	CommandDependencies
}

// Build constructs the cobra command.
func (builder *CheckoutCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkoutCommandUseConstant,
		Short: checkoutShortDescriptionConstant,
		Long:  checkoutLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	addReportFlags(command)
	flags.BindAssumeYesFlag(command)
	command.Flags().String(checkoutBranchFlagName, "", checkoutBranchFlagDescription)
	return command, nil
}

func (builder *CheckoutCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime, runtimeError := builder.prepareRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	assumeYes, _ := command.Flags().GetBool(flags.AssumeYesFlagName)
	session, sessionError := runtime.newSession(command, SessionOptions{
		Title:       checkoutBannerTitleConstant,
		ActionLabel: checkoutActionLabelConstant,
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

	destinationBranch, inputError := session.Input(flags.StringValue(command, checkoutBranchFlagName), destinationBranchPromptConstant)
	if inputError != nil {
		return inputError
	}

	_, executionError := session.Execute(command.Context(), CheckoutOperation(runtime.adapter, destinationBranch))
	return executionError
}
