// Package flags holds the cobra/pflag helpers shared by gitfleet commands.
package flags

import "github.com/spf13/cobra"

const (
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Skip the confirmation prompt"
)

// BindAssumeYesFlag attaches the assume-yes flag to the command.
func BindAssumeYesFlag(command *cobra.Command) {
	if command == nil {
		return
	}
	AddToggleFlag(command.Flags(), AssumeYesFlagName, AssumeYesFlagShorthand, false, AssumeYesFlagUsage)
}

// BoolOrDefault returns the flag value when it was set on the command line, otherwise the configured value.
func BoolOrDefault(command *cobra.Command, flagName string, configuredValue bool) bool {
	if command == nil || !command.Flags().Changed(flagName) {
		return configuredValue
	}
	flagValue, flagError := command.Flags().GetBool(flagName)
	if flagError != nil {
		return configuredValue
	}
	return flagValue
}

// StringValue returns the flag value, or an empty string when the flag is not defined.
func StringValue(command *cobra.Command, flagName string) string {
	if command == nil {
		return ""
	}
	flagValue, flagError := command.Flags().GetString(flagName)
	if flagError != nil {
		return ""
	}
	return flagValue
}
