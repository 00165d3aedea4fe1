package gitops

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/console"
	"github.com/temirov/gitfleet/internal/dependencies"
	"github.com/temirov/gitfleet/internal/shared"
)

const (
	enableCommonConfigCommandUseConstant  = "enable-common-config"
	enableCommonConfigShortDescription    = "Enable rebase-on-pull and auto-stash in the global git configuration"
	enableCommonConfigLongDescription     = "enable-common-config sets pull.rebase=true and rebase.autoStash=true in the global git configuration when they are not already enabled."
	enableCommonConfigBannerTitleConstant = "GIT Enable Common Config"
	gitNotInstalledErrorTemplateConstant  = "git is not installed or accessible from command line: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// PolicyProvider supplies the branch policy.
type PolicyProvider func() shared.BranchPolicy

// CommonConfigCommandBuilder assembles the enable-common-config command.
type CommonConfigCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	PolicyProvider               PolicyProvider
	GitExecutor                  shared.GitExecutor
}

// Build constructs the cobra command.
func (builder *CommonConfigCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   enableCommonConfigCommandUseConstant,
		Short: enableCommonConfigShortDescription,
		Long:  enableCommonConfigLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommonConfigCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	policy := shared.DefaultBranchPolicy()
	if builder.PolicyProvider != nil {
		policy = builder.PolicyProvider()
	}

	adapter, adapterError := NewAdapter(AdapterDependencies{Executor: gitExecutor, Logger: logger}, policy)
	if adapterError != nil {
		return adapterError
	}

	output := command.OutOrStdout()
	if bannerError := console.PrintBanner(output, enableCommonConfigBannerTitleConstant); bannerError != nil {
		return bannerError
	}

	if _, versionError := adapter.Version(command.Context()); versionError != nil {
		return fmt.Errorf(gitNotInstalledErrorTemplateConstant, versionError)
	}

	return ApplyConfigurationSettings(command.Context(), adapter, CommonConfigurationSettings(), output)
}

func (builder *CommonConfigCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
