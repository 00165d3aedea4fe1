package workflows

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/console"
	"github.com/temirov/gitfleet/internal/dependencies"
	"github.com/temirov/gitfleet/internal/gitops"
	"github.com/temirov/gitfleet/internal/manifest"
	"github.com/temirov/gitfleet/internal/registry"
	"github.com/temirov/gitfleet/internal/shared"
	"github.com/temirov/gitfleet/internal/status"
	"github.com/temirov/gitfleet/internal/utils/flags"
)

const (
	manifestPathsFlagName        = "poms"
	manifestPathsFlagDescription = "Print the manifest path of every row"
	unpulledFlagName             = "unpulled"
	unpulledFlagDescription      = "Print the number of unpulled commits (fetches every project)"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the batch command configuration.
type ConfigurationProvider func() CommandConfiguration

// PrompterFactory creates prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) Prompter

// CommandDependencies holds the collaborators shared by the batch commands. Nil members fall back to OS-backed defaults.
type CommandDependencies struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	PrompterFactory              PrompterFactory
	Clock                        shared.Clock
}

type commandRuntime struct {
	logger        *zap.Logger
	configuration CommandConfiguration
	adapter       *gitops.Adapter
	fileSystem    shared.FileSystem
	registry      *registry.Registry
	prompter      Prompter
}

func (commandDependencies CommandDependencies) prepareRuntime(command *cobra.Command) (*commandRuntime, error) {
	logger := commandDependencies.resolveLogger()

	humanReadableLogging := false
	if commandDependencies.HumanReadableLoggingProvider != nil {
		humanReadableLogging = commandDependencies.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(commandDependencies.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}

	configuration := DefaultCommandConfiguration()
	if commandDependencies.ConfigurationProvider != nil {
		configuration = commandDependencies.ConfigurationProvider()
	}
	configuration = configuration.sanitize()

	adapter, adapterError := gitops.NewAdapter(gitops.AdapterDependencies{
		Executor: gitExecutor,
		Logger:   logger,
		Clock:    commandDependencies.Clock,
	}, configuration.Policy)
	if adapterError != nil {
		return nil, adapterError
	}

	var prompter Prompter
	if commandDependencies.PrompterFactory != nil {
		prompter = commandDependencies.PrompterFactory(command)
	}
	if prompter == nil {
		prompter = console.NewIOPrompter(command.InOrStdin(), command.OutOrStdout())
	}

	return &commandRuntime{
		logger:        logger,
		configuration: configuration,
		adapter:       adapter,
		fileSystem:    dependencies.ResolveFileSystem(commandDependencies.FileSystem),
		registry:      registry.NewRegistry(configuration.Registry),
		prompter:      prompter,
	}, nil
}

func (commandDependencies CommandDependencies) resolveLogger() *zap.Logger {
	if commandDependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := commandDependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (runtime *commandRuntime) newSession(command *cobra.Command, options SessionOptions) (*Session, error) {
	options.Report = runtime.reportOptions(command)
	manifestInspector := manifest.NewInspector(runtime.fileSystem, runtime.logger)
	collector := status.NewCollector(runtime.adapter, manifestInspector, runtime.logger)

	return NewSession(SessionDependencies{
		Registry:  runtime.registry,
		Validator: registry.NewEnvironmentValidator(runtime.fileSystem, runtime.adapter),
		Reporter:  status.NewReporter(collector, command.OutOrStdout()),
		Prompter:  runtime.prompter,
		Output:    command.OutOrStdout(),
		Logger:    runtime.logger,
	}, options)
}

func (runtime *commandRuntime) reportOptions(command *cobra.Command) status.ReportOptions {
	return status.ReportOptions{
		IncludeManifestPaths: flags.BoolOrDefault(command, manifestPathsFlagName, runtime.configuration.Report.ManifestPaths),
		IncludeUnpulled:      flags.BoolOrDefault(command, unpulledFlagName, runtime.configuration.Report.Unpulled),
	}
}

func addReportFlags(command *cobra.Command) {
	flags.AddToggleFlag(command.Flags(), manifestPathsFlagName, "", false, manifestPathsFlagDescription)
	flags.AddToggleFlag(command.Flags(), unpulledFlagName, "", false, unpulledFlagDescription)
}
