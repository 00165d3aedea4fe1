package registry

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitfleet/internal/dependencies"
	"github.com/temirov/gitfleet/internal/gitops"
	"github.com/temirov/gitfleet/internal/shared"
)

const (
	findProjectsCommandUseConstant       = "find-projects"
	findProjectsShortDescriptionConstant = "List git repositories beneath the registry root"
	findProjectsLongDescriptionConstant  = "find-projects walks the registry root and prints every git repository it contains as a registry.projects YAML list ready to paste into the configuration file."
	yamlIndentationConstant              = 2
	discoveryErrorTemplateConstant       = "unable to discover projects beneath %s: %w"
	encodeErrorTemplateConstant          = "unable to encode project list: %w"
	discoveredProjectsMessageConstant    = "discovered projects"
	logFieldRootDirectoryConstant        = "root_directory"
	logFieldProjectCountConstant         = "project_count"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the registry configuration.
type ConfigurationProvider func() Configuration

type projectListDocument struct {
	Registry projectListSection `yaml:"registry"`
}

type projectListSection struct {
	Projects []string `yaml:"projects"`
}

// FindProjectsCommandBuilder assembles the find-projects command.
type FindProjectsCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	Discoverer                   shared.ProjectDiscoverer
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
}

// Build constructs the cobra command.
func (builder *FindProjectsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   findProjectsCommandUseConstant,
		Short: findProjectsShortDescriptionConstant,
		Long:  findProjectsLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *FindProjectsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	humanReadableLogging := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}
	adapter, adapterError := gitops.NewAdapter(gitops.AdapterDependencies{Executor: gitExecutor, Logger: logger}, shared.DefaultBranchPolicy())
	if adapterError != nil {
		return adapterError
	}

	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	registry := NewRegistry(configuration.Sanitize())

	validator := NewEnvironmentValidator(dependencies.ResolveFileSystem(builder.FileSystem), adapter)
	if validationError := validator.Validate(command.Context(), registry, ValidationOptions{}); validationError != nil {
		return validationError
	}

	discoverer := dependencies.ResolveProjectDiscoverer(builder.Discoverer)
	repositoryPaths, discoveryError := discoverer.DiscoverRepositories([]string{registry.RootDirectory()})
	if discoveryError != nil {
		return fmt.Errorf(discoveryErrorTemplateConstant, registry.RootDirectory(), discoveryError)
	}

	document := projectListDocument{Registry: projectListSection{Projects: make([]string, 0, len(repositoryPaths))}}
	for _, repositoryPath := range repositoryPaths {
		document.Registry.Projects = append(document.Registry.Projects, registry.RelativeIdentifier(repositoryPath))
	}

	logger.Debug(discoveredProjectsMessageConstant,
		zap.String(logFieldRootDirectoryConstant, registry.RootDirectory()),
		zap.Int(logFieldProjectCountConstant, len(document.Registry.Projects)),
	)

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(encodeErrorTemplateConstant, encodeError)
	}
	return encoder.Close()
}

func (builder *FindProjectsCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
