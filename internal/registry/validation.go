package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	gitMetadataDirectoryNameConstant     = ".git"
	environmentErrorHeaderConstant       = "environment validation failed"
	environmentErrorSeparatorConstant    = "\n  "
	gitNotInstalledProblemTemplate       = "\"git\" is not installed or accessible from command line: %v"
	rootDirectoryInvalidProblemTemplate  = "not a valid directory: root=%q"
	noProjectsProblemConstant            = "no projects specified; run \"gitfleet find-projects\" and add the output to the registry configuration"
	projectDirectoryMissingProblemFormat = "directory does not exist: %s"
	projectNotRepositoryProblemFormat    = "directory does not contain a \".git\" folder: %s"
)

// GitInstallationChecker reports the installed git version.
type GitInstallationChecker interface {
	Version(executionContext context.Context) (string, error)
}

// EnvironmentError aggregates every problem found while validating the environment.
type EnvironmentError struct {
	Problems []string
}

// Error lists the problems on separate lines.
func (environmentError EnvironmentError) Error() string {
	return environmentErrorHeaderConstant + environmentErrorSeparatorConstant + strings.Join(environmentError.Problems, environmentErrorSeparatorConstant)
}

// ValidationOptions selects which checks apply.
type ValidationOptions struct {
	RequireProjects bool
}

// EnvironmentValidator checks the git installation, the root directory, and every project directory.
type EnvironmentValidator struct {
	fileSystem     shared.FileSystem
	installChecker GitInstallationChecker
}

// NewEnvironmentValidator constructs an EnvironmentValidator.
func NewEnvironmentValidator(fileSystem shared.FileSystem, installChecker GitInstallationChecker) *EnvironmentValidator {
	return &EnvironmentValidator{fileSystem: fileSystem, installChecker: installChecker}
}

// Validate returns an EnvironmentError describing every problem, or nil when the environment is usable.
func (validator *EnvironmentValidator) Validate(executionContext context.Context, registry *Registry, options ValidationOptions) error {
	problems := make([]string, 0)

	if _, versionError := validator.installChecker.Version(executionContext); versionError != nil {
		problems = append(problems, fmt.Sprintf(gitNotInstalledProblemTemplate, versionError))
	}

	if !validator.isDirectory(registry.RootDirectory()) {
		problems = append(problems, fmt.Sprintf(rootDirectoryInvalidProblemTemplate, registry.RootDirectory()))
	}

	if options.RequireProjects {
		projects := registry.Projects()
		if len(projects) == 0 {
			problems = append(problems, noProjectsProblemConstant)
		}
		for _, project := range projects {
			if !validator.isDirectory(project.Path) {
				problems = append(problems, fmt.Sprintf(projectDirectoryMissingProblemFormat, project.Path))
				continue
			}
			if !validator.isDirectory(filepath.Join(project.Path, gitMetadataDirectoryNameConstant)) {
				problems = append(problems, fmt.Sprintf(projectNotRepositoryProblemFormat, project.Path))
			}
		}
	}

	if len(problems) > 0 {
		return EnvironmentError{Problems: problems}
	}
	return nil
}

func (validator *EnvironmentValidator) isDirectory(path string) bool {
	if len(path) == 0 {
		return false
	}
	fileInfo, statError := validator.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}
