package registry

import (
	"strings"

	pathutils "github.com/temirov/gitfleet/internal/utils/path"
)

const (
	defaultRootDirectoryConstant = "~/projects"
	rootConfigurationKeyConstant = "root"
	projectsConfigurationKey     = "projects"
	configurationKeySeparator    = "."
)

// Configuration captures the operator-maintained project list.
type Configuration struct {
	Root     string   `mapstructure:"root"`
	Projects []string `mapstructure:"projects"`
}

// DefaultConfiguration returns the baseline registry configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		Root:     defaultRootDirectoryConstant,
		Projects: []string{},
	}
}

// DefaultConfigurationValues exposes the defaults keyed for the configuration loader.
func DefaultConfigurationValues(sectionKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		sectionKey + configurationKeySeparator + rootConfigurationKeyConstant: defaults.Root,
		sectionKey + configurationKeySeparator + projectsConfigurationKey:     defaults.Projects,
	}
}

// Sanitize trims entries, drops blanks and duplicates, and expands a leading tilde in the root.
func (configuration Configuration) Sanitize() Configuration {
	return configuration.sanitizeWithExpander(pathutils.NewHomeExpander())
}

func (configuration Configuration) sanitizeWithExpander(expander *pathutils.HomeExpander) Configuration {
	sanitized := Configuration{
		Root:     expander.Expand(strings.TrimSpace(configuration.Root)),
		Projects: make([]string, 0, len(configuration.Projects)),
	}

	seenProjects := make(map[string]struct{}, len(configuration.Projects))
	for _, project := range configuration.Projects {
		trimmedProject := strings.TrimSpace(project)
		if len(trimmedProject) == 0 {
			continue
		}
		if _, alreadySeen := seenProjects[trimmedProject]; alreadySeen {
			continue
		}
		seenProjects[trimmedProject] = struct{}{}
		sanitized.Projects = append(sanitized.Projects, trimmedProject)
	}

	return sanitized
}
