package registry

import (
	"path/filepath"
	"regexp"
)

var identifierSeparatorPattern = regexp.MustCompile(`[\\/]+`)

// Project is a registered repository checkout.
type Project struct {
	Identifier string
	Path       string
}

// Registry holds the ordered project list and the root directory they resolve against.
type Registry struct {
	rootDirectory string
	projects      []Project
}

// NewRegistry builds a Registry from sanitized configuration.
func NewRegistry(configuration Configuration) *Registry {
	registry := &Registry{
		rootDirectory: configuration.Root,
		projects:      make([]Project, 0, len(configuration.Projects)),
	}
	for _, identifier := range configuration.Projects {
		registry.projects = append(registry.projects, Project{
			Identifier: identifier,
			Path:       registry.Resolve(identifier),
		})
	}
	return registry
}

// RootDirectory returns the directory every project resolves against.
func (registry *Registry) RootDirectory() string {
	return registry.rootDirectory
}

// Projects returns the registered projects in configuration order.
func (registry *Registry) Projects() []Project {
	return append([]Project{}, registry.projects...)
}

// Resolve joins an identifier onto the root. Both slash styles separate path segments.
func (registry *Registry) Resolve(identifier string) string {
	segments := identifierSeparatorPattern.Split(identifier, -1)
	pathSegments := make([]string, 0, len(segments)+1)
	pathSegments = append(pathSegments, registry.rootDirectory)
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		pathSegments = append(pathSegments, segment)
	}
	return filepath.Join(pathSegments...)
}

// RelativeIdentifier strips the root prefix from a discovered path and normalizes separators.
func (registry *Registry) RelativeIdentifier(projectPath string) string {
	relativePath, relativeError := filepath.Rel(registry.rootDirectory, projectPath)
	if relativeError != nil {
		return filepath.ToSlash(projectPath)
	}
	return filepath.ToSlash(relativePath)
}
