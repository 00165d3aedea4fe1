package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	// ManifestFileNameConstant is the build descriptor the locator searches for.
	ManifestFileNameConstant         = "pom.xml"
	gitMetadataDirectoryNameConstant = ".git"
	listDirectoryErrorTemplate       = "unable to list %s: %w"
)

// Locator finds manifest files beneath a project directory.
type Locator struct {
	fileSystem shared.FileSystem
}

// NewLocator constructs a Locator.
func NewLocator(fileSystem shared.FileSystem) *Locator {
	return &Locator{fileSystem: fileSystem}
}

// Find returns manifest paths in top-down order: a directory's own manifest precedes those of its subdirectories,
// which are visited in name order. Git metadata directories are skipped.
func (locator *Locator) Find(directory string) ([]string, error) {
	manifestPaths := make([]string, 0)
	if walkError := locator.walk(directory, &manifestPaths); walkError != nil {
		return nil, walkError
	}
	return manifestPaths, nil
}

func (locator *Locator) walk(directory string, manifestPaths *[]string) error {
	entries, listError := locator.fileSystem.ReadDir(directory)
	if listError != nil {
		return fmt.Errorf(listDirectoryErrorTemplate, directory, listError)
	}

	subdirectories := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			if entry.Name() != gitMetadataDirectoryNameConstant {
				subdirectories = append(subdirectories, filepath.Join(directory, entry.Name()))
			}
			continue
		}
		if entry.Name() == ManifestFileNameConstant {
			*manifestPaths = append(*manifestPaths, filepath.Join(directory, entry.Name()))
		}
	}

	for _, subdirectory := range subdirectories {
		if walkError := locator.walk(subdirectory, manifestPaths); walkError != nil {
			return walkError
		}
	}
	return nil
}
