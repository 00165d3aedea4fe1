package manifest

import (
	"errors"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	manifestFilePermissionsConstant    = 0o644
	noManifestsMessageConstant         = "no manifest files found in project directory"
	versionSkippedMessageConstant      = "leaving manifest version untouched"
	versionReplacedMessageConstant     = "replacing manifest version"
	manifestWriteFailedMessageConstant = "unable to rewrite manifest"
	noVersionPolicyMessageForLogging   = "branch has no version policy; manifests unchanged"
	logFieldProjectDirectoryConstant   = "project_directory"
	logFieldBranchNameConstant         = "branch"
	logFieldPreviousVersionConstant    = "previous_version"
	logFieldNextVersionConstant        = "next_version"
	logFieldReplacementCountConstant   = "replacement_count"
)

// VersionChange records one rewritten manifest.
type VersionChange struct {
	Path            string
	PreviousVersion string
	NextVersion     string
}

// Editor rewrites manifest version tokens according to the branch policy.
type Editor struct {
	inspector  *Inspector
	fileSystem shared.FileSystem
	logger     *zap.Logger
	policy     shared.BranchPolicy
}

// NewEditor constructs an Editor.
func NewEditor(fileSystem shared.FileSystem, logger *zap.Logger, policy shared.BranchPolicy) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		inspector:  NewInspector(fileSystem, logger),
		fileSystem: fileSystem,
		logger:     logger,
		policy:     policy.Sanitize(),
	}
}

// UpdateVersions rewrites every manifest beneath the project for the branch.
// Every occurrence of the exact old token is replaced. Manifests whose version does not fit the policy are left untouched.
func (editor *Editor) UpdateVersions(projectDirectory string, branch string) ([]VersionChange, error) {
	if !editor.policy.IsProtectedBranch(branch) {
		editor.logger.Info(noVersionPolicyMessageForLogging,
			zap.String(logFieldProjectDirectoryConstant, projectDirectory),
			zap.String(logFieldBranchNameConstant, branch),
		)
		return nil, nil
	}

	records, inspectError := editor.inspector.Inspect(projectDirectory)
	if inspectError != nil {
		return nil, inspectError
	}
	if len(records) == 0 {
		editor.logger.Warn(noManifestsMessageConstant, zap.String(logFieldProjectDirectoryConstant, projectDirectory))
		return nil, nil
	}

	changes := make([]VersionChange, 0, len(records))
	for _, record := range records {
		change, rewritten := editor.rewrite(record, branch)
		if rewritten {
			changes = append(changes, change)
		}
	}
	return changes, nil
}

// FirstVersion returns the version used in merge commit messages.
func (editor *Editor) FirstVersion(projectDirectory string) string {
	return editor.inspector.FirstVersion(projectDirectory)
}

func (editor *Editor) rewrite(record Record, branch string) (VersionChange, bool) {
	nextVersion, versionError := NextVersion(editor.policy, branch, record.Version)
	if versionError != nil {
		if !errors.Is(versionError, ErrNoVersionPolicy) {
			editor.logger.Warn(versionSkippedMessageConstant,
				zap.String(logFieldManifestPathConstant, record.Path),
				zap.String(logFieldBranchNameConstant, branch),
				zap.Error(versionError),
			)
		}
		return VersionChange{}, false
	}

	contents, readError := editor.fileSystem.ReadFile(record.Path)
	if readError != nil {
		editor.logger.Warn(manifestWriteFailedMessageConstant, zap.String(logFieldManifestPathConstant, record.Path), zap.Error(readError))
		return VersionChange{}, false
	}

	originalContents := string(contents)
	replacementCount := strings.Count(originalContents, record.Version)
	updatedContents := strings.ReplaceAll(originalContents, record.Version, nextVersion)

	permissions := editor.filePermissions(record.Path)
	if writeError := editor.fileSystem.WriteFile(record.Path, []byte(updatedContents), permissions); writeError != nil {
		editor.logger.Warn(manifestWriteFailedMessageConstant, zap.String(logFieldManifestPathConstant, record.Path), zap.Error(writeError))
		return VersionChange{}, false
	}

	editor.logger.Info(versionReplacedMessageConstant,
		zap.String(logFieldManifestPathConstant, record.Path),
		zap.String(logFieldPreviousVersionConstant, record.Version),
		zap.String(logFieldNextVersionConstant, nextVersion),
		zap.Int(logFieldReplacementCountConstant, replacementCount),
	)
	return VersionChange{Path: record.Path, PreviousVersion: record.Version, NextVersion: nextVersion}, true
}

func (editor *Editor) filePermissions(path string) fs.FileMode {
	fileInfo, statError := editor.fileSystem.Stat(path)
	if statError != nil {
		return manifestFilePermissionsConstant
	}
	return fileInfo.Mode().Perm()
}
