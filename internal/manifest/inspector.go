package manifest

import (
	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	manifestUnreadableMessageConstant = "skipping unreadable manifest"
	logFieldManifestPathConstant      = "manifest_path"
)

// Inspector reads manifest records beneath project directories.
type Inspector struct {
	locator    *Locator
	fileSystem shared.FileSystem
	logger     *zap.Logger
}

// NewInspector constructs an Inspector.
func NewInspector(fileSystem shared.FileSystem, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{
		locator:    NewLocator(fileSystem),
		fileSystem: fileSystem,
		logger:     logger,
	}
}

// Inspect returns a record per readable manifest, in locator order. Unreadable manifests are logged and skipped.
func (inspector *Inspector) Inspect(projectDirectory string) ([]Record, error) {
	manifestPaths, findError := inspector.locator.Find(projectDirectory)
	if findError != nil {
		return nil, findError
	}

	records := make([]Record, 0, len(manifestPaths))
	for _, manifestPath := range manifestPaths {
		record, readError := inspector.read(manifestPath)
		if readError != nil {
			inspector.logger.Warn(manifestUnreadableMessageConstant,
				zap.String(logFieldManifestPathConstant, manifestPath),
				zap.Error(readError),
			)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// FirstVersion returns the raw version of the first manifest that declares or inherits one, or "N/A".
func (inspector *Inspector) FirstVersion(projectDirectory string) string {
	records, inspectError := inspector.Inspect(projectDirectory)
	if inspectError != nil {
		inspector.logger.Warn(manifestUnreadableMessageConstant, zap.Error(inspectError))
		return shared.NotAvailableValueConstant
	}
	for _, record := range records {
		if record.HasVersion() {
			return record.Version
		}
	}
	return shared.NotAvailableValueConstant
}

func (inspector *Inspector) read(manifestPath string) (Record, error) {
	contents, readError := inspector.fileSystem.ReadFile(manifestPath)
	if readError != nil {
		return Record{}, readError
	}
	return Parse(manifestPath, contents)
}
