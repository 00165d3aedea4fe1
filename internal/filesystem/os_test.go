package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfleet/internal/filesystem"
	"github.com/temirov/gitfleet/internal/shared"
)

const (
	testManifestFileNameConstant = "pom.xml"
	testManifestContentConstant  = "<project><version>1.0</version></project>"
	testFilePermissionsConstant  = 0o644
)

func TestOSFileSystemRoundTripsFiles(testInstance *testing.T) {
	var fileSystem shared.FileSystem = filesystem.OSFileSystem{}

	temporaryDirectory := testInstance.TempDir()
	manifestPath := filepath.Join(temporaryDirectory, testManifestFileNameConstant)

	writeError := fileSystem.WriteFile(manifestPath, []byte(testManifestContentConstant), testFilePermissionsConstant)
	require.NoError(testInstance, writeError)

	contents, readError := fileSystem.ReadFile(manifestPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, testManifestContentConstant, string(contents))

	fileInfo, statError := fileSystem.Stat(manifestPath)
	require.NoError(testInstance, statError)
	require.False(testInstance, fileInfo.IsDir())

	entries, listError := fileSystem.ReadDir(temporaryDirectory)
	require.NoError(testInstance, listError)
	require.Len(testInstance, entries, 1)
	require.Equal(testInstance, testManifestFileNameConstant, entries[0].Name())
}
