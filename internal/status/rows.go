package status

import (
	"path/filepath"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	nestedArtifactPrefixConstant = "-> "
	branchDisplayLimitConstant   = 18
	truncationMarkerConstant     = "..."
)

// Row is one line of the status table.
type Row struct {
	ArtifactID   string
	Version      string
	Uncommitted  string
	Unpushed     string
	Unpulled     string
	Branch       string
	LatestCommit string
	ManifestPath string
	Divider      bool
}

// BuildRows turns project statuses into table rows.
// Only the first row of a project carries its git state; additional manifests become nested rows, and the last row of every project closes with a divider.
func BuildRows(projectStatuses []ProjectStatus, rootDirectory string) []Row {
	rows := make([]Row, 0, len(projectStatuses))
	for _, projectStatus := range projectStatuses {
		rows = append(rows, buildProjectRows(projectStatus, rootDirectory)...)
	}
	return rows
}

func buildProjectRows(projectStatus ProjectStatus, rootDirectory string) []Row {
	snapshot := projectStatus.Snapshot
	leadingRow := Row{
		Uncommitted:  snapshot.Uncommitted.String(),
		Unpushed:     snapshot.Unpushed.String(),
		Branch:       displayBranch(snapshot),
		LatestCommit: displayLatestCommit(snapshot),
	}
	if snapshot.UnpulledLoaded {
		leadingRow.Unpulled = snapshot.Unpulled.String()
	}

	if len(projectStatus.Manifests) == 0 {
		leadingRow.ArtifactID = projectStatus.Project.Identifier
		leadingRow.Version = shared.NotAvailableValueConstant
		leadingRow.Divider = true
		return []Row{leadingRow}
	}

	rows := make([]Row, 0, len(projectStatus.Manifests))
	for manifestIndex, manifestRecord := range projectStatus.Manifests {
		row := Row{}
		if manifestIndex == 0 {
			row = leadingRow
		}

		artifactID := manifestRecord.ArtifactID
		if len(artifactID) == 0 {
			artifactID = projectStatus.Project.Identifier
		}
		if manifestIndex > 0 {
			artifactID = nestedArtifactPrefixConstant + artifactID
		}

		row.ArtifactID = artifactID
		row.Version = manifestRecord.DisplayVersion()
		row.ManifestPath = relativeManifestPath(rootDirectory, manifestRecord.Path)
		row.Divider = manifestIndex == len(projectStatus.Manifests)-1
		rows = append(rows, row)
	}
	return rows
}

func displayBranch(snapshot Snapshot) string {
	if snapshot.BranchError != nil {
		return errorValueConstant
	}
	branchRunes := []rune(snapshot.CurrentBranch)
	if len(branchRunes) <= branchDisplayLimitConstant {
		return snapshot.CurrentBranch
	}
	return string(branchRunes[:branchDisplayLimitConstant]) + truncationMarkerConstant
}

func displayLatestCommit(snapshot Snapshot) string {
	if snapshot.LatestCommitErr != nil {
		return errorValueConstant
	}
	return snapshot.LatestCommit.String()
}

func relativeManifestPath(rootDirectory string, manifestPath string) string {
	relativePath, relativeError := filepath.Rel(rootDirectory, manifestPath)
	if relativeError != nil {
		return manifestPath
	}
	return filepath.ToSlash(relativePath)
}
