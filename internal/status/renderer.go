package status

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	headerArtifactIDConstant   = "Artifact Id"
	headerVersionConstant      = "Version"
	headerUncommittedConstant  = "Uncomm'd"
	headerUnpushedConstant     = "Unpushed"
	headerUnpulledConstant     = "Unpulled"
	headerBranchConstant       = "Branch"
	headerLatestCommitConstant = "Latest Commit"
	headerManifestPathConstant = "POM"
	dividerGlyphConstant       = "─"
	cellHorizontalPadding      = 1
)

// TableOptions selects the optional columns of the status table.
type TableOptions struct {
	IncludeUnpulled      bool
	IncludeManifestPaths bool
}

// RenderTable draws rows as a bordered table with a divider after every project.
func RenderTable(rows []Row, options TableOptions) string {
	headers := tableHeaders(options)
	cellRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		cellRows = append(cellRows, tableCells(row, options))
	}

	columnWidths := make([]int, len(headers))
	for columnIndex, header := range headers {
		columnWidths[columnIndex] = lipgloss.Width(header)
	}
	for _, cells := range cellRows {
		for columnIndex, cell := range cells {
			columnWidths[columnIndex] = max(columnWidths[columnIndex], lipgloss.Width(cell))
		}
	}

	dividerCells := make([]string, len(headers))
	for columnIndex, columnWidth := range columnWidths {
		dividerCells[columnIndex] = strings.Repeat(dividerGlyphConstant, columnWidth+2*cellHorizontalPadding)
	}

	renderedRows := make([][]string, 0, len(cellRows)*2)
	dividerRows := make(map[int]bool)
	for rowIndex, cells := range cellRows {
		renderedRows = append(renderedRows, cells)
		if rows[rowIndex].Divider && rowIndex < len(cellRows)-1 {
			dividerRows[len(renderedRows)] = true
			renderedRows = append(renderedRows, dividerCells)
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, cellHorizontalPadding)
	cellStyle := lipgloss.NewStyle().Padding(0, cellHorizontalPadding)
	dividerStyle := lipgloss.NewStyle()

	statusTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(renderedRows...).
		StyleFunc(func(rowIndex int, columnIndex int) lipgloss.Style {
			switch {
			case rowIndex == table.HeaderRow:
				return headerStyle
			case dividerRows[rowIndex]:
				return dividerStyle
			default:
				return cellStyle
			}
		})

	return statusTable.String()
}

func tableHeaders(options TableOptions) []string {
	headers := []string{headerArtifactIDConstant, headerVersionConstant, headerUncommittedConstant, headerUnpushedConstant}
	if options.IncludeUnpulled {
		headers = append(headers, headerUnpulledConstant)
	}
	headers = append(headers, headerBranchConstant, headerLatestCommitConstant)
	if options.IncludeManifestPaths {
		headers = append(headers, headerManifestPathConstant)
	}
	return headers
}

func tableCells(row Row, options TableOptions) []string {
	cells := []string{row.ArtifactID, row.Version, row.Uncommitted, row.Unpushed}
	if options.IncludeUnpulled {
		cells = append(cells, row.Unpulled)
	}
	cells = append(cells, row.Branch, row.LatestCommit)
	if options.IncludeManifestPaths {
		cells = append(cells, row.ManifestPath)
	}
	return cells
}
