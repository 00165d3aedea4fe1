package status

import (
	"context"
	"fmt"
	"io"

	"github.com/temirov/gitfleet/internal/registry"
)

const (
	progressTemplateConstant    = "[%d/%d] Retrieving meta for %q\n"
	manifestPathsHintConstant   = "HINT: Provide \"--poms\" as an argument to print the POM directories."
	unpulledCommitsHintConstant = "HINT: Provide \"--unpulled\" as an argument to print the number of unpulled commits. (Note: very slow, fetches each project)"
	writeReportErrorTemplate    = "unable to write status report: %w"
)

// ReportOptions controls what a status report includes.
type ReportOptions struct {
	IncludeUnpulled      bool
	IncludeManifestPaths bool
	SuppressHints        bool
}

// Reporter prints the status table for every registered project.
type Reporter struct {
	collector *Collector
	output    io.Writer
}

// NewReporter constructs a Reporter writing to output.
func NewReporter(collector *Collector, output io.Writer) *Reporter {
	return &Reporter{collector: collector, output: output}
}

// Report collects every project, prints progress and the table, and returns the rendered rows.
func (reporter *Reporter) Report(executionContext context.Context, projectRegistry *registry.Registry, options ReportOptions) ([]Row, error) {
	projects := projectRegistry.Projects()
	projectStatuses := make([]ProjectStatus, 0, len(projects))
	for projectIndex, project := range projects {
		if _, writeError := fmt.Fprintf(reporter.output, progressTemplateConstant, projectIndex+1, len(projects), project.Identifier); writeError != nil {
			return nil, fmt.Errorf(writeReportErrorTemplate, writeError)
		}
		projectStatuses = append(projectStatuses, reporter.collector.Collect(executionContext, project, options.IncludeUnpulled))
	}

	rows := BuildRows(projectStatuses, projectRegistry.RootDirectory())
	renderedTable := RenderTable(rows, TableOptions{
		IncludeUnpulled:      options.IncludeUnpulled,
		IncludeManifestPaths: options.IncludeManifestPaths,
	})
	if _, writeError := fmt.Fprintln(reporter.output, renderedTable); writeError != nil {
		return nil, fmt.Errorf(writeReportErrorTemplate, writeError)
	}

	if !options.SuppressHints {
		for _, hint := range reporter.hints(options) {
			if _, writeError := fmt.Fprintln(reporter.output, hint); writeError != nil {
				return nil, fmt.Errorf(writeReportErrorTemplate, writeError)
			}
		}
	}

	if _, writeError := fmt.Fprintln(reporter.output); writeError != nil {
		return nil, fmt.Errorf(writeReportErrorTemplate, writeError)
	}
	return rows, nil
}

func (reporter *Reporter) hints(options ReportOptions) []string {
	hints := make([]string, 0, 2)
	if !options.IncludeManifestPaths {
		hints = append(hints, manifestPathsHintConstant)
	}
	if !options.IncludeUnpulled {
		hints = append(hints, unpulledCommitsHintConstant)
	}
	return hints
}
