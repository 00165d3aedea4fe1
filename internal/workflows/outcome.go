package workflows

import (
	"io"

	"github.com/temirov/gitfleet/internal/console"
)

const (
	successfulSectionHeadingConstant = "Successful"
	failedSectionHeadingConstant     = "Failed"
)

// OutcomeSet records which projects of a batch succeeded and which failed, in processing order.
type OutcomeSet struct {
	Successful []string
	Failed     []string
}

// RecordSuccess appends a project to the successful list.
func (outcomes *OutcomeSet) RecordSuccess(projectIdentifier string) {
	outcomes.Successful = append(outcomes.Successful, projectIdentifier)
}

// RecordFailure appends a project to the failed list.
func (outcomes *OutcomeSet) RecordFailure(projectIdentifier string) {
	outcomes.Failed = append(outcomes.Failed, projectIdentifier)
}

// Print writes the non-empty sections.
func (outcomes OutcomeSet) Print(writer io.Writer) error {
	if printError := console.PrintSection(writer, successfulSectionHeadingConstant, outcomes.Successful); printError != nil {
		return printError
	}
	return console.PrintSection(writer, failedSectionHeadingConstant, outcomes.Failed)
}
