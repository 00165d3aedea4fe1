package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitfleet/internal/console"
	"github.com/temirov/gitfleet/internal/registry"
	"github.com/temirov/gitfleet/internal/shared"
	"github.com/temirov/gitfleet/internal/status"
)

const (
	continuePromptConstant             = "Do you want to continue? (Y/N)"
	doneMessageConstant                = "DONE.\n"
	projectProgressTemplateConstant    = "[%d/%d] %s %q\n"
	operationDeclinedMessageConstant   = "operation declined by operator"
	projectSucceededMessageConstant    = "project processed"
	projectFailedMessageConstant       = "project failed"
	batchAbortedErrorTemplateConstant  = "batch aborted: %w"
	inputRequiredErrorTemplateConstant = "%w: %s"
	logFieldProjectConstant            = "project"
	logFieldProjectPathConstant        = "project_path"
	logFieldOperationConstant          = "operation"
)

var (
	// ErrSessionDependenciesMissing indicates a session was constructed without its collaborators.
	ErrSessionDependenciesMissing = errors.New("workflow session dependencies are not configured")
	// ErrInputRequired indicates the operator supplied an empty answer for a required input.
	ErrInputRequired = errors.New("a value is required")
)

// EnvironmentValidator checks that the registry can be operated on.
type EnvironmentValidator interface {
	Validate(executionContext context.Context, projectRegistry *registry.Registry, options registry.ValidationOptions) error
}

// StatusReporter prints the status table.
type StatusReporter interface {
	Report(executionContext context.Context, projectRegistry *registry.Registry, options status.ReportOptions) ([]status.Row, error)
}

// Prompter asks for confirmations and free-text inputs.
type Prompter interface {
	shared.ConfirmationPrompter
	shared.InputPrompter
}

// ProjectOperation mutates one project. A returned error marks the project as failed.
type ProjectOperation func(executionContext context.Context, project registry.Project) error

// SessionDependencies wires a Session to its collaborators.
type SessionDependencies struct {
	Registry  *registry.Registry
	Validator EnvironmentValidator
	Reporter  StatusReporter
	Prompter  Prompter
	Output    io.Writer
	Logger    *zap.Logger
}

// SessionOptions configures one batch run.
type SessionOptions struct {
	Title       string
	ActionLabel string
	AssumeYes   bool
	Report      status.ReportOptions
}

// Session drives the banner, validation, status report, confirmation, per-project loop and summary of a batch command.
type Session struct {
	dependencies SessionDependencies
	options      SessionOptions
	logger       *zap.Logger
}

// NewSession validates dependencies and constructs a Session.
func NewSession(dependencies SessionDependencies, options SessionOptions) (*Session, error) {
	if dependencies.Registry == nil || dependencies.Validator == nil || dependencies.Reporter == nil || dependencies.Output == nil {
		return nil, ErrSessionDependenciesMissing
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{dependencies: dependencies, options: options, logger: logger}, nil
}

// Begin prints the banner, validates the environment and prints the initial status report.
func (session *Session) Begin(executionContext context.Context) error {
	if bannerError := console.PrintBanner(session.dependencies.Output, session.options.Title); bannerError != nil {
		return bannerError
	}

	validationError := session.dependencies.Validator.Validate(executionContext, session.dependencies.Registry, registry.ValidationOptions{RequireProjects: true})
	if validationError != nil {
		return validationError
	}

	_, reportError := session.dependencies.Reporter.Report(executionContext, session.dependencies.Registry, session.options.Report)
	return reportError
}

// Confirm asks the operator to continue unless confirmation was pre-approved.
func (session *Session) Confirm() (bool, error) {
	if session.options.AssumeYes {
		return true, nil
	}
	if session.dependencies.Prompter == nil {
		return false, ErrSessionDependenciesMissing
	}
	confirmed, confirmationError := session.dependencies.Prompter.Confirm(continuePromptConstant)
	if confirmationError != nil {
		return false, confirmationError
	}
	if !confirmed {
		session.logger.Info(operationDeclinedMessageConstant, zap.String(logFieldOperationConstant, session.options.Title))
	}
	return confirmed, nil
}

// Input returns the provided value, prompting for it when blank.
func (session *Session) Input(providedValue string, prompt string) (string, error) {
	trimmedValue := strings.TrimSpace(providedValue)
	if len(trimmedValue) > 0 {
		return trimmedValue, nil
	}
	if session.dependencies.Prompter == nil {
		return "", ErrSessionDependenciesMissing
	}

	answer, promptError := session.dependencies.Prompter.ReadLine(prompt)
	if promptError != nil {
		return "", promptError
	}
	answer = strings.TrimSpace(answer)
	if len(answer) == 0 {
		return "", fmt.Errorf(inputRequiredErrorTemplateConstant, ErrInputRequired, strings.TrimSuffix(prompt, ":"))
	}
	return answer, nil
}

// Execute applies the operation to every project in registry order, then prints the summary and the final status table.
// Failures are recorded and the batch continues; cancellation aborts the batch after the summary.
func (session *Session) Execute(executionContext context.Context, operation ProjectOperation) (OutcomeSet, error) {
	outcomes := OutcomeSet{}
	projects := session.dependencies.Registry.Projects()
	output := session.dependencies.Output

	for projectIndex, project := range projects {
		if executionContext.Err() != nil {
			break
		}
		if progressError := console.Write(output, projectProgressTemplateConstant, projectIndex+1, len(projects), session.options.ActionLabel, project.Identifier); progressError != nil {
			return outcomes, progressError
		}

		operationError := operation(executionContext, project)
		if operationError != nil {
			session.logger.Error(projectFailedMessageConstant,
				zap.String(logFieldProjectConstant, project.Identifier),
				zap.String(logFieldProjectPathConstant, project.Path),
				zap.String(logFieldOperationConstant, session.options.Title),
				zap.Error(operationError),
			)
			outcomes.RecordFailure(project.Identifier)
			continue
		}

		session.logger.Info(projectSucceededMessageConstant,
			zap.String(logFieldProjectConstant, project.Identifier),
			zap.String(logFieldOperationConstant, session.options.Title),
		)
		outcomes.RecordSuccess(project.Identifier)
	}

	if summaryError := outcomes.Print(output); summaryError != nil {
		return outcomes, summaryError
	}

	if cancellationError := executionContext.Err(); cancellationError != nil {
		return outcomes, fmt.Errorf(batchAbortedErrorTemplateConstant, cancellationError)
	}

	finalReportOptions := session.options.Report
	finalReportOptions.SuppressHints = true
	if _, reportError := session.dependencies.Reporter.Report(executionContext, session.dependencies.Registry, finalReportOptions); reportError != nil {
		return outcomes, reportError
	}

	return outcomes, console.Write(output, doneMessageConstant)
}
