package workflows_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfleet/internal/registry"
	"github.com/temirov/gitfleet/internal/status"
	"github.com/temirov/gitfleet/internal/workflows"
)

const (
	testSessionRootConstant = "/srv/projects"
	testSessionTitle        = "GIT Pull"
)

type validatorStub struct {
	err     error
	options []registry.ValidationOptions
}

func (validator *validatorStub) Validate(_ context.Context, _ *registry.Registry, options registry.ValidationOptions) error {
	validator.options = append(validator.options, options)
	return validator.err
}

type reporterStub struct {
	calls []status.ReportOptions
}

func (reporter *reporterStub) Report(_ context.Context, _ *registry.Registry, options status.ReportOptions) ([]status.Row, error) {
	reporter.calls = append(reporter.calls, options)
	return nil, nil
}

type prompterStub struct {
	confirm   bool
	answers   []string
	prompts   []string
	confirmed int
}

func (prompter *prompterStub) Confirm(prompt string) (bool, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	prompter.confirmed++
	return prompter.confirm, nil
}

func (prompter *prompterStub) ReadLine(prompt string) (string, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	if len(prompter.answers) == 0 {
		return "", nil
	}
	answer := prompter.answers[0]
	prompter.answers = prompter.answers[1:]
	return answer, nil
}

func newTestSession(testInstance *testing.T, validator *validatorStub, reporter *reporterStub, prompter *prompterStub, output *bytes.Buffer, options workflows.SessionOptions) *workflows.Session {
	testInstance.Helper()
	projectRegistry := registry.NewRegistry(registry.Configuration{Root: testSessionRootConstant, Projects: []string{"services/billing", "libs/common"}})
	session, sessionError := workflows.NewSession(workflows.SessionDependencies{
		Registry:  projectRegistry,
		Validator: validator,
		Reporter:  reporter,
		Prompter:  prompter,
		Output:    output,
	}, options)
	require.NoError(testInstance, sessionError)
	return session
}

func TestNewSessionRequiresDependencies(testInstance *testing.T) {
	_, sessionError := workflows.NewSession(workflows.SessionDependencies{}, workflows.SessionOptions{})
	require.ErrorIs(testInstance, sessionError, workflows.ErrSessionDependenciesMissing)
}

func TestSessionBeginValidatesBeforeReporting(testInstance *testing.T) {
	testCases := []struct {
		name            string
		validationError error
		expectedReports int
	}{
		{name: "valid_environment", expectedReports: 1},
		{name: "invalid_environment", validationError: registry.EnvironmentError{Problems: []string{"directory does not exist: /srv/projects/libs/common"}}, expectedReports: 0},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			validator := &validatorStub{err: testCase.validationError}
			reporter := &reporterStub{}
			output := &bytes.Buffer{}
			session := newTestSession(subTest, validator, reporter, &prompterStub{}, output, workflows.SessionOptions{Title: testSessionTitle})

			beginError := session.Begin(context.Background())
			if testCase.validationError != nil {
				var environmentError registry.EnvironmentError
				require.ErrorAs(subTest, beginError, &environmentError)
			} else {
				require.NoError(subTest, beginError)
			}

			require.Contains(subTest, output.String(), testSessionTitle)
			require.Equal(subTest, []registry.ValidationOptions{{RequireProjects: true}}, validator.options)
			require.Len(subTest, reporter.calls, testCase.expectedReports)
		})
	}
}

func TestSessionConfirm(testInstance *testing.T) {
	testCases := []struct {
		name            string
		assumeYes       bool
		answer          bool
		expectConfirmed bool
		expectPrompted  bool
	}{
		{name: "declined", answer: false, expectConfirmed: false, expectPrompted: true},
		{name: "accepted", answer: true, expectConfirmed: true, expectPrompted: true},
		{name: "assume_yes", assumeYes: true, expectConfirmed: true, expectPrompted: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			prompter := &prompterStub{confirm: testCase.answer}
			session := newTestSession(subTest, &validatorStub{}, &reporterStub{}, prompter, &bytes.Buffer{}, workflows.SessionOptions{AssumeYes: testCase.assumeYes})

			confirmed, confirmationError := session.Confirm()
			require.NoError(subTest, confirmationError)
			require.Equal(subTest, testCase.expectConfirmed, confirmed)
			if testCase.expectPrompted {
				require.Equal(subTest, []string{"Do you want to continue? (Y/N)"}, prompter.prompts)
			} else {
				require.Empty(subTest, prompter.prompts)
			}
		})
	}
}

func TestSessionInput(testInstance *testing.T) {
	testCases := []struct {
		name          string
		provided      string
		answers       []string
		expectedValue string
		expectedError error
	}{
		{name: "provided_value", provided: " dev ", expectedValue: "dev"},
		{name: "prompted_value", answers: []string{"feature/DEV-1234\n"}, expectedValue: "feature/DEV-1234"},
		{name: "empty_answer", answers: []string{"  "}, expectedError: workflows.ErrInputRequired},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			prompter := &prompterStub{answers: testCase.answers}
			session := newTestSession(subTest, &validatorStub{}, &reporterStub{}, prompter, &bytes.Buffer{}, workflows.SessionOptions{})

			value, inputError := session.Input(testCase.provided, "Enter Source Branch:")
			if testCase.expectedError != nil {
				require.ErrorIs(subTest, inputError, testCase.expectedError)
				return
			}
			require.NoError(subTest, inputError)
			require.Equal(subTest, testCase.expectedValue, value)
		})
	}
}

func TestSessionExecuteRecordsOutcomesAndContinues(testInstance *testing.T) {
	reporter := &reporterStub{}
	output := &bytes.Buffer{}
	session := newTestSession(testInstance, &validatorStub{}, reporter, &prompterStub{}, output, workflows.SessionOptions{
		ActionLabel: "Pulling",
		Report:      status.ReportOptions{IncludeManifestPaths: true},
	})

	visited := make([]string, 0, 2)
	outcomes, executionError := session.Execute(context.Background(), func(_ context.Context, project registry.Project) error {
		visited = append(visited, project.Identifier)
		if project.Identifier == "services/billing" {
			return errors.New("pull 'dev' failed")
		}
		return nil
	})

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"services/billing", "libs/common"}, visited)
	require.Equal(testInstance, []string{"libs/common"}, outcomes.Successful)
	require.Equal(testInstance, []string{"services/billing"}, outcomes.Failed)

	rendered := output.String()
	require.Contains(testInstance, rendered, `[1/2] Pulling "services/billing"`)
	require.Contains(testInstance, rendered, "Successful")
	require.Contains(testInstance, rendered, "Failed")
	require.Contains(testInstance, rendered, "DONE.")
	require.Equal(testInstance, []status.ReportOptions{{IncludeManifestPaths: true, SuppressHints: true}}, reporter.calls)
}

func TestSessionExecuteAbortsOnCancellation(testInstance *testing.T) {
	reporter := &reporterStub{}
	output := &bytes.Buffer{}
	session := newTestSession(testInstance, &validatorStub{}, reporter, &prompterStub{}, output, workflows.SessionOptions{})

	executionContext, cancel := context.WithCancel(context.Background())
	outcomes, executionError := session.Execute(executionContext, func(_ context.Context, project registry.Project) error {
		cancel()
		return context.Canceled
	})

	require.ErrorIs(testInstance, executionError, context.Canceled)
	require.Equal(testInstance, []string{"services/billing"}, outcomes.Failed)
	require.Empty(testInstance, reporter.calls)
	require.NotContains(testInstance, output.String(), "DONE.")
}

type closedPipeWriter struct{}

func (closedPipeWriter) Write([]byte) (int, error) {
	return 0, errors.New("write |1: broken pipe")
}

func TestSessionSurfacesOutputFailures(testInstance *testing.T) {
	projectRegistry := registry.NewRegistry(registry.Configuration{Root: testSessionRootConstant, Projects: []string{"services/billing"}})
	validator := &validatorStub{}
	reporter := &reporterStub{}
	session, sessionError := workflows.NewSession(workflows.SessionDependencies{
		Registry:  projectRegistry,
		Validator: validator,
		Reporter:  reporter,
		Prompter:  &prompterStub{},
		Output:    closedPipeWriter{},
	}, workflows.SessionOptions{Title: testSessionTitle, ActionLabel: "Pulling"})
	require.NoError(testInstance, sessionError)

	beginError := session.Begin(context.Background())
	require.ErrorContains(testInstance, beginError, "unable to write console output: write |1: broken pipe")
	require.Empty(testInstance, reporter.calls)

	operationCalls := 0
	_, executionError := session.Execute(context.Background(), func(context.Context, registry.Project) error {
		operationCalls++
		return nil
	})
	require.ErrorContains(testInstance, executionError, "broken pipe")
	require.Zero(testInstance, operationCalls)
}
