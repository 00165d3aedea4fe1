package console_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfleet/internal/console"
)

const (
	testConfirmationPromptConstant = "Do you want to continue? (Y/N)"
	testBranchPromptConstant       = "Enter Destination Branch:"
)

func TestIOPrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name      string
		input     string
		confirmed bool
	}{
		{name: "upper_case_y", input: "Y\n", confirmed: true},
		{name: "lower_case_yes", input: " yes \n", confirmed: true},
		{name: "no", input: "N\n", confirmed: false},
		{name: "empty_input", input: "", confirmed: false},
		{name: "unterminated_y", input: "y", confirmed: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			outputBuffer := &strings.Builder{}
			prompter := console.NewIOPrompter(strings.NewReader(testCase.input), outputBuffer)

			confirmed, confirmError := prompter.Confirm(testConfirmationPromptConstant)
			require.NoError(subTest, confirmError)
			require.Equal(subTest, testCase.confirmed, confirmed)
			require.True(subTest, strings.HasPrefix(outputBuffer.String(), testConfirmationPromptConstant+" "))
		})
	}
}

func TestIOPrompterReadLineEchoesPipedAnswers(testInstance *testing.T) {
	outputBuffer := &strings.Builder{}
	prompter := console.NewIOPrompter(strings.NewReader("  release/2.6 \nDEV-1234\n"), outputBuffer)

	firstAnswer, firstError := prompter.ReadLine(testBranchPromptConstant)
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, "release/2.6", firstAnswer)

	secondAnswer, secondError := prompter.ReadLine(testBranchPromptConstant)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, "DEV-1234", secondAnswer)

	require.Equal(testInstance, testBranchPromptConstant+" release/2.6\n"+testBranchPromptConstant+" DEV-1234\n", outputBuffer.String())
}

func TestIOPrompterReadLineReportsExhaustedInput(testInstance *testing.T) {
	prompter := console.NewIOPrompter(strings.NewReader(""), &strings.Builder{})

	_, readError := prompter.ReadLine(testBranchPromptConstant)
	require.ErrorIs(testInstance, readError, console.ErrInputExhausted)
}

func TestPrintSectionSkipsEmptyEntries(testInstance *testing.T) {
	outputBuffer := &strings.Builder{}
	require.NoError(testInstance, console.PrintSection(outputBuffer, "Failed", nil))
	require.Empty(testInstance, outputBuffer.String())

	require.NoError(testInstance, console.PrintSection(outputBuffer, "Successful", []string{"services/billing", "libs/common"}))
	require.Equal(testInstance, "-----------------\nSuccessful\n-----------------\nservices/billing\nlibs/common\n", outputBuffer.String())
}

type rejectingWriter struct{}

func (rejectingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestConsoleWritesReportFailures(testInstance *testing.T) {
	testCases := []struct {
		name  string
		write func() error
	}{
		{name: "banner", write: func() error { return console.PrintBanner(rejectingWriter{}, "GIT Merge") }},
		{name: "section", write: func() error { return console.PrintSection(rejectingWriter{}, "Failed", []string{"libs/common"}) }},
		{name: "line", write: func() error { return console.Write(rejectingWriter{}, "DONE.\n") }},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.EqualError(subTest, testCase.write(), "unable to write console output: disk full")
		})
	}
}
