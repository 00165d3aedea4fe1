package gitops_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfleet/internal/gitops"
	"github.com/temirov/gitfleet/internal/gitops/testsupport"
)

func TestGlobalConfigValueTreatsMissingKeyAsUnset(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "config --global --get pull.rebase", testsupport.Response{ExitCode: 1})
	adapter := newTestAdapter(testInstance, executor, nil)

	value, found, readError := adapter.GlobalConfigValue(context.Background(), "pull.rebase")
	require.NoError(testInstance, readError)
	require.False(testInstance, found)
	require.Empty(testInstance, value)
}

func TestApplyConfigurationSettingsWritesOnlyDisabledKeys(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "config --global --get pull.rebase", testsupport.Response{StandardOutput: "TRUE\n"})
	executor.Script("", "config --global --get rebase.autoStash", testsupport.Response{ExitCode: 1})
	adapter := newTestAdapter(testInstance, executor, nil)

	outputBuffer := &strings.Builder{}
	applyError := gitops.ApplyConfigurationSettings(context.Background(), adapter, gitops.CommonConfigurationSettings(), outputBuffer)
	require.NoError(testInstance, applyError)

	require.Equal(testInstance, []string{
		"config --global --get pull.rebase",
		"config --global --get rebase.autoStash",
		"config --global rebase.autoStash true",
	}, executor.Commands(""))
	require.Equal(testInstance, "\"pull.rebase\" already set to \"true\".\nSetting \"rebase.autoStash\" to \"true\".\n", outputBuffer.String())
}

func TestApplyConfigurationSettingsContinuesAfterFailure(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "config --global pull.rebase true", testsupport.Response{ExitCode: 255, StandardError: "error: could not lock config file"})
	adapter := newTestAdapter(testInstance, executor, nil)

	outputBuffer := &strings.Builder{}
	applyError := gitops.ApplyConfigurationSettings(context.Background(), adapter, gitops.CommonConfigurationSettings(), outputBuffer)
	require.Error(testInstance, applyError)
	require.Contains(testInstance, outputBuffer.String(), "ERROR: Was unable to enable git \"pull.rebase\".")
	require.Contains(testInstance, executor.Commands(""), "config --global rebase.autoStash true")
}

type failingOutput struct{}

func (failingOutput) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestApplyConfigurationSettingsStopsWhenOutputFails(testInstance *testing.T) {
	executor := testsupport.NewGitExecutorStub()
	executor.Script("", "config --global --get pull.rebase", testsupport.Response{ExitCode: 1})
	adapter := newTestAdapter(testInstance, executor, nil)

	applyError := gitops.ApplyConfigurationSettings(context.Background(), adapter, gitops.CommonConfigurationSettings(), failingOutput{})
	require.ErrorContains(testInstance, applyError, "unable to write console output: stdout closed")
	require.Equal(testInstance, []string{"config --global --get pull.rebase"}, executor.Commands(""))
}
