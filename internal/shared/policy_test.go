package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfleet/internal/shared"
)

func TestBranchPolicySanitizeFallsBackToDefaults(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    shared.BranchPolicy
		expected shared.BranchPolicy
	}{
		{
			name:     "empty_policy",
			input:    shared.BranchPolicy{},
			expected: shared.DefaultBranchPolicy(),
		},
		{
			name:  "custom_branches_trimmed",
			input: shared.BranchPolicy{RemoteName: " upstream ", DevelopmentBranch: "develop", ReleaseBranch: " main"},
			expected: shared.BranchPolicy{
				RemoteName:        "upstream",
				DevelopmentBranch: "develop",
				ReleaseBranch:     "main",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expected, testCase.input.Sanitize())
		})
	}
}

func TestBranchPolicyIsProtectedBranch(testInstance *testing.T) {
	policy := shared.DefaultBranchPolicy()
	require.True(testInstance, policy.IsProtectedBranch("dev"))
	require.True(testInstance, policy.IsProtectedBranch("master"))
	require.False(testInstance, policy.IsProtectedBranch("feature/JIRA-1"))
}
