package shared

import "strings"

// BranchPolicy names the remote and the branches that carry version-bump semantics.
type BranchPolicy struct {
	RemoteName        string `mapstructure:"remote"`
	DevelopmentBranch string `mapstructure:"development_branch"`
	ReleaseBranch     string `mapstructure:"release_branch"`
}

// DefaultBranchPolicy returns the origin/dev/master policy.
func DefaultBranchPolicy() BranchPolicy {
	return BranchPolicy{
		RemoteName:        OriginRemoteNameConstant,
		DevelopmentBranch: DevelopmentBranchNameConstant,
		ReleaseBranch:     ReleaseBranchNameConstant,
	}
}

// DefaultBranchPolicyValues exposes the defaults keyed for the configuration loader.
func DefaultBranchPolicyValues(sectionKey string) map[string]any {
	defaults := DefaultBranchPolicy()
	return map[string]any{
		sectionKey + ".remote":             defaults.RemoteName,
		sectionKey + ".development_branch": defaults.DevelopmentBranch,
		sectionKey + ".release_branch":     defaults.ReleaseBranch,
	}
}

// Sanitize trims values and falls back to defaults for blanks.
func (policy BranchPolicy) Sanitize() BranchPolicy {
	defaults := DefaultBranchPolicy()
	return BranchPolicy{
		RemoteName:        valueOrDefault(policy.RemoteName, defaults.RemoteName),
		DevelopmentBranch: valueOrDefault(policy.DevelopmentBranch, defaults.DevelopmentBranch),
		ReleaseBranch:     valueOrDefault(policy.ReleaseBranch, defaults.ReleaseBranch),
	}
}

// IsProtectedBranch reports whether the branch is the development or release branch.
func (policy BranchPolicy) IsProtectedBranch(branch string) bool {
	return branch == policy.DevelopmentBranch || branch == policy.ReleaseBranch
}

func valueOrDefault(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}
