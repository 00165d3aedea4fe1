package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	snapshotSuffixConstant          = "-SNAPSHOT"
	snapshotVersionTemplateConstant = "%d.%d" + snapshotSuffixConstant
	noVersionPolicyMessageConstant  = "branch has no version policy"
	versionMismatchTemplateConstant = "version %q does not match %s on branch %q"
)

var (
	releaseVersionPattern  = regexp.MustCompile(`^(\d+)\.(\d+)$`)
	snapshotVersionPattern = regexp.MustCompile(`^(\d+\.\d+)-SNAPSHOT$`)
)

// ErrNoVersionPolicy indicates the branch neither bumps nor strips versions.
var ErrNoVersionPolicy = errors.New(noVersionPolicyMessageConstant)

// VersionPatternError reports a version token that the branch policy cannot rewrite.
type VersionPatternError struct {
	Branch  string
	Version string
	Pattern string
}

// Error describes the mismatch.
func (patternError VersionPatternError) Error() string {
	return fmt.Sprintf(versionMismatchTemplateConstant, patternError.Version, patternError.Pattern, patternError.Branch)
}

// NextVersion computes the rewritten token for the branch.
// The development branch turns "2.5" into "2.6-SNAPSHOT"; the release branch turns "2.6-SNAPSHOT" into "2.6".
func NextVersion(policy shared.BranchPolicy, branch string, currentVersion string) (string, error) {
	switch branch {
	case policy.DevelopmentBranch:
		matches := releaseVersionPattern.FindStringSubmatch(currentVersion)
		if matches == nil {
			return "", VersionPatternError{Branch: branch, Version: currentVersion, Pattern: releaseVersionPattern.String()}
		}
		majorVersion, majorError := strconv.Atoi(matches[1])
		if majorError != nil {
			return "", majorError
		}
		minorVersion, minorError := strconv.Atoi(matches[2])
		if minorError != nil {
			return "", minorError
		}
		return fmt.Sprintf(snapshotVersionTemplateConstant, majorVersion, minorVersion+1), nil
	case policy.ReleaseBranch:
		matches := snapshotVersionPattern.FindStringSubmatch(currentVersion)
		if matches == nil {
			return "", VersionPatternError{Branch: branch, Version: currentVersion, Pattern: snapshotVersionPattern.String()}
		}
		return matches[1], nil
	default:
		return "", ErrNoVersionPolicy
	}
}
