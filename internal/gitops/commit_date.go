package gitops

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	latestCommitOperationConstant = "read latest commit date"
	singleEntryFlagConstant       = "-1"
	committerDateFormatFlag       = "--format=%cd"
	localDateFlagConstant         = "--date=local"
	gitLocalDateLayoutConstant    = "Mon Jan 2 15:04:05 2006"
	commitDateDisplayLayout       = "2006-01-02 03:04 PM"
	commitDateDisplayTemplate     = "%s (-%dd)"
	hoursPerDayConstant           = 24
)

// CommitTimestamp pairs the latest commit time with the whole days elapsed since it.
type CommitTimestamp struct {
	CommittedAt time.Time
	DaysElapsed int
}

// String renders the timestamp as "2006-01-02 03:04 PM (-Nd)".
func (timestamp CommitTimestamp) String() string {
	return fmt.Sprintf(commitDateDisplayTemplate, timestamp.CommittedAt.Format(commitDateDisplayLayout), timestamp.DaysElapsed)
}

// LatestCommitDate reads the committer date of HEAD in local time.
func (adapter *Adapter) LatestCommitDate(executionContext context.Context, repositoryPath string) (CommitTimestamp, error) {
	result, logError := adapter.runGit(executionContext, repositoryPath, logCommandConstant, singleEntryFlagConstant, committerDateFormatFlag, localDateFlagConstant)
	if logError != nil {
		return CommitTimestamp{}, OperationError{Operation: latestCommitOperationConstant, Cause: logError}
	}

	committedAt, parseError := ParseLocalCommitDate(result.StandardOutput)
	if parseError != nil {
		return CommitTimestamp{}, OperationError{Operation: latestCommitOperationConstant, Cause: parseError}
	}

	return CommitTimestamp{
		CommittedAt: committedAt,
		DaysElapsed: elapsedDays(committedAt, adapter.clock.Now()),
	}, nil
}

// ParseLocalCommitDate parses git's --date=local output.
func ParseLocalCommitDate(output string) (time.Time, error) {
	return time.ParseInLocation(gitLocalDateLayoutConstant, strings.TrimSpace(output), time.Local)
}

func elapsedDays(committedAt time.Time, now time.Time) int {
	elapsedHours := now.Sub(committedAt).Hours()
	return int(math.Floor(elapsedHours / hoursPerDayConstant))
}
