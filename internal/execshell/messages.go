package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	gitConfigurationOptionFlagConstant      = "-c"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitAbbrevRefFlagConstant          = "--abbrev-ref"
	gitHeadReferenceConstant          = "HEAD"
	gitUpstreamSuffixConstant         = "@{u}"
	gitStatusSubcommandNameConstant   = "status"
	gitLogSubcommandNameConstant      = "log"
	gitRevListSubcommandNameConstant  = "rev-list"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitTheirsFlagConstant             = "--theirs"
	gitBranchSubcommandNameConstant   = "branch"
	gitSetUpstreamFlagPrefixConstant  = "--set-upstream-to="
	gitFetchSubcommandNameConstant    = "fetch"
	gitMergeSubcommandNameConstant    = "merge"
	gitPullSubcommandNameConstant     = "pull"
	gitLSRemoteSubcommandNameConstant = "ls-remote"
	gitAddSubcommandNameConstant      = "add"
	gitCommitSubcommandNameConstant   = "commit"
	gitAmendFlagConstant              = "--amend"
	gitMessageFlagConstant            = "-m"
	gitConfigSubcommandNameConstant   = "config"
	gitVersionFlagConstant            = "--version"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	currentBranchTemplates = stageTemplates{
		start:            "Identifying current branch in %s",
		success:          "Identified current branch in %s",
		failure:          "Failed to identify current branch in %s (exit code %d%s)",
		executionFailure: "Unable to identify current branch in %s: %s",
	}
	upstreamTemplates = stageTemplates{
		start:            "Checking upstream of %s",
		success:          "Upstream of %s is configured",
		failure:          "No upstream configured for %s (exit code %d%s)",
		executionFailure: "Unable to check upstream of %s: %s",
	}
	statusTemplates = stageTemplates{
		start:            "Reviewing working tree status in %s",
		success:          "Collected working tree status for %s",
		failure:          "Failed to review working tree status in %s (exit code %d%s)",
		executionFailure: "Unable to review working tree status in %s: %s",
	}
	historyTemplates = stageTemplates{
		start:            "Reading commit history in %s",
		success:          "Read commit history in %s",
		failure:          "Failed to read commit history in %s (exit code %d%s)",
		executionFailure: "Unable to read commit history in %s: %s",
	}
	fetchTemplates = stageTemplates{
		start:            "Fetching %s",
		success:          "Fetched %s",
		failure:          "Failed to fetch %s (exit code %d%s)",
		executionFailure: "Unable to fetch %s: %s",
	}
	checkoutTemplates = stageTemplates{
		start:            "Switching %s",
		success:          "Switched %s",
		failure:          "Failed to switch %s (exit code %d%s)",
		executionFailure: "Unable to switch %s: %s",
	}
	resolveTheirsTemplates = stageTemplates{
		start:            "Resolving conflicts with incoming changes in %s",
		success:          "Resolved conflicts with incoming changes in %s",
		failure:          "Failed to resolve conflicts in %s (exit code %d%s)",
		executionFailure: "Unable to resolve conflicts in %s: %s",
	}
	upstreamUpdateTemplates = stageTemplates{
		start:            "Configuring upstream %s",
		success:          "Configured upstream %s",
		failure:          "Failed to configure upstream %s (exit code %d%s)",
		executionFailure: "Unable to configure upstream %s: %s",
	}
	mergeTemplates = stageTemplates{
		start:            "Merging %s",
		success:          "Merged %s",
		failure:          "Failed to merge %s (exit code %d%s)",
		executionFailure: "Unable to merge %s: %s",
	}
	pullTemplates = stageTemplates{
		start:            "Pulling %s",
		success:          "Pulled %s",
		failure:          "Failed to pull %s (exit code %d%s)",
		executionFailure: "Unable to pull %s: %s",
	}
	lsRemoteTemplates = stageTemplates{
		start:            "Querying remote references %s",
		success:          "Queried remote references %s",
		failure:          "Failed to query remote references %s (exit code %d%s)",
		executionFailure: "Unable to query remote references %s: %s",
	}
	addTemplates = stageTemplates{
		start:            "Staging %s",
		success:          "Staged %s",
		failure:          "Failed to stage %s (exit code %d%s)",
		executionFailure: "Unable to stage %s: %s",
	}
	commitTemplates = stageTemplates{
		start:            "Creating commit %s",
		success:          "Created commit %s",
		failure:          "Failed to create commit %s (exit code %d%s)",
		executionFailure: "Unable to create commit %s: %s",
	}
	amendTemplates = stageTemplates{
		start:            "Amending last commit %s",
		success:          "Amended last commit %s",
		failure:          "Failed to amend last commit %s (exit code %d%s)",
		executionFailure: "Unable to amend last commit %s: %s",
	}
	configTemplates = stageTemplates{
		start:            "Reading git configuration %s",
		success:          "Read git configuration %s",
		failure:          "Git configuration %s unavailable (exit code %d%s)",
		executionFailure: "Unable to access git configuration %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	templates, subject, described := formatter.describeGitCommand(command)
	if !described {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

// describeGitCommand selects the templates and the message subject for a git invocation.
func (formatter CommandMessageFormatter) describeGitCommand(command ShellCommand) (stageTemplates, string, bool) {
	arguments := StripGlobalGitOptions(command.Details.Arguments)
	if len(arguments) == 0 {
		return stageTemplates{}, emptyStringConstant, false
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	subcommand := strings.TrimSpace(arguments[0])
	subcommandArguments := arguments[1:]

	switch subcommand {
	case gitRevParseSubcommandNameConstant:
		if !containsArgument(subcommandArguments, gitAbbrevRefFlagConstant) {
			return stageTemplates{}, emptyStringConstant, false
		}
		reference := formatter.extractFirstNonFlagArgument(subcommandArguments)
		if strings.HasSuffix(reference, gitUpstreamSuffixConstant) {
			return upstreamTemplates, fmt.Sprintf("%s in %s", strings.TrimSuffix(reference, gitUpstreamSuffixConstant), workingDirectory), true
		}
		if reference == gitHeadReferenceConstant {
			return currentBranchTemplates, workingDirectory, true
		}
		return stageTemplates{}, emptyStringConstant, false
	case gitStatusSubcommandNameConstant:
		return statusTemplates, workingDirectory, true
	case gitLogSubcommandNameConstant, gitRevListSubcommandNameConstant:
		return historyTemplates, workingDirectory, true
	case gitFetchSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(subcommandArguments)
		if len(remoteName) == 0 {
			return fetchTemplates, fmt.Sprintf("from all remotes in %s", workingDirectory), true
		}
		if len(references) == 0 {
			return fetchTemplates, fmt.Sprintf("from %s in %s", remoteName, workingDirectory), true
		}
		return fetchTemplates, fmt.Sprintf("%s from %s in %s", strings.Join(references, ", "), remoteName, workingDirectory), true
	case gitCheckoutSubcommandNameConstant:
		if containsArgument(subcommandArguments, gitTheirsFlagConstant) {
			return resolveTheirsTemplates, workingDirectory, true
		}
		branchName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(subcommandArguments))
		return checkoutTemplates, fmt.Sprintf("%s to branch %s", workingDirectory, branchName), true
	case gitBranchSubcommandNameConstant:
		upstream := formatter.extractPrefixedValue(subcommandArguments, gitSetUpstreamFlagPrefixConstant)
		if len(upstream) == 0 {
			return stageTemplates{}, emptyStringConstant, false
		}
		branchName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(subcommandArguments))
		return upstreamUpdateTemplates, fmt.Sprintf("%s for %s in %s", upstream, branchName, workingDirectory), true
	case gitMergeSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(subcommandArguments))
		return mergeTemplates, fmt.Sprintf("%s in %s", branchName, workingDirectory), true
	case gitPullSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(subcommandArguments)
		if len(remoteName) == 0 || len(references) == 0 {
			return pullTemplates, workingDirectory, true
		}
		return pullTemplates, fmt.Sprintf("%s from %s in %s", strings.Join(references, ", "), remoteName, workingDirectory), true
	case gitLSRemoteSubcommandNameConstant:
		return lsRemoteTemplates, fmt.Sprintf("from %s", workingDirectory), true
	case gitAddSubcommandNameConstant:
		pathSpec := formatter.ensureValue(formatter.extractFirstNonFlagArgument(subcommandArguments))
		return addTemplates, fmt.Sprintf("%s in %s", pathSpec, workingDirectory), true
	case gitCommitSubcommandNameConstant:
		message := formatter.extractCommitMessage(subcommandArguments)
		if containsArgument(subcommandArguments, gitAmendFlagConstant) {
			return amendTemplates, fmt.Sprintf("in %s with message %q", workingDirectory, message), true
		}
		return commitTemplates, fmt.Sprintf("in %s with message %q", workingDirectory, message), true
	case gitConfigSubcommandNameConstant:
		key := formatter.ensureValue(formatter.extractFirstNonFlagArgument(subcommandArguments))
		return configTemplates, key, true
	default:
		return stageTemplates{}, emptyStringConstant, false
	}
}

// StripGlobalGitOptions removes leading git options such as "-c key=value" and
// "--no-optional-locks" so the subcommand becomes the first argument. A lone
// "--version" is kept.
func StripGlobalGitOptions(arguments []string) []string {
	index := 0
	for index < len(arguments) {
		argument := strings.TrimSpace(arguments[index])
		if argument == gitConfigurationOptionFlagConstant {
			index += 2
			continue
		}
		if argument == gitVersionFlagConstant {
			break
		}
		if strings.HasPrefix(argument, flagPrefixConstant) {
			index++
			continue
		}
		break
	}
	if index >= len(arguments) {
		return []string{}
	}
	return arguments[index:]
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remoteName, references
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	skipNext := false
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if skipNext {
			skipNext = false
			continue
		}
		if trimmed == gitMessageFlagConstant {
			skipNext = true
			continue
		}
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractPrefixedValue(arguments []string, prefix string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimPrefix(trimmed, prefix)
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}
