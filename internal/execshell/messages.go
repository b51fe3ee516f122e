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
	genericStartTemplateConstant             = "Running %s"
	genericSuccessTemplateConstant           = "Completed %s"
	genericFailureTemplateConstant           = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant  = "%s failed: %s"
	activityStartTemplateConstant            = "%s in %s"
	activitySuccessTemplateConstant          = "%s in %s"
	activityFailureTemplateConstant          = "Failed to %s in %s (exit code %d%s)"
	activityExecutionFailureTemplateConstant = "Unable to %s in %s: %s"
	commandLabelTemplateConstant             = "%s%s"
	commandWithArgumentsTemplateConstant     = "%s %s"
	workingDirectorySuffixTemplateConstant   = " (in %s)"
	commandArgumentsJoinSeparatorConstant    = " "
	referencesJoinSeparatorConstant          = ", "
	standardErrorSuffixTemplateConstant      = ": %s"
	unknownFailureMessageConstant            = "unknown error"
	emptyStringConstant                      = ""
	defaultWorkingDirectoryLabelConstant     = "current directory"
	fallbackUnknownValueLabelConstant        = "unknown"
	flagPrefixConstant                       = "-"
)

const (
	gitStatusSubcommandNameConstant    = "status"
	gitAddSubcommandNameConstant       = "add"
	gitRestoreSubcommandNameConstant   = "restore"
	gitCommitSubcommandNameConstant    = "commit"
	gitGrepSubcommandNameConstant      = "grep"
	gitLogSubcommandNameConstant       = "log"
	gitDiffSubcommandNameConstant      = "diff"
	gitBranchSubcommandNameConstant    = "branch"
	gitSwitchSubcommandNameConstant    = "switch"
	gitMergeSubcommandNameConstant     = "merge"
	gitResetSubcommandNameConstant     = "reset"
	gitRevertSubcommandNameConstant    = "revert"
	gitRebaseSubcommandNameConstant    = "rebase"
	gitRemoteSubcommandNameConstant    = "remote"
	gitFetchSubcommandNameConstant     = "fetch"
	gitPushSubcommandNameConstant      = "push"
	gitPullSubcommandNameConstant      = "pull"
	gitTagSubcommandNameConstant       = "tag"
	gitDescribeSubcommandNameConstant  = "describe"
	gitCleanSubcommandNameConstant     = "clean"
	gitWorktreeSubcommandNameConstant  = "worktree"
	gitSubmoduleSubcommandNameConstant = "submodule"
	gitInitSubcommandNameConstant      = "init"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitRevListSubcommandNameConstant   = "rev-list"
	gitMessageFlagConstant             = "-m"
	gitAllRemotesLabelConstant         = "all remotes"
	gitDefaultRemoteLabelConstant      = "the configured remote"
)

const (
	gitFetchStartTemplateConstant              = "Fetching %s from %s in %s"
	gitFetchWithoutRefsStartTemplateConstant   = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant            = "Fetched %s from %s in %s"
	gitFetchWithoutRefsSuccessTemplateConstant = "Fetched from %s in %s"
	gitFetchActivityTemplateConstant           = "fetch from %s"
	gitPushStartTemplateConstant               = "Pushing %s to %s from %s"
	gitPushWithoutRefsStartTemplateConstant    = "Pushing to %s from %s"
	gitPushSuccessTemplateConstant             = "Pushed %s to %s from %s"
	gitPushWithoutRefsSuccessTemplateConstant  = "Pushed to %s from %s"
	gitPushActivityTemplateConstant            = "push to %s"
	gitPullStartTemplateConstant               = "Pulling from %s into %s"
	gitPullSuccessTemplateConstant             = "Pulled from %s into %s"
	gitPullActivityTemplateConstant            = "pull from %s"
	gitSwitchStartTemplateConstant             = "Switching %s to branch %s"
	gitSwitchSuccessTemplateConstant           = "%s now on branch %s"
	gitSwitchActivityTemplateConstant          = "switch to branch %s"
	gitCommitStartTemplateConstant             = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant           = "Created commit in %s with message %q"
	gitCommitActivityTemplateConstant          = "create commit with message %q"
	gitMergeStartTemplateConstant              = "Merging %s in %s"
	gitMergeSuccessTemplateConstant            = "Merged %s in %s"
	gitMergeActivityTemplateConstant           = "merge %s"
)

// gitActivity holds the phrases describing a git subcommand at each lifecycle stage.
type gitActivity struct {
	started   string
	completed string
	action    string
}

var gitActivities = map[string]gitActivity{
	gitStatusSubcommandNameConstant:    {started: "Reviewing working tree status", completed: "Collected working tree status", action: "review working tree status"},
	gitAddSubcommandNameConstant:       {started: "Staging changes", completed: "Staged changes", action: "stage changes"},
	gitRestoreSubcommandNameConstant:   {started: "Restoring paths", completed: "Restored paths", action: "restore paths"},
	gitGrepSubcommandNameConstant:      {started: "Searching tracked files", completed: "Searched tracked files", action: "search tracked files"},
	gitLogSubcommandNameConstant:       {started: "Reading commit history", completed: "Read commit history", action: "read commit history"},
	gitDiffSubcommandNameConstant:      {started: "Collecting diff", completed: "Collected diff", action: "collect diff"},
	gitBranchSubcommandNameConstant:    {started: "Managing branches", completed: "Updated branches", action: "manage branches"},
	gitResetSubcommandNameConstant:     {started: "Resetting HEAD", completed: "Reset HEAD", action: "reset HEAD"},
	gitRevertSubcommandNameConstant:    {started: "Reverting commit", completed: "Reverted commit", action: "revert commit"},
	gitRebaseSubcommandNameConstant:    {started: "Rebasing branch", completed: "Rebased branch", action: "rebase branch"},
	gitRemoteSubcommandNameConstant:    {started: "Managing remotes", completed: "Updated remotes", action: "manage remotes"},
	gitTagSubcommandNameConstant:       {started: "Managing tags", completed: "Updated tags", action: "manage tags"},
	gitDescribeSubcommandNameConstant:  {started: "Describing HEAD", completed: "Described HEAD", action: "describe HEAD"},
	gitCleanSubcommandNameConstant:     {started: "Cleaning untracked files", completed: "Cleaned untracked files", action: "clean untracked files"},
	gitWorktreeSubcommandNameConstant:  {started: "Managing worktrees", completed: "Updated worktrees", action: "manage worktrees"},
	gitSubmoduleSubcommandNameConstant: {started: "Managing submodules", completed: "Updated submodules", action: "manage submodules"},
	gitInitSubcommandNameConstant:      {started: "Initializing repository", completed: "Initialized repository", action: "initialize repository"},
	gitRevParseSubcommandNameConstant:  {started: "Resolving revision", completed: "Resolved revision", action: "resolve revision"},
	gitRevListSubcommandNameConstant:   {started: "Counting commits", completed: "Counted commits", action: "count commits"},
}

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
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	case gitPullSubcommandNameConstant:
		return formatter.describeGitPullMessage(command, result, failure, stage)
	case gitSwitchSubcommandNameConstant:
		return formatter.describeGitSwitchMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitMergeSubcommandNameConstant:
		return formatter.describeGitMergeMessage(command, result, failure, stage)
	}

	activity, known := gitActivities[subcommand]
	if !known {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(activityStartTemplateConstant, activity.started, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(activitySuccessTemplateConstant, activity.completed, workingDirectory)
	default:
		return formatter.describeActivityFailure(activity.action, workingDirectory, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeActivityFailure(action string, workingDirectory string, result ExecutionResult, failure error, stage messageStage) string {
	if stage == messageStageFailure {
		return fmt.Sprintf(activityFailureTemplateConstant, action, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	}
	return fmt.Sprintf(activityExecutionFailureTemplateConstant, action, workingDirectory, formatter.describeFailure(failure))
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, references := formatter.extractRemoteAndReferences(command.Details.Arguments)
	if len(remoteName) == 0 {
		remoteName = gitAllRemotesLabelConstant
	}
	joinedReferences := strings.Join(references, referencesJoinSeparatorConstant)

	switch stage {
	case messageStageStart:
		if len(references) == 0 {
			return fmt.Sprintf(gitFetchWithoutRefsStartTemplateConstant, remoteName, workingDirectory)
		}
		return fmt.Sprintf(gitFetchStartTemplateConstant, joinedReferences, remoteName, workingDirectory)
	case messageStageSuccess:
		if len(references) == 0 {
			return fmt.Sprintf(gitFetchWithoutRefsSuccessTemplateConstant, remoteName, workingDirectory)
		}
		return fmt.Sprintf(gitFetchSuccessTemplateConstant, joinedReferences, remoteName, workingDirectory)
	default:
		return formatter.describeActivityFailure(fmt.Sprintf(gitFetchActivityTemplateConstant, remoteName), workingDirectory, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, references := formatter.extractRemoteAndReferences(command.Details.Arguments)
	if len(remoteName) == 0 {
		remoteName = gitDefaultRemoteLabelConstant
	}
	joinedReferences := strings.Join(references, referencesJoinSeparatorConstant)

	switch stage {
	case messageStageStart:
		if len(references) == 0 {
			return fmt.Sprintf(gitPushWithoutRefsStartTemplateConstant, remoteName, workingDirectory)
		}
		return fmt.Sprintf(gitPushStartTemplateConstant, joinedReferences, remoteName, workingDirectory)
	case messageStageSuccess:
		if len(references) == 0 {
			return fmt.Sprintf(gitPushWithoutRefsSuccessTemplateConstant, remoteName, workingDirectory)
		}
		return fmt.Sprintf(gitPushSuccessTemplateConstant, joinedReferences, remoteName, workingDirectory)
	default:
		return formatter.describeActivityFailure(fmt.Sprintf(gitPushActivityTemplateConstant, remoteName), workingDirectory, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPullMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, _ := formatter.extractRemoteAndReferences(command.Details.Arguments)
	if len(remoteName) == 0 {
		remoteName = gitDefaultRemoteLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPullStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPullSuccessTemplateConstant, remoteName, workingDirectory)
	default:
		return formatter.describeActivityFailure(fmt.Sprintf(gitPullActivityTemplateConstant, remoteName), workingDirectory, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSwitchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.extractLastNonFlagArgument(command.Details.Arguments[1:]))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitSwitchStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitSwitchSuccessTemplateConstant, workingDirectory, branchName)
	default:
		return formatter.describeActivityFailure(fmt.Sprintf(gitSwitchActivityTemplateConstant, branchName), workingDirectory, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := findFlagValue(command.Details.Arguments, gitMessageFlagConstant)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	default:
		return formatter.describeActivityFailure(fmt.Sprintf(gitCommitActivityTemplateConstant, commitMessage), workingDirectory, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMergeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.extractLastNonFlagArgument(command.Details.Arguments[1:]))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMergeStartTemplateConstant, branchName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitMergeSuccessTemplateConstant, branchName, workingDirectory)
	default:
		return formatter.describeActivityFailure(fmt.Sprintf(gitMergeActivityTemplateConstant, branchName), workingDirectory, result, failure, stage)
	}
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
		commandLabel = fmt.Sprintf(commandWithArgumentsTemplateConstant, commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
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

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

// extractRemoteAndReferences returns the first positional argument after the subcommand as the remote and the rest as references.
func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments[1:] {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmedArgument)
	}
	if len(positional) == 0 {
		return emptyStringConstant, nil
	}
	return positional[0], positional[1:]
}

func (formatter CommandMessageFormatter) extractLastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmedArgument := strings.TrimSpace(arguments[index])
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}
