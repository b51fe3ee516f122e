package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterMessages(testInstance *testing.T) {
	testCases := []struct {
		name            string
		command         ShellCommand
		result          ExecutionResult
		failure         error
		stage           messageStage
		expectedMessage string
	}{
		{
			name:            "fetch_with_references",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"fetch", "--prune", "origin", "feature"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Fetching feature from origin in /workspace/repo",
		},
		{
			name:            "fetch_without_remote",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"fetch", "--prune"}, WorkingDirectory: "/workspace/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Fetching from all remotes in /workspace/repo",
		},
		{
			name:            "status_success_without_directory",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"status", "--porcelain"}}},
			stage:           messageStageSuccess,
			expectedMessage: "Collected working tree status in current directory",
		},
		{
			name:            "commit_failure_includes_stderr",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"commit", "-m", "feat: add"}, WorkingDirectory: "/repo"}},
			result:          ExecutionResult{ExitCode: 1, StandardError: "nothing to commit\n"},
			stage:           messageStageFailure,
			expectedMessage: "Failed to create commit with message \"feat: add\" in /repo (exit code 1: nothing to commit)",
		},
		{
			name:            "switch_execution_failure",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"switch", "-c", "topic"}, WorkingDirectory: "/repo"}},
			failure:         errors.New("boom"),
			stage:           messageStageExecutionFailure,
			expectedMessage: "Unable to switch to branch topic in /repo: boom",
		},
		{
			name:            "unknown_subcommand_uses_generic_label",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"stash", "list"}, WorkingDirectory: "/repo"}},
			stage:           messageStageStart,
			expectedMessage: "Running git stash list (in /repo)",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			message := formatter.buildMessage(testCase.command, testCase.result, testCase.failure, testCase.stage)
			require.Equal(testInstance, testCase.expectedMessage, message)
		})
	}
}
