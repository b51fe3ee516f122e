package history

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt/prompttest"
	"github.com/temirov/wgit/internal/ui"
)

const (
	statusCommandConstant        = "status --porcelain"
	currentBranchCommandConstant = "rev-parse --abbrev-ref HEAD"
	branchesCommandConstant      = "branch --list --all"
)

func logCommand(limit int) string {
	return fmt.Sprintf("log --pretty=format:%s --max-count=%d", gitrepo.LogFormat, limit)
}

func logOutput() string {
	lines := []string{
		strings.Join([]string{"aaaa1111", "aaaa111", "feat: add | pipe", "Ada", "2024-05-01T10:00:00Z"}, "\x1f"),
		strings.Join([]string{"bbbb2222", "bbbb222", "fix: null check", "Bob", "2024-04-30T09:00:00Z"}, "\x1f"),
	}
	return strings.Join(lines, "\n")
}

func newTestService(testInstance *testing.T, executor *gitrepotest.ScriptedExecutor, prompter *prompttest.ScriptedPrompter) (*Service, *bytes.Buffer) {
	testInstance.Helper()
	var output bytes.Buffer
	service, serviceError := NewService(ServiceDependencies{
		GitExecutor: executor,
		Prompter:    prompter,
		Renderer:    ui.NewRenderer(&output, ui.NewPalette(false)),
	})
	require.NoError(testInstance, serviceError)
	return service, &output
}

func TestLog(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(logCommand(5), gitrepotest.Output(logOutput()))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	require.NoError(testInstance, service.Log(context.Background(), 5))
	require.Contains(testInstance, output.String(), "feat: add | pipe")
	require.Contains(testInstance, output.String(), "bbbb222")
	require.Contains(testInstance, output.String(), "2024-05-01 10:00")
}

func TestLogOnEmptyRepository(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(logCommand(5), gitrepotest.Failure(128, "fatal: your current branch 'main' does not have any commits yet"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	require.NoError(testInstance, service.Log(context.Background(), 5))
	require.Contains(testInstance, output.String(), "No commits yet")
}

func TestReset(testInstance *testing.T) {
	testCases := []struct {
		name            string
		options         ResetOptions
		answers         []prompttest.Answer
		expectedCommand string
		expectedOutput  string
	}{
		{
			name:            "soft_explicit",
			options:         ResetOptions{Mode: ResetModeSoft, Target: "HEAD~1"},
			expectedCommand: "reset --soft HEAD~1",
			expectedOutput:  "Reset (soft) to HEAD~1",
		},
		{
			name:            "hard_confirmed",
			options:         ResetOptions{Mode: ResetModeHard, Target: "HEAD~1"},
			answers:         []prompttest.Answer{prompttest.Yes()},
			expectedCommand: "reset --hard HEAD~1",
		},
		{
			name:            "hard_assume_yes",
			options:         ResetOptions{Mode: ResetModeHard, Target: "HEAD~1", AssumeYes: true},
			expectedCommand: "reset --hard HEAD~1",
		},
		{
			name:            "mode_and_target_selected",
			answers:         []prompttest.Answer{prompttest.Choose(string(ResetModeMixed)), prompttest.Choose("bbbb2222")},
			expectedCommand: "reset --mixed bbbb2222",
			expectedOutput:  "Reset (mixed) to bbbb2222",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script(logCommand(selectableCommitCountConstant), gitrepotest.Output(logOutput()))
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, output := newTestService(testInstance, executor, prompter)

			require.NoError(testInstance, service.Reset(context.Background(), testCase.options))
			require.True(testInstance, executor.Ran(testCase.expectedCommand))
			require.Contains(testInstance, output.String(), testCase.expectedOutput)
			require.Zero(testInstance, prompter.Remaining())
		})
	}
}

func TestHardResetDeclinedLeavesRepositoryUntouched(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor()
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(prompttest.No()))

	require.NoError(testInstance, service.Reset(context.Background(), ResetOptions{Mode: ResetModeHard, Target: "HEAD~2"}))
	require.Empty(testInstance, executor.Commands())
	require.Contains(testInstance, output.String(), "Nothing changed")
}

func TestRevert(testInstance *testing.T) {
	testCases := []struct {
		name            string
		options         RevertOptions
		answers         []prompttest.Answer
		expectedCommand string
		expectedOutput  string
	}{
		{
			name:            "explicit",
			options:         RevertOptions{Commit: "abc123"},
			expectedCommand: "revert --no-edit abc123",
			expectedOutput:  "Reverted abc123",
		},
		{
			name:            "no_commit",
			options:         RevertOptions{Commit: "abc123", NoCommit: true},
			expectedCommand: "revert --no-commit abc123",
			expectedOutput:  "Staged the revert of abc123",
		},
		{
			name:            "selected",
			answers:         []prompttest.Answer{prompttest.Choose("aaaa1111")},
			expectedCommand: "revert --no-edit aaaa1111",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script(logCommand(selectableCommitCountConstant), gitrepotest.Output(logOutput()))
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, output := newTestService(testInstance, executor, prompter)

			require.NoError(testInstance, service.Revert(context.Background(), testCase.options))
			require.True(testInstance, executor.Ran(testCase.expectedCommand))
			require.Contains(testInstance, output.String(), testCase.expectedOutput)
		})
	}
}

func TestRevertOffersRecentCommits(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(logCommand(selectableCommitCountConstant), gitrepotest.Output(logOutput()))
	prompter := prompttest.NewScriptedPrompter(prompttest.Cancel())
	service, _ := newTestService(testInstance, executor, prompter)

	require.Error(testInstance, service.Revert(context.Background(), RevertOptions{}))
	require.Len(testInstance, prompter.Options[0], 2)
	require.Equal(testInstance, "aaaa111 feat: add | pipe", prompter.Options[0][0].Label)
	require.Equal(testInstance, "aaaa1111", prompter.Options[0][0].Value)
}

func TestRevertListsConflicts(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().
		Script("revert --no-edit abc123", gitrepotest.Failure(1, "error: could not revert abc123")).
		Script(statusCommandConstant, gitrepotest.Output("UU a.go\n"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	revertError := service.Revert(context.Background(), RevertOptions{Commit: "abc123"})
	require.ErrorIs(testInstance, revertError, ErrConflicts)
	require.Contains(testInstance, output.String(), "Conflicts\n  a.go\n")
}

func TestRebase(testInstance *testing.T) {
	testCases := []struct {
		name             string
		options          RebaseOptions
		answers          []prompttest.Answer
		expectedCommand  string
		expectedOutput   string
		expectNoMutation bool
	}{
		{
			name:            "explicit_assume_yes",
			options:         RebaseOptions{Onto: "main", AssumeYes: true},
			expectedCommand: "rebase main",
			expectedOutput:  "Rebased feature onto main",
		},
		{
			name:            "selected_and_confirmed",
			answers:         []prompttest.Answer{prompttest.Choose("main"), prompttest.Yes()},
			expectedCommand: "rebase main",
		},
		{
			name:             "declined",
			options:          RebaseOptions{Onto: "main"},
			answers:          []prompttest.Answer{prompttest.No()},
			expectedOutput:   "Nothing changed",
			expectNoMutation: true,
		},
		{
			name:            "continue",
			options:         RebaseOptions{Continue: true},
			expectedCommand: "-c core.editor=true rebase --continue",
			expectedOutput:  "Rebase continue done",
		},
		{
			name:            "abort",
			options:         RebaseOptions{Abort: true},
			expectedCommand: "-c core.editor=true rebase --abort",
		},
		{
			name:            "skip",
			options:         RebaseOptions{Skip: true},
			expectedCommand: "-c core.editor=true rebase --skip",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().
				Script(currentBranchCommandConstant, gitrepotest.Output("feature\n")).
				Script(branchesCommandConstant, gitrepotest.Output("  main\n* feature\n"))
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, output := newTestService(testInstance, executor, prompter)

			require.NoError(testInstance, service.Rebase(context.Background(), testCase.options))
			if testCase.expectNoMutation {
				require.False(testInstance, executor.Ran("rebase main"))
			} else {
				require.True(testInstance, executor.Ran(testCase.expectedCommand))
			}
			require.Contains(testInstance, output.String(), testCase.expectedOutput)
			require.Zero(testInstance, prompter.Remaining())
		})
	}
}

func TestRebaseRejectsConflictingSteps(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor()
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	rebaseError := service.Rebase(context.Background(), RebaseOptions{Continue: true, Skip: true})
	require.ErrorIs(testInstance, rebaseError, ErrConflictingRebaseSteps)
	require.Empty(testInstance, executor.Commands())
}

func TestRebaseListsConflicts(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().
		Script(currentBranchCommandConstant, gitrepotest.Output("feature\n")).
		Script("rebase main", gitrepotest.Failure(1, "CONFLICT (content)")).
		Script(statusCommandConstant, gitrepotest.Output("UU a.go\nDU b.go\n"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	rebaseError := service.Rebase(context.Background(), RebaseOptions{Onto: "main", AssumeYes: true})
	require.ErrorIs(testInstance, rebaseError, ErrConflicts)
	require.ErrorContains(testInstance, rebaseError, "2 file(s)")
	require.Contains(testInstance, output.String(), "wgit rebase --continue")
}
