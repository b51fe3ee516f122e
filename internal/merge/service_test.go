package merge

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt/prompttest"
	"github.com/temirov/wgit/internal/ui"
)

const (
	currentBranchCommandConstant = "rev-parse --abbrev-ref HEAD"
	branchesCommandConstant      = "branch --list --all"
	statusCommandConstant        = "status --porcelain"
)

func newScriptedExecutor() *gitrepotest.ScriptedExecutor {
	return gitrepotest.NewScriptedExecutor().
		Script(currentBranchCommandConstant, gitrepotest.Output("main\n")).
		Script(branchesCommandConstant, gitrepotest.Output("* main\n  feature\n  remotes/origin/main\n  remotes/origin/release\n"))
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

func TestMerge(testInstance *testing.T) {
	testCases := []struct {
		name            string
		options         Options
		answers         []prompttest.Answer
		expectedCommand string
		expectedOutput  string
	}{
		{
			name:            "explicit_branch",
			options:         Options{Branch: "feature"},
			expectedCommand: "merge feature",
			expectedOutput:  "Merged feature into main",
		},
		{
			name:            "no_fast_forward",
			options:         Options{Branch: "feature", NoFastForward: true},
			expectedCommand: "merge --no-ff feature",
			expectedOutput:  "Merged feature into main",
		},
		{
			name:            "squash",
			options:         Options{Branch: "feature", Squash: true},
			expectedCommand: "merge --squash feature",
			expectedOutput:  "Squashed feature into the index",
		},
		{
			name:            "selected_branch_and_strategy",
			answers:         []prompttest.Answer{prompttest.Choose("origin/release"), prompttest.Choose(strategyNoFastForwardValueConstant)},
			expectedCommand: "merge --no-ff origin/release",
			expectedOutput:  "Merged origin/release into main",
		},
		{
			name:            "selected_branch_keeps_flag_strategy",
			options:         Options{Squash: true},
			answers:         []prompttest.Answer{prompttest.Choose("feature")},
			expectedCommand: "merge --squash feature",
			expectedOutput:  "Squashed feature",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedExecutor()
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, output := newTestService(testInstance, executor, prompter)

			_, mergeError := service.Merge(context.Background(), testCase.options)
			require.NoError(testInstance, mergeError)
			require.True(testInstance, executor.Ran(testCase.expectedCommand))
			require.Contains(testInstance, output.String(), testCase.expectedOutput)
			require.Zero(testInstance, prompter.Remaining())
		})
	}
}

func TestMergeSelectionExcludesCurrentBranch(testInstance *testing.T) {
	executor := newScriptedExecutor()
	prompter := prompttest.NewScriptedPrompter(prompttest.Cancel())
	service, _ := newTestService(testInstance, executor, prompter)

	_, mergeError := service.Merge(context.Background(), Options{})
	require.Error(testInstance, mergeError)

	offered := make([]string, 0)
	for _, option := range prompter.Options[0] {
		offered = append(offered, option.Value)
	}
	require.Equal(testInstance, []string{"feature", "origin/main", "origin/release"}, offered)
	require.Equal(testInstance, "Merge which branch into main?", prompter.Messages[0])
}

func TestMergeListsConflicts(testInstance *testing.T) {
	executor := newScriptedExecutor().
		Script("merge feature", gitrepotest.Failure(1, "CONFLICT (content): Merge conflict in a.go")).
		Script(statusCommandConstant, gitrepotest.Output("UU a.go\nAA b.go\nM  c.go\n"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	result, mergeError := service.Merge(context.Background(), Options{Branch: "feature"})
	require.ErrorIs(testInstance, mergeError, ErrMergeConflicts)
	require.Equal(testInstance, []string{"a.go", "b.go"}, result.Conflicts)
	require.Contains(testInstance, output.String(), "Conflicts\n  a.go\n  b.go\n")
	require.Contains(testInstance, output.String(), "merge --abort")
}

func TestMergeFailureWithoutConflicts(testInstance *testing.T) {
	executor := newScriptedExecutor().Script("merge feature", gitrepotest.Failure(128, "merge: feature - not something we can merge"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	_, mergeError := service.Merge(context.Background(), Options{Branch: "feature"})
	require.Error(testInstance, mergeError)
	require.NotErrorIs(testInstance, mergeError, ErrMergeConflicts)
	require.ErrorContains(testInstance, mergeError, "failed to merge feature")
}

func TestMergeAbort(testInstance *testing.T) {
	executor := newScriptedExecutor()
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	_, mergeError := service.Merge(context.Background(), Options{Abort: true})
	require.NoError(testInstance, mergeError)
	require.Equal(testInstance, []string{"merge --abort"}, executor.Commands())
	require.Contains(testInstance, output.String(), "Merge aborted")
}

func TestMergeRejectsConflictingStrategies(testInstance *testing.T) {
	executor := newScriptedExecutor()
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	_, mergeError := service.Merge(context.Background(), Options{Branch: "feature", NoFastForward: true, Squash: true})
	require.ErrorIs(testInstance, mergeError, ErrConflictingStrategy)
	require.Empty(testInstance, executor.Commands())
}
