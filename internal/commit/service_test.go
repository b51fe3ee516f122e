package commit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/aiclient"
	"github.com/temirov/wgit/internal/commitmsg"
	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/prompt/prompttest"
	"github.com/temirov/wgit/internal/ui"
)

const statusCommandConstant = "status --porcelain"

type sequenceCompleter struct {
	replies []string
	prompts []string
	err     error
}

func (completer *sequenceCompleter) Complete(_ context.Context, promptText string) (string, error) {
	completer.prompts = append(completer.prompts, promptText)
	if completer.err != nil {
		return "", completer.err
	}
	reply := completer.replies[0]
	if len(completer.replies) > 1 {
		completer.replies = completer.replies[1:]
	}
	return reply, nil
}

func generatorFactoryFor(completer aiclient.Completer) GeneratorFactory {
	return func(config.AISettings) (*aiclient.Generator, error) {
		return aiclient.NewGenerator(completer)
	}
}

func defaultOptions() Options {
	configuration := config.DefaultConfiguration()
	return Options{Settings: configuration.Commit, AI: configuration.AI}
}

func newTestService(testInstance *testing.T, executor *gitrepotest.ScriptedExecutor, prompter prompt.Prompter, completer aiclient.Completer) (*Service, *bytes.Buffer) {
	testInstance.Helper()
	var output bytes.Buffer
	dependencies := ServiceDependencies{
		GitExecutor: executor,
		Prompter:    prompter,
		Renderer:    ui.NewRenderer(&output, ui.NewPalette(false)),
	}
	if completer != nil {
		dependencies.GeneratorFactory = generatorFactoryFor(completer)
	}
	service, serviceError := NewService(dependencies)
	require.NoError(testInstance, serviceError)
	return service, &output
}

func TestCommitWithoutChangesPerformsNoMutation(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(""))
	prompter := prompttest.NewScriptedPrompter()
	service, output := newTestService(testInstance, executor, prompter, nil)

	result, commitError := service.Commit(context.Background(), defaultOptions())

	require.NoError(testInstance, commitError)
	require.True(testInstance, result.NothingToCommit)
	require.Equal(testInstance, []string{statusCommandConstant}, executor.Commands())
	require.Empty(testInstance, prompter.Messages)
	require.Contains(testInstance, output.String(), "No changes to commit")
}

func TestCommitDirectMessage(testInstance *testing.T) {
	testCases := []struct {
		name             string
		status           string
		options          func(Options) Options
		expectedCommands []string
	}{
		{
			name:   "conventional_message_stages_everything",
			status: " M api.go\n",
			options: func(options Options) Options {
				options.Type = "feat"
				options.Scope = "api"
				options.Message = "add endpoint"
				return options
			},
			expectedCommands: []string{statusCommandConstant, "add -A", "commit -m feat(api): add endpoint"},
		},
		{
			name:   "plain_message_keeps_index",
			status: "M  api.go\n M other.go\n",
			options: func(options Options) Options {
				options.Message = "tidy up"
				return options
			},
			expectedCommands: []string{statusCommandConstant, "commit -m tidy up"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(testCase.status))
			prompter := prompttest.NewScriptedPrompter()
			service, _ := newTestService(testInstance, executor, prompter, nil)

			_, commitError := service.Commit(context.Background(), testCase.options(defaultOptions()))

			require.NoError(testInstance, commitError)
			require.Equal(testInstance, testCase.expectedCommands, executor.Commands())
			require.Empty(testInstance, prompter.Messages)
		})
	}
}

func TestCommitInteractiveBuildsConventionalMessage(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M null.go\n"))
	prompter := prompttest.NewScriptedPrompter(
		prompttest.Choose("fix"),
		prompttest.Choose(""),
		prompttest.Choose("null check"),
		prompttest.Yes(),
		prompttest.Choose("changes return type"),
	)
	service, _ := newTestService(testInstance, executor, prompter, nil)
	options := defaultOptions()
	options.DisableAI = true

	result, commitError := service.Commit(context.Background(), options)

	require.NoError(testInstance, commitError)
	expectedMessage := "fix: null check\n\nBREAKING CHANGE: changes return type"
	require.Equal(testInstance, []string{expectedMessage}, result.Messages)
	require.Equal(testInstance, []string{statusCommandConstant, "add -A", "commit -m " + expectedMessage}, executor.Commands())
	require.Zero(testInstance, prompter.Remaining())
}

func TestCommitInteractiveRejectsLongSubject(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M a.go\n"))
	prompter := prompttest.NewScriptedPrompter(
		prompttest.Choose("feat"),
		prompttest.Choose("ui"),
		prompttest.Choose("this subject is far too long"),
	)
	service, _ := newTestService(testInstance, executor, prompter, nil)
	options := defaultOptions()
	options.DisableAI = true
	options.Settings.MaxSubjectLength = 10

	_, commitError := service.Commit(context.Background(), options)

	require.Error(testInstance, commitError)
	require.Equal(testInstance, []string{statusCommandConstant}, executor.Commands())
}

func TestCommitAIGenerateReviewLoop(testInstance *testing.T) {
	testCases := []struct {
		name            string
		answers         []prompttest.Answer
		replies         []string
		expectedMessage string
		expectedPrompts int
	}{
		{
			name:            "accept_first_suggestion",
			answers:         []prompttest.Answer{prompttest.Choose(reviewCommitValueConstant)},
			replies:         []string{"feat: generated\n"},
			expectedMessage: "feat: generated",
			expectedPrompts: 1,
		},
		{
			name: "regenerate_then_edit",
			answers: []prompttest.Answer{
				prompttest.Choose(reviewRegenerateValueConstant),
				prompttest.Choose(reviewEditValueConstant),
				prompttest.Choose("feat: edited"),
			},
			replies:         []string{"feat: first", "feat: second"},
			expectedMessage: "feat: edited",
			expectedPrompts: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().
				Script(statusCommandConstant, gitrepotest.Output(" M a.go\n?? b.go\n")).
				Script("diff", gitrepotest.Output("diff --git a/a.go b/a.go\n"))
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			completer := &sequenceCompleter{replies: testCase.replies}
			service, _ := newTestService(testInstance, executor, prompter, completer)
			options := defaultOptions()
			options.UseAI = true

			result, commitError := service.Commit(context.Background(), options)

			require.NoError(testInstance, commitError)
			require.Equal(testInstance, []string{testCase.expectedMessage}, result.Messages)
			require.Len(testInstance, completer.prompts, testCase.expectedPrompts)
			require.Contains(testInstance, completer.prompts[0], "diff --git a/a.go b/a.go")
			require.Contains(testInstance, completer.prompts[0], "New file: b.go")
			require.Equal(testInstance, []string{statusCommandConstant, "diff", "add -A", "commit -m " + testCase.expectedMessage}, executor.Commands())
		})
	}
}

func TestCommitPromptEnhance(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output("M  a.go\n"))
	prompter := prompttest.NewScriptedPrompter(prompttest.Choose("made login faster"), prompttest.Choose(reviewCommitValueConstant))
	completer := &sequenceCompleter{replies: []string{"perf(auth): speed up login"}}
	service, _ := newTestService(testInstance, executor, prompter, completer)
	options := defaultOptions()
	options.Mode = string(ModePromptEnhance)

	result, commitError := service.Commit(context.Background(), options)

	require.NoError(testInstance, commitError)
	require.Equal(testInstance, []string{"perf(auth): speed up login"}, result.Messages)
	require.Contains(testInstance, completer.prompts[0], "made login faster")
	require.Equal(testInstance, []string{statusCommandConstant, "commit -m perf(auth): speed up login"}, executor.Commands())
}

func TestCommitCancellationHasNoSideEffects(testInstance *testing.T) {
	testCases := []struct {
		name    string
		options func(Options) Options
		answers []prompttest.Answer
	}{
		{
			name:    "cancel_mode_selection",
			options: func(options Options) Options { return options },
			answers: []prompttest.Answer{prompttest.Cancel()},
		},
		{
			name: "cancel_review",
			options: func(options Options) Options {
				options.UseAI = true
				return options
			},
			answers: []prompttest.Answer{prompttest.Choose(reviewCancelValueConstant)},
		},
		{
			name: "decline_auto_commit_plan",
			options: func(options Options) Options {
				options.Mode = string(ModeAutoCommit)
				return options
			},
			answers: []prompttest.Answer{prompttest.No()},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M a.go\n"))
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, output := newTestService(testInstance, executor, prompter, &sequenceCompleter{replies: []string{"feat: x"}})

			result, commitError := service.Commit(context.Background(), testCase.options(defaultOptions()))

			require.NoError(testInstance, commitError)
			require.True(testInstance, result.Cancelled)
			require.False(testInstance, executor.Ran("add -A"))
			for _, command := range executor.Commands() {
				require.NotContains(testInstance, command, "commit")
			}
			require.Contains(testInstance, output.String(), "Commit cancelled")
		})
	}
}

func TestCommitAutoCommitGroupsSequentially(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().
		Script(statusCommandConstant, gitrepotest.Output("A  new.ts\n M old.ts\n D gone.ts\n"))
	prompter := prompttest.NewScriptedPrompter(prompttest.Yes())
	completer := &sequenceCompleter{replies: []string{"feat: add new", "fix: repair old", "chore: drop gone"}}
	service, _ := newTestService(testInstance, executor, prompter, completer)
	options := defaultOptions()
	options.Mode = string(ModeAutoCommit)

	result, commitError := service.Commit(context.Background(), options)

	require.NoError(testInstance, commitError)
	require.Equal(testInstance, []string{"feat: add new", "fix: repair old", "chore: drop gone"}, result.Messages)
	require.Equal(testInstance, []string{
		statusCommandConstant,
		"add -A -- new.ts", "diff --cached -- new.ts", "commit -m feat: add new -- new.ts",
		"add -A -- old.ts", "diff --cached -- old.ts", "commit -m fix: repair old -- old.ts",
		"add -A -- gone.ts", "diff --cached -- gone.ts", "commit -m chore: drop gone -- gone.ts",
	}, executor.Commands())
}

func TestCommitAutoCommitStopsAtFirstFailure(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().
		Script(statusCommandConstant, gitrepotest.Output("A  new.ts\n M old.ts\n D gone.ts\n")).
		Script("commit -m fix: repair old -- old.ts", gitrepotest.Failure(1, "hook rejected"))
	prompter := prompttest.NewScriptedPrompter(prompttest.Yes())
	completer := &sequenceCompleter{replies: []string{"feat: add new", "fix: repair old", "chore: drop gone"}}
	service, _ := newTestService(testInstance, executor, prompter, completer)
	options := defaultOptions()
	options.Mode = string(ModeAutoCommit)

	result, commitError := service.Commit(context.Background(), options)

	require.Error(testInstance, commitError)
	require.Contains(testInstance, commitError.Error(), "fix group (2 of 3)")
	require.Equal(testInstance, []string{"feat: add new"}, result.Messages)
	require.False(testInstance, executor.Ran("add -A -- gone.ts"))
	require.False(testInstance, executor.Ran("reset"))
}

func TestCommitCherryPickCommitsSelectedPaths(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M a.go\n M b.go\n?? c.go\n"))
	prompter := prompttest.NewScriptedPrompter(
		prompttest.ChooseMany("a.go", "c.go"),
		prompttest.Choose("feat"),
		prompttest.Choose(""),
		prompttest.Choose("pick files"),
		prompttest.No(),
	)
	service, _ := newTestService(testInstance, executor, prompter, nil)
	options := defaultOptions()
	options.Mode = string(ModeCherryPick)
	options.DisableAI = true

	result, commitError := service.Commit(context.Background(), options)

	require.NoError(testInstance, commitError)
	require.Equal(testInstance, []string{"feat: pick files"}, result.Messages)
	require.Equal(testInstance, []string{statusCommandConstant, "add -A -- a.go c.go", "commit -m feat: pick files -- a.go c.go"}, executor.Commands())
}

func TestCommitKeepsBothSidesOfRename(testInstance *testing.T) {
	testCases := []struct {
		name             string
		mode             Mode
		prompter         *prompttest.ScriptedPrompter
		expectedCommands []string
	}{
		{
			name:     "auto_commit_refactor_group",
			mode:     ModeAutoCommit,
			prompter: prompttest.NewScriptedPrompter(prompttest.Yes()),
			expectedCommands: []string{
				statusCommandConstant,
				"add -A -- new.go old.go", "diff --cached -- new.go old.go", "commit -m refactor: rename -- new.go old.go",
			},
		},
		{
			name: "cherry_pick_selected_rename",
			mode: ModeCherryPick,
			prompter: prompttest.NewScriptedPrompter(
				prompttest.ChooseMany("new.go"),
				prompttest.Choose("refactor"),
				prompttest.Choose(""),
				prompttest.Choose("rename"),
				prompttest.No(),
			),
			expectedCommands: []string{
				statusCommandConstant,
				"add -A -- new.go old.go", "commit -m refactor: rename -- new.go old.go",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output("R  old.go -> new.go\n"))
			completer := &sequenceCompleter{replies: []string{"refactor: rename"}}
			service, _ := newTestService(testInstance, executor, testCase.prompter, completer)
			options := defaultOptions()
			options.Mode = string(testCase.mode)
			options.DisableAI = testCase.mode == ModeCherryPick

			result, commitError := service.Commit(context.Background(), options)

			require.NoError(testInstance, commitError)
			require.Equal(testInstance, []string{"refactor: rename"}, result.Messages)
			require.Equal(testInstance, testCase.expectedCommands, executor.Commands())
		})
	}
}

func TestCommitRejectsInvalidFlagCombinations(testInstance *testing.T) {
	testCases := []struct {
		name        string
		options     func(Options) Options
		expectedErr error
	}{
		{
			name: "scope_without_type",
			options: func(options Options) Options {
				options.Message = "add endpoint"
				options.Scope = "api"
				return options
			},
			expectedErr: ErrTypeRequired,
		},
		{
			name: "breaking_without_type",
			options: func(options Options) Options {
				options.Message = "drop endpoint"
				options.Breaking = true
				return options
			},
			expectedErr: ErrTypeRequired,
		},
		{
			name: "unknown_type",
			options: func(options Options) Options {
				options.Message = "add endpoint"
				options.Type = "feature"
				return options
			},
			expectedErr: commitmsg.ErrUnknownType,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M api.go\n"))
			prompter := prompttest.NewScriptedPrompter()
			service, _ := newTestService(testInstance, executor, prompter, nil)

			_, commitError := service.Commit(context.Background(), testCase.options(defaultOptions()))

			require.ErrorIs(testInstance, commitError, testCase.expectedErr)
			require.Empty(testInstance, executor.Commands())
		})
	}
}

func TestCommitUnsupportedProviderFailsBeforeMutation(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M a.go\n"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(), nil)
	options := defaultOptions()
	options.UseAI = true
	options.AI.Provider = "bogus"

	_, commitError := service.Commit(context.Background(), options)

	require.True(testInstance, errors.Is(commitError, aiclient.ErrUnsupportedProvider))
	require.Equal(testInstance, []string{statusCommandConstant}, executor.Commands())
}

func TestCommitProviderErrorPropagates(testInstance *testing.T) {
	providerError := errors.New("network down")
	executor := gitrepotest.NewScriptedExecutor().Script(statusCommandConstant, gitrepotest.Output(" M a.go\n"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(), &sequenceCompleter{err: providerError})
	options := defaultOptions()
	options.UseAI = true

	_, commitError := service.Commit(context.Background(), options)

	require.ErrorIs(testInstance, commitError, providerError)
	require.False(testInstance, executor.Ran("add -A"))
}
