package search

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt/prompttest"
	"github.com/temirov/wgit/internal/ui"
)

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

func TestBuildArguments(testInstance *testing.T) {
	testCases := []struct {
		name              string
		options           Options
		expectedArguments []string
	}{
		{
			name:              "plain",
			options:           Options{Term: "foo"},
			expectedArguments: []string{"grep", "-n", "--null", "-e", "foo"},
		},
		{
			name:              "all_flags",
			options:           Options{Term: "foo", IgnoreCase: true, WholeWord: true, Invert: true, ContextLines: 2, Glob: "*.go"},
			expectedArguments: []string{"grep", "-n", "--null", "-i", "-w", "-v", "-C", "2", "-e", "foo", "--", "*.go"},
		},
		{
			name:              "dash_prefixed_term",
			options:           Options{Term: "--verbose", Glob: "  "},
			expectedArguments: []string{"grep", "-n", "--null", "-e", "--verbose"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedArguments, BuildArguments(testCase.options))
		})
	}
}

func TestFindGroupsHitsByFile(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("grep -n --null -e foo", gitrepotest.Output("a.ts\x0010:foo\nnot-a-match\nb.ts\x003:bar foo\na.ts\x0012:foo again\n"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	groups, findError := service.Find(context.Background(), Options{Term: "foo"})
	require.NoError(testInstance, findError)
	require.Equal(testInstance, []gitrepo.FileHits{
		{File: "a.ts", Hits: []gitrepo.SearchHit{{File: "a.ts", Line: 10, Text: "foo"}, {File: "a.ts", Line: 12, Text: "foo again"}}},
		{File: "b.ts", Hits: []gitrepo.SearchHit{{File: "b.ts", Line: 3, Text: "bar foo"}}},
	}, groups)
}

func TestFindKeepsContextLines(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("grep -n --null -C 1 -e foo", gitrepotest.Output("a.go\x001-package a\na.go\x002:foo\na.go\x003-\n--\nb-1-c.go\x009:foo\n"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	groups, findError := service.Find(context.Background(), Options{Term: "foo", ContextLines: 1})
	require.NoError(testInstance, findError)
	require.Len(testInstance, groups, 2)
	require.Equal(testInstance, []gitrepo.SearchHit{
		{File: "a.go", Line: 1, Text: "package a", Context: true},
		{File: "a.go", Line: 2, Text: "foo"},
		{File: "a.go", Line: 3, Text: "", Context: true},
	}, groups[0].Hits)
	require.Equal(testInstance, 1, gitrepo.MatchCount(groups[0].Hits))
	require.Equal(testInstance, "b-1-c.go", groups[1].File)
}

func TestFindTreatsExitOneAsNoMatches(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("grep -n --null -e missing", gitrepotest.Failure(1, ""))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	groups, findError := service.Find(context.Background(), Options{Term: "missing"})
	require.NoError(testInstance, findError)
	require.NotNil(testInstance, groups)
	require.Empty(testInstance, groups)
}

func TestFindSurfacesOtherFailures(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("grep -n --null -e foo", gitrepotest.Failure(128, "fatal: not a git repository"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	_, findError := service.Find(context.Background(), Options{Term: "foo"})
	require.ErrorContains(testInstance, findError, "not a git repository")
}

func TestFindValidatesOptions(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor()
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	_, emptyTermError := service.Find(context.Background(), Options{})
	require.ErrorIs(testInstance, emptyTermError, ErrTermRequired)

	_, negativeContextError := service.Find(context.Background(), Options{Term: "foo", ContextLines: -1})
	require.ErrorIs(testInstance, negativeContextError, ErrNegativeContext)
	require.Empty(testInstance, executor.Commands())
}

func TestSearchRendersResults(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("grep -n --null -e foo", gitrepotest.Output("a.ts\x0010:foo\nb.ts\x003:foo\n"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(prompttest.Choose("foo")))

	require.NoError(testInstance, service.Search(context.Background(), Options{}))
	require.Contains(testInstance, output.String(), "2 matches in 2 files for \"foo\"")
	require.Contains(testInstance, output.String(), "a.ts\n     10 foo\n")
}

func TestSearchReportsNoMatches(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("grep -n --null -e foo", gitrepotest.Failure(1, ""))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	require.NoError(testInstance, service.Search(context.Background(), Options{Term: "foo"}))
	require.Contains(testInstance, output.String(), "No matches for \"foo\"")
}
