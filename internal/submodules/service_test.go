package submodules

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

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

func TestList(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("submodule status", gitrepotest.Output(
		" 1234567890abcdef vendor/lib (v1.2.0)\n-fedcba0987654321 vendor/tool\n",
	))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	require.NoError(testInstance, service.List(context.Background()))
	require.Contains(testInstance, output.String(), "vendor/lib")
	require.Contains(testInstance, output.String(), "12345678")
	require.Contains(testInstance, output.String(), "uninitialized")
	require.Contains(testInstance, output.String(), "v1.2.0")
}

func TestListWithoutSubmodules(testInstance *testing.T) {
	service, output := newTestService(testInstance, gitrepotest.NewScriptedExecutor(), prompttest.NewScriptedPrompter())

	require.NoError(testInstance, service.List(context.Background()))
	require.Contains(testInstance, output.String(), "No submodules")
}

func TestAdd(testInstance *testing.T) {
	testCases := []struct {
		name            string
		repositoryURL   string
		path            string
		answers         []prompttest.Answer
		expectedCommand string
	}{
		{
			name:            "explicit_path",
			repositoryURL:   "https://github.com/acme/lib.git",
			path:            "vendor/lib",
			expectedCommand: "submodule add https://github.com/acme/lib.git vendor/lib",
		},
		{
			name:            "derived_path",
			repositoryURL:   "git@github.com:acme/lib.git",
			expectedCommand: "submodule add git@github.com:acme/lib.git lib",
		},
		{
			name:            "prompted_with_default_path",
			answers:         []prompttest.Answer{prompttest.Choose("https://github.com/acme/tool"), prompttest.Choose("")},
			expectedCommand: "submodule add https://github.com/acme/tool tool",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor()
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, _ := newTestService(testInstance, executor, prompter)

			require.NoError(testInstance, service.Add(context.Background(), testCase.repositoryURL, testCase.path))
			require.Equal(testInstance, []string{testCase.expectedCommand}, executor.Commands())
			require.Zero(testInstance, prompter.Remaining())
		})
	}
}

func TestUpdateAndSync(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor()
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	require.NoError(testInstance, service.Update(context.Background()))
	require.NoError(testInstance, service.Sync(context.Background()))
	require.Equal(testInstance, []string{"submodule update --init --recursive", "submodule sync --recursive"}, executor.Commands())
	require.Contains(testInstance, output.String(), "initialized and updated")
}

func TestUpdateFailure(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("submodule update --init --recursive", gitrepotest.Failure(1, "fatal: clone failed"))
	service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter())

	require.ErrorContains(testInstance, service.Update(context.Background()), "failed to update submodules")
}
