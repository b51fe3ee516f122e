package dependencies

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/execshell"
	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

func TestResolveUsesProvidedCollaborators(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor()
	configuration := config.DefaultConfiguration()
	configuration.Branch.DefaultRemote = "upstream"
	command := &cobra.Command{}
	var output bytes.Buffer
	command.SetOut(&output)

	resolved, resolveError := Resolve(command, Inputs{
		GitExecutor:           executor,
		ConfigurationProvider: func() config.Configuration { return configuration },
		WorkingDirectory:      "/repo",
	})

	require.NoError(testInstance, resolveError)
	require.Same(testInstance, executor, resolved.GitExecutor)
	require.Equal(testInstance, "upstream", resolved.Configuration.Branch.DefaultRemote)
	require.NotNil(testInstance, resolved.Logger)
	require.NotNil(testInstance, resolved.Prompter)
	require.False(testInstance, resolved.Renderer.Palette().Enabled())

	_, runError := resolved.Repository.Run(CommandContext(command), "status")
	require.NoError(testInstance, runError)
	require.Equal(testInstance, "/repo", executor.Calls[0].WorkingDirectory)
}

func TestResolveDefaults(testInstance *testing.T) {
	resolved, resolveError := Resolve(nil, Inputs{})
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, config.DefaultConfiguration(), resolved.Configuration)
	_, isShellExecutor := resolved.GitExecutor.(*execshell.ShellExecutor)
	require.True(testInstance, isShellExecutor)
}

func TestResolveLoggerFallsBackToNop(testInstance *testing.T) {
	require.NotNil(testInstance, ResolveLogger(nil))
	require.NotNil(testInstance, ResolveLogger(func() *zap.Logger { return nil }))
}

func TestFinishCommand(testInstance *testing.T) {
	testCases := []struct {
		name            string
		input           error
		expectError     bool
		expectedWarning string
	}{
		{name: "nil", input: nil},
		{name: "cancelled", input: prompt.ErrCancelled, expectedWarning: "! Operation cancelled\n"},
		{name: "failure", input: errors.New("boom"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var output bytes.Buffer
			finishError := FinishCommand(ui.NewRenderer(&output, ui.NewPalette(false)), testCase.input)
			if testCase.expectError {
				require.ErrorIs(testInstance, finishError, testCase.input)
			} else {
				require.NoError(testInstance, finishError)
			}
			require.Equal(testInstance, testCase.expectedWarning, output.String())
		})
	}
}
