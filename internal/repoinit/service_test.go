package repoinit

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt/prompttest"
	"github.com/temirov/wgit/internal/ui"
	pathutils "github.com/temirov/wgit/internal/utils/path"
)

const (
	testWorkingDirectoryConstant = "/work"
	testHomeDirectoryConstant    = "/home/tester"
)

type testHarness struct {
	service    *Service
	executor   *gitrepotest.ScriptedExecutor
	prompter   *prompttest.ScriptedPrompter
	fileSystem afero.Fs
	output     *bytes.Buffer
}

func newTestHarness(testInstance *testing.T, configurationSource string, answers ...prompttest.Answer) testHarness {
	testInstance.Helper()
	harness := testHarness{
		executor:   gitrepotest.NewScriptedExecutor(),
		prompter:   prompttest.NewScriptedPrompter(answers...),
		fileSystem: afero.NewMemMapFs(),
		output:     &bytes.Buffer{},
	}
	service, serviceError := NewService(ServiceDependencies{
		GitExecutor: harness.executor,
		Prompter:    harness.prompter,
		Renderer:    ui.NewRenderer(harness.output, ui.NewPalette(false)),
		FileSystem:  harness.fileSystem,
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return testHomeDirectoryConstant, nil
		}),
		Configuration:       config.DefaultConfiguration(),
		ConfigurationSource: configurationSource,
		WorkingDirectory:    testWorkingDirectoryConstant,
	})
	require.NoError(testInstance, serviceError)
	harness.service = service
	return harness
}

func TestInit(testInstance *testing.T) {
	testCases := []struct {
		name            string
		options         InitOptions
		expectedCommand string
		expectedConfig  string
	}{
		{
			name:            "working_directory",
			expectedCommand: "init /work",
		},
		{
			name:            "relative_directory_with_branch",
			options:         InitOptions{Directory: "app", InitialBranch: "trunk"},
			expectedCommand: "init --initial-branch=trunk /work/app",
		},
		{
			name:            "home_directory_with_config",
			options:         InitOptions{Directory: "~/projects/tool", WithConfig: true},
			expectedCommand: "init /home/tester/projects/tool",
			expectedConfig:  "/home/tester/projects/tool/w-git.config.json",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newTestHarness(testInstance, "")

			require.NoError(testInstance, harness.service.Init(context.Background(), testCase.options))
			require.True(testInstance, harness.executor.Ran(testCase.expectedCommand), harness.executor.Commands())
			require.Contains(testInstance, harness.output.String(), "Initialized repository in")
			if len(testCase.expectedConfig) > 0 {
				exists, existsError := afero.Exists(harness.fileSystem, testCase.expectedConfig)
				require.NoError(testInstance, existsError)
				require.True(testInstance, exists)
			}
		})
	}
}

func TestInitFailure(testInstance *testing.T) {
	harness := newTestHarness(testInstance, "")
	harness.executor.Script("init /work", gitrepotest.Failure(128, "fatal: cannot mkdir"))

	initError := harness.service.Init(context.Background(), InitOptions{WithConfig: true})
	require.Error(testInstance, initError)
	require.Contains(testInstance, initError.Error(), "failed to initialize repository in /work")
	exists, _ := afero.Exists(harness.fileSystem, filepath.Join(testWorkingDirectoryConstant, config.CandidateFileNames[0]))
	require.False(testInstance, exists)
}

func TestShowConfig(testInstance *testing.T) {
	testCases := []struct {
		name            string
		source          string
		expectedHeading string
	}{
		{name: "from_file", source: "/work/w-git.config.json", expectedHeading: "Configuration from /work/w-git.config.json"},
		{name: "defaults", expectedHeading: "Built-in defaults"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newTestHarness(testInstance, testCase.source)

			require.NoError(testInstance, harness.service.ShowConfig())
			require.Contains(testInstance, harness.output.String(), testCase.expectedHeading)
			require.Contains(testInstance, harness.output.String(), "conventionalCommits: true")
			require.Contains(testInstance, harness.output.String(), "tagPrefix: v")
		})
	}
}

func TestInitConfig(testInstance *testing.T) {
	harness := newTestHarness(testInstance, "")

	require.NoError(testInstance, harness.service.InitConfig("", false))
	target := filepath.Join(testWorkingDirectoryConstant, config.CandidateFileNames[0])
	contents, readError := afero.ReadFile(harness.fileSystem, target)
	require.NoError(testInstance, readError)

	var decoded map[string]any
	require.NoError(testInstance, json.Unmarshal(contents, &decoded))
	require.Contains(testInstance, decoded, "commit")
	require.Contains(testInstance, harness.output.String(), "Wrote default configuration to "+target)
}

func TestInitConfigExistingFile(testInstance *testing.T) {
	testCases := []struct {
		name             string
		force            bool
		answers          []prompttest.Answer
		expectOverwrite  bool
		expectedMessage  string
		expectedPrompted int
	}{
		{name: "declined", answers: []prompttest.Answer{prompttest.No()}, expectedMessage: "Kept existing configuration", expectedPrompted: 1},
		{name: "confirmed", answers: []prompttest.Answer{prompttest.Yes()}, expectOverwrite: true, expectedMessage: "Wrote default configuration", expectedPrompted: 1},
		{name: "forced", force: true, expectOverwrite: true, expectedMessage: "Wrote default configuration"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newTestHarness(testInstance, "", testCase.answers...)
			target := "/home/tester/.w-git.config.json"
			require.NoError(testInstance, afero.WriteFile(harness.fileSystem, target, []byte("{}"), 0o644))

			require.NoError(testInstance, harness.service.InitConfig("~/.w-git.config.json", testCase.force))
			contents, readError := afero.ReadFile(harness.fileSystem, target)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectOverwrite, string(contents) != "{}")
			require.Contains(testInstance, harness.output.String(), testCase.expectedMessage)
			require.Len(testInstance, harness.prompter.Messages, testCase.expectedPrompted)
		})
	}
}
