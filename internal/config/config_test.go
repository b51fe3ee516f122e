package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testWorkingDirectoryConstant = "/work/project"
	testHomeDirectoryConstant    = "/home/user"
)

func TestDeepMergeChangesOnlyOverriddenKeys(testInstance *testing.T) {
	defaults := Defaults()
	merged := DeepMerge(defaults, map[string]any{commitKeyConstant: map[string]any{useAIKeyConstant: false}})

	mergedCommit := merged[commitKeyConstant].(map[string]any)
	require.Equal(testInstance, false, mergedCommit[useAIKeyConstant])
	require.Equal(testInstance, true, mergedCommit[conventionalCommitsKeyConstant])
	require.Equal(testInstance, 72, mergedCommit[maxSubjectLengthKeyConstant])
	require.Equal(testInstance, defaults[aiKeyConstant], merged[aiKeyConstant])
	require.Equal(testInstance, defaults[branchKeyConstant], merged[branchKeyConstant])

	require.Equal(testInstance, true, defaults[commitKeyConstant].(map[string]any)[useAIKeyConstant])
}

func TestDeepMergeReplacesNonMapValues(testInstance *testing.T) {
	testCases := []struct {
		name     string
		target   map[string]any
		source   map[string]any
		expected map[string]any
	}{
		{
			name:     "slices_replace",
			target:   map[string]any{"list": []any{"a", "b"}},
			source:   map[string]any{"list": []any{"c"}},
			expected: map[string]any{"list": []any{"c"}},
		},
		{
			name:     "scalar_replaces_map",
			target:   map[string]any{"nested": map[string]any{"key": 1}},
			source:   map[string]any{"nested": "flat"},
			expected: map[string]any{"nested": "flat"},
		},
		{
			name:     "map_replaces_scalar",
			target:   map[string]any{"nested": "flat"},
			source:   map[string]any{"nested": map[string]any{"key": 1}},
			expected: map[string]any{"nested": map[string]any{"key": 1}},
		},
		{
			name:     "new_keys_added",
			target:   map[string]any{"a": 1},
			source:   map[string]any{"b": 2},
			expected: map[string]any{"a": 1, "b": 2},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, DeepMerge(testCase.target, testCase.source))
		})
	}
}

func TestDefaultConfiguration(testInstance *testing.T) {
	configuration := DefaultConfiguration()
	require.True(testInstance, configuration.Commit.ConventionalCommits)
	require.True(testInstance, configuration.Commit.UseAI)
	require.Equal(testInstance, 72, configuration.Commit.MaxSubjectLength)
	require.Equal(testInstance, "openai", configuration.AI.Provider)
	require.Equal(testInstance, 500, configuration.AI.MaxTokens)
	require.Equal(testInstance, []string{"main", "master"}, configuration.Branch.Protected)
	require.Equal(testInstance, "origin", configuration.Branch.DefaultRemote)
	require.Equal(testInstance, "v", configuration.Release.TagPrefix)
	require.True(testInstance, configuration.IsProtectedBranch("master"))
	require.False(testInstance, configuration.IsProtectedBranch("feature"))
}

func TestResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name                string
		files               map[string]string
		expectedSource      string
		expectedScript      bool
		expectedUseAI       bool
		expectedProvider    string
		expectedSubjectSize int
		expectedProtected   []string
	}{
		{
			name:                "defaults_without_files",
			expectedUseAI:       true,
			expectedProvider:    "openai",
			expectedSubjectSize: 72,
			expectedProtected:   []string{"main", "master"},
		},
		{
			name: "working_directory_json",
			files: map[string]string{
				filepath.Join(testWorkingDirectoryConstant, "w-git.config.json"): `{"commit":{"useAI":false,"maxSubjectLength":50},"branch":{"protected":["release"]}}`,
			},
			expectedSource:      filepath.Join(testWorkingDirectoryConstant, "w-git.config.json"),
			expectedUseAI:       false,
			expectedProvider:    "openai",
			expectedSubjectSize: 50,
			expectedProtected:   []string{"release"},
		},
		{
			name: "working_directory_wins_over_home",
			files: map[string]string{
				filepath.Join(testWorkingDirectoryConstant, ".w-git.config.json"): `{"ai":{"provider":"anthropic"}}`,
				filepath.Join(testHomeDirectoryConstant, "w-git.config.json"):     `{"ai":{"provider":"xai"}}`,
			},
			expectedSource:      filepath.Join(testWorkingDirectoryConstant, ".w-git.config.json"),
			expectedUseAI:       true,
			expectedProvider:    "anthropic",
			expectedSubjectSize: 72,
			expectedProtected:   []string{"main", "master"},
		},
		{
			name: "home_directory_fallback",
			files: map[string]string{
				filepath.Join(testHomeDirectoryConstant, "w-git.config.json"): `{"ai":{"provider":"xai"}}`,
			},
			expectedSource:      filepath.Join(testHomeDirectoryConstant, "w-git.config.json"),
			expectedUseAI:       true,
			expectedProvider:    "xai",
			expectedSubjectSize: 72,
			expectedProtected:   []string{"main", "master"},
		},
		{
			name: "script_file_ignored",
			files: map[string]string{
				filepath.Join(testWorkingDirectoryConstant, "w-git.config.ts"): `export default { commit: { useAI: false } }`,
			},
			expectedSource:      filepath.Join(testWorkingDirectoryConstant, "w-git.config.ts"),
			expectedScript:      true,
			expectedUseAI:       true,
			expectedProvider:    "openai",
			expectedSubjectSize: 72,
			expectedProtected:   []string{"main", "master"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := afero.NewMemMapFs()
			for path, contents := range testCase.files {
				require.NoError(testInstance, afero.WriteFile(fileSystem, path, []byte(contents), 0o644))
			}
			core, logs := observer.New(zapcore.DebugLevel)

			resolution, resolveError := Resolver{
				FileSystem:       fileSystem,
				WorkingDirectory: testWorkingDirectoryConstant,
				HomeDirectory:    testHomeDirectoryConstant,
				Logger:           zap.New(core),
			}.Resolve()

			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedSource, resolution.SourcePath)
			require.Equal(testInstance, testCase.expectedScript, resolution.ScriptIgnored)
			require.Equal(testInstance, testCase.expectedUseAI, resolution.Configuration.Commit.UseAI)
			require.Equal(testInstance, testCase.expectedProvider, resolution.Configuration.AI.Provider)
			require.Equal(testInstance, testCase.expectedSubjectSize, resolution.Configuration.Commit.MaxSubjectLength)
			require.Equal(testInstance, testCase.expectedProtected, resolution.Configuration.Branch.Protected)
			require.Equal(testInstance, testCase.expectedScript, logs.FilterMessage(scriptIgnoredMessageConstant).Len() == 1)
		})
	}
}

func TestResolverRejectsMalformedJSON(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	path := filepath.Join(testWorkingDirectoryConstant, "w-git.config.json")
	require.NoError(testInstance, afero.WriteFile(fileSystem, path, []byte("{not json"), 0o644))

	_, resolveError := Resolver{FileSystem: fileSystem, WorkingDirectory: testWorkingDirectoryConstant}.Resolve()
	require.Error(testInstance, resolveError)
	require.Contains(testInstance, resolveError.Error(), path)
}

func TestWriteDefault(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	path := filepath.Join(testWorkingDirectoryConstant, "w-git.config.json")

	require.NoError(testInstance, WriteDefault(fileSystem, path, false))

	resolution, resolveError := Resolver{FileSystem: fileSystem, WorkingDirectory: testWorkingDirectoryConstant}.Resolve()
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, DefaultConfiguration(), resolution.Configuration)

	secondWriteError := WriteDefault(fileSystem, path, false)
	require.True(testInstance, errors.Is(secondWriteError, ErrConfigurationExists))
	require.NoError(testInstance, WriteDefault(fileSystem, path, true))
}

func TestRenderYAML(testInstance *testing.T) {
	rendered, renderError := RenderYAML(DefaultConfiguration())
	require.NoError(testInstance, renderError)
	require.Contains(testInstance, rendered, "conventionalCommits: true")
	require.Contains(testInstance, rendered, "provider: openai")
	require.Contains(testInstance, rendered, "- master")
}
