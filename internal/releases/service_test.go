package releases

import (
	"bytes"
	"context"
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo/gitrepotest"
	"github.com/temirov/wgit/internal/prompt/prompttest"
	"github.com/temirov/wgit/internal/ui"
)

func newTestService(testInstance *testing.T, executor *gitrepotest.ScriptedExecutor, prompter *prompttest.ScriptedPrompter, settings config.ReleaseSettings) (*Service, *bytes.Buffer) {
	testInstance.Helper()
	var output bytes.Buffer
	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:   executor,
		Prompter:      prompter,
		Renderer:      ui.NewRenderer(&output, ui.NewPalette(false)),
		Settings:      settings,
		DefaultRemote: "origin",
	})
	require.NoError(testInstance, serviceError)
	return service, &output
}

func TestBumpVersion(testInstance *testing.T) {
	testCases := []struct {
		name     string
		current  string
		bump     Bump
		expected string
	}{
		{name: "patch", current: "1.2.3", bump: BumpPatch, expected: "1.2.4"},
		{name: "minor", current: "1.2.3", bump: BumpMinor, expected: "1.3.0"},
		{name: "major", current: "1.2.3", bump: BumpMajor, expected: "2.0.0"},
		{name: "prerelease_dropped", current: "1.2.3-rc.1", bump: BumpPatch, expected: "1.2.4"},
		{name: "short_version", current: "1.2", bump: BumpMinor, expected: "1.3.0"},
		{name: "initial", current: "0.0.0", bump: BumpPatch, expected: "0.0.1"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			current, parseError := goversion.NewVersion(testCase.current)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, BumpVersion(current, testCase.bump))
		})
	}
}

func TestParseBump(testInstance *testing.T) {
	bump, known := ParseBump(" Minor ")
	require.True(testInstance, known)
	require.Equal(testInstance, BumpMinor, bump)

	_, known = ParseBump("huge")
	require.False(testInstance, known)
}

func TestRelease(testInstance *testing.T) {
	testCases := []struct {
		name            string
		latestTag       string
		settings        config.ReleaseSettings
		options         Options
		answers         []prompttest.Answer
		expectedTag     string
		expectedPush    bool
		expectedPrevTag string
	}{
		{
			name:            "minor_bump",
			latestTag:       "v1.4.2",
			settings:        config.ReleaseSettings{TagPrefix: "v"},
			options:         Options{Bump: BumpMinor, AssumeYes: true},
			expectedTag:     "v1.5.0",
			expectedPrevTag: "v1.4.2",
		},
		{
			name:            "explicit_version_with_prefix",
			latestTag:       "v1.4.2",
			settings:        config.ReleaseSettings{TagPrefix: "v"},
			options:         Options{Version: "v2.0.0", AssumeYes: true},
			expectedTag:     "v2.0.0",
			expectedPrevTag: "v1.4.2",
		},
		{
			name:            "no_tags_yet",
			settings:        config.ReleaseSettings{TagPrefix: "v"},
			options:         Options{Bump: BumpPatch, AssumeYes: true},
			expectedTag:     "v0.0.1",
			expectedPrevTag: "v0.0.0",
		},
		{
			name:            "prompted_bump_and_confirm",
			latestTag:       "v0.9.0",
			settings:        config.ReleaseSettings{TagPrefix: "v"},
			answers:         []prompttest.Answer{prompttest.Choose("major"), prompttest.Yes()},
			expectedTag:     "v1.0.0",
			expectedPrevTag: "v0.9.0",
		},
		{
			name:            "prompted_explicit_version",
			latestTag:       "v0.9.0",
			settings:        config.ReleaseSettings{TagPrefix: "v"},
			answers:         []prompttest.Answer{prompttest.Choose(explicitOptionValueConstant), prompttest.Choose("0.9.5"), prompttest.Yes()},
			expectedTag:     "v0.9.5",
			expectedPrevTag: "v0.9.0",
		},
		{
			name:            "push_from_settings",
			latestTag:       "release-3.1.0",
			settings:        config.ReleaseSettings{TagPrefix: "release-", Push: true},
			options:         Options{Bump: BumpPatch, AssumeYes: true},
			expectedTag:     "release-3.1.1",
			expectedPush:    true,
			expectedPrevTag: "release-3.1.0",
		},
		{
			name:            "push_from_flag",
			latestTag:       "v1.0.0",
			settings:        config.ReleaseSettings{TagPrefix: "v"},
			options:         Options{Bump: BumpPatch, Push: true, AssumeYes: true},
			expectedTag:     "v1.0.1",
			expectedPush:    true,
			expectedPrevTag: "v1.0.0",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script("remote -v", gitrepotest.Output("origin\tgit@github.com:acme/app.git (fetch)\norigin\tgit@github.com:acme/app.git (push)\n"))
			if len(testCase.latestTag) > 0 {
				executor.Script("describe --tags --abbrev=0", gitrepotest.Output(testCase.latestTag+"\n"))
			}
			prompter := prompttest.NewScriptedPrompter(testCase.answers...)
			service, output := newTestService(testInstance, executor, prompter, testCase.settings)

			result, releaseError := service.Release(context.Background(), testCase.options)
			require.NoError(testInstance, releaseError)
			require.Equal(testInstance, testCase.expectedTag, result.TagName)
			require.Equal(testInstance, testCase.expectedPrevTag, result.PreviousTag)
			require.Equal(testInstance, testCase.expectedPush, result.Pushed)
			require.True(testInstance, executor.Ran("tag -a "+testCase.expectedTag+" -m Release "+testCase.expectedTag), executor.Commands())
			require.Equal(testInstance, testCase.expectedPush, executor.Ran("push origin "+testCase.expectedTag))
			require.Contains(testInstance, output.String(), "Created tag "+testCase.expectedTag)
			require.Zero(testInstance, prompter.Remaining())
		})
	}
}

func TestReleaseDryRunSkipsTagging(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("describe --tags --abbrev=0", gitrepotest.Output("v1.0.0\n"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(), config.ReleaseSettings{TagPrefix: "v", Push: true})

	result, releaseError := service.Release(context.Background(), Options{Bump: BumpMajor, DryRun: true})
	require.NoError(testInstance, releaseError)
	require.Equal(testInstance, "v2.0.0", result.TagName)
	require.Contains(testInstance, output.String(), "Would create tag v2.0.0")
	for _, command := range executor.Commands() {
		require.NotContains(testInstance, command, "tag -a")
		require.NotContains(testInstance, command, "push")
	}
}

func TestReleaseDeclined(testInstance *testing.T) {
	executor := gitrepotest.NewScriptedExecutor().Script("describe --tags --abbrev=0", gitrepotest.Output("v1.0.0\n"))
	service, output := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(prompttest.No()), config.ReleaseSettings{TagPrefix: "v"})

	result, releaseError := service.Release(context.Background(), Options{Bump: BumpPatch})
	require.NoError(testInstance, releaseError)
	require.Empty(testInstance, result.TagName)
	require.False(testInstance, executor.Ran("tag -a v1.0.1 -m Release v1.0.1"))
	require.Contains(testInstance, output.String(), "Release cancelled")
}

func TestReleaseRejections(testInstance *testing.T) {
	testCases := []struct {
		name          string
		latestTag     string
		options       Options
		existingTag   string
		expectedError error
		expectedText  string
	}{
		{
			name:          "version_not_newer",
			latestTag:     "v1.4.0",
			options:       Options{Version: "1.3.9", AssumeYes: true},
			expectedError: ErrVersionNotNewer,
		},
		{
			name:          "tag_exists",
			latestTag:     "v1.4.0",
			options:       Options{Bump: BumpPatch, AssumeYes: true},
			existingTag:   "v1.4.1",
			expectedError: ErrTagExists,
		},
		{
			name:         "invalid_explicit_version",
			latestTag:    "v1.4.0",
			options:      Options{Version: "next", AssumeYes: true},
			expectedText: "invalid version \"next\"",
		},
		{
			name:         "latest_tag_not_semantic",
			latestTag:    "nightly",
			options:      Options{Bump: BumpPatch, AssumeYes: true},
			expectedText: "is not a semantic version",
		},
		{
			name:         "unknown_bump",
			latestTag:    "v1.4.0",
			options:      Options{Bump: Bump("huge"), AssumeYes: true},
			expectedText: "unknown version bump",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := gitrepotest.NewScriptedExecutor().Script("describe --tags --abbrev=0", gitrepotest.Output(testCase.latestTag+"\n"))
			if len(testCase.existingTag) > 0 {
				executor.Script("rev-parse -q --verify refs/tags/"+testCase.existingTag, gitrepotest.Output("abc123\n"))
			}
			service, _ := newTestService(testInstance, executor, prompttest.NewScriptedPrompter(), config.ReleaseSettings{TagPrefix: "v"})

			_, releaseError := service.Release(context.Background(), testCase.options)
			require.Error(testInstance, releaseError)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, releaseError, testCase.expectedError)
			}
			if len(testCase.expectedText) > 0 {
				require.Contains(testInstance, releaseError.Error(), testCase.expectedText)
			}
			for _, command := range executor.Commands() {
				require.NotContains(testInstance, command, "tag -a")
			}
		})
	}
}
