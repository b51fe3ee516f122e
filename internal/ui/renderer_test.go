package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/gitrepo"
)

func TestPaletteDisabledReturnsText(testInstance *testing.T) {
	palette := NewPalette(false)
	require.False(testInstance, palette.Enabled())
	require.Equal(testInstance, "plain\ttext", palette.Success("plain\ttext"))
	require.Equal(testInstance, "x", palette.Category("staged", "x"))
	require.Equal(testInstance, "x", palette.Heading("x"))
}

func TestRendererStatusSummary(testInstance *testing.T) {
	testCases := []struct {
		name     string
		counts   gitrepo.UpstreamCounts
		entries  []gitrepo.FileStatusEntry
		expected []string
		absent   []string
	}{
		{
			name:     "clean_tree_without_upstream",
			counts:   gitrepo.UpstreamCounts{},
			expected: []string{"On branch main", "No upstream configured", "Working tree clean"},
		},
		{
			name:   "grouped_entries_with_upstream",
			counts: gitrepo.UpstreamCounts{Ahead: 2, Behind: 1, HasUpstream: true},
			entries: []gitrepo.FileStatusEntry{
				{StatusCode: "M ", Path: "staged.go", Category: gitrepo.CategoryStaged},
				{StatusCode: "??", Path: "new.go", Category: gitrepo.CategoryUntracked},
				{StatusCode: "R ", Path: "after.go", OriginalPath: "before.go", Category: gitrepo.CategoryStaged},
			},
			expected: []string{"Ahead 2, behind 1", "Staged (2)", "Untracked (1)", "M  staged.go", "before.go -> after.go"},
			absent:   []string{"Working tree clean", "Modified ("},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var output bytes.Buffer
			renderer := NewRenderer(&output, NewPalette(false))
			renderer.StatusSummary("main", testCase.counts, testCase.entries)
			for _, fragment := range testCase.expected {
				require.Contains(testInstance, output.String(), fragment)
			}
			for _, fragment := range testCase.absent {
				require.NotContains(testInstance, output.String(), fragment)
			}
		})
	}
}

func TestRendererSearchResultsKeepsFileOrder(testInstance *testing.T) {
	var output bytes.Buffer
	renderer := NewRenderer(&output, NewPalette(false))
	groups := gitrepo.GroupHitsByFile([]gitrepo.SearchHit{
		{File: "b.go", Line: 3, Text: "bar"},
		{File: "a.go", Line: 10, Text: "foo"},
		{File: "b.go", Line: 9, Text: "baz"},
	})

	renderer.SearchResults("ba", groups)

	rendered := output.String()
	require.Contains(testInstance, rendered, "3 matches in 2 files for \"ba\"")
	require.Less(testInstance, strings.Index(rendered, "b.go"), strings.Index(rendered, "a.go"))
	require.Less(testInstance, strings.Index(rendered, "bar"), strings.Index(rendered, "baz"))
}

func TestRendererTables(testInstance *testing.T) {
	var output bytes.Buffer
	renderer := NewRenderer(&output, NewPalette(false))

	renderer.CommitTable([]gitrepo.CommitRecord{{ShortHash: "abc1234", Subject: "feat: add", Author: "Dev", Timestamp: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)}})
	renderer.BranchTable([]gitrepo.Branch{{Name: "main", Current: true}, {Name: "origin/main", Remote: true}})
	renderer.RemoteTable([]gitrepo.Remote{{Name: "origin", FetchURL: "git@github.com:temirov/wgit.git", PushURL: "git@github.com:temirov/wgit.git"}})
	renderer.WorktreeTable([]gitrepo.Worktree{{Path: "/repo", Head: "0123456789abcdef", Branch: "main"}})
	renderer.SubmoduleTable([]gitrepo.Submodule{{Path: "vendor/lib", Commit: "fedcba9876543210", State: gitrepo.SubmoduleStateUninitialized}})

	rendered := output.String()
	for _, fragment := range []string{"abc1234", "2024-05-01 10:30", "origin/main", "remote", "github.com", "temirov/wgit", "01234567", "vendor/lib", "fedcba98"} {
		require.Contains(testInstance, rendered, fragment)
	}
}

func TestRendererMessagePrefixes(testInstance *testing.T) {
	var output bytes.Buffer
	renderer := NewRenderer(&output, NewPalette(false))
	renderer.Success("done")
	renderer.Warning("careful")
	renderer.Error("broken")
	renderer.List("Files", []string{"a.go"})

	require.Equal(testInstance, "✔ done\n! careful\n✖ broken\nFiles\n  a.go\n", output.String())
}
