package gitrepo

import (
	"strconv"
	"strings"
)

const (
	statusLineMinimumLengthConstant = 4
	statusCodeLengthConstant        = 2
	statusPathOffsetConstant        = 3
	statusRenameSeparatorConstant   = " -> "
	statusUntrackedCodeConstant     = "??"
	statusBlankMarkerConstant       = ' '
	statusUnmergedMarkerConstant    = 'U'
	statusBothAddedCodeConstant     = "AA"
	statusBothDeletedCodeConstant   = "DD"
	quotedPathMarkerConstant        = "\""
	lineSeparatorConstant           = "\n"
	carriageReturnConstant          = "\r"
)

// Category classifies a porcelain status code by where the change lives.
type Category string

// Status categories.
const (
	CategoryStaged    Category = "staged"
	CategoryModified  Category = "modified"
	CategoryUntracked Category = "untracked"
	CategoryMixed     Category = "mixed"
)

// FileStatusEntry describes one line of `git status --porcelain`.
type FileStatusEntry struct {
	StatusCode   string
	Path         string
	OriginalPath string
	Category     Category
}

// IsStaged reports whether the entry has changes recorded in the index.
func (entry FileStatusEntry) IsStaged() bool {
	if entry.StatusCode == statusUntrackedCodeConstant || len(entry.StatusCode) != statusCodeLengthConstant {
		return false
	}
	return entry.StatusCode[0] != statusBlankMarkerConstant
}

// IsUnstaged reports whether the entry has working tree changes not yet in the index.
func (entry FileStatusEntry) IsUnstaged() bool {
	if entry.StatusCode == statusUntrackedCodeConstant {
		return true
	}
	if len(entry.StatusCode) != statusCodeLengthConstant {
		return false
	}
	return entry.StatusCode[1] != statusBlankMarkerConstant
}

// IsConflicted reports whether the entry is an unmerged path left by a merge, rebase, revert or cherry-pick.
func (entry FileStatusEntry) IsConflicted() bool {
	if len(entry.StatusCode) != statusCodeLengthConstant {
		return false
	}
	if entry.StatusCode == statusBothAddedCodeConstant || entry.StatusCode == statusBothDeletedCodeConstant {
		return true
	}
	return strings.ContainsRune(entry.StatusCode, statusUnmergedMarkerConstant)
}

// ConflictedPaths returns the paths of unmerged entries in input order.
func ConflictedPaths(entries []FileStatusEntry) []string {
	paths := make([]string, 0)
	for _, entry := range entries {
		if entry.IsConflicted() {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}

// StatusCategory maps a two-character porcelain code to its category.
func StatusCategory(code string) Category {
	if code == statusUntrackedCodeConstant {
		return CategoryUntracked
	}
	if len(code) != statusCodeLengthConstant {
		return CategoryMixed
	}
	indexBlank := code[0] == statusBlankMarkerConstant
	worktreeBlank := code[1] == statusBlankMarkerConstant
	switch {
	case !indexBlank && worktreeBlank:
		return CategoryStaged
	case indexBlank && !worktreeBlank:
		return CategoryModified
	default:
		return CategoryMixed
	}
}

// ParseStatus converts porcelain v1 output into entries in input order.
func ParseStatus(output string) []FileStatusEntry {
	entries := make([]FileStatusEntry, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimSuffix(line, carriageReturnConstant)
		if len(line) < statusLineMinimumLengthConstant {
			continue
		}
		statusCode := line[:statusCodeLengthConstant]
		pathText := line[statusPathOffsetConstant:]

		entry := FileStatusEntry{StatusCode: statusCode, Category: StatusCategory(statusCode)}
		if separatorIndex := strings.Index(pathText, statusRenameSeparatorConstant); separatorIndex >= 0 {
			entry.OriginalPath = unquotePath(pathText[:separatorIndex])
			entry.Path = unquotePath(pathText[separatorIndex+len(statusRenameSeparatorConstant):])
		} else {
			entry.Path = unquotePath(pathText)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Paths returns the current path of each entry.
func Paths(entries []FileStatusEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return paths
}

func unquotePath(path string) string {
	if !strings.HasPrefix(path, quotedPathMarkerConstant) || !strings.HasSuffix(path, quotedPathMarkerConstant) {
		return path
	}
	unquoted, unquoteError := strconv.Unquote(path)
	if unquoteError != nil {
		return path
	}
	return unquoted
}
