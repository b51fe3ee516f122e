package gitrepo

import "strings"

const (
	worktreePathKeyConstant            = "worktree"
	worktreeHeadKeyConstant            = "HEAD"
	worktreeBranchKeyConstant          = "branch"
	worktreeDetachedKeyConstant        = "detached"
	worktreeBareKeyConstant            = "bare"
	worktreeLockedKeyConstant          = "locked"
	worktreePrunableKeyConstant        = "prunable"
	localBranchReferencePrefixConstant = "refs/heads/"
)

// Worktree describes one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path     string
	Head     string
	Branch   string
	Detached bool
	Bare     bool
	Locked   bool
	Prunable bool
}

// ParseWorktrees converts porcelain worktree output into entries in input order.
func ParseWorktrees(output string) []Worktree {
	worktrees := make([]Worktree, 0)
	var current *Worktree
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimSuffix(line, carriageReturnConstant)
		key, value, _ := strings.Cut(line, " ")
		if key == worktreePathKeyConstant {
			worktrees = append(worktrees, Worktree{Path: value})
			current = &worktrees[len(worktrees)-1]
			continue
		}
		if current == nil {
			continue
		}
		switch key {
		case worktreeHeadKeyConstant:
			current.Head = value
		case worktreeBranchKeyConstant:
			current.Branch = strings.TrimPrefix(value, localBranchReferencePrefixConstant)
		case worktreeDetachedKeyConstant:
			current.Detached = true
		case worktreeBareKeyConstant:
			current.Bare = true
		case worktreeLockedKeyConstant:
			current.Locked = true
		case worktreePrunableKeyConstant:
			current.Prunable = true
		}
	}
	return worktrees
}
