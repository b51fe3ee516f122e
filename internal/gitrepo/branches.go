package gitrepo

import "strings"

const (
	branchCurrentMarkerConstant     = '*'
	branchWorktreeMarkerConstant    = '+'
	branchMarkerWidthConstant       = 2
	branchSymbolicReferenceConstant = " -> "
	branchDetachedPrefixConstant    = "("
	branchRemotePrefixConstant      = "remotes/"
)

// Branch describes one line of `git branch` output.
type Branch struct {
	Name                string
	Current             bool
	Remote              bool
	Detached            bool
	CheckedOutElsewhere bool
}

// ParseBranches converts `git branch` (optionally `-a`) output into branches in input order.
// Symbolic remote references such as `remotes/origin/HEAD -> origin/main` are skipped.
func ParseBranches(output string) []Branch {
	branches := make([]Branch, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimRight(line, " \r")
		if len(strings.TrimSpace(line)) == 0 || strings.Contains(line, branchSymbolicReferenceConstant) {
			continue
		}
		branch := Branch{}
		if len(line) >= branchMarkerWidthConstant {
			switch line[0] {
			case branchCurrentMarkerConstant:
				branch.Current = true
			case branchWorktreeMarkerConstant:
				branch.CheckedOutElsewhere = true
			}
		}
		name := strings.TrimSpace(strings.TrimLeft(line, "*+ "))
		if strings.HasPrefix(name, branchDetachedPrefixConstant) {
			branch.Detached = true
		}
		if strings.HasPrefix(name, branchRemotePrefixConstant) {
			branch.Remote = true
			name = strings.TrimPrefix(name, branchRemotePrefixConstant)
		}
		branch.Name = name
		branches = append(branches, branch)
	}
	return branches
}

// LocalBranchNames returns the names of local, non-detached branches.
func LocalBranchNames(branches []Branch) []string {
	names := make([]string, 0, len(branches))
	for _, branch := range branches {
		if branch.Remote || branch.Detached {
			continue
		}
		names = append(names, branch.Name)
	}
	return names
}

// ContainsBranch reports whether a local branch with the given name exists.
func ContainsBranch(branches []Branch, name string) bool {
	for _, branch := range branches {
		if !branch.Remote && !branch.Detached && branch.Name == name {
			return true
		}
	}
	return false
}
