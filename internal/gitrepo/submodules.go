package gitrepo

import "strings"

const (
	submoduleUninitializedMarkerConstant = '-'
	submoduleOutOfSyncMarkerConstant     = '+'
	submoduleConflictMarkerConstant      = 'U'
	submoduleMinimumFieldsConstant       = 2
	submoduleDescribeOpenConstant        = "("
	submoduleDescribeCloseConstant       = ")"
)

// SubmoduleState describes how a submodule checkout relates to the recorded commit.
type SubmoduleState string

// Submodule states reported by `git submodule status`.
const (
	SubmoduleStateCurrent       SubmoduleState = "current"
	SubmoduleStateUninitialized SubmoduleState = "uninitialized"
	SubmoduleStateOutOfSync     SubmoduleState = "out-of-sync"
	SubmoduleStateConflict      SubmoduleState = "conflict"
)

// Submodule describes one line of `git submodule status`.
type Submodule struct {
	Commit   string
	Path     string
	Describe string
	State    SubmoduleState
}

// ParseSubmodules converts `git submodule status` output into submodules in input order.
func ParseSubmodules(output string) []Submodule {
	submodules := make([]Submodule, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimRight(line, " \r")
		if len(line) == 0 {
			continue
		}
		state := SubmoduleStateCurrent
		switch line[0] {
		case submoduleUninitializedMarkerConstant:
			state = SubmoduleStateUninitialized
		case submoduleOutOfSyncMarkerConstant:
			state = SubmoduleStateOutOfSync
		case submoduleConflictMarkerConstant:
			state = SubmoduleStateConflict
		}
		fields := strings.Fields(line[1:])
		if len(fields) < submoduleMinimumFieldsConstant {
			continue
		}
		submodule := Submodule{Commit: fields[0], Path: fields[1], State: state}
		if len(fields) > submoduleMinimumFieldsConstant {
			describe := strings.Join(fields[2:], " ")
			submodule.Describe = strings.TrimSuffix(strings.TrimPrefix(describe, submoduleDescribeOpenConstant), submoduleDescribeCloseConstant)
		}
		submodules = append(submodules, submodule)
	}
	return submodules
}
