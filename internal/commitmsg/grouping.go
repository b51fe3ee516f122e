package commitmsg

import (
	"strings"

	"github.com/temirov/wgit/internal/gitrepo"
)

// ChangeType is the conventional commit type assigned to a group of files.
type ChangeType string

// Change types in precedence order.
const (
	ChangeTypeFeature  ChangeType = "feat"
	ChangeTypeFix      ChangeType = "fix"
	ChangeTypeRemove   ChangeType = "remove"
	ChangeTypeRefactor ChangeType = "refactor"
	ChangeTypeMisc     ChangeType = "misc"
)

var changeTypePrecedence = [...]struct {
	marker     string
	changeType ChangeType
}{
	{marker: "A", changeType: ChangeTypeFeature},
	{marker: "M", changeType: ChangeTypeFix},
	{marker: "D", changeType: ChangeTypeRemove},
	{marker: "R", changeType: ChangeTypeRefactor},
}

// ChangeGroup is a set of files sharing a change type, in first-seen order.
type ChangeGroup struct {
	Type  ChangeType
	Files []string
}

// ClassifyStatusCode maps a porcelain status code to a change type.
// Added wins over Modified, then Deleted, then Renamed; anything else is misc.
func ClassifyStatusCode(statusCode string) ChangeType {
	for _, rule := range changeTypePrecedence {
		if strings.Contains(statusCode, rule.marker) {
			return rule.changeType
		}
	}
	return ChangeTypeMisc
}

// GroupChanges partitions entries by change type, ordering groups by first appearance.
func GroupChanges(entries []gitrepo.FileStatusEntry) []ChangeGroup {
	groups := make([]ChangeGroup, 0)
	groupIndex := make(map[ChangeType]int)
	for _, entry := range entries {
		changeType := ClassifyStatusCode(entry.StatusCode)
		index, exists := groupIndex[changeType]
		if !exists {
			index = len(groups)
			groupIndex[changeType] = index
			groups = append(groups, ChangeGroup{Type: changeType})
		}
		groups[index].Files = append(groups[index].Files, entry.Path)
	}
	return groups
}

// GroupStatusLines parses raw porcelain lines and groups them.
func GroupStatusLines(lines []string) []ChangeGroup {
	return GroupChanges(gitrepo.ParseStatus(strings.Join(lines, "\n")))
}
