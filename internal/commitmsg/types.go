package commitmsg

// CommitType describes one conventional commit type offered to the user.
type CommitType struct {
	Value string
	Label string
	Hint  string
}

var commitTypes = [...]CommitType{
	{Value: "feat", Label: "Feature", Hint: "A new feature"},
	{Value: "fix", Label: "Bug Fix", Hint: "A bug fix"},
	{Value: "docs", Label: "Documentation", Hint: "Documentation only changes"},
	{Value: "style", Label: "Style", Hint: "Formatting, missing semicolons, white-space"},
	{Value: "refactor", Label: "Refactor", Hint: "A code change that neither fixes a bug nor adds a feature"},
	{Value: "perf", Label: "Performance", Hint: "A code change that improves performance"},
	{Value: "test", Label: "Tests", Hint: "Adding or correcting tests"},
	{Value: "build", Label: "Build", Hint: "Changes to the build system or external dependencies"},
	{Value: "ci", Label: "CI", Hint: "Changes to CI configuration files and scripts"},
	{Value: "chore", Label: "Chore", Hint: "Other changes that don't modify src or test files"},
	{Value: "revert", Label: "Revert", Hint: "Reverts a previous commit"},
	{Value: "remove", Label: "Remove", Hint: "Removes files or features"},
	{Value: "misc", Label: "Miscellaneous", Hint: "Changes that fit no other type"},
}

// CommitTypes returns a copy of the commit type table in display order.
func CommitTypes() []CommitType {
	types := make([]CommitType, len(commitTypes))
	copy(types, commitTypes[:])
	return types
}

// LookupCommitType finds a commit type by value.
func LookupCommitType(value string) (CommitType, bool) {
	for _, commitType := range commitTypes {
		if commitType.Value == value {
			return commitType, true
		}
	}
	return CommitType{}, false
}
