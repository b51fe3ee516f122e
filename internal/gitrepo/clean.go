package gitrepo

import "strings"

const (
	cleanWouldRemovePrefixConstant = "Would remove "
	cleanRemovingPrefixConstant    = "Removing "
)

// ParseCleanPreview extracts paths from `git clean -n` output ("Would remove <path>").
// Output of a real run ("Removing <path>") is accepted as well.
func ParseCleanPreview(output string) []string {
	paths := make([]string, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, cleanWouldRemovePrefixConstant):
			paths = append(paths, strings.TrimPrefix(line, cleanWouldRemovePrefixConstant))
		case strings.HasPrefix(line, cleanRemovingPrefixConstant):
			paths = append(paths, strings.TrimPrefix(line, cleanRemovingPrefixConstant))
		}
	}
	return paths
}
