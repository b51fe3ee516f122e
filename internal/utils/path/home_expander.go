// Package pathutils expands user-supplied filesystem paths.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeConstant        = "~"
	forwardSlashConstant = "/"
)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander turns `~` and `~/rest` into paths under the home directory.
// Other paths, including `~user` forms, are returned cleaned but otherwise unchanged.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewHomeExpander constructs an expander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs an expander with a custom home directory lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves a leading tilde. When the home directory cannot be determined the path is returned as given.
func (expander *HomeExpander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if expander == nil || len(trimmedPath) == 0 {
		return trimmedPath
	}

	relativePath, hasTilde := splitTilde(trimmedPath)
	if !hasTilde {
		return filepath.Clean(trimmedPath)
	}

	homeDirectory, homeError := expander.homeDirectoryProvider()
	if homeError != nil || len(homeDirectory) == 0 {
		return trimmedPath
	}
	return filepath.Join(homeDirectory, relativePath)
}

func splitTilde(candidatePath string) (string, bool) {
	if candidatePath == tildeConstant {
		return "", true
	}
	for _, separator := range []string{forwardSlashConstant, string(os.PathSeparator)} {
		if strings.HasPrefix(candidatePath, tildeConstant+separator) {
			return strings.TrimPrefix(candidatePath, tildeConstant+separator), true
		}
	}
	return "", false
}
