package gitrepo

import "strings"

const (
	remoteFetchSuffixConstant   = "(fetch)"
	remotePushSuffixConstant    = "(push)"
	remoteMinimumFieldsConstant = 2
)

// Remote describes a configured remote and its fetch and push URLs.
type Remote struct {
	Name     string
	FetchURL string
	PushURL  string
}

// ParseRemotes converts `git remote -v` output into remotes in first-seen order, merging fetch and push rows.
func ParseRemotes(output string) []Remote {
	remotes := make([]Remote, 0)
	remoteIndex := make(map[string]int)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		fields := strings.Fields(line)
		if len(fields) < remoteMinimumFieldsConstant {
			continue
		}
		name := fields[0]
		remoteURL := fields[1]
		index, exists := remoteIndex[name]
		if !exists {
			index = len(remotes)
			remoteIndex[name] = index
			remotes = append(remotes, Remote{Name: name})
		}

		kind := ""
		if len(fields) > remoteMinimumFieldsConstant {
			kind = fields[2]
		}
		switch kind {
		case remotePushSuffixConstant:
			remotes[index].PushURL = remoteURL
		case remoteFetchSuffixConstant:
			remotes[index].FetchURL = remoteURL
		default:
			remotes[index].FetchURL = remoteURL
			remotes[index].PushURL = remoteURL
		}
	}
	return remotes
}

// RemoteNames returns the names of the remotes in order.
func RemoteNames(remotes []Remote) []string {
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Name)
	}
	return names
}
