package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitProtocolPrefixConstant           = "git://"
	fileProtocolPrefixConstant          = "file://"
	sshUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
	remoteSlugTemplateConstant          = "%s/%s"
)

// RemoteProtocol enumerates git remote transports.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
	RemoteProtocolLocal RemoteProtocol = RemoteProtocol("local")
)

// RemoteURL is the structured form of a remote URL.
// Owner holds every path segment before the repository name, so nested groups stay intact.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// Slug returns owner/repository, or just the repository when no owner is known.
func (remote RemoteURL) Slug() string {
	if len(remote.Owner) == 0 {
		return remote.Repository
	}
	return fmt.Sprintf(remoteSlugTemplateConstant, remote.Owner, remote.Repository)
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a remote URL as printed by `git remote -v` into a RemoteURL.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseHostedRemote(remote, RemoteProtocolSSH, stripUser(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant)))
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHostedRemote(remote, RemoteProtocolHTTPS, stripUser(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant)))
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseHostedRemote(remote, RemoteProtocolHTTP, stripUser(strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant)))
	case strings.HasPrefix(trimmedRemote, gitProtocolPrefixConstant):
		return parseHostedRemote(remote, RemoteProtocolGit, strings.TrimPrefix(trimmedRemote, gitProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, fileProtocolPrefixConstant):
		return parseLocalRemote(remote, strings.TrimPrefix(trimmedRemote, fileProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, pathSeparatorConstant), strings.HasPrefix(trimmedRemote, "."):
		return parseLocalRemote(remote, trimmedRemote)
	}

	userIndex := strings.Index(trimmedRemote, sshUserDelimiterConstant)
	colonIndex := strings.Index(trimmedRemote, scpPathDelimiterConstant)
	if colonIndex > userIndex && colonIndex > 0 {
		scpStyle := trimmedRemote[userIndex+1:colonIndex] + pathSeparatorConstant + trimmedRemote[colonIndex+1:]
		return parseHostedRemote(remote, RemoteProtocolSSH, scpStyle)
	}

	return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
}

func stripUser(hostAndPath string) string {
	slashIndex := strings.Index(hostAndPath, pathSeparatorConstant)
	userIndex := strings.Index(hostAndPath, sshUserDelimiterConstant)
	if userIndex >= 0 && (slashIndex == -1 || userIndex < slashIndex) {
		return hostAndPath[userIndex+1:]
	}
	return hostAndPath
}

func parseHostedRemote(input string, protocol RemoteProtocol, hostAndPath string) (RemoteURL, error) {
	segments := splitPathSegments(hostAndPath)
	if len(segments) < 2 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	host := segments[0]
	if protocol == RemoteProtocolSSH {
		host = strings.TrimSuffix(host, scpPathDelimiterConstant)
	}
	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	if len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	return RemoteURL{
		Protocol:   protocol,
		Host:       host,
		Owner:      strings.Join(segments[1:len(segments)-1], pathSeparatorConstant),
		Repository: repository,
	}, nil
}

func parseLocalRemote(input string, path string) (RemoteURL, error) {
	segments := splitPathSegments(path)
	if len(segments) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	return RemoteURL{Protocol: RemoteProtocolLocal, Repository: repository}, nil
}

func splitPathSegments(path string) []string {
	rawSegments := strings.Split(path, pathSeparatorConstant)
	segments := make([]string, 0, len(rawSegments))
	for _, segment := range rawSegments {
		if len(segment) == 0 || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
