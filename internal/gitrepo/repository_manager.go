package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/wgit/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant     = "git executor not configured"
	gitStatusSubcommandConstant           = "status"
	gitPorcelainFlagConstant              = "--porcelain"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitHeadReferenceConstant              = "HEAD"
	gitBranchSubcommandConstant           = "branch"
	gitListFlagConstant                   = "--list"
	gitAllFlagConstant                    = "--all"
	gitRemoteSubcommandConstant           = "remote"
	gitVerboseFlagConstant                = "-v"
	gitLogSubcommandConstant              = "log"
	gitPrettyFormatFlagTemplateConstant   = "--pretty=format:%s"
	gitMaxCountFlagTemplateConstant       = "--max-count=%d"
	gitDiffSubcommandConstant             = "diff"
	gitCachedFlagConstant                 = "--cached"
	gitRevListSubcommandConstant          = "rev-list"
	gitLeftRightFlagConstant              = "--left-right"
	gitCountFlagConstant                  = "--count"
	gitUpstreamRangeConstant              = "@{u}...HEAD"
	gitUpstreamReferenceConstant          = "@{u}"
	gitDescribeSubcommandConstant         = "describe"
	gitTagsFlagConstant                   = "--tags"
	gitAbbrevZeroFlagConstant             = "--abbrev=0"
	gitDoubleDashConstant                 = "--"
	gitDisableTerminalPromptNameConstant  = "GIT_TERMINAL_PROMPT"
	gitDisableTerminalPromptValueConstant = "0"
	statusQueryErrorTemplateConstant      = "failed to read working tree status: %w"
	currentBranchErrorTemplateConstant    = "failed to determine current branch: %w"
	branchesErrorTemplateConstant         = "failed to list branches: %w"
	remotesErrorTemplateConstant          = "failed to list remotes: %w"
	logErrorTemplateConstant              = "failed to read commit history: %w"
	diffErrorTemplateConstant             = "failed to collect diff: %w"
	upstreamCountsErrorTemplateConstant   = "failed to parse upstream counts %q"
)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// UpstreamCounts reports how far the current branch has diverged from its upstream.
type UpstreamCounts struct {
	Ahead       int
	Behind      int
	HasUpstream bool
}

// RepositoryManager answers read-only questions about a working tree.
type RepositoryManager struct {
	executor         GitExecutor
	workingDirectory string
}

// NewRepositoryManager constructs a manager that runs git in the given directory; an empty directory means the process working directory.
func NewRepositoryManager(executor GitExecutor, workingDirectory string) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor, workingDirectory: workingDirectory}, nil
}

// Run executes git with the given arguments in the manager's working directory.
func (manager *RepositoryManager) Run(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: manager.workingDirectory,
	})
}

// RunNonInteractive executes git with terminal credential prompts disabled.
func (manager *RepositoryManager) RunNonInteractive(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     manager.workingDirectory,
		EnvironmentVariables: map[string]string{gitDisableTerminalPromptNameConstant: gitDisableTerminalPromptValueConstant},
	})
}

// Status returns the parsed porcelain status.
func (manager *RepositoryManager) Status(executionContext context.Context) ([]FileStatusEntry, error) {
	result, executionError := manager.Run(executionContext, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return nil, fmt.Errorf(statusQueryErrorTemplateConstant, executionError)
	}
	return ParseStatus(result.StandardOutput), nil
}

// CurrentBranch returns the checked out branch name, or HEAD when detached.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context) (string, error) {
	result, executionError := manager.Run(executionContext, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// Branches lists local branches, or local and remote-tracking branches when includeRemote is set.
func (manager *RepositoryManager) Branches(executionContext context.Context, includeRemote bool) ([]Branch, error) {
	arguments := []string{gitBranchSubcommandConstant, gitListFlagConstant}
	if includeRemote {
		arguments = append(arguments, gitAllFlagConstant)
	}
	result, executionError := manager.Run(executionContext, arguments...)
	if executionError != nil {
		return nil, fmt.Errorf(branchesErrorTemplateConstant, executionError)
	}
	return ParseBranches(result.StandardOutput), nil
}

// Remotes lists configured remotes.
func (manager *RepositoryManager) Remotes(executionContext context.Context) ([]Remote, error) {
	result, executionError := manager.Run(executionContext, gitRemoteSubcommandConstant, gitVerboseFlagConstant)
	if executionError != nil {
		return nil, fmt.Errorf(remotesErrorTemplateConstant, executionError)
	}
	return ParseRemotes(result.StandardOutput), nil
}

// Log returns up to limit commits reachable from HEAD; a non-positive limit returns the whole history.
func (manager *RepositoryManager) Log(executionContext context.Context, limit int) ([]CommitRecord, error) {
	arguments := []string{gitLogSubcommandConstant, fmt.Sprintf(gitPrettyFormatFlagTemplateConstant, LogFormat)}
	if limit > 0 {
		arguments = append(arguments, fmt.Sprintf(gitMaxCountFlagTemplateConstant, limit))
	}
	result, executionError := manager.Run(executionContext, arguments...)
	if executionError != nil {
		return nil, fmt.Errorf(logErrorTemplateConstant, executionError)
	}
	return ParseLog(result.StandardOutput), nil
}

// StagedDiff returns the diff of the index against HEAD, optionally restricted to paths.
func (manager *RepositoryManager) StagedDiff(executionContext context.Context, paths ...string) (string, error) {
	return manager.diff(executionContext, true, paths)
}

// WorkingDiff returns the diff of the working tree against the index, optionally restricted to paths.
func (manager *RepositoryManager) WorkingDiff(executionContext context.Context, paths ...string) (string, error) {
	return manager.diff(executionContext, false, paths)
}

func (manager *RepositoryManager) diff(executionContext context.Context, cached bool, paths []string) (string, error) {
	arguments := []string{gitDiffSubcommandConstant}
	if cached {
		arguments = append(arguments, gitCachedFlagConstant)
	}
	if len(paths) > 0 {
		arguments = append(arguments, gitDoubleDashConstant)
		arguments = append(arguments, paths...)
	}
	result, executionError := manager.Run(executionContext, arguments...)
	if executionError != nil {
		return "", fmt.Errorf(diffErrorTemplateConstant, executionError)
	}
	return result.StandardOutput, nil
}

// UpstreamCounts returns ahead/behind counts against the upstream branch.
// A branch without an upstream yields zero counts with HasUpstream unset rather than an error.
func (manager *RepositoryManager) UpstreamCounts(executionContext context.Context) (UpstreamCounts, error) {
	result, executionError := manager.Run(executionContext, gitRevListSubcommandConstant, gitLeftRightFlagConstant, gitCountFlagConstant, gitUpstreamRangeConstant)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) {
			return UpstreamCounts{}, nil
		}
		return UpstreamCounts{}, executionError
	}

	fields := strings.Fields(result.StandardOutput)
	if len(fields) != 2 {
		return UpstreamCounts{}, fmt.Errorf(upstreamCountsErrorTemplateConstant, result.StandardOutput)
	}
	behind, behindError := strconv.Atoi(fields[0])
	ahead, aheadError := strconv.Atoi(fields[1])
	if behindError != nil || aheadError != nil {
		return UpstreamCounts{}, fmt.Errorf(upstreamCountsErrorTemplateConstant, result.StandardOutput)
	}
	return UpstreamCounts{Ahead: ahead, Behind: behind, HasUpstream: true}, nil
}

// HasUpstream reports whether the current branch tracks a remote branch.
func (manager *RepositoryManager) HasUpstream(executionContext context.Context) bool {
	_, executionError := manager.Run(executionContext, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitUpstreamReferenceConstant)
	return executionError == nil
}

// DefaultRemote returns the preferred remote when it exists, otherwise the first configured remote.
// The preferred name is returned unchanged when remotes cannot be listed or none exist.
func (manager *RepositoryManager) DefaultRemote(executionContext context.Context, preferred string) string {
	remotes, remotesError := manager.Remotes(executionContext)
	if remotesError != nil || len(remotes) == 0 {
		return preferred
	}
	for _, remote := range remotes {
		if remote.Name == preferred {
			return preferred
		}
	}
	return remotes[0].Name
}

// LatestTag returns the most recent tag reachable from HEAD, or fallback when there are no tags.
func (manager *RepositoryManager) LatestTag(executionContext context.Context, fallback string) string {
	result, executionError := manager.Run(executionContext, gitDescribeSubcommandConstant, gitTagsFlagConstant, gitAbbrevZeroFlagConstant)
	if executionError != nil {
		return fallback
	}
	tag := strings.TrimSpace(result.StandardOutput)
	if len(tag) == 0 {
		return fallback
	}
	return tag
}
