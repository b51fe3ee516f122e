// Package merge merges another branch into the current one and reports conflicts.
package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitMergeSubcommandConstant         = "merge"
	gitNoFastForwardFlagConstant       = "--no-ff"
	gitSquashFlagConstant              = "--squash"
	gitAbortFlagConstant               = "--abort"
	gitExecutorMissingMessageConstant  = "git executor not configured"
	prompterMissingMessageConstant     = "prompter not configured"
	conflictingStrategyMessageConstant = "--no-ff and --squash cannot be combined"
	conflictsMessageConstant           = "merge stopped with conflicts"
	mergeErrorTemplateConstant         = "failed to merge %s: %w"
	abortErrorTemplateConstant         = "failed to abort merge: %w"
	conflictsTemplateConstant          = "%w in %d file(s)"
	branchPromptConstant               = "Merge which branch into %s?"
	strategyPromptConstant             = "Merge strategy"
	noBranchesMessageConstant          = "No other branches to merge"
	mergedTemplateConstant             = "Merged %s into %s"
	squashedTemplateConstant           = "Squashed %s into the index; commit to finish"
	abortedMessageConstant             = "Merge aborted"
	conflictsTitleConstant             = "Conflicts"
	conflictsHintConstant              = "Resolve the conflicts and commit, or run wgit merge --abort"
	strategyDefaultValueConstant       = "default"
	strategyNoFastForwardValueConstant = "no-ff"
	strategySquashValueConstant        = "squash"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrConflictingStrategy indicates both --no-ff and --squash were requested.
var ErrConflictingStrategy = errors.New(conflictingStrategyMessageConstant)

// ErrMergeConflicts indicates the merge left unmerged paths behind.
var ErrMergeConflicts = errors.New(conflictsMessageConstant)

var strategyOptions = []prompt.Option{
	{Label: "Fast-forward when possible", Value: strategyDefaultValueConstant},
	{Label: "Always create a merge commit", Value: strategyNoFastForwardValueConstant, Hint: gitNoFastForwardFlagConstant},
	{Label: "Squash into a single change", Value: strategySquashValueConstant, Hint: gitSquashFlagConstant},
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// Options configure a merge. An empty Branch is selected interactively together with the strategy.
type Options struct {
	Branch        string
	NoFastForward bool
	Squash        bool
	Abort         bool
}

// Result describes a completed merge.
type Result struct {
	Branch    string
	Conflicts []string
}

// Service merges branches.
type Service struct {
	repository *gitrepo.RepositoryManager
	prompter   prompt.Prompter
	renderer   *ui.Renderer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	repository, repositoryError := gitrepo.NewRepositoryManager(dependencies.GitExecutor, dependencies.WorkingDirectory)
	if repositoryError != nil {
		return nil, repositoryError
	}
	renderer := dependencies.Renderer
	if renderer == nil {
		renderer = ui.NewRenderer(nil, ui.NewPalette(false))
	}
	return &Service{repository: repository, prompter: dependencies.Prompter, renderer: renderer}, nil
}

// Merge merges the branch into the current branch. When git stops on conflicts the unmerged
// paths are listed and ErrMergeConflicts is returned with the paths in the result.
func (service *Service) Merge(executionContext context.Context, options Options) (Result, error) {
	if options.Abort {
		if _, abortError := service.repository.Run(executionContext, gitMergeSubcommandConstant, gitAbortFlagConstant); abortError != nil {
			return Result{}, fmt.Errorf(abortErrorTemplateConstant, abortError)
		}
		service.renderer.Success(abortedMessageConstant)
		return Result{}, nil
	}
	if options.NoFastForward && options.Squash {
		return Result{}, ErrConflictingStrategy
	}

	currentBranch, branchError := service.repository.CurrentBranch(executionContext)
	if branchError != nil {
		return Result{}, branchError
	}

	branch := strings.TrimSpace(options.Branch)
	if len(branch) == 0 {
		selected, selectError := service.selectBranch(executionContext, currentBranch)
		if selectError != nil || len(selected) == 0 {
			return Result{}, selectError
		}
		branch = selected

		if !options.NoFastForward && !options.Squash {
			strategy, strategyError := service.prompter.Select(strategyPromptConstant, strategyOptions)
			if strategyError != nil {
				return Result{}, strategyError
			}
			options.NoFastForward = strategy == strategyNoFastForwardValueConstant
			options.Squash = strategy == strategySquashValueConstant
		}
	}

	arguments := []string{gitMergeSubcommandConstant}
	switch {
	case options.NoFastForward:
		arguments = append(arguments, gitNoFastForwardFlagConstant)
	case options.Squash:
		arguments = append(arguments, gitSquashFlagConstant)
	}
	arguments = append(arguments, branch)

	if _, mergeError := service.repository.Run(executionContext, arguments...); mergeError != nil {
		conflicts := service.conflicts(executionContext)
		if len(conflicts) == 0 {
			return Result{Branch: branch}, fmt.Errorf(mergeErrorTemplateConstant, branch, mergeError)
		}
		service.renderer.List(conflictsTitleConstant, conflicts)
		service.renderer.Warning(conflictsHintConstant)
		return Result{Branch: branch, Conflicts: conflicts}, fmt.Errorf(conflictsTemplateConstant, ErrMergeConflicts, len(conflicts))
	}

	if options.Squash {
		service.renderer.Success(fmt.Sprintf(squashedTemplateConstant, branch))
	} else {
		service.renderer.Success(fmt.Sprintf(mergedTemplateConstant, branch, currentBranch))
	}
	return Result{Branch: branch}, nil
}

func (service *Service) selectBranch(executionContext context.Context, currentBranch string) (string, error) {
	branches, branchesError := service.repository.Branches(executionContext, true)
	if branchesError != nil {
		return "", branchesError
	}
	options := make([]prompt.Option, 0, len(branches))
	for _, branch := range branches {
		if branch.Current || branch.Detached || branch.Name == currentBranch {
			continue
		}
		hint := ""
		if branch.Remote {
			hint = "remote"
		}
		options = append(options, prompt.Option{Label: branch.Name, Value: branch.Name, Hint: hint})
	}
	if len(options) == 0 {
		service.renderer.Info(noBranchesMessageConstant)
		return "", nil
	}
	return service.prompter.Select(fmt.Sprintf(branchPromptConstant, currentBranch), options)
}

func (service *Service) conflicts(executionContext context.Context) []string {
	entries, statusError := service.repository.Status(executionContext)
	if statusError != nil {
		return nil
	}
	return gitrepo.ConflictedPaths(entries)
}
