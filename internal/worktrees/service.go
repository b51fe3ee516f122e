// Package worktrees manages additional working trees attached to the repository.
package worktrees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
	pathutils "github.com/temirov/wgit/internal/utils/path"
)

const (
	gitWorktreeSubcommandConstant     = "worktree"
	gitListSubcommandConstant         = "list"
	gitAddSubcommandConstant          = "add"
	gitRemoveSubcommandConstant       = "remove"
	gitPruneSubcommandConstant        = "prune"
	gitPorcelainFlagConstant          = "--porcelain"
	gitNewBranchFlagConstant          = "-b"
	gitForceFlagConstant              = "--force"
	gitVerboseFlagConstant            = "-v"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	pathRequiredMessageConstant       = "worktree path is required"
	branchRequiredMessageConstant     = "branch name is required"
	mainWorktreeMessageConstant       = "the main worktree cannot be removed"
	listErrorTemplateConstant         = "failed to list worktrees: %w"
	addErrorTemplateConstant          = "failed to add worktree at %s: %w"
	removeErrorTemplateConstant       = "failed to remove worktree %s: %w"
	pruneErrorTemplateConstant        = "failed to prune worktrees: %w"
	addedTemplateConstant             = "Added worktree %s"
	addedOnBranchTemplateConstant     = "Added worktree %s on branch %s"
	removedTemplateConstant           = "Removed worktree %s"
	keptTemplateConstant              = "Kept worktree %s"
	prunedMessageConstant             = "Pruned stale worktree metadata"
	noLinkedWorktreesMessageConstant  = "No linked worktrees"
	pathPromptConstant                = "Worktree path"
	branchPromptConstant              = "Branch for the new worktree"
	newBranchPromptConstant           = "New branch name"
	removePromptConstant              = "Remove which worktree?"
	removeConfirmTemplateConstant     = "Remove worktree %s?"
	newBranchOptionValueConstant      = "\x00new"
	newBranchOptionLabelConstant      = "Create a new branch"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrPathRequired indicates an empty worktree path.
var ErrPathRequired = errors.New(pathRequiredMessageConstant)

// ErrBranchRequired indicates an empty branch name for a new worktree branch.
var ErrBranchRequired = errors.New(branchRequiredMessageConstant)

// ErrMainWorktree indicates an attempt to remove the main worktree.
var ErrMainWorktree = errors.New(mainWorktreeMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	HomeExpander     *pathutils.HomeExpander
	WorkingDirectory string
}

// AddOptions configure a new worktree. NewBranch creates Branch instead of checking it out.
// With an empty Path both the path and the branch are prompted for.
type AddOptions struct {
	Path      string
	Branch    string
	NewBranch bool
}

// RemoveOptions configure a worktree removal. An empty Path selects among linked worktrees.
type RemoveOptions struct {
	Path      string
	Force     bool
	AssumeYes bool
}

// Service manages worktrees.
type Service struct {
	repository   *gitrepo.RepositoryManager
	prompter     prompt.Prompter
	renderer     *ui.Renderer
	homeExpander *pathutils.HomeExpander
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
	homeExpander := dependencies.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	return &Service{repository: repository, prompter: dependencies.Prompter, renderer: renderer, homeExpander: homeExpander}, nil
}

// Worktrees returns the parsed porcelain worktree list; the first entry is the main worktree.
func (service *Service) Worktrees(executionContext context.Context) ([]gitrepo.Worktree, error) {
	result, listError := service.repository.Run(executionContext, gitWorktreeSubcommandConstant, gitListSubcommandConstant, gitPorcelainFlagConstant)
	if listError != nil {
		return nil, fmt.Errorf(listErrorTemplateConstant, listError)
	}
	return gitrepo.ParseWorktrees(result.StandardOutput), nil
}

// List renders every worktree.
func (service *Service) List(executionContext context.Context) error {
	worktrees, listError := service.Worktrees(executionContext)
	if listError != nil {
		return listError
	}
	service.renderer.WorktreeTable(worktrees)
	return nil
}

// Add creates a worktree at the path, checking out or creating the branch.
func (service *Service) Add(executionContext context.Context, options AddOptions) error {
	if len(strings.TrimSpace(options.Path)) == 0 {
		prompted, promptError := service.promptAddOptions(executionContext)
		if promptError != nil {
			return promptError
		}
		options = prompted
	}

	path := service.homeExpander.Expand(options.Path)
	branch := strings.TrimSpace(options.Branch)
	arguments := []string{gitWorktreeSubcommandConstant, gitAddSubcommandConstant}
	if options.NewBranch && len(branch) > 0 {
		arguments = append(arguments, gitNewBranchFlagConstant, branch, path)
	} else {
		arguments = append(arguments, path)
		if len(branch) > 0 {
			arguments = append(arguments, branch)
		}
	}

	if _, addError := service.repository.Run(executionContext, arguments...); addError != nil {
		return fmt.Errorf(addErrorTemplateConstant, path, addError)
	}
	if len(branch) > 0 {
		service.renderer.Success(fmt.Sprintf(addedOnBranchTemplateConstant, path, branch))
	} else {
		service.renderer.Success(fmt.Sprintf(addedTemplateConstant, path))
	}
	return nil
}

// Remove deletes a linked worktree after confirmation unless AssumeYes is set.
func (service *Service) Remove(executionContext context.Context, options RemoveOptions) error {
	path := strings.TrimSpace(options.Path)
	if len(path) == 0 {
		worktrees, listError := service.Worktrees(executionContext)
		if listError != nil {
			return listError
		}
		if len(worktrees) < 2 {
			service.renderer.Info(noLinkedWorktreesMessageConstant)
			return nil
		}
		choices := make([]prompt.Option, 0, len(worktrees)-1)
		for _, worktree := range worktrees[1:] {
			choices = append(choices, prompt.Option{Label: worktree.Path, Value: worktree.Path, Hint: worktree.Branch})
		}
		selected, selectError := service.prompter.Select(removePromptConstant, choices)
		if selectError != nil {
			return selectError
		}
		path = selected
	} else {
		path = service.homeExpander.Expand(path)
		worktrees, listError := service.Worktrees(executionContext)
		if listError != nil {
			return listError
		}
		if len(worktrees) > 0 && worktrees[0].Path == path {
			return ErrMainWorktree
		}
	}

	if !options.AssumeYes {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(removeConfirmTemplateConstant, path), false)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.renderer.Info(fmt.Sprintf(keptTemplateConstant, path))
			return nil
		}
	}

	arguments := []string{gitWorktreeSubcommandConstant, gitRemoveSubcommandConstant}
	if options.Force {
		arguments = append(arguments, gitForceFlagConstant)
	}
	arguments = append(arguments, path)
	if _, removeError := service.repository.Run(executionContext, arguments...); removeError != nil {
		return fmt.Errorf(removeErrorTemplateConstant, path, removeError)
	}
	service.renderer.Success(fmt.Sprintf(removedTemplateConstant, path))
	return nil
}

// Prune drops administrative data for worktrees whose directories no longer exist.
func (service *Service) Prune(executionContext context.Context) error {
	result, pruneError := service.repository.Run(executionContext, gitWorktreeSubcommandConstant, gitPruneSubcommandConstant, gitVerboseFlagConstant)
	if pruneError != nil {
		return fmt.Errorf(pruneErrorTemplateConstant, pruneError)
	}
	if details := strings.TrimSpace(result.StandardOutput + result.StandardError); len(details) > 0 {
		service.renderer.Block(details)
	}
	service.renderer.Success(prunedMessageConstant)
	return nil
}

func (service *Service) promptAddOptions(executionContext context.Context) (AddOptions, error) {
	path, pathError := service.prompter.Text(pathPromptConstant, prompt.TextSettings{Validate: validatePath})
	if pathError != nil {
		return AddOptions{}, pathError
	}

	branches, branchesError := service.repository.Branches(executionContext, false)
	if branchesError != nil {
		return AddOptions{}, branchesError
	}
	choices := []prompt.Option{{Label: newBranchOptionLabelConstant, Value: newBranchOptionValueConstant}}
	for _, branch := range branches {
		if branch.Current || branch.Detached || branch.CheckedOutElsewhere {
			continue
		}
		choices = append(choices, prompt.Option{Label: branch.Name, Value: branch.Name})
	}
	selected, selectError := service.prompter.Select(branchPromptConstant, choices)
	if selectError != nil {
		return AddOptions{}, selectError
	}
	if selected != newBranchOptionValueConstant {
		return AddOptions{Path: path, Branch: selected}, nil
	}

	newBranch, branchError := service.prompter.Text(newBranchPromptConstant, prompt.TextSettings{Validate: validateBranch})
	if branchError != nil {
		return AddOptions{}, branchError
	}
	return AddOptions{Path: path, Branch: strings.TrimSpace(newBranch), NewBranch: true}, nil
}

func validatePath(value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return ErrPathRequired
	}
	return nil
}

func validateBranch(value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return ErrBranchRequired
	}
	return nil
}
