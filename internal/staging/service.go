// Package staging moves changes between the working tree and the index.
package staging

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitAddSubcommandConstant          = "add"
	gitAllFlagConstant                = "-A"
	gitRestoreSubcommandConstant      = "restore"
	gitStagedFlagConstant             = "--staged"
	gitPathSeparatorConstant          = "--"
	gitCurrentDirectoryConstant       = "."
	stagePromptConstant               = "Select files to stage"
	unstagePromptConstant             = "Select files to unstage"
	actionPromptConstant              = "What next?"
	nothingToStageMessageConstant     = "Nothing to stage"
	nothingToUnstageMessageConstant   = "Nothing to unstage"
	noFilesSelectedMessageConstant    = "No files selected"
	stagedTemplateConstant            = "Staged %d path(s)"
	stagedAllMessageConstant          = "Staged all changes"
	unstagedTemplateConstant          = "Unstaged %d path(s)"
	unstagedAllMessageConstant        = "Unstaged all changes"
	stageErrorTemplateConstant        = "failed to stage changes: %w"
	unstageErrorTemplateConstant      = "failed to unstage changes: %w"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	actionStageValueConstant          = "stage"
	actionUnstageValueConstant        = "unstage"
	actionStageAllValueConstant       = "stage-all"
	actionUnstageAllValueConstant     = "unstage-all"
	actionDoneValueConstant           = "done"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

var stagingActions = []prompt.Option{
	{Label: "Stage files", Value: actionStageValueConstant},
	{Label: "Unstage files", Value: actionUnstageValueConstant},
	{Label: "Stage everything", Value: actionStageAllValueConstant},
	{Label: "Unstage everything", Value: actionUnstageAllValueConstant},
	{Label: "Done", Value: actionDoneValueConstant},
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// Options select what to move. Without paths and without All the user picks files.
type Options struct {
	Paths []string
	All   bool
}

// Service stages and unstages changes.
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

// Stage adds changes to the index.
func (service *Service) Stage(executionContext context.Context, options Options) error {
	if options.All {
		if _, stageError := service.repository.Run(executionContext, gitAddSubcommandConstant, gitAllFlagConstant); stageError != nil {
			return fmt.Errorf(stageErrorTemplateConstant, stageError)
		}
		service.renderer.Success(stagedAllMessageConstant)
		return nil
	}

	paths := options.Paths
	if len(paths) == 0 {
		selectedPaths, selectError := service.selectPaths(executionContext, stagePromptConstant, nothingToStageMessageConstant, gitrepo.FileStatusEntry.IsUnstaged)
		if selectError != nil || len(selectedPaths) == 0 {
			return selectError
		}
		paths = selectedPaths
	}

	arguments := append([]string{gitAddSubcommandConstant, gitAllFlagConstant, gitPathSeparatorConstant}, paths...)
	if _, stageError := service.repository.Run(executionContext, arguments...); stageError != nil {
		return fmt.Errorf(stageErrorTemplateConstant, stageError)
	}
	service.renderer.Success(fmt.Sprintf(stagedTemplateConstant, len(paths)))
	return nil
}

// Unstage removes changes from the index while keeping them in the working tree.
func (service *Service) Unstage(executionContext context.Context, options Options) error {
	paths := options.Paths
	if options.All {
		paths = []string{gitCurrentDirectoryConstant}
	} else if len(paths) == 0 {
		selectedPaths, selectError := service.selectPaths(executionContext, unstagePromptConstant, nothingToUnstageMessageConstant, gitrepo.FileStatusEntry.IsStaged)
		if selectError != nil || len(selectedPaths) == 0 {
			return selectError
		}
		paths = selectedPaths
	}

	arguments := append([]string{gitRestoreSubcommandConstant, gitStagedFlagConstant, gitPathSeparatorConstant}, paths...)
	if _, unstageError := service.repository.Run(executionContext, arguments...); unstageError != nil {
		return fmt.Errorf(unstageErrorTemplateConstant, unstageError)
	}
	if options.All {
		service.renderer.Success(unstagedAllMessageConstant)
	} else {
		service.renderer.Success(fmt.Sprintf(unstagedTemplateConstant, len(paths)))
	}
	return nil
}

// Interactive shows the status and applies staging actions until the user is done.
func (service *Service) Interactive(executionContext context.Context) error {
	for {
		entries, statusError := service.repository.Status(executionContext)
		if statusError != nil {
			return statusError
		}
		branch, _ := service.repository.CurrentBranch(executionContext)
		service.renderer.StatusSummary(branch, gitrepo.UpstreamCounts{}, entries)

		action, selectError := service.prompter.Select(actionPromptConstant, stagingActions)
		if selectError != nil {
			return selectError
		}

		var actionError error
		switch action {
		case actionStageValueConstant:
			actionError = service.Stage(executionContext, Options{})
		case actionUnstageValueConstant:
			actionError = service.Unstage(executionContext, Options{})
		case actionStageAllValueConstant:
			actionError = service.Stage(executionContext, Options{All: true})
		case actionUnstageAllValueConstant:
			actionError = service.Unstage(executionContext, Options{All: true})
		default:
			return nil
		}
		if actionError != nil && !prompt.IsCancelled(actionError) {
			return actionError
		}
	}
}

func (service *Service) selectPaths(executionContext context.Context, message string, emptyMessage string, include func(gitrepo.FileStatusEntry) bool) ([]string, error) {
	entries, statusError := service.repository.Status(executionContext)
	if statusError != nil {
		return nil, statusError
	}
	options := make([]prompt.Option, 0, len(entries))
	for _, entry := range entries {
		if !include(entry) {
			continue
		}
		options = append(options, prompt.Option{Label: entry.Path, Value: entry.Path, Hint: entry.StatusCode})
	}
	if len(options) == 0 {
		service.renderer.Info(emptyMessage)
		return nil, nil
	}
	selected, selectError := service.prompter.MultiSelect(message, options)
	if selectError != nil {
		return nil, selectError
	}
	if len(selected) == 0 {
		service.renderer.Info(noFilesSelectedMessageConstant)
	}
	return selected, nil
}
