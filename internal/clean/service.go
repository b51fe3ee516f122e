// Package clean removes untracked files after previewing them.
package clean

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitCleanSubcommandConstant        = "clean"
	gitDryRunFlagConstant             = "-n"
	gitForceFlagConstant              = "-f"
	gitDirectoriesFlagConstant        = "-d"
	gitIgnoredFlagConstant            = "-x"
	gitDoubleDashConstant             = "--"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	previewErrorTemplateConstant      = "failed to preview clean: %w"
	cleanErrorTemplateConstant        = "failed to remove untracked files: %w"
	previewTitleTemplateConstant      = "Untracked files to remove (%d)"
	nothingToCleanMessageConstant     = "Nothing to clean"
	nothingSelectedMessageConstant    = "Nothing selected"
	keptMessageConstant               = "Nothing removed"
	removedTemplateConstant           = "Removed %d path(s)"
	scopePromptConstant               = "What should be removed?"
	choosePromptConstant              = "Select paths to remove"
	confirmTemplateConstant           = "Permanently remove %d path(s)?"
	scopeAllValueConstant             = "all"
	scopeAllLabelConstant             = "Everything listed"
	scopeChooseValueConstant          = "choose"
	scopeChooseLabelConstant          = "Let me choose"
	scopeCancelValueConstant          = "cancel"
	scopeCancelLabelConstant          = "Cancel"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// Options configure a clean run. Force removes everything previewed without asking.
type Options struct {
	IncludeIgnored bool
	Force          bool
}

// Service removes untracked files.
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

// Preview lists the paths a clean would remove.
func (service *Service) Preview(executionContext context.Context, includeIgnored bool) ([]string, error) {
	arguments := []string{gitCleanSubcommandConstant, gitDryRunFlagConstant, gitDirectoriesFlagConstant}
	if includeIgnored {
		arguments = append(arguments, gitIgnoredFlagConstant)
	}
	result, previewError := service.repository.Run(executionContext, arguments...)
	if previewError != nil {
		return nil, fmt.Errorf(previewErrorTemplateConstant, previewError)
	}
	return gitrepo.ParseCleanPreview(result.StandardOutput), nil
}

// Clean previews untracked paths, lets the user pick what to remove and removes it.
func (service *Service) Clean(executionContext context.Context, options Options) ([]string, error) {
	candidates, previewError := service.Preview(executionContext, options.IncludeIgnored)
	if previewError != nil {
		return nil, previewError
	}
	if len(candidates) == 0 {
		service.renderer.Info(nothingToCleanMessageConstant)
		return nil, nil
	}
	service.renderer.List(fmt.Sprintf(previewTitleTemplateConstant, len(candidates)), candidates)

	selected := candidates
	if !options.Force {
		chosen, chooseError := service.choose(candidates)
		if chooseError != nil {
			return nil, chooseError
		}
		if len(chosen) == 0 {
			return nil, nil
		}
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(confirmTemplateConstant, len(chosen)), false)
		if confirmError != nil {
			return nil, confirmError
		}
		if !confirmed {
			service.renderer.Info(keptMessageConstant)
			return nil, nil
		}
		selected = chosen
	}

	arguments := []string{gitCleanSubcommandConstant, gitForceFlagConstant, gitDirectoriesFlagConstant}
	if options.IncludeIgnored {
		arguments = append(arguments, gitIgnoredFlagConstant)
	}
	arguments = append(arguments, gitDoubleDashConstant)
	arguments = append(arguments, selected...)
	result, cleanError := service.repository.Run(executionContext, arguments...)
	if cleanError != nil {
		return nil, fmt.Errorf(cleanErrorTemplateConstant, cleanError)
	}

	removed := gitrepo.ParseCleanPreview(result.StandardOutput)
	if len(removed) == 0 {
		removed = selected
	}
	service.renderer.Success(fmt.Sprintf(removedTemplateConstant, len(removed)))
	return removed, nil
}

func (service *Service) choose(candidates []string) ([]string, error) {
	scope, scopeError := service.prompter.Select(scopePromptConstant, []prompt.Option{
		{Label: scopeAllLabelConstant, Value: scopeAllValueConstant},
		{Label: scopeChooseLabelConstant, Value: scopeChooseValueConstant},
		{Label: scopeCancelLabelConstant, Value: scopeCancelValueConstant},
	})
	if scopeError != nil {
		return nil, scopeError
	}
	switch scope {
	case scopeAllValueConstant:
		return candidates, nil
	case scopeCancelValueConstant:
		service.renderer.Info(keptMessageConstant)
		return nil, nil
	}

	choices := make([]prompt.Option, 0, len(candidates))
	for _, candidate := range candidates {
		choices = append(choices, prompt.Option{Label: candidate, Value: candidate})
	}
	chosen, chooseError := service.prompter.MultiSelect(choosePromptConstant, choices)
	if chooseError != nil {
		return nil, chooseError
	}
	if len(chosen) == 0 {
		service.renderer.Info(nothingSelectedMessageConstant)
	}
	return chosen, nil
}
