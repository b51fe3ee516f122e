package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/execshell"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitBranchSubcommandConstant         = "branch"
	gitSwitchSubcommandConstant         = "switch"
	gitCreateFlagConstant               = "-c"
	gitDeleteFlagConstant               = "-d"
	gitForceDeleteFlagConstant          = "-D"
	gitMoveFlagConstant                 = "-m"
	gitCheckRefFormatSubcommandConstant = "check-ref-format"
	gitBranchFlagConstant               = "--branch"
	notFullyMergedMarkerConstant        = "not fully merged"
	gitExecutorMissingMessageConstant   = "git executor not configured"
	prompterMissingMessageConstant      = "prompter not configured"
	protectedBranchMessageConstant      = "branch is protected"
	protectedBranchTemplateConstant     = "%w: %s"
	currentBranchDeleteTemplateConstant = "cannot delete the checked out branch %q"
	branchNameRequiredMessageConstant   = "branch name is required"
	invalidBranchNameTemplateConstant   = "invalid branch name %q"
	noBranchesMessageConstant           = "No other local branches"
	createErrorTemplateConstant         = "failed to create branch %q: %w"
	switchErrorTemplateConstant         = "failed to switch to branch %q: %w"
	deleteErrorTemplateConstant         = "failed to delete branch %q: %w"
	renameErrorTemplateConstant         = "failed to rename branch %q: %w"
	createdTemplateConstant             = "Created branch %s"
	createdAndSwitchedTemplateConstant  = "Created and switched to branch %s"
	switchedTemplateConstant            = "Switched to branch %s"
	deletedTemplateConstant             = "Deleted branch %s"
	renamedTemplateConstant             = "Renamed branch %s to %s"
	keptTemplateConstant                = "Kept branch %s"
	switchPromptConstant                = "Switch to branch"
	deletePromptConstant                = "Delete branch"
	renamePromptConstant                = "Branch to rename"
	newNamePromptConstant               = "New branch name"
	startPointPromptConstant            = "Start point (empty for HEAD)"
	createMissingPromptTemplateConstant = "Branch %s does not exist. Create it?"
	deleteConfirmTemplateConstant       = "Delete branch %s?"
	forceDeleteConfirmTemplateConstant  = "Branch %s is not fully merged. Delete it anyway?"
	switchAfterCreatePromptConstant     = "Switch to the new branch?"
	actionPromptConstant                = "Branch action"
	actionListValueConstant             = "list"
	actionCreateValueConstant           = "create"
	actionSwitchValueConstant           = "switch"
	actionDeleteValueConstant           = "delete"
	actionRenameValueConstant           = "rename"
	actionDoneValueConstant             = "done"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrBranchNameRequired indicates an operation received an empty branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrProtectedBranch indicates a delete targeted a protected branch.
var ErrProtectedBranch = errors.New(protectedBranchMessageConstant)

var branchActions = []prompt.Option{
	{Label: "List branches", Value: actionListValueConstant},
	{Label: "Create a branch", Value: actionCreateValueConstant},
	{Label: "Switch branch", Value: actionSwitchValueConstant},
	{Label: "Delete a branch", Value: actionDeleteValueConstant},
	{Label: "Rename a branch", Value: actionRenameValueConstant},
	{Label: "Done", Value: actionDoneValueConstant},
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	Settings         config.BranchSettings
	WorkingDirectory string
}

// CreateOptions configure branch creation. An empty Name is prompted for.
type CreateOptions struct {
	Name       string
	StartPoint string
	Switch     bool
}

// SwitchOptions configure a branch switch. An empty Name selects from local branches.
type SwitchOptions struct {
	Name            string
	CreateIfMissing bool
	AssumeYes       bool
}

// DeleteOptions configure a branch deletion. An empty Name selects from local branches.
type DeleteOptions struct {
	Name      string
	Force     bool
	AssumeYes bool
}

// Service performs branch operations.
type Service struct {
	repository *gitrepo.RepositoryManager
	prompter   prompt.Prompter
	renderer   *ui.Renderer
	settings   config.BranchSettings
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
	return &Service{repository: repository, prompter: dependencies.Prompter, renderer: renderer, settings: dependencies.Settings}, nil
}

// List renders local branches, and remote-tracking branches when includeRemote is set.
func (service *Service) List(executionContext context.Context, includeRemote bool) error {
	branches, branchesError := service.repository.Branches(executionContext, includeRemote)
	if branchesError != nil {
		return branchesError
	}
	service.renderer.BranchTable(branches)
	return nil
}

// Create makes a new branch and optionally switches to it.
func (service *Service) Create(executionContext context.Context, options CreateOptions) error {
	name := strings.TrimSpace(options.Name)
	startPoint := strings.TrimSpace(options.StartPoint)
	switchAfter := options.Switch
	if len(name) == 0 {
		promptedName, nameError := service.promptBranchName(executionContext, newNamePromptConstant, "")
		if nameError != nil {
			return nameError
		}
		name = promptedName
		promptedStart, startError := service.prompter.Text(startPointPromptConstant, prompt.TextSettings{})
		if startError != nil {
			return startError
		}
		startPoint = strings.TrimSpace(promptedStart)
		if !switchAfter {
			confirmed, confirmError := service.prompter.Confirm(switchAfterCreatePromptConstant, true)
			if confirmError != nil {
				return confirmError
			}
			switchAfter = confirmed
		}
	}

	arguments := []string{gitBranchSubcommandConstant, name}
	if switchAfter {
		arguments = []string{gitSwitchSubcommandConstant, gitCreateFlagConstant, name}
	}
	if len(startPoint) > 0 {
		arguments = append(arguments, startPoint)
	}
	if _, createError := service.repository.Run(executionContext, arguments...); createError != nil {
		return fmt.Errorf(createErrorTemplateConstant, name, createError)
	}
	if switchAfter {
		service.renderer.Success(fmt.Sprintf(createdAndSwitchedTemplateConstant, name))
	} else {
		service.renderer.Success(fmt.Sprintf(createdTemplateConstant, name))
	}
	return nil
}

// Switch checks out a branch, offering to create it when it does not exist locally or on a remote.
func (service *Service) Switch(executionContext context.Context, options SwitchOptions) error {
	branches, branchesError := service.repository.Branches(executionContext, true)
	if branchesError != nil {
		return branchesError
	}

	name := strings.TrimSpace(options.Name)
	if len(name) == 0 {
		selected, selectError := service.selectBranch(branches, switchPromptConstant)
		if selectError != nil || len(selected) == 0 {
			return selectError
		}
		name = selected
	}

	arguments := []string{gitSwitchSubcommandConstant, name}
	created := false
	if !ContainsLocalOrRemote(branches, name) {
		create := options.CreateIfMissing || options.AssumeYes
		if !create {
			confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(createMissingPromptTemplateConstant, name), true)
			if confirmError != nil {
				return confirmError
			}
			if !confirmed {
				return nil
			}
		}
		arguments = []string{gitSwitchSubcommandConstant, gitCreateFlagConstant, name}
		created = true
	}

	if _, switchError := service.repository.Run(executionContext, arguments...); switchError != nil {
		return fmt.Errorf(switchErrorTemplateConstant, name, switchError)
	}
	if created {
		service.renderer.Success(fmt.Sprintf(createdAndSwitchedTemplateConstant, name))
	} else {
		service.renderer.Success(fmt.Sprintf(switchedTemplateConstant, name))
	}
	return nil
}

// Delete removes a local branch. Protected and checked out branches are refused.
// An unmerged branch is deleted only with Force or after an explicit confirmation.
func (service *Service) Delete(executionContext context.Context, options DeleteOptions) error {
	branches, branchesError := service.repository.Branches(executionContext, false)
	if branchesError != nil {
		return branchesError
	}

	name := strings.TrimSpace(options.Name)
	if len(name) == 0 {
		selected, selectError := service.selectBranch(branches, deletePromptConstant)
		if selectError != nil || len(selected) == 0 {
			return selectError
		}
		name = selected
	}

	if service.settings.IsProtectedBranch(name) {
		return fmt.Errorf(protectedBranchTemplateConstant, ErrProtectedBranch, name)
	}
	for _, branch := range branches {
		if branch.Current && branch.Name == name {
			return fmt.Errorf(currentBranchDeleteTemplateConstant, name)
		}
	}

	if !options.AssumeYes {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(deleteConfirmTemplateConstant, name), false)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.renderer.Info(fmt.Sprintf(keptTemplateConstant, name))
			return nil
		}
	}

	deleteFlag := gitDeleteFlagConstant
	if options.Force {
		deleteFlag = gitForceDeleteFlagConstant
	}
	_, deleteError := service.repository.Run(executionContext, gitBranchSubcommandConstant, deleteFlag, name)
	if deleteError != nil && !options.Force && strings.Contains(execshell.FailureOutput(deleteError), notFullyMergedMarkerConstant) {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(forceDeleteConfirmTemplateConstant, name), false)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.renderer.Info(fmt.Sprintf(keptTemplateConstant, name))
			return nil
		}
		_, deleteError = service.repository.Run(executionContext, gitBranchSubcommandConstant, gitForceDeleteFlagConstant, name)
	}
	if deleteError != nil {
		return fmt.Errorf(deleteErrorTemplateConstant, name, deleteError)
	}
	service.renderer.Success(fmt.Sprintf(deletedTemplateConstant, name))
	return nil
}

// Rename moves a branch to a new name. An empty oldName selects a branch; an empty newName is prompted for.
func (service *Service) Rename(executionContext context.Context, oldName string, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if len(oldName) == 0 {
		branches, branchesError := service.repository.Branches(executionContext, false)
		if branchesError != nil {
			return branchesError
		}
		selected, selectError := service.selectAnyBranch(branches, renamePromptConstant)
		if selectError != nil || len(selected) == 0 {
			return selectError
		}
		oldName = selected
	}
	if len(newName) == 0 {
		promptedName, nameError := service.promptBranchName(executionContext, newNamePromptConstant, oldName)
		if nameError != nil {
			return nameError
		}
		newName = promptedName
	}

	if _, renameError := service.repository.Run(executionContext, gitBranchSubcommandConstant, gitMoveFlagConstant, oldName, newName); renameError != nil {
		return fmt.Errorf(renameErrorTemplateConstant, oldName, renameError)
	}
	service.renderer.Success(fmt.Sprintf(renamedTemplateConstant, oldName, newName))
	return nil
}

// Interactive shows a branch menu until the user is done.
func (service *Service) Interactive(executionContext context.Context) error {
	for {
		action, selectError := service.prompter.Select(actionPromptConstant, branchActions)
		if selectError != nil {
			return selectError
		}

		var actionError error
		switch action {
		case actionListValueConstant:
			actionError = service.List(executionContext, false)
		case actionCreateValueConstant:
			actionError = service.Create(executionContext, CreateOptions{})
		case actionSwitchValueConstant:
			actionError = service.Switch(executionContext, SwitchOptions{})
		case actionDeleteValueConstant:
			actionError = service.Delete(executionContext, DeleteOptions{})
		case actionRenameValueConstant:
			actionError = service.Rename(executionContext, "", "")
		default:
			return nil
		}
		if actionError == nil || prompt.IsCancelled(actionError) {
			continue
		}
		service.renderer.Error(actionError.Error())
	}
}

// ContainsLocalOrRemote reports whether name is a local branch or a branch on any remote.
func ContainsLocalOrRemote(branches []gitrepo.Branch, name string) bool {
	if gitrepo.ContainsBranch(branches, name) {
		return true
	}
	for _, branch := range branches {
		if !branch.Remote {
			continue
		}
		if separatorIndex := strings.Index(branch.Name, "/"); separatorIndex >= 0 && branch.Name[separatorIndex+1:] == name {
			return true
		}
	}
	return false
}

func (service *Service) selectBranch(branches []gitrepo.Branch, message string) (string, error) {
	options := make([]prompt.Option, 0, len(branches))
	for _, branch := range branches {
		if branch.Current || branch.Remote || branch.Detached {
			continue
		}
		options = append(options, prompt.Option{Label: branch.Name, Value: branch.Name})
	}
	if len(options) == 0 {
		service.renderer.Info(noBranchesMessageConstant)
		return "", nil
	}
	return service.prompter.Select(message, options)
}

func (service *Service) selectAnyBranch(branches []gitrepo.Branch, message string) (string, error) {
	names := gitrepo.LocalBranchNames(branches)
	if len(names) == 0 {
		service.renderer.Info(noBranchesMessageConstant)
		return "", nil
	}
	return service.prompter.Select(message, prompt.OptionsFromValues(names))
}

func (service *Service) promptBranchName(executionContext context.Context, message string, defaultValue string) (string, error) {
	name, textError := service.prompter.Text(message, prompt.TextSettings{
		Default: defaultValue,
		Validate: func(value string) error {
			return service.validateBranchName(executionContext, value)
		},
	})
	if textError != nil {
		return "", textError
	}
	return strings.TrimSpace(name), nil
}

func (service *Service) validateBranchName(executionContext context.Context, value string) error {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return ErrBranchNameRequired
	}
	if _, formatError := service.repository.Run(executionContext, gitCheckRefFormatSubcommandConstant, gitBranchFlagConstant, trimmed); formatError != nil {
		return fmt.Errorf(invalidBranchNameTemplateConstant, trimmed)
	}
	return nil
}
