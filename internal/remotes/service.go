package remotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitRemoteSubcommandConstant       = "remote"
	gitAddSubcommandConstant          = "add"
	gitRemoveSubcommandConstant       = "remove"
	gitRenameSubcommandConstant       = "rename"
	gitSetURLSubcommandConstant       = "set-url"
	gitPushSubcommandConstant         = "push"
	gitPullSubcommandConstant         = "pull"
	gitSetUpstreamFlagConstant        = "--set-upstream"
	gitForceWithLeaseFlagConstant     = "--force-with-lease"
	gitFollowTagsFlagConstant         = "--follow-tags"
	gitRebaseFlagConstant             = "--rebase"
	detachedHeadConstant              = "HEAD"
	upstreamLabelConstant             = "its upstream"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	noRemoteMessageConstant           = "no remote configured; add one with wgit remote add"
	detachedHeadMessageConstant       = "cannot push a detached HEAD"
	nameRequiredMessageConstant       = "remote name is required"
	conflictsMessageConstant          = "pull stopped with conflicts"
	conflictsTemplateConstant         = "%w in %d file(s)"
	remoteErrorTemplateConstant       = "failed to %s remote %q: %w"
	pushErrorTemplateConstant         = "failed to push %s to %s: %w"
	pullErrorTemplateConstant         = "failed to pull: %w"
	noRemotesMessageConstant          = "No remotes configured"
	addedTemplateConstant             = "Added remote %s (%s)"
	removedTemplateConstant           = "Removed remote %s"
	renamedTemplateConstant           = "Renamed remote %s to %s"
	urlUpdatedTemplateConstant        = "Remote %s now points to %s"
	pushedTemplateConstant            = "Pushed %s to %s"
	upstreamSetTemplateConstant       = "Pushed %s to %s and set it as upstream"
	pulledMessageConstant             = "Pulled latest changes"
	keptTemplateConstant              = "Kept remote %s"
	namePromptConstant                = "Remote name"
	urlPromptConstant                 = "Remote URL"
	selectRemotePromptConstant        = "Which remote?"
	newNamePromptConstant             = "New remote name"
	removeConfirmTemplateConstant     = "Remove remote %s?"
	conflictsTitleConstant            = "Conflicts"
	conflictsHintConstant             = "Resolve the conflicts and continue with wgit rebase --continue or commit the merge"
	operationAddConstant              = "add"
	operationRemoveConstant           = "remove"
	operationRenameConstant           = "rename"
	operationSetURLConstant           = "update"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrNoRemote indicates a push was requested without any remote.
var ErrNoRemote = errors.New(noRemoteMessageConstant)

// ErrDetachedHead indicates a push was requested while HEAD is detached.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// ErrNameRequired indicates an empty remote name.
var ErrNameRequired = errors.New(nameRequiredMessageConstant)

// ErrPullConflicts indicates a pull stopped with unmerged paths.
var ErrPullConflicts = errors.New(conflictsMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	Settings         config.BranchSettings
	WorkingDirectory string
}

// PushOptions configure a push. An empty Remote resolves to the configured default remote.
type PushOptions struct {
	Remote         string
	ForceWithLease bool
	FollowTags     bool
}

// PullOptions configure a pull. Remote and Branch are passed through when set.
type PullOptions struct {
	Remote string
	Branch string
	Rebase bool
}

// Service manages remotes.
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

// List renders configured remotes with their parsed host and repository.
func (service *Service) List(executionContext context.Context) error {
	remotes, remotesError := service.repository.Remotes(executionContext)
	if remotesError != nil {
		return remotesError
	}
	if len(remotes) == 0 {
		service.renderer.Info(noRemotesMessageConstant)
		return nil
	}
	service.renderer.RemoteTable(remotes)
	return nil
}

// Add registers a remote, prompting for a missing name or URL.
func (service *Service) Add(executionContext context.Context, name string, remoteURL string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		promptedName, nameError := service.prompter.Text(namePromptConstant, prompt.TextSettings{Default: service.settings.DefaultRemote, Validate: validateName})
		if nameError != nil {
			return nameError
		}
		name = strings.TrimSpace(promptedName)
	}
	remoteURL = strings.TrimSpace(remoteURL)
	if len(remoteURL) == 0 {
		promptedURL, urlError := service.prompter.Text(urlPromptConstant, prompt.TextSettings{Validate: validateURL})
		if urlError != nil {
			return urlError
		}
		remoteURL = strings.TrimSpace(promptedURL)
	}

	if _, addError := service.repository.Run(executionContext, gitRemoteSubcommandConstant, gitAddSubcommandConstant, name, remoteURL); addError != nil {
		return fmt.Errorf(remoteErrorTemplateConstant, operationAddConstant, name, addError)
	}
	service.renderer.Success(fmt.Sprintf(addedTemplateConstant, name, remoteURL))
	return nil
}

// Remove deletes a remote after confirmation unless assumeYes is set.
func (service *Service) Remove(executionContext context.Context, name string, assumeYes bool) error {
	name, selectError := service.resolveRemoteName(executionContext, name)
	if selectError != nil || len(name) == 0 {
		return selectError
	}
	if !assumeYes {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(removeConfirmTemplateConstant, name), false)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.renderer.Info(fmt.Sprintf(keptTemplateConstant, name))
			return nil
		}
	}
	if _, removeError := service.repository.Run(executionContext, gitRemoteSubcommandConstant, gitRemoveSubcommandConstant, name); removeError != nil {
		return fmt.Errorf(remoteErrorTemplateConstant, operationRemoveConstant, name, removeError)
	}
	service.renderer.Success(fmt.Sprintf(removedTemplateConstant, name))
	return nil
}

// Rename changes a remote's name.
func (service *Service) Rename(executionContext context.Context, oldName string, newName string) error {
	oldName, selectError := service.resolveRemoteName(executionContext, oldName)
	if selectError != nil || len(oldName) == 0 {
		return selectError
	}
	newName = strings.TrimSpace(newName)
	if len(newName) == 0 {
		promptedName, nameError := service.prompter.Text(newNamePromptConstant, prompt.TextSettings{Validate: validateName})
		if nameError != nil {
			return nameError
		}
		newName = strings.TrimSpace(promptedName)
	}
	if _, renameError := service.repository.Run(executionContext, gitRemoteSubcommandConstant, gitRenameSubcommandConstant, oldName, newName); renameError != nil {
		return fmt.Errorf(remoteErrorTemplateConstant, operationRenameConstant, oldName, renameError)
	}
	service.renderer.Success(fmt.Sprintf(renamedTemplateConstant, oldName, newName))
	return nil
}

// SetURL points a remote at a new URL.
func (service *Service) SetURL(executionContext context.Context, name string, remoteURL string) error {
	name, selectError := service.resolveRemoteName(executionContext, name)
	if selectError != nil || len(name) == 0 {
		return selectError
	}
	remoteURL = strings.TrimSpace(remoteURL)
	if len(remoteURL) == 0 {
		promptedURL, urlError := service.prompter.Text(urlPromptConstant, prompt.TextSettings{Validate: validateURL})
		if urlError != nil {
			return urlError
		}
		remoteURL = strings.TrimSpace(promptedURL)
	}
	if _, setError := service.repository.Run(executionContext, gitRemoteSubcommandConstant, gitSetURLSubcommandConstant, name, remoteURL); setError != nil {
		return fmt.Errorf(remoteErrorTemplateConstant, operationSetURLConstant, name, setError)
	}
	service.renderer.Success(fmt.Sprintf(urlUpdatedTemplateConstant, name, remoteURL))
	return nil
}

// Push sends the current branch. A branch without an upstream is pushed with --set-upstream to the default remote.
func (service *Service) Push(executionContext context.Context, options PushOptions) error {
	branch, branchError := service.repository.CurrentBranch(executionContext)
	if branchError != nil {
		return branchError
	}
	if branch == detachedHeadConstant {
		return ErrDetachedHead
	}

	arguments := []string{gitPushSubcommandConstant}
	if options.ForceWithLease {
		arguments = append(arguments, gitForceWithLeaseFlagConstant)
	}
	if options.FollowTags {
		arguments = append(arguments, gitFollowTagsFlagConstant)
	}

	remote := strings.TrimSpace(options.Remote)
	setUpstream := len(remote) > 0 || !service.repository.HasUpstream(executionContext)
	if setUpstream {
		if len(remote) == 0 {
			remotes, remotesError := service.repository.Remotes(executionContext)
			if remotesError != nil {
				return remotesError
			}
			if len(remotes) == 0 {
				return ErrNoRemote
			}
			remote = service.repository.DefaultRemote(executionContext, service.settings.DefaultRemote)
		}
		arguments = append(arguments, gitSetUpstreamFlagConstant, remote, branch)
	}

	if _, pushError := service.repository.Run(executionContext, arguments...); pushError != nil {
		target := remote
		if len(target) == 0 {
			target = upstreamLabelConstant
		}
		return fmt.Errorf(pushErrorTemplateConstant, branch, target, pushError)
	}
	if setUpstream {
		service.renderer.Success(fmt.Sprintf(upstreamSetTemplateConstant, branch, remote))
	} else {
		service.renderer.Success(fmt.Sprintf(pushedTemplateConstant, branch, upstreamLabelConstant))
	}
	return nil
}

// Pull fetches and integrates upstream changes, listing conflicts when git stops.
func (service *Service) Pull(executionContext context.Context, options PullOptions) error {
	arguments := []string{gitPullSubcommandConstant}
	if options.Rebase {
		arguments = append(arguments, gitRebaseFlagConstant)
	}
	if remote := strings.TrimSpace(options.Remote); len(remote) > 0 {
		arguments = append(arguments, remote)
		if branch := strings.TrimSpace(options.Branch); len(branch) > 0 {
			arguments = append(arguments, branch)
		}
	}

	if _, pullError := service.repository.Run(executionContext, arguments...); pullError != nil {
		entries, statusError := service.repository.Status(executionContext)
		if statusError == nil {
			if conflicts := gitrepo.ConflictedPaths(entries); len(conflicts) > 0 {
				service.renderer.List(conflictsTitleConstant, conflicts)
				service.renderer.Warning(conflictsHintConstant)
				return fmt.Errorf(conflictsTemplateConstant, ErrPullConflicts, len(conflicts))
			}
		}
		return fmt.Errorf(pullErrorTemplateConstant, pullError)
	}
	service.renderer.Success(pulledMessageConstant)
	return nil
}

func (service *Service) resolveRemoteName(executionContext context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) > 0 {
		return name, nil
	}
	remotes, remotesError := service.repository.Remotes(executionContext)
	if remotesError != nil {
		return "", remotesError
	}
	if len(remotes) == 0 {
		service.renderer.Info(noRemotesMessageConstant)
		return "", nil
	}
	options := make([]prompt.Option, 0, len(remotes))
	for _, remote := range remotes {
		options = append(options, prompt.Option{Label: remote.Name, Value: remote.Name, Hint: remote.FetchURL})
	}
	return service.prompter.Select(selectRemotePromptConstant, options)
}

func validateName(value string) error {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 || strings.ContainsAny(trimmed, " \t") {
		return ErrNameRequired
	}
	return nil
}

func validateURL(value string) error {
	_, parseError := gitrepo.ParseRemoteURL(value)
	return parseError
}
