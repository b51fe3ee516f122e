// Package submodules lists, adds, updates and synchronizes git submodules.
package submodules

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
	gitSubmoduleSubcommandConstant    = "submodule"
	gitStatusSubcommandConstant       = "status"
	gitAddSubcommandConstant          = "add"
	gitUpdateSubcommandConstant       = "update"
	gitSyncSubcommandConstant         = "sync"
	gitInitFlagConstant               = "--init"
	gitRecursiveFlagConstant          = "--recursive"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	pathRequiredMessageConstant       = "submodule path is required"
	listErrorTemplateConstant         = "failed to list submodules: %w"
	addErrorTemplateConstant          = "failed to add submodule %s: %w"
	updateErrorTemplateConstant       = "failed to update submodules: %w"
	syncErrorTemplateConstant         = "failed to sync submodules: %w"
	noSubmodulesMessageConstant       = "No submodules"
	addedTemplateConstant             = "Added submodule %s at %s"
	updatedMessageConstant            = "Submodules initialized and updated"
	syncedMessageConstant             = "Submodule URLs synchronized"
	urlPromptConstant                 = "Repository URL"
	pathPromptConstant                = "Path"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrPathRequired indicates an empty submodule path.
var ErrPathRequired = errors.New(pathRequiredMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// Service manages submodules.
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

// List renders each submodule with its recorded commit and checkout state.
func (service *Service) List(executionContext context.Context) error {
	result, statusError := service.repository.Run(executionContext, gitSubmoduleSubcommandConstant, gitStatusSubcommandConstant)
	if statusError != nil {
		return fmt.Errorf(listErrorTemplateConstant, statusError)
	}
	submodules := gitrepo.ParseSubmodules(result.StandardOutput)
	if len(submodules) == 0 {
		service.renderer.Info(noSubmodulesMessageConstant)
		return nil
	}
	service.renderer.SubmoduleTable(submodules)
	return nil
}

// Add registers a repository as a submodule. Missing values are prompted for; the path defaults to the repository name.
func (service *Service) Add(executionContext context.Context, repositoryURL string, path string) error {
	repositoryURL = strings.TrimSpace(repositoryURL)
	if len(repositoryURL) == 0 {
		promptedURL, urlError := service.prompter.Text(urlPromptConstant, prompt.TextSettings{Validate: validateURL})
		if urlError != nil {
			return urlError
		}
		repositoryURL = strings.TrimSpace(promptedURL)
		promptedPath, pathError := service.prompter.Text(pathPromptConstant, prompt.TextSettings{Default: DefaultPath(repositoryURL), Validate: validatePath})
		if pathError != nil {
			return pathError
		}
		path = promptedPath
	}
	path = strings.TrimSpace(path)
	if len(path) == 0 {
		path = DefaultPath(repositoryURL)
	}

	arguments := []string{gitSubmoduleSubcommandConstant, gitAddSubcommandConstant, repositoryURL}
	if len(path) > 0 {
		arguments = append(arguments, path)
	}
	if _, addError := service.repository.Run(executionContext, arguments...); addError != nil {
		return fmt.Errorf(addErrorTemplateConstant, repositoryURL, addError)
	}
	service.renderer.Success(fmt.Sprintf(addedTemplateConstant, repositoryURL, path))
	return nil
}

// Update initializes and checks out every submodule recursively.
func (service *Service) Update(executionContext context.Context) error {
	if _, updateError := service.repository.Run(executionContext, gitSubmoduleSubcommandConstant, gitUpdateSubcommandConstant, gitInitFlagConstant, gitRecursiveFlagConstant); updateError != nil {
		return fmt.Errorf(updateErrorTemplateConstant, updateError)
	}
	service.renderer.Success(updatedMessageConstant)
	return nil
}

// Sync copies submodule URLs from .gitmodules into the repository configuration.
func (service *Service) Sync(executionContext context.Context) error {
	if _, syncError := service.repository.Run(executionContext, gitSubmoduleSubcommandConstant, gitSyncSubcommandConstant, gitRecursiveFlagConstant); syncError != nil {
		return fmt.Errorf(syncErrorTemplateConstant, syncError)
	}
	service.renderer.Success(syncedMessageConstant)
	return nil
}

// DefaultPath derives a checkout directory from a repository URL, or returns empty when the URL cannot be parsed.
func DefaultPath(repositoryURL string) string {
	parsed, parseError := gitrepo.ParseRemoteURL(repositoryURL)
	if parseError != nil {
		return ""
	}
	return parsed.Repository
}

func validateURL(value string) error {
	_, parseError := gitrepo.ParseRemoteURL(value)
	return parseError
}

func validatePath(value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return ErrPathRequired
	}
	return nil
}
