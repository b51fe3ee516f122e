// Package repoinit creates repositories and manages the wgit configuration file.
package repoinit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
	pathutils "github.com/temirov/wgit/internal/utils/path"
)

const (
	gitInitSubcommandConstant            = "init"
	gitInitialBranchFlagTemplateConstant = "--initial-branch=%s"
	currentDirectoryConstant             = "."
	gitExecutorMissingMessageConstant    = "git executor not configured"
	prompterMissingMessageConstant       = "prompter not configured"
	initErrorTemplateConstant            = "failed to initialize repository in %s: %w"
	initializedTemplateConstant          = "Initialized repository in %s"
	configWrittenTemplateConstant        = "Wrote default configuration to %s"
	configKeptTemplateConstant           = "Kept existing configuration %s"
	overwritePromptTemplateConstant      = "%s already exists. Overwrite it with the defaults?"
	configSourceTemplateConstant         = "Configuration from %s"
	configDefaultsHeadingConstant        = "Built-in defaults (no configuration file found)"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor         gitrepo.GitExecutor
	Prompter            prompt.Prompter
	Renderer            *ui.Renderer
	FileSystem          afero.Fs
	HomeExpander        *pathutils.HomeExpander
	Configuration       config.Configuration
	ConfigurationSource string
	WorkingDirectory    string
}

// InitOptions configure repository creation. An empty Directory means the working directory.
type InitOptions struct {
	Directory     string
	InitialBranch string
	WithConfig    bool
}

// Service creates repositories and configuration files.
type Service struct {
	repository          *gitrepo.RepositoryManager
	prompter            prompt.Prompter
	renderer            *ui.Renderer
	fileSystem          afero.Fs
	homeExpander        *pathutils.HomeExpander
	configuration       config.Configuration
	configurationSource string
	workingDirectory    string
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
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	homeExpander := dependencies.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	workingDirectory := dependencies.WorkingDirectory
	if len(workingDirectory) == 0 {
		workingDirectory = currentDirectoryConstant
	}
	return &Service{
		repository:          repository,
		prompter:            dependencies.Prompter,
		renderer:            renderer,
		fileSystem:          fileSystem,
		homeExpander:        homeExpander,
		configuration:       dependencies.Configuration,
		configurationSource: dependencies.ConfigurationSource,
		workingDirectory:    workingDirectory,
	}, nil
}

// Init runs git init and optionally writes a default configuration file into the new repository.
func (service *Service) Init(executionContext context.Context, options InitOptions) error {
	directory := service.resolvePath(options.Directory)
	arguments := []string{gitInitSubcommandConstant}
	if branch := strings.TrimSpace(options.InitialBranch); len(branch) > 0 {
		arguments = append(arguments, fmt.Sprintf(gitInitialBranchFlagTemplateConstant, branch))
	}
	arguments = append(arguments, directory)

	if _, initError := service.repository.Run(executionContext, arguments...); initError != nil {
		return fmt.Errorf(initErrorTemplateConstant, directory, initError)
	}
	service.renderer.Success(fmt.Sprintf(initializedTemplateConstant, directory))

	if !options.WithConfig {
		return nil
	}
	return service.InitConfig(filepath.Join(directory, config.CandidateFileNames[0]), false)
}

// ShowConfig renders the resolved configuration as YAML together with its source.
func (service *Service) ShowConfig() error {
	rendered, renderError := config.RenderYAML(service.configuration)
	if renderError != nil {
		return renderError
	}
	if len(service.configurationSource) > 0 {
		service.renderer.Heading(fmt.Sprintf(configSourceTemplateConstant, service.configurationSource))
	} else {
		service.renderer.Heading(configDefaultsHeadingConstant)
	}
	service.renderer.Block(rendered)
	return nil
}

// InitConfig writes the default configuration to path, asking before replacing an existing file unless force is set.
// An empty path means the first candidate file name in the working directory.
func (service *Service) InitConfig(path string, force bool) error {
	target := service.resolvePath(path)
	if len(strings.TrimSpace(path)) == 0 {
		target = filepath.Join(service.workingDirectory, config.CandidateFileNames[0])
	}

	writeError := config.WriteDefault(service.fileSystem, target, force)
	if errors.Is(writeError, config.ErrConfigurationExists) {
		overwrite, confirmError := service.prompter.Confirm(fmt.Sprintf(overwritePromptTemplateConstant, target), false)
		if confirmError != nil {
			return confirmError
		}
		if !overwrite {
			service.renderer.Info(fmt.Sprintf(configKeptTemplateConstant, target))
			return nil
		}
		writeError = config.WriteDefault(service.fileSystem, target, true)
	}
	if writeError != nil {
		return writeError
	}
	service.renderer.Success(fmt.Sprintf(configWrittenTemplateConstant, target))
	return nil
}

func (service *Service) resolvePath(path string) string {
	expanded := service.homeExpander.Expand(path)
	if len(expanded) == 0 {
		return service.workingDirectory
	}
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(service.workingDirectory, expanded)
}
