// Package search finds text in tracked files with git grep.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/wgit/internal/execshell"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitGrepSubcommandConstant         = "grep"
	gitLineNumberFlagConstant         = "-n"
	gitNullFlagConstant               = "--null"
	gitIgnoreCaseFlagConstant         = "-i"
	gitWholeWordFlagConstant          = "-w"
	gitInvertFlagConstant             = "-v"
	gitContextFlagConstant            = "-C"
	gitPatternFlagConstant            = "-e"
	gitPathSeparatorConstant          = "--"
	grepNoMatchExitCodeConstant       = 1
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	termRequiredMessageConstant       = "search term is required"
	negativeContextMessageConstant    = "context lines must not be negative"
	searchErrorTemplateConstant       = "search for %q failed: %w"
	termPromptConstant                = "Search for"
	noMatchesTemplateConstant         = "No matches for %q"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrTermRequired indicates an empty search term.
var ErrTermRequired = errors.New(termRequiredMessageConstant)

// ErrNegativeContext indicates a negative context line count.
var ErrNegativeContext = errors.New(negativeContextMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// Options describe one search. An empty Term is prompted for.
type Options struct {
	Term         string
	IgnoreCase   bool
	WholeWord    bool
	Invert       bool
	ContextLines int
	Glob         string
}

// Service runs searches.
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

// BuildArguments assembles the git grep argument list for the options.
func BuildArguments(options Options) []string {
	arguments := []string{gitGrepSubcommandConstant, gitLineNumberFlagConstant, gitNullFlagConstant}
	if options.IgnoreCase {
		arguments = append(arguments, gitIgnoreCaseFlagConstant)
	}
	if options.WholeWord {
		arguments = append(arguments, gitWholeWordFlagConstant)
	}
	if options.Invert {
		arguments = append(arguments, gitInvertFlagConstant)
	}
	if options.ContextLines > 0 {
		arguments = append(arguments, gitContextFlagConstant, strconv.Itoa(options.ContextLines))
	}
	arguments = append(arguments, gitPatternFlagConstant, options.Term)
	if glob := strings.TrimSpace(options.Glob); len(glob) > 0 {
		arguments = append(arguments, gitPathSeparatorConstant, glob)
	}
	return arguments
}

// Find runs git grep and returns hits grouped by file. Exit status 1 means no matches and yields an empty result.
func (service *Service) Find(executionContext context.Context, options Options) ([]gitrepo.FileHits, error) {
	if options.ContextLines < 0 {
		return nil, ErrNegativeContext
	}
	if len(options.Term) == 0 {
		return nil, ErrTermRequired
	}

	result, grepError := service.repository.Run(executionContext, BuildArguments(options)...)
	if grepError != nil {
		if exitCode, exited := execshell.ExitCode(grepError); exited && exitCode == grepNoMatchExitCodeConstant {
			return []gitrepo.FileHits{}, nil
		}
		return nil, fmt.Errorf(searchErrorTemplateConstant, options.Term, grepError)
	}

	var hits []gitrepo.SearchHit
	if options.ContextLines > 0 {
		hits = gitrepo.ParseGrepWithContext(result.StandardOutput)
	} else {
		hits = gitrepo.ParseGrep(result.StandardOutput)
	}
	return gitrepo.GroupHitsByFile(hits), nil
}

// Search prompts for a missing term, runs the search and renders the results.
func (service *Service) Search(executionContext context.Context, options Options) error {
	if len(options.Term) == 0 {
		term, termError := service.prompter.Text(termPromptConstant, prompt.TextSettings{Validate: validateTerm})
		if termError != nil {
			return termError
		}
		options.Term = term
	}

	groups, findError := service.Find(executionContext, options)
	if findError != nil {
		return findError
	}
	if len(groups) == 0 {
		service.renderer.Info(fmt.Sprintf(noMatchesTemplateConstant, options.Term))
		return nil
	}
	service.renderer.SearchResults(options.Term, groups)
	return nil
}

func validateTerm(value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return ErrTermRequired
	}
	return nil
}
