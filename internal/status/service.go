// Package status reports the current branch, its upstream divergence and categorized working tree changes.
package status

import (
	"context"
	"errors"

	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/ui"
)

const (
	unknownBranchConstant             = "(no branch)"
	gitExecutorMissingMessageConstant = "git executor not configured"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// Report is the collected repository state.
type Report struct {
	Branch  string
	Counts  gitrepo.UpstreamCounts
	Entries []gitrepo.FileStatusEntry
}

// Service collects and renders repository status.
type Service struct {
	repository *gitrepo.RepositoryManager
	renderer   *ui.Renderer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	repository, repositoryError := gitrepo.NewRepositoryManager(dependencies.GitExecutor, dependencies.WorkingDirectory)
	if repositoryError != nil {
		return nil, repositoryError
	}
	renderer := dependencies.Renderer
	if renderer == nil {
		renderer = ui.NewRenderer(nil, ui.NewPalette(false))
	}
	return &Service{repository: repository, renderer: renderer}, nil
}

// Collect gathers the report. A branch without commits or upstream still produces a report.
func (service *Service) Collect(executionContext context.Context) (Report, error) {
	entries, statusError := service.repository.Status(executionContext)
	if statusError != nil {
		return Report{}, statusError
	}

	branch, branchError := service.repository.CurrentBranch(executionContext)
	if branchError != nil || len(branch) == 0 {
		branch = unknownBranchConstant
	}

	counts, countsError := service.repository.UpstreamCounts(executionContext)
	if countsError != nil {
		return Report{}, countsError
	}

	return Report{Branch: branch, Counts: counts, Entries: entries}, nil
}

// Show collects and renders the report.
func (service *Service) Show(executionContext context.Context) (Report, error) {
	report, collectError := service.Collect(executionContext)
	if collectError != nil {
		return Report{}, collectError
	}
	service.renderer.StatusSummary(report.Branch, report.Counts, report.Entries)
	return report, nil
}
