package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/wgit/internal/execshell"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitResetSubcommandConstant        = "reset"
	gitRevertSubcommandConstant       = "revert"
	gitRebaseSubcommandConstant       = "rebase"
	gitNoEditFlagConstant             = "--no-edit"
	gitNoCommitFlagConstant           = "--no-commit"
	gitContinueFlagConstant           = "--continue"
	gitAbortFlagConstant              = "--abort"
	gitSkipFlagConstant               = "--skip"
	gitConfigFlagConstant             = "-c"
	gitNonInteractiveEditorConstant   = "core.editor=true"
	gitFlagPrefixConstant             = "--"
	defaultResetTargetConstant        = "HEAD"
	emptyHistoryMarkerConstant        = "does not have any commits yet"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	unknownResetModeTemplateConstant  = "unknown reset mode %q"
	conflictingRebaseMessageConstant  = "only one of --continue, --abort and --skip may be given"
	conflictsMessageConstant          = "stopped with conflicts"
	conflictsTemplateConstant         = "%s %w in %d file(s)"
	logErrorTemplateConstant          = "failed to read history: %w"
	resetErrorTemplateConstant        = "failed to reset to %s: %w"
	revertErrorTemplateConstant       = "failed to revert %s: %w"
	rebaseErrorTemplateConstant       = "failed to rebase onto %s: %w"
	rebaseStepErrorTemplateConstant   = "failed to %s rebase: %w"
	noCommitsMessageConstant          = "No commits yet"
	resetModePromptConstant           = "Reset mode"
	resetTargetPromptConstant         = "Reset to which commit?"
	revertTargetPromptConstant        = "Revert which commit?"
	rebaseTargetPromptConstant        = "Rebase %s onto which branch?"
	hardResetConfirmTemplateConstant  = "Discard all uncommitted changes and reset to %s?"
	rebaseConfirmTemplateConstant     = "Rebase %s onto %s?"
	resetDoneTemplateConstant         = "Reset (%s) to %s"
	revertedTemplateConstant          = "Reverted %s"
	revertStagedTemplateConstant      = "Staged the revert of %s; commit to finish"
	rebasedTemplateConstant           = "Rebased %s onto %s"
	rebaseStepDoneTemplateConstant    = "Rebase %s done"
	abandonedMessageConstant          = "Nothing changed"
	noBranchesMessageConstant         = "No other branches to rebase onto"
	conflictsTitleConstant            = "Conflicts"
	revertConflictsHintConstant       = "Resolve the conflicts, stage them and run git revert --continue, or git revert --abort"
	rebaseConflictsHintConstant       = "Resolve the conflicts, stage them and run wgit rebase --continue, or wgit rebase --abort"
	selectableCommitCountConstant     = 20
	commitOptionLabelTemplateConstant = "%s %s"
	rebaseStepContinueConstant        = "continue"
	rebaseStepAbortConstant           = "abort"
	rebaseStepSkipConstant            = "skip"
)

// ResetMode selects how far a reset reaches.
type ResetMode string

// Reset modes.
const (
	ResetModeSoft  ResetMode = "soft"
	ResetModeMixed ResetMode = "mixed"
	ResetModeHard  ResetMode = "hard"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrConflictingRebaseSteps indicates more than one of continue, abort and skip was requested.
var ErrConflictingRebaseSteps = errors.New(conflictingRebaseMessageConstant)

// ErrConflicts indicates a revert or rebase stopped with unmerged paths.
var ErrConflicts = errors.New(conflictsMessageConstant)

var resetModeOptions = []prompt.Option{
	{Label: "Soft: keep changes staged", Value: string(ResetModeSoft)},
	{Label: "Mixed: keep changes unstaged", Value: string(ResetModeMixed)},
	{Label: "Hard: discard all changes", Value: string(ResetModeHard)},
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	WorkingDirectory string
}

// ResetOptions configure a reset. Empty fields are selected interactively.
type ResetOptions struct {
	Mode      ResetMode
	Target    string
	AssumeYes bool
}

// RevertOptions configure a revert. An empty Commit is selected from recent history.
type RevertOptions struct {
	Commit   string
	NoCommit bool
}

// RebaseOptions configure a rebase or a step of one in progress.
type RebaseOptions struct {
	Onto      string
	Continue  bool
	Abort     bool
	Skip      bool
	AssumeYes bool
}

// Service runs history commands.
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

// Log renders up to limit commits from HEAD.
func (service *Service) Log(executionContext context.Context, limit int) error {
	records, logError := service.commits(executionContext, limit)
	if logError != nil {
		return logError
	}
	if len(records) == 0 {
		service.renderer.Info(noCommitsMessageConstant)
		return nil
	}
	service.renderer.CommitTable(records)
	return nil
}

// Reset moves HEAD to the target. A hard reset is confirmed unless AssumeYes is set.
func (service *Service) Reset(executionContext context.Context, options ResetOptions) error {
	mode := options.Mode
	if len(mode) == 0 {
		selected, selectError := service.prompter.Select(resetModePromptConstant, resetModeOptions)
		if selectError != nil {
			return selectError
		}
		mode = ResetMode(selected)
	}

	target := strings.TrimSpace(options.Target)
	if len(target) == 0 {
		selected, selectError := service.selectCommit(executionContext, resetTargetPromptConstant)
		if selectError != nil {
			return selectError
		}
		target = selected
	}
	if len(target) == 0 {
		target = defaultResetTargetConstant
	}

	if mode == ResetModeHard && !options.AssumeYes {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(hardResetConfirmTemplateConstant, target), false)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.renderer.Info(abandonedMessageConstant)
			return nil
		}
	}

	if _, resetError := service.repository.Run(executionContext, gitResetSubcommandConstant, gitFlagPrefixConstant+string(mode), target); resetError != nil {
		return fmt.Errorf(resetErrorTemplateConstant, target, resetError)
	}
	service.renderer.Success(fmt.Sprintf(resetDoneTemplateConstant, mode, target))
	return nil
}

// Revert creates a commit undoing the given commit, or only stages the inverse change with NoCommit.
func (service *Service) Revert(executionContext context.Context, options RevertOptions) error {
	commit := strings.TrimSpace(options.Commit)
	if len(commit) == 0 {
		selected, selectError := service.selectCommit(executionContext, revertTargetPromptConstant)
		if selectError != nil || len(selected) == 0 {
			return selectError
		}
		commit = selected
	}

	arguments := []string{gitRevertSubcommandConstant, gitNoEditFlagConstant}
	if options.NoCommit {
		arguments = []string{gitRevertSubcommandConstant, gitNoCommitFlagConstant}
	}
	arguments = append(arguments, commit)

	if _, revertError := service.repository.Run(executionContext, arguments...); revertError != nil {
		if conflictsError := service.reportConflicts(executionContext, gitRevertSubcommandConstant, revertConflictsHintConstant); conflictsError != nil {
			return conflictsError
		}
		return fmt.Errorf(revertErrorTemplateConstant, commit, revertError)
	}
	if options.NoCommit {
		service.renderer.Success(fmt.Sprintf(revertStagedTemplateConstant, commit))
	} else {
		service.renderer.Success(fmt.Sprintf(revertedTemplateConstant, commit))
	}
	return nil
}

// Rebase replays the current branch onto another, or continues, aborts or skips a rebase in progress.
func (service *Service) Rebase(executionContext context.Context, options RebaseOptions) error {
	step, stepError := rebaseStep(options)
	if stepError != nil {
		return stepError
	}
	if len(step) > 0 {
		return service.rebaseStep(executionContext, step)
	}

	currentBranch, branchError := service.repository.CurrentBranch(executionContext)
	if branchError != nil {
		return branchError
	}

	onto := strings.TrimSpace(options.Onto)
	if len(onto) == 0 {
		selected, selectError := service.selectRebaseTarget(executionContext, currentBranch)
		if selectError != nil || len(selected) == 0 {
			return selectError
		}
		onto = selected
	}

	if !options.AssumeYes {
		confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(rebaseConfirmTemplateConstant, currentBranch, onto), true)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.renderer.Info(abandonedMessageConstant)
			return nil
		}
	}

	if _, rebaseError := service.repository.Run(executionContext, gitRebaseSubcommandConstant, onto); rebaseError != nil {
		if conflictsError := service.reportConflicts(executionContext, gitRebaseSubcommandConstant, rebaseConflictsHintConstant); conflictsError != nil {
			return conflictsError
		}
		return fmt.Errorf(rebaseErrorTemplateConstant, onto, rebaseError)
	}
	service.renderer.Success(fmt.Sprintf(rebasedTemplateConstant, currentBranch, onto))
	return nil
}

func rebaseStep(options RebaseOptions) (string, error) {
	steps := make([]string, 0, 1)
	if options.Continue {
		steps = append(steps, rebaseStepContinueConstant)
	}
	if options.Abort {
		steps = append(steps, rebaseStepAbortConstant)
	}
	if options.Skip {
		steps = append(steps, rebaseStepSkipConstant)
	}
	switch len(steps) {
	case 0:
		return "", nil
	case 1:
		return steps[0], nil
	default:
		return "", ErrConflictingRebaseSteps
	}
}

func (service *Service) rebaseStep(executionContext context.Context, step string) error {
	_, stepError := service.repository.Run(executionContext, gitConfigFlagConstant, gitNonInteractiveEditorConstant, gitRebaseSubcommandConstant, gitFlagPrefixConstant+step)
	if stepError != nil {
		if step != rebaseStepAbortConstant {
			if conflictsError := service.reportConflicts(executionContext, gitRebaseSubcommandConstant, rebaseConflictsHintConstant); conflictsError != nil {
				return conflictsError
			}
		}
		return fmt.Errorf(rebaseStepErrorTemplateConstant, step, stepError)
	}
	service.renderer.Success(fmt.Sprintf(rebaseStepDoneTemplateConstant, step))
	return nil
}

func (service *Service) commits(executionContext context.Context, limit int) ([]gitrepo.CommitRecord, error) {
	records, logError := service.repository.Log(executionContext, limit)
	if logError != nil {
		if strings.Contains(execshell.FailureOutput(logError), emptyHistoryMarkerConstant) {
			return nil, nil
		}
		return nil, fmt.Errorf(logErrorTemplateConstant, logError)
	}
	return records, nil
}

func (service *Service) selectCommit(executionContext context.Context, message string) (string, error) {
	records, logError := service.commits(executionContext, selectableCommitCountConstant)
	if logError != nil {
		return "", logError
	}
	if len(records) == 0 {
		service.renderer.Info(noCommitsMessageConstant)
		return "", nil
	}
	options := make([]prompt.Option, 0, len(records))
	for _, record := range records {
		options = append(options, prompt.Option{
			Label: fmt.Sprintf(commitOptionLabelTemplateConstant, record.ShortHash, record.Subject),
			Value: record.Hash,
			Hint:  record.Author,
		})
	}
	return service.prompter.Select(message, options)
}

func (service *Service) selectRebaseTarget(executionContext context.Context, currentBranch string) (string, error) {
	branches, branchesError := service.repository.Branches(executionContext, true)
	if branchesError != nil {
		return "", branchesError
	}
	options := make([]prompt.Option, 0, len(branches))
	for _, branch := range branches {
		if branch.Current || branch.Detached || branch.Name == currentBranch {
			continue
		}
		options = append(options, prompt.Option{Label: branch.Name, Value: branch.Name})
	}
	if len(options) == 0 {
		service.renderer.Info(noBranchesMessageConstant)
		return "", nil
	}
	return service.prompter.Select(fmt.Sprintf(rebaseTargetPromptConstant, currentBranch), options)
}

func (service *Service) reportConflicts(executionContext context.Context, operation string, hint string) error {
	entries, statusError := service.repository.Status(executionContext)
	if statusError != nil {
		return nil
	}
	conflicts := gitrepo.ConflictedPaths(entries)
	if len(conflicts) == 0 {
		return nil
	}
	service.renderer.List(conflictsTitleConstant, conflicts)
	service.renderer.Warning(hint)
	return fmt.Errorf(conflictsTemplateConstant, operation, ErrConflicts, len(conflicts))
}
