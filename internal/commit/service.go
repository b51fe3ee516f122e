package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/wgit/internal/aiclient"
	"github.com/temirov/wgit/internal/commitmsg"
	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const (
	gitAddSubcommandConstant          = "add"
	gitAllFlagConstant                = "-A"
	gitCommitSubcommandConstant       = "commit"
	gitMessageFlagConstant            = "-m"
	gitPathSeparatorConstant          = "--"
	nothingToCommitMessageConstant    = "No changes to commit"
	commitCancelledMessageConstant    = "Commit cancelled"
	committedTemplateConstant         = "Committed: %s"
	proposedMessageHeadingConstant    = "Proposed commit message"
	reviewPromptConstant              = "Use this commit message?"
	editPromptConstant                = "Commit message"
	draftPromptConstant               = "Describe your change"
	typePromptConstant                = "Select the type of change"
	scopePromptConstant               = "Scope (optional)"
	subjectPromptConstant             = "Short description"
	breakingPromptConstant            = "Is this a breaking change?"
	breakingDescriptionPromptConstant = "Describe the breaking change"
	freeformPromptConstant            = "Commit message"
	cherryPickPromptConstant          = "Select files to commit"
	autoCommitPlanHeadingConstant     = "Auto commit plan"
	autoCommitGroupTemplateConstant   = "%s (%d files)"
	autoCommitConfirmTemplateConstant = "Create %d commits?"
	newFileDiffTemplateConstant       = "\nNew file: %s"
	reviewCommitValueConstant         = "commit"
	reviewEditValueConstant           = "edit"
	reviewRegenerateValueConstant     = "regenerate"
	reviewCancelValueConstant         = "cancel"
	stageErrorTemplateConstant        = "failed to stage changes: %w"
	commitErrorTemplateConstant       = "failed to create commit: %w"
	generationErrorTemplateConstant   = "failed to generate commit message: %w"
	autoCommitErrorTemplateConstant   = "auto commit stopped at %s group (%d of %d): %w"
	emptyMessageMessageConstant       = "commit message is empty"
	noFilesSelectedMessageConstant    = "no files selected"
	typeRequiredMessageConstant       = "--scope and --breaking need --type when --message is given"
	gitExecutorMissingMessageConstant = "git executor not configured"
	prompterMissingMessageConstant    = "prompter not configured"
	logFieldModeConstant              = "mode"
	logFieldSubjectConstant           = "subject"
	logFieldGroupConstant             = "group"
	commitCreatedLogMessageConstant   = "Commit created"
	modeResolvedLogMessageConstant    = "Commit mode resolved"
)

// ErrEmptyMessage indicates a blank message from the user or the provider.
var ErrEmptyMessage = errors.New(emptyMessageMessageConstant)

// ErrNoFilesSelected indicates a cherry-pick without files.
var ErrNoFilesSelected = errors.New(noFilesSelectedMessageConstant)

// ErrTypeRequired indicates a direct message with a scope or breaking marker but no type.
var ErrTypeRequired = errors.New(typeRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

var reviewOptions = []prompt.Option{
	{Label: "Commit", Value: reviewCommitValueConstant},
	{Label: "Edit", Value: reviewEditValueConstant},
	{Label: "Regenerate", Value: reviewRegenerateValueConstant},
	{Label: "Cancel", Value: reviewCancelValueConstant},
}

// GeneratorFactory builds a commit message generator for the AI settings.
type GeneratorFactory func(settings config.AISettings) (*aiclient.Generator, error)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor      gitrepo.GitExecutor
	Prompter         prompt.Prompter
	Renderer         *ui.Renderer
	Logger           *zap.Logger
	GeneratorFactory GeneratorFactory
	WorkingDirectory string
}

// Options configure one commit invocation.
type Options struct {
	Message   string
	Type      string
	Scope     string
	Breaking  bool
	UseAI     bool
	DisableAI bool
	Mode      string
	Settings  config.CommitSettings
	AI        config.AISettings
}

// Result reports what the flow did.
type Result struct {
	Messages        []string
	NothingToCommit bool
	Cancelled       bool
}

// Service runs the commit flow.
type Service struct {
	repository       *gitrepo.RepositoryManager
	prompter         prompt.Prompter
	renderer         *ui.Renderer
	logger           *zap.Logger
	generatorFactory GeneratorFactory
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
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	generatorFactory := dependencies.GeneratorFactory
	if generatorFactory == nil {
		generatorFactory = NewProviderGenerator
	}
	return &Service{
		repository:       repository,
		prompter:         dependencies.Prompter,
		renderer:         renderer,
		logger:           logger,
		generatorFactory: generatorFactory,
	}, nil
}

// NewProviderGenerator builds a generator backed by the configured hosted provider.
func NewProviderGenerator(settings config.AISettings) (*aiclient.Generator, error) {
	completer, completerError := aiclient.NewCompleter(aiclient.ProviderConfig{
		Provider:  settings.Provider,
		Model:     settings.Model,
		MaxTokens: settings.MaxTokens,
	}, aiclient.Options{})
	if completerError != nil {
		return nil, completerError
	}
	return aiclient.NewGenerator(completer)
}

// Commit runs the flow. A user abort is reported through Result.Cancelled, not as an error.
func (service *Service) Commit(executionContext context.Context, options Options) (Result, error) {
	if optionsError := validateOptions(options); optionsError != nil {
		return Result{}, optionsError
	}

	entries, statusError := service.repository.Status(executionContext)
	if statusError != nil {
		return Result{}, statusError
	}
	if len(entries) == 0 {
		service.renderer.Info(nothingToCommitMessageConstant)
		return Result{NothingToCommit: true}, nil
	}

	if len(strings.TrimSpace(options.Message)) > 0 {
		message := strings.TrimSpace(options.Message)
		if len(strings.TrimSpace(options.Type)) > 0 {
			message = commitmsg.BuildMessage(strings.TrimSpace(options.Type), options.Scope, message, options.Breaking, "")
		}
		return service.finish(service.commitAll(executionContext, entries, message))
	}

	mode, modeError := resolveMode(options, service.prompter)
	if modeError != nil {
		return service.finish(Result{}, modeError)
	}
	service.logger.Debug(modeResolvedLogMessageConstant, zap.String(logFieldModeConstant, string(mode)))

	switch mode {
	case ModeAutoCommit:
		return service.finish(service.autoCommit(executionContext, entries, options))
	case ModePromptEnhance:
		return service.finish(service.enhanceCommit(executionContext, entries, options))
	case ModeAIGenerate:
		return service.finish(service.generateCommit(executionContext, entries, options))
	case ModeCherryPick:
		return service.finish(service.cherryPickCommit(executionContext, entries, options))
	default:
		return service.finish(service.interactiveCommit(executionContext, entries, options))
	}
}

func (service *Service) finish(result Result, flowError error) (Result, error) {
	if prompt.IsCancelled(flowError) {
		service.renderer.Warning(commitCancelledMessageConstant)
		result.Cancelled = true
		return result, nil
	}
	return result, flowError
}

func (service *Service) interactiveCommit(executionContext context.Context, entries []gitrepo.FileStatusEntry, options Options) (Result, error) {
	message, composeError := service.composeMessage(options)
	if composeError != nil {
		return Result{}, composeError
	}
	return service.commitAll(executionContext, entries, message)
}

func (service *Service) generateCommit(executionContext context.Context, entries []gitrepo.FileStatusEntry, options Options) (Result, error) {
	generator, generatorError := service.generatorFactory(options.AI)
	if generatorError != nil {
		return Result{}, generatorError
	}
	diff, diffError := service.collectDiff(executionContext, entries, hasStagedEntries(entries))
	if diffError != nil {
		return Result{}, diffError
	}
	message, reviewError := service.reviewMessage(executionContext, func(generationContext context.Context) (string, error) {
		return generator.Generate(generationContext, diff)
	})
	if reviewError != nil {
		return Result{}, reviewError
	}
	return service.commitAll(executionContext, entries, message)
}

func (service *Service) enhanceCommit(executionContext context.Context, entries []gitrepo.FileStatusEntry, options Options) (Result, error) {
	generator, generatorError := service.generatorFactory(options.AI)
	if generatorError != nil {
		return Result{}, generatorError
	}
	draft, draftError := service.prompter.Text(draftPromptConstant, prompt.TextSettings{Validate: validateNonEmpty})
	if draftError != nil {
		return Result{}, draftError
	}
	message, reviewError := service.reviewMessage(executionContext, func(generationContext context.Context) (string, error) {
		return generator.Enhance(generationContext, strings.TrimSpace(draft))
	})
	if reviewError != nil {
		return Result{}, reviewError
	}
	return service.commitAll(executionContext, entries, message)
}

func (service *Service) cherryPickCommit(executionContext context.Context, entries []gitrepo.FileStatusEntry, options Options) (Result, error) {
	fileOptions := make([]prompt.Option, 0, len(entries))
	for _, entry := range entries {
		fileOptions = append(fileOptions, prompt.Option{Label: entry.Path, Value: entry.Path, Hint: entry.StatusCode})
	}
	selectedPaths, selectError := service.prompter.MultiSelect(cherryPickPromptConstant, fileOptions)
	if selectError != nil {
		return Result{}, selectError
	}
	if len(selectedPaths) == 0 {
		return Result{}, ErrNoFilesSelected
	}

	var message string
	aiAllowed := !options.DisableAI && (options.UseAI || options.Settings.UseAI)
	if aiAllowed {
		generator, generatorError := service.generatorFactory(options.AI)
		if generatorError != nil {
			return Result{}, generatorError
		}
		diff, diffError := service.collectPathDiff(executionContext, entries, selectedPaths)
		if diffError != nil {
			return Result{}, diffError
		}
		reviewedMessage, reviewError := service.reviewMessage(executionContext, func(generationContext context.Context) (string, error) {
			return generator.Generate(generationContext, diff)
		})
		if reviewError != nil {
			return Result{}, reviewError
		}
		message = reviewedMessage
	} else {
		composedMessage, composeError := service.composeMessage(options)
		if composeError != nil {
			return Result{}, composeError
		}
		message = composedMessage
	}

	if commitError := service.commitPaths(executionContext, pathspec(entries, selectedPaths), message); commitError != nil {
		return Result{}, commitError
	}
	return Result{Messages: []string{message}}, nil
}

func (service *Service) autoCommit(executionContext context.Context, entries []gitrepo.FileStatusEntry, options Options) (Result, error) {
	generator, generatorError := service.generatorFactory(options.AI)
	if generatorError != nil {
		return Result{}, generatorError
	}

	groups := commitmsg.GroupChanges(entries)
	service.renderer.Heading(autoCommitPlanHeadingConstant)
	for _, group := range groups {
		service.renderer.List(fmt.Sprintf(autoCommitGroupTemplateConstant, group.Type, len(group.Files)), group.Files)
	}
	confirmed, confirmError := service.prompter.Confirm(fmt.Sprintf(autoCommitConfirmTemplateConstant, len(groups)), true)
	if confirmError != nil {
		return Result{}, confirmError
	}
	if !confirmed {
		return Result{}, prompt.ErrCancelled
	}

	result := Result{}
	for groupIndex, group := range groups {
		message, groupError := service.commitGroup(executionContext, generator, group, pathspec(entries, group.Files))
		if groupError != nil {
			return result, fmt.Errorf(autoCommitErrorTemplateConstant, group.Type, groupIndex+1, len(groups), groupError)
		}
		result.Messages = append(result.Messages, message)
	}
	return result, nil
}

func (service *Service) commitGroup(executionContext context.Context, generator *aiclient.Generator, group commitmsg.ChangeGroup, paths []string) (string, error) {
	stageArguments := append([]string{gitAddSubcommandConstant, gitAllFlagConstant, gitPathSeparatorConstant}, paths...)
	if _, stageError := service.repository.Run(executionContext, stageArguments...); stageError != nil {
		return "", fmt.Errorf(stageErrorTemplateConstant, stageError)
	}
	diff, diffError := service.repository.StagedDiff(executionContext, paths...)
	if diffError != nil {
		return "", diffError
	}
	reply, generationError := generator.Generate(executionContext, diff)
	if generationError != nil {
		return "", fmt.Errorf(generationErrorTemplateConstant, generationError)
	}
	message := strings.TrimSpace(reply)
	if len(message) == 0 {
		return "", ErrEmptyMessage
	}

	commitArguments := append([]string{gitCommitSubcommandConstant, gitMessageFlagConstant, message, gitPathSeparatorConstant}, paths...)
	if _, commitError := service.repository.Run(executionContext, commitArguments...); commitError != nil {
		return "", fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	service.reportCommit(message, zap.String(logFieldGroupConstant, string(group.Type)))
	return message, nil
}

// reviewMessage shows a generated message until the user commits, edits or cancels it.
func (service *Service) reviewMessage(executionContext context.Context, produce func(context.Context) (string, error)) (string, error) {
	message, produceError := service.produceMessage(executionContext, produce)
	if produceError != nil {
		return "", produceError
	}
	for {
		service.renderer.Heading(proposedMessageHeadingConstant)
		service.renderer.Block(message)

		choice, selectError := service.prompter.Select(reviewPromptConstant, reviewOptions)
		if selectError != nil {
			return "", selectError
		}
		switch choice {
		case reviewCommitValueConstant:
			return message, nil
		case reviewEditValueConstant:
			edited, editError := service.prompter.Text(editPromptConstant, prompt.TextSettings{Default: message, Validate: validateNonEmpty})
			if editError != nil {
				return "", editError
			}
			return strings.TrimSpace(edited), nil
		case reviewRegenerateValueConstant:
			message, produceError = service.produceMessage(executionContext, produce)
			if produceError != nil {
				return "", produceError
			}
		default:
			return "", prompt.ErrCancelled
		}
	}
}

func (service *Service) produceMessage(executionContext context.Context, produce func(context.Context) (string, error)) (string, error) {
	reply, produceError := produce(executionContext)
	if produceError != nil {
		return "", fmt.Errorf(generationErrorTemplateConstant, produceError)
	}
	message := strings.TrimSpace(reply)
	if len(message) == 0 {
		return "", ErrEmptyMessage
	}
	return message, nil
}

// composeMessage collects a message through prompts, skipping parts supplied by flags.
func (service *Service) composeMessage(options Options) (string, error) {
	maxSubjectLength := options.Settings.MaxSubjectLength
	validateSubject := func(value string) error {
		return commitmsg.ValidateSubject(value, maxSubjectLength)
	}

	if !options.Settings.ConventionalCommits {
		message, messageError := service.prompter.Text(freeformPromptConstant, prompt.TextSettings{Validate: validateSubject})
		if messageError != nil {
			return "", messageError
		}
		return strings.TrimSpace(message), nil
	}

	commitType := strings.TrimSpace(options.Type)
	if len(commitType) == 0 {
		typeOptions := make([]prompt.Option, 0)
		for _, candidate := range commitmsg.CommitTypes() {
			typeOptions = append(typeOptions, prompt.Option{Label: candidate.Label, Value: candidate.Value, Hint: candidate.Hint})
		}
		selectedType, selectError := service.prompter.Select(typePromptConstant, typeOptions)
		if selectError != nil {
			return "", selectError
		}
		commitType = selectedType
	}

	scope := strings.TrimSpace(options.Scope)
	if len(scope) == 0 {
		enteredScope, scopeError := service.prompter.Text(scopePromptConstant, prompt.TextSettings{})
		if scopeError != nil {
			return "", scopeError
		}
		scope = enteredScope
	}

	subject, subjectError := service.prompter.Text(subjectPromptConstant, prompt.TextSettings{Validate: validateSubject})
	if subjectError != nil {
		return "", subjectError
	}

	breaking := options.Breaking
	if !breaking {
		confirmedBreaking, breakingError := service.prompter.Confirm(breakingPromptConstant, false)
		if breakingError != nil {
			return "", breakingError
		}
		breaking = confirmedBreaking
	}

	breakingDescription := ""
	if breaking {
		description, descriptionError := service.prompter.Text(breakingDescriptionPromptConstant, prompt.TextSettings{})
		if descriptionError != nil {
			return "", descriptionError
		}
		breakingDescription = description
	}

	return commitmsg.BuildMessage(commitType, scope, strings.TrimSpace(subject), breaking, breakingDescription), nil
}

// commitAll commits the index, staging every change first when nothing is staged.
func (service *Service) commitAll(executionContext context.Context, entries []gitrepo.FileStatusEntry, message string) (Result, error) {
	if !hasStagedEntries(entries) {
		if _, stageError := service.repository.Run(executionContext, gitAddSubcommandConstant, gitAllFlagConstant); stageError != nil {
			return Result{}, fmt.Errorf(stageErrorTemplateConstant, stageError)
		}
	}
	if _, commitError := service.repository.Run(executionContext, gitCommitSubcommandConstant, gitMessageFlagConstant, message); commitError != nil {
		return Result{}, fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	service.reportCommit(message)
	return Result{Messages: []string{message}}, nil
}

func (service *Service) commitPaths(executionContext context.Context, paths []string, message string) error {
	stageArguments := append([]string{gitAddSubcommandConstant, gitAllFlagConstant, gitPathSeparatorConstant}, paths...)
	if _, stageError := service.repository.Run(executionContext, stageArguments...); stageError != nil {
		return fmt.Errorf(stageErrorTemplateConstant, stageError)
	}
	commitArguments := append([]string{gitCommitSubcommandConstant, gitMessageFlagConstant, message, gitPathSeparatorConstant}, paths...)
	if _, commitError := service.repository.Run(executionContext, commitArguments...); commitError != nil {
		return fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	service.reportCommit(message)
	return nil
}

func (service *Service) reportCommit(message string, fields ...zap.Field) {
	subject := firstLine(message)
	service.renderer.Success(fmt.Sprintf(committedTemplateConstant, subject))
	service.logger.Info(commitCreatedLogMessageConstant, append(fields, zap.String(logFieldSubjectConstant, subject))...)
}

// collectDiff returns the text the generator sees: the staged diff when anything is staged,
// otherwise the working tree diff, followed by the names of untracked files.
func (service *Service) collectDiff(executionContext context.Context, entries []gitrepo.FileStatusEntry, staged bool) (string, error) {
	var diff string
	var diffError error
	if staged {
		diff, diffError = service.repository.StagedDiff(executionContext)
	} else {
		diff, diffError = service.repository.WorkingDiff(executionContext)
	}
	if diffError != nil {
		return "", diffError
	}
	if staged {
		return diff, nil
	}
	return diff + untrackedSummary(entries, nil), nil
}

func (service *Service) collectPathDiff(executionContext context.Context, entries []gitrepo.FileStatusEntry, paths []string) (string, error) {
	stagedDiff, stagedError := service.repository.StagedDiff(executionContext, paths...)
	if stagedError != nil {
		return "", stagedError
	}
	workingDiff, workingError := service.repository.WorkingDiff(executionContext, paths...)
	if workingError != nil {
		return "", workingError
	}
	selected := make(map[string]bool, len(paths))
	for _, path := range paths {
		selected[path] = true
	}
	return stagedDiff + workingDiff + untrackedSummary(entries, selected), nil
}

func untrackedSummary(entries []gitrepo.FileStatusEntry, selected map[string]bool) string {
	var builder strings.Builder
	for _, entry := range entries {
		if entry.Category != gitrepo.CategoryUntracked {
			continue
		}
		if selected != nil && !selected[entry.Path] {
			continue
		}
		builder.WriteString(fmt.Sprintf(newFileDiffTemplateConstant, entry.Path))
	}
	return builder.String()
}

// pathspec returns paths followed by the original path of every selected rename,
// so both sides of a rename land in the same commit.
func pathspec(entries []gitrepo.FileStatusEntry, paths []string) []string {
	selected := make(map[string]bool, len(paths))
	for _, path := range paths {
		selected[path] = true
	}
	result := append([]string{}, paths...)
	for _, entry := range entries {
		if !selected[entry.Path] || len(entry.OriginalPath) == 0 || selected[entry.OriginalPath] {
			continue
		}
		selected[entry.OriginalPath] = true
		result = append(result, entry.OriginalPath)
	}
	return result
}

func validateOptions(options Options) error {
	commitType := strings.TrimSpace(options.Type)
	if len(commitType) > 0 {
		return commitmsg.ValidateType(commitType)
	}
	hasMessage := len(strings.TrimSpace(options.Message)) > 0
	if hasMessage && (len(strings.TrimSpace(options.Scope)) > 0 || options.Breaking) {
		return ErrTypeRequired
	}
	return nil
}

func hasStagedEntries(entries []gitrepo.FileStatusEntry) bool {
	for _, entry := range entries {
		if entry.IsStaged() {
			return true
		}
	}
	return false
}

func validateNonEmpty(value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return ErrEmptyMessage
	}
	return nil
}

func firstLine(message string) string {
	if newlineIndex := strings.Index(message, "\n"); newlineIndex >= 0 {
		return message[:newlineIndex]
	}
	return message
}
