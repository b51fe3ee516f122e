// Package dependencies resolves the collaborators shared by wgit command builders.
package dependencies

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/execshell"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/ui"
)

const cancelledMessageConstant = "Operation cancelled"

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// Inputs are the collaborators a command builder may carry. Nil fields fall back to process defaults.
type Inputs struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() config.Configuration
	Prompter                     prompt.Prompter
	WorkingDirectory             string
}

// Resolved holds the collaborators a command runs with.
type Resolved struct {
	Logger        *zap.Logger
	GitExecutor   gitrepo.GitExecutor
	Repository    *gitrepo.RepositoryManager
	Prompter      prompt.Prompter
	Renderer      *ui.Renderer
	Configuration config.Configuration
}

// Resolve builds the collaborators for a cobra command from the inputs.
func Resolve(command *cobra.Command, inputs Inputs) (Resolved, error) {
	logger := ResolveLogger(inputs.LoggerProvider)

	humanReadableLogging := false
	if inputs.HumanReadableLoggingProvider != nil {
		humanReadableLogging = inputs.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := ResolveGitExecutor(inputs.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return Resolved{}, executorError
	}

	repository, repositoryError := gitrepo.NewRepositoryManager(gitExecutor, inputs.WorkingDirectory)
	if repositoryError != nil {
		return Resolved{}, repositoryError
	}

	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout
	if command != nil {
		input = command.InOrStdin()
		output = command.OutOrStdout()
	}

	return Resolved{
		Logger:        logger,
		GitExecutor:   gitExecutor,
		Repository:    repository,
		Prompter:      ResolvePrompter(inputs.Prompter, input, output),
		Renderer:      ResolveRenderer(output),
		Configuration: ResolveConfiguration(inputs.ConfigurationProvider),
	}, nil
}

// ResolveLogger returns the provided logger or a no-op logger.
func ResolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging attaches a console observer that narrates every git invocation.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var observer execshell.CommandEventObserver
	if humanReadableLogging {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolvePrompter returns the provided prompter or a line-based prompter over the streams.
func ResolvePrompter(existing prompt.Prompter, input io.Reader, output io.Writer) prompt.Prompter {
	if existing != nil {
		return existing
	}
	return prompt.NewIOPrompter(input, output)
}

// ResolveRenderer builds a renderer that colours output only for terminals.
func ResolveRenderer(output io.Writer) *ui.Renderer {
	colorEnabled := false
	if outputFile, isFile := output.(*os.File); isFile {
		colorEnabled = ui.ColorEnabledFor(outputFile)
	}
	return ui.NewRenderer(output, ui.NewPalette(colorEnabled))
}

// ResolveConfiguration returns the provided tool configuration or the defaults.
func ResolveConfiguration(provider func() config.Configuration) config.Configuration {
	if provider == nil {
		return config.DefaultConfiguration()
	}
	return provider()
}

// CommandContext returns the command's context or a background context.
func CommandContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}

// FinishCommand reports a user abort as a warning and swallows it; other errors pass through.
func FinishCommand(renderer *ui.Renderer, commandError error) error {
	if commandError == nil {
		return nil
	}
	if prompt.IsCancelled(commandError) {
		if renderer != nil {
			renderer.Warning(cancelledMessageConstant)
		}
		return nil
	}
	return commandError
}

// FirstArgument returns the trimmed first argument, or empty when none was given.
func FirstArgument(arguments []string) string {
	if len(arguments) == 0 {
		return ""
	}
	return strings.TrimSpace(arguments[0])
}
