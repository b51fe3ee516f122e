package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/wgit/internal/branches"
	"github.com/temirov/wgit/internal/clean"
	"github.com/temirov/wgit/internal/commit"
	"github.com/temirov/wgit/internal/config"
	"github.com/temirov/wgit/internal/dependencies"
	"github.com/temirov/wgit/internal/gitrepo"
	"github.com/temirov/wgit/internal/history"
	"github.com/temirov/wgit/internal/merge"
	"github.com/temirov/wgit/internal/prompt"
	"github.com/temirov/wgit/internal/releases"
	"github.com/temirov/wgit/internal/remotes"
	"github.com/temirov/wgit/internal/repoinit"
	"github.com/temirov/wgit/internal/search"
	"github.com/temirov/wgit/internal/staging"
	"github.com/temirov/wgit/internal/status"
	"github.com/temirov/wgit/internal/submodules"
	"github.com/temirov/wgit/internal/utils"
	"github.com/temirov/wgit/internal/worktrees"
)

const (
	applicationNameConstant                 = "wgit"
	applicationShortDescriptionConstant     = "Interactive helper around everyday git workflows"
	applicationLongDescriptionConstant      = "wgit wraps git with menus, readable summaries and optional AI-written commit messages. Run it without a command on a terminal to pick an action from a menu."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Path to a logging settings file (YAML)"
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the log level (debug, info, warn, error)"
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the log format (structured or console)"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "WGIT"
	settingsNameConstant                    = "settings"
	settingsTypeConstant                    = "yaml"
	settingsDirectoryNameConstant           = "wgit"
	developmentVersionConstant              = "dev"
	configurationInitializedMessageConstant = "configuration initialized"
	logFieldLogLevelConstant                = "log_level"
	logFieldLogFormatConstant               = "log_format"
	logFieldSettingsFileConstant            = "settings_file"
	logFieldToolConfigurationConstant       = "tool_configuration"
	logFieldCommandNameConstant             = "command_name"
	settingsLoadErrorTemplateConstant       = "unable to load settings: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build command %d: %w"
	menuPromptConstant                      = "What would you like to do?"
	menuQuitValueConstant                   = "quit"
	menuQuitLabelConstant                   = "Quit"
	menuCommandStartedMessageConstant       = "menu command selected"
)

// menuCommandNames orders the commands offered by the interactive menu.
var menuCommandNames = []string{
	"status", "commit", "staging", "branch", "merge", "log", "push", "pull", "search", "remote",
	"reset", "revert", "rebase", "submodules", "worktree", "clean", "release", "config", "init",
}

// ApplicationConfiguration describes the logging settings of the entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
}

// ApplicationCommonConfiguration stores logging options shared by all commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ConfigurationResolver yields the w-git tool configuration.
type ConfigurationResolver interface {
	Resolve() (config.Resolution, error)
}

// ApplicationDependencies overrides process collaborators; zero values select the real ones.
type ApplicationDependencies struct {
	GitExecutor         gitrepo.GitExecutor
	Prompter            prompt.Prompter
	GeneratorFactory    commit.GeneratorFactory
	FileSystem          afero.Fs
	WorkingDirectory    string
	SettingsSearchPaths []string
	ResolverFactory     func(logger *zap.Logger) ConfigurationResolver
	InteractiveTerminal func() bool
}

// Application wires the Cobra root command, settings loader, tool configuration and logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	toolResolution         config.Resolution
	dependencies           ApplicationDependencies
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	buildError             error
}

// NewApplication assembles the CLI with process defaults.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles the CLI over the provided collaborators.
func NewApplicationWithDependencies(applicationDependencies ApplicationDependencies) *Application {
	if applicationDependencies.Prompter == nil {
		applicationDependencies.Prompter = prompt.NewIOPrompter(os.Stdin, os.Stdout)
	}
	if applicationDependencies.ResolverFactory == nil {
		workingDirectory := applicationDependencies.WorkingDirectory
		applicationDependencies.ResolverFactory = func(logger *zap.Logger) ConfigurationResolver {
			resolver := config.NewResolver(logger)
			if len(workingDirectory) > 0 {
				resolver.WorkingDirectory = workingDirectory
			}
			return resolver
		}
	}
	if applicationDependencies.InteractiveTerminal == nil {
		applicationDependencies.InteractiveTerminal = func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		}
	}
	if applicationDependencies.SettingsSearchPaths == nil {
		applicationDependencies.SettingsSearchPaths = defaultSettingsSearchPaths()
	}

	configurationLoader := utils.NewConfigurationLoader(settingsNameConstant, settingsTypeConstant, environmentPrefixConstant, applicationDependencies.SettingsSearchPaths)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultSettings())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		toolResolution:         config.Resolution{Configuration: config.DefaultConfiguration()},
		dependencies:           applicationDependencies,
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	rootCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: application.runRootCommand,
	}
	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.buildError = registerCommands(rootCommand, application.commandBuilders())

	application.rootCommand = rootCommand
	return application
}

// RootCommand exposes the assembled command tree.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute runs the command tree and flushes the logger.
// A command that failed to build stops execution before any command runs.
func (application *Application) Execute() error {
	if application.buildError != nil {
		return application.buildError
	}
	executionError := application.rootCommand.Execute()
	if syncError := utils.FlushLogger(application.logger); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application and runs it against the process arguments.
func Execute() error {
	return NewApplication().Execute()
}

// registerCommands adds every built command to the root and joins the build failures.
func registerCommands(rootCommand *cobra.Command, builders []func() (*cobra.Command, error)) error {
	var buildErrors []error
	for builderIndex, buildCommand := range builders {
		command, buildError := buildCommand()
		if buildError != nil {
			buildErrors = append(buildErrors, fmt.Errorf(commandBuildErrorTemplateConstant, builderIndex, buildError))
			continue
		}
		rootCommand.AddCommand(command)
	}
	return errors.Join(buildErrors...)
}

func (application *Application) commandBuilders() []func() (*cobra.Command, error) {
	inputs := dependencies.Inputs{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		GitExecutor:                  application.dependencies.GitExecutor,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() config.Configuration {
			return application.toolResolution.Configuration
		},
		Prompter:         application.dependencies.Prompter,
		WorkingDirectory: application.dependencies.WorkingDirectory,
	}

	statusBuilder := &status.CommandBuilder{Inputs: inputs}
	commitBuilder := &commit.CommandBuilder{Inputs: inputs, GeneratorFactory: application.dependencies.GeneratorFactory}
	stagingBuilder := &staging.CommandBuilder{Inputs: inputs}
	branchBuilder := &branches.CommandBuilder{Inputs: inputs}
	mergeBuilder := &merge.CommandBuilder{Inputs: inputs}
	historyBuilder := &history.CommandBuilder{Inputs: inputs}
	searchBuilder := &search.CommandBuilder{Inputs: inputs}
	remotesBuilder := &remotes.CommandBuilder{Inputs: inputs}
	submodulesBuilder := &submodules.CommandBuilder{Inputs: inputs}
	worktreesBuilder := &worktrees.CommandBuilder{Inputs: inputs}
	releaseBuilder := &releases.CommandBuilder{Inputs: inputs}
	cleanBuilder := &clean.CommandBuilder{Inputs: inputs}
	repoinitBuilder := &repoinit.CommandBuilder{Inputs: inputs, FileSystem: application.dependencies.FileSystem}

	return []func() (*cobra.Command, error){
		statusBuilder.Build,
		commitBuilder.Build,
		stagingBuilder.Build,
		stagingBuilder.BuildStage,
		stagingBuilder.BuildUnstage,
		branchBuilder.Build,
		mergeBuilder.Build,
		historyBuilder.BuildLog,
		historyBuilder.BuildReset,
		historyBuilder.BuildRevert,
		historyBuilder.BuildRebase,
		searchBuilder.Build,
		remotesBuilder.Build,
		remotesBuilder.BuildPush,
		remotesBuilder.BuildPull,
		submodulesBuilder.Build,
		worktreesBuilder.Build,
		releaseBuilder.Build,
		cleanBuilder.Build,
		repoinitBuilder.Build,
		repoinitBuilder.BuildConfig,
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if application.buildError != nil {
		return application.buildError
	}
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	loadedSettings, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(settingsLoadErrorTemplateConstant, loadError)
	}

	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logLevel, levelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if levelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, levelError)
	}
	logFormat, formatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if formatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, formatError)
	}
	logger, loggerError := application.loggerFactory.CreateLogger(logLevel, logFormat)
	if loggerError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
	}
	application.logger = logger

	resolution, resolutionError := application.dependencies.ResolverFactory(logger).Resolve()
	if resolutionError != nil {
		return resolutionError
	}
	application.toolResolution = resolution

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(logFieldLogLevelConstant, string(logLevel)),
		zap.String(logFieldLogFormatConstant, string(logFormat)),
		zap.String(logFieldSettingsFileConstant, loadedSettings.ConfigFileUsed),
		zap.String(logFieldToolConfigurationConstant, resolution.SourcePath),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithSettingsFilePath(dependencies.CommandContext(command), loadedSettings.ConfigFileUsed)
		updatedContext = application.commandContextAccessor.WithToolConfigurationPath(updatedContext, resolution.SourcePath)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}
	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogFormat), string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if !application.dependencies.InteractiveTerminal() {
		return command.Help()
	}
	return application.runMenu(command)
}

func (application *Application) runMenu(rootCommand *cobra.Command) error {
	renderer := dependencies.ResolveRenderer(rootCommand.OutOrStdout())
	options := make([]prompt.Option, 0, len(menuCommandNames)+1)
	for _, commandName := range menuCommandNames {
		if subcommand := findSubcommand(rootCommand, commandName); subcommand != nil {
			options = append(options, prompt.Option{Label: commandName, Value: commandName, Hint: subcommand.Short})
		}
	}
	options = append(options, prompt.Option{Label: menuQuitLabelConstant, Value: menuQuitValueConstant})

	for {
		selected, selectError := application.dependencies.Prompter.Select(menuPromptConstant, options)
		if selectError != nil {
			return dependencies.FinishCommand(renderer, selectError)
		}
		if selected == menuQuitValueConstant {
			return nil
		}

		subcommand := findSubcommand(rootCommand, selected)
		application.logger.Debug(menuCommandStartedMessageConstant, zap.String(logFieldCommandNameConstant, selected))
		subcommand.SetContext(rootCommand.Context())
		if runError := subcommand.RunE(subcommand, nil); runError != nil {
			renderer.Error(runError.Error())
		}
	}
}

func findSubcommand(rootCommand *cobra.Command, name string) *cobra.Command {
	for _, subcommand := range rootCommand.Commands() {
		if subcommand.Name() == name && subcommand.RunE != nil {
			return subcommand
		}
	}
	return nil
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	flagSets := []*pflag.FlagSet{command.PersistentFlags(), command.InheritedFlags()}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSets = append(flagSets, rootCommand.PersistentFlags())
	}
	for _, flagSet := range flagSets {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func defaultSettingsSearchPaths() []string {
	configurationDirectory, directoryError := os.UserConfigDir()
	if directoryError != nil {
		return nil
	}
	return []string{filepath.Join(configurationDirectory, settingsDirectoryNameConstant)}
}

func resolveVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == "(devel)" {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
