package repoinit

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	"github.com/temirov/wgit/internal/utils"
)

const (
	initUseNameConstant                = "init [directory]"
	initShortDescriptionConstant       = "Create a git repository"
	configUseNameConstant              = "config"
	configShortDescriptionConstant     = "Show or create the wgit configuration"
	showUseNameConstant                = "show"
	showShortDescriptionConstant       = "Print the resolved configuration as YAML"
	configInitUseNameConstant          = "init [path]"
	configInitShortDescriptionConstant = "Write the default configuration file"
	initialBranchFlagNameConstant      = "initial-branch"
	initialBranchFlagShorthandConstant = "b"
	initialBranchFlagUsageConstant     = "Name of the first branch"
	withConfigFlagNameConstant         = "with-config"
	withConfigFlagUsageConstant        = "Also write a default configuration file into the repository"
	forceFlagNameConstant              = "force"
	forceFlagShorthandConstant         = "f"
	forceFlagUsageConstant             = "Overwrite an existing configuration file without asking"
)

// CommandBuilder assembles the init and config commands.
type CommandBuilder struct {
	dependencies.Inputs
	FileSystem afero.Fs
}

// Build constructs the init command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   initUseNameConstant,
		Short: initShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			initialBranch, _ := command.Flags().GetString(initialBranchFlagNameConstant)
			withConfig, _ := command.Flags().GetBool(withConfigFlagNameConstant)
			options := InitOptions{Directory: dependencies.FirstArgument(arguments), InitialBranch: initialBranch, WithConfig: withConfig}
			return builder.execute(command, func(service *Service) error {
				return service.Init(dependencies.CommandContext(command), options)
			})
		},
	}
	command.Flags().StringP(initialBranchFlagNameConstant, initialBranchFlagShorthandConstant, "", initialBranchFlagUsageConstant)
	command.Flags().Bool(withConfigFlagNameConstant, false, withConfigFlagUsageConstant)
	return command, nil
}

// BuildConfig constructs the config command. Without a subcommand it shows the configuration.
func (builder *CommandBuilder) BuildConfig() (*cobra.Command, error) {
	showRun := func(command *cobra.Command, arguments []string) error {
		return builder.execute(command, func(service *Service) error {
			return service.ShowConfig()
		})
	}

	command := &cobra.Command{
		Use:   configUseNameConstant,
		Short: configShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  showRun,
	}

	initCommand := &cobra.Command{
		Use:   configInitUseNameConstant,
		Short: configInitShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			force, _ := command.Flags().GetBool(forceFlagNameConstant)
			return builder.execute(command, func(service *Service) error {
				return service.InitConfig(dependencies.FirstArgument(arguments), force)
			})
		},
	}
	initCommand.Flags().BoolP(forceFlagNameConstant, forceFlagShorthandConstant, false, forceFlagUsageConstant)

	command.AddCommand(
		&cobra.Command{
			Use:   showUseNameConstant,
			Short: showShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE:  showRun,
		},
		initCommand,
	)
	return command, nil
}

func (builder *CommandBuilder) execute(command *cobra.Command, operation func(*Service) error) error {
	resolved, resolveError := dependencies.Resolve(command, builder.Inputs)
	if resolveError != nil {
		return resolveError
	}
	configurationSource, _ := utils.NewCommandContextAccessor().ToolConfigurationPath(dependencies.CommandContext(command))
	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:         resolved.GitExecutor,
		Prompter:            resolved.Prompter,
		Renderer:            resolved.Renderer,
		FileSystem:          builder.FileSystem,
		Configuration:       resolved.Configuration,
		ConfigurationSource: configurationSource,
		WorkingDirectory:    builder.WorkingDirectory,
	})
	if serviceError != nil {
		return serviceError
	}
	return dependencies.FinishCommand(resolved.Renderer, operation(service))
}
