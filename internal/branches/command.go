package branches

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	flagutils "github.com/temirov/wgit/internal/utils/flags"
)

const (
	commandUseNameConstant            = "branch"
	commandShortDescriptionConstant   = "List, create, switch, delete and rename branches"
	commandLongDescriptionConstant    = "branch manages local branches. Without a subcommand it opens an interactive branch menu."
	listUseNameConstant               = "list"
	listShortDescriptionConstant      = "List branches"
	createUseNameConstant             = "create [name] [start-point]"
	createShortDescriptionConstant    = "Create a branch"
	switchUseNameConstant             = "switch [name]"
	switchShortDescriptionConstant    = "Switch to a branch, creating it when missing"
	deleteUseNameConstant             = "delete [name]"
	deleteShortDescriptionConstant    = "Delete a local branch"
	renameUseNameConstant             = "rename [old] [new]"
	renameShortDescriptionConstant    = "Rename a branch; with one argument renames the current branch"
	allFlagNameConstant               = "all"
	allFlagShorthandConstant          = "a"
	allFlagUsageConstant              = "Include remote-tracking branches"
	switchFlagNameConstant            = "switch"
	switchFlagShorthandConstant       = "s"
	switchFlagUsageConstant           = "Switch to the new branch"
	createFlagNameConstant            = "create"
	createFlagShorthandConstant       = "c"
	createFlagUsageConstant           = "Create the branch without asking when it does not exist"
	forceFlagNameConstant             = "force"
	forceFlagShorthandConstant        = "f"
	forceFlagUsageConstant            = "Delete even when the branch is not fully merged"
	renameArgumentCountConstant       = 2
	currentBranchRenameArgumentsCount = 1
)

// CommandBuilder assembles the branch command tree.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the branch command and its subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.execute(command, func(service *Service) error {
				return service.Interactive(dependencies.CommandContext(command))
			})
		},
	}

	listCommand := &cobra.Command{
		Use:   listUseNameConstant,
		Short: listShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			includeRemote, _ := command.Flags().GetBool(allFlagNameConstant)
			return builder.execute(command, func(service *Service) error {
				return service.List(dependencies.CommandContext(command), includeRemote)
			})
		},
	}
	listCommand.Flags().BoolP(allFlagNameConstant, allFlagShorthandConstant, false, allFlagUsageConstant)

	createCommand := &cobra.Command{
		Use:   createUseNameConstant,
		Short: createShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			switchAfter, _ := command.Flags().GetBool(switchFlagNameConstant)
			options := CreateOptions{Name: dependencies.FirstArgument(arguments), Switch: switchAfter}
			if len(arguments) > 1 {
				options.StartPoint = arguments[1]
			}
			return builder.execute(command, func(service *Service) error {
				return service.Create(dependencies.CommandContext(command), options)
			})
		},
	}
	createCommand.Flags().BoolP(switchFlagNameConstant, switchFlagShorthandConstant, false, switchFlagUsageConstant)

	switchCommand := &cobra.Command{
		Use:   switchUseNameConstant,
		Short: switchShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			createIfMissing, _ := command.Flags().GetBool(createFlagNameConstant)
			options := SwitchOptions{
				Name:            dependencies.FirstArgument(arguments),
				CreateIfMissing: createIfMissing,
				AssumeYes:       flagutils.AssumeYes(command),
			}
			return builder.execute(command, func(service *Service) error {
				return service.Switch(dependencies.CommandContext(command), options)
			})
		},
	}
	switchCommand.Flags().BoolP(createFlagNameConstant, createFlagShorthandConstant, false, createFlagUsageConstant)
	flagutils.BindAssumeYesFlag(switchCommand)

	deleteCommand := &cobra.Command{
		Use:   deleteUseNameConstant,
		Short: deleteShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			force, _ := command.Flags().GetBool(forceFlagNameConstant)
			options := DeleteOptions{
				Name:      dependencies.FirstArgument(arguments),
				Force:     force,
				AssumeYes: flagutils.AssumeYes(command),
			}
			return builder.execute(command, func(service *Service) error {
				return service.Delete(dependencies.CommandContext(command), options)
			})
		},
	}
	deleteCommand.Flags().BoolP(forceFlagNameConstant, forceFlagShorthandConstant, false, forceFlagUsageConstant)
	flagutils.BindAssumeYesFlag(deleteCommand)

	renameCommand := &cobra.Command{
		Use:   renameUseNameConstant,
		Short: renameShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(renameArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.execute(command, func(service *Service) error {
				executionContext := dependencies.CommandContext(command)
				switch len(arguments) {
				case renameArgumentCountConstant:
					return service.Rename(executionContext, arguments[0], arguments[1])
				case currentBranchRenameArgumentsCount:
					currentBranch, branchError := service.repository.CurrentBranch(executionContext)
					if branchError != nil {
						return branchError
					}
					return service.Rename(executionContext, currentBranch, arguments[0])
				default:
					return service.Rename(executionContext, "", "")
				}
			})
		},
	}

	command.AddCommand(listCommand, createCommand, switchCommand, deleteCommand, renameCommand)
	return command, nil
}

func (builder *CommandBuilder) execute(command *cobra.Command, operation func(*Service) error) error {
	resolved, resolveError := dependencies.Resolve(command, builder.Inputs)
	if resolveError != nil {
		return resolveError
	}
	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:      resolved.GitExecutor,
		Prompter:         resolved.Prompter,
		Renderer:         resolved.Renderer,
		Settings:         resolved.Configuration.Branch,
		WorkingDirectory: builder.WorkingDirectory,
	})
	if serviceError != nil {
		return serviceError
	}
	return dependencies.FinishCommand(resolved.Renderer, operation(service))
}
