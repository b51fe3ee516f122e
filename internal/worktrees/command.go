package worktrees

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	flagutils "github.com/temirov/wgit/internal/utils/flags"
)

const (
	commandUseNameConstant          = "worktree"
	commandShortDescriptionConstant = "List and manage linked worktrees"
	listUseNameConstant             = "list"
	listShortDescriptionConstant    = "Show every worktree"
	addUseNameConstant              = "add [path] [branch]"
	addShortDescriptionConstant     = "Add a worktree for an existing or new branch"
	removeUseNameConstant           = "remove [path]"
	removeShortDescriptionConstant  = "Remove a linked worktree"
	pruneUseNameConstant            = "prune"
	pruneShortDescriptionConstant   = "Drop metadata of worktrees whose directories are gone"
	newBranchFlagNameConstant       = "branch"
	newBranchFlagShorthandConstant  = "b"
	newBranchFlagUsageConstant      = "Create this branch for the new worktree"
	forceFlagNameConstant           = "force"
	forceFlagShorthandConstant      = "f"
	forceFlagUsageConstant          = "Remove even with local modifications"
	addArgumentCountConstant        = 2
)

// CommandBuilder assembles the worktree command tree.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the worktree command. Without a subcommand it lists worktrees.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	listRun := func(command *cobra.Command, arguments []string) error {
		return builder.execute(command, func(service *Service) error {
			return service.List(dependencies.CommandContext(command))
		})
	}

	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Aliases: []string{"worktrees"},
		Short:   commandShortDescriptionConstant,
		Args:    cobra.NoArgs,
		RunE:    listRun,
	}

	addCommand := &cobra.Command{
		Use:   addUseNameConstant,
		Short: addShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(addArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			options := AddOptions{Path: dependencies.FirstArgument(arguments)}
			newBranch, _ := command.Flags().GetString(newBranchFlagNameConstant)
			if len(newBranch) > 0 {
				options.Branch = newBranch
				options.NewBranch = true
			} else if len(arguments) == addArgumentCountConstant {
				options.Branch = arguments[1]
			}
			return builder.execute(command, func(service *Service) error {
				return service.Add(dependencies.CommandContext(command), options)
			})
		},
	}
	addCommand.Flags().StringP(newBranchFlagNameConstant, newBranchFlagShorthandConstant, "", newBranchFlagUsageConstant)

	removeCommand := &cobra.Command{
		Use:   removeUseNameConstant,
		Short: removeShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			force, _ := command.Flags().GetBool(forceFlagNameConstant)
			options := RemoveOptions{
				Path:      dependencies.FirstArgument(arguments),
				Force:     force,
				AssumeYes: flagutils.AssumeYes(command),
			}
			return builder.execute(command, func(service *Service) error {
				return service.Remove(dependencies.CommandContext(command), options)
			})
		},
	}
	removeCommand.Flags().BoolP(forceFlagNameConstant, forceFlagShorthandConstant, false, forceFlagUsageConstant)
	flagutils.BindAssumeYesFlag(removeCommand)

	command.AddCommand(
		&cobra.Command{
			Use:   listUseNameConstant,
			Short: listShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE:  listRun,
		},
		addCommand,
		removeCommand,
		&cobra.Command{
			Use:   pruneUseNameConstant,
			Short: pruneShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return builder.execute(command, func(service *Service) error {
					return service.Prune(dependencies.CommandContext(command))
				})
			},
		},
	)
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
		WorkingDirectory: builder.WorkingDirectory,
	})
	if serviceError != nil {
		return serviceError
	}
	return dependencies.FinishCommand(resolved.Renderer, operation(service))
}
