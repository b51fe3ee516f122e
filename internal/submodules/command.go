package submodules

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
)

const (
	commandUseNameConstant          = "submodules"
	commandShortDescriptionConstant = "List and maintain submodules"
	listUseNameConstant             = "list"
	listShortDescriptionConstant    = "Show submodule commits and checkout state"
	addUseNameConstant              = "add [url] [path]"
	addShortDescriptionConstant     = "Add a submodule"
	updateUseNameConstant           = "update"
	updateShortDescriptionConstant  = "Initialize and update submodules recursively"
	syncUseNameConstant             = "sync"
	syncShortDescriptionConstant    = "Synchronize submodule URLs from .gitmodules"
	addArgumentCountConstant        = 2
)

// CommandBuilder assembles the submodules command tree.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the submodules command. Without a subcommand it lists submodules.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	listRun := func(command *cobra.Command, arguments []string) error {
		return builder.execute(command, func(service *Service) error {
			return service.List(dependencies.CommandContext(command))
		})
	}

	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Aliases: []string{"submodule"},
		Short:   commandShortDescriptionConstant,
		Args:    cobra.NoArgs,
		RunE:    listRun,
	}

	command.AddCommand(
		&cobra.Command{
			Use:   listUseNameConstant,
			Short: listShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE:  listRun,
		},
		&cobra.Command{
			Use:   addUseNameConstant,
			Short: addShortDescriptionConstant,
			Args:  cobra.MaximumNArgs(addArgumentCountConstant),
			RunE: func(command *cobra.Command, arguments []string) error {
				path := ""
				if len(arguments) == addArgumentCountConstant {
					path = arguments[1]
				}
				return builder.execute(command, func(service *Service) error {
					return service.Add(dependencies.CommandContext(command), dependencies.FirstArgument(arguments), path)
				})
			},
		},
		&cobra.Command{
			Use:   updateUseNameConstant,
			Short: updateShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return builder.execute(command, func(service *Service) error {
					return service.Update(dependencies.CommandContext(command))
				})
			},
		},
		&cobra.Command{
			Use:   syncUseNameConstant,
			Short: syncShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return builder.execute(command, func(service *Service) error {
					return service.Sync(dependencies.CommandContext(command))
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
