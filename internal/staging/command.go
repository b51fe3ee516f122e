package staging

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
)

const (
	stagingUseNameConstant          = "staging"
	stagingShortDescriptionConstant = "Interactively stage and unstage changes"
	stageUseNameConstant            = "stage [paths...]"
	stageShortDescriptionConstant   = "Stage paths, everything with --all, or pick files"
	unstageUseNameConstant          = "unstage [paths...]"
	unstageShortDescriptionConstant = "Unstage paths, everything with --all, or pick files"
	allFlagNameConstant             = "all"
	allFlagShorthandConstant        = "A"
	stageAllFlagUsageConstant       = "Stage every change"
	unstageAllFlagUsageConstant     = "Unstage every change"
)

// CommandBuilder assembles the stage, unstage and staging commands.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the interactive staging command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   stagingUseNameConstant,
		Short: stagingShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.execute(command, func(service *Service) error {
				return service.Interactive(dependencies.CommandContext(command))
			})
		},
	}, nil
}

// BuildStage constructs the stage command.
func (builder *CommandBuilder) BuildStage() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   stageUseNameConstant,
		Short: stageShortDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			all, _ := command.Flags().GetBool(allFlagNameConstant)
			return builder.execute(command, func(service *Service) error {
				return service.Stage(dependencies.CommandContext(command), Options{Paths: arguments, All: all})
			})
		},
	}
	command.Flags().BoolP(allFlagNameConstant, allFlagShorthandConstant, false, stageAllFlagUsageConstant)
	return command, nil
}

// BuildUnstage constructs the unstage command.
func (builder *CommandBuilder) BuildUnstage() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   unstageUseNameConstant,
		Short: unstageShortDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			all, _ := command.Flags().GetBool(allFlagNameConstant)
			return builder.execute(command, func(service *Service) error {
				return service.Unstage(dependencies.CommandContext(command), Options{Paths: arguments, All: all})
			})
		},
	}
	command.Flags().BoolP(allFlagNameConstant, allFlagShorthandConstant, false, unstageAllFlagUsageConstant)
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
