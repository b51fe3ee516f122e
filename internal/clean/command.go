package clean

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
)

const (
	commandUseNameConstant          = "clean"
	commandShortDescriptionConstant = "Preview and remove untracked files"
	ignoredFlagNameConstant         = "ignored"
	ignoredFlagShorthandConstant    = "x"
	ignoredFlagUsageConstant        = "Include files ignored by .gitignore"
	forceFlagNameConstant           = "force"
	forceFlagShorthandConstant      = "f"
	forceFlagUsageConstant          = "Remove everything previewed without prompting"
)

// CommandBuilder assembles the clean command.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the clean command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	command.Flags().BoolP(ignoredFlagNameConstant, ignoredFlagShorthandConstant, false, ignoredFlagUsageConstant)
	command.Flags().BoolP(forceFlagNameConstant, forceFlagShorthandConstant, false, forceFlagUsageConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	includeIgnored, _ := command.Flags().GetBool(ignoredFlagNameConstant)
	force, _ := command.Flags().GetBool(forceFlagNameConstant)

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
	_, cleanError := service.Clean(dependencies.CommandContext(command), Options{IncludeIgnored: includeIgnored, Force: force})
	return dependencies.FinishCommand(resolved.Renderer, cleanError)
}
