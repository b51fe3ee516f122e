package status

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
)

const (
	commandUseNameConstant          = "status"
	commandShortDescriptionConstant = "Show branch, upstream and working tree status"
	commandLongDescriptionConstant  = "status prints the current branch, how far it is ahead of or behind its upstream, and the changed files grouped into staged, modified, mixed and untracked."
)

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	resolved, resolveError := dependencies.Resolve(command, builder.Inputs)
	if resolveError != nil {
		return resolveError
	}

	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:      resolved.GitExecutor,
		Renderer:         resolved.Renderer,
		WorkingDirectory: builder.WorkingDirectory,
	})
	if serviceError != nil {
		return serviceError
	}

	_, showError := service.Show(dependencies.CommandContext(command))
	return showError
}
