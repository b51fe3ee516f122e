package merge

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
)

const (
	commandUseNameConstant          = "merge [branch]"
	commandShortDescriptionConstant = "Merge a branch into the current branch"
	commandLongDescriptionConstant  = "merge merges the given branch into the current one. Without a branch it lets you pick the branch and the merge strategy. Conflicted files are listed when the merge stops."
	noFastForwardFlagNameConstant   = "no-ff"
	noFastForwardFlagUsageConstant  = "Always create a merge commit"
	squashFlagNameConstant          = "squash"
	squashFlagUsageConstant         = "Squash the branch into the index without committing"
	abortFlagNameConstant           = "abort"
	abortFlagUsageConstant          = "Abort the merge in progress"
)

// CommandBuilder assembles the merge command.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the merge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(noFastForwardFlagNameConstant, false, noFastForwardFlagUsageConstant)
	command.Flags().Bool(squashFlagNameConstant, false, squashFlagUsageConstant)
	command.Flags().Bool(abortFlagNameConstant, false, abortFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	noFastForward, _ := command.Flags().GetBool(noFastForwardFlagNameConstant)
	squash, _ := command.Flags().GetBool(squashFlagNameConstant)
	abort, _ := command.Flags().GetBool(abortFlagNameConstant)

	_, mergeError := service.Merge(dependencies.CommandContext(command), Options{
		Branch:        dependencies.FirstArgument(arguments),
		NoFastForward: noFastForward,
		Squash:        squash,
		Abort:         abort,
	})
	return dependencies.FinishCommand(resolved.Renderer, mergeError)
}
