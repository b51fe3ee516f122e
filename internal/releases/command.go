package releases

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	flagutils "github.com/temirov/wgit/internal/utils/flags"
)

const (
	commandUseNameConstant          = "release [version]"
	commandShortDescriptionConstant = "Tag the next semantic version"
	commandLongDescriptionConstant  = "release creates an annotated tag for the next version after the latest tag. Pass an explicit version, a bump flag, or choose interactively."
	majorFlagNameConstant           = "major"
	minorFlagNameConstant           = "minor"
	patchFlagNameConstant           = "patch"
	bumpFlagUsageTemplateConstant   = "Increment the %s version"
	pushFlagNameConstant            = "push"
	pushFlagUsageConstant           = "Push the tag to the default remote"
	dryRunFlagNameConstant          = "dry-run"
	dryRunFlagUsageConstant         = "Print the tag that would be created without creating it"
	versionWithBumpMessageConstant  = "an explicit version cannot be combined with a bump flag"
)

// ErrVersionWithBump indicates both an explicit version and a bump flag were given.
var ErrVersionWithBump = errors.New(versionWithBumpMessageConstant)

// CommandBuilder assembles the release command.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the release command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	for _, bump := range []Bump{BumpMajor, BumpMinor, BumpPatch} {
		command.Flags().Bool(string(bump), false, fmt.Sprintf(bumpFlagUsageTemplateConstant, bump))
	}
	command.MarkFlagsMutuallyExclusive(majorFlagNameConstant, minorFlagNameConstant, patchFlagNameConstant)
	command.Flags().Bool(pushFlagNameConstant, false, pushFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	flagutils.BindAssumeYesFlag(command)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := Options{Version: dependencies.FirstArgument(arguments), AssumeYes: flagutils.AssumeYes(command)}
	for _, bump := range []Bump{BumpMajor, BumpMinor, BumpPatch} {
		if selected, _ := command.Flags().GetBool(string(bump)); selected {
			options.Bump = bump
		}
	}
	if len(options.Version) > 0 && len(options.Bump) > 0 {
		return ErrVersionWithBump
	}
	options.Push, _ = command.Flags().GetBool(pushFlagNameConstant)
	options.DryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)

	resolved, resolveError := dependencies.Resolve(command, builder.Inputs)
	if resolveError != nil {
		return resolveError
	}
	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:      resolved.GitExecutor,
		Prompter:         resolved.Prompter,
		Renderer:         resolved.Renderer,
		Settings:         resolved.Configuration.Release,
		DefaultRemote:    resolved.Configuration.Branch.DefaultRemote,
		WorkingDirectory: builder.WorkingDirectory,
	})
	if serviceError != nil {
		return serviceError
	}
	_, releaseError := service.Release(dependencies.CommandContext(command), options)
	return dependencies.FinishCommand(resolved.Renderer, releaseError)
}
