package remotes

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	flagutils "github.com/temirov/wgit/internal/utils/flags"
)

const (
	remoteUseNameConstant           = "remote"
	remoteShortDescriptionConstant  = "List and manage remotes"
	listUseNameConstant             = "list"
	listShortDescriptionConstant    = "List remotes with their host and repository"
	addUseNameConstant              = "add [name] [url]"
	addShortDescriptionConstant     = "Add a remote"
	removeUseNameConstant           = "remove [name]"
	removeShortDescriptionConstant  = "Remove a remote"
	renameUseNameConstant           = "rename [old] [new]"
	renameShortDescriptionConstant  = "Rename a remote"
	setURLUseNameConstant           = "set-url [name] [url]"
	setURLShortDescriptionConstant  = "Change a remote URL"
	pushUseNameConstant             = "push [remote]"
	pushShortDescriptionConstant    = "Push the current branch, setting its upstream when missing"
	pullUseNameConstant             = "pull [remote] [branch]"
	pullShortDescriptionConstant    = "Pull upstream changes into the current branch"
	forceWithLeaseFlagNameConstant  = "force-with-lease"
	forceWithLeaseFlagUsageConstant = "Overwrite the remote branch only if it has not moved"
	followTagsFlagNameConstant      = "follow-tags"
	followTagsFlagUsageConstant     = "Also push annotated tags reachable from the pushed commits"
	rebaseFlagNameConstant          = "rebase"
	rebaseFlagShorthandConstant     = "r"
	rebaseFlagUsageConstant         = "Rebase the current branch instead of merging"
	pairArgumentCountConstant       = 2
)

// CommandBuilder assembles the remote, push and pull commands.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the remote command and its subcommands. Without a subcommand it lists remotes.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	listRun := func(command *cobra.Command, arguments []string) error {
		return builder.execute(command, func(service *Service) error {
			return service.List(dependencies.CommandContext(command))
		})
	}

	command := &cobra.Command{
		Use:   remoteUseNameConstant,
		Short: remoteShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  listRun,
	}

	listCommand := &cobra.Command{
		Use:   listUseNameConstant,
		Short: listShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  listRun,
	}

	addCommand := &cobra.Command{
		Use:   addUseNameConstant,
		Short: addShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(pairArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			name, remoteURL := argumentPair(arguments)
			return builder.execute(command, func(service *Service) error {
				return service.Add(dependencies.CommandContext(command), name, remoteURL)
			})
		},
	}

	removeCommand := &cobra.Command{
		Use:   removeUseNameConstant,
		Short: removeShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			assumeYes := flagutils.AssumeYes(command)
			return builder.execute(command, func(service *Service) error {
				return service.Remove(dependencies.CommandContext(command), dependencies.FirstArgument(arguments), assumeYes)
			})
		},
	}
	flagutils.BindAssumeYesFlag(removeCommand)

	renameCommand := &cobra.Command{
		Use:   renameUseNameConstant,
		Short: renameShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(pairArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			oldName, newName := argumentPair(arguments)
			return builder.execute(command, func(service *Service) error {
				return service.Rename(dependencies.CommandContext(command), oldName, newName)
			})
		},
	}

	setURLCommand := &cobra.Command{
		Use:   setURLUseNameConstant,
		Short: setURLShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(pairArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			name, remoteURL := argumentPair(arguments)
			return builder.execute(command, func(service *Service) error {
				return service.SetURL(dependencies.CommandContext(command), name, remoteURL)
			})
		},
	}

	command.AddCommand(listCommand, addCommand, removeCommand, renameCommand, setURLCommand)
	return command, nil
}

// BuildPush constructs the push command.
func (builder *CommandBuilder) BuildPush() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pushUseNameConstant,
		Short: pushShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			forceWithLease, _ := command.Flags().GetBool(forceWithLeaseFlagNameConstant)
			followTags, _ := command.Flags().GetBool(followTagsFlagNameConstant)
			options := PushOptions{Remote: dependencies.FirstArgument(arguments), ForceWithLease: forceWithLease, FollowTags: followTags}
			return builder.execute(command, func(service *Service) error {
				return service.Push(dependencies.CommandContext(command), options)
			})
		},
	}
	command.Flags().Bool(forceWithLeaseFlagNameConstant, false, forceWithLeaseFlagUsageConstant)
	command.Flags().Bool(followTagsFlagNameConstant, false, followTagsFlagUsageConstant)
	return command, nil
}

// BuildPull constructs the pull command.
func (builder *CommandBuilder) BuildPull() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pullUseNameConstant,
		Short: pullShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(pairArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			rebase, _ := command.Flags().GetBool(rebaseFlagNameConstant)
			remote, branch := argumentPair(arguments)
			options := PullOptions{Remote: remote, Branch: branch, Rebase: rebase}
			return builder.execute(command, func(service *Service) error {
				return service.Pull(dependencies.CommandContext(command), options)
			})
		},
	}
	command.Flags().BoolP(rebaseFlagNameConstant, rebaseFlagShorthandConstant, false, rebaseFlagUsageConstant)
	return command, nil
}

func argumentPair(arguments []string) (string, string) {
	first := dependencies.FirstArgument(arguments)
	if len(arguments) < pairArgumentCountConstant {
		return first, ""
	}
	return first, arguments[1]
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
