package history

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	flagutils "github.com/temirov/wgit/internal/utils/flags"
)

const (
	logUseNameConstant             = "log"
	logShortDescriptionConstant    = "Show recent commits as a table"
	resetUseNameConstant           = "reset [commit]"
	resetShortDescriptionConstant  = "Move the current branch to another commit"
	revertUseNameConstant          = "revert [commit]"
	revertShortDescriptionConstant = "Create a commit that undoes another"
	rebaseUseNameConstant          = "rebase [branch]"
	rebaseShortDescriptionConstant = "Replay the current branch onto another branch"
	countFlagNameConstant          = "count"
	countFlagShorthandConstant     = "n"
	countFlagUsageConstant         = "Number of commits to show"
	defaultLogCountConstant        = 20
	softFlagNameConstant           = "soft"
	softFlagUsageConstant          = "Keep changes staged"
	mixedFlagNameConstant          = "mixed"
	mixedFlagUsageConstant         = "Keep changes in the working tree"
	hardFlagNameConstant           = "hard"
	hardFlagUsageConstant          = "Discard all changes"
	noCommitFlagNameConstant       = "no-commit"
	noCommitFlagUsageConstant      = "Stage the inverse change without committing"
	continueFlagNameConstant       = "continue"
	continueFlagUsageConstant      = "Continue the rebase in progress"
	abortFlagNameConstant          = "abort"
	abortFlagUsageConstant         = "Abort the rebase in progress"
	skipFlagNameConstant           = "skip"
	skipFlagUsageConstant          = "Skip the current commit of the rebase in progress"
)

// CommandBuilder assembles the log, reset, revert and rebase commands.
type CommandBuilder struct {
	dependencies.Inputs
}

// BuildLog constructs the log command.
func (builder *CommandBuilder) BuildLog() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   logUseNameConstant,
		Short: logShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			count, _ := command.Flags().GetInt(countFlagNameConstant)
			return builder.execute(command, func(service *Service) error {
				return service.Log(dependencies.CommandContext(command), count)
			})
		},
	}
	command.Flags().IntP(countFlagNameConstant, countFlagShorthandConstant, defaultLogCountConstant, countFlagUsageConstant)
	return command, nil
}

// BuildReset constructs the reset command.
func (builder *CommandBuilder) BuildReset() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   resetUseNameConstant,
		Short: resetShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			options := ResetOptions{
				Mode:      resetModeFromFlags(command),
				Target:    dependencies.FirstArgument(arguments),
				AssumeYes: flagutils.AssumeYes(command),
			}
			return builder.execute(command, func(service *Service) error {
				return service.Reset(dependencies.CommandContext(command), options)
			})
		},
	}
	command.Flags().Bool(softFlagNameConstant, false, softFlagUsageConstant)
	command.Flags().Bool(mixedFlagNameConstant, false, mixedFlagUsageConstant)
	command.Flags().Bool(hardFlagNameConstant, false, hardFlagUsageConstant)
	command.MarkFlagsMutuallyExclusive(softFlagNameConstant, mixedFlagNameConstant, hardFlagNameConstant)
	flagutils.BindAssumeYesFlag(command)
	return command, nil
}

// BuildRevert constructs the revert command.
func (builder *CommandBuilder) BuildRevert() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   revertUseNameConstant,
		Short: revertShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			noCommit, _ := command.Flags().GetBool(noCommitFlagNameConstant)
			options := RevertOptions{Commit: dependencies.FirstArgument(arguments), NoCommit: noCommit}
			return builder.execute(command, func(service *Service) error {
				return service.Revert(dependencies.CommandContext(command), options)
			})
		},
	}
	command.Flags().Bool(noCommitFlagNameConstant, false, noCommitFlagUsageConstant)
	return command, nil
}

// BuildRebase constructs the rebase command.
func (builder *CommandBuilder) BuildRebase() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   rebaseUseNameConstant,
		Short: rebaseShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			flagSet := command.Flags()
			continueRebase, _ := flagSet.GetBool(continueFlagNameConstant)
			abortRebase, _ := flagSet.GetBool(abortFlagNameConstant)
			skipCommit, _ := flagSet.GetBool(skipFlagNameConstant)
			options := RebaseOptions{
				Onto:      dependencies.FirstArgument(arguments),
				Continue:  continueRebase,
				Abort:     abortRebase,
				Skip:      skipCommit,
				AssumeYes: flagutils.AssumeYes(command),
			}
			return builder.execute(command, func(service *Service) error {
				return service.Rebase(dependencies.CommandContext(command), options)
			})
		},
	}
	command.Flags().Bool(continueFlagNameConstant, false, continueFlagUsageConstant)
	command.Flags().Bool(abortFlagNameConstant, false, abortFlagUsageConstant)
	command.Flags().Bool(skipFlagNameConstant, false, skipFlagUsageConstant)
	flagutils.BindAssumeYesFlag(command)
	return command, nil
}

func resetModeFromFlags(command *cobra.Command) ResetMode {
	for _, candidate := range []ResetMode{ResetModeSoft, ResetModeMixed, ResetModeHard} {
		if enabled, _ := command.Flags().GetBool(string(candidate)); enabled {
			return candidate
		}
	}
	return ""
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
