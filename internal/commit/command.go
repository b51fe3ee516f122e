package commit

import (
	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
	flagutils "github.com/temirov/wgit/internal/utils/flags"
)

const (
	commandUseNameConstant          = "commit"
	commandShortDescriptionConstant = "Create a commit interactively or with AI assistance"
	commandLongDescriptionConstant  = "commit checks for pending changes, lets you pick how to write the message (auto commit by change type, AI generated, AI enhanced, interactive or cherry-picked files) and creates the commit. A message given with --message is committed directly."
	commandExampleConstant          = "wgit commit --ai\nwgit commit -t feat -s api -m \"add endpoint\"\nwgit commit --mode autocommit"
	aiFlagNameConstant              = "ai"
	aiFlagShorthandConstant         = "a"
	aiFlagUsageConstant             = "Generate the message from the diff with AI"
	noAIFlagNameConstant            = "no-ai"
	noAIFlagUsageConstant           = "Never call an AI provider"
	messageFlagNameConstant         = "message"
	messageFlagShorthandConstant    = "m"
	messageFlagUsageConstant        = "Commit message or subject; commits without prompting"
	typeFlagNameConstant            = "type"
	typeFlagShorthandConstant       = "t"
	typeFlagUsageConstant           = "Conventional commit type"
	scopeFlagNameConstant           = "scope"
	scopeFlagShorthandConstant      = "s"
	scopeFlagUsageConstant          = "Conventional commit scope"
	breakingFlagNameConstant        = "breaking"
	breakingFlagShorthandConstant   = "b"
	breakingFlagUsageConstant       = "Mark the commit as a breaking change"
	modeFlagNameConstant            = "mode"
	modeFlagUsageConstant           = "Commit flow to run"
)

// CommandBuilder assembles the commit command.
type CommandBuilder struct {
	dependencies.Inputs
	GeneratorFactory GeneratorFactory
}

// Build constructs the commit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}

	command.Flags().BoolP(aiFlagNameConstant, aiFlagShorthandConstant, false, aiFlagUsageConstant)
	command.Flags().Bool(noAIFlagNameConstant, false, noAIFlagUsageConstant)
	command.Flags().StringP(messageFlagNameConstant, messageFlagShorthandConstant, "", messageFlagUsageConstant)
	command.Flags().StringP(typeFlagNameConstant, typeFlagShorthandConstant, "", typeFlagUsageConstant)
	command.Flags().StringP(scopeFlagNameConstant, scopeFlagShorthandConstant, "", scopeFlagUsageConstant)
	command.Flags().BoolP(breakingFlagNameConstant, breakingFlagShorthandConstant, false, breakingFlagUsageConstant)
	flagutils.AddChoiceFlag(command.Flags(), modeFlagNameConstant, "", ModeNames(), modeFlagUsageConstant)

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
		Logger:           resolved.Logger,
		GeneratorFactory: builder.GeneratorFactory,
		WorkingDirectory: builder.WorkingDirectory,
	})
	if serviceError != nil {
		return serviceError
	}

	flagSet := command.Flags()
	useAI, _ := flagSet.GetBool(aiFlagNameConstant)
	disableAI, _ := flagSet.GetBool(noAIFlagNameConstant)
	message, _ := flagSet.GetString(messageFlagNameConstant)
	commitType, _ := flagSet.GetString(typeFlagNameConstant)
	scope, _ := flagSet.GetString(scopeFlagNameConstant)
	breaking, _ := flagSet.GetBool(breakingFlagNameConstant)
	mode, _ := flagSet.GetString(modeFlagNameConstant)

	_, commitError := service.Commit(dependencies.CommandContext(command), Options{
		Message:   message,
		Type:      commitType,
		Scope:     scope,
		Breaking:  breaking,
		UseAI:     useAI,
		DisableAI: disableAI,
		Mode:      mode,
		Settings:  resolved.Configuration.Commit,
		AI:        resolved.Configuration.AI,
	})
	return dependencies.FinishCommand(resolved.Renderer, commitError)
}
