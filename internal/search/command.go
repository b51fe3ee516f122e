package search

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/wgit/internal/dependencies"
)

const (
	commandUseNameConstant          = "search [term]"
	commandShortDescriptionConstant = "Search tracked files and show matches grouped by file"
	commandLongDescriptionConstant  = "search runs git grep over tracked files. Defaults for case sensitivity and context lines come from the search section of the configuration."
	commandExampleConstant          = "wgit search TODO -i\nwgit search \"func main\" -C 2 -g '*.go'"
	ignoreCaseFlagNameConstant      = "ignore-case"
	ignoreCaseFlagShorthandConstant = "i"
	ignoreCaseFlagUsageConstant     = "Match case-insensitively"
	wholeWordFlagNameConstant       = "word"
	wholeWordFlagShorthandConstant  = "w"
	wholeWordFlagUsageConstant      = "Match whole words only"
	invertFlagNameConstant          = "invert"
	invertFlagShorthandConstant     = "v"
	invertFlagUsageConstant         = "Show lines that do not match"
	contextFlagNameConstant         = "context"
	contextFlagShorthandConstant    = "C"
	contextFlagUsageConstant        = "Lines of context around each match"
	globFlagNameConstant            = "glob"
	globFlagShorthandConstant       = "g"
	globFlagUsageConstant           = "Limit the search to paths matching the glob"
	termArgumentSeparatorConstant   = " "
)

// CommandBuilder assembles the search command.
type CommandBuilder struct {
	dependencies.Inputs
}

// Build constructs the search command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}

	command.Flags().BoolP(ignoreCaseFlagNameConstant, ignoreCaseFlagShorthandConstant, false, ignoreCaseFlagUsageConstant)
	command.Flags().BoolP(wholeWordFlagNameConstant, wholeWordFlagShorthandConstant, false, wholeWordFlagUsageConstant)
	command.Flags().BoolP(invertFlagNameConstant, invertFlagShorthandConstant, false, invertFlagUsageConstant)
	command.Flags().IntP(contextFlagNameConstant, contextFlagShorthandConstant, 0, contextFlagUsageConstant)
	command.Flags().StringP(globFlagNameConstant, globFlagShorthandConstant, "", globFlagUsageConstant)

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

	flagSet := command.Flags()
	ignoreCase, _ := flagSet.GetBool(ignoreCaseFlagNameConstant)
	wholeWord, _ := flagSet.GetBool(wholeWordFlagNameConstant)
	invert, _ := flagSet.GetBool(invertFlagNameConstant)
	contextLines, _ := flagSet.GetInt(contextFlagNameConstant)
	glob, _ := flagSet.GetString(globFlagNameConstant)

	settings := resolved.Configuration.Search
	if !flagSet.Changed(contextFlagNameConstant) {
		contextLines = settings.ContextLines
	}

	searchError := service.Search(dependencies.CommandContext(command), Options{
		Term:         strings.Join(arguments, termArgumentSeparatorConstant),
		IgnoreCase:   ignoreCase || settings.IgnoreCase,
		WholeWord:    wholeWord,
		Invert:       invert,
		ContextLines: contextLines,
		Glob:         glob,
	})
	return dependencies.FinishCommand(resolved.Renderer, searchError)
}
