package commit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/wgit/internal/prompt"
)

const (
	unknownModeTemplateConstant       = "unknown commit mode %q"
	aiDisabledMessageConstant         = "the selected commit mode needs AI but AI is disabled"
	conflictingAIFlagsMessageConstant = "--ai and --no-ai cannot be combined"
	selectModeMessageConstant         = "How do you want to commit?"
)

// Mode names a commit flow.
type Mode string

// Supported commit modes.
const (
	ModeAutoCommit    Mode = Mode("autocommit")
	ModePromptEnhance Mode = Mode("prompt-enhance")
	ModeAIGenerate    Mode = Mode("ai-generate")
	ModeInteractive   Mode = Mode("interactive")
	ModeCherryPick    Mode = Mode("cherry-pick")
)

// ErrAIDisabled indicates an AI mode was requested while AI is turned off.
var ErrAIDisabled = errors.New(aiDisabledMessageConstant)

// ErrConflictingAIFlags indicates --ai and --no-ai were both supplied.
var ErrConflictingAIFlags = errors.New(conflictingAIFlagsMessageConstant)

var modeOptions = []prompt.Option{
	{Label: "Auto commit", Value: string(ModeAutoCommit), Hint: "group changes by type and commit each group with an AI message"},
	{Label: "Enhance my message", Value: string(ModePromptEnhance), Hint: "write a draft and let AI polish it"},
	{Label: "Generate with AI", Value: string(ModeAIGenerate), Hint: "draft a message from the diff"},
	{Label: "Interactive", Value: string(ModeInteractive), Hint: "build a conventional commit step by step"},
	{Label: "Cherry pick files", Value: string(ModeCherryPick), Hint: "commit only selected files"},
}

// ModeNames lists the accepted --mode values.
func ModeNames() []string {
	names := make([]string, 0, len(modeOptions))
	for _, option := range modeOptions {
		names = append(names, option.Value)
	}
	return names
}

// ParseMode validates a mode name.
func ParseMode(value string) (Mode, error) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(value)))
	for _, option := range modeOptions {
		if Mode(option.Value) == normalized {
			return normalized, nil
		}
	}
	return "", fmt.Errorf(unknownModeTemplateConstant, value)
}

// RequiresAI reports whether the mode calls a text-generation provider.
func (mode Mode) RequiresAI() bool {
	switch mode {
	case ModeAutoCommit, ModePromptEnhance, ModeAIGenerate:
		return true
	default:
		return false
	}
}

// resolveMode picks the flow: explicit --mode, then the AI flags, then the configured default, then a prompt.
func resolveMode(options Options, prompter prompt.Prompter) (Mode, error) {
	if options.UseAI && options.DisableAI {
		return "", ErrConflictingAIFlags
	}
	aiAllowed := options.UseAI || (options.Settings.UseAI && !options.DisableAI)

	if len(strings.TrimSpace(options.Mode)) > 0 {
		mode, parseError := ParseMode(options.Mode)
		if parseError != nil {
			return "", parseError
		}
		if mode.RequiresAI() && options.DisableAI {
			return "", ErrAIDisabled
		}
		return mode, nil
	}

	if options.UseAI {
		return ModeAIGenerate, nil
	}
	if options.DisableAI {
		return ModeInteractive, nil
	}

	if len(strings.TrimSpace(options.Settings.DefaultMode)) > 0 {
		mode, parseError := ParseMode(options.Settings.DefaultMode)
		if parseError != nil {
			return "", parseError
		}
		if !mode.RequiresAI() || aiAllowed {
			return mode, nil
		}
	}

	availableOptions := make([]prompt.Option, 0, len(modeOptions))
	for _, option := range modeOptions {
		if Mode(option.Value).RequiresAI() && !aiAllowed {
			continue
		}
		availableOptions = append(availableOptions, option)
	}
	selected, selectError := prompter.Select(selectModeMessageConstant, availableOptions)
	if selectError != nil {
		return "", selectError
	}
	return Mode(selected), nil
}
