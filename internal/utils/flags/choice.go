// Package flags provides pflag helpers shared by wgit commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix    = "<"
	choicePlaceholderSuffix    = ">"
	choiceSeparatorLiteral     = "|"
	choiceUsageEmptyTemplate   = "`%s`"
	choiceUsageFullTemplate    = "`%s` %s"
	choiceFlagTypeConstant     = "string"
	invalidChoiceErrorTemplate = "must be one of %s"
)

// ChoiceValue is a string flag restricted to a fixed set of values. Matching ignores case.
type ChoiceValue struct {
	value   string
	choices []string
}

// NewChoiceValue constructs a ChoiceValue holding the default.
func NewChoiceValue(defaultValue string, choices []string) *ChoiceValue {
	return &ChoiceValue{value: defaultValue, choices: normalizeChoices(choices)}
}

// String returns the current value.
func (choiceValue *ChoiceValue) String() string {
	if choiceValue == nil {
		return ""
	}
	return choiceValue.value
}

// Set accepts a value when it matches one of the choices.
func (choiceValue *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	for _, choice := range choiceValue.choices {
		if choice == normalizedCandidate {
			choiceValue.value = choice
			return nil
		}
	}
	return fmt.Errorf(invalidChoiceErrorTemplate, strings.Join(choiceValue.choices, ", "))
}

// Type reports the string type so pflag's GetString accessor works.
func (choiceValue *ChoiceValue) Type() string {
	return choiceFlagTypeConstant
}

// AddChoiceFlag registers a ChoiceValue flag with a usage string listing the choices.
func AddChoiceFlag(flagSet *pflag.FlagSet, name string, defaultValue string, choices []string, description string) *ChoiceValue {
	choiceValue := NewChoiceValue(defaultValue, choices)
	if flagSet == nil || len(name) == 0 {
		return choiceValue
	}
	flagSet.Var(choiceValue, name, FormatChoiceUsage(defaultValue, choices, description))
	return choiceValue
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	for _, choice := range normalizeChoices(choices) {
		if choice == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		highlighted = append(highlighted, choice)
	}

	placeholder := choicePlaceholderPrefix + strings.Join(highlighted, choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, exists := seen[trimmedChoice]; exists {
			continue
		}
		seen[trimmedChoice] = struct{}{}
		normalized = append(normalized, trimmedChoice)
	}
	return normalized
}
