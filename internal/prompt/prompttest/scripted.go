// Package prompttest provides a scripted prompt.Prompter for handler tests.
package prompttest

import (
	"fmt"

	"github.com/temirov/wgit/internal/prompt"
)

const (
	unexpectedPromptTemplateConstant = "unexpected prompt %q: no scripted answer left"
	unknownOptionTemplateConstant    = "scripted answer %q is not an option of %q"
)

// Answer is one scripted reply. Err, when set, is returned instead of the value.
type Answer struct {
	Value     string
	Values    []string
	Confirmed bool
	Err       error
}

// Choose scripts a Select or Text reply.
func Choose(value string) Answer {
	return Answer{Value: value}
}

// ChooseMany scripts a MultiSelect reply.
func ChooseMany(values ...string) Answer {
	return Answer{Values: values}
}

// Yes scripts a positive Confirm reply.
func Yes() Answer {
	return Answer{Confirmed: true}
}

// No scripts a negative Confirm reply.
func No() Answer {
	return Answer{}
}

// Cancel scripts a user abort.
func Cancel() Answer {
	return Answer{Err: prompt.ErrCancelled}
}

// ScriptedPrompter replays answers in order and records every prompt message.
type ScriptedPrompter struct {
	Answers  []Answer
	Messages []string
	Options  [][]prompt.Option
}

// NewScriptedPrompter constructs a prompter that replays the answers.
func NewScriptedPrompter(answers ...Answer) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

// Remaining reports how many answers were not consumed.
func (prompter *ScriptedPrompter) Remaining() int {
	return len(prompter.Answers)
}

func (prompter *ScriptedPrompter) next(message string, options []prompt.Option) (Answer, error) {
	prompter.Messages = append(prompter.Messages, message)
	prompter.Options = append(prompter.Options, options)
	if len(prompter.Answers) == 0 {
		return Answer{}, fmt.Errorf(unexpectedPromptTemplateConstant, message)
	}
	answer := prompter.Answers[0]
	prompter.Answers = prompter.Answers[1:]
	return answer, answer.Err
}

// Select returns the next scripted value, which must be one of the options.
func (prompter *ScriptedPrompter) Select(message string, options []prompt.Option) (string, error) {
	answer, answerError := prompter.next(message, options)
	if answerError != nil {
		return "", answerError
	}
	for _, option := range options {
		if option.Value == answer.Value {
			return answer.Value, nil
		}
	}
	return "", fmt.Errorf(unknownOptionTemplateConstant, answer.Value, message)
}

// MultiSelect returns the next scripted values.
func (prompter *ScriptedPrompter) MultiSelect(message string, options []prompt.Option) ([]string, error) {
	answer, answerError := prompter.next(message, options)
	if answerError != nil {
		return nil, answerError
	}
	return answer.Values, nil
}

// Text returns the next scripted value, the default when it is empty, and applies the validator.
func (prompter *ScriptedPrompter) Text(message string, settings prompt.TextSettings) (string, error) {
	answer, answerError := prompter.next(message, nil)
	if answerError != nil {
		return "", answerError
	}
	value := answer.Value
	if len(value) == 0 {
		value = settings.Default
	}
	if settings.Validate != nil {
		if validationError := settings.Validate(value); validationError != nil {
			return "", validationError
		}
	}
	return value, nil
}

// Confirm returns the next scripted confirmation.
func (prompter *ScriptedPrompter) Confirm(message string, _ bool) (bool, error) {
	answer, answerError := prompter.next(message, nil)
	if answerError != nil {
		return false, answerError
	}
	return answer.Confirmed, nil
}
