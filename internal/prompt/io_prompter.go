package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	questionTemplateConstant          = "%s\n"
	optionTemplateConstant            = "  %d) %s\n"
	optionWithHintTemplateConstant    = "  %d) %s - %s\n"
	selectInputTemplateConstant       = "Select [1-%d] (q to cancel): "
	multiSelectInputTemplateConstant  = "Select one or more [e.g. 1,3,5-%d], a for all (q to cancel): "
	textTemplateConstant              = "%s: "
	textWithDefaultTemplateConstant   = "%s [%s]: "
	confirmYesDefaultTemplateConstant = "%s [Y/n]: "
	confirmNoDefaultTemplateConstant  = "%s [y/N]: "
	invalidSelectionMessageConstant   = "Invalid selection, try again."
	emptySelectionMessageConstant     = "Select at least one option."
	invalidAnswerMessageConstant      = "Please answer y or n."
	validationErrorTemplateConstant   = "%v\n"
	cancelInputConstant               = "q"
	selectAllInputConstant            = "a"
	selectionSeparatorConstant        = ","
	rangeSeparatorConstant            = "-"
	lineDelimiterConstant             = '\n'
)

// IOPrompter renders numbered menus to a writer and reads answers line by line.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	if output == nil {
		output = io.Discard
	}
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Select shows a numbered menu and returns the chosen option's value.
func (prompter *IOPrompter) Select(message string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", ErrNoOptions
	}
	prompter.writeMenu(message, options)
	for {
		prompter.printf(selectInputTemplateConstant, len(options))
		answer, readError := prompter.readLine()
		if readError != nil {
			return "", readError
		}
		if strings.EqualFold(answer, cancelInputConstant) {
			return "", ErrCancelled
		}
		if index, valid := parseIndex(answer, len(options)); valid {
			return options[index].Value, nil
		}
		for _, option := range options {
			if answer == option.Value {
				return option.Value, nil
			}
		}
		prompter.println(invalidSelectionMessageConstant)
	}
}

// MultiSelect shows a numbered menu and returns the chosen values in menu order.
// Answers accept comma separated numbers and ranges such as 1,3,5-7.
func (prompter *IOPrompter) MultiSelect(message string, options []Option) ([]string, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	prompter.writeMenu(message, options)
	for {
		prompter.printf(multiSelectInputTemplateConstant, len(options))
		answer, readError := prompter.readLine()
		if readError != nil {
			return nil, readError
		}
		switch {
		case strings.EqualFold(answer, cancelInputConstant):
			return nil, ErrCancelled
		case len(answer) == 0:
			prompter.println(emptySelectionMessageConstant)
			continue
		}

		selectedIndexes, valid := parseSelection(answer, len(options))
		if !valid {
			prompter.println(invalidSelectionMessageConstant)
			continue
		}
		values := make([]string, 0, len(options))
		for index, option := range options {
			if selectedIndexes[index] {
				values = append(values, option.Value)
			}
		}
		return values, nil
	}
}

// Text reads a line, substituting the default for an empty answer and repeating until the validator accepts it.
func (prompter *IOPrompter) Text(message string, settings TextSettings) (string, error) {
	for {
		if len(settings.Default) > 0 {
			prompter.printf(textWithDefaultTemplateConstant, message, settings.Default)
		} else {
			prompter.printf(textTemplateConstant, message)
		}
		answer, readError := prompter.readLine()
		if readError != nil {
			return "", readError
		}
		if len(answer) == 0 {
			answer = settings.Default
		}
		if settings.Validate != nil {
			if validationError := settings.Validate(answer); validationError != nil {
				prompter.printf(validationErrorTemplateConstant, validationError)
				continue
			}
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question; an empty answer selects the default.
func (prompter *IOPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	template := confirmNoDefaultTemplateConstant
	if defaultValue {
		template = confirmYesDefaultTemplateConstant
	}
	for {
		prompter.printf(template, message)
		answer, readError := prompter.readLine()
		if readError != nil {
			return false, readError
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultValue, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case cancelInputConstant:
			return false, ErrCancelled
		}
		prompter.println(invalidAnswerMessageConstant)
	}
}

func (prompter *IOPrompter) writeMenu(message string, options []Option) {
	prompter.printf(questionTemplateConstant, message)
	for index, option := range options {
		if len(option.Hint) > 0 {
			prompter.printf(optionWithHintTemplateConstant, index+1, option.Label, option.Hint)
			continue
		}
		prompter.printf(optionTemplateConstant, index+1, option.Label)
	}
}

// readLine returns the trimmed next line. End of input without an answer is a cancellation.
func (prompter *IOPrompter) readLine() (string, error) {
	line, readError := prompter.reader.ReadString(lineDelimiterConstant)
	if readError != nil {
		if !errors.Is(readError, io.EOF) {
			return "", readError
		}
		if len(strings.TrimSpace(line)) == 0 {
			prompter.println("")
			return "", ErrCancelled
		}
	}
	return strings.TrimSpace(line), nil
}

func (prompter *IOPrompter) printf(template string, arguments ...any) {
	_, _ = fmt.Fprintf(prompter.writer, template, arguments...)
}

func (prompter *IOPrompter) println(message string) {
	_, _ = fmt.Fprintln(prompter.writer, message)
}

func parseIndex(answer string, optionCount int) (int, bool) {
	number, conversionError := strconv.Atoi(strings.TrimSpace(answer))
	if conversionError != nil || number < 1 || number > optionCount {
		return 0, false
	}
	return number - 1, true
}

func parseSelection(answer string, optionCount int) (map[int]bool, bool) {
	selected := make(map[int]bool)
	if strings.EqualFold(answer, selectAllInputConstant) {
		for index := 0; index < optionCount; index++ {
			selected[index] = true
		}
		return selected, true
	}
	for _, token := range strings.Split(answer, selectionSeparatorConstant) {
		token = strings.TrimSpace(token)
		if len(token) == 0 {
			continue
		}
		lowerText, upperText, isRange := strings.Cut(token, rangeSeparatorConstant)
		if !isRange {
			index, valid := parseIndex(token, optionCount)
			if !valid {
				return nil, false
			}
			selected[index] = true
			continue
		}
		lowerIndex, lowerValid := parseIndex(lowerText, optionCount)
		upperIndex, upperValid := parseIndex(upperText, optionCount)
		if !lowerValid || !upperValid || lowerIndex > upperIndex {
			return nil, false
		}
		for index := lowerIndex; index <= upperIndex; index++ {
			selected[index] = true
		}
	}
	return selected, len(selected) > 0
}
