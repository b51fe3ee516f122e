package prompt

import (
	"errors"
)

const (
	cancelledMessageConstant = "operation cancelled"
	noOptionsMessageConstant = "no options to choose from"
)

// ErrCancelled reports that the user aborted a prompt.
var ErrCancelled = errors.New(cancelledMessageConstant)

// ErrNoOptions reports a selection prompt without options.
var ErrNoOptions = errors.New(noOptionsMessageConstant)

// Option is one entry of a selection menu.
type Option struct {
	Label string
	Value string
	Hint  string
}

// TextSettings customizes a free-text prompt.
type TextSettings struct {
	Default  string
	Validate func(string) error
}

// Prompter collects user input.
type Prompter interface {
	Select(message string, options []Option) (string, error)
	MultiSelect(message string, options []Option) ([]string, error)
	Text(message string, settings TextSettings) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// IsCancelled reports whether err signals a user abort.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// OptionsFromValues builds options whose labels equal their values.
func OptionsFromValues(values []string) []Option {
	options := make([]Option, 0, len(values))
	for _, value := range values {
		options = append(options, Option{Label: value, Value: value})
	}
	return options
}
