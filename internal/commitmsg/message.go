package commitmsg

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	scopeTemplateConstant          = "(%s)"
	subjectSeparatorConstant       = ": "
	breakingChangeTemplateConstant = "\n\nBREAKING CHANGE: %s"
	emptySubjectMessageConstant    = "subject must not be empty"
	subjectTooLongTemplateConstant = "subject is %d characters; the limit is %d"
	emptyTypeMessageConstant       = "commit type must not be empty"
	unknownTypeMessageConstant     = "unknown commit type"
	unknownTypeTemplateConstant    = "%w: %q"
)

// ErrEmptySubject indicates a blank commit subject.
var ErrEmptySubject = errors.New(emptySubjectMessageConstant)

// ErrEmptyType indicates a blank commit type.
var ErrEmptyType = errors.New(emptyTypeMessageConstant)

// ErrUnknownType indicates a commit type missing from the commit type table.
var ErrUnknownType = errors.New(unknownTypeMessageConstant)

// Message holds the parts of a conventional commit message.
type Message struct {
	Type                string
	Scope               string
	Subject             string
	Breaking            bool
	BreakingDescription string
}

// String renders the message with BuildMessage.
func (message Message) String() string {
	return BuildMessage(message.Type, message.Scope, message.Subject, message.Breaking, message.BreakingDescription)
}

// BuildMessage renders `type(scope): subject` with an optional BREAKING CHANGE footer.
// The scope is omitted when blank and the footer requires both breaking and a non-blank description.
// Subject length is not checked here; see ValidateSubject.
func BuildMessage(commitType string, scope string, subject string, breaking bool, breakingDescription string) string {
	var builder strings.Builder
	builder.WriteString(commitType)
	if trimmedScope := strings.TrimSpace(scope); len(trimmedScope) > 0 {
		builder.WriteString(fmt.Sprintf(scopeTemplateConstant, trimmedScope))
	}
	builder.WriteString(subjectSeparatorConstant)
	builder.WriteString(subject)
	if trimmedDescription := strings.TrimSpace(breakingDescription); breaking && len(trimmedDescription) > 0 {
		builder.WriteString(fmt.Sprintf(breakingChangeTemplateConstant, trimmedDescription))
	}
	return builder.String()
}

// ValidateSubject rejects blank subjects and, when maxLength is positive, subjects longer than maxLength runes.
func ValidateSubject(subject string, maxLength int) error {
	trimmedSubject := strings.TrimSpace(subject)
	if len(trimmedSubject) == 0 {
		return ErrEmptySubject
	}
	subjectLength := utf8.RuneCountInString(trimmedSubject)
	if maxLength > 0 && subjectLength > maxLength {
		return fmt.Errorf(subjectTooLongTemplateConstant, subjectLength, maxLength)
	}
	return nil
}

// ValidateType rejects blank commit types and types missing from CommitTypes.
func ValidateType(commitType string) error {
	trimmedType := strings.TrimSpace(commitType)
	if len(trimmedType) == 0 {
		return ErrEmptyType
	}
	if _, known := LookupCommitType(trimmedType); !known {
		return fmt.Errorf(unknownTypeTemplateConstant, ErrUnknownType, trimmedType)
	}
	return nil
}
