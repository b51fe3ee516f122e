package aiclient

import (
	"context"
	"errors"
	"fmt"
)

const (
	completerMissingMessageConstant = "text completer not configured"
	generatePromptTemplateConstant  = `Write a git commit message for the following diff.
Follow the Conventional Commits format "type(scope): subject" using one of: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert.
Keep the subject in the imperative mood and under 72 characters.
Reply with the commit message only, without quotes or explanations.

Diff:
%s`
	enhancePromptTemplateConstant = `Improve the following draft git commit message.
Rewrite it in the Conventional Commits format "type(scope): subject", keeping the author's intent.
Keep the subject in the imperative mood and under 72 characters.
Reply with the improved commit message only, without quotes or explanations.

Draft:
%s`
)

// ErrCompleterNotConfigured indicates a Generator was built without a Completer.
var ErrCompleterNotConfigured = errors.New(completerMissingMessageConstant)

// Generator turns diffs and drafts into commit message suggestions.
type Generator struct {
	completer Completer
}

// NewGenerator wraps a Completer.
func NewGenerator(completer Completer) (*Generator, error) {
	if completer == nil {
		return nil, ErrCompleterNotConfigured
	}
	return &Generator{completer: completer}, nil
}

// Generate drafts a commit message for the diff. The model's reply is returned unmodified.
func (generator *Generator) Generate(executionContext context.Context, diff string) (string, error) {
	return generator.completer.Complete(executionContext, BuildGeneratePrompt(diff))
}

// Enhance rewrites a user draft. The model's reply is returned unmodified.
func (generator *Generator) Enhance(executionContext context.Context, draft string) (string, error) {
	return generator.completer.Complete(executionContext, BuildEnhancePrompt(draft))
}

// BuildGeneratePrompt embeds a diff in the generation instructions.
func BuildGeneratePrompt(diff string) string {
	return fmt.Sprintf(generatePromptTemplateConstant, diff)
}

// BuildEnhancePrompt embeds a draft in the enhancement instructions.
func BuildEnhancePrompt(draft string) string {
	return fmt.Sprintf(enhancePromptTemplateConstant, draft)
}
