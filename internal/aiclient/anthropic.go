package aiclient

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicTextBlockTypeConstant = "text"

// anthropicCompleter serves Anthropic through the messages API.
type anthropicCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

func newAnthropicCompleter(settings completerSettings) *anthropicCompleter {
	client := anthropic.NewClient(
		option.WithAPIKey(settings.apiKey),
		option.WithBaseURL(settings.baseURL),
		option.WithHTTPClient(settings.httpClient),
		option.WithMaxRetries(0),
	)
	return &anthropicCompleter{client: client, model: settings.model, maxTokens: settings.maxTokens}
}

// Complete sends the prompt as a single user message and joins the returned text blocks.
func (completer *anthropicCompleter) Complete(executionContext context.Context, prompt string) (string, error) {
	response, requestError := completer.client.Messages.New(executionContext, anthropic.MessageNewParams{
		Model:     anthropic.Model(completer.model),
		MaxTokens: int64(completer.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if requestError != nil {
		return "", requestError
	}
	if response == nil {
		return "", ErrEmptyResponse
	}

	var textBuilder strings.Builder
	for _, block := range response.Content {
		if block.Type == anthropicTextBlockTypeConstant {
			textBuilder.WriteString(block.Text)
		}
	}
	if textBuilder.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return textBuilder.String(), nil
}
