package aiclient

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const emptyChoicesMessageConstant = "model returned no choices"

// ErrEmptyResponse indicates the provider answered without any text.
var ErrEmptyResponse = errors.New(emptyChoicesMessageConstant)

// openAICompatibleCompleter serves OpenAI and xAI, which share the chat completions API.
type openAICompatibleCompleter struct {
	client    openai.Client
	model     string
	maxTokens int
}

func newOpenAICompatibleCompleter(settings completerSettings) *openAICompatibleCompleter {
	client := openai.NewClient(
		option.WithAPIKey(settings.apiKey),
		option.WithBaseURL(settings.baseURL),
		option.WithHTTPClient(settings.httpClient),
		option.WithMaxRetries(0),
	)
	return &openAICompatibleCompleter{client: client, model: settings.model, maxTokens: settings.maxTokens}
}

// Complete sends the prompt as a single user message.
func (completer *openAICompatibleCompleter) Complete(executionContext context.Context, prompt string) (string, error) {
	response, requestError := completer.client.Chat.Completions.New(executionContext, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(completer.model),
		MaxTokens: openai.Int(int64(completer.maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if requestError != nil {
		return "", requestError
	}
	if response == nil || len(response.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return response.Choices[0].Message.Content, nil
}
