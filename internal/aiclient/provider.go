package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const (
	unsupportedProviderMessageConstant  = "unsupported AI provider"
	missingAPIKeyMessageConstant        = "missing API key"
	unsupportedProviderTemplateConstant = "%w: %q"
	missingAPIKeyTemplateConstant       = "%w: set %s"
	openAIAPIKeyEnvironmentConstant     = "OPENAI_API_KEY"
	anthropicAPIKeyEnvironmentConstant  = "ANTHROPIC_API_KEY"
	xaiAPIKeyEnvironmentConstant        = "XAI_API_KEY"
	openAIDefaultModelConstant          = "gpt-4o-mini"
	anthropicDefaultModelConstant       = "claude-3-5-haiku-latest"
	xaiDefaultModelConstant             = "grok-2-latest"
	openAIDefaultBaseURLConstant        = "https://api.openai.com/v1"
	anthropicDefaultBaseURLConstant     = "https://api.anthropic.com"
	xaiDefaultBaseURLConstant           = "https://api.x.ai/v1"
	defaultMaxTokensConstant            = 500
)

// ErrUnsupportedProvider indicates a provider name outside openai, anthropic and xai.
var ErrUnsupportedProvider = errors.New(unsupportedProviderMessageConstant)

// ErrMissingAPIKey indicates the provider's API key is not available.
var ErrMissingAPIKey = errors.New(missingAPIKeyMessageConstant)

// Provider names a hosted model vendor.
type Provider string

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderXAI       Provider = "xai"
)

// ParseProvider validates a provider name case-insensitively.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	case ProviderXAI:
		return ProviderXAI, nil
	default:
		return "", fmt.Errorf(unsupportedProviderTemplateConstant, ErrUnsupportedProvider, name)
	}
}

// APIKeyEnvironmentVariable returns the environment variable holding the provider's key.
func (provider Provider) APIKeyEnvironmentVariable() string {
	switch provider {
	case ProviderAnthropic:
		return anthropicAPIKeyEnvironmentConstant
	case ProviderXAI:
		return xaiAPIKeyEnvironmentConstant
	default:
		return openAIAPIKeyEnvironmentConstant
	}
}

// DefaultModel returns the model used when none is configured.
func (provider Provider) DefaultModel() string {
	switch provider {
	case ProviderAnthropic:
		return anthropicDefaultModelConstant
	case ProviderXAI:
		return xaiDefaultModelConstant
	default:
		return openAIDefaultModelConstant
	}
}

func (provider Provider) defaultBaseURL() string {
	switch provider {
	case ProviderAnthropic:
		return anthropicDefaultBaseURLConstant
	case ProviderXAI:
		return xaiDefaultBaseURLConstant
	default:
		return openAIDefaultBaseURLConstant
	}
}

// ProviderConfig selects the vendor and model for one call.
type ProviderConfig struct {
	Provider  string
	Model     string
	MaxTokens int
}

// Completer sends a prompt to a model and returns its raw reply.
type Completer interface {
	Complete(executionContext context.Context, prompt string) (string, error)
}

// Options carries the collaborators used to build a Completer.
// Zero values select the process environment, the vendor's public endpoint and http.DefaultClient.
type Options struct {
	LookupEnvironment func(string) (string, bool)
	BaseURL           string
	HTTPClient        *http.Client
}

// NewCompleter validates the configuration and builds a Completer without performing any request.
func NewCompleter(config ProviderConfig, options Options) (Completer, error) {
	provider, providerError := ParseProvider(config.Provider)
	if providerError != nil {
		return nil, providerError
	}

	lookupEnvironment := options.LookupEnvironment
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}
	apiKeyVariable := provider.APIKeyEnvironmentVariable()
	apiKey, _ := lookupEnvironment(apiKeyVariable)
	if len(strings.TrimSpace(apiKey)) == 0 {
		return nil, fmt.Errorf(missingAPIKeyTemplateConstant, ErrMissingAPIKey, apiKeyVariable)
	}

	model := strings.TrimSpace(config.Model)
	if len(model) == 0 {
		model = provider.DefaultModel()
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokensConstant
	}
	baseURL := strings.TrimSpace(options.BaseURL)
	if len(baseURL) == 0 {
		baseURL = provider.defaultBaseURL()
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	settings := completerSettings{apiKey: apiKey, model: model, maxTokens: maxTokens, baseURL: baseURL, httpClient: httpClient}
	if provider == ProviderAnthropic {
		return newAnthropicCompleter(settings), nil
	}
	return newOpenAICompatibleCompleter(settings), nil
}

type completerSettings struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}
