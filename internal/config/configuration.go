package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

const (
	commitKeyConstant                  = "commit"
	aiKeyConstant                      = "ai"
	branchKeyConstant                  = "branch"
	searchKeyConstant                  = "search"
	releaseKeyConstant                 = "release"
	conventionalCommitsKeyConstant     = "conventionalCommits"
	useAIKeyConstant                   = "useAI"
	maxSubjectLengthKeyConstant        = "maxSubjectLength"
	defaultModeKeyConstant             = "defaultMode"
	providerKeyConstant                = "provider"
	modelKeyConstant                   = "model"
	maxTokensKeyConstant               = "maxTokens"
	protectedKeyConstant               = "protected"
	defaultRemoteKeyConstant           = "defaultRemote"
	defaultBaseKeyConstant             = "defaultBase"
	contextLinesKeyConstant            = "contextLines"
	ignoreCaseKeyConstant              = "ignoreCase"
	tagPrefixKeyConstant               = "tagPrefix"
	pushKeyConstant                    = "push"
	decodeErrorTemplateConstant        = "failed to decode configuration: %w"
	decoderCreateErrorTemplateConstant = "failed to create configuration decoder: %w"
	mapstructureTagNameConstant        = "json"
)

// CommitSettings controls the commit flow.
type CommitSettings struct {
	ConventionalCommits bool   `json:"conventionalCommits" yaml:"conventionalCommits"`
	UseAI               bool   `json:"useAI" yaml:"useAI"`
	MaxSubjectLength    int    `json:"maxSubjectLength" yaml:"maxSubjectLength"`
	DefaultMode         string `json:"defaultMode" yaml:"defaultMode"`
}

// AISettings selects the text-generation provider.
type AISettings struct {
	Provider  string `json:"provider" yaml:"provider"`
	Model     string `json:"model" yaml:"model"`
	MaxTokens int    `json:"maxTokens" yaml:"maxTokens"`
}

// BranchSettings configures branch and remote defaults.
type BranchSettings struct {
	Protected     []string `json:"protected" yaml:"protected"`
	DefaultRemote string   `json:"defaultRemote" yaml:"defaultRemote"`
	DefaultBase   string   `json:"defaultBase" yaml:"defaultBase"`
}

// SearchSettings configures git grep defaults.
type SearchSettings struct {
	ContextLines int  `json:"contextLines" yaml:"contextLines"`
	IgnoreCase   bool `json:"ignoreCase" yaml:"ignoreCase"`
}

// ReleaseSettings configures release tagging.
type ReleaseSettings struct {
	TagPrefix string `json:"tagPrefix" yaml:"tagPrefix"`
	Push      bool   `json:"push" yaml:"push"`
}

// Configuration is the typed view of the merged tool configuration.
type Configuration struct {
	Commit  CommitSettings  `json:"commit" yaml:"commit"`
	AI      AISettings      `json:"ai" yaml:"ai"`
	Branch  BranchSettings  `json:"branch" yaml:"branch"`
	Search  SearchSettings  `json:"search" yaml:"search"`
	Release ReleaseSettings `json:"release" yaml:"release"`
}

// IsProtectedBranch reports whether the branch is listed as protected.
func (configuration Configuration) IsProtectedBranch(branchName string) bool {
	return configuration.Branch.IsProtectedBranch(branchName)
}

// IsProtectedBranch reports whether the branch is listed as protected.
func (settings BranchSettings) IsProtectedBranch(branchName string) bool {
	for _, protectedBranch := range settings.Protected {
		if protectedBranch == branchName {
			return true
		}
	}
	return false
}

// Defaults returns a fresh copy of the built-in configuration tree.
func Defaults() map[string]any {
	return map[string]any{
		commitKeyConstant: map[string]any{
			conventionalCommitsKeyConstant: true,
			useAIKeyConstant:               true,
			maxSubjectLengthKeyConstant:    72,
			defaultModeKeyConstant:         "",
		},
		aiKeyConstant: map[string]any{
			providerKeyConstant:  "openai",
			modelKeyConstant:     "",
			maxTokensKeyConstant: 500,
		},
		branchKeyConstant: map[string]any{
			protectedKeyConstant:     []any{"main", "master"},
			defaultRemoteKeyConstant: "origin",
			defaultBaseKeyConstant:   "main",
		},
		searchKeyConstant: map[string]any{
			contextLinesKeyConstant: 0,
			ignoreCaseKeyConstant:   false,
		},
		releaseKeyConstant: map[string]any{
			tagPrefixKeyConstant: "v",
			pushKeyConstant:      false,
		},
	}
}

// DefaultConfiguration returns the typed defaults.
func DefaultConfiguration() Configuration {
	configuration, _ := Decode(Defaults())
	return configuration
}

// Decode converts a merged configuration tree into Configuration.
func Decode(tree map[string]any) (Configuration, error) {
	var configuration Configuration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &configuration,
		TagName:          mapstructureTagNameConstant,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return Configuration{}, fmt.Errorf(decoderCreateErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(tree); decodeError != nil {
		return Configuration{}, fmt.Errorf(decodeErrorTemplateConstant, decodeError)
	}
	return configuration, nil
}
