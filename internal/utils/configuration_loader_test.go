package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wgit/internal/utils"
)

const (
	testEnvironmentPrefixConstant   = "WGITTEST"
	testEnvironmentVariableConstant = "WGITTEST_COMMON_LOG_LEVEL"
	testSettingsNameConstant        = "settings"
	testSettingsTypeConstant        = "yaml"
	testSettingsFileNameConstant    = "settings.yaml"
	testLogLevelKeyConstant         = "common.log_level"
	testLogFormatKeyConstant        = "common.log_format"
)

type settingsFixture struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
}

func TestConfigurationLoaderLayers(testInstance *testing.T) {
	testCases := []struct {
		name             string
		embedded         string
		fileContents     string
		explicitFile     bool
		environmentLevel string
		expectedLevel    string
		expectedFormat   string
		expectFileUsed   bool
	}{
		{
			name:           "defaults_only",
			expectedLevel:  "warn",
			expectedFormat: "console",
		},
		{
			name:           "embedded_over_defaults",
			embedded:       "common:\n  log_level: info\n",
			expectedLevel:  "info",
			expectedFormat: "console",
		},
		{
			name:           "search_path_file_over_embedded",
			embedded:       "common:\n  log_level: info\n",
			fileContents:   "common:\n  log_level: debug\n  log_format: structured\n",
			expectedLevel:  "debug",
			expectedFormat: "structured",
			expectFileUsed: true,
		},
		{
			name:           "explicit_file",
			fileContents:   "common:\n  log_level: error\n",
			explicitFile:   true,
			expectedLevel:  "error",
			expectedFormat: "console",
			expectFileUsed: true,
		},
		{
			name:             "environment_over_file",
			fileContents:     "common:\n  log_level: debug\n",
			environmentLevel: "error",
			expectedLevel:    "error",
			expectedFormat:   "console",
			expectFileUsed:   true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			directory := testInstance.TempDir()
			settingsPath := filepath.Join(directory, testSettingsFileNameConstant)
			if len(testCase.fileContents) > 0 {
				require.NoError(testInstance, os.WriteFile(settingsPath, []byte(testCase.fileContents), 0o600))
			}
			testInstance.Setenv(testEnvironmentVariableConstant, testCase.environmentLevel)
			if len(testCase.environmentLevel) == 0 {
				require.NoError(testInstance, os.Unsetenv(testEnvironmentVariableConstant))
			}

			loader := utils.NewConfigurationLoader(testSettingsNameConstant, testSettingsTypeConstant, testEnvironmentPrefixConstant, []string{directory})
			if len(testCase.embedded) > 0 {
				loader.SetEmbeddedConfiguration([]byte(testCase.embedded), testSettingsTypeConstant)
			}

			explicitPath := ""
			if testCase.explicitFile {
				explicitPath = settingsPath
			}

			var settings settingsFixture
			metadata, loadError := loader.LoadConfiguration(explicitPath, map[string]any{
				testLogLevelKeyConstant:  "warn",
				testLogFormatKeyConstant: "console",
			}, &settings)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLevel, settings.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedFormat, settings.Common.LogFormat)
			if testCase.expectFileUsed {
				require.Equal(testInstance, settingsPath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderMissingExplicitFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testSettingsNameConstant, testSettingsTypeConstant, testEnvironmentPrefixConstant, nil)

	var settings settingsFixture
	_, loadError := loader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &settings)
	require.Error(testInstance, loadError)
}
