package utils

import "context"

const (
	settingsFilePathContextKeyConstant      = commandContextKey("settingsFilePath")
	toolConfigurationPathContextKeyConstant = commandContextKey("toolConfigurationPath")
)

type commandContextKey string

// CommandContextAccessor stores and reads configuration origins on command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithSettingsFilePath attaches the path of the logging settings file.
func (accessor CommandContextAccessor) WithSettingsFilePath(parentContext context.Context, settingsFilePath string) context.Context {
	return withValue(parentContext, settingsFilePathContextKeyConstant, settingsFilePath)
}

// SettingsFilePath returns the logging settings file path, if one was loaded.
func (accessor CommandContextAccessor) SettingsFilePath(executionContext context.Context) (string, bool) {
	return stringValue(executionContext, settingsFilePathContextKeyConstant)
}

// WithToolConfigurationPath attaches the path of the w-git configuration file in effect.
func (accessor CommandContextAccessor) WithToolConfigurationPath(parentContext context.Context, configurationPath string) context.Context {
	return withValue(parentContext, toolConfigurationPathContextKeyConstant, configurationPath)
}

// ToolConfigurationPath returns the w-git configuration file path, if one was loaded.
func (accessor CommandContextAccessor) ToolConfigurationPath(executionContext context.Context) (string, bool) {
	return stringValue(executionContext, toolConfigurationPathContextKeyConstant)
}

func withValue(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	if !available || len(value) == 0 {
		return "", false
	}
	return value, true
}
