package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger encodings.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// ParseLogLevel normalizes a configured level name.
func ParseLogLevel(value string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, known := logLevelMapping[level]; !known {
		return "", fmt.Errorf(unsupportedLogLevelTemplateConstant, value)
	}
	return level, nil
}

// ParseLogFormat normalizes a configured format name.
func ParseLogFormat(value string) (LogFormat, error) {
	format := LogFormat(strings.ToLower(strings.TrimSpace(value)))
	switch format {
	case LogFormatStructured, LogFormatConsole:
		return format, nil
	}
	return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, value)
}

// LoggerFactory builds zap loggers that write diagnostics to standard error.
type LoggerFactory struct {
	output zapcore.WriteSyncer
}

// NewLoggerFactory constructs a factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{output: zapcore.Lock(os.Stderr)}
}

// NewLoggerFactoryWithOutput constructs a factory writing to the provided sink.
func NewLoggerFactoryWithOutput(output zapcore.WriteSyncer) *LoggerFactory {
	return &LoggerFactory{output: output}
}

// CreateLogger produces a logger for the level and format; structured output is JSON.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	var encoder zapcore.Encoder
	switch requestedLogFormat {
	case LogFormatStructured:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case LogFormatConsole:
		encoderConfiguration := zap.NewDevelopmentEncoderConfig()
		encoderConfiguration.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoderConfiguration.CallerKey = zapcore.OmitKey
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	return zap.New(zapcore.NewCore(encoder, factory.output, zap.NewAtomicLevelAt(zapLogLevel))), nil
}

// FlushLogger syncs the logger, ignoring the errors terminals and pipes return for sync.
func FlushLogger(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP), errors.Is(syncError, syscall.EINVAL), errors.Is(syncError, syscall.ENOTTY), errors.Is(syncError, syscall.EBADF):
		return nil
	default:
		return syncError
	}
}
