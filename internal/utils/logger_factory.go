package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelNotSetStringConstant         = "notset"
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarningStringConstant        = "warning"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logLevelCriticalStringConstant       = "critical"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	standardErrorSinkPathConstant        = "stderr"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	logFileOpenErrorTemplateConstant     = "failed to open log file %s: %w"
	logFileTruncateOpenFlags             = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	logFileAppendOpenFlags               = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	logFilePermissionsConstant           = os.FileMode(0o644)
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelNotSet   LogLevel = LogLevel(logLevelNotSetStringConstant)
	LogLevelDebug    LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo     LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarning  LogLevel = LogLevel(logLevelWarningStringConstant)
	LogLevelError    LogLevel = LogLevel(logLevelErrorStringConstant)
	LogLevelCritical LogLevel = LogLevel(logLevelCriticalStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerOptions selects the level, encoding, and destination of a logger.
// An empty FilePath keeps log output on standard error. AppendToFile only
// matters when FilePath is set; the default truncates the file per run.
type LoggerOptions struct {
	Level        LogLevel
	Format       LogFormat
	FilePath     string
	AppendToFile bool
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

// Both warning spellings resolve to the same zap level. NotSet keeps every
// record, matching a threshold below debug.
var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelNotSet:                        zapcore.DebugLevel,
	LogLevelDebug:                         zapcore.DebugLevel,
	LogLevelInfo:                          zapcore.InfoLevel,
	LogLevelWarning:                       zapcore.WarnLevel,
	LogLevel(logLevelWarnStringConstant):  zapcore.WarnLevel,
	LogLevelError:                         zapcore.ErrorLevel,
	LogLevelCritical:                      zapcore.FatalLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested options.
func (factory *LoggerFactory) CreateLogger(options LoggerOptions) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[options.Level]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, options.Level)
	}

	encoding, formatExists := logFormatEncodingMapping[options.Format]
	if !formatExists {
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, options.Format)
	}

	outputPath := standardErrorSinkPathConstant
	if len(options.FilePath) > 0 {
		if prepareError := prepareLogFile(options.FilePath, options.AppendToFile); prepareError != nil {
			return nil, prepareError
		}
		outputPath = options.FilePath
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding
	configuration.OutputPaths = []string{outputPath}
	configuration.ErrorOutputPaths = []string{standardErrorSinkPathConstant}

	logger, buildError := configuration.Build()
	if buildError != nil {
		return nil, buildError
	}

	return logger, nil
}

// prepareLogFile creates the sink ahead of zap so the truncate-versus-append
// choice is applied; zap itself always opens files in append mode.
func prepareLogFile(logFilePath string, appendToFile bool) error {
	openFlags := logFileTruncateOpenFlags
	if appendToFile {
		openFlags = logFileAppendOpenFlags
	}

	logFile, openError := os.OpenFile(logFilePath, openFlags, logFilePermissionsConstant)
	if openError != nil {
		return fmt.Errorf(logFileOpenErrorTemplateConstant, logFilePath, openError)
	}
	return logFile.Close()
}
