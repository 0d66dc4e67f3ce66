package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/utils"
)

func TestCreateLoggerAcceptsSupportedLevels(testInstance *testing.T) {
	testCases := []struct {
		name           string
		requestedLevel utils.LogLevel
	}{
		{name: "notset_level", requestedLevel: utils.LogLevelNotSet},
		{name: "debug_level", requestedLevel: utils.LogLevelDebug},
		{name: "info_level", requestedLevel: utils.LogLevelInfo},
		{name: "warning_level", requestedLevel: utils.LogLevelWarning},
		{name: "error_level", requestedLevel: utils.LogLevelError},
		{name: "critical_level", requestedLevel: utils.LogLevelCritical},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			factory := utils.NewLoggerFactory()
			logger, creationError := factory.CreateLogger(utils.LoggerOptions{
				Level:  testCase.requestedLevel,
				Format: utils.LogFormatConsole,
			})
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		})
	}
}

func TestCreateLoggerRejectsUnknownSettings(testInstance *testing.T) {
	testCases := []struct {
		name            string
		requestedLevel  utils.LogLevel
		requestedFormat utils.LogFormat
		expectedMessage string
	}{
		{
			name:            "unknown_level",
			requestedLevel:  utils.LogLevel("verbose"),
			requestedFormat: utils.LogFormatConsole,
			expectedMessage: "unsupported log level",
		},
		{
			name:            "unknown_format",
			requestedLevel:  utils.LogLevelInfo,
			requestedFormat: utils.LogFormat("xml"),
			expectedMessage: "unsupported log format",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			factory := utils.NewLoggerFactory()
			logger, creationError := factory.CreateLogger(utils.LoggerOptions{
				Level:  testCase.requestedLevel,
				Format: testCase.requestedFormat,
			})
			require.Nil(testInstance, logger)
			require.Error(testInstance, creationError)
			require.Contains(testInstance, creationError.Error(), testCase.expectedMessage)
		})
	}
}

func TestCreateLoggerTruncatesLogFileByDefault(testInstance *testing.T) {
	logFilePath := filepath.Join(testInstance.TempDir(), "run.log")
	require.NoError(testInstance, os.WriteFile(logFilePath, []byte("stale content\n"), 0o644))

	factory := utils.NewLoggerFactory()
	logger, creationError := factory.CreateLogger(utils.LoggerOptions{
		Level:    utils.LogLevelInfo,
		Format:   utils.LogFormatStructured,
		FilePath: logFilePath,
	})
	require.NoError(testInstance, creationError)

	logger.Info("fresh record")
	require.NoError(testInstance, logger.Sync())

	logFileContent, readError := os.ReadFile(logFilePath)
	require.NoError(testInstance, readError)
	require.NotContains(testInstance, string(logFileContent), "stale content")
	require.Contains(testInstance, string(logFileContent), "fresh record")
}

func TestCreateLoggerAppendsWhenRequested(testInstance *testing.T) {
	logFilePath := filepath.Join(testInstance.TempDir(), "run.log")
	require.NoError(testInstance, os.WriteFile(logFilePath, []byte("earlier run\n"), 0o644))

	factory := utils.NewLoggerFactory()
	logger, creationError := factory.CreateLogger(utils.LoggerOptions{
		Level:        utils.LogLevelInfo,
		Format:       utils.LogFormatStructured,
		FilePath:     logFilePath,
		AppendToFile: true,
	})
	require.NoError(testInstance, creationError)

	logger.Info("later run")
	require.NoError(testInstance, logger.Sync())

	logFileContent, readError := os.ReadFile(logFilePath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(logFileContent), "earlier run")
	require.Contains(testInstance, string(logFileContent), "later run")
}
