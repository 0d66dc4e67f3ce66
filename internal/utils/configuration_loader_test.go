package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/utils"
)

const (
	testConfigurationNameConstant   = "config"
	testConfigurationTypeConstant   = "yaml"
	testEnvironmentPrefixConstant   = "FORKSYNC"
	testEmbeddedConfigurationYAML   = "common:\n  log_level: info\n  log_format: console\n"
	testOverridingConfigurationYAML = "common:\n  log_level: debug\n"
)

type testConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
}

func TestLoadConfigurationMergesEmbeddedDefaults(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationYAML), testConfigurationTypeConstant)

	var configuration testConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
}

func TestLoadConfigurationFileOverridesEmbeddedDefaults(testInstance *testing.T) {
	configurationFilePath := filepath.Join(testInstance.TempDir(), "config.yaml")
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testOverridingConfigurationYAML), 0o644))

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationYAML), testConfigurationTypeConstant)

	var configuration testConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationFilePath, nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
}

func TestLoadConfigurationHonorsEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv("FORKSYNC_COMMON_LOG_LEVEL", "error")

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	loader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationYAML), testConfigurationTypeConstant)

	var configuration testConfiguration
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "error", configuration.Common.LogLevel)
}
