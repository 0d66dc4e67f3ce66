package reconcile

import "strings"

const (
	configurationRepositoriesFileKeySuffix = ".repositories_file"
	configurationCheckForksKeySuffix       = ".check_forks"
	configurationUpstreamBranchKeySuffix   = ".upstream_branch"
	configurationEditorKeySuffix           = ".editor"
)

// CommandConfiguration captures the persisted settings of the reconcile
// command. An empty RepositoriesFile selects the bundled repository list.
type CommandConfiguration struct {
	RepositoriesFile string `mapstructure:"repositories_file"`
	CheckForks       bool   `mapstructure:"check_forks"`
	UpstreamBranch   string `mapstructure:"upstream_branch"`
	Editor           string `mapstructure:"editor"`
}

// DefaultCommandConfiguration returns the built-in reconcile settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		UpstreamBranch: defaultUpstreamBranchNameConstant,
	}
}

// Sanitize trims whitespace from textual settings and restores defaults for
// cleared values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitizedConfiguration := configuration
	sanitizedConfiguration.RepositoriesFile = strings.TrimSpace(configuration.RepositoriesFile)
	sanitizedConfiguration.UpstreamBranch = strings.TrimSpace(configuration.UpstreamBranch)
	sanitizedConfiguration.Editor = strings.TrimSpace(configuration.Editor)
	if len(sanitizedConfiguration.UpstreamBranch) == 0 {
		sanitizedConfiguration.UpstreamBranch = defaultUpstreamBranchNameConstant
	}
	return sanitizedConfiguration
}

// DefaultConfigurationValues exposes the reconcile defaults keyed beneath the
// provided configuration prefix for registration with the loader.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationRepositoriesFileKeySuffix: defaults.RepositoriesFile,
		configurationPrefix + configurationCheckForksKeySuffix:       defaults.CheckForks,
		configurationPrefix + configurationUpstreamBranchKeySuffix:   defaults.UpstreamBranch,
		configurationPrefix + configurationEditorKeySuffix:           defaults.Editor,
	}
}
