package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/reconcile"
)

const (
	testYAMLManifestContentConstant = `repositories:
  - name: fleet-alpha
    origin: octocat/fleet-alpha
    upstream: upstream-org/fleet-alpha
  - name: fleet-beta
    origin: octocat/fleet-beta
    upstream: upstream-org/fleet-beta
`
	testTOMLManifestContentConstant = `[[repositories]]
name = "fleet-alpha"
origin = "octocat/fleet-alpha"
upstream = "upstream-org/fleet-alpha"
`
)

func writeManifestFile(testInstance *testing.T, fileName string, fileContent string) string {
	manifestPath := filepath.Join(testInstance.TempDir(), fileName)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(fileContent), 0o644))
	return manifestPath
}

func TestLoadManifestParsesSupportedFormats(testInstance *testing.T) {
	testCases := []struct {
		name             string
		fileName         string
		fileContent      string
		expectedNames    []string
		expectedUpstream string
	}{
		{
			name:             "yaml_manifest",
			fileName:         "repositories.yaml",
			fileContent:      testYAMLManifestContentConstant,
			expectedNames:    []string{"fleet-alpha", "fleet-beta"},
			expectedUpstream: "upstream-org/fleet-alpha",
		},
		{
			name:             "toml_manifest",
			fileName:         "repositories.toml",
			fileContent:      testTOMLManifestContentConstant,
			expectedNames:    []string{"fleet-alpha"},
			expectedUpstream: "upstream-org/fleet-alpha",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manifestPath := writeManifestFile(testInstance, testCase.fileName, testCase.fileContent)

			repositories, loadError := reconcile.LoadManifest(manifestPath)
			require.NoError(testInstance, loadError)

			repositoryNames := []string{}
			for _, repository := range repositories {
				repositoryNames = append(repositoryNames, repository.Name)
			}
			require.Equal(testInstance, testCase.expectedNames, repositoryNames)
			require.Equal(testInstance, testCase.expectedUpstream, repositories[0].Upstream)
			require.Equal(testInstance, "git@github.com:octocat/fleet-alpha.git", repositories[0].OriginURI)
			require.Equal(testInstance, "git@github.com:upstream-org/fleet-alpha.git", repositories[0].UpstreamURI)
		})
	}
}

func TestLoadManifestRejectsInvalidInput(testInstance *testing.T) {
	testCases := []struct {
		name            string
		fileName        string
		fileContent     string
		expectedMessage string
	}{
		{
			name:            "unsupported_extension",
			fileName:        "repositories.ini",
			fileContent:     "repositories:",
			expectedMessage: "unsupported repository manifest format",
		},
		{
			name:            "empty_repository_list",
			fileName:        "repositories.yaml",
			fileContent:     "repositories: []\n",
			expectedMessage: "lists no repositories",
		},
		{
			name:            "missing_repository_name",
			fileName:        "repositories.yaml",
			fileContent:     "repositories:\n  - origin: octocat/fleet-alpha\n    upstream: upstream-org/fleet-alpha\n",
			expectedMessage: "repository name must be provided",
		},
		{
			name:            "malformed_origin_slug",
			fileName:        "repositories.yaml",
			fileContent:     "repositories:\n  - name: fleet-alpha\n    origin: fleet-alpha\n    upstream: upstream-org/fleet-alpha\n",
			expectedMessage: "must have the form owner/name",
		},
		{
			name:            "duplicate_repository_name",
			fileName:        "repositories.yaml",
			fileContent:     testYAMLManifestContentConstant + "  - name: fleet-alpha\n    origin: octocat/fleet-alpha\n    upstream: upstream-org/fleet-alpha\n",
			expectedMessage: "duplicate repository name",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manifestPath := writeManifestFile(testInstance, testCase.fileName, testCase.fileContent)

			repositories, loadError := reconcile.LoadManifest(manifestPath)
			require.Nil(testInstance, repositories)
			require.Error(testInstance, loadError)
			require.Contains(testInstance, loadError.Error(), testCase.expectedMessage)
		})
	}
}

func TestLoadManifestReportsMissingFile(testInstance *testing.T) {
	repositories, loadError := reconcile.LoadManifest(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.Nil(testInstance, repositories)
	require.Error(testInstance, loadError)
}

func TestDefaultRepositoriesParseCleanly(testInstance *testing.T) {
	repositories, loadError := reconcile.DefaultRepositories()
	require.NoError(testInstance, loadError)
	require.NotEmpty(testInstance, repositories)

	for _, repository := range repositories {
		require.NotEmpty(testInstance, repository.Name)
		require.NotEmpty(testInstance, repository.OriginOwner)
		require.Contains(testInstance, repository.OriginURI, repository.Origin)
		require.Contains(testInstance, repository.UpstreamURI, repository.Upstream)
	}
}

func TestCanonicalToxIniContentIsBundled(testInstance *testing.T) {
	require.NotEmpty(testInstance, reconcile.CanonicalToxIniContent())
}
