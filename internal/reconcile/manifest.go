package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	manifestExtensionYAMLConstant         = ".yaml"
	manifestExtensionYMLConstant          = ".yml"
	manifestExtensionTOMLConstant         = ".toml"
	manifestReadErrorTemplateConstant     = "failed to read repository manifest %s: %w"
	manifestParseErrorTemplateConstant    = "failed to parse repository manifest %s: %w"
	manifestFormatErrorTemplateConstant   = "unsupported repository manifest format %q"
	manifestEmptyErrorTemplateConstant    = "repository manifest %s lists no repositories"
	manifestRecordErrorTemplateConstant   = "repository manifest %s: %w"
	embeddedManifestSourceLabelConstant   = "embedded defaults"
	manifestDuplicateNameTemplateConstant = "repository manifest %s: duplicate repository name %q"
)

// Manifest enumerates the repositories a reconciliation session manages.
type Manifest struct {
	Repositories []ManifestRecord `yaml:"repositories" toml:"repositories" mapstructure:"repositories"`
}

// ManifestRecord is one loosely-typed manifest entry prior to validation.
type ManifestRecord struct {
	Name     string `yaml:"name" toml:"name" mapstructure:"name"`
	Origin   string `yaml:"origin" toml:"origin" mapstructure:"origin"`
	Upstream string `yaml:"upstream" toml:"upstream" mapstructure:"upstream"`
}

// LoadManifest reads and validates a repository manifest, selecting the
// parser from the file extension. Validation failures are fatal before any
// repository is touched.
func LoadManifest(manifestPath string) ([]*Repository, error) {
	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return nil, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}

	manifestExtension := strings.ToLower(filepath.Ext(manifestPath))
	var manifest Manifest
	switch manifestExtension {
	case manifestExtensionYAMLConstant, manifestExtensionYMLConstant:
		if unmarshalError := yaml.Unmarshal(manifestContent, &manifest); unmarshalError != nil {
			return nil, fmt.Errorf(manifestParseErrorTemplateConstant, manifestPath, unmarshalError)
		}
	case manifestExtensionTOMLConstant:
		if unmarshalError := gotoml.Unmarshal(manifestContent, &manifest); unmarshalError != nil {
			return nil, fmt.Errorf(manifestParseErrorTemplateConstant, manifestPath, unmarshalError)
		}
	default:
		return nil, fmt.Errorf(manifestFormatErrorTemplateConstant, manifestExtension)
	}

	return buildRepositories(manifestPath, manifest)
}

// DefaultRepositories returns the repository list bundled with the tool.
func DefaultRepositories() ([]*Repository, error) {
	var manifest Manifest
	if unmarshalError := yaml.Unmarshal(embeddedRepositoryManifestContent, &manifest); unmarshalError != nil {
		return nil, fmt.Errorf(manifestParseErrorTemplateConstant, embeddedManifestSourceLabelConstant, unmarshalError)
	}
	return buildRepositories(embeddedManifestSourceLabelConstant, manifest)
}

func buildRepositories(manifestSource string, manifest Manifest) ([]*Repository, error) {
	if len(manifest.Repositories) == 0 {
		return nil, fmt.Errorf(manifestEmptyErrorTemplateConstant, manifestSource)
	}

	seenRepositoryNames := map[string]struct{}{}
	repositories := make([]*Repository, 0, len(manifest.Repositories))
	for _, manifestRecord := range manifest.Repositories {
		repository, recordError := NewRepository(manifestRecord.Name, manifestRecord.Origin, manifestRecord.Upstream)
		if recordError != nil {
			return nil, fmt.Errorf(manifestRecordErrorTemplateConstant, manifestSource, recordError)
		}
		if _, alreadySeen := seenRepositoryNames[repository.Name]; alreadySeen {
			return nil, fmt.Errorf(manifestDuplicateNameTemplateConstant, manifestSource, repository.Name)
		}
		seenRepositoryNames[repository.Name] = struct{}{}
		repositories = append(repositories, repository)
	}

	return repositories, nil
}
