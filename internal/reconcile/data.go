package reconcile

import _ "embed"

//go:embed data/tox.ini
var embeddedToxIniContent []byte

//go:embed data/repositories.yaml
var embeddedRepositoryManifestContent []byte

// CanonicalToxIniContent returns a copy of the bundled canonical tox.ini.
func CanonicalToxIniContent() []byte {
	duplicatedContent := make([]byte, len(embeddedToxIniContent))
	copy(duplicatedContent, embeddedToxIniContent)
	return duplicatedContent
}
