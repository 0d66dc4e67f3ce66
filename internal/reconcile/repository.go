package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	repositorySlugSeparatorConstant        = "/"
	repositoryRemoteURITemplateConstant    = "git@github.com:%s.git"
	repositoryNameRequiredMessageConstant  = "repository name must be provided"
	invalidSlugMessageTemplateConstant     = "repository %q: %s slug %q must have the form owner/name"
	originSlugFieldLabelConstant           = "origin"
	upstreamSlugFieldLabelConstant         = "upstream"
	repositorySlugExpectedSegmentsConstant = 2
)

// ErrRepositoryNameRequired indicates a manifest record without a name.
var ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)

// Repository identifies one managed repository. Origin is the operator's
// fork and push target; Upstream is the canonical source of truth the fork
// tracks. WorkDir stays empty until the orchestrator clones the origin, and
// no check may run before it is set.
type Repository struct {
	Name        string
	Origin      string
	Upstream    string
	OriginURI   string
	UpstreamURI string
	OriginOwner string
	WorkDir     string
}

// NewRepository validates the supplied slugs and derives the remote URIs and
// fork owner. Both URIs are derived identically from their slugs.
func NewRepository(name string, originSlug string, upstreamSlug string) (*Repository, error) {
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		return nil, ErrRepositoryNameRequired
	}

	trimmedOriginSlug := strings.TrimSpace(originSlug)
	originOwner, originError := slugOwner(trimmedName, originSlugFieldLabelConstant, trimmedOriginSlug)
	if originError != nil {
		return nil, originError
	}

	trimmedUpstreamSlug := strings.TrimSpace(upstreamSlug)
	if _, upstreamError := slugOwner(trimmedName, upstreamSlugFieldLabelConstant, trimmedUpstreamSlug); upstreamError != nil {
		return nil, upstreamError
	}

	return &Repository{
		Name:        trimmedName,
		Origin:      trimmedOriginSlug,
		Upstream:    trimmedUpstreamSlug,
		OriginURI:   fmt.Sprintf(repositoryRemoteURITemplateConstant, trimmedOriginSlug),
		UpstreamURI: fmt.Sprintf(repositoryRemoteURITemplateConstant, trimmedUpstreamSlug),
		OriginOwner: originOwner,
	}, nil
}

func slugOwner(repositoryName string, fieldLabel string, slug string) (string, error) {
	slugSegments := strings.Split(slug, repositorySlugSeparatorConstant)
	if len(slugSegments) != repositorySlugExpectedSegmentsConstant || len(slugSegments[0]) == 0 || len(slugSegments[1]) == 0 {
		return "", fmt.Errorf(invalidSlugMessageTemplateConstant, repositoryName, fieldLabel, slug)
	}
	return slugSegments[0], nil
}
