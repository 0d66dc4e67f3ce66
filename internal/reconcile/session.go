package reconcile

import (
	"errors"
	"strings"
	"time"
)

const (
	sessionIdentifierTimeLayoutConstant  = "060102-150405"
	defaultUpstreamBranchNameConstant    = "main"
	temporaryRootRequiredMessageConstant = "session temporary root must be provided"
	sessionRepositoriesRequiredMessage   = "session requires at least one repository"
)

// Session holds the run-scoped state of one reconciliation pass: the
// repository list, the scratch directory clones land in, the editor used for
// commit messages, and a timestamp-derived identifier that namespaces every
// branch the run creates so concurrent runs cannot collide.
type Session struct {
	SessionID      string
	TemporaryRoot  string
	EditorCommand  string
	CheckForks     bool
	UpstreamBranch string
	Repositories   []*Repository
}

// SessionOptions configures NewSession.
type SessionOptions struct {
	TemporaryRoot  string
	EditorCommand  string
	CheckForks     bool
	UpstreamBranch string
	Repositories   []*Repository
}

// Sentinel errors reported during session construction.
var (
	// ErrTemporaryRootRequired indicates the session scratch directory was missing.
	ErrTemporaryRootRequired = errors.New(temporaryRootRequiredMessageConstant)
	// ErrRepositoriesRequired indicates the session had no repositories to manage.
	ErrRepositoriesRequired = errors.New(sessionRepositoriesRequiredMessage)
)

// NewSession constructs a session with a fresh UTC timestamp identifier.
func NewSession(options SessionOptions) (*Session, error) {
	trimmedTemporaryRoot := strings.TrimSpace(options.TemporaryRoot)
	if len(trimmedTemporaryRoot) == 0 {
		return nil, ErrTemporaryRootRequired
	}
	if len(options.Repositories) == 0 {
		return nil, ErrRepositoriesRequired
	}

	upstreamBranch := strings.TrimSpace(options.UpstreamBranch)
	if len(upstreamBranch) == 0 {
		upstreamBranch = defaultUpstreamBranchNameConstant
	}

	return &Session{
		SessionID:      time.Now().UTC().Format(sessionIdentifierTimeLayoutConstant),
		TemporaryRoot:  trimmedTemporaryRoot,
		EditorCommand:  options.EditorCommand,
		CheckForks:     options.CheckForks,
		UpstreamBranch: upstreamBranch,
		Repositories:   options.Repositories,
	}, nil
}
