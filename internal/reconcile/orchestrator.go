package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	cloningUpstreamLabelTemplateConstant = "[%s] Cloning from upstream..."
	ensuringForkLabelTemplateConstant    = "[%s] Ensuring fork is available..."
	cloningOriginLabelTemplateConstant   = "[%s] Cloning from origin..."
	resettingLabelTemplateConstant       = "[%s] Resetting to upstream/%s..."
	upstreamCloneErrorTemplateConstant   = "upstream clone of %s failed: %w"
	forkEnsureErrorTemplateConstant      = "fork check for %s failed: %w"
	originCloneErrorTemplateConstant     = "origin clone of %s failed: %w"
	upstreamResetErrorTemplateConstant   = "reset of %s failed: %w"
	scratchCleanupErrorTemplateConstant  = "scratch clone cleanup for %s failed: %w"
	forkClonerNotConfiguredMessage       = "fork cloner not configured"
	gitStepsNotConfiguredMessageConstant = "git steps not configured"
	workDirPreparedMessageConstant       = "working directory prepared"
	logFieldRepositoryConstant           = "repository"
	logFieldWorkDirConstant              = "work_dir"
)

// ForkCloner is the subset of the GitHub CLI client used while preparing
// working directories.
type ForkCloner interface {
	CloneRepository(executionContext context.Context, remoteURI string, workingDirectory string, progressLabel string) error
	EnsureFork(executionContext context.Context, workingDirectory string, progressLabel string) error
}

// UpstreamResetter hard-resets a working copy to the upstream branch.
type UpstreamResetter interface {
	ResetHardToUpstream(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error
}

// Sentinel errors reported during orchestrator construction.
var (
	// ErrForkClonerNotConfigured indicates the GitHub CLI dependency was missing.
	ErrForkClonerNotConfigured = errors.New(forkClonerNotConfiguredMessage)
	// ErrGitStepsNotConfigured indicates the git dependency was missing.
	ErrGitStepsNotConfigured = errors.New(gitStepsNotConfiguredMessageConstant)
)

// Orchestrator populates each configured repository's working directory by
// cloning the origin fork and resetting it to the upstream default branch.
// Any failure is fatal for the run: later checks are meaningless against a
// repository whose working directory was never prepared.
type Orchestrator struct {
	logger     *zap.Logger
	forkCloner ForkCloner
	resetter   UpstreamResetter
	removeAll  func(path string) error
}

// NewOrchestrator constructs an orchestrator around the provided collaborators.
func NewOrchestrator(logger *zap.Logger, forkCloner ForkCloner, resetter UpstreamResetter) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if forkCloner == nil {
		return nil, ErrForkClonerNotConfigured
	}
	if resetter == nil {
		return nil, ErrGitStepsNotConfigured
	}
	return &Orchestrator{logger: logger, forkCloner: forkCloner, resetter: resetter, removeAll: os.RemoveAll}, nil
}

// PrepareAll processes the session's repositories in list order. After a
// successful pass every repository has WorkDir set to a clean clone aligned
// with its upstream branch.
func (orchestrator *Orchestrator) PrepareAll(executionContext context.Context, session *Session) error {
	for _, repository := range session.Repositories {
		if prepareError := orchestrator.prepareRepository(executionContext, session, repository); prepareError != nil {
			return prepareError
		}
	}
	return nil
}

func (orchestrator *Orchestrator) prepareRepository(executionContext context.Context, session *Session, repository *Repository) error {
	if session.CheckForks {
		if forkError := orchestrator.ensureForkExists(executionContext, session, repository); forkError != nil {
			return forkError
		}
	}

	cloneLabel := fmt.Sprintf(cloningOriginLabelTemplateConstant, repository.Name)
	if cloneError := orchestrator.forkCloner.CloneRepository(executionContext, repository.OriginURI, session.TemporaryRoot, cloneLabel); cloneError != nil {
		return fmt.Errorf(originCloneErrorTemplateConstant, repository.Name, cloneError)
	}

	repository.WorkDir = filepath.Join(session.TemporaryRoot, repository.Name)
	orchestrator.logger.Debug(workDirPreparedMessageConstant, zap.String(logFieldRepositoryConstant, repository.Name), zap.String(logFieldWorkDirConstant, repository.WorkDir))

	resetLabel := fmt.Sprintf(resettingLabelTemplateConstant, repository.Name, session.UpstreamBranch)
	if resetError := orchestrator.resetter.ResetHardToUpstream(executionContext, repository.WorkDir, session.UpstreamBranch, resetLabel); resetError != nil {
		return fmt.Errorf(upstreamResetErrorTemplateConstant, repository.Name, resetError)
	}

	return nil
}

// ensureForkExists shallow-clones the upstream into the scratch root, asks
// gh to fork it (a no-op when the fork already exists), and discards the
// scratch clone so the origin clone can take its place.
func (orchestrator *Orchestrator) ensureForkExists(executionContext context.Context, session *Session, repository *Repository) error {
	upstreamCloneLabel := fmt.Sprintf(cloningUpstreamLabelTemplateConstant, repository.Name)
	if cloneError := orchestrator.forkCloner.CloneRepository(executionContext, repository.UpstreamURI, session.TemporaryRoot, upstreamCloneLabel); cloneError != nil {
		return fmt.Errorf(upstreamCloneErrorTemplateConstant, repository.Name, cloneError)
	}

	scratchClonePath := filepath.Join(session.TemporaryRoot, repository.Name)
	forkLabel := fmt.Sprintf(ensuringForkLabelTemplateConstant, repository.Name)
	if forkError := orchestrator.forkCloner.EnsureFork(executionContext, scratchClonePath, forkLabel); forkError != nil {
		return fmt.Errorf(forkEnsureErrorTemplateConstant, repository.Name, forkError)
	}

	if removeError := orchestrator.removeAll(scratchClonePath); removeError != nil {
		return fmt.Errorf(scratchCleanupErrorTemplateConstant, repository.Name, removeError)
	}

	return nil
}
