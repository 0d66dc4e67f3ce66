package reconcile_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/reconcile"
)

type recordedCloneCall struct {
	remoteURI        string
	workingDirectory string
}

type recordingForkCloner struct {
	cloneCalls       []recordedCloneCall
	forkDirectories  []string
	cloneError       error
	forkError        error
	failOnCloneIndex int
}

func (cloner *recordingForkCloner) CloneRepository(executionContext context.Context, remoteURI string, workingDirectory string, progressLabel string) error {
	cloner.cloneCalls = append(cloner.cloneCalls, recordedCloneCall{remoteURI: remoteURI, workingDirectory: workingDirectory})
	if cloner.cloneError != nil && len(cloner.cloneCalls) == cloner.failOnCloneIndex {
		return cloner.cloneError
	}
	return nil
}

func (cloner *recordingForkCloner) EnsureFork(executionContext context.Context, workingDirectory string, progressLabel string) error {
	cloner.forkDirectories = append(cloner.forkDirectories, workingDirectory)
	return cloner.forkError
}

type recordingResetter struct {
	resetDirectories []string
	resetBranches    []string
	resetError       error
}

func (resetter *recordingResetter) ResetHardToUpstream(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error {
	resetter.resetDirectories = append(resetter.resetDirectories, workingDirectory)
	resetter.resetBranches = append(resetter.resetBranches, branchName)
	return resetter.resetError
}

func newOrchestratorSession(testInstance *testing.T, checkForks bool) *reconcile.Session {
	repository, repositoryError := reconcile.NewRepository(testRepositoryNameConstant, testOriginSlugConstant, testUpstreamSlugConstant)
	require.NoError(testInstance, repositoryError)

	session, sessionError := reconcile.NewSession(reconcile.SessionOptions{
		TemporaryRoot: testInstance.TempDir(),
		CheckForks:    checkForks,
		Repositories:  []*reconcile.Repository{repository},
	})
	require.NoError(testInstance, sessionError)
	return session
}

func TestNewOrchestratorValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		forkCloner    reconcile.ForkCloner
		resetter      reconcile.UpstreamResetter
		expectedError error
	}{
		{name: "missing_fork_cloner", forkCloner: nil, resetter: &recordingResetter{}, expectedError: reconcile.ErrForkClonerNotConfigured},
		{name: "missing_resetter", forkCloner: &recordingForkCloner{}, resetter: nil, expectedError: reconcile.ErrGitStepsNotConfigured},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			orchestrator, creationError := reconcile.NewOrchestrator(zap.NewNop(), testCase.forkCloner, testCase.resetter)
			require.Nil(testInstance, orchestrator)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
		})
	}
}

func TestPrepareAllClonesOriginAndResets(testInstance *testing.T) {
	forkCloner := &recordingForkCloner{}
	resetter := &recordingResetter{}
	orchestrator, creationError := reconcile.NewOrchestrator(zap.NewNop(), forkCloner, resetter)
	require.NoError(testInstance, creationError)

	session := newOrchestratorSession(testInstance, false)

	prepareError := orchestrator.PrepareAll(context.Background(), session)
	require.NoError(testInstance, prepareError)

	require.Len(testInstance, forkCloner.cloneCalls, 1)
	require.Equal(testInstance, session.Repositories[0].OriginURI, forkCloner.cloneCalls[0].remoteURI)
	require.Equal(testInstance, session.TemporaryRoot, forkCloner.cloneCalls[0].workingDirectory)
	require.Empty(testInstance, forkCloner.forkDirectories)

	expectedWorkDir := filepath.Join(session.TemporaryRoot, testRepositoryNameConstant)
	require.Equal(testInstance, expectedWorkDir, session.Repositories[0].WorkDir)
	require.Equal(testInstance, []string{expectedWorkDir}, resetter.resetDirectories)
	require.Equal(testInstance, []string{"main"}, resetter.resetBranches)
}

func TestPrepareAllEnsuresForkBeforeOriginClone(testInstance *testing.T) {
	forkCloner := &recordingForkCloner{}
	resetter := &recordingResetter{}
	orchestrator, creationError := reconcile.NewOrchestrator(zap.NewNop(), forkCloner, resetter)
	require.NoError(testInstance, creationError)

	session := newOrchestratorSession(testInstance, true)

	prepareError := orchestrator.PrepareAll(context.Background(), session)
	require.NoError(testInstance, prepareError)

	require.Len(testInstance, forkCloner.cloneCalls, 2)
	require.Equal(testInstance, session.Repositories[0].UpstreamURI, forkCloner.cloneCalls[0].remoteURI)
	require.Equal(testInstance, session.Repositories[0].OriginURI, forkCloner.cloneCalls[1].remoteURI)

	scratchClonePath := filepath.Join(session.TemporaryRoot, testRepositoryNameConstant)
	require.Equal(testInstance, []string{scratchClonePath}, forkCloner.forkDirectories)
}

func TestPrepareAllPropagatesCloneFailure(testInstance *testing.T) {
	cloneFailure := errors.New("network unreachable")
	forkCloner := &recordingForkCloner{cloneError: cloneFailure, failOnCloneIndex: 1}
	resetter := &recordingResetter{}
	orchestrator, creationError := reconcile.NewOrchestrator(zap.NewNop(), forkCloner, resetter)
	require.NoError(testInstance, creationError)

	session := newOrchestratorSession(testInstance, false)

	prepareError := orchestrator.PrepareAll(context.Background(), session)
	require.ErrorIs(testInstance, prepareError, cloneFailure)
	require.Empty(testInstance, resetter.resetDirectories)
	require.Empty(testInstance, session.Repositories[0].WorkDir)
}
