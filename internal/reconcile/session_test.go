package reconcile_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/reconcile"
)

var sessionIdentifierPattern = regexp.MustCompile(`^\d{6}-\d{6}$`)

func newTestRepositoryList(testInstance *testing.T) []*reconcile.Repository {
	repository, repositoryError := reconcile.NewRepository(testRepositoryNameConstant, testOriginSlugConstant, testUpstreamSlugConstant)
	require.NoError(testInstance, repositoryError)
	return []*reconcile.Repository{repository}
}

func TestNewSessionValidatesOptions(testInstance *testing.T) {
	testCases := []struct {
		name          string
		options       reconcile.SessionOptions
		expectedError error
	}{
		{
			name:          "missing_temporary_root",
			options:       reconcile.SessionOptions{Repositories: newTestRepositoryList(testInstance)},
			expectedError: reconcile.ErrTemporaryRootRequired,
		},
		{
			name:          "missing_repositories",
			options:       reconcile.SessionOptions{TemporaryRoot: testInstance.TempDir()},
			expectedError: reconcile.ErrRepositoriesRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			session, sessionError := reconcile.NewSession(testCase.options)
			require.Nil(testInstance, session)
			require.ErrorIs(testInstance, sessionError, testCase.expectedError)
		})
	}
}

func TestNewSessionAppliesDefaults(testInstance *testing.T) {
	session, sessionError := reconcile.NewSession(reconcile.SessionOptions{
		TemporaryRoot: testInstance.TempDir(),
		Repositories:  newTestRepositoryList(testInstance),
	})
	require.NoError(testInstance, sessionError)

	require.Regexp(testInstance, sessionIdentifierPattern, session.SessionID)
	require.Equal(testInstance, "main", session.UpstreamBranch)
	require.False(testInstance, session.CheckForks)
}

func TestNewSessionHonorsExplicitBranch(testInstance *testing.T) {
	session, sessionError := reconcile.NewSession(reconcile.SessionOptions{
		TemporaryRoot:  testInstance.TempDir(),
		UpstreamBranch: "devel",
		CheckForks:     true,
		Repositories:   newTestRepositoryList(testInstance),
	})
	require.NoError(testInstance, sessionError)

	require.Equal(testInstance, "devel", session.UpstreamBranch)
	require.True(testInstance, session.CheckForks)
}
