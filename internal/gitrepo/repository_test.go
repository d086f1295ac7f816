package gitrepo_test

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repofleet/internal/gitrepo"
)

func TestOpenRepositoryReportsMissingRepository(testInstance *testing.T) {
	_, openError := gitrepo.OpenRepository(filepath.Join(testInstance.TempDir(), "absent"))
	require.ErrorIs(testInstance, openError, gitrepo.ErrRepositoryNotFound)
}

func TestRepositoryCurrentBranch(testInstance *testing.T) {
	testCases := []struct {
		name          string
		prepare       func(testInstance *testing.T, repository *git.Repository)
		expectedState gitrepo.BranchState
	}{
		{
			name:          "unborn_default_branch",
			prepare:       func(*testing.T, *git.Repository) {},
			expectedState: gitrepo.BranchState{Name: "master"},
		},
		{
			name: "feature_branch",
			prepare: func(testInstance *testing.T, repository *git.Repository) {
				headReference := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("feature/links"))
				require.NoError(testInstance, repository.Storer.SetReference(headReference))
			},
			expectedState: gitrepo.BranchState{Name: "feature/links"},
		},
		{
			name: "detached_head",
			prepare: func(testInstance *testing.T, repository *git.Repository) {
				headReference := plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904"))
				require.NoError(testInstance, repository.Storer.SetReference(headReference))
			},
			expectedState: gitrepo.BranchState{Detached: true},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath := testInstance.TempDir()
			initializedRepository, initError := git.PlainInit(repositoryPath, false)
			require.NoError(testInstance, initError)
			testCase.prepare(testInstance, initializedRepository)

			repository, openError := gitrepo.OpenRepository(repositoryPath)
			require.NoError(testInstance, openError)
			require.Equal(testInstance, repositoryPath, repository.Path())

			branchState, branchError := repository.CurrentBranch()
			require.NoError(testInstance, branchError)
			require.Equal(testInstance, testCase.expectedState, branchState)
		})
	}
}
