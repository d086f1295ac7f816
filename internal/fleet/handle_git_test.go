package fleet_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repofleet/internal/execshell"
	"github.com/temirov/repofleet/internal/fleet"
)

// commitEmpty records an empty commit on the branch HEAD names.
func commitEmpty(testInstance *testing.T, repository *git.Repository) plumbing.Hash {
	testInstance.Helper()
	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)
	commitHash, commitError := worktree.Commit("initial", &git.CommitOptions{
		AllowEmptyCommits: true,
		Author:            &object.Signature{Name: "Fleet Test", Email: "fleet@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(testInstance, commitError)
	return commitHash
}

func TestRepositoryHandleStatusWithoutUpstream(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	testCases := []struct {
		name            string
		prepare         func(testInstance *testing.T, repository *git.Repository, root string, commitHash plumbing.Hash)
		expectedOutcome fleet.Outcome
		expectedError   error
	}{
		{
			name: "feature_branch",
			prepare: func(testInstance *testing.T, repository *git.Repository, _ string, commitHash plumbing.Hash) {
				featureBranch := plumbing.NewBranchReferenceName("feature")
				require.NoError(testInstance, repository.Storer.SetReference(plumbing.NewHashReference(featureBranch, commitHash)))
				require.NoError(testInstance, repository.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, featureBranch)))
			},
			expectedOutcome: fleet.OutcomeSuccessWithChanges,
		},
		{
			name: "detached_head",
			prepare: func(testInstance *testing.T, repository *git.Repository, _ string, commitHash plumbing.Hash) {
				require.NoError(testInstance, repository.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, commitHash)))
			},
			expectedOutcome: fleet.OutcomeSuccessWithChanges,
		},
		{
			name: "untracked_file_on_trunk",
			prepare: func(testInstance *testing.T, _ *git.Repository, root string, _ plumbing.Hash) {
				require.NoError(testInstance, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("todo\n"), 0o644))
			},
			expectedOutcome: fleet.OutcomeSuccessWithChanges,
		},
		{
			name:            "clean_trunk",
			expectedOutcome: fleet.OutcomeFailure,
			expectedError:   fleet.ErrUpstreamUnavailable,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			root := repositoryRoot(testInstance.TempDir(), "scripts")
			repository := initRepository(testInstance, root, "main")
			commitHash := commitEmpty(testInstance, repository)
			if testCase.prepare != nil {
				testCase.prepare(testInstance, repository, root, commitHash)
			}

			handle := fleet.OpenRepositoryHandle(root, "github", false, newHandleDependencies(testInstance, execshell.NewOSCommandRunner()), defaultHandleSettings())
			result, statusError := handle.Status(context.Background(), false)
			require.NoError(testInstance, statusError)
			require.Equal(testInstance, testCase.expectedOutcome, result.Outcome, result.Detail)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, result.Failure, testCase.expectedError)
				return
			}
			require.NotEmpty(testInstance, result.Detail)
		})
	}
}
