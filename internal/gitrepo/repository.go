package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	openRepositoryErrorTemplateConstant = "open repository %s: %w"
	readHeadErrorTemplateConstant       = "read HEAD of %s: %w"
)

// ErrRepositoryNotFound indicates the path holds no git repository.
var ErrRepositoryNotFound = errors.New("repository not cloned")

// BranchState describes what HEAD points at.
type BranchState struct {
	Name     string
	Detached bool
}

// Repository is an opened on-disk git repository.
type Repository struct {
	path       string
	repository *git.Repository
}

// OpenRepository opens the repository whose working tree is rooted at path.
func OpenRepository(path string) (*Repository, error) {
	repository, openError := git.PlainOpen(path)
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, path, ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, path, openError)
	}
	return &Repository{path: path, repository: repository}, nil
}

// Path reports the working tree root.
func (repository *Repository) Path() string {
	return repository.path
}

// CurrentBranch reads HEAD. An unborn branch is reported by name; a detached
// HEAD carries no name.
func (repository *Repository) CurrentBranch() (BranchState, error) {
	headReference, headError := repository.repository.Storer.Reference(plumbing.HEAD)
	if headError != nil {
		return BranchState{}, fmt.Errorf(readHeadErrorTemplateConstant, repository.path, headError)
	}
	if headReference.Type() == plumbing.SymbolicReference && headReference.Target().IsBranch() {
		return BranchState{Name: headReference.Target().Short()}, nil
	}
	return BranchState{Detached: true}, nil
}
