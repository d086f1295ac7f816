package links

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/temirov/repofleet/internal/repos/shared"
)

const (
	createdLinkMessageTemplateConstant = "'%s' -> '%s'\n"
	removedLinkMessageTemplateConstant = "removed '%s'\n"
	temporaryLinkNameTemplateConstant  = ".%s.repofleet-%d-%d"
)

var temporaryLinkSequence atomic.Uint64

// Executor applies link actions against a file system.
type Executor struct {
	fileSystem shared.FileSystem
	reporter   shared.Reporter
}

// NewExecutor constructs an Executor; verbose messages go to the reporter.
func NewExecutor(fileSystem shared.FileSystem, reporter shared.Reporter) (*Executor, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Executor{fileSystem: fileSystem, reporter: reporter}, nil
}

// Create installs the link described by the action. Re-creating a link that
// already points at the same target changes nothing.
func (executor *Executor) Create(action Action) error {
	if validationError := validateAction(action); validationError != nil {
		return LinkError{Operation: OperationCreate, Path: action.Destination, Cause: validationError}
	}

	linkPath := executor.resolveCreatePath(action)
	target := action.Source
	if action.Mode.Has(ModeRelative) {
		relativeTarget, relativeError := filepath.Rel(filepath.Dir(linkPath), action.Source)
		if relativeError != nil {
			return LinkError{Operation: OperationCreate, Path: linkPath, Cause: relativeError}
		}
		target = relativeTarget
	}

	existingInfo, lstatError := executor.fileSystem.Lstat(linkPath)
	switch {
	case lstatError == nil && existingInfo.Mode()&fs.ModeSymlink != 0:
		existingTarget, readError := executor.fileSystem.Readlink(linkPath)
		if readError == nil && existingTarget == target {
			return nil
		}
	case lstatError == nil && existingInfo.IsDir():
		return LinkError{Operation: OperationCreate, Path: linkPath, Cause: ErrDirectoryInTheWay}
	case lstatError != nil && !errors.Is(lstatError, fs.ErrNotExist):
		return LinkError{Operation: OperationCreate, Path: linkPath, Cause: lstatError}
	}

	if replaceError := executor.replaceLink(linkPath, target); replaceError != nil {
		return LinkError{Operation: OperationCreate, Path: linkPath, Cause: replaceError}
	}
	if action.Mode.Has(ModeVerbose) {
		executor.reporter.Printf(createdLinkMessageTemplateConstant, linkPath, target)
	}
	return nil
}

// Remove deletes the link described by the action. A missing link is not an
// error; anything that is not a symbolic link is left untouched and reported.
func (executor *Executor) Remove(action Action) error {
	if validationError := validateAction(action); validationError != nil {
		return LinkError{Operation: OperationRemove, Path: action.Destination, Cause: validationError}
	}

	linkPath := executor.resolveRemovePath(action)
	existingInfo, lstatError := executor.fileSystem.Lstat(linkPath)
	if lstatError != nil {
		if errors.Is(lstatError, fs.ErrNotExist) {
			return nil
		}
		return LinkError{Operation: OperationRemove, Path: linkPath, Cause: lstatError}
	}
	if existingInfo.Mode()&fs.ModeSymlink == 0 {
		return LinkError{Operation: OperationRemove, Path: linkPath, Cause: ErrNotSymlink}
	}

	if removeError := executor.fileSystem.Remove(linkPath); removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return LinkError{Operation: OperationRemove, Path: linkPath, Cause: removeError}
	}
	if action.Mode.Has(ModeVerbose) {
		executor.reporter.Printf(removedLinkMessageTemplateConstant, linkPath)
	}
	return nil
}

// resolveCreatePath follows ln: an existing directory, even one reached through
// a symbolic link, receives the link inside it.
func (executor *Executor) resolveCreatePath(action Action) string {
	if action.Mode.Has(ModeNoTargetDirectory) {
		return action.Destination
	}
	destinationInfo, statError := executor.fileSystem.Stat(action.Destination)
	if statError == nil && destinationInfo.IsDir() {
		return filepath.Join(action.Destination, action.sourceBaseName())
	}
	return action.Destination
}

// resolveRemovePath only descends into real directories so that a link to a
// directory is removed itself. NoTargetDirectory does not change this: a real
// directory at the destination is never the link.
func (executor *Executor) resolveRemovePath(action Action) string {
	destinationInfo, lstatError := executor.fileSystem.Lstat(action.Destination)
	if lstatError == nil && destinationInfo.IsDir() {
		return filepath.Join(action.Destination, action.sourceBaseName())
	}
	return action.Destination
}

func (executor *Executor) replaceLink(linkPath string, target string) error {
	temporaryPath := filepath.Join(
		filepath.Dir(linkPath),
		fmt.Sprintf(temporaryLinkNameTemplateConstant, filepath.Base(linkPath), os.Getpid(), temporaryLinkSequence.Add(1)),
	)
	if symlinkError := executor.fileSystem.Symlink(target, temporaryPath); symlinkError != nil {
		return symlinkError
	}
	if renameError := executor.fileSystem.Rename(temporaryPath, linkPath); renameError != nil {
		_ = executor.fileSystem.Remove(temporaryPath)
		return renameError
	}
	return nil
}

func validateAction(action Action) error {
	if len(action.Source) == 0 {
		return ErrSourceRequired
	}
	if !filepath.IsAbs(action.Destination) {
		return ErrDestinationNotAbsolute
	}
	return nil
}
