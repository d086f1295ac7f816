package fleet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repofleet/internal/catalog"
	"github.com/temirov/repofleet/internal/links"
	"github.com/temirov/repofleet/internal/repos/shared"
)

const (
	requiredDirectoryPermissionsConstant   = 0o755
	requiredDirectoryErrorTemplateConstant = "create directory %s: %w"
	linkFailureSummaryTemplateConstant     = "%w: %d failed"
)

// CreateLinks creates the entry's required directories and then installs its
// links one after another. Every failure is collected; none stops the rest.
func (handle *RepositoryHandle) CreateLinks(entry catalog.Entry, verbose bool) OperationResult {
	if handle.openFailure != nil {
		return failureResult(handle.name, handle.openFailure, indentFailureText(handle.openFailure.Error()))
	}
	return handle.applyLinks(entry, verbose, true)
}

// RemoveLinks removes the entry's links. The repository itself does not need
// to exist.
func (handle *RepositoryHandle) RemoveLinks(entry catalog.Entry, verbose bool) OperationResult {
	return handle.applyLinks(entry, verbose, false)
}

func (handle *RepositoryHandle) applyLinks(entry catalog.Entry, verbose bool, create bool) OperationResult {
	var verboseOutput bytes.Buffer
	linkExecutor, executorError := links.NewExecutor(handle.dependencies.FileSystem, shared.NewWriterReporter(&verboseOutput))
	if executorError != nil {
		return failureResult(handle.name, executorError, executorError.Error())
	}

	failures := []error{}
	if create {
		for _, requiredDirectory := range entry.RequiredDirectories {
			if mkdirError := handle.dependencies.FileSystem.MkdirAll(requiredDirectory, requiredDirectoryPermissionsConstant); mkdirError != nil {
				failures = append(failures, fmt.Errorf(requiredDirectoryErrorTemplateConstant, requiredDirectory, mkdirError))
			}
		}
	}

	actions := entry.ResolveLinks(handle.root)
	for _, action := range actions {
		if verbose {
			action = action.WithMode(links.ModeVerbose)
		}
		var actionError error
		if create {
			actionError = linkExecutor.Create(action)
		} else {
			actionError = linkExecutor.Remove(action)
		}
		if actionError != nil {
			failures = append(failures, actionError)
		}
	}

	detail := strings.TrimRight(verboseOutput.String(), failureTextLineBreakConstant)
	if len(failures) == 0 {
		return successResult(handle.name, detail)
	}

	failureLines := make([]string, 0, len(failures)+1)
	if len(detail) > 0 {
		failureLines = append(failureLines, detail)
	}
	for _, failure := range failures {
		failureLines = append(failureLines, failure.Error())
	}
	summaryError := fmt.Errorf(linkFailureSummaryTemplateConstant, ErrLinksFailed, len(failures))
	return failureResult(handle.name, errors.Join(append([]error{summaryError}, failures...)...), indentFailureText(strings.Join(failureLines, failureTextLineBreakConstant)))
}
