package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repofleet/internal/execshell"
)

const (
	internalErrorTemplateConstant           = "%s %s: internal error: %v"
	panicErrorTemplateConstant              = "panic: %v"
	failureTextLineBreakConstant            = "\n"
	failureTextIndentedBreakConstant        = "\n\t"
	upstreamUnavailableTemplateConstant     = "%w: %s"
	unexpectedRevisionCountTemplateConstant = "%w: %q"
)

// Sentinel errors.
var (
	ErrGitExecutorNotConfigured = errors.New("fleet git executor not configured")
	ErrFileSystemNotConfigured  = errors.New("fleet file system not configured")
	ErrLoggerNotConfigured      = errors.New("fleet logger not configured")
	ErrUpstreamUnavailable      = errors.New("upstream comparison failed")
	ErrUnexpectedRevisionCount  = errors.New("unexpected revision count")
	ErrLinksFailed              = errors.New("one or more links failed")
)

// InternalError reports an unexpected failure that aborts the whole run.
type InternalError struct {
	Operation      Operation
	RepositoryName string
	Cause          error
}

// Error describes the failure.
func (internalError InternalError) Error() string {
	return fmt.Sprintf(internalErrorTemplateConstant, internalError.Operation, internalError.RepositoryName, internalError.Cause)
}

// Unwrap exposes the cause.
func (internalError InternalError) Unwrap() error {
	return internalError.Cause
}

// isInternalFailure separates cancellation, which aborts the run, from ordinary
// command failures, which belong to one repository.
func isInternalFailure(executionError error) bool {
	return errors.Is(executionError, context.Canceled) || errors.Is(executionError, context.DeadlineExceeded)
}

// describeCommandFailure prefers the command's standard error and indents
// continuation lines under the repository name.
func describeCommandFailure(executionError error) string {
	failureText := executionError.Error()
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		if trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError); len(trimmedStandardError) > 0 {
			failureText = trimmedStandardError
		}
	}
	return indentFailureText(failureText)
}

func indentFailureText(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), failureTextLineBreakConstant, failureTextIndentedBreakConstant)
}
