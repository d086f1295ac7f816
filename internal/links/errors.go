package links

import (
	"errors"
	"fmt"
)

const (
	linkErrorTemplateConstant = "%s %s: %v"
)

// Sentinel link errors.
var (
	ErrSourceRequired          = errors.New("link source is required")
	ErrDestinationNotAbsolute  = errors.New("link destination must be absolute")
	ErrDirectoryInTheWay       = errors.New("a directory occupies the link path")
	ErrNotSymlink              = errors.New("path is not a symbolic link")
	ErrFileSystemNotConfigured = errors.New("link executor file system not configured")
)

// Operation names a link operation for error reporting.
type Operation string

// Link operations.
const (
	OperationCreate Operation = Operation("link")
	OperationRemove Operation = Operation("unlink")
)

// LinkError reports a failed link operation on a path.
type LinkError struct {
	Operation Operation
	Path      string
	Cause     error
}

// Error describes the failure.
func (linkError LinkError) Error() string {
	return fmt.Sprintf(linkErrorTemplateConstant, linkError.Operation, linkError.Path, linkError.Cause)
}

// Unwrap exposes the underlying cause.
func (linkError LinkError) Unwrap() error {
	return linkError.Cause
}
