package catalog

import (
	"errors"
	"fmt"
)

const (
	validationErrorTemplateConstant                   = "catalog entry %q: %v"
	validationErrorDetailTemplateConstant             = "catalog entry %q: %v (%s)"
	validationErrorWithoutEntryTemplateConstant       = "catalog: %v"
	validationErrorWithoutEntryDetailTemplateConstant = "catalog: %v (%s)"
)

// Sentinel validation failures.
var (
	ErrEmptyName                 = errors.New("name is required")
	ErrEmptyHostGroup            = errors.New("host group is required")
	ErrDuplicateName             = errors.New("duplicate repository name")
	ErrOverlappingRoots          = errors.New("repository roots overlap")
	ErrRelativeDestination       = errors.New("link destination must be absolute")
	ErrAbsoluteSource            = errors.New("link source must be relative to the repository root")
	ErrSourceOutsideRoot         = errors.New("link source must stay inside the repository root")
	ErrRelativeBaseDirectory     = errors.New("base directory must be absolute")
	ErrRelativeRequiredDirectory = errors.New("required directory must be absolute")
)

// ValidationError reports a catalog invariant violation. It is fatal: no
// operation is dispatched for an invalid catalog.
type ValidationError struct {
	EntryName string
	Reason    error
	Detail    string
}

// Error describes the violation.
func (validationError ValidationError) Error() string {
	switch {
	case len(validationError.EntryName) == 0 && len(validationError.Detail) == 0:
		return fmt.Sprintf(validationErrorWithoutEntryTemplateConstant, validationError.Reason)
	case len(validationError.EntryName) == 0:
		return fmt.Sprintf(validationErrorWithoutEntryDetailTemplateConstant, validationError.Reason, validationError.Detail)
	case len(validationError.Detail) == 0:
		return fmt.Sprintf(validationErrorTemplateConstant, validationError.EntryName, validationError.Reason)
	default:
		return fmt.Sprintf(validationErrorDetailTemplateConstant, validationError.EntryName, validationError.Reason, validationError.Detail)
	}
}

// Unwrap exposes the sentinel reason.
func (validationError ValidationError) Unwrap() error {
	return validationError.Reason
}
