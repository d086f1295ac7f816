package catalog

import (
	"path/filepath"
	"strings"
)

const (
	parentDirectoryPrefixConstant = ".."
)

// Catalog is the validated, ordered set of enabled entries rooted at a base directory.
type Catalog struct {
	baseDirectory string
	entries       []Entry
}

// New validates the declarations against baseDirectory and keeps enabled entries in declaration order.
func New(baseDirectory string, declarations []Entry) (Catalog, error) {
	if !filepath.IsAbs(baseDirectory) {
		return Catalog{}, ValidationError{Reason: ErrRelativeBaseDirectory, Detail: baseDirectory}
	}
	cleanBaseDirectory := filepath.Clean(baseDirectory)

	seenNames := make(map[string]struct{}, len(declarations))
	enabledEntries := make([]Entry, 0, len(declarations))
	for _, declaration := range declarations {
		if validationError := validateEntry(declaration); validationError != nil {
			return Catalog{}, validationError
		}
		if _, duplicate := seenNames[declaration.Name]; duplicate {
			return Catalog{}, ValidationError{EntryName: declaration.Name, Reason: ErrDuplicateName}
		}
		seenNames[declaration.Name] = struct{}{}
		if declaration.Enabled {
			enabledEntries = append(enabledEntries, declaration.clone())
		}
	}

	if overlapError := validateDisjointRoots(cleanBaseDirectory, enabledEntries); overlapError != nil {
		return Catalog{}, overlapError
	}
	return Catalog{baseDirectory: cleanBaseDirectory, entries: enabledEntries}, nil
}

// BaseDirectory reports the directory holding every host group.
func (catalog Catalog) BaseDirectory() string {
	return catalog.baseDirectory
}

// EnabledEntries returns a copy of the enabled entries in declaration order.
func (catalog Catalog) EnabledEntries() []Entry {
	entriesCopy := make([]Entry, 0, len(catalog.entries))
	for _, entry := range catalog.entries {
		entriesCopy = append(entriesCopy, entry.clone())
	}
	return entriesCopy
}

// Len reports the number of enabled entries.
func (catalog Catalog) Len() int {
	return len(catalog.entries)
}

func validateEntry(entry Entry) error {
	if len(strings.TrimSpace(entry.Name)) == 0 {
		return ValidationError{EntryName: entry.Name, Reason: ErrEmptyName}
	}
	if len(strings.TrimSpace(entry.HostGroup)) == 0 {
		return ValidationError{EntryName: entry.Name, Reason: ErrEmptyHostGroup}
	}
	for _, declaredLink := range entry.Links {
		if len(declaredLink.Source) > 0 && filepath.IsAbs(declaredLink.Source) {
			return ValidationError{EntryName: entry.Name, Reason: ErrAbsoluteSource, Detail: declaredLink.Source}
		}
		if escapesRoot(declaredLink.Source) {
			return ValidationError{EntryName: entry.Name, Reason: ErrSourceOutsideRoot, Detail: declaredLink.Source}
		}
		if !filepath.IsAbs(declaredLink.Destination) {
			return ValidationError{EntryName: entry.Name, Reason: ErrRelativeDestination, Detail: declaredLink.Destination}
		}
	}
	for _, requiredDirectory := range entry.RequiredDirectories {
		if !filepath.IsAbs(requiredDirectory) {
			return ValidationError{EntryName: entry.Name, Reason: ErrRelativeRequiredDirectory, Detail: requiredDirectory}
		}
	}
	return nil
}

// validateDisjointRoots rejects entries whose roots are equal or nested so that
// concurrent operations never touch the same working tree.
func validateDisjointRoots(baseDirectory string, entries []Entry) error {
	roots := make([]string, len(entries))
	for entryIndex, entry := range entries {
		roots[entryIndex] = entry.RootPath(baseDirectory)
	}
	for firstIndex := range roots {
		for secondIndex := firstIndex + 1; secondIndex < len(roots); secondIndex++ {
			if pathContains(roots[firstIndex], roots[secondIndex]) || pathContains(roots[secondIndex], roots[firstIndex]) {
				return ValidationError{EntryName: entries[secondIndex].Name, Reason: ErrOverlappingRoots, Detail: entries[firstIndex].Name}
			}
		}
	}
	return nil
}

// escapesRoot reports whether a relative source climbs above the repository root.
func escapesRoot(source string) bool {
	cleanedSource := filepath.Clean(source)
	return cleanedSource == parentDirectoryPrefixConstant || strings.HasPrefix(cleanedSource, parentDirectoryPrefixConstant+string(filepath.Separator))
}

func pathContains(parent string, candidate string) bool {
	relativePath, relativeError := filepath.Rel(parent, candidate)
	if relativeError != nil {
		return false
	}
	return relativePath != parentDirectoryPrefixConstant && !strings.HasPrefix(relativePath, parentDirectoryPrefixConstant+string(filepath.Separator))
}
