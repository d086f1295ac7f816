package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                = "~"
	tildeSlashPrefixConstant           = "~/"
	environmentReferencePrefixConstant = "$"
	absolutePathErrorTemplateConstant  = "resolve %s: %w"
	homeDirectoryErrorTemplateConstant = "expand %s: %w"
)

// ErrEmptyPath reports a blank path where one is required.
var ErrEmptyPath = errors.New("path is empty")

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup resolves an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// Expander turns user supplied paths into absolute ones. It expands a leading
// tilde and $VARIABLE references, then anchors relative results at the working
// directory.
type Expander struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewExpander constructs an Expander backed by the operating system.
func NewExpander() *Expander {
	return NewExpanderWithProviders(os.UserHomeDir, os.LookupEnv)
}

// NewExpanderWithProviders constructs an Expander with custom lookups. Nil
// providers fall back to the operating system.
func NewExpanderWithProviders(homeProvider HomeDirectoryProvider, environmentLookup EnvironmentLookup) *Expander {
	if homeProvider == nil {
		homeProvider = os.UserHomeDir
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &Expander{homeDirectoryProvider: homeProvider, environmentLookup: environmentLookup}
}

// Expand resolves a leading tilde and environment references. Unknown
// variables expand to nothing, as in a shell.
func (expander *Expander) Expand(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", ErrEmptyPath
	}

	if strings.Contains(trimmedPath, environmentReferencePrefixConstant) {
		trimmedPath = os.Expand(trimmedPath, func(name string) string {
			value, _ := expander.environmentLookup(name)
			return value
		})
	}

	if trimmedPath != tildeSymbolConstant && !strings.HasPrefix(trimmedPath, tildeSlashPrefixConstant) && !strings.HasPrefix(trimmedPath, tildeSymbolConstant+string(os.PathSeparator)) {
		return trimmedPath, nil
	}

	homeDirectory, homeError := expander.resolveHomeDirectory()
	if homeError != nil {
		return "", fmt.Errorf(homeDirectoryErrorTemplateConstant, candidatePath, homeError)
	}
	if trimmedPath == tildeSymbolConstant {
		return homeDirectory, nil
	}
	return filepath.Join(homeDirectory, trimmedPath[len(tildeSlashPrefixConstant):]), nil
}

// ExpandAbsolute expands candidatePath and makes the result absolute.
func (expander *Expander) ExpandAbsolute(candidatePath string) (string, error) {
	expandedPath, expandError := expander.Expand(candidatePath)
	if expandError != nil {
		return "", expandError
	}
	absolutePath, absoluteError := filepath.Abs(expandedPath)
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, candidatePath, absoluteError)
	}
	return absolutePath, nil
}

func (expander *Expander) resolveHomeDirectory() (string, error) {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	return expander.homeDirectory, expander.homeDirectoryError
}
