package catalog

import (
	"errors"
	"strings"

	"github.com/adrg/xdg"
)

// ErrHomeDirectoryUnknown indicates the home directory could not be determined.
var ErrHomeDirectoryUnknown = errors.New("home directory could not be determined")

// Environment holds the directories link destinations are declared against.
type Environment struct {
	HomeDirectory       string
	ConfigHomeDirectory string
	DataHomeDirectory   string
}

// ResolveEnvironment reads the home directory and the XDG base directories,
// falling back to the XDG defaults when the variables are unset.
func ResolveEnvironment() (Environment, error) {
	if len(strings.TrimSpace(xdg.Home)) == 0 {
		return Environment{}, ErrHomeDirectoryUnknown
	}
	return Environment{
		HomeDirectory:       xdg.Home,
		ConfigHomeDirectory: xdg.ConfigHome,
		DataHomeDirectory:   xdg.DataHome,
	}, nil
}
