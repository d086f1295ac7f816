package links

import (
	"path/filepath"
)

// Mode carries the ln and rm flags of an Action.
type Mode uint8

// Link modes.
const (
	// ModeRelative stores the target relative to the link's parent directory (ln -r).
	ModeRelative Mode = 1 << iota
	// ModeNoTargetDirectory treats the destination as the link itself (ln -T).
	ModeNoTargetDirectory
	// ModeVerbose reports every created or removed link (ln -v, rm -v).
	ModeVerbose
)

// Has reports whether all bits of flag are set.
func (mode Mode) Has(flag Mode) bool {
	return mode&flag == flag
}

// Action is one symbolic link to install or remove. Source is an absolute path
// inside a repository; Destination is an absolute file path or an existing
// directory to link into.
type Action struct {
	Source      string
	Destination string
	Mode        Mode
}

// WithMode returns a copy of the action with the extra flags set.
func (action Action) WithMode(extra Mode) Action {
	action.Mode |= extra
	return action
}

func (action Action) sourceBaseName() string {
	return filepath.Base(filepath.Clean(action.Source))
}
