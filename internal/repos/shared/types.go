package shared

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/temirov/repofleet/internal/execshell"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolGit   RemoteProtocol = "git"
	RemoteProtocolSSH   RemoteProtocol = "ssh"
	RemoteProtocolHTTPS RemoteProtocol = "https"
)

const (
	unsupportedRemoteProtocolTemplateConstant = "%w: %q (expected git, ssh or https)"
)

// ErrUnsupportedRemoteProtocol indicates a protocol outside git, ssh and https.
var ErrUnsupportedRemoteProtocol = errors.New("unsupported remote protocol")

// ParseRemoteProtocol normalizes user input; an empty value selects the git protocol.
func ParseRemoteProtocol(raw string) (RemoteProtocol, error) {
	normalized := RemoteProtocol(strings.ToLower(strings.TrimSpace(raw)))
	if len(normalized) == 0 {
		return RemoteProtocolGit, nil
	}
	if validationError := normalized.Validate(); validationError != nil {
		return "", validationError
	}
	return normalized, nil
}

// Validate reports whether the protocol is supported.
func (protocol RemoteProtocol) Validate() error {
	switch protocol {
	case RemoteProtocolGit, RemoteProtocolSSH, RemoteProtocolHTTPS:
		return nil
	default:
		return fmt.Errorf(unsupportedRemoteProtocolTemplateConstant, ErrUnsupportedRemoteProtocol, string(protocol))
	}
}

// FileSystem exposes filesystem operations required by repository and link services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	Readlink(path string) (string, error)
	Symlink(target string, linkPath string) error
	Rename(oldPath string, newPath string) error
	Remove(path string) error
	MkdirAll(path string, permissions fs.FileMode) error
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
