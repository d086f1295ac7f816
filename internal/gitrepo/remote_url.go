package gitrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repofleet/internal/repos/shared"
)

const (
	scpCloneURLTemplateConstant      = "git@%s.com:%s/%s.git"
	sshCloneURLTemplateConstant      = "ssh://git@%s.com/%s/%s.git"
	httpsCloneURLTemplateConstant    = "https://%s.com/%s/%s.git"
	missingComponentTemplateConstant = "%w: %s"
	hostGroupComponentConstant       = "host group"
	ownerComponentConstant           = "owner"
	repositoryComponentConstant      = "repository"
)

// ErrCloneURLComponentMissing indicates an empty host group, owner or repository name.
var ErrCloneURLComponentMissing = errors.New("clone url component missing")

// RemoteURL identifies a hosted repository reachable through a protocol.
type RemoteURL struct {
	Protocol   shared.RemoteProtocol
	HostGroup  string
	Owner      string
	Repository string
}

// CloneURL renders the address passed to git clone. The git protocol uses the
// scp-like form; ssh and https use URL syntax against the same host, ssh with
// the git user hosting services expect.
func (remote RemoteURL) CloneURL() (string, error) {
	protocol := remote.Protocol
	if len(protocol) == 0 {
		protocol = shared.RemoteProtocolGit
	}
	if validationError := protocol.Validate(); validationError != nil {
		return "", validationError
	}

	components := []struct {
		label string
		value string
	}{
		{label: hostGroupComponentConstant, value: remote.HostGroup},
		{label: ownerComponentConstant, value: remote.Owner},
		{label: repositoryComponentConstant, value: remote.Repository},
	}
	for _, component := range components {
		if len(strings.TrimSpace(component.value)) == 0 {
			return "", fmt.Errorf(missingComponentTemplateConstant, ErrCloneURLComponentMissing, component.label)
		}
	}

	switch protocol {
	case shared.RemoteProtocolSSH:
		return fmt.Sprintf(sshCloneURLTemplateConstant, remote.HostGroup, remote.Owner, remote.Repository), nil
	case shared.RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsCloneURLTemplateConstant, remote.HostGroup, remote.Owner, remote.Repository), nil
	default:
		return fmt.Sprintf(scpCloneURLTemplateConstant, remote.HostGroup, remote.Owner, remote.Repository), nil
	}
}
