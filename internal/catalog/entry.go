package catalog

import (
	"path/filepath"

	"github.com/temirov/repofleet/internal/links"
)

const (
	defaultHostGroupConstant = "github"
)

// Link declares one symbolic link. Source is relative to the repository root;
// an empty Source links the root itself.
type Link struct {
	Source      string
	Destination string
	Mode        links.Mode
}

// Entry is the declaration of one repository.
type Entry struct {
	Name                string
	HostGroup           string
	Enabled             bool
	Links               []Link
	RequiredDirectories []string
	LinksUnmanaged      bool
}

// EntryOption customizes an Entry built by NewEntry.
type EntryOption func(*Entry)

// NewEntry declares an enabled github repository whose links are managed.
func NewEntry(name string, options ...EntryOption) Entry {
	entry := Entry{Name: name, HostGroup: defaultHostGroupConstant, Enabled: true}
	for _, option := range options {
		if option != nil {
			option(&entry)
		}
	}
	return entry
}

// WithHostGroup selects the hosting namespace, such as github or gitlab.
func WithHostGroup(hostGroup string) EntryOption {
	return func(entry *Entry) {
		entry.HostGroup = hostGroup
	}
}

// WithLinks appends link declarations.
func WithLinks(declaredLinks ...Link) EntryOption {
	return func(entry *Entry) {
		entry.Links = append(entry.Links, declaredLinks...)
	}
}

// WithRequiredDirectories appends directories created before any link is installed.
func WithRequiredDirectories(directories ...string) EntryOption {
	return func(entry *Entry) {
		entry.RequiredDirectories = append(entry.RequiredDirectories, directories...)
	}
}

// Disabled excludes the entry from every operation.
func Disabled() EntryOption {
	return func(entry *Entry) {
		entry.Enabled = false
	}
}

// WithoutLinkManagement keeps the entry in clone, status and update but skips its links.
func WithoutLinkManagement() EntryOption {
	return func(entry *Entry) {
		entry.LinksUnmanaged = true
	}
}

// ManagesLinks reports whether link and unlink install or remove the entry's links.
func (entry Entry) ManagesLinks() bool {
	return !entry.LinksUnmanaged
}

// RootPath is base/hostGroup/name.
func (entry Entry) RootPath(baseDirectory string) string {
	return filepath.Join(baseDirectory, entry.HostGroup, entry.Name)
}

// ResolveLinks produces fresh link actions whose sources are anchored at root.
// The declarations themselves are left untouched.
func (entry Entry) ResolveLinks(root string) []links.Action {
	resolvedActions := make([]links.Action, 0, len(entry.Links))
	for _, declaredLink := range entry.Links {
		source := root
		if len(declaredLink.Source) > 0 {
			source = filepath.Join(root, declaredLink.Source)
		}
		resolvedActions = append(resolvedActions, links.Action{
			Source:      source,
			Destination: declaredLink.Destination,
			Mode:        declaredLink.Mode,
		})
	}
	return resolvedActions
}

func (entry Entry) clone() Entry {
	entry.Links = append([]Link(nil), entry.Links...)
	entry.RequiredDirectories = append([]string(nil), entry.RequiredDirectories...)
	return entry
}
