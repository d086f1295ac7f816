// Package links creates and removes the symbolic links a repository installs
// into the user's home.
//
// The semantics follow ln -s: a destination naming an existing directory
// receives the link inside it unless NoTargetDirectory is set, relative links
// store a target relative to the link's directory, and existing links are
// replaced atomically through a rename.
package links
