// Package gitrepo contains helpers for locating and inspecting Git repositories.
//
// It builds clone URLs for the supported remote protocols and opens on-disk
// repositories through go-git so that branch state can be read without
// spawning git.
package gitrepo
