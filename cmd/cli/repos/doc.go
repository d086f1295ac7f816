// Package repos builds the fleet commands: clone, status, update, link and
// unlink. Each builder resolves its configuration, assembles the catalog and
// orchestrator, runs one fleet operation, and renders the per-repository results.
package repos
