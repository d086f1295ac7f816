// Package fleet runs one operation across every repository of a catalog.
//
// RepositoryHandle performs clone, fetch, status, update and link work for a
// single repository and always answers with an OperationResult. Orchestrator
// fans an operation out over the catalog with errgroup, bounds concurrency,
// and returns results in catalog order. Expected failures stay inside their
// result; only internal errors cancel the run.
package fleet
