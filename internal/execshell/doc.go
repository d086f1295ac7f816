// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions repofleet uses to
// run git against every repository of the fleet in a testable manner.
package execshell
