// Package ui renders fleet results and command events for people reading a terminal.
//
// Result lines go to stdout with the repository name highlighted and failures
// emphasized; command lifecycle events flow through a zap logger so that the
// same diagnostics are available in console and structured form.
package ui
