// Package cli constructs the repofleet command-line interface, wiring the
// Cobra command hierarchy, the Viper configuration loader, and zap logging
// around the fleet commands.
package cli
