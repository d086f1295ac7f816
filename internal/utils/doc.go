// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses the ConfigurationLoader, which layers embedded defaults, an
// optional file, and REPOFLEET_ environment variables through Viper, and the
// LoggerFactory that builds zap loggers in structured or console form.
package utils
