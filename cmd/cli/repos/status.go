package repos

import (
	"github.com/spf13/cobra"
)

const (
	statusUseConstant              = "status"
	statusShortDescription         = "Report repositories that need attention"
	statusLongDescription          = "status fetches every repository and lists those with local changes, a branch other than a trunk branch, or commits that differ from the upstream."
	statusVerboseFlagUsageConstant = "Show whitespace-insensitive diffs instead of the short status."
)

// StatusCommandBuilder assembles the status command.
type StatusCommandBuilder struct {
	CommandDependencies
}

// Build constructs the status command.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   statusUseConstant,
		Short: statusShortDescription,
		Long:  statusLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	bindVerboseFlag(command, statusVerboseFlagUsageConstant)
	return command, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, _ []string) error {
	verbose := verboseRequested(command)
	session, sessionError := builder.openSession(command, builder.resolveConfiguration(), verbose)
	if sessionError != nil {
		return sessionError
	}
	report, runError := session.orchestrator.StatusAll(command.Context(), verbose)
	return session.report(report, runError)
}
