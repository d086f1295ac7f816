package repos

import (
	"github.com/spf13/cobra"
)

const (
	updateUseConstant      = "update"
	updateShortDescription = "Fetch and rebase every repository"
	updateLongDescription  = "update fetches every repository with pruning and rebases its current branch onto the upstream. A failed rebase is reported and left for manual resolution."
)

// UpdateCommandBuilder assembles the update command.
type UpdateCommandBuilder struct {
	CommandDependencies
}

// Build constructs the update command.
func (builder *UpdateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   updateUseConstant,
		Short: updateShortDescription,
		Long:  updateLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.Run,
	}
	return command, nil
}

// Run updates the fleet. The root command calls it when no subcommand is given.
func (builder *UpdateCommandBuilder) Run(command *cobra.Command, _ []string) error {
	session, sessionError := builder.openSession(command, builder.resolveConfiguration(), false)
	if sessionError != nil {
		return sessionError
	}
	report, runError := session.orchestrator.UpdateAll(command.Context())
	return session.report(report, runError)
}
