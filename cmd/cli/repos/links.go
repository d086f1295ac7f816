package repos

import (
	"github.com/spf13/cobra"
)

const (
	linkUseConstant                = "link"
	linkShortDescription           = "Install the symbolic links declared by each repository"
	linkLongDescription            = "link creates required directories and symbolic links for every cloned repository that manages links. Existing links are replaced atomically; real directories in the way are reported and left alone."
	unlinkUseConstant              = "unlink"
	unlinkShortDescription         = "Remove the symbolic links declared by each repository"
	unlinkLongDescription          = "unlink removes the symbolic links declared by every repository that manages links. Missing links are ignored and anything that is not a symbolic link is left untouched."
	linkVerboseFlagUsageConstant   = "Print every link as it is created."
	unlinkVerboseFlagUsageConstant = "Print every link as it is removed."
)

// LinkCommandBuilder assembles the link command.
type LinkCommandBuilder struct {
	CommandDependencies
}

// Build constructs the link command.
func (builder *LinkCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   linkUseConstant,
		Short: linkShortDescription,
		Long:  linkLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	bindVerboseFlag(command, linkVerboseFlagUsageConstant)
	return command, nil
}

func (builder *LinkCommandBuilder) run(command *cobra.Command, _ []string) error {
	verbose := verboseRequested(command)
	session, sessionError := builder.openSession(command, builder.resolveConfiguration(), verbose)
	if sessionError != nil {
		return sessionError
	}
	report, runError := session.orchestrator.LinkAll(command.Context(), verbose)
	return session.report(report, runError)
}

// UnlinkCommandBuilder assembles the unlink command.
type UnlinkCommandBuilder struct {
	CommandDependencies
}

// Build constructs the unlink command.
func (builder *UnlinkCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   unlinkUseConstant,
		Short: unlinkShortDescription,
		Long:  unlinkLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	bindVerboseFlag(command, unlinkVerboseFlagUsageConstant)
	return command, nil
}

func (builder *UnlinkCommandBuilder) run(command *cobra.Command, _ []string) error {
	verbose := verboseRequested(command)
	session, sessionError := builder.openSession(command, builder.resolveConfiguration(), verbose)
	if sessionError != nil {
		return sessionError
	}
	report, runError := session.orchestrator.UnlinkAll(command.Context(), verbose)
	return session.report(report, runError)
}
