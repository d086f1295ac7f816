package repos

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/repofleet/internal/fleet"
	"github.com/temirov/repofleet/internal/repos/shared"
	flagutils "github.com/temirov/repofleet/internal/utils/flags"
)

const (
	cloneUseConstant                      = "clone"
	cloneShortDescription                 = "Clone catalog repositories that are not yet on disk"
	cloneLongDescription                  = "clone clones every enabled repository into <base>/<host group>/<name>, or into --dest when given. Repositories already present are left alone."
	cloneProtocolFlagNameConstant         = "protocol"
	cloneProtocolFlagUsageConstant        = "Remote protocol used to build clone URLs."
	cloneDestinationFlagNameConstant      = "dest"
	cloneDestinationFlagUsageConstant     = "Directory to clone into instead of the host group directory."
	cloneVerboseFlagUsageConstant         = "Let git report clone progress."
	cloneDestinationErrorTemplateConstant = "resolve clone destination: %w"
)

// CloneCommandBuilder assembles the clone command.
type CloneCommandBuilder struct {
	CommandDependencies
	protocolFlagValue    string
	destinationFlagValue string
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescription,
		Long:  cloneLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	protocolChoices := []string{string(shared.RemoteProtocolGit), string(shared.RemoteProtocolSSH), string(shared.RemoteProtocolHTTPS)}
	flagutils.AddChoiceFlag(command.Flags(), &builder.protocolFlagValue, cloneProtocolFlagNameConstant, DefaultFleetConfiguration().Clone.Protocol, protocolChoices, cloneProtocolFlagUsageConstant)
	command.Flags().StringVar(&builder.destinationFlagValue, cloneDestinationFlagNameConstant, "", cloneDestinationFlagUsageConstant)
	bindVerboseFlag(command, cloneVerboseFlagUsageConstant)

	return command, nil
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(cloneProtocolFlagNameConstant) {
		configuration.Clone.Protocol = builder.protocolFlagValue
	}
	if command.Flags().Changed(cloneDestinationFlagNameConstant) {
		configuration.Clone.Destination = builder.destinationFlagValue
	}

	protocol, protocolError := shared.ParseRemoteProtocol(configuration.Clone.Protocol)
	if protocolError != nil {
		return protocolError
	}

	destinationDirectory := ""
	if len(configuration.Clone.Destination) > 0 {
		resolvedDestination, destinationError := builder.pathExpander().ExpandAbsolute(configuration.Clone.Destination)
		if destinationError != nil {
			return fmt.Errorf(cloneDestinationErrorTemplateConstant, destinationError)
		}
		destinationDirectory = resolvedDestination
	}

	verbose := verboseRequested(command)
	session, sessionError := builder.openSession(command, configuration, verbose)
	if sessionError != nil {
		return sessionError
	}

	report, runError := session.orchestrator.CloneAll(command.Context(), fleet.CloneOptions{
		Protocol:             protocol,
		DestinationDirectory: destinationDirectory,
		Verbose:              verbose,
	})
	return session.report(report, runError)
}
