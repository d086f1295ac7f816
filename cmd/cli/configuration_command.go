package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	configurationUseConstant                 = "config"
	configurationShortDescription            = "Print the effective configuration"
	configurationLongDescription             = "config prints the configuration after embedded defaults, the configuration file, environment variables, and flags have been applied."
	configurationEncodeErrorTemplateConstant = "unable to encode configuration: %w"
	configurationYAMLIndentConstant          = 2
)

// ConfigurationCommandBuilder assembles the config command.
type ConfigurationCommandBuilder struct {
	ConfigurationProvider func() ApplicationConfiguration
}

// Build constructs the config command.
func (builder *ConfigurationCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   configurationUseConstant,
		Short: configurationShortDescription,
		Long:  configurationLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *ConfigurationCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := ApplicationConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(configurationYAMLIndentConstant)
	if encodeError := encoder.Encode(configuration); encodeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplateConstant, encodeError)
	}
	return encoder.Close()
}
