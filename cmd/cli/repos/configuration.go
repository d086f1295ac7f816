package repos

import (
	"strings"

	"github.com/temirov/repofleet/internal/repos/shared"
	"github.com/temirov/repofleet/internal/ui"
)

const (
	baseDirectoryConfigurationKeyConstant    = "base_directory"
	userConfigurationKeyConstant             = "user"
	trunkBranchesConfigurationKeyConstant    = "trunk_branches"
	concurrencyConfigurationKeyConstant      = "concurrency"
	colorConfigurationKeyConstant            = "color"
	cloneConfigurationKeyConstant            = "clone"
	cloneProtocolConfigurationKeyConstant    = "protocol"
	cloneDestinationConfigurationKeyConstant = "destination"
	configurationKeySeparatorConstant        = "."
	defaultUserConstant                      = "kurkale6ka"
	defaultTrunkBranchMainConstant           = "main"
	defaultTrunkBranchMasterConstant         = "master"
)

// FleetConfiguration describes configuration shared by the fleet commands.
type FleetConfiguration struct {
	BaseDirectory string             `mapstructure:"base_directory" yaml:"base_directory"`
	User          string             `mapstructure:"user" yaml:"user"`
	TrunkBranches []string           `mapstructure:"trunk_branches" yaml:"trunk_branches"`
	Concurrency   int                `mapstructure:"concurrency" yaml:"concurrency"`
	Color         string             `mapstructure:"color" yaml:"color"`
	Clone         CloneConfiguration `mapstructure:"clone" yaml:"clone"`
}

// CloneConfiguration describes configuration values for clone.
type CloneConfiguration struct {
	Protocol    string `mapstructure:"protocol" yaml:"protocol"`
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// DefaultFleetConfiguration returns baseline configuration values. An empty
// base directory is resolved from REPOS_BASE, then ~/repos.
func DefaultFleetConfiguration() FleetConfiguration {
	return FleetConfiguration{
		BaseDirectory: "",
		User:          defaultUserConstant,
		TrunkBranches: []string{defaultTrunkBranchMainConstant, defaultTrunkBranchMasterConstant},
		Concurrency:   0,
		Color:         string(ui.ColorModeAuto),
		Clone: CloneConfiguration{
			Protocol:    string(shared.RemoteProtocolGit),
			Destination: "",
		},
	}
}

// DefaultConfigurationValues produces Viper defaults for the fleet commands under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultFleetConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	clonePrefix := prefix + cloneConfigurationKeyConstant + configurationKeySeparatorConstant
	return map[string]any{
		prefix + baseDirectoryConfigurationKeyConstant:         defaults.BaseDirectory,
		prefix + userConfigurationKeyConstant:                  defaults.User,
		prefix + trunkBranchesConfigurationKeyConstant:         defaults.TrunkBranches,
		prefix + concurrencyConfigurationKeyConstant:           defaults.Concurrency,
		prefix + colorConfigurationKeyConstant:                 defaults.Color,
		clonePrefix + cloneProtocolConfigurationKeyConstant:    defaults.Clone.Protocol,
		clonePrefix + cloneDestinationConfigurationKeyConstant: defaults.Clone.Destination,
	}
}

// sanitize trims values and restores defaults for blank required ones.
func (configuration FleetConfiguration) sanitize() FleetConfiguration {
	defaults := DefaultFleetConfiguration()
	sanitized := configuration
	sanitized.BaseDirectory = strings.TrimSpace(configuration.BaseDirectory)
	sanitized.User = strings.TrimSpace(configuration.User)
	if len(sanitized.User) == 0 {
		sanitized.User = defaults.User
	}

	sanitized.TrunkBranches = make([]string, 0, len(configuration.TrunkBranches))
	for _, trunkBranch := range configuration.TrunkBranches {
		if trimmedBranch := strings.TrimSpace(trunkBranch); len(trimmedBranch) > 0 {
			sanitized.TrunkBranches = append(sanitized.TrunkBranches, trimmedBranch)
		}
	}
	if len(sanitized.TrunkBranches) == 0 {
		sanitized.TrunkBranches = defaults.TrunkBranches
	}

	if sanitized.Concurrency < 0 {
		sanitized.Concurrency = 0
	}
	sanitized.Color = strings.TrimSpace(configuration.Color)
	sanitized.Clone.Protocol = strings.TrimSpace(configuration.Clone.Protocol)
	sanitized.Clone.Destination = strings.TrimSpace(configuration.Clone.Destination)
	return sanitized
}
