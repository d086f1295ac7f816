package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/repofleet/cmd/cli/repos"
	"github.com/temirov/repofleet/internal/ui"
	"github.com/temirov/repofleet/internal/utils"
	flagutils "github.com/temirov/repofleet/internal/utils/flags"
)

const (
	applicationNameConstant                 = "repofleet"
	applicationShortDescriptionConstant     = "Keep a fleet of personal repositories cloned, current, and linked"
	applicationLongDescriptionConstant      = "repofleet clones, inspects, updates, and links a compiled-in catalog of git repositories, working on all of them at once. Running it without a subcommand performs update."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	colorFlagNameConstant                   = "color"
	colorFlagUsageConstant                  = "Colorize result output."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	fleetConfigurationKeyConstant           = "fleet"
	environmentPrefixConstant               = "REPOFLEET"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
	developmentVersionConstant              = "(devel)"
	unknownVersionConstant                  = "dev"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common" yaml:"common"`
	Fleet  repos.FleetConfiguration       `mapstructure:"fleet" yaml:"fleet"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	colorFlagValue        string
	dependencies          repos.CommandDependencies
}

// ApplicationOption customizes an Application before its commands are built.
type ApplicationOption func(*Application)

// WithCommandDependencies replaces the collaborators handed to every fleet
// command. Logger and configuration providers are always supplied by the application.
func WithCommandDependencies(dependencies repos.CommandDependencies) ApplicationOption {
	return func(application *Application) {
		application.dependencies = dependencies
	}
}

// WithConfigurationSearchPaths replaces the directories searched for config.yaml.
func WithConfigurationSearchPaths(searchPaths ...string) ApplicationOption {
	return func(application *Application) {
		application.configurationLoader = newConfigurationLoader(searchPaths)
	}
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	application := &Application{
		configurationLoader: newConfigurationLoader(defaultConfigurationSearchPaths()),
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}
	for _, option := range options {
		if option != nil {
			option(application)
		}
	}

	dependencies := application.dependencies
	dependencies.LoggerProvider = func() *zap.Logger {
		return application.logger
	}
	dependencies.HumanReadableLoggingProvider = application.humanReadableLoggingEnabled
	dependencies.ConfigurationProvider = func() repos.FleetConfiguration {
		return application.configuration.Fleet
	}

	updateBuilder := &repos.UpdateCommandBuilder{CommandDependencies: dependencies}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: updateBuilder.Run,
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatStructured), utils.LogFormatChoices(), logFormatFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.colorFlagValue, colorFlagNameConstant, string(ui.ColorModeAuto), []string{string(ui.ColorModeAuto), string(ui.ColorModeAlways), string(ui.ColorModeNever)}, colorFlagUsageConstant)

	commandBuilders := []interface {
		Build() (*cobra.Command, error)
	}{
		&repos.CloneCommandBuilder{CommandDependencies: dependencies},
		&repos.StatusCommandBuilder{CommandDependencies: dependencies},
		updateBuilder,
		&repos.LinkCommandBuilder{CommandDependencies: dependencies},
		&repos.UnlinkCommandBuilder{CommandDependencies: dependencies},
		&ConfigurationCommandBuilder{ConfigurationProvider: func() ApplicationConfiguration {
			return application.configuration
		}},
	}
	for _, commandBuilder := range commandBuilders {
		subcommand, buildError := commandBuilder.Build()
		if buildError == nil {
			cobraCommand.AddCommand(subcommand)
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the command hierarchy under executionContext.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// RootCommand exposes the root command for embedding and tests.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute(executionContext context.Context) error {
	return NewApplication().ExecuteContext(executionContext)
}

func newConfigurationLoader(searchPaths []string) *utils.ConfigurationLoader {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		searchPaths,
	)
	embeddedContent, embeddedType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedContent, embeddedType)
	return configurationLoader
}

func defaultConfigurationSearchPaths() []string {
	return []string{
		defaultConfigurationSearchPathConstant,
		filepath.Join(xdg.ConfigHome, applicationNameConstant),
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(fleetConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, colorFlagNameConstant) {
		application.configuration.Fleet.Color = application.colorFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLoggerForWriter(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		command.ErrOrStderr(),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersionConstant
	}
	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 || moduleVersion == developmentVersionConstant {
		return unknownVersionConstant
	}
	return moduleVersion
}
