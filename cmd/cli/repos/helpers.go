package repos

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repofleet/internal/catalog"
	"github.com/temirov/repofleet/internal/execshell"
	"github.com/temirov/repofleet/internal/fleet"
	"github.com/temirov/repofleet/internal/repos/filesystem"
	"github.com/temirov/repofleet/internal/repos/shared"
	"github.com/temirov/repofleet/internal/ui"
	pathutils "github.com/temirov/repofleet/internal/utils/path"
)

const (
	reposBaseEnvironmentReferenceConstant = "$REPOS_BASE"
	defaultBaseDirectoryConstant          = "~/repos"
	repositoriesFailedTemplateConstant    = "%d of %d repositories failed"
	baseDirectoryErrorTemplateConstant    = "resolve base directory: %w"
	environmentErrorTemplateConstant      = "resolve catalog environment: %w"
	catalogErrorTemplateConstant          = "build catalog: %w"
	renderErrorTemplateConstant           = "render results: %w"
	verboseFlagNameConstant               = "verbose"
	verboseFlagShorthandConstant          = "v"
)

// ErrRepositoriesFailed marks a run in which at least one repository failed.
var ErrRepositoriesFailed = errors.New("repositories failed")

// RepositoriesFailedError counts the failed repositories of a completed run.
type RepositoriesFailedError struct {
	Failed int
	Total  int
}

// Error describes the failure count.
func (failedError RepositoriesFailedError) Error() string {
	return fmt.Sprintf(repositoriesFailedTemplateConstant, failedError.Failed, failedError.Total)
}

// Is matches ErrRepositoriesFailed.
func (failedError RepositoriesFailedError) Is(target error) bool {
	return target == ErrRepositoriesFailed
}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// EnvironmentProvider resolves the directories link destinations are declared against.
type EnvironmentProvider func() (catalog.Environment, error)

// CatalogProvider produces the catalog declarations for an environment.
type CatalogProvider func(environment catalog.Environment) []catalog.Entry

// CommandDependencies are the collaborators shared by every fleet command
// builder. Nil members fall back to the production implementations.
type CommandDependencies struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() FleetConfiguration
	CommandRunner                execshell.CommandRunner
	FileSystem                   shared.FileSystem
	EnvironmentProvider          EnvironmentProvider
	CatalogProvider              CatalogProvider
	ColorDetector                *ui.ColorDetector
	PathExpander                 *pathutils.Expander
}

// fleetSession is everything one command invocation needs to run and report.
type fleetSession struct {
	configuration FleetConfiguration
	orchestrator  *fleet.Orchestrator
	renderer      *ui.ResultRenderer
}

func (dependencies CommandDependencies) resolveConfiguration() FleetConfiguration {
	if dependencies.ConfigurationProvider == nil {
		return DefaultFleetConfiguration().sanitize()
	}
	return dependencies.ConfigurationProvider().sanitize()
}

func (dependencies CommandDependencies) pathExpander() *pathutils.Expander {
	if dependencies.PathExpander != nil {
		return dependencies.PathExpander
	}
	return pathutils.NewExpander()
}

func (dependencies CommandDependencies) openSession(command *cobra.Command, configuration FleetConfiguration, verbose bool) (fleetSession, error) {
	logger := resolveLogger(dependencies.LoggerProvider)

	colorMode, colorModeError := ui.ParseColorMode(configuration.Color)
	if colorModeError != nil {
		return fleetSession{}, colorModeError
	}
	colorDetector := ui.NewColorDetector()
	if dependencies.ColorDetector != nil {
		colorDetector = *dependencies.ColorDetector
	}
	colorEnabled := colorDetector.Enabled(colorMode, command.OutOrStdout())

	gitExecutor, executorError := dependencies.buildGitExecutor(logger)
	if executorError != nil {
		return fleetSession{}, executorError
	}

	fleetCatalog, catalogError := dependencies.buildCatalog(configuration)
	if catalogError != nil {
		return fleetSession{}, catalogError
	}

	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}

	orchestrator, orchestratorError := fleet.NewOrchestrator(
		fleetCatalog,
		fleet.HandleDependencies{Logger: logger, GitExecutor: gitExecutor, FileSystem: fileSystem},
		fleet.OrchestratorSettings{
			Handle: fleet.HandleSettings{
				User:          configuration.User,
				TrunkBranches: configuration.TrunkBranches,
				ColorEnabled:  colorEnabled,
			},
			Concurrency: configuration.Concurrency,
		},
	)
	if orchestratorError != nil {
		return fleetSession{}, orchestratorError
	}

	rendererOptions := []ui.ResultRendererOption{}
	if verbose {
		rendererOptions = append(rendererOptions, ui.WithSilentSuccesses())
	}
	return fleetSession{
		configuration: configuration,
		orchestrator:  orchestrator,
		renderer:      ui.NewResultRenderer(command.OutOrStdout(), colorEnabled, rendererOptions...),
	}, nil
}

func (dependencies CommandDependencies) buildGitExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	commandRunner := dependencies.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	executorOptions := []execshell.ShellExecutorOption{}
	if dependencies.HumanReadableLoggingProvider != nil && dependencies.HumanReadableLoggingProvider() {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}
	return execshell.NewShellExecutor(logger, commandRunner, executorOptions...)
}

func (dependencies CommandDependencies) buildCatalog(configuration FleetConfiguration) (catalog.Catalog, error) {
	environmentProvider := dependencies.EnvironmentProvider
	if environmentProvider == nil {
		environmentProvider = catalog.ResolveEnvironment
	}
	environment, environmentError := environmentProvider()
	if environmentError != nil {
		return catalog.Catalog{}, fmt.Errorf(environmentErrorTemplateConstant, environmentError)
	}

	baseDirectory, baseDirectoryError := dependencies.resolveBaseDirectory(configuration.BaseDirectory)
	if baseDirectoryError != nil {
		return catalog.Catalog{}, fmt.Errorf(baseDirectoryErrorTemplateConstant, baseDirectoryError)
	}

	catalogProvider := dependencies.CatalogProvider
	if catalogProvider == nil {
		catalogProvider = catalog.DefaultDeclarations
	}
	fleetCatalog, catalogError := catalog.New(baseDirectory, catalogProvider(environment))
	if catalogError != nil {
		return catalog.Catalog{}, fmt.Errorf(catalogErrorTemplateConstant, catalogError)
	}
	return fleetCatalog, nil
}

// resolveBaseDirectory prefers the configured directory, then REPOS_BASE, then ~/repos.
func (dependencies CommandDependencies) resolveBaseDirectory(configuredDirectory string) (string, error) {
	expander := dependencies.pathExpander()
	for _, candidate := range []string{configuredDirectory, reposBaseEnvironmentReferenceConstant} {
		if len(candidate) == 0 {
			continue
		}
		expandedCandidate, expandError := expander.Expand(candidate)
		if expandError != nil {
			return "", expandError
		}
		if len(expandedCandidate) > 0 {
			return expander.ExpandAbsolute(expandedCandidate)
		}
	}
	return expander.ExpandAbsolute(defaultBaseDirectoryConstant)
}

// report renders a completed run. An internal error is returned unrendered
// because the run was abandoned part way.
func (session fleetSession) report(report fleet.RunReport, runError error) error {
	if runError != nil {
		return runError
	}
	if renderError := session.renderer.Render(report); renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, renderError)
	}
	if failedCount := report.FailureCount(); failedCount > 0 {
		return RepositoriesFailedError{Failed: failedCount, Total: len(report.Results)}
	}
	return nil
}

func bindVerboseFlag(command *cobra.Command, usage string) {
	command.Flags().BoolP(verboseFlagNameConstant, verboseFlagShorthandConstant, false, usage)
}

func verboseRequested(command *cobra.Command) bool {
	verbose, flagError := command.Flags().GetBool(verboseFlagNameConstant)
	return flagError == nil && verbose
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
