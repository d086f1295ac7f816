package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repofleet/cmd/cli"
	"github.com/temirov/repofleet/cmd/cli/repos"
	"github.com/temirov/repofleet/internal/catalog"
	"github.com/temirov/repofleet/internal/execshell"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationTemplateConstant = "common:\n  log_level: error\nfleet:\n  base_directory: %s\n  color: never\n"
	testFetchArgumentsConstant        = "fetch --prune -q"
	testRebaseArgumentsConstant       = "rebase -v"
)

type recordingCommandRunner struct {
	mutex    sync.Mutex
	failures map[string]execshell.ExecutionResult
	commands []string
}

func newRecordingCommandRunner() *recordingCommandRunner {
	return &recordingCommandRunner{failures: map[string]execshell.ExecutionResult{}}
}

func (runner *recordingCommandRunner) fail(workingDirectory string, arguments string, result execshell.ExecutionResult) {
	runner.failures[workingDirectory+"|"+arguments] = result
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	joinedArguments := strings.Join(command.Details.Arguments, " ")
	runner.commands = append(runner.commands, command.Details.WorkingDirectory+"|"+joinedArguments)
	if result, found := runner.failures[command.Details.WorkingDirectory+"|"+joinedArguments]; found {
		return result, nil
	}
	if strings.HasPrefix(joinedArguments, "rev-list") {
		return execshell.ExecutionResult{StandardOutput: "0\n"}, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (runner *recordingCommandRunner) recorded() []string {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]string(nil), runner.commands...)
}

type applicationFixture struct {
	application   *cli.Application
	runner        *recordingCommandRunner
	baseDirectory string
	homeDirectory string
	output        *bytes.Buffer
	errorOutput   *bytes.Buffer
}

func newApplicationFixture(testInstance *testing.T, repositoryNames ...string) applicationFixture {
	testInstance.Helper()
	baseDirectory := testInstance.TempDir()
	homeDirectory := testInstance.TempDir()
	configurationDirectory := testInstance.TempDir()

	configurationContent := fmt.Sprintf(testConfigurationTemplateConstant, baseDirectory)
	require.NoError(testInstance, os.WriteFile(filepath.Join(configurationDirectory, testConfigurationFileNameConstant), []byte(configurationContent), 0o600))

	for _, repositoryName := range repositoryNames {
		repository, initError := git.PlainInit(filepath.Join(baseDirectory, "github", repositoryName), false)
		require.NoError(testInstance, initError)
		headReference := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("master"))
		require.NoError(testInstance, repository.Storer.SetReference(headReference))
	}

	runner := newRecordingCommandRunner()
	dependencies := repos.CommandDependencies{
		CommandRunner: runner,
		EnvironmentProvider: func() (catalog.Environment, error) {
			return catalog.Environment{
				HomeDirectory:       homeDirectory,
				ConfigHomeDirectory: filepath.Join(homeDirectory, ".config"),
				DataHomeDirectory:   filepath.Join(homeDirectory, ".local", "share"),
			}, nil
		},
		CatalogProvider: func(environment catalog.Environment) []catalog.Entry {
			return []catalog.Entry{
				catalog.NewEntry("nvim"),
				catalog.NewEntry("vim", catalog.WithLinks(catalog.Link{Source: "vimrc", Destination: filepath.Join(environment.HomeDirectory, ".vimrc")})),
			}
		},
	}

	application := cli.NewApplication(
		cli.WithConfigurationSearchPaths(configurationDirectory),
		cli.WithCommandDependencies(dependencies),
	)
	output := &bytes.Buffer{}
	errorOutput := &bytes.Buffer{}
	application.RootCommand().SetOut(output)
	application.RootCommand().SetErr(errorOutput)

	return applicationFixture{
		application:   application,
		runner:        runner,
		baseDirectory: baseDirectory,
		homeDirectory: homeDirectory,
		output:        output,
		errorOutput:   errorOutput,
	}
}

func (fixture applicationFixture) execute(arguments ...string) error {
	fixture.application.RootCommand().SetArgs(arguments)
	return fixture.application.ExecuteContext(context.Background())
}

func (fixture applicationFixture) root(name string) string {
	return filepath.Join(fixture.baseDirectory, "github", name)
}

func TestEmbeddedDefaultConfigurationMatchesDefaults(testInstance *testing.T) {
	content, contentType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", contentType)

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal(content, &configuration))
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, repos.DefaultFleetConfiguration(), configuration.Fleet)
}

func TestApplicationWithoutSubcommandRunsUpdate(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance, "nvim", "vim")

	require.NoError(testInstance, fixture.execute())

	recordedCommands := fixture.runner.recorded()
	for _, repositoryName := range []string{"nvim", "vim"} {
		require.Contains(testInstance, recordedCommands, fixture.root(repositoryName)+"|"+testFetchArgumentsConstant)
		require.Contains(testInstance, recordedCommands, fixture.root(repositoryName)+"|"+testRebaseArgumentsConstant)
	}
}

func TestApplicationReportsFailedRepositories(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance, "nvim", "vim")
	fixture.runner.fail(fixture.root("vim"), testFetchArgumentsConstant, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: unable to access remote\n"})

	executionError := fixture.execute("update")
	require.ErrorIs(testInstance, executionError, repos.ErrRepositoriesFailed)
	require.EqualError(testInstance, executionError, "1 of 2 repositories failed")
	require.Contains(testInstance, fixture.output.String(), "vim: fatal: unable to access remote")
	require.NotContains(testInstance, fixture.output.String(), "\x1b[")
}

func TestApplicationStatusReportsMissingRepository(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance, "nvim")

	executionError := fixture.execute("status")
	require.ErrorIs(testInstance, executionError, repos.ErrRepositoriesFailed)
	require.Contains(testInstance, fixture.output.String(), "vim: open repository "+fixture.root("vim")+": repository not cloned")
	require.NotContains(testInstance, fixture.output.String(), "nvim:")
}

func TestApplicationCloneFlagsOverrideConfiguration(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance, "nvim")
	destinationDirectory := filepath.Join(testInstance.TempDir(), "scratch")

	require.NoError(testInstance, fixture.execute("clone", "--protocol", "https", "--dest", destinationDirectory))

	recordedCommands := fixture.runner.recorded()
	require.Contains(testInstance, recordedCommands, destinationDirectory+"|clone -q https://github.com/kurkale6ka/nvim.git")
	require.Contains(testInstance, recordedCommands, destinationDirectory+"|clone -q https://github.com/kurkale6ka/vim.git")
	require.DirExists(testInstance, destinationDirectory)
}

func TestApplicationCloneSkipsExistingRepositories(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance, "nvim")

	require.NoError(testInstance, fixture.execute("clone", "--verbose"))
	require.Contains(testInstance, fixture.output.String(), "nvim: already cloned")
	require.Contains(testInstance, fixture.runner.recorded(), filepath.Join(fixture.baseDirectory, "github")+"|clone git@github.com:kurkale6ka/vim.git")
}

func TestApplicationLinkAndUnlink(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance, "nvim", "vim")
	linkPath := filepath.Join(fixture.homeDirectory, ".vimrc")

	require.NoError(testInstance, fixture.execute("link", "--verbose"))
	target, readError := os.Readlink(linkPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, filepath.Join(fixture.root("vim"), "vimrc"), target)
	require.Contains(testInstance, fixture.output.String(), "vim: '"+linkPath+"' -> '")

	require.NoError(testInstance, fixture.execute("unlink"))
	_, lstatError := os.Lstat(linkPath)
	require.True(testInstance, os.IsNotExist(lstatError))
}

func TestApplicationConfigurationCommand(testInstance *testing.T) {
	fixture := newApplicationFixture(testInstance)
	testInstance.Setenv("REPOFLEET_FLEET_TRUNK_BRANCHES", "trunk,develop")

	require.NoError(testInstance, fixture.execute("config", "--color", "always", "--log-format", "console"))

	var printed cli.ApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal(fixture.output.Bytes(), &printed))
	require.Equal(testInstance, "always", printed.Fleet.Color)
	require.Equal(testInstance, "console", printed.Common.LogFormat)
	require.Equal(testInstance, "error", printed.Common.LogLevel)
	require.Equal(testInstance, fixture.baseDirectory, printed.Fleet.BaseDirectory)
	require.Equal(testInstance, []string{"trunk", "develop"}, printed.Fleet.TrunkBranches)
}

func TestApplicationRejectsInvalidSettings(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{
			name:            "unknown_log_level",
			arguments:       []string{"status", "--log-level", "chatty"},
			expectedMessage: "unsupported log level",
		},
		{
			name:            "unknown_color_mode",
			arguments:       []string{"status", "--color", "sometimes"},
			expectedMessage: "unsupported value",
		},
		{
			name:            "unknown_protocol",
			arguments:       []string{"clone", "--protocol", "ftp"},
			expectedMessage: "unsupported value",
		},
		{
			name:            "unexpected_argument",
			arguments:       []string{"status", "vim"},
			expectedMessage: "unknown command",
		},
		{
			name:            "missing_configuration_file",
			arguments:       []string{"status", "--config", "/nonexistent/repofleet.yaml"},
			expectedMessage: "unable to load configuration",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			fixture := newApplicationFixture(subtest, "nvim", "vim")
			executionError := fixture.execute(testCase.arguments...)
			require.ErrorContains(subtest, executionError, testCase.expectedMessage)
			require.Empty(subtest, fixture.runner.recorded())
		})
	}
}
