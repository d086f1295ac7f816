package fleet_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repofleet/internal/execshell"
	"github.com/temirov/repofleet/internal/fleet"
	"github.com/temirov/repofleet/internal/repos/filesystem"
)

const (
	testUserConstant            = "kurkale6ka"
	commandKeySeparatorConstant = "|"
)

type scriptedResponse struct {
	result execshell.ExecutionResult
	err    error
}

// scriptedCommandRunner answers git invocations keyed by "<working directory>|<arguments>".
// Unscripted commands succeed with empty output, except rev-list which reports no divergence.
type scriptedCommandRunner struct {
	mutex             sync.Mutex
	responses         map[string]scriptedResponse
	recordedCommands  []execshell.ShellCommand
	delay             time.Duration
	activeCommands    atomic.Int32
	maximumConcurrent atomic.Int32
}

func newScriptedCommandRunner() *scriptedCommandRunner {
	return &scriptedCommandRunner{responses: map[string]scriptedResponse{}}
}

func commandKey(workingDirectory string, arguments ...string) string {
	return workingDirectory + commandKeySeparatorConstant + strings.Join(arguments, " ")
}

func (runner *scriptedCommandRunner) respond(workingDirectory string, response scriptedResponse, arguments ...string) {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	runner.responses[commandKey(workingDirectory, arguments...)] = response
}

func (runner *scriptedCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	activeCount := runner.activeCommands.Add(1)
	defer runner.activeCommands.Add(-1)
	for {
		observedMaximum := runner.maximumConcurrent.Load()
		if activeCount <= observedMaximum || runner.maximumConcurrent.CompareAndSwap(observedMaximum, activeCount) {
			break
		}
	}
	if runner.delay > 0 {
		select {
		case <-time.After(runner.delay):
		case <-executionContext.Done():
			return execshell.ExecutionResult{}, executionContext.Err()
		}
	}

	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	runner.recordedCommands = append(runner.recordedCommands, command)
	if response, found := runner.responses[commandKey(command.Details.WorkingDirectory, command.Details.Arguments...)]; found {
		return response.result, response.err
	}
	if len(command.Details.Arguments) > 0 && command.Details.Arguments[0] == "rev-list" {
		return execshell.ExecutionResult{StandardOutput: "0\n"}, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (runner *scriptedCommandRunner) commandsIn(workingDirectory string) []string {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	commands := []string{}
	for _, command := range runner.recordedCommands {
		if command.Details.WorkingDirectory == workingDirectory {
			commands = append(commands, strings.Join(command.Details.Arguments, " "))
		}
	}
	return commands
}

func (runner *scriptedCommandRunner) recorded() []execshell.ShellCommand {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]execshell.ShellCommand(nil), runner.recordedCommands...)
}

func newHandleDependencies(testInstance *testing.T, runner execshell.CommandRunner) fleet.HandleDependencies {
	testInstance.Helper()
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, executorError)
	return fleet.HandleDependencies{
		Logger:      zap.NewNop(),
		GitExecutor: executor,
		FileSystem:  filesystem.OSFileSystem{},
	}
}

func defaultHandleSettings() fleet.HandleSettings {
	return fleet.HandleSettings{User: testUserConstant, TrunkBranches: []string{"main", "master"}}
}

// initRepository creates an empty repository at root whose HEAD names branch.
func initRepository(testInstance *testing.T, root string, branch string) *git.Repository {
	testInstance.Helper()
	repository, initError := git.PlainInit(root, false)
	require.NoError(testInstance, initError)
	headReference := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	require.NoError(testInstance, repository.Storer.SetReference(headReference))
	return repository
}

func repositoryRoot(baseDirectory string, name string) string {
	return filepath.Join(baseDirectory, "github", name)
}
