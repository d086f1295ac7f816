package execshell

// CommandEventObserver receives lifecycle notifications for every git invocation.
// Implementations must be safe for concurrent use because fleet operations run
// commands for several repositories at once.
type CommandEventObserver interface {
	// CommandStarted is called before the process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the process exits, regardless of its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an exit code from being observed.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
