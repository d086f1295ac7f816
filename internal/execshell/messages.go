package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	commandArgumentsJoinSeparatorConstant   = " "
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	gitConfigurationOptionConstant          = "-c"
	gitFlagPrefixConstant                   = "-"
)

const (
	gitCloneSubcommandNameConstant   = "clone"
	gitFetchSubcommandNameConstant   = "fetch"
	gitStatusSubcommandNameConstant  = "status"
	gitRevListSubcommandNameConstant = "rev-list"
	gitDiffSubcommandNameConstant    = "diff"
	gitRebaseSubcommandNameConstant  = "rebase"
)

// gitMessageTemplates holds the lifecycle templates of a git subcommand. Each
// template receives the subject of the command first (the working directory, or
// the remote URL for clone).
type gitMessageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var gitSubcommandMessageTemplates = map[string]gitMessageTemplates{
	gitCloneSubcommandNameConstant: {
		start:            "Cloning %s into %s",
		success:          "Cloned %s into %s",
		failure:          "Failed to clone %s into %s (exit code %d%s)",
		executionFailure: "Unable to clone %s into %s: %s",
	},
	gitFetchSubcommandNameConstant: {
		start:            "Fetching remotes in %s",
		success:          "Fetched remotes in %s",
		failure:          "Failed to fetch remotes in %s (exit code %d%s)",
		executionFailure: "Unable to fetch remotes in %s: %s",
	},
	gitStatusSubcommandNameConstant: {
		start:            "Reviewing working tree status in %s",
		success:          "Collected working tree status for %s",
		failure:          "Failed to review working tree status in %s (exit code %d%s)",
		executionFailure: "Unable to review working tree status in %s: %s",
	},
	gitRevListSubcommandNameConstant: {
		start:            "Comparing %s with its upstream",
		success:          "Compared %s with its upstream",
		failure:          "Failed to compare %s with its upstream (exit code %d%s)",
		executionFailure: "Unable to compare %s with its upstream: %s",
	},
	gitDiffSubcommandNameConstant: {
		start:            "Collecting diff in %s",
		success:          "Collected diff in %s",
		failure:          "Failed to collect diff in %s (exit code %d%s)",
		executionFailure: "Unable to collect diff in %s: %s",
	},
	gitRebaseSubcommandNameConstant: {
		start:            "Rebasing %s onto its upstream",
		success:          "Rebased %s onto its upstream",
		failure:          "Failed to rebase %s onto its upstream (exit code %d%s)",
		executionFailure: "Unable to rebase %s onto its upstream: %s",
	},
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommandIndex := locateGitSubcommand(command.Details.Arguments)
	if subcommandIndex < 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	subcommand := command.Details.Arguments[subcommandIndex]
	templates, known := gitSubcommandMessageTemplates[subcommand]
	if !known {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subjects := []any{formatter.describeWorkingDirectory(command)}
	if subcommand == gitCloneSubcommandNameConstant {
		subjects = []any{formatter.ensureValue(extractFirstNonFlagArgument(command.Details.Arguments[subcommandIndex+1:])), formatter.describeWorkingDirectory(command)}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(subjects, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, append(subjects, formatter.describeFailure(failure))...)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return ""
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf(commandLabelTemplateConstant, commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

// locateGitSubcommand skips global options such as "-c key=value" and "-P".
func locateGitSubcommand(arguments []string) int {
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		trimmedArgument := strings.TrimSpace(arguments[argumentIndex])
		if trimmedArgument == gitConfigurationOptionConstant {
			argumentIndex++
			continue
		}
		if strings.HasPrefix(trimmedArgument, gitFlagPrefixConstant) {
			continue
		}
		return argumentIndex
	}
	return -1
}

func extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, gitFlagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return ""
}
