package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	commandNameGitStringConstant              = "git"
	commandNameGitHubCLIStringConstant        = "gh"
	commandLabelJoinSeparatorConstant         = " "
	commandFailedTemplateConstant             = "%s failed with exit code %d%s"
	commandStartFailureTemplateConstant       = "%s failed to start: %s"
	standardErrorSuffixTemplateConstant       = ": %s"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	emptyStringConstant                       = ""
)

// CommandName identifies a supported external executable.
type CommandName string

// Supported executable enumerations.
const (
	CommandGit       CommandName = CommandName(commandNameGitStringConstant)
	CommandGitHubCLI CommandName = CommandName(commandNameGitHubCLIStringConstant)
)

// CommandDetails describes a tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors reported during executor construction.
var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError indicates an external command exited with a non-zero status.
type CommandFailedError struct {
	Command        ShellCommand
	ExitCode       int
	StandardOutput string
	StandardError  string
}

// Error describes the command failure including captured standard error output.
func (failedError CommandFailedError) Error() string {
	return fmt.Sprintf(
		commandFailedTemplateConstant,
		failedError.Command.Label(),
		failedError.ExitCode,
		formatStandardErrorSuffix(failedError.StandardError),
	)
}

// CommandStartError indicates a command could not be started at all.
type CommandStartError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the start failure.
func (startError CommandStartError) Error() string {
	return fmt.Sprintf(commandStartFailureTemplateConstant, startError.Command.Label(), startError.Cause)
}

// Unwrap exposes the underlying cause.
func (startError CommandStartError) Unwrap() error {
	return startError.Cause
}

// Label renders the command as the executable name followed by its arguments.
func (command ShellCommand) Label() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelJoinSeparatorConstant)
}

func formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
