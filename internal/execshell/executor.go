package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	commandDebugMessageConstant       = "running command"
	logFieldCommandConstant           = "command"
	logFieldWorkingDirectoryConstant  = "working_directory"
	teeModeVerbosityThresholdConstant = 3
)

// ProgressIndicator represents a scoped busy indicator shown while a
// captured-output command runs. Stop must be safe on every exit path.
type ProgressIndicator interface {
	Start()
	Stop()
}

// ProgressIndicatorFactory builds an indicator for the supplied label.
type ProgressIndicatorFactory func(label string) ProgressIndicator

type noopProgressIndicator struct{}

func (noopProgressIndicator) Start() {}
func (noopProgressIndicator) Stop()  {}

// ShellExecutor coordinates external command execution, choosing between
// captured output behind a progress indicator and verbose tee echoing based
// on the configured verbosity count.
type ShellExecutor struct {
	logger          *zap.Logger
	capturedRunner  CommandRunner
	teeRunner       CommandRunner
	verbosity       int
	progressFactory ProgressIndicatorFactory
}

// NewShellExecutor constructs an executor around the provided runners. The
// tee runner and progress factory are optional; the captured runner and the
// logger are required.
func NewShellExecutor(logger *zap.Logger, capturedRunner CommandRunner, teeRunner CommandRunner, verbosity int, progressFactory ProgressIndicatorFactory) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if capturedRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if teeRunner == nil {
		teeRunner = capturedRunner
	}
	if progressFactory == nil {
		progressFactory = func(string) ProgressIndicator { return noopProgressIndicator{} }
	}

	return &ShellExecutor{
		logger:          logger,
		capturedRunner:  capturedRunner,
		teeRunner:       teeRunner,
		verbosity:       verbosity,
		progressFactory: progressFactory,
	}, nil
}

// Execute runs the command synchronously, surfacing non-zero exits as
// CommandFailedError regardless of the selected observability mode.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand, progressLabel string) (ExecutionResult, error) {
	executor.logger.Debug(
		commandDebugMessageConstant,
		zap.String(logFieldCommandConstant, command.Label()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, executionError := executor.runWithObservability(executionContext, command, progressLabel)
	if executionError != nil {
		return ExecutionResult{}, CommandStartError{Command: command, Cause: executionError}
	}

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{
			Command:        command,
			ExitCode:       executionResult.ExitCode,
			StandardOutput: executionResult.StandardOutput,
			StandardError:  executionResult.StandardError,
		}
	}

	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails, progressLabel string) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details}, progressLabel)
}

// ExecuteGitHubCLI runs the GitHub CLI with the provided details.
func (executor *ShellExecutor) ExecuteGitHubCLI(executionContext context.Context, details CommandDetails, progressLabel string) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitHubCLI, Details: details}, progressLabel)
}

func (executor *ShellExecutor) runWithObservability(executionContext context.Context, command ShellCommand, progressLabel string) (ExecutionResult, error) {
	if executor.verbosity >= teeModeVerbosityThresholdConstant {
		return executor.teeRunner.Run(executionContext, command)
	}

	progressIndicator := executor.progressFactory(progressLabel)
	progressIndicator.Start()
	defer progressIndicator.Stop()

	return executor.capturedRunner.Run(executionContext, command)
}
