package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands with fully captured output.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command, buffering stdout and stderr.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := buildExecutable(executionContext, command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	return finishExecution(executable.Run(), &standardOutputBuffer, &standardErrorBuffer)
}

// TeeCommandRunner executes commands while echoing their output to the
// terminal in real time, capturing the same bytes for the caller.
type TeeCommandRunner struct {
	standardOutputSink io.Writer
	standardErrorSink  io.Writer
}

// NewTeeCommandRunner constructs a runner that mirrors child output to the
// provided sinks. Nil sinks default to the process standard streams.
func NewTeeCommandRunner(standardOutputSink io.Writer, standardErrorSink io.Writer) *TeeCommandRunner {
	if standardOutputSink == nil {
		standardOutputSink = os.Stdout
	}
	if standardErrorSink == nil {
		standardErrorSink = os.Stderr
	}
	return &TeeCommandRunner{standardOutputSink: standardOutputSink, standardErrorSink: standardErrorSink}
}

// Run executes the supplied command, interleaving output with capture.
func (runner *TeeCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := buildExecutable(executionContext, command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = io.MultiWriter(runner.standardOutputSink, &standardOutputBuffer)
	executable.Stderr = io.MultiWriter(runner.standardErrorSink, &standardErrorBuffer)

	return finishExecution(executable.Run(), &standardOutputBuffer, &standardErrorBuffer)
}

func buildExecutable(executionContext context.Context, command ShellCommand) *exec.Cmd {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	return executable
}

func finishExecution(runError error, standardOutputBuffer *bytes.Buffer, standardErrorBuffer *bytes.Buffer) (ExecutionResult, error) {
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}
