package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/forksync/internal/execshell"
)

const (
	resetSubcommandConstant              = "reset"
	resetHardFlagConstant                = "--hard"
	checkoutSubcommandConstant           = "checkout"
	checkoutTrackFlagConstant            = "-t"
	checkoutNewBranchFlagConstant        = "-b"
	addSubcommandConstant                = "add"
	commitSubcommandConstant             = "commit"
	commitMessageFileFlagConstant        = "--file"
	pushSubcommandConstant               = "push"
	originRemoteNameConstant             = "origin"
	upstreamRemoteReferenceTemplate      = "upstream/%s"
	executorNotConfiguredMessageConstant = "git executor not configured"
	workingDirectoryRequiredMessage      = "working directory must be provided"
)

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails, progressLabel string) (execshell.ExecutionResult, error)
}

// Steps wraps the git subcommands used by the reconciliation workflow.
type Steps struct {
	executor GitCommandExecutor
}

// Sentinel errors reported during construction and validation.
var (
	// ErrExecutorNotConfigured indicates Steps was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrWorkingDirectoryRequired indicates an operation was attempted without a working directory.
	ErrWorkingDirectoryRequired = errors.New(workingDirectoryRequiredMessage)
)

// NewSteps constructs git step wrappers around the provided executor.
func NewSteps(executor GitCommandExecutor) (*Steps, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Steps{executor: executor}, nil
}

// ResetHardToUpstream discards any local state by hard-resetting the working
// directory to the upstream remote's branch.
func (steps *Steps) ResetHardToUpstream(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error {
	upstreamReference := fmt.Sprintf(upstreamRemoteReferenceTemplate, branchName)
	return steps.execute(executionContext, workingDirectory, progressLabel, resetSubcommandConstant, resetHardFlagConstant, upstreamReference)
}

// CreateTrackingBranch creates and checks out a new tracking branch.
func (steps *Steps) CreateTrackingBranch(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error {
	return steps.execute(executionContext, workingDirectory, progressLabel, checkoutSubcommandConstant, checkoutTrackFlagConstant, checkoutNewBranchFlagConstant, branchName)
}

// StageFile stages the named file for the next commit.
func (steps *Steps) StageFile(executionContext context.Context, workingDirectory string, fileName string, progressLabel string) error {
	return steps.execute(executionContext, workingDirectory, progressLabel, addSubcommandConstant, fileName)
}

// CommitWithMessageFile commits staged changes using the message file verbatim.
func (steps *Steps) CommitWithMessageFile(executionContext context.Context, workingDirectory string, messageFilePath string, progressLabel string) error {
	return steps.execute(executionContext, workingDirectory, progressLabel, commitSubcommandConstant, commitMessageFileFlagConstant, messageFilePath)
}

// PushBranch pushes the branch to the origin remote.
func (steps *Steps) PushBranch(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error {
	return steps.execute(executionContext, workingDirectory, progressLabel, pushSubcommandConstant, originRemoteNameConstant, branchName)
}

func (steps *Steps) execute(executionContext context.Context, workingDirectory string, progressLabel string, arguments ...string) error {
	trimmedWorkingDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return ErrWorkingDirectoryRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedWorkingDirectory,
	}

	_, executionError := steps.executor.ExecuteGit(executionContext, commandDetails, progressLabel)
	return executionError
}
