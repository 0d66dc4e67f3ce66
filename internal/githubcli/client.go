package githubcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/forksync/internal/execshell"
)

const (
	repoSubcommandConstant               = "repo"
	cloneSubcommandConstant              = "clone"
	forkSubcommandConstant               = "fork"
	pullRequestSubcommandConstant        = "pr"
	createSubcommandConstant             = "create"
	argumentSeparatorConstant            = "--"
	cloneDepthArgumentConstant           = "--depth=1"
	forkRemoteDisabledArgumentConstant   = "--remote=False"
	repoFlagConstant                     = "--repo"
	titleFlagConstant                    = "--title"
	baseFlagConstant                     = "--base"
	headFlagConstant                     = "--head"
	bodyFileFlagConstant                 = "--body-file"
	headReferenceTemplateConstant        = "%s:%s"
	remoteURIFieldNameConstant           = "remote_uri"
	workingDirectoryFieldNameConstant    = "working_directory"
	upstreamRepositoryFieldNameConstant  = "upstream_repository"
	branchNameFieldNameConstant          = "branch_name"
	bodyFilePathFieldNameConstant        = "body_file_path"
	requiredValueMessageConstant         = "value required"
	executorNotConfiguredMessageConstant = "github cli executor not configured"
	invalidInputErrorTemplateConstant    = "%s: %s"
	operationErrorTemplateConstant       = "%s operation failed: %s"
	cloneOperationNameConstant           = OperationName("CloneRepository")
	ensureForkOperationNameConstant      = OperationName("EnsureFork")
	createPullRequestOperationName       = OperationName("CreatePullRequest")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestDetails configures CreatePullRequest invocations. The body file
// is passed to gh verbatim, so it must exist until the command returns.
type PullRequestDetails struct {
	UpstreamRepository string
	Title              string
	BaseBranch         string
	HeadOwner          string
	BranchName         string
	BodyFilePath       string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails, progressLabel string) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// CloneRepository shallow-clones the remote into the working directory using
// gh repo clone with a depth of one.
func (client *Client) CloneRepository(executionContext context.Context, remoteURI string, workingDirectory string, progressLabel string) error {
	trimmedRemoteURI := strings.TrimSpace(remoteURI)
	if len(trimmedRemoteURI) == 0 {
		return InvalidInputError{FieldName: remoteURIFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedWorkingDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return InvalidInputError{FieldName: workingDirectoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			cloneSubcommandConstant,
			trimmedRemoteURI,
			argumentSeparatorConstant,
			cloneDepthArgumentConstant,
		},
		WorkingDirectory: trimmedWorkingDirectory,
	}

	if _, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails, progressLabel); executionError != nil {
		return OperationError{Operation: cloneOperationNameConstant, Cause: executionError}
	}
	return nil
}

// EnsureFork creates a fork of the repository checked out in the working
// directory. gh treats forking an already forked repository as a success, so
// the operation is idempotent.
func (client *Client) EnsureFork(executionContext context.Context, workingDirectory string, progressLabel string) error {
	trimmedWorkingDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return InvalidInputError{FieldName: workingDirectoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			forkSubcommandConstant,
			forkRemoteDisabledArgumentConstant,
		},
		WorkingDirectory: trimmedWorkingDirectory,
	}

	if _, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails, progressLabel); executionError != nil {
		return OperationError{Operation: ensureForkOperationNameConstant, Cause: executionError}
	}
	return nil
}

// CreatePullRequest opens a pull request against the upstream repository
// from the fork owner's branch, using the body file as the PR description.
func (client *Client) CreatePullRequest(executionContext context.Context, workingDirectory string, details PullRequestDetails, progressLabel string) error {
	trimmedWorkingDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return InvalidInputError{FieldName: workingDirectoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(details.UpstreamRepository)) == 0 {
		return InvalidInputError{FieldName: upstreamRepositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(details.BranchName)) == 0 {
		return InvalidInputError{FieldName: branchNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(details.BodyFilePath)) == 0 {
		return InvalidInputError{FieldName: bodyFilePathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	headReference := fmt.Sprintf(headReferenceTemplateConstant, details.HeadOwner, details.BranchName)
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			createSubcommandConstant,
			repoFlagConstant,
			details.UpstreamRepository,
			titleFlagConstant,
			details.Title,
			baseFlagConstant,
			details.BaseBranch,
			headFlagConstant,
			headReference,
			bodyFileFlagConstant,
			details.BodyFilePath,
		},
		WorkingDirectory: trimmedWorkingDirectory,
	}

	if _, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails, progressLabel); executionError != nil {
		return OperationError{Operation: createPullRequestOperationName, Cause: executionError}
	}
	return nil
}
