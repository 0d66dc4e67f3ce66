package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/githubcli"
	"github.com/temirov/forksync/internal/prompt"
	"github.com/temirov/forksync/internal/terminal"
)

const (
	toxIniCheckNameConstant             = "tox_ini"
	toxIniFileNameConstant              = "tox.ini"
	toxIniPullRequestTitleConstant      = "chore: Update tox.ini"
	checkingMessageTemplateConstant     = "[%s] Checking %s..."
	fileCorrectMessageTemplateConstant  = "[%s] %s is correct."
	fileUpdatedMessageTemplateConstant  = "[%s] Updated %s."
	pullRequestCreatedTemplateConstant  = "[%s] PR created."
	updateAbortedMessageTemplate        = "[%s] No commit message provided, skipping update."
	updateQuestionTemplateConstant      = "Do you want to update the %s file in %s?"
	reuseMessageQuestionConstant        = "Do you want to reuse the commit message?"
	branchNameTemplateConstant          = "chore/%s_%s"
	creatingBranchLabelTemplateConstant = "[%s] Creating a new tracking branch %s..."
	stagingLabelTemplateConstant        = "[%s] Staging changes..."
	committingLabelTemplateConstant     = "[%s] Committing changes..."
	pushingLabelTemplateConstant        = "[%s] Pushing changes to origin..."
	creatingPRLabelTemplateConstant     = "[%s] Creating PR..."
	workDirUnsetMessageTemplateConstant = "repository %s has no working directory; run the clone orchestrator first"
	trackedFileReadErrorTemplate        = "failed to read %s in %s: %w"
	trackedFileWriteErrorTemplate       = "failed to overwrite %s in %s: %w"
	defaultTrackedFileModeConstant      = fs.FileMode(0o644)
	gitStepsRequiredMessageConstant     = "git steps dependency not configured"
	pullRequestsRequiredMessage         = "pull request creator not configured"
	prompterRequiredMessageConstant     = "confirmation prompter not configured"
	messageEditorRequiredMessage        = "commit message editor not configured"
	diffRendererRequiredMessageConstant = "diff renderer not configured"
	canonicalContentRequiredMessage     = "tracked file check requires canonical content"
)

// Outcome enumerates the terminal states of one repository's check.
type Outcome int

// Check outcomes. Nothing is persisted across runs.
const (
	OutcomeMatching Outcome = iota
	OutcomeDeclined
	OutcomeAborted
	OutcomeCommitted
)

// BranchSteps covers the git operations of an accepted update.
type BranchSteps interface {
	CreateTrackingBranch(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error
	StageFile(executionContext context.Context, workingDirectory string, fileName string, progressLabel string) error
	CommitWithMessageFile(executionContext context.Context, workingDirectory string, messageFilePath string, progressLabel string) error
	PushBranch(executionContext context.Context, workingDirectory string, branchName string, progressLabel string) error
}

// PullRequestCreator opens pull requests against the upstream repository.
type PullRequestCreator interface {
	CreatePullRequest(executionContext context.Context, workingDirectory string, details githubcli.PullRequestDetails, progressLabel string) error
}

// ConfirmationPrompter blocks until the operator answers a yes/no question.
type ConfirmationPrompter interface {
	AskYesNo(question string) (bool, error)
}

// CommitMessageComposer solicits a commit message from the operator.
type CommitMessageComposer interface {
	Compose(executionContext context.Context, priorMessage string) (prompt.CommitMessage, error)
}

// DiffLineRenderer writes classified diff lines to the terminal.
type DiffLineRenderer interface {
	Render(diffLines []string)
}

// CheckDependencies enumerates the collaborators a tracked-file check needs.
type CheckDependencies struct {
	Logger        *zap.Logger
	BranchSteps   BranchSteps
	PullRequests  PullRequestCreator
	Prompter      ConfirmationPrompter
	MessageEditor CommitMessageComposer
	DiffRenderer  DiffLineRenderer
}

// TrackedFileCheckDefinition names a check and binds it to the tracked file
// and the canonical content it enforces.
type TrackedFileCheckDefinition struct {
	CheckName        string
	FileName         string
	PullRequestTitle string
	CanonicalContent []byte
}

// DefaultToxIniCheckDefinition returns the bundled tox.ini check.
func DefaultToxIniCheckDefinition() TrackedFileCheckDefinition {
	return TrackedFileCheckDefinition{
		CheckName:        toxIniCheckNameConstant,
		FileName:         toxIniFileNameConstant,
		PullRequestTitle: toxIniPullRequestTitleConstant,
		CanonicalContent: CanonicalToxIniContent(),
	}
}

// TrackedFileCheck compares a tracked file against its canonical content in
// every session repository and, on operator approval, drives the branch,
// commit, push, and pull request sequence. The accepted commit message is
// cached for the remainder of the run and offered for reuse.
type TrackedFileCheck struct {
	definition    TrackedFileCheckDefinition
	dependencies  CheckDependencies
	cachedMessage prompt.CommitMessage
	messageCached bool
}

// Sentinel errors reported during check construction.
var (
	// ErrBranchStepsNotConfigured indicates the git dependency was missing.
	ErrBranchStepsNotConfigured = errors.New(gitStepsRequiredMessageConstant)
	// ErrPullRequestsNotConfigured indicates the GitHub CLI dependency was missing.
	ErrPullRequestsNotConfigured = errors.New(pullRequestsRequiredMessage)
	// ErrPrompterNotConfigured indicates the prompter dependency was missing.
	ErrPrompterNotConfigured = errors.New(prompterRequiredMessageConstant)
	// ErrMessageEditorNotConfigured indicates the editor dependency was missing.
	ErrMessageEditorNotConfigured = errors.New(messageEditorRequiredMessage)
	// ErrDiffRendererNotConfigured indicates the renderer dependency was missing.
	ErrDiffRendererNotConfigured = errors.New(diffRendererRequiredMessageConstant)
	// ErrCanonicalContentRequired indicates the definition carried no reference data.
	ErrCanonicalContentRequired = errors.New(canonicalContentRequiredMessage)
)

// NewTrackedFileCheck constructs a check from the definition and collaborators.
func NewTrackedFileCheck(definition TrackedFileCheckDefinition, dependencies CheckDependencies) (*TrackedFileCheck, error) {
	if len(definition.CanonicalContent) == 0 {
		return nil, ErrCanonicalContentRequired
	}
	if dependencies.BranchSteps == nil {
		return nil, ErrBranchStepsNotConfigured
	}
	if dependencies.PullRequests == nil {
		return nil, ErrPullRequestsNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	if dependencies.MessageEditor == nil {
		return nil, ErrMessageEditorNotConfigured
	}
	if dependencies.DiffRenderer == nil {
		return nil, ErrDiffRendererNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}

	return &TrackedFileCheck{definition: definition, dependencies: dependencies}, nil
}

// Run reconciles every session repository in list order. A failed external
// command aborts the remaining steps for that repository and propagates; no
// partially completed reconciliation is rolled back.
func (check *TrackedFileCheck) Run(executionContext context.Context, session *Session) error {
	for _, repository := range session.Repositories {
		if _, reconcileError := check.reconcileRepository(executionContext, session, repository); reconcileError != nil {
			return reconcileError
		}
	}
	return nil
}

func (check *TrackedFileCheck) reconcileRepository(executionContext context.Context, session *Session, repository *Repository) (Outcome, error) {
	if len(repository.WorkDir) == 0 {
		return OutcomeMatching, fmt.Errorf(workDirUnsetMessageTemplateConstant, repository.Name)
	}

	check.logInfo(checkingMessageTemplateConstant, repository.Name, check.definition.FileName)

	trackedFilePath := filepath.Join(repository.WorkDir, check.definition.FileName)
	repositoryContent, readError := os.ReadFile(trackedFilePath)
	if readError != nil {
		return OutcomeMatching, fmt.Errorf(trackedFileReadErrorTemplate, check.definition.FileName, repository.Name, readError)
	}

	baseLines := splitLines(string(check.definition.CanonicalContent))
	repositoryLines := splitLines(string(repositoryContent))
	if linesEqual(baseLines, repositoryLines) {
		check.logInfo(fileCorrectMessageTemplateConstant, repository.Name, check.definition.FileName)
		return OutcomeMatching, nil
	}

	diffLines, diffError := terminal.UnifiedDiffLines(baseLines, repositoryLines)
	if diffError != nil {
		return OutcomeMatching, diffError
	}
	check.dependencies.DiffRenderer.Render(diffLines)

	updateQuestion := fmt.Sprintf(updateQuestionTemplateConstant, check.definition.FileName, repository.Name)
	updateAccepted, promptError := check.dependencies.Prompter.AskYesNo(updateQuestion)
	if promptError != nil {
		return OutcomeMatching, promptError
	}
	if !updateAccepted {
		return OutcomeDeclined, nil
	}

	commitMessage, messageAvailable, messageError := check.resolveCommitMessage(executionContext)
	if messageError != nil {
		return OutcomeMatching, messageError
	}
	if !messageAvailable {
		check.logInfo(updateAbortedMessageTemplate, repository.Name)
		return OutcomeAborted, nil
	}

	if applyError := check.applyUpdate(executionContext, session, repository, commitMessage, trackedFilePath); applyError != nil {
		return OutcomeMatching, applyError
	}

	check.logInfo(pullRequestCreatedTemplateConstant, repository.Name)
	return OutcomeCommitted, nil
}

// resolveCommitMessage returns the message to commit with, soliciting a new
// one on the first accepted update of the run or whenever the operator
// declines to reuse the cached message. An editor session that saves nothing
// aborts the current repository without failing the run.
func (check *TrackedFileCheck) resolveCommitMessage(executionContext context.Context) (prompt.CommitMessage, bool, error) {
	if check.messageCached {
		reuseAccepted, reusePromptError := check.dependencies.Prompter.AskYesNo(reuseMessageQuestionConstant)
		if reusePromptError != nil {
			return prompt.CommitMessage{}, false, reusePromptError
		}
		if reuseAccepted {
			return check.cachedMessage, true, nil
		}
	}

	composedMessage, composeError := check.dependencies.MessageEditor.Compose(executionContext, check.cachedMessage.Content)
	if composeError != nil {
		if errors.Is(composeError, prompt.ErrNoCommitMessage) {
			return prompt.CommitMessage{}, false, nil
		}
		return prompt.CommitMessage{}, false, composeError
	}

	check.cachedMessage = composedMessage
	check.messageCached = true
	return composedMessage, true, nil
}

func (check *TrackedFileCheck) applyUpdate(executionContext context.Context, session *Session, repository *Repository, commitMessage prompt.CommitMessage, trackedFilePath string) error {
	branchName := fmt.Sprintf(branchNameTemplateConstant, check.definition.CheckName, session.SessionID)

	branchLabel := fmt.Sprintf(creatingBranchLabelTemplateConstant, repository.Name, branchName)
	if branchError := check.dependencies.BranchSteps.CreateTrackingBranch(executionContext, repository.WorkDir, branchName, branchLabel); branchError != nil {
		return branchError
	}

	if writeError := os.WriteFile(trackedFilePath, check.definition.CanonicalContent, trackedFileMode(trackedFilePath)); writeError != nil {
		return fmt.Errorf(trackedFileWriteErrorTemplate, check.definition.FileName, repository.Name, writeError)
	}
	check.logInfo(fileUpdatedMessageTemplateConstant, repository.Name, check.definition.FileName)

	stagingLabel := fmt.Sprintf(stagingLabelTemplateConstant, repository.Name)
	if stageError := check.dependencies.BranchSteps.StageFile(executionContext, repository.WorkDir, check.definition.FileName, stagingLabel); stageError != nil {
		return stageError
	}

	committingLabel := fmt.Sprintf(committingLabelTemplateConstant, repository.Name)
	if commitError := check.dependencies.BranchSteps.CommitWithMessageFile(executionContext, repository.WorkDir, commitMessage.FilePath, committingLabel); commitError != nil {
		return commitError
	}

	pushingLabel := fmt.Sprintf(pushingLabelTemplateConstant, repository.Name)
	if pushError := check.dependencies.BranchSteps.PushBranch(executionContext, repository.WorkDir, branchName, pushingLabel); pushError != nil {
		return pushError
	}

	pullRequestLabel := fmt.Sprintf(creatingPRLabelTemplateConstant, repository.Name)
	pullRequestDetails := githubcli.PullRequestDetails{
		UpstreamRepository: repository.Upstream,
		Title:              check.definition.PullRequestTitle,
		BaseBranch:         session.UpstreamBranch,
		HeadOwner:          repository.OriginOwner,
		BranchName:         branchName,
		BodyFilePath:       commitMessage.FilePath,
	}
	return check.dependencies.PullRequests.CreatePullRequest(executionContext, repository.WorkDir, pullRequestDetails, pullRequestLabel)
}

func (check *TrackedFileCheck) logInfo(messageTemplate string, templateArguments ...any) {
	check.dependencies.Logger.Info(fmt.Sprintf(messageTemplate, templateArguments...))
}

func trackedFileMode(trackedFilePath string) fs.FileMode {
	if fileInfo, statError := os.Stat(trackedFilePath); statError == nil {
		return fileInfo.Mode().Perm()
	}
	return defaultTrackedFileModeConstant
}

func splitLines(content string) []string {
	if len(content) == 0 {
		return nil
	}
	normalizedContent := strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(normalizedContent, "\n"), "\n")
}

func linesEqual(leftLines []string, rightLines []string) bool {
	if len(leftLines) != len(rightLines) {
		return false
	}
	for lineIndex := range leftLines {
		if leftLines[lineIndex] != rightLines[lineIndex] {
			return false
		}
	}
	return true
}
