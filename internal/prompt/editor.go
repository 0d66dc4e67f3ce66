package prompt

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

const (
	editorEnvironmentVariableNameConstant = "EDITOR"
	defaultEditorCommandConstant          = "vi"
	noCommitMessageMessageConstant        = "no commit message provided"
	commitMessageFilePatternConstant      = "forksync-commit-*.txt"
)

// ErrNoCommitMessage indicates the editor session ended without the backing
// file being modified, which the workflow treats as an aborted step.
var ErrNoCommitMessage = errors.New(noCommitMessageMessageConstant)

// CommitMessage couples message content with the temporary file holding it.
// The backing file is reused verbatim as the commit and pull request body
// file, so it must outlive the editor session.
type CommitMessage struct {
	Content  string
	FilePath string
}

// ResolveEditorCommand returns the configured editor, falling back to the
// EDITOR environment variable and finally to vi.
func ResolveEditorCommand(configuredEditor string) string {
	trimmedConfiguredEditor := strings.TrimSpace(configuredEditor)
	if len(trimmedConfiguredEditor) > 0 {
		return trimmedConfiguredEditor
	}
	if environmentEditor := strings.TrimSpace(os.Getenv(editorEnvironmentVariableNameConstant)); len(environmentEditor) > 0 {
		return environmentEditor
	}
	return defaultEditorCommandConstant
}

// CommitMessageEditor solicits commit messages through an external editor.
type CommitMessageEditor struct {
	editorCommand string
}

// NewCommitMessageEditor constructs an editor wrapper for the given command.
func NewCommitMessageEditor(editorCommand string) *CommitMessageEditor {
	return &CommitMessageEditor{editorCommand: editorCommand}
}

// Compose writes the prior message to a fresh temporary file, launches the
// editor against it, and compares modification timestamps. An unchanged
// timestamp means the operator saved nothing and yields ErrNoCommitMessage.
func (editor *CommitMessageEditor) Compose(executionContext context.Context, priorMessage string) (CommitMessage, error) {
	messageFile, createError := os.CreateTemp("", commitMessageFilePatternConstant)
	if createError != nil {
		return CommitMessage{}, createError
	}
	messageFilePath := messageFile.Name()

	if _, writeError := messageFile.WriteString(priorMessage); writeError != nil {
		messageFile.Close()
		return CommitMessage{}, writeError
	}
	if closeError := messageFile.Close(); closeError != nil {
		return CommitMessage{}, closeError
	}

	initialFileInfo, initialStatError := os.Stat(messageFilePath)
	if initialStatError != nil {
		return CommitMessage{}, initialStatError
	}

	if sessionError := editor.runEditorSession(executionContext, messageFilePath); sessionError != nil {
		return CommitMessage{}, sessionError
	}

	finalFileInfo, finalStatError := os.Stat(messageFilePath)
	if finalStatError != nil {
		return CommitMessage{}, finalStatError
	}

	if finalFileInfo.ModTime().Equal(initialFileInfo.ModTime()) {
		return CommitMessage{}, ErrNoCommitMessage
	}

	messageContent, readError := os.ReadFile(messageFilePath)
	if readError != nil {
		return CommitMessage{}, readError
	}

	return CommitMessage{
		Content:  strings.TrimSpace(string(messageContent)),
		FilePath: messageFilePath,
	}, nil
}

func (editor *CommitMessageEditor) runEditorSession(executionContext context.Context, messageFilePath string) error {
	editorArguments := strings.Fields(editor.editorCommand)
	editorArguments = append(editorArguments, messageFilePath)

	editorProcess := exec.CommandContext(executionContext, editorArguments[0], editorArguments[1:]...)
	editorProcess.Stdin = os.Stdin
	editorProcess.Stdout = os.Stdout
	editorProcess.Stderr = os.Stderr

	return editorProcess.Run()
}
