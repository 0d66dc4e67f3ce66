package prompt_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/prompt"
)

const (
	testAppendingEditorScriptConstant = "#!/bin/sh\nprintf 'chore: align tox.ini with the canonical copy\\n' >> \"$1\"\n"
	testNoOpEditorScriptConstant      = "#!/bin/sh\nexit 0\n"
	testEditorScriptFileNameConstant  = "editor.sh"
	testEditorScriptFileModeConstant  = 0o755
	testPriorMessageConstant          = ""
	testExpectedMessageConstant       = "chore: align tox.ini with the canonical copy"
)

func writeEditorScript(testInstance *testing.T, scriptContent string) string {
	scriptPath := filepath.Join(testInstance.TempDir(), testEditorScriptFileNameConstant)
	require.NoError(testInstance, os.WriteFile(scriptPath, []byte(scriptContent), testEditorScriptFileModeConstant))
	return scriptPath
}

func TestCommitMessageEditorReturnsEditedMessageAndBackingFile(testInstance *testing.T) {
	editorScriptPath := writeEditorScript(testInstance, testAppendingEditorScriptConstant)
	messageEditor := prompt.NewCommitMessageEditor(editorScriptPath)

	commitMessage, composeError := messageEditor.Compose(context.Background(), testPriorMessageConstant)
	require.NoError(testInstance, composeError)
	require.Equal(testInstance, testExpectedMessageConstant, commitMessage.Content)

	backingContent, readError := os.ReadFile(commitMessage.FilePath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(backingContent), testExpectedMessageConstant)

	require.NoError(testInstance, os.Remove(commitMessage.FilePath))
}

func TestCommitMessageEditorUnchangedFileSignalsAbort(testInstance *testing.T) {
	editorScriptPath := writeEditorScript(testInstance, testNoOpEditorScriptConstant)
	messageEditor := prompt.NewCommitMessageEditor(editorScriptPath)

	_, composeError := messageEditor.Compose(context.Background(), testPriorMessageConstant)
	require.ErrorIs(testInstance, composeError, prompt.ErrNoCommitMessage)
}

func TestResolveEditorCommandFallbacks(testInstance *testing.T) {
	testCases := []struct {
		name             string
		configuredEditor string
		environmentValue string
		expectedCommand  string
	}{
		{name: "configured_editor_wins", configuredEditor: "nano", environmentValue: "emacs", expectedCommand: "nano"},
		{name: "environment_editor_fallback", configuredEditor: "", environmentValue: "emacs", expectedCommand: "emacs"},
		{name: "default_editor", configuredEditor: "", environmentValue: "", expectedCommand: "vi"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv("EDITOR", testCase.environmentValue)
			require.Equal(testInstance, testCase.expectedCommand, prompt.ResolveEditorCommand(testCase.configuredEditor))
		})
	}
}
