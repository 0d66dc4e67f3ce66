package terminal_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/terminal"
)

const (
	testBaseFileHeaderConstant = "--- base"
	testRepoFileHeaderConstant = "+++ repo"
	testHunkHeaderPrefix       = "@@"
	testRemovedLineConstant    = "-b"
	testAddedLineConstant      = "+x"
)

func TestUnifiedDiffLinesEqualContentProducesNoLines(testInstance *testing.T) {
	identicalLines := []string{"a", "b", "c"}

	diffLines, diffError := terminal.UnifiedDiffLines(identicalLines, identicalLines)
	require.NoError(testInstance, diffError)
	require.Empty(testInstance, diffLines)
}

func TestUnifiedDiffLinesSingleLineReplacement(testInstance *testing.T) {
	baseLines := []string{"a", "b", "c"}
	repositoryLines := []string{"a", "x", "c"}

	diffLines, diffError := terminal.UnifiedDiffLines(baseLines, repositoryLines)
	require.NoError(testInstance, diffError)
	require.NotEmpty(testInstance, diffLines)

	require.Equal(testInstance, testBaseFileHeaderConstant, strings.TrimRight(diffLines[0], "\t "))
	require.Equal(testInstance, testRepoFileHeaderConstant, strings.TrimRight(diffLines[1], "\t "))
	require.True(testInstance, strings.HasPrefix(diffLines[2], testHunkHeaderPrefix))

	removedLineCount := 0
	addedLineCount := 0
	for _, diffLine := range diffLines[3:] {
		switch diffLine {
		case testRemovedLineConstant:
			removedLineCount++
		case testAddedLineConstant:
			addedLineCount++
		}
	}
	require.Equal(testInstance, 1, removedLineCount)
	require.Equal(testInstance, 1, addedLineCount)
}

func TestDiffRendererWritesEveryLine(testInstance *testing.T) {
	diffLines := []string{"--- base", "+++ repo", "@@ -1,3 +1,3 @@", " a", "-b", "+x", " c"}
	outputBuffer := &bytes.Buffer{}

	renderer := terminal.NewDiffRenderer(outputBuffer, terminal.Features{})
	renderer.Render(diffLines)

	renderedLines := strings.Split(strings.TrimRight(outputBuffer.String(), "\n"), "\n")
	require.Equal(testInstance, diffLines, renderedLines)
}
