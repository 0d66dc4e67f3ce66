package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	unifiedDiffContextLineCountConstant = 5
	unifiedDiffFromFileLabelConstant    = "base"
	unifiedDiffToFileLabelConstant      = "repo"
	removedFileHeaderPrefixConstant     = "---"
	addedFileHeaderPrefixConstant       = "+++"
	hunkHeaderPrefixConstant            = "@@"
	deletionPrefixConstant              = "-"
	additionPrefixConstant              = "+"
	removedFileHeaderColorConstant      = "13"
	addedFileHeaderColorConstant        = "14"
	hunkHeaderColorConstant             = "11"
	deletionColorConstant               = "9"
	additionColorConstant               = "10"
	contextColorConstant                = "8"
)

var (
	removedFileHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(removedFileHeaderColorConstant))
	addedFileHeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(addedFileHeaderColorConstant))
	hunkHeaderStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color(hunkHeaderColorConstant))
	deletionStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color(deletionColorConstant))
	additionStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color(additionColorConstant))
	contextStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color(contextColorConstant))
)

// UnifiedDiffLines computes the unified diff between the base and repository
// line sequences using a five line context window, in file order.
func UnifiedDiffLines(baseLines []string, repositoryLines []string) ([]string, error) {
	unifiedDiff := difflib.UnifiedDiff{
		A:        appendNewlines(baseLines),
		B:        appendNewlines(repositoryLines),
		FromFile: unifiedDiffFromFileLabelConstant,
		ToFile:   unifiedDiffToFileLabelConstant,
		Context:  unifiedDiffContextLineCountConstant,
	}

	diffText, diffError := difflib.GetUnifiedDiffString(unifiedDiff)
	if diffError != nil {
		return nil, diffError
	}
	if len(diffText) == 0 {
		return nil, nil
	}

	return strings.Split(strings.TrimRight(diffText, "\n"), "\n"), nil
}

// DiffRenderer writes unified diff lines to the terminal with per-line
// coloring chosen by prefix classification.
type DiffRenderer struct {
	writer   io.Writer
	features Features
}

// NewDiffRenderer constructs a renderer targeting the provided writer; a nil
// writer defaults to standard output.
func NewDiffRenderer(writer io.Writer, features Features) *DiffRenderer {
	if writer == nil {
		writer = os.Stdout
	}
	return &DiffRenderer{writer: writer, features: features}
}

// Render consumes the diff lines in a single forward pass, writing each with
// its classified color.
func (renderer *DiffRenderer) Render(diffLines []string) {
	for _, diffLine := range diffLines {
		renderedLine := diffLine
		if renderer.features.ColorEnabled {
			renderedLine = classifyLineStyle(diffLine).Render(diffLine)
		}
		fmt.Fprintln(renderer.writer, renderedLine)
	}
}

func classifyLineStyle(diffLine string) lipgloss.Style {
	switch {
	case strings.HasPrefix(diffLine, removedFileHeaderPrefixConstant):
		return removedFileHeaderStyle
	case strings.HasPrefix(diffLine, addedFileHeaderPrefixConstant):
		return addedFileHeaderStyle
	case strings.HasPrefix(diffLine, hunkHeaderPrefixConstant):
		return hunkHeaderStyle
	case strings.HasPrefix(diffLine, deletionPrefixConstant):
		return deletionStyle
	case strings.HasPrefix(diffLine, additionPrefixConstant):
		return additionStyle
	default:
		return contextStyle
	}
}

func appendNewlines(lines []string) []string {
	terminatedLines := make([]string, len(lines))
	for lineIndex, line := range lines {
		terminatedLines[lineIndex] = line + "\n"
	}
	return terminatedLines
}
