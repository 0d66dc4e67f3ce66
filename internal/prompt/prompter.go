package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/forksync/internal/terminal"
)

const (
	yesNoQuestionTemplateConstant = "%s (y/n): "
	affirmativeAnswerConstant     = "y"
	negativeAnswerConstant        = "n"
	questionColorConstant         = "15"
)

var questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(questionColorConstant))

// IOPrompter reads confirmation responses from an io.Reader.
type IOPrompter struct {
	reader   *bufio.Reader
	writer   io.Writer
	features terminal.Features
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer, features terminal.Features) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output, features: features}
}

// AskYesNo blocks until the trimmed, lowercased response is exactly "y" or
// "n", re-asking the question on any other input. There is no retry limit.
func (prompter *IOPrompter) AskYesNo(question string) (bool, error) {
	renderedQuestion := question
	if prompter.features.ColorEnabled {
		renderedQuestion = questionStyle.Render(question)
	}

	for {
		if prompter.writer != nil {
			if _, writeError := fmt.Fprintf(prompter.writer, yesNoQuestionTemplateConstant, renderedQuestion); writeError != nil {
				return false, writeError
			}
		}

		response, readError := prompter.reader.ReadString('\n')
		if readError != nil && readError != io.EOF {
			return false, readError
		}

		switch strings.TrimSpace(strings.ToLower(response)) {
		case affirmativeAnswerConstant:
			return true, nil
		case negativeAnswerConstant:
			return false, nil
		}

		if readError == io.EOF {
			return false, io.ErrUnexpectedEOF
		}
	}
}
