package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultGlyphIntervalConstant          = 100 * time.Millisecond
	defaultMinimumVisibleDurationConstant = 500 * time.Millisecond
	labelSeparatorConstant                = ": "
	labelTrimCutsetConstant               = ".: "
	hideCursorSequenceConstant            = "\033[?25l"
	showCursorSequenceConstant            = "\033[?25h"
	eraseGlyphSequenceConstant            = "\b"
	clearLineSequenceConstant             = " \r\033[K"
	spinnerColorConstant                  = "8"
)

var spinnerGlyphs = []string{"|", "/", "-", "\\", "|", "/", "-"}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(spinnerColorConstant))

// SpinnerOptions configures a Spinner instance.
type SpinnerOptions struct {
	Label                  string
	Features               Features
	Writer                 io.Writer
	GlyphInterval          time.Duration
	MinimumVisibleDuration time.Duration
}

// Spinner displays a scoped, best-effort busy indicator while a blocking
// operation runs. When no terminal feature is enabled it degrades to a no-op
// that still records timing for minimum-duration enforcement.
type Spinner struct {
	label                  string
	features               Features
	writer                 io.Writer
	glyphInterval          time.Duration
	minimumVisibleDuration time.Duration

	screenMutex  sync.Mutex
	glyphIndex   int
	glyphVisible bool

	stopChannel chan struct{}
	waitGroup   sync.WaitGroup
	startTime   time.Time
	running     bool
}

// NewSpinner constructs a spinner honoring the supplied options. The label
// has trailing punctuation trimmed so the separator renders consistently.
func NewSpinner(options SpinnerOptions) *Spinner {
	writer := options.Writer
	if writer == nil {
		writer = os.Stdout
	}

	glyphInterval := options.GlyphInterval
	if glyphInterval <= 0 {
		glyphInterval = defaultGlyphIntervalConstant
	}

	minimumVisibleDuration := options.MinimumVisibleDuration
	if minimumVisibleDuration <= 0 {
		minimumVisibleDuration = defaultMinimumVisibleDurationConstant
	}

	return &Spinner{
		label:                  strings.TrimRight(options.Label, labelTrimCutsetConstant),
		features:               options.Features,
		writer:                 writer,
		glyphInterval:          glyphInterval,
		minimumVisibleDuration: minimumVisibleDuration,
	}
}

// Start begins the spinner animation. Without terminal features it only
// records the start time.
func (spinner *Spinner) Start() {
	spinner.startTime = time.Now()
	if !spinner.features.AnyEnabled() {
		return
	}

	label := spinner.label + labelSeparatorConstant
	if spinner.features.ColorEnabled {
		label = spinnerStyle.Render(spinner.label) + labelSeparatorConstant
	}
	fmt.Fprint(spinner.writer, label)
	fmt.Fprint(spinner.writer, hideCursorSequenceConstant)

	spinner.running = true
	spinner.stopChannel = make(chan struct{})
	spinner.waitGroup.Add(1)
	go spinner.animate()
}

// Stop halts the animation, erases the glyph, restores the cursor, and
// blocks until the minimum visible duration has elapsed since Start. It is
// safe to call when the spinner never animated.
func (spinner *Spinner) Stop() {
	if !spinner.features.AnyEnabled() {
		return
	}

	if !spinner.startTime.IsZero() {
		elapsed := time.Since(spinner.startTime)
		if elapsed < spinner.minimumVisibleDuration {
			time.Sleep(spinner.minimumVisibleDuration - elapsed)
		}
	}

	if spinner.running {
		close(spinner.stopChannel)
		spinner.waitGroup.Wait()
		spinner.running = false
	}

	spinner.removeGlyph(true)
	fmt.Fprint(spinner.writer, showCursorSequenceConstant)
}

func (spinner *Spinner) animate() {
	defer spinner.waitGroup.Done()
	for {
		spinner.writeNextGlyph()
		select {
		case <-spinner.stopChannel:
			return
		case <-time.After(spinner.glyphInterval):
		}
		spinner.removeGlyph(false)
	}
}

func (spinner *Spinner) writeNextGlyph() {
	spinner.screenMutex.Lock()
	defer spinner.screenMutex.Unlock()

	if spinner.glyphVisible {
		return
	}

	glyph := spinnerGlyphs[spinner.glyphIndex%len(spinnerGlyphs)]
	spinner.glyphIndex++
	if spinner.features.ColorEnabled {
		glyph = spinnerStyle.Render(glyph)
	}
	fmt.Fprint(spinner.writer, glyph)
	spinner.glyphVisible = true
}

func (spinner *Spinner) removeGlyph(cleanup bool) {
	spinner.screenMutex.Lock()
	defer spinner.screenMutex.Unlock()

	if spinner.glyphVisible {
		fmt.Fprint(spinner.writer, eraseGlyphSequenceConstant)
		spinner.glyphVisible = false
	}
	if cleanup {
		fmt.Fprint(spinner.writer, clearLineSequenceConstant)
	}
}
