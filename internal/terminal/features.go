package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	noColorEnvironmentVariableNameConstant = "NO_COLOR"
)

// Features describes the terminal capabilities the current session may use.
type Features struct {
	ColorEnabled bool
	LinksEnabled bool
}

// AnyEnabled reports whether at least one terminal feature is available.
func (features Features) AnyEnabled() bool {
	return features.ColorEnabled || features.LinksEnabled
}

// DetectFeatures derives terminal capabilities from the no-ansi flag, the
// NO_COLOR environment variable, and whether standard output is a terminal.
// NO_COLOR disables color regardless of flags.
func DetectFeatures(noANSIRequested bool) Features {
	standardOutputIsTerminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !standardOutputIsTerminal {
		return Features{}
	}

	colorEnabled := !noANSIRequested
	if _, noColorRequested := os.LookupEnv(noColorEnvironmentVariableNameConstant); noColorRequested {
		colorEnabled = false
	}

	return Features{
		ColorEnabled: colorEnabled,
		LinksEnabled: !noANSIRequested,
	}
}
