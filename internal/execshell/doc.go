// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and progress reporting via ShellExecutor,
// exposes OSCommandRunner for captured process execution and TeeCommandRunner
// for interleaved terminal echoing, and defines abstractions used throughout
// forksync to run git and gh in a testable manner.
package execshell
