// Package terminal renders interactive affordances for the forksync CLI: a
// capability probe for ANSI support, a scoped progress spinner shown while
// external commands run, and a colorized unified-diff renderer.
package terminal
