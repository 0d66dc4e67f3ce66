// Package gitrepo issues the git subcommands the reconciliation workflow
// needs: hard resets against the upstream default branch and the tracking
// branch, stage, commit, and push steps of an accepted update.
package gitrepo
