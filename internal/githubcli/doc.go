// Package githubcli wraps the GitHub CLI operations forksync depends on:
// shallow repository clones, idempotent fork creation, and pull request
// creation. Every operation funnels through execshell so command shapes stay
// reproducible and testable.
package githubcli
