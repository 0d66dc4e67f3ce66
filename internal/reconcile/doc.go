// Package reconcile implements the repository reconciliation workflow: it
// prepares a local working copy for every configured fork, compares tracked
// files against their bundled canonical copies, and on operator approval
// drives the branch, commit, push, and pull request sequence through git and
// the GitHub CLI. Repositories are processed strictly one at a time.
package reconcile
