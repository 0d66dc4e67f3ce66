// Package prompt implements the blocking interactive surfaces of forksync:
// strict yes/no confirmation over standard input and commit message
// acquisition through an external editor session.
package prompt
