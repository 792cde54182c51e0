// Package git implements the VCS port by running the git binary.
//
// Each method maps to one or two git commands run with -C against the
// project directory. Failures surface as *CommandError carrying the exit
// code and stderr, so callers can tell a missing ref from a broken
// repository.
package git
