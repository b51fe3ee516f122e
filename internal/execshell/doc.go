// Package execshell runs external tools on behalf of wgit.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// notifications, turning non-zero exit codes into CommandFailedError values
// that keep the captured output so callers can treat documented exit codes
// (such as git grep's exit status 1) as non-failures.
package execshell
