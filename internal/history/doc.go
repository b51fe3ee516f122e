// Package history shows and rewrites commit history: log, reset, revert and rebase.
//
// Operations that discard work, such as a hard reset or a rebase, ask for
// confirmation unless the caller assumes yes. Revert and rebase list the
// conflicted files when git stops part way.
package history
