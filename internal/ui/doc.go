// Package ui renders wgit's human-facing output: git lifecycle lines,
// coloured status and result messages, and tables of commits, branches,
// remotes, worktrees and submodules.
//
// Colour is decided once by the caller and passed in through Palette, so the
// rendering code never inspects the terminal itself.
package ui
