// Package commit implements the wgit commit flow: mode selection, message collection
// (interactive, AI generated or AI enhanced), confirmation and execution, including the
// grouped auto-commit and the cherry-pick flows.
package commit
