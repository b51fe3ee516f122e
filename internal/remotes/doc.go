// Package remotes manages remotes and moves commits to and from them.
//
// Push sets the upstream on first push of a branch. Pull rebases when asked
// and lists conflicted files when git stops.
package remotes
