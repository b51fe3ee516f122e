// Package commitmsg holds the conventional commit vocabulary used by wgit
// and assembles commit messages from their parts.
package commitmsg
