// Package config resolves the wgit tool configuration from w-git.config files layered over built-in defaults.
package config
