// Package utils holds the process-level plumbing shared by the wgit entrypoint:
// the Viper settings loader, the zap logger factory and the accessor for
// configuration origins carried on command contexts. Subpackages provide flag
// helpers (flags) and home-directory path expansion (path).
package utils
