// Package gitrepo turns git's plain-text output into typed records and
// exposes RepositoryManager for the read-only repository queries shared by
// wgit command handlers.
//
// Parsers are pure functions: the same input always yields the same records
// and malformed lines are dropped rather than reported.
package gitrepo
