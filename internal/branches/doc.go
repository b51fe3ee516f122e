// Package branches lists, creates, switches, deletes and renames local branches.
//
// Service performs each operation through git and falls back to prompts for
// any name the caller leaves empty. Protected branches configured under
// branch.protected are never deleted.
package branches
