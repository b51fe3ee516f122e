// Package cli assembles the wgit command tree. It loads logging settings through
// Viper, resolves the w-git tool configuration, builds the zap logger and wires
// every command builder; run without a subcommand on a terminal it offers an
// interactive menu of commands.
package cli
