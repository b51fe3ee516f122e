package flags

import (
	"github.com/spf13/cobra"
)

const (
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	assumeYesFlagUsage     = "Skip confirmation prompts"
)

// BindAssumeYesFlag attaches --yes/-y to a command that asks for confirmation before changing the repository.
func BindAssumeYesFlag(command *cobra.Command) {
	if command == nil {
		return
	}
	command.Flags().BoolP(AssumeYesFlagName, AssumeYesFlagShorthand, false, assumeYesFlagUsage)
}

// AssumeYes reports whether the command was invoked with --yes.
func AssumeYes(command *cobra.Command) bool {
	if command == nil {
		return false
	}
	assumeYes, lookupError := command.Flags().GetBool(AssumeYesFlagName)
	if lookupError != nil {
		return false
	}
	return assumeYes
}
