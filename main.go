package main

import (
	"os"

	"github.com/temirov/wgit/cmd/cli"
	"github.com/temirov/wgit/internal/ui"
)

func main() {
	if executionError := cli.Execute(); executionError != nil {
		ui.NewRenderer(os.Stderr, ui.NewPalette(ui.ColorEnabledFor(os.Stderr))).Error(executionError.Error())
		os.Exit(1)
	}
}
