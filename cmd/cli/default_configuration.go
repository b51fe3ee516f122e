package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultSettings []byte

// EmbeddedDefaultSettings returns a copy of the built-in logging settings and their format.
func EmbeddedDefaultSettings() ([]byte, string) {
	return append([]byte(nil), embeddedDefaultSettings...), settingsTypeConstant
}
