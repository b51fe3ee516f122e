package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	noColorEnvironmentConstant = "NO_COLOR"
	successColorConstant       = "2"
	warningColorConstant       = "3"
	errorColorConstant         = "1"
	infoColorConstant          = "6"
	mutedColorConstant         = "8"
	stagedColorConstant        = "2"
	modifiedColorConstant      = "3"
	untrackedColorConstant     = "1"
	mixedColorConstant         = "5"
)

// Palette styles console text. A disabled palette returns text unchanged.
type Palette struct {
	enabled   bool
	success   lipgloss.Style
	warning   lipgloss.Style
	failure   lipgloss.Style
	info      lipgloss.Style
	muted     lipgloss.Style
	heading   lipgloss.Style
	staged    lipgloss.Style
	modified  lipgloss.Style
	untracked lipgloss.Style
	mixed     lipgloss.Style
}

// NewPalette builds the wgit colour scheme.
func NewPalette(enabled bool) Palette {
	return Palette{
		enabled:   enabled,
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		failure:   lipgloss.NewStyle().Foreground(lipgloss.Color(errorColorConstant)).Bold(true),
		info:      lipgloss.NewStyle().Foreground(lipgloss.Color(infoColorConstant)),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColorConstant)),
		heading:   lipgloss.NewStyle().Bold(true).Underline(true),
		staged:    lipgloss.NewStyle().Foreground(lipgloss.Color(stagedColorConstant)),
		modified:  lipgloss.NewStyle().Foreground(lipgloss.Color(modifiedColorConstant)),
		untracked: lipgloss.NewStyle().Foreground(lipgloss.Color(untrackedColorConstant)),
		mixed:     lipgloss.NewStyle().Foreground(lipgloss.Color(mixedColorConstant)),
	}
}

// ColorEnabledFor reports whether colour should be used for the file: it must be a terminal and NO_COLOR must be unset.
func ColorEnabledFor(file *os.File) bool {
	if file == nil {
		return false
	}
	if _, disabled := os.LookupEnv(noColorEnvironmentConstant); disabled {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Enabled reports whether the palette applies styles.
func (palette Palette) Enabled() bool {
	return palette.enabled
}

func (palette Palette) render(style lipgloss.Style, text string) string {
	if !palette.enabled {
		return text
	}
	return style.Render(text)
}

// Success styles positive outcomes.
func (palette Palette) Success(text string) string { return palette.render(palette.success, text) }

// Warning styles cautions.
func (palette Palette) Warning(text string) string { return palette.render(palette.warning, text) }

// Error styles failures.
func (palette Palette) Error(text string) string { return palette.render(palette.failure, text) }

// Info styles neutral highlights.
func (palette Palette) Info(text string) string { return palette.render(palette.info, text) }

// Muted styles secondary details.
func (palette Palette) Muted(text string) string { return palette.render(palette.muted, text) }

// Heading styles section titles.
func (palette Palette) Heading(text string) string { return palette.render(palette.heading, text) }

// Category styles text by status category.
func (palette Palette) Category(category string, text string) string {
	switch category {
	case "staged":
		return palette.render(palette.staged, text)
	case "modified":
		return palette.render(palette.modified, text)
	case "untracked":
		return palette.render(palette.untracked, text)
	default:
		return palette.render(palette.mixed, text)
	}
}
