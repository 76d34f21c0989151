package ui

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"
)

// isDarkBg caches the terminal background detection result at package init.
var isDarkBg = lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

// AdaptiveColor picks between a light-mode and dark-mode hex color string
// based on the detected terminal background.
func AdaptiveColor(light, dark string) color.Color {
	if isDarkBg {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// IsDarkBackground returns the cached terminal background detection result.
func IsDarkBackground() bool {
	return isDarkBg
}

var currentTheme = DefaultTheme()

// GetTheme returns the active theme.
func GetTheme() Theme {
	return currentTheme
}

// Theme is the form's color scheme. Every color adapts to light and dark
// terminals.
type Theme struct {
	Primary     color.Color
	Secondary   color.Color
	Success     color.Color
	Warning     color.Color
	Error       color.Color
	Text        color.Color
	Muted       color.Color
	VeryMuted   color.Color
	Border      color.Color
	MutedBorder color.Color
	Accent      color.Color
}

// DefaultTheme is built around the UnCSS Online purple
// (#9b4dca) with neutral text colors for both backgrounds.
func DefaultTheme() Theme {
	return Theme{
		Primary:     AdaptiveColor("#9b4dca", "#c49be0"),
		Secondary:   AdaptiveColor("#04a5e5", "#89dceb"),
		Success:     AdaptiveColor("#40a02b", "#a6e3a1"),
		Warning:     AdaptiveColor("#df8e1d", "#f9e2af"),
		Error:       AdaptiveColor("#d20f39", "#f38ba8"),
		Text:        AdaptiveColor("#4c4f69", "#cdd6f4"),
		Muted:       AdaptiveColor("#6c6f85", "#a6adc8"),
		VeryMuted:   AdaptiveColor("#9ca0b0", "#6c7086"),
		Border:      AdaptiveColor("#acb0be", "#585b70"),
		MutedBorder: AdaptiveColor("#ccd0da", "#313244"),
		Accent:      AdaptiveColor("#ea76cb", "#f5c2e7"),
	}
}

// StyleHeader is used for the page title.
func StyleHeader(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
}

// StyleLabel is used for field labels. Focused labels use the primary color.
func StyleLabel(theme Theme, focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if focused {
		return s.Foreground(theme.Primary)
	}
	return s.Foreground(theme.Text)
}

// StyleMuted is used for placeholders, hints and the status bar.
func StyleMuted(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Muted).
		Italic(true)
}

// StyleSuccess is used for the clipboard confirmation.
func StyleSuccess(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true)
}

// StyleError is used for the error panel heading.
func StyleError(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)
}

// StyleWarning is used for the clipboard fallback hint.
func StyleWarning(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Bold(true)
}

// CreateButton renders a button label. A focused button is drawn with the
// primary background; a disabled one is dimmed and never looks focused.
func CreateButton(text string, focused, disabled bool, theme Theme) string {
	s := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	switch {
	case disabled:
		s = s.Foreground(theme.VeryMuted).Background(theme.MutedBorder)
	case focused:
		s = s.Foreground(AdaptiveColor("#FFFFFF", "#000000")).Background(theme.Primary)
	default:
		s = s.Foreground(theme.Primary).Background(theme.MutedBorder)
	}
	return s.Render(text)
}
