package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/skycast/skycast/internal/prefs"
)

// palette holds the theme-dependent colors.
type palette struct {
	primary lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	danger  lipgloss.Color
	warning lipgloss.Color
	success lipgloss.Color
}

var lightPalette = palette{
	primary: lipgloss.Color("25"),  // deep blue
	text:    lipgloss.Color("235"), // near black
	muted:   lipgloss.Color("245"),
	border:  lipgloss.Color("110"),
	danger:  lipgloss.Color("160"),
	warning: lipgloss.Color("130"),
	success: lipgloss.Color("28"),
}

var darkPalette = palette{
	primary: lipgloss.Color("#00BFFF"),
	text:    lipgloss.Color("#FFFFFF"),
	muted:   lipgloss.Color("#6C757D"),
	border:  lipgloss.Color("#4A90E2"),
	danger:  lipgloss.Color("#FF6B6B"),
	warning: lipgloss.Color("#FFD93D"),
	success: lipgloss.Color("#6BCF7F"),
}

// styles bundles every rendered style for the active theme.
type styles struct {
	title         lipgloss.Style
	sectionHeader lipgloss.Style
	label         lipgloss.Style
	value         lipgloss.Style
	muted         lipgloss.Style
	help          lipgloss.Style
	errorText     lipgloss.Style
	pane          lipgloss.Style
	alertSevere   lipgloss.Style
	alertModerate lipgloss.Style
	alertMinor    lipgloss.Style
}

// newStyles builds the style set for a theme.
func newStyles(theme prefs.Theme) styles {
	p := darkPalette
	if theme == prefs.ThemeLight {
		p = lightPalette
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		sectionHeader: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginTop(1),
		label: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),
		value: lipgloss.NewStyle().
			Foreground(p.text),
		muted: lipgloss.NewStyle().
			Foreground(p.muted),
		help: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(1, 0),
		errorText: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		alertSevere: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		alertModerate: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		alertMinor: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
