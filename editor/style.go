package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Text       lipgloss.Style
	Heading    lipgloss.Style
	Quote      lipgloss.Style
	Code       lipgloss.Style
	ListMarker lipgloss.Style

	Selection lipgloss.Style
	Cursor    lipgloss.Style

	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style
	MenuDetail       lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:             lipgloss.NewStyle(),
		Heading:          lipgloss.NewStyle().Bold(true),
		Quote:            lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Code:             lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		ListMarker:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selection:        lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:           lipgloss.NewStyle().Reverse(true),
		MenuItem:         lipgloss.NewStyle().Background(lipgloss.Color("236")),
		MenuItemSelected: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")),
		MenuDetail:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
