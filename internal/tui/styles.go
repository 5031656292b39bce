package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Filter      lipgloss.Style
	Dim         lipgloss.Style
	Help        lipgloss.Style
	Suggestion  lipgloss.Style
	Active      lipgloss.Style
	MatchText   lipgloss.Style
	Placeholder lipgloss.Style
	Selected    lipgloss.Style
	Ended       lipgloss.Style
	InProgress  lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Box         lipgloss.Style
	Label       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Dim:         lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Suggestion:  lipgloss.NewStyle().PaddingLeft(2),
		Active:      lipgloss.NewStyle().PaddingLeft(2).Background(lipgloss.Color("238")),
		MatchText:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Placeholder: lipgloss.NewStyle().PaddingLeft(2).Faint(true).Italic(true),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Ended:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		InProgress:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(1, 2),
		Label: lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("241")),
	}
}
