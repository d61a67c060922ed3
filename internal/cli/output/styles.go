package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Header  lipgloss.Style
	Header2 lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Gutter  lipgloss.Style
	Caret   lipgloss.Style
	Prompt  lipgloss.Style
	Name    lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer, so color support is
// detected per output stream.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Gutter:  r.NewStyle().Foreground(lipgloss.Color("12")),
		Caret:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Prompt:  r.NewStyle().Foreground(lipgloss.Color("14")),
		Name:    r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}
