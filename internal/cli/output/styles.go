package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Key       lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Muted     lipgloss.Style
	Present   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Subheader: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Key:       r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:     r.NewStyle().Faint(true),
		// Matches the report's lightgreen present cells.
		Present: r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#90EE90")),
	}
}
