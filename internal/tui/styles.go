package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the team form
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Subtle   lipgloss.Style
	Selected lipgloss.Style
	Badge    lipgloss.Style
	Panel    lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
}

func NewStyles() *Styles {
	var (
		primary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
		muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
		success = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
		failure = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
		border  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
	)

	toast := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(44)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Label: lipgloss.NewStyle().
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Badge: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(primary),

		HelpDesc: lipgloss.NewStyle().
			Foreground(muted),

		ToastSuccess: toast.BorderForeground(success),
		ToastError:   toast.BorderForeground(failure),
	}
}
