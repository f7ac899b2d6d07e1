package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	quote    lipgloss.Style
	card     lipgloss.Style
	cardName lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	timer    lipgloss.Style
	err      lipgloss.Style
	status   lipgloss.Style
	footer   lipgloss.Style
	selected lipgloss.Style
	header   lipgloss.Style
}

func newStyles(theme string) styles {
	if theme == "dark" {
		return styles{
			title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true),
			quote:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true),
			card:     lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A")),
			cardName: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
			value:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true),
			muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
			timer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true),
			err:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
			status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
			footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
			selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
			header:   lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Bold(true),
		}
	}
	return styles{
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Bold(true),
		quote:    lipgloss.NewStyle().Foreground(lipgloss.Color("#707070")).Italic(true),
		card:     lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#B5B5B5")),
		cardName: lipgloss.NewStyle().Foreground(lipgloss.Color("#707070")),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#909090")),
		timer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8A6D1F")).Bold(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C0392B")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("#909090")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#8A6D1F")),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("#505050")).Bold(true),
	}
}
