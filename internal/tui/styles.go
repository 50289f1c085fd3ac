package tui

import "github.com/charmbracelet/lipgloss"

var (
	sakura = lipgloss.Color("211")
	calm   = lipgloss.Color("117")
	muted  = lipgloss.Color("245")

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(sakura)
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	CreditStyle = lipgloss.NewStyle().Italic(true).Foreground(muted)

	StepStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(sakura).
			Padding(1, 3).
			Width(56)

	IntervalStyle = StepStyle.BorderForeground(calm)

	CountdownStyle = lipgloss.NewStyle().Bold(true).Foreground(calm)
	NextStyle      = lipgloss.NewStyle().Foreground(muted)
	BadgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	PhotoStyle     = lipgloss.NewStyle().Faint(true)
	BlossomStyle   = lipgloss.NewStyle().Foreground(sakura)
)
