package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Price colors
	PriceUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	PriceDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	PriceZeroStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// Position side colors
	SideLongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	SideShortStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)

	// Node and session state
	OnlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	OfflineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	// General styles
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SubtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	SpinnerColor = lipgloss.Color("#7D56F4")

	// Chat styles
	UserMsgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	AssistantMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	// Heat map colors
	HeatGreen   = lipgloss.Color("#00FF00")
	HeatRed     = lipgloss.Color("#FF0000")
	HeatNeutral = lipgloss.Color("#555555")
)
