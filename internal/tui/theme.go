package tui

import "github.com/charmbracelet/lipgloss"

const (
	sidebarWidth = 34
	labelWidth   = 9
)

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorFavorite lipgloss.Color = "#f9e2af"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, true, false, false).
			BorderForeground(colorBorder).
			Padding(0, 1)
	detailStyle        = lipgloss.NewStyle().Padding(0, 2)
	detailLoadingStyle = detailStyle.Foreground(colorMuted).Faint(true)

	searchStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorBorder)
	searchFocusedStyle = searchStyle.BorderForeground(colorAccent)

	rowStyle        = lipgloss.NewStyle().Foreground(colorText)
	rowActiveStyle  = lipgloss.NewStyle().Foreground(colorMantle).Background(colorAccent).Bold(true)
	rowPendingStyle = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	rowCursorStyle  = lipgloss.NewStyle().Background(colorSurface0)
	noNameStyle     = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	favoriteStyle   = lipgloss.NewStyle().Foreground(colorFavorite)
	emptyStyle      = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	headingStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	linkStyle    = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted).Width(labelWidth)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0).Padding(0, 1)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0).Padding(0, 1)
)
