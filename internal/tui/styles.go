// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#25A065")
	mutedColor   = lipgloss.Color("#555555")
	textColor    = lipgloss.Color("#FFFDF5")

	titleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(textColor)

	widgetStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	selectedStyle = widgetStyle.
			BorderForeground(primaryColor).
			Bold(true)

	onStyle  = lipgloss.NewStyle().Foreground(primaryColor)
	offStyle = lipgloss.NewStyle().Foreground(mutedColor)

	gridStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
	leftStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3D9DF3"))
	rightStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F3A53D"))
	bothStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	responseStyle = lipgloss.NewStyle().Foreground(textColor).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)
