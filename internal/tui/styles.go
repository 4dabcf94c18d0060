package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Base styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6")).
			MarginBottom(1)

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("240")).
				Bold(true)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("8"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("6"))

	// Toggle colors
	likedColor      = lipgloss.Color("9")  // Bright red
	bookmarkedColor = lipgloss.Color("3")  // Yellow
	pendingColor    = lipgloss.Color("8")  // Gray while unconfirmed
	markedColor     = lipgloss.Color("12") // Light blue - marked for compare
	pinnedColor     = lipgloss.Color("5")  // Magenta

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4"))

	quoteStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("7")).
			PaddingLeft(2)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)
