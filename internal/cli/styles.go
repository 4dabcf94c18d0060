package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Consistent colors across list and detail output
var (
	StyleLiked      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red heart
	StyleBookmarked = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Yellow star
	StylePinned     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")) // Magenta
	StyleCategory   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // Blue
	StyleSuccess    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green
	StyleWarning    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	// UI elements
	StyleID        = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // Cyan
	StyleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // Gray
	StyleHighlight = lipgloss.NewStyle().Bold(true)
	StyleLabel     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	StyleHeader    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
)

// likeBadge renders a like count with a filled heart when liked.
func likeBadge(liked bool, count int) string {
	if liked {
		return StyleLiked.Render(fmt.Sprintf("♥ %d", count))
	}
	return StyleDim.Render(fmt.Sprintf("♡ %d", count))
}

// annotationStyle colors a quote by its highlight color.
func annotationStyle(color string) lipgloss.Style {
	switch color {
	case "green":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case "blue":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	case "pink":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
}

// bookmarkBadge renders a star when bookmarked.
func bookmarkBadge(bookmarked bool) string {
	if bookmarked {
		return StyleBookmarked.Render("★")
	}
	return StyleDim.Render("☆")
}
