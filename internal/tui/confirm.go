package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderConfirmDeleteView() string {
	note := m.currentNote()
	if note == nil {
		return "No note selected"
	}

	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("1")). // Red
		Render("⚠️  DELETE NOTE")
	b.WriteString(title + "\n\n")

	// Note info
	b.WriteString(fmt.Sprintf("Title:    %s\n", note.Title))
	if note.EntityKind != "" {
		b.WriteString(fmt.Sprintf("Attached: %s %s\n", note.EntityKind, note.EntityID))
	}
	if len(note.Tags) > 0 {
		b.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(note.Tags, ", ")))
	}
	b.WriteString("\n")

	warning := lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")). // Yellow
		Render("This will permanently delete the note from the hub.")
	b.WriteString(warning + "\n\n")

	prompt := lipgloss.NewStyle().
		Bold(true).
		Render("Delete this note? [y/N]")
	b.WriteString(prompt + "\n\n")

	help := lipgloss.NewStyle().
		Faint(true).
		Render("y = confirm | n/Esc = cancel")
	b.WriteString(help)

	return b.String()
}
