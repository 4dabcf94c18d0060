package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// activityLines is how many activity entries the list footer shows
const activityLines = 3

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.mode {
	case listView:
		return m.renderListView()
	case paperDetailView:
		return m.withStatus(m.renderPaperDetailView())
	case articleDetailView:
		return m.withStatus(m.renderArticleDetailView())
	case compareView:
		return m.withStatus(m.renderCompareView())
	case helpView:
		return m.renderHelpView()
	case confirmDeleteView:
		return m.renderConfirmDeleteView()
	case inputView:
		return m.renderInputView()
	default:
		return "Unknown view"
	}
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if tab(i) == m.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderListView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📚 ReadHub") + "\n")
	b.WriteString(m.renderTabs() + "\n\n")

	if filter := m.filterSummary(); filter != "" {
		b.WriteString(helpStyle.Render(filter) + "\n\n")
	}

	switch m.tab {
	case papersTab:
		if len(m.papers) == 0 {
			b.WriteString("No papers to display\n")
		} else {
			b.WriteString(renderPaperList(m.papers, m.cursor, m.width, m.listToggles, m.isMarked))
		}
	case articlesTab:
		if len(m.articles) == 0 {
			b.WriteString("No articles to display\n")
		} else {
			b.WriteString(renderArticleList(m.articles, m.cursor, m.width, m.listToggles))
		}
	case bookmarksTab:
		if len(m.bookmarks) == 0 {
			b.WriteString("No bookmarks yet\n")
		} else {
			b.WriteString(renderBookmarkList(m.bookmarks, m.cursor, m.width, m.listToggles))
		}
	case notesTab:
		if len(m.visibleNotes) == 0 {
			b.WriteString("No notes to display\n")
		} else {
			b.WriteString(renderNoteList(m.visibleNotes, m.cursor, m.width))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Navigation: ↑/k up • ↓/j down • enter details • tab next list • / search\n"))
	switch m.tab {
	case papersTab:
		b.WriteString(helpStyle.Render("Actions: l like • m bookmark • space mark • c compare marked • n note\n"))
	case articlesTab, bookmarksTab:
		b.WriteString(helpStyle.Render("Actions: l like • m bookmark • n note\n"))
	case notesTab:
		b.WriteString(helpStyle.Render("Actions: n new • e edit • x delete • o sort • p pinned only\n"))
	}
	b.WriteString(helpStyle.Render("Other: R refresh • ? help • q quit\n"))

	return m.withStatus(b.String())
}

// filterSummary describes the filters active on the current tab.
func (m Model) filterSummary() string {
	switch m.tab {
	case papersTab:
		if m.paperSearch != "" {
			return "Search: " + m.paperSearch
		}
		if len(m.marked) > 0 {
			return fmt.Sprintf("Marked for compare: %d", len(m.marked))
		}
	case articlesTab:
		if m.articleTag != "" {
			return "Tag: " + m.articleTag
		}
	case notesTab:
		parts := []string{"Sort: " + string(m.noteSort)}
		if m.noteFilter.Query != "" {
			parts = append(parts, "Search: "+m.noteFilter.Query)
		}
		if len(m.noteFilter.Tags) > 0 {
			parts = append(parts, "Tags: #"+strings.Join(m.noteFilter.Tags, " #"))
		}
		if m.noteFilter.PinnedOnly {
			parts = append(parts, "pinned only")
		}
		return strings.Join(parts, " | ")
	}
	return ""
}

// withStatus appends the spinner, message and recent activity.
func (m Model) withStatus(body string) string {
	var b strings.Builder
	b.WriteString(body)

	if m.loading > 0 {
		b.WriteString("\n" + m.spinner.View() + " Loading...")
	}

	if m.message != "" {
		style := messageStyle
		if strings.HasPrefix(m.message, "Error:") {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.message))
	}

	if n := len(m.activityLog); n > 0 {
		start := n - activityLines
		if start < 0 {
			start = 0
		}
		b.WriteString("\n")
		for _, entry := range m.activityLog[start:] {
			line := fmt.Sprintf("%s %s", entry.Time.Format("15:04:05"), entry.Message)
			b.WriteString("\n" + helpStyle.Render(truncate(line, max(m.width, 80))))
		}
	}

	return b.String()
}

func (m Model) renderPaperDetailView() string {
	if m.selectedPaper == nil {
		return "No paper selected"
	}
	return renderPaperDetail(m.selectedPaper, m.detailToggles, m.annotations, m.summary, m.isMarked(m.selectedPaper.ID))
}

func (m Model) renderArticleDetailView() string {
	if m.selectedArticle == nil {
		return "No article selected"
	}
	return renderArticleDetail(m.selectedArticle, m.detailToggles)
}

func (m Model) renderCompareView() string {
	if m.comparison == nil {
		return "No comparison yet"
	}
	return renderComparison(m.comparison)
}

func (m Model) renderHelpView() string {
	var b strings.Builder

	title := titleStyle.Render("📚 ReadHub - Help")
	b.WriteString(title + "\n\n")

	b.WriteString(helpSection("Navigation", []helpItem{
		{"↑ / k", "Move up"},
		{"↓ / j", "Move down"},
		{"Enter", "Open details"},
		{"Tab", "Next list (papers → articles → bookmarks → notes)"},
		{"b / Esc", "Back to list"},
	}))

	b.WriteString(helpSection("Papers and Articles", []helpItem{
		{"l", "Like / unlike (shown immediately, undone if the hub refuses)"},
		{"m", "Bookmark / remove bookmark"},
		{"/", "Search (#tag maps to an arXiv category)"},
		{"space", "Mark paper for comparison"},
		{"c", "Compare marked papers (2 to 5)"},
		{"s", "Summarize paper (detail view)"},
		{"a", "Annotate paper (detail view)"},
		{"n", "New note attached to the selection"},
	}))

	b.WriteString(helpSection("Notes", []helpItem{
		{"n", "New note"},
		{"e", "Edit note in $EDITOR"},
		{"x", "Delete note (with confirmation)"},
		{"o", "Cycle sort (updated → created → title)"},
		{"p", "Toggle pinned only"},
		{"/", "Filter (#tag matches note tags)"},
	}))

	b.WriteString(helpSection("Other", []helpItem{
		{"R", "Refresh current list"},
		{"?", "Toggle this help"},
		{"q / Ctrl+C", "Quit"},
	}))

	b.WriteString("\n" + helpStyle.Render("Press 'b' or '?' to go back"))

	return b.String()
}

type helpItem struct {
	key  string
	desc string
}

func helpSection(title string, items []helpItem) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title) + "\n")
	for _, item := range items {
		keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
		b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(item.key), item.desc))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) inputTitle() string {
	switch m.inputPurpose {
	case inputSearch:
		return "Search " + m.tab.String()
	case inputAnnotation:
		return "Annotate Paper"
	case inputNoteTitle:
		return "New Note"
	case inputCompareFocus:
		return "Compare Papers"
	}
	return "Input"
}

// renderInputView renders the text input dialog
func (m Model) renderInputView() string {
	var b strings.Builder

	titleStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("6")).
		Render(m.inputTitle())
	b.WriteString(titleStyled + "\n\n")

	switch m.inputPurpose {
	case inputAnnotation:
		if m.selectedPaper != nil {
			b.WriteString(fmt.Sprintf("Paper: %s\n", m.selectedPaper.Title))
		}
		b.WriteString("Quote, optionally followed by \" // \" and a comment\n\n")
	case inputNoteTitle:
		if m.draftKind != "" {
			b.WriteString(fmt.Sprintf("Attached to: %s %s\n", m.draftKind, m.draftEntity))
		}
		b.WriteString("Title, then #tags; the body is edited afterwards\n\n")
	case inputCompareFocus:
		b.WriteString(fmt.Sprintf("Papers: %s\n", strings.Join(m.marked, ", ")))
		b.WriteString("Optional focus (e.g. methodology, results)\n\n")
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1).
		Width(60)
	b.WriteString(inputStyle.Render(m.textInput.View()) + "\n")

	if m.autocomplete.Active && len(m.autocomplete.Suggestions) > 0 {
		for i, s := range m.autocomplete.Suggestions {
			line := "  #" + s
			if i == m.autocomplete.Selected {
				line = selectedRowStyle.Render(line)
			} else {
				line = helpStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message) + "\n\n")
	}

	help := lipgloss.NewStyle().
		Faint(true).
		Render("Enter = submit | Tab = complete tag | Esc = cancel")
	b.WriteString(help)

	return b.String()
}
