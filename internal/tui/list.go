package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/interaction"
)

// likeView is what a row or detail shows for a like control
type likeView struct {
	liked   bool
	count   int
	pending bool
}

// likeState prefers the live cell over the loaded struct.
func likeState(set *interaction.Set, kind hub.EntityKind, id string, liked bool, count int) likeView {
	if set != nil {
		if l, ok := set.LookupLike(kind, id); ok {
			return likeView{liked: l.Liked(), count: l.Count(), pending: l.Pending()}
		}
	}
	return likeView{liked: liked, count: count}
}

func bookmarkState(set *interaction.Set, kind hub.EntityKind, id string, bookmarked bool) (bool, bool) {
	if set != nil {
		if b, ok := set.LookupBookmark(kind, id); ok {
			return b.Bookmarked(), b.Pending()
		}
	}
	return bookmarked, false
}

func renderLike(v likeView) string {
	icon := "♡"
	color := lipgloss.Color("7")
	if v.liked {
		icon = "♥"
		color = likedColor
	}
	if v.pending {
		color = pendingColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s %-4d", icon, v.count))
}

func renderBookmark(bookmarked, pending bool) string {
	icon := "☆"
	color := lipgloss.Color("7")
	if bookmarked {
		icon = "★"
		color = bookmarkedColor
	}
	if pending {
		color = pendingColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(icon)
}

func renderRow(line string, selected bool) string {
	if selected {
		return selectedRowStyle.Render(line)
	}
	return rowStyle.Render(line)
}

func renderPaperList(papers []*hub.Paper, cursor int, width int, set *interaction.Set, marked func(string) bool) string {
	var output strings.Builder

	header := fmt.Sprintf("  %-12s %-50s %-16s %-7s %s", "ID", "Title", "Categories", "Likes", "Saved")
	output.WriteString(lipgloss.NewStyle().Bold(true).Render(header) + "\n")
	output.WriteString(strings.Repeat("─", max(width, 40)) + "\n")

	for i, p := range papers {
		mark := " "
		if marked(p.ID) {
			mark = lipgloss.NewStyle().Foreground(markedColor).Render("●")
		}
		bookmarked, pending := bookmarkState(set, hub.KindPaper, p.ID, p.Bookmarked)
		line := fmt.Sprintf("%s %-12s %-50s %-16s %s %s",
			mark,
			truncate(p.ID, 12),
			truncate(p.Title, 50),
			categoryStyle.Render(fmt.Sprintf("%-16s", truncate(strings.Join(p.Categories, ","), 16))),
			renderLike(likeState(set, hub.KindPaper, p.ID, p.Liked, p.LikeCount)),
			renderBookmark(bookmarked, pending),
		)
		output.WriteString(renderRow(line, i == cursor) + "\n")
	}

	return output.String()
}

func renderArticleList(articles []*hub.Article, cursor int, width int, set *interaction.Set) string {
	var output strings.Builder

	header := fmt.Sprintf("%-44s %-14s %-20s %-7s %s", "Title", "Author", "Tags", "Likes", "Saved")
	output.WriteString(lipgloss.NewStyle().Bold(true).Render(header) + "\n")
	output.WriteString(strings.Repeat("─", max(width, 40)) + "\n")

	for i, a := range articles {
		bookmarked, pending := bookmarkState(set, hub.KindArticle, a.ID, a.Bookmarked)
		line := fmt.Sprintf("%-44s %-14s %-20s %s %s",
			truncate(a.Title, 44),
			truncate(a.Author, 14),
			truncate(strings.Join(a.Tags, ", "), 20),
			renderLike(likeState(set, hub.KindArticle, a.ID, a.Liked, a.LikeCount)),
			renderBookmark(bookmarked, pending),
		)
		output.WriteString(renderRow(line, i == cursor) + "\n")
	}

	return output.String()
}

func renderBookmarkList(bookmarks []*hub.Bookmark, cursor int, width int, set *interaction.Set) string {
	var output strings.Builder

	header := fmt.Sprintf("%-8s %-50s %-16s %s", "Kind", "Title", "Saved", "")
	output.WriteString(lipgloss.NewStyle().Bold(true).Render(header) + "\n")
	output.WriteString(strings.Repeat("─", max(width, 40)) + "\n")

	for i, b := range bookmarks {
		bookmarked, pending := bookmarkState(set, b.Kind, b.EntityID, true)
		title := b.Title
		if title == "" {
			title = b.EntityID
		}
		line := fmt.Sprintf("%-8s %-50s %-16s %s",
			b.Kind,
			truncate(title, 50),
			formatTime(b.CreatedAt),
			renderBookmark(bookmarked, pending),
		)
		output.WriteString(renderRow(line, i == cursor) + "\n")
	}

	return output.String()
}

func renderNoteList(notes []*hub.Note, cursor int, width int) string {
	var output strings.Builder

	header := fmt.Sprintf("  %-40s %-24s %-20s %s", "Title", "Attached", "Tags", "Updated")
	output.WriteString(lipgloss.NewStyle().Bold(true).Render(header) + "\n")
	output.WriteString(strings.Repeat("─", max(width, 40)) + "\n")

	for i, n := range notes {
		pin := " "
		if n.Pinned {
			pin = lipgloss.NewStyle().Foreground(pinnedColor).Render("▲")
		}
		attached := ""
		if n.EntityKind != "" {
			attached = string(n.EntityKind) + ":" + n.EntityID
		}
		line := fmt.Sprintf("%s %-40s %-24s %-20s %s",
			pin,
			truncate(n.Title, 40),
			truncate(attached, 24),
			truncate(strings.Join(n.Tags, ", "), 20),
			formatTime(n.UpdatedAt),
		)
		output.WriteString(renderRow(line, i == cursor) + "\n")
	}

	return output.String()
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
