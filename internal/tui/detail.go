package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ohare93/readhub/internal/compare"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/interaction"
)

func renderPaperDetail(p *hub.Paper, set *interaction.Set, annotations []*hub.Annotation, summary *hub.Summary, marked bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📄 "+p.Title) + "\n\n")

	b.WriteString(renderField("arXiv", p.ID))
	if len(p.Authors) > 0 {
		b.WriteString(renderField("Authors", strings.Join(p.Authors, ", ")))
	}
	if len(p.Categories) > 0 {
		b.WriteString(renderField("Categories", categoryStyle.Render(strings.Join(p.Categories, ", "))))
	}
	if !p.Published.IsZero() {
		b.WriteString(renderField("Published", p.Published.Format("2006-01-02")))
	}
	if p.PDFURL != "" {
		b.WriteString(renderField("PDF", p.PDFURL))
	}

	bookmarked, pending := bookmarkState(set, hub.KindPaper, p.ID, p.Bookmarked)
	b.WriteString(renderField("Likes", renderLike(likeState(set, hub.KindPaper, p.ID, p.Liked, p.LikeCount))))
	b.WriteString(renderField("Saved", renderBookmark(bookmarked, pending)))
	if marked {
		b.WriteString(renderField("Compare", lipgloss.NewStyle().Foreground(markedColor).Render("marked")))
	}

	if p.Abstract != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Abstract:") + "\n")
		b.WriteString(p.Abstract + "\n")
	}

	if summary != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Summary:") + "\n")
		b.WriteString(summary.Text + "\n")
		for _, point := range summary.KeyPoints {
			b.WriteString("  • " + point + "\n")
		}
		if summary.Model != "" {
			b.WriteString(helpStyle.Render("generated by "+summary.Model) + "\n")
		}
	}

	if len(annotations) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Annotations (%d):", len(annotations))) + "\n")
		for _, a := range annotations {
			b.WriteString(renderAnnotation(a))
		}
	}

	b.WriteString("\n" + helpStyle.Render("l like • m bookmark • s summarize • a annotate • n note • space mark • b back") + "\n")

	return b.String()
}

func renderAnnotation(a *hub.Annotation) string {
	var b strings.Builder
	prefix := ""
	if a.PageNumber != nil {
		prefix = fmt.Sprintf("p.%d ", *a.PageNumber)
	}
	quote := quoteStyle
	if a.Color != "" {
		quote = quote.BorderLeft(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(annotationColor(a.Color))
	}
	b.WriteString(quote.Render(prefix+"“"+a.Quote+"”") + "\n")
	if a.Comment != "" {
		b.WriteString("    " + a.Comment + "\n")
	}
	return b.String()
}

func annotationColor(name string) lipgloss.Color {
	switch name {
	case "green":
		return lipgloss.Color("2")
	case "blue":
		return lipgloss.Color("4")
	case "pink":
		return lipgloss.Color("13")
	default:
		return lipgloss.Color("3")
	}
}

func renderArticleDetail(a *hub.Article, set *interaction.Set) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📰 "+a.Title) + "\n\n")

	if a.Author != "" {
		b.WriteString(renderField("Author", a.Author))
	}
	if len(a.Tags) > 0 {
		b.WriteString(renderField("Tags", strings.Join(a.Tags, ", ")))
	}
	if !a.CreatedAt.IsZero() {
		b.WriteString(renderField("Posted", formatTime(a.CreatedAt)))
	}
	if !a.UpdatedAt.IsZero() && a.UpdatedAt.After(a.CreatedAt) {
		b.WriteString(renderField("Updated", formatTime(a.UpdatedAt)))
	}

	bookmarked, pending := bookmarkState(set, hub.KindArticle, a.ID, a.Bookmarked)
	b.WriteString(renderField("Likes", renderLike(likeState(set, hub.KindArticle, a.ID, a.Liked, a.LikeCount))))
	b.WriteString(renderField("Saved", renderBookmark(bookmarked, pending)))

	if a.Body != "" {
		b.WriteString("\n" + a.Body + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("l like • m bookmark • n note • b back") + "\n")

	return b.String()
}

func renderComparison(result *compare.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("⚖️  Comparing %d papers", len(result.Papers))) + "\n\n")

	for i, p := range result.Papers {
		b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, categoryStyle.Render(p.ID), p.Title))
	}

	if c := result.Comparison; c != nil {
		if c.Focus != "" {
			b.WriteString("\n" + renderField("Focus", c.Focus))
		}
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Analysis:") + "\n")
		b.WriteString(c.Analysis + "\n")

		if len(c.Highlights) > 0 {
			b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Highlights:") + "\n")
			ids := make([]string, 0, len(c.Highlights))
			for id := range c.Highlights {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				b.WriteString(fmt.Sprintf("  %s: %s\n", categoryStyle.Render(id), c.Highlights[id]))
			}
		}
	}

	b.WriteString("\n" + helpStyle.Render("Press 'b' to go back") + "\n")

	return b.String()
}

func renderField(name, value string) string {
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	return fmt.Sprintf("%s: %s\n", nameStyle.Render(name), value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, pluralize(mins))
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, pluralize(hours))
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, pluralize(days))
	}

	return t.Format("2006-01-02 15:04")
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
