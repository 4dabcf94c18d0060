package tui

import (
	"strings"

	"github.com/ohare93/readhub/internal/hub"
)

// splitSearch separates #tags from free text.
func splitSearch(input string) (text string, tags []string) {
	var words []string
	for _, field := range strings.Fields(input) {
		if strings.HasPrefix(field, "#") {
			if tag := strings.TrimPrefix(field, "#"); tag != "" {
				tags = append(tags, tag)
			}
			continue
		}
		words = append(words, field)
	}
	return strings.Join(words, " "), tags
}

// parseSearch turns the paper search box into a query. Tags with a known
// arXiv category become category filters; the rest are searched as text.
func parseSearch(input string) hub.PaperQuery {
	text, tags := splitSearch(input)
	categories, unmapped := hub.CategoriesForTags(tags)
	if len(unmapped) > 0 {
		text = strings.TrimSpace(text + " " + strings.Join(unmapped, " "))
	}
	return hub.PaperQuery{Query: text, Categories: categories}
}

// noteFilterFromSearch turns the notes search box into a filter.
func noteFilterFromSearch(input string, pinnedOnly bool) hub.NoteFilter {
	text, tags := splitSearch(input)
	return hub.NoteFilter{Query: text, Tags: tags, PinnedOnly: pinnedOnly}
}

// articleTagFromSearch picks the tag for the article listing: the first
// #tag, or the whole input when there is none.
func articleTagFromSearch(input string) string {
	text, tags := splitSearch(input)
	if len(tags) > 0 {
		return tags[0]
	}
	return text
}
