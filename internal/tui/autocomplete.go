package tui

import (
	"sort"
	"strings"
)

const maxSuggestions = 8

// AutocompleteState tracks #tag suggestions in the search input
type AutocompleteState struct {
	Active      bool     // Whether the suggestion line is visible
	Query       string   // Current tag prefix (text after #)
	QueryStart  int      // Position of # in input
	Suggestions []string // Matching tags
	Selected    int      // Currently selected suggestion index
	Tags        []string // Candidate tags
}

// NewAutocompleteState creates a new autocomplete state over a tag list
func NewAutocompleteState(tags []string) *AutocompleteState {
	return &AutocompleteState{Tags: tags}
}

// SetTags replaces the candidate tags, dropping duplicates.
func (a *AutocompleteState) SetTags(tags []string) {
	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, tag)
	}
	a.Tags = unique
	if a.Active {
		a.RefreshSuggestions()
	}
}

// Reset clears the autocomplete state
func (a *AutocompleteState) Reset() {
	a.Active = false
	a.Query = ""
	a.QueryStart = 0
	a.Suggestions = nil
	a.Selected = 0
}

// UpdateFromText checks the input text for a # trigger before the cursor.
// Returns true if autocomplete state changed
func (a *AutocompleteState) UpdateFromText(text string, cursorPos int) bool {
	if cursorPos > len(text) {
		cursorPos = len(text)
	}

	lastHash := -1
	for i := cursorPos - 1; i >= 0; i-- {
		if text[i] == '#' {
			lastHash = i
			break
		}
		if text[i] == ' ' || text[i] == '\t' {
			break
		}
	}

	// # must start a word
	if lastHash == -1 || (lastHash > 0 && text[lastHash-1] != ' ' && text[lastHash-1] != '\t') {
		if a.Active {
			a.Reset()
			return true
		}
		return false
	}

	query := text[lastHash+1 : cursorPos]
	wasActive := a.Active
	oldQuery := a.Query

	a.Active = true
	a.Query = query
	a.QueryStart = lastHash

	if !wasActive || query != oldQuery {
		a.RefreshSuggestions()
		a.Selected = 0
	}

	return !wasActive || query != oldQuery
}

// RefreshSuggestions updates the suggestions based on current query
func (a *AutocompleteState) RefreshSuggestions() {
	a.Suggestions = matchTags(a.Tags, a.Query, maxSuggestions)
}

// SelectNext moves selection to next suggestion
func (a *AutocompleteState) SelectNext() {
	if len(a.Suggestions) > 0 {
		a.Selected = (a.Selected + 1) % len(a.Suggestions)
	}
}

// SelectPrev moves selection to previous suggestion
func (a *AutocompleteState) SelectPrev() {
	if len(a.Suggestions) > 0 {
		a.Selected = (a.Selected - 1 + len(a.Suggestions)) % len(a.Suggestions)
	}
}

// GetSelectedSuggestion returns the currently selected suggestion
func (a *AutocompleteState) GetSelectedSuggestion() string {
	if a.Selected >= 0 && a.Selected < len(a.Suggestions) {
		return a.Suggestions[a.Selected]
	}
	return ""
}

// ApplyCompletion returns the text with #query replaced by the selected tag.
// Spaces in the tag become dashes so the tag stays one search token.
func (a *AutocompleteState) ApplyCompletion(text string) string {
	if !a.Active || len(a.Suggestions) == 0 {
		return text
	}

	selected := a.GetSelectedSuggestion()
	if selected == "" {
		return text
	}

	before := text[:a.QueryStart]
	after := text[a.QueryStart+1+len(a.Query):]
	return before + "#" + strings.ReplaceAll(selected, " ", "-") + after
}

// Deactivate hides the suggestions without applying
func (a *AutocompleteState) Deactivate() {
	a.Active = false
}

// matchTags finds tags containing query, prefix matches first.
func matchTags(tags []string, query string, maxResults int) []string {
	query = strings.ToLower(strings.ReplaceAll(query, "-", " "))
	var matches []string
	for _, tag := range tags {
		if query == "" || strings.Contains(strings.ToLower(tag), query) {
			matches = append(matches, tag)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		mi := strings.ToLower(matches[i])
		mj := strings.ToLower(matches[j])

		iPrefix := strings.HasPrefix(mi, query)
		jPrefix := strings.HasPrefix(mj, query)
		if iPrefix != jPrefix {
			return iPrefix
		}
		if len(mi) != len(mj) {
			return len(mi) < len(mj)
		}
		return mi < mj
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}
