package hub

import (
	"fmt"
	"sort"
	"strings"
)

// NoteSort selects the order of a note listing.
type NoteSort string

const (
	SortUpdated NoteSort = "updated"
	SortCreated NoteSort = "created"
	SortTitle   NoteSort = "title"
)

// NoteSorts lists the sort orders in the order the TUI cycles them.
var NoteSorts = []NoteSort{SortUpdated, SortCreated, SortTitle}

// ParseNoteSort converts a flag value to a NoteSort. Empty means updated.
func ParseNoteSort(s string) (NoteSort, error) {
	switch NoteSort(strings.ToLower(s)) {
	case "", SortUpdated:
		return SortUpdated, nil
	case SortCreated:
		return SortCreated, nil
	case SortTitle:
		return SortTitle, nil
	}
	return "", fmt.Errorf("invalid sort %q (must be updated, created, or title)", s)
}

// Next returns the sort that follows s in NoteSorts.
func (s NoteSort) Next() NoteSort {
	for i, candidate := range NoteSorts {
		if candidate == s {
			return NoteSorts[(i+1)%len(NoteSorts)]
		}
	}
	return SortUpdated
}

// NoteFilter restricts which notes are shown. Zero value matches all.
type NoteFilter struct {
	Query      string     // case-insensitive match on title or body
	Tags       []string   // any of these tags (OR)
	EntityKind EntityKind // only notes attached to this kind
	EntityID   string     // only notes attached to this entity
	PinnedOnly bool
}

// IsZero reports whether the filter matches everything.
func (f NoteFilter) IsZero() bool {
	return f.Query == "" && len(f.Tags) == 0 && f.EntityKind == "" && f.EntityID == "" && !f.PinnedOnly
}

// Matches reports whether note passes the filter.
func (f NoteFilter) Matches(note *Note) bool {
	if f.PinnedOnly && !note.Pinned {
		return false
	}
	if f.EntityKind != "" && note.EntityKind != f.EntityKind {
		return false
	}
	if f.EntityID != "" && note.EntityID != f.EntityID {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(note.Title), q) &&
			!strings.Contains(strings.ToLower(note.Body), q) {
			return false
		}
	}
	if len(f.Tags) > 0 && !hasAnyTag(note.Tags, f.Tags) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}

// FilterNotes returns the notes matching f, in their original order.
func FilterNotes(notes []*Note, f NoteFilter) []*Note {
	result := make([]*Note, 0, len(notes))
	for _, note := range notes {
		if f.Matches(note) {
			result = append(result, note)
		}
	}
	return result
}

// SortNotes orders notes in place. Pinned notes come first; within each
// group the order is by the given sort, newest first for timestamps.
func SortNotes(notes []*Note, by NoteSort) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch by {
		case SortCreated:
			return a.CreatedAt.After(b.CreatedAt)
		case SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
}

// SelectNotes filters then sorts, leaving the input slice untouched.
func SelectNotes(notes []*Note, f NoteFilter, by NoteSort) []*Note {
	result := FilterNotes(notes, f)
	SortNotes(result, by)
	return result
}

// ParseTags splits a comma-separated tag list, dropping blanks.
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
