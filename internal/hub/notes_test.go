package hub

import (
	"reflect"
	"testing"
	"time"
)

func sampleNotes() []*Note {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*Note{
		{ID: "n1", Title: "attention is all you need", Body: "transformers", Tags: []string{"nlp"},
			EntityKind: KindPaper, EntityID: "1706.03762", CreatedAt: base, UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "n2", Title: "Diffusion notes", Body: "score matching and DDPM", Tags: []string{"vision", "generative"},
			CreatedAt: base.Add(1 * time.Hour), UpdatedAt: base.Add(1 * time.Hour)},
		{ID: "n3", Title: "bandits", Body: "UCB vs Thompson", Tags: []string{"RL"}, Pinned: true,
			CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "n4", Title: "Attention variants", Body: "linear attention", Tags: []string{"nlp", "efficiency"},
			EntityKind: KindArticle, EntityID: "a-9", CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(notes []*Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestFilterNotes(t *testing.T) {
	tests := []struct {
		name   string
		filter NoteFilter
		want   []string
	}{
		{"zero filter keeps all", NoteFilter{}, []string{"n1", "n2", "n3", "n4"}},
		{"query matches title case-insensitively", NoteFilter{Query: "ATTENTION"}, []string{"n1", "n4"}},
		{"query matches body", NoteFilter{Query: "thompson"}, []string{"n3"}},
		{"tags use OR", NoteFilter{Tags: []string{"rl", "generative"}}, []string{"n2", "n3"}},
		{"entity kind", NoteFilter{EntityKind: KindPaper}, []string{"n1"}},
		{"entity id", NoteFilter{EntityID: "a-9"}, []string{"n4"}},
		{"pinned only", NoteFilter{PinnedOnly: true}, []string{"n3"}},
		{"query and tag combine", NoteFilter{Query: "attention", Tags: []string{"efficiency"}}, []string{"n4"}},
		{"no match", NoteFilter{Query: "quantum"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterNotes(sampleNotes(), tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterNotes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortNotes(t *testing.T) {
	tests := []struct {
		by   NoteSort
		want []string
	}{
		{SortUpdated, []string{"n3", "n1", "n4", "n2"}},
		{SortCreated, []string{"n3", "n4", "n2", "n1"}},
		{SortTitle, []string{"n3", "n1", "n4", "n2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			notes := sampleNotes()
			SortNotes(notes, tt.by)
			if got := ids(notes); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortNotes(%s) = %v, want %v", tt.by, got, tt.want)
			}
		})
	}
}

func TestSelectNotesLeavesInputUntouched(t *testing.T) {
	notes := sampleNotes()
	got := SelectNotes(notes, NoteFilter{Tags: []string{"nlp"}}, SortTitle)

	if !reflect.DeepEqual(ids(got), []string{"n1", "n4"}) {
		t.Errorf("unexpected selection %v", ids(got))
	}
	if !reflect.DeepEqual(ids(notes), []string{"n1", "n2", "n3", "n4"}) {
		t.Errorf("input reordered: %v", ids(notes))
	}
}

func TestNoteSortCycle(t *testing.T) {
	if SortUpdated.Next() != SortCreated || SortCreated.Next() != SortTitle || SortTitle.Next() != SortUpdated {
		t.Error("sort cycle out of order")
	}
	if NoteSort("bogus").Next() != SortUpdated {
		t.Error("unknown sort should reset to updated")
	}
}

func TestParseNoteSort(t *testing.T) {
	for input, want := range map[string]NoteSort{"": SortUpdated, "Title": SortTitle, "created": SortCreated} {
		got, err := ParseNoteSort(input)
		if err != nil || got != want {
			t.Errorf("ParseNoteSort(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseNoteSort("random"); err == nil {
		t.Error("expected error for unknown sort")
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" nlp, ,vision ,, rl")
	if !reflect.DeepEqual(got, []string{"nlp", "vision", "rl"}) {
		t.Errorf("ParseTags() = %v", got)
	}
	if ParseTags("") != nil {
		t.Error("empty input should give nil")
	}
}
