package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ohare93/readhub/internal/hub"
	"gopkg.in/yaml.v3"
)

// NoteYAML is the YAML-editable representation of a note
type NoteYAML struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Pinned   bool     `yaml:"pinned"`
	Tags     []string `yaml:"tags,omitempty"`
	Attached string   `yaml:"attached,omitempty"` // kind/id, read-only
	Body     string   `yaml:"body"`
}

// noteToYAML converts a note to YAML format for editing
func noteToYAML(note *hub.Note) (string, error) {
	yamlNote := NoteYAML{
		ID:     note.ID,
		Title:  note.Title,
		Pinned: note.Pinned,
		Tags:   note.Tags,
		Body:   note.Body,
	}
	if note.EntityKind != "" {
		yamlNote.Attached = string(note.EntityKind) + "/" + note.EntityID
	}

	data, err := yaml.Marshal(&yamlNote)
	if err != nil {
		return "", fmt.Errorf("failed to marshal note to YAML: %w", err)
	}

	header := `# Edit the note below
# id and attached are read-only
# Save and close editor to apply changes
# Close without saving to cancel

`
	return header + string(data), nil
}

// yamlToNote parses edited YAML and applies changes to a copy of note
func yamlToNote(yamlContent string, note *hub.Note) (*hub.Note, error) {
	var yamlNote NoteYAML
	if err := yaml.Unmarshal([]byte(yamlContent), &yamlNote); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	updated := *note
	updated.Title = strings.TrimSpace(yamlNote.Title)
	updated.Body = strings.TrimRight(yamlNote.Body, "\n")
	updated.Pinned = yamlNote.Pinned
	updated.Tags = nil
	for _, tag := range yamlNote.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			updated.Tags = append(updated.Tags, tag)
		}
	}

	if err := hub.Validate(&updated); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}
	return &updated, nil
}

// editorResultMsg is the message returned after editor closes
type editorResultMsg struct {
	note       *hub.Note
	editedYAML string
	cancelled  bool
	err        error
}

// editorCommand picks the editor: config first, then $EDITOR, then vi.
func editorCommand(configured string) string {
	if configured != "" {
		return configured
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}

// openEditorCmd creates a tea.Cmd that opens an external editor for a note
func openEditorCmd(note *hub.Note, editor string) tea.Cmd {
	yamlContent, err := noteToYAML(note)
	if err != nil {
		return func() tea.Msg {
			return editorResultMsg{note: note, err: err}
		}
	}

	tmpFile, err := os.CreateTemp("", "readhub-note-*.yaml")
	if err != nil {
		return func() tea.Msg {
			return editorResultMsg{note: note, err: fmt.Errorf("failed to create temp file: %w", err)}
		}
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(yamlContent); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return func() tea.Msg {
			return editorResultMsg{note: note, err: fmt.Errorf("failed to write temp file: %w", err)}
		}
	}
	tmpFile.Close()

	editorParts := strings.Fields(editor)
	editorCmd := exec.Command(editorParts[0], append(editorParts[1:], tmpPath)...)

	// tea.ExecProcess suspends the TUI while the editor owns the terminal
	return tea.ExecProcess(editorCmd, func(err error) tea.Msg {
		defer os.Remove(tmpPath)

		if err != nil {
			return editorResultMsg{note: note, err: fmt.Errorf("editor failed: %w", err)}
		}

		editedContent, err := os.ReadFile(tmpPath)
		if err != nil {
			return editorResultMsg{note: note, err: fmt.Errorf("failed to read edited file: %w", err)}
		}

		if string(editedContent) == yamlContent {
			return editorResultMsg{note: note, cancelled: true}
		}

		return editorResultMsg{
			note:       note,
			editedYAML: string(editedContent),
		}
	})
}
