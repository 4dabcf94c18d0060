package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubapi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	notesTagsFlag   string
	notesPinnedOnly bool
	notesSortFlag   string
	notesQueryFlag  string
	notesKindFlag   string
	notesIDFlag     string

	noteBodyFlag   string
	noteTagsFlag   string
	notePinFlag    bool
	noteUnpinFlag  bool
	noteAttachFlag string
	noteTitleFlag  string

	noteYesFlag bool

	exportOutputFlag string
	exportFormatFlag string
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	Aliases: []string{"note", "n"},
	Short:   "Manage notes",
	Long: `Manage notes. Notes are free-form text, optionally attached to a paper
or article, with tags and a pinned flag.

Commands:
  notes list [--tags a,b] [--pinned] [--sort updated|created|title]
  notes add <title> [--body text] [--tags a,b] [--pin] [--attach paper/<id>]
  notes edit <id> [--title t] [--body text] [--tags a,b] [--pin|--unpin]
  notes delete <id> [--yes]
  notes export [--output file] [--format yaml|json]

Note IDs may be shortened to any unique prefix.`,
	RunE: runNotesList,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Args:  cobra.NoArgs,
	RunE:  runNotesList,
}

var notesAddCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Create a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNotesAdd,
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Change a note's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesEdit,
}

var notesDeleteCmd = &cobra.Command{
	Use:     "delete <note-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE:    runNotesDelete,
}

var notesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runNotesExport,
}

func noteFilterFromFlags() (hub.NoteFilter, hub.NoteSort, error) {
	by, err := hub.ParseNoteSort(notesSortFlag)
	if err != nil {
		return hub.NoteFilter{}, "", err
	}
	filter := hub.NoteFilter{
		Query:      notesQueryFlag,
		Tags:       hub.ParseTags(notesTagsFlag),
		EntityID:   notesIDFlag,
		PinnedOnly: notesPinnedOnly,
	}
	if notesKindFlag != "" {
		kind, err := hub.ParseKind(notesKindFlag)
		if err != nil {
			return hub.NoteFilter{}, "", err
		}
		filter.EntityKind = kind
	}
	return filter, by, nil
}

func runNotesList(cmd *cobra.Command, args []string) error {
	filter, by, err := noteFilterFromFlags()
	if err != nil {
		return err
	}

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	notes, err := env.client.ListNotes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	notes = hub.SelectNotes(notes, filter, by)

	if GlobalOpts.JSON {
		return printJSON(cmd, notes)
	}

	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		if filter.IsZero() {
			fmt.Fprintln(out, StyleDim.Render("No notes yet. Add one with: readhub notes add <title>"))
		} else {
			fmt.Fprintln(out, StyleDim.Render("No notes match the filter"))
		}
		return nil
	}
	for _, n := range notes {
		printNoteLine(out, n)
	}
	return nil
}

func printNoteLine(out io.Writer, n *hub.Note) {
	pin := " "
	if n.Pinned {
		pin = StylePinned.Render("📌")
	}
	line := fmt.Sprintf("%s %s  %s", pin, StyleID.Render(shortID(n.ID)), n.Title)
	if n.EntityID != "" {
		line += " " + StyleDim.Render("→ "+string(n.EntityKind)+"/"+n.EntityID)
	}
	if len(n.Tags) > 0 {
		line += " " + StyleCategory.Render("#"+strings.Join(n.Tags, " #"))
	}
	fmt.Fprintln(out, line)
}

// shortID trims server UUIDs for display. Any unique prefix resolves back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveNote finds a note by full ID or unique ID prefix.
func resolveNote(ctx context.Context, client *hubapi.Client, ref string) (*hub.Note, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("note ID must not be empty")
	}
	notes, err := client.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var matches []*hub.Note
	for _, n := range notes {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("note not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, n := range matches {
		ids[i] = n.ID
	}
	return nil, fmt.Errorf("ambiguous note ID %q matches: %s", ref, strings.Join(ids, ", "))
}

// parseAttach reads "paper/<id>" or "article/<id>".
func parseAttach(s string) (hub.EntityKind, string, error) {
	kindPart, id, ok := strings.Cut(s, "/")
	if !ok || id == "" {
		return "", "", fmt.Errorf("--attach must look like paper/<id> or article/<id>, got %q", s)
	}
	kind, err := hub.ParseKind(kindPart)
	if err != nil {
		return "", "", err
	}
	return kind, id, nil
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	note := &hub.Note{
		Title:  strings.TrimSpace(strings.Join(args, " ")),
		Body:   noteBodyFlag,
		Tags:   hub.ParseTags(noteTagsFlag),
		Pinned: notePinFlag,
	}
	if noteAttachFlag != "" {
		kind, id, err := parseAttach(noteAttachFlag)
		if err != nil {
			return err
		}
		note.EntityKind, note.EntityID = kind, id
	}
	if err := hub.Validate(note); err != nil {
		return err
	}

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	created, err := env.client.CreateNote(cmd.Context(), note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	env.logger.Info("note created", "id", created.ID)

	if GlobalOpts.JSON {
		return printJSON(cmd, created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created note %s: %s\n",
		StyleSuccess.Render("✓"), StyleID.Render(shortID(created.ID)), created.Title)
	return nil
}

func runNotesEdit(cmd *cobra.Command, args []string) error {
	if notePinFlag && noteUnpinFlag {
		return fmt.Errorf("--pin and --unpin cannot be used together")
	}
	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("body") && !flags.Changed("tags") && !notePinFlag && !noteUnpinFlag {
		return fmt.Errorf("nothing to change; use --title, --body, --tags, --pin or --unpin")
	}

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	note, err := resolveNote(cmd.Context(), env.client, args[0])
	if err != nil {
		return err
	}

	updated := *note
	if flags.Changed("title") {
		updated.Title = strings.TrimSpace(noteTitleFlag)
	}
	if flags.Changed("body") {
		updated.Body = noteBodyFlag
	}
	if flags.Changed("tags") {
		updated.Tags = hub.ParseTags(noteTagsFlag)
	}
	if notePinFlag {
		updated.Pinned = true
	}
	if noteUnpinFlag {
		updated.Pinned = false
	}
	if err := hub.Validate(&updated); err != nil {
		return err
	}

	saved, err := env.client.UpdateNote(cmd.Context(), &updated)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	env.logger.Info("note updated", "id", saved.ID)

	if GlobalOpts.JSON {
		return printJSON(cmd, saved)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Updated note %s: %s\n",
		StyleSuccess.Render("✓"), StyleID.Render(shortID(saved.ID)), saved.Title)
	return nil
}

func runNotesDelete(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	note, err := resolveNote(cmd.Context(), env.client, args[0])
	if err != nil {
		return err
	}

	confirmed, err := confirmOrYes(noteYesFlag, fmt.Sprintf("Delete note %q?", note.Title))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}

	if err := env.client.DeleteNote(cmd.Context(), note.ID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	env.logger.Info("note deleted", "id", note.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted note %s\n", StyleSuccess.Render("✓"), StyleID.Render(shortID(note.ID)))
	return nil
}

// noteExport is the on-disk shape of an exported note.
type noteExport struct {
	ID       string    `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	Attached string    `yaml:"attached,omitempty" json:"attached,omitempty"`
	Tags     []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	Pinned   bool      `yaml:"pinned" json:"pinned"`
	Created  time.Time `yaml:"created" json:"created"`
	Updated  time.Time `yaml:"updated" json:"updated"`
	Body     string    `yaml:"body" json:"body"`
}

type notesExport struct {
	ExportedAt time.Time    `yaml:"exported_at" json:"exported_at"`
	Count      int          `yaml:"count" json:"count"`
	Notes      []noteExport `yaml:"notes" json:"notes"`
}

func buildExport(notes []*hub.Note, now time.Time) notesExport {
	export := notesExport{ExportedAt: now.UTC(), Count: len(notes), Notes: make([]noteExport, 0, len(notes))}
	for _, n := range notes {
		e := noteExport{
			ID:      n.ID,
			Title:   n.Title,
			Tags:    n.Tags,
			Pinned:  n.Pinned,
			Created: n.CreatedAt,
			Updated: n.UpdatedAt,
			Body:    n.Body,
		}
		if n.EntityID != "" {
			e.Attached = string(n.EntityKind) + "/" + n.EntityID
		}
		export.Notes = append(export.Notes, e)
	}
	return export
}

func encodeExport(export notesExport, format string) ([]byte, error) {
	switch format {
	case "", "yaml", "yml":
		return yaml.Marshal(&export)
	case "json":
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("invalid format %q (must be yaml or json)", format)
}

func runNotesExport(cmd *cobra.Command, args []string) error {
	filter, by, err := noteFilterFromFlags()
	if err != nil {
		return err
	}

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	notes, err := env.client.ListNotes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	notes = hub.SelectNotes(notes, filter, by)

	data, err := encodeExport(buildExport(notes, time.Now()), strings.ToLower(exportFormatFlag))
	if err != nil {
		return err
	}

	if exportOutputFlag == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutputFlag, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d notes to %s\n", StyleSuccess.Render("✓"), len(notes), exportOutputFlag)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{notesCmd, notesListCmd, notesExportCmd} {
		c.Flags().StringVar(&notesTagsFlag, "tags", "", "Only notes with any of these comma-separated tags")
		c.Flags().BoolVar(&notesPinnedOnly, "pinned", false, "Only pinned notes")
		c.Flags().StringVar(&notesSortFlag, "sort", "updated", "Sort by updated, created or title")
		c.Flags().StringVarP(&notesQueryFlag, "query", "q", "", "Only notes whose title or body contains this text")
		c.Flags().StringVar(&notesKindFlag, "kind", "", "Only notes attached to papers or articles")
		c.Flags().StringVar(&notesIDFlag, "id", "", "Only notes attached to this paper or article ID")
	}

	notesAddCmd.Flags().StringVar(&noteBodyFlag, "body", "", "Note body")
	notesAddCmd.Flags().StringVar(&noteTagsFlag, "tags", "", "Comma-separated tags")
	notesAddCmd.Flags().BoolVar(&notePinFlag, "pin", false, "Pin the note")
	notesAddCmd.Flags().StringVar(&noteAttachFlag, "attach", "", "Attach to paper/<id> or article/<id>")

	notesEditCmd.Flags().StringVar(&noteTitleFlag, "title", "", "New title")
	notesEditCmd.Flags().StringVar(&noteBodyFlag, "body", "", "New body")
	notesEditCmd.Flags().StringVar(&noteTagsFlag, "tags", "", "Replace tags (comma-separated, empty clears)")
	notesEditCmd.Flags().BoolVar(&notePinFlag, "pin", false, "Pin the note")
	notesEditCmd.Flags().BoolVar(&noteUnpinFlag, "unpin", false, "Unpin the note")

	notesDeleteCmd.Flags().BoolVarP(&noteYesFlag, "yes", "y", false, "Skip confirmation")

	notesExportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Write to a file instead of stdout")
	notesExportCmd.Flags().StringVar(&exportFormatFlag, "format", "yaml", "yaml or json")

	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesEditCmd)
	notesCmd.AddCommand(notesDeleteCmd)
	notesCmd.AddCommand(notesExportCmd)
	rootCmd.AddCommand(notesCmd)
}
