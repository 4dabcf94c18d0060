package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ohare93/readhub/internal/compare"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/interaction"
	"github.com/ohare93/readhub/internal/optimistic"
	"github.com/ohare93/readhub/internal/watcher"
)

// Hub is the part of the API client the TUI uses.
type Hub interface {
	interaction.API
	compare.API

	ListPapers(ctx context.Context, q hub.PaperQuery) ([]*hub.Paper, error)
	SearchPapers(ctx context.Context, q hub.PaperQuery) ([]*hub.Paper, error)
	ListArticles(ctx context.Context, q hub.ArticleQuery) ([]*hub.Article, error)
	GetArticle(ctx context.Context, articleID string) (*hub.Article, error)
	ListBookmarks(ctx context.Context) ([]*hub.Bookmark, error)
	ListNotes(ctx context.Context) ([]*hub.Note, error)
	CreateNote(ctx context.Context, note *hub.Note) (*hub.Note, error)
	UpdateNote(ctx context.Context, note *hub.Note) (*hub.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
	ListAnnotations(ctx context.Context, paperID string) ([]*hub.Annotation, error)
	CreateAnnotation(ctx context.Context, a *hub.Annotation) (*hub.Annotation, error)
	Summarize(ctx context.Context, paperID string) (*hub.Summary, error)
}

type viewMode int

const (
	listView viewMode = iota
	paperDetailView
	articleDetailView
	compareView
	helpView
	confirmDeleteView
	inputView
)

// tab is the collection shown in list view
type tab int

const (
	papersTab tab = iota
	articlesTab
	bookmarksTab
	notesTab
)

var tabNames = []string{"Papers", "Articles", "Bookmarks", "Notes"}

func (t tab) String() string {
	return tabNames[t]
}

func (t tab) next() tab {
	return (t + 1) % tab(len(tabNames))
}

// inputPurpose says what the text input is collecting
type inputPurpose int

const (
	inputSearch inputPurpose = iota
	inputAnnotation
	inputNoteTitle
	inputCompareFocus
)

// ActivityEntry represents a log entry in the activity log
type ActivityEntry struct {
	Time    time.Time
	Message string
}

const maxActivity = 100

// Options configures the TUI model.
type Options struct {
	Client        Hub
	Config        *hub.Config
	ConfigOptions hub.ConfigOptions
	// NewClient rebuilds the client after the config file changes.
	NewClient func(cfg *hub.Config) (Hub, error)
	Watcher   *watcher.Watcher
	Logger    *slog.Logger
}

type Model struct {
	client    Hub
	config    *hub.Config
	configOpt hub.ConfigOptions
	newClient func(cfg *hub.Config) (Hub, error)
	logger    *slog.Logger

	// Data
	papers      []*hub.Paper
	articles    []*hub.Article
	bookmarks   []*hub.Bookmark
	notes       []*hub.Note
	annotations []*hub.Annotation
	summary     *hub.Summary
	comparison  *compare.Result

	// View state
	mode            viewMode
	returnMode      viewMode // where esc goes from help, input and confirm
	tab             tab
	cursor          int
	selectedPaper   *hub.Paper
	selectedArticle *hub.Article

	// Toggle cells live as long as the view that shows them
	listToggles   *interaction.Set
	detailToggles *interaction.Set
	toggleLog     toggleLedger

	// Filter state
	paperSearch  string
	articleTag   string
	noteFilter   hub.NoteFilter
	noteSort     hub.NoteSort
	marked       []string // paper ids marked for compare, in mark order
	visibleNotes []*hub.Note

	// Input state
	textInput    textinput.Model
	inputPurpose inputPurpose
	autocomplete *AutocompleteState
	draftKind    hub.EntityKind // attachment for the note being created
	draftEntity  string

	// UI state
	spinner     spinner.Model
	loading     int
	width       int
	height      int
	message     string
	err         error
	activityLog []ActivityEntry

	fileWatcher *watcher.Watcher
}

// New creates the root model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = hub.DefaultConfig()
	}

	m := Model{
		client:       opts.Client,
		config:       cfg,
		configOpt:    opts.ConfigOptions,
		newClient:    opts.NewClient,
		logger:       logger,
		mode:         listView,
		tab:          papersTab,
		noteSort:     hub.SortUpdated,
		textInput:    ti,
		autocomplete: NewAutocompleteState(hub.KnownTags()),
		spinner:      sp,
		activityLog:  make([]ActivityEntry, 0),
		fileWatcher:  opts.Watcher,
		toggleLog:    make(toggleLedger),
	}
	m.listToggles = m.newToggleSet()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		loadPapers(m.client, m.paperQuery()),
		loadNotes(m.client),
	}
	if m.fileWatcher != nil {
		cmds = append(cmds, listenForWatcherEvents(m.fileWatcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) newToggleSet() *interaction.Set {
	var opts []optimistic.Option
	if m.config != nil && m.config.StrictOrdering {
		opts = append(opts, optimistic.WithSequenceGuard())
	}
	return interaction.NewSet(m.client, opts...)
}

// resetListToggles drops the list's cells so rows are rebuilt from the
// latest server data.
func (m *Model) resetListToggles() {
	if m.listToggles != nil {
		m.listToggles.Dispose()
	}
	m.listToggles = m.newToggleSet()
}

// refreshListToggles rebuilds the list's controls after a reload unless a
// toggle is still waiting for the hub.
func (m *Model) refreshListToggles() {
	if m.mode != listView || m.listToggles.Pending() {
		return
	}
	m.resetListToggles()
}

// closeDetail disposes the detail view's cells and returns to the list.
func (m *Model) closeDetail() {
	if m.detailToggles != nil {
		m.detailToggles.Dispose()
		m.detailToggles = nil
	}
	m.selectedPaper = nil
	m.selectedArticle = nil
	m.annotations = nil
	m.summary = nil
	m.comparison = nil
	m.mode = listView
	m.resetListToggles()
}

// toggleLedger counts like and bookmark toggles per entity so a fetch that
// raced a toggle does not overwrite the state the toggle settled.
type toggleLedger map[string]*toggleTally

type toggleTally struct {
	begun int
	open  int
}

func ledgerKey(kind hub.EntityKind, id string) string {
	return string(kind) + "/" + id
}

func (l toggleLedger) tally(kind hub.EntityKind, id string) *toggleTally {
	k := ledgerKey(kind, id)
	t, ok := l[k]
	if !ok {
		t = &toggleTally{}
		l[k] = t
	}
	return t
}

func (l toggleLedger) begin(kind hub.EntityKind, id string) {
	t := l.tally(kind, id)
	t.begun++
	t.open++
}

func (l toggleLedger) end(kind hub.EntityKind, id string) {
	if t := l.tally(kind, id); t.open > 0 {
		t.open--
	}
}

// mark is taken when a fetch is sent. It is -1 while a toggle is in
// flight, since the hub may answer the fetch before applying the toggle.
func (l toggleLedger) mark(kind hub.EntityKind, id string) int {
	t := l.tally(kind, id)
	if t.open > 0 {
		return -1
	}
	return t.begun
}

// quiet reports whether no toggle has started or is in flight since mark.
func (l toggleLedger) quiet(kind hub.EntityKind, id string, mark int) bool {
	t := l.tally(kind, id)
	return mark >= 0 && t.open == 0 && t.begun == mark
}

// addActivity adds an entry to the activity log
func (m *Model) addActivity(msg string) {
	entry := ActivityEntry{
		Time:    time.Now(),
		Message: msg,
	}
	if len(m.activityLog) >= maxActivity {
		m.activityLog = m.activityLog[1:]
	}
	m.activityLog = append(m.activityLog, entry)
}

// showError sets the message line and logs the failure
func (m *Model) showError(action string, err error) {
	m.message = "Error: " + err.Error()
	m.addActivity(action + " failed: " + err.Error())
	m.logger.Warn("tui action failed", "action", action, "error", err)
}

func (m *Model) startLoading() {
	m.loading++
}

func (m *Model) doneLoading() {
	if m.loading > 0 {
		m.loading--
	}
}

func (m Model) paperQuery() hub.PaperQuery {
	q := parseSearch(m.paperSearch)
	q.Limit = m.config.PageSize
	return q
}

// rowCount returns how many rows the current tab shows
func (m Model) rowCount() int {
	switch m.tab {
	case papersTab:
		return len(m.papers)
	case articlesTab:
		return len(m.articles)
	case bookmarksTab:
		return len(m.bookmarks)
	case notesTab:
		return len(m.visibleNotes)
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshNotes() {
	filter := m.noteFilter
	m.visibleNotes = hub.SelectNotes(m.notes, filter, m.noteSort)

	var tags []string
	for _, n := range m.notes {
		tags = append(tags, n.Tags...)
	}
	m.autocomplete.SetTags(append(tags, hub.KnownTags()...))
	if m.tab == notesTab {
		m.clampCursor()
	}
}

func (m Model) isMarked(paperID string) bool {
	for _, id := range m.marked {
		if id == paperID {
			return true
		}
	}
	return false
}

func (m *Model) toggleMark(paperID string) bool {
	for i, id := range m.marked {
		if id == paperID {
			m.marked = append(m.marked[:i], m.marked[i+1:]...)
			return false
		}
	}
	m.marked = append(m.marked, paperID)
	return true
}

// SelectedPaperID returns the id of the paper open in detail view, if any
func (m Model) SelectedPaperID() string {
	if m.selectedPaper != nil {
		return m.selectedPaper.ID
	}
	return ""
}
