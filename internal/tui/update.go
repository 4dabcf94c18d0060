package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ohare93/readhub/internal/compare"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/interaction"
	"github.com/ohare93/readhub/internal/optimistic"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == inputView {
			return m.handleInputKey(msg)
		}
		if m.mode == confirmDeleteView {
			return m.handleConfirmKey(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case papersLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load papers", msg.err)
			return m, nil
		}
		m.papers = msg.papers
		m.refreshListToggles()
		m.clampCursor()
		return m, nil

	case articlesLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load articles", msg.err)
			return m, nil
		}
		m.articles = msg.articles
		m.refreshListToggles()
		m.clampCursor()
		return m, nil

	case bookmarksLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load bookmarks", msg.err)
			return m, nil
		}
		m.bookmarks = msg.bookmarks
		m.refreshListToggles()
		m.clampCursor()
		return m, nil

	case notesLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load notes", msg.err)
			return m, nil
		}
		m.notes = msg.notes
		m.refreshNotes()
		return m, nil

	case paperLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load paper", msg.err)
			return m, nil
		}
		if !m.toggleLog.quiet(hub.KindPaper, msg.paper.ID, msg.mark) {
			return m, nil
		}
		if p := m.findPaper(msg.paper.ID); p != nil {
			p.Liked, p.LikeCount, p.Bookmarked = msg.paper.Liked, msg.paper.LikeCount, msg.paper.Bookmarked
		}
		if p := m.selectedPaper; p != nil && p.ID == msg.paper.ID {
			*p = *msg.paper
		}
		return m, nil

	case articleLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load article", msg.err)
			return m, nil
		}
		a := msg.article
		quiet := m.toggleLog.quiet(hub.KindArticle, a.ID, msg.mark)
		if row := m.findArticle(a.ID); row != nil && quiet {
			row.Liked, row.LikeCount, row.Bookmarked = a.Liked, a.LikeCount, a.Bookmarked
		}
		// The user may have left the view while the body loaded
		if sel := m.selectedArticle; m.mode == articleDetailView && sel != nil && sel.ID == a.ID {
			sel.Body = a.Body
			sel.UpdatedAt = a.UpdatedAt
			if quiet {
				sel.Liked, sel.LikeCount, sel.Bookmarked = a.Liked, a.LikeCount, a.Bookmarked
			}
		}
		return m, nil

	case annotationsLoadedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("load annotations", msg.err)
			return m, nil
		}
		if m.SelectedPaperID() == msg.paperID {
			m.annotations = msg.annotations
		}
		return m, nil

	case summaryMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("summarize", msg.err)
			return m, nil
		}
		if m.SelectedPaperID() == msg.summary.PaperID {
			m.summary = msg.summary
			m.message = "Summary ready"
		}
		return m, nil

	case compareDoneMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("compare", msg.err)
			return m, nil
		}
		m.comparison = msg.result
		m.mode = compareView
		m.addActivity(fmt.Sprintf("Compared %d papers", len(msg.result.Papers)))
		return m, nil

	case likeSettledMsg:
		return m.handleLikeSettled(msg)

	case bookmarkSettledMsg:
		return m.handleBookmarkSettled(msg)

	case noteSavedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("save note", msg.err)
			return m, nil
		}
		m.upsertNote(msg.note)
		if msg.created {
			m.message = fmt.Sprintf("Created note %q (e to edit body)", msg.note.Title)
		} else {
			m.message = fmt.Sprintf("Saved note %q", msg.note.Title)
		}
		m.addActivity(m.message)
		return m, nil

	case noteDeletedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("delete note", msg.err)
			return m, nil
		}
		for i, n := range m.notes {
			if n.ID == msg.noteID {
				m.notes = append(m.notes[:i], m.notes[i+1:]...)
				break
			}
		}
		m.refreshNotes()
		m.message = "Note deleted"
		m.addActivity("Deleted note " + msg.noteID)
		return m, nil

	case annotationSavedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.showError("annotate", msg.err)
			return m, nil
		}
		if m.SelectedPaperID() == msg.annotation.PaperID {
			m.annotations = append(m.annotations, msg.annotation)
		}
		m.message = "Annotation added"
		m.addActivity("Annotated " + msg.annotation.PaperID)
		return m, nil

	case editorResultMsg:
		return m.handleEditorResult(msg)

	case watcherEventMsg:
		m.addActivity(fmt.Sprintf("%s: %s", msg.event.Type, msg.event.Path))
		cmds := []tea.Cmd{reloadConfig(m.configOpt, m.newClient)}
		if m.fileWatcher != nil {
			cmds = append(cmds, listenForWatcherEvents(m.fileWatcher))
		}
		return m, tea.Batch(cmds...)

	case watcherErrorMsg:
		m.logger.Warn("config watcher error", "error", msg.err)
		if m.fileWatcher != nil {
			return m, listenForWatcherEvents(m.fileWatcher)
		}
		return m, nil

	case configReloadedMsg:
		if msg.err != nil {
			m.showError("reload config", msg.err)
			return m, nil
		}
		m.config = msg.config
		if msg.client != nil {
			m.client = msg.client
		}
		// Controls hold the old client and ordering option
		m.resetListToggles()
		if m.detailToggles != nil {
			m.detailToggles.Dispose()
			m.detailToggles = m.newToggleSet()
		}
		m.message = "Configuration reloaded"
		m.addActivity(m.message)
		m.logger.Info("configuration reloaded", "base_url", m.config.BaseURL)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.mode == listView && m.cursor > 0 {
			m.cursor--
			m.message = ""
		}
		return m, nil

	case "down", "j":
		if m.mode == listView && m.cursor < m.rowCount()-1 {
			m.cursor++
			m.message = ""
		}
		return m, nil

	case "tab":
		if m.mode == listView {
			return m.switchTab(m.tab.next())
		}
		return m, nil

	case "enter":
		if m.mode == listView {
			return m.openDetail()
		}
		return m, nil

	case "b", "esc":
		switch m.mode {
		case paperDetailView, articleDetailView:
			m.closeDetail()
			m.message = ""
		case compareView:
			m.comparison = nil
			m.mode = m.returnMode
			if m.mode == compareView {
				m.closeDetail()
			}
		case helpView:
			m.mode = m.returnMode
		case listView:
			if msg.String() == "esc" {
				return m, tea.Quit
			}
		}
		return m, nil

	case "?":
		if m.mode == helpView {
			m.mode = m.returnMode
		} else {
			m.returnMode = m.mode
			m.mode = helpView
		}
		return m, nil

	case "R":
		return m.refresh()

	case "l":
		return m.handleToggleLike()

	case "m":
		return m.handleToggleBookmark()

	case "/":
		if m.mode == listView {
			if m.tab == bookmarksTab {
				m.message = "Bookmarks cannot be searched"
				return m, nil
			}
			return m.startInput(inputSearch, m.currentSearch())
		}
		return m, nil

	case " ":
		if id := m.currentPaperID(); id != "" {
			if m.toggleMark(id) {
				m.message = fmt.Sprintf("Marked %s (%d marked)", id, len(m.marked))
			} else {
				m.message = fmt.Sprintf("Unmarked %s (%d marked)", id, len(m.marked))
			}
		}
		return m, nil

	case "c":
		if m.mode == listView && m.tab != papersTab {
			return m, nil
		}
		if m.mode != listView && m.mode != paperDetailView {
			return m, nil
		}
		if _, err := compare.Validate(m.marked); err != nil {
			m.message = "Mark papers with space first: " + err.Error()
			return m, nil
		}
		return m.startInput(inputCompareFocus, "")

	case "s":
		if m.mode == paperDetailView && m.selectedPaper != nil {
			m.startLoading()
			m.message = "Summarizing..."
			return m, summarize(m.client, m.selectedPaper.ID)
		}
		return m, nil

	case "a":
		if m.mode == paperDetailView && m.selectedPaper != nil {
			return m.startInput(inputAnnotation, "")
		}
		return m, nil

	case "n":
		if m.mode == listView || m.mode == paperDetailView || m.mode == articleDetailView {
			m.draftKind, m.draftEntity = m.noteTarget()
			return m.startInput(inputNoteTitle, "")
		}
		return m, nil

	case "e":
		if note := m.currentNote(); note != nil {
			return m, openEditorCmd(note, editorCommand(m.config.Editor))
		}
		return m, nil

	case "x":
		if m.currentNote() != nil {
			m.returnMode = m.mode
			m.mode = confirmDeleteView
		}
		return m, nil

	case "o":
		if m.mode == listView && m.tab == notesTab {
			m.noteSort = m.noteSort.Next()
			m.refreshNotes()
			m.message = "Sorted by " + string(m.noteSort)
		}
		return m, nil

	case "p":
		if m.mode == listView && m.tab == notesTab {
			m.noteFilter.PinnedOnly = !m.noteFilter.PinnedOnly
			m.refreshNotes()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		note := m.currentNote()
		m.mode = m.returnMode
		if note == nil {
			return m, nil
		}
		m.startLoading()
		return m, deleteNote(m.client, note.ID)
	case "n", "N", "esc":
		m.mode = m.returnMode
		m.message = "Cancelled"
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) switchTab(t tab) (tea.Model, tea.Cmd) {
	m.tab = t
	m.cursor = 0
	m.message = ""

	switch t {
	case papersTab:
		m.startLoading()
		return m, loadPapers(m.client, m.paperQuery())
	case articlesTab:
		m.startLoading()
		return m, loadArticles(m.client, m.articleQuery())
	case bookmarksTab:
		m.startLoading()
		return m, loadBookmarks(m.client)
	case notesTab:
		m.refreshNotes()
	}
	return m, nil
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.message = "Refreshing..."
	switch m.mode {
	case paperDetailView:
		if p := m.selectedPaper; p != nil {
			m.loading += 2
			return m, tea.Batch(
				loadAnnotations(m.client, p.ID),
				loadPaper(m.client, p.ID, m.toggleLog.mark(hub.KindPaper, p.ID)),
			)
		}
		return m, nil
	case articleDetailView:
		if a := m.selectedArticle; a != nil {
			m.startLoading()
			return m, loadArticle(m.client, a.ID, m.toggleLog.mark(hub.KindArticle, a.ID))
		}
		return m, nil
	}

	switch m.tab {
	case papersTab:
		m.startLoading()
		return m, loadPapers(m.client, m.paperQuery())
	case articlesTab:
		m.startLoading()
		return m, loadArticles(m.client, m.articleQuery())
	case bookmarksTab:
		m.startLoading()
		return m, loadBookmarks(m.client)
	}
	m.startLoading()
	return m, loadNotes(m.client)
}

// openDetail leaves the list for the selected paper or article. The list's
// controls are dropped and the detail view gets its own.
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	switch m.tab {
	case papersTab:
		if m.cursor >= len(m.papers) {
			return m, nil
		}
		return m.openPaper(m.papers[m.cursor])
	case articlesTab:
		if m.cursor >= len(m.articles) {
			return m, nil
		}
		return m.openArticle(m.articles[m.cursor])
	case bookmarksTab:
		if m.cursor >= len(m.bookmarks) {
			return m, nil
		}
		bm := m.bookmarks[m.cursor]
		switch bm.Kind {
		case hub.KindPaper:
			if p := m.findPaper(bm.EntityID); p != nil {
				return m.openPaper(p)
			}
			return m.openPaper(&hub.Paper{ID: bm.EntityID, Title: bm.Title, Bookmarked: true})
		case hub.KindArticle:
			if a := m.findArticle(bm.EntityID); a != nil {
				return m.openArticle(a)
			}
			return m.openArticle(&hub.Article{ID: bm.EntityID, Title: bm.Title, Bookmarked: true})
		}
	case notesTab:
		if note := m.currentNote(); note != nil {
			return m, openEditorCmd(note, editorCommand(m.config.Editor))
		}
	}
	return m, nil
}

func (m Model) openPaper(p *hub.Paper) (tea.Model, tea.Cmd) {
	m.listToggles.Dispose()
	m.detailToggles = m.newToggleSet()
	m.selectedPaper = p
	m.annotations = nil
	m.summary = nil
	m.mode = paperDetailView
	m.message = ""
	// The row may predate a toggle the hub has since applied
	m.loading += 2
	return m, tea.Batch(
		loadAnnotations(m.client, p.ID),
		loadPaper(m.client, p.ID, m.toggleLog.mark(hub.KindPaper, p.ID)),
	)
}

func (m Model) openArticle(a *hub.Article) (tea.Model, tea.Cmd) {
	m.listToggles.Dispose()
	m.detailToggles = m.newToggleSet()
	m.selectedArticle = a
	m.mode = articleDetailView
	m.message = ""
	m.startLoading()
	return m, loadArticle(m.client, a.ID, m.toggleLog.mark(hub.KindArticle, a.ID))
}

// activeToggles is the set owning the controls currently on screen
func (m Model) activeToggles() *interaction.Set {
	if m.mode == paperDetailView || m.mode == articleDetailView {
		return m.detailToggles
	}
	return m.listToggles
}

func (m Model) handleToggleLike() (tea.Model, tea.Cmd) {
	set := m.activeToggles()
	if set == nil {
		return m, nil
	}

	var like *interaction.Like
	switch {
	case m.mode == paperDetailView && m.selectedPaper != nil:
		p := m.selectedPaper
		like = set.Like(hub.KindPaper, p.ID, p.Liked, p.LikeCount)
	case m.mode == articleDetailView && m.selectedArticle != nil:
		a := m.selectedArticle
		like = set.Like(hub.KindArticle, a.ID, a.Liked, a.LikeCount)
	case m.mode == listView && m.tab == papersTab && m.cursor < len(m.papers):
		p := m.papers[m.cursor]
		like = set.Like(hub.KindPaper, p.ID, p.Liked, p.LikeCount)
	case m.mode == listView && m.tab == articlesTab && m.cursor < len(m.articles):
		a := m.articles[m.cursor]
		like = set.Like(hub.KindArticle, a.ID, a.Liked, a.LikeCount)
	case m.mode == listView && m.tab == bookmarksTab:
		m.message = "Open the bookmark to like it"
		return m, nil
	default:
		return m, nil
	}

	attempt := like.Begin()
	m.toggleLog.begin(like.Kind(), like.ID())
	verb := "Liked"
	if !attempt.Liked() {
		verb = "Unliked"
	}
	m.addActivity(fmt.Sprintf("%s %s %s", verb, like.Kind(), like.ID()))
	return m, toggleLike(attempt)
}

func (m Model) handleToggleBookmark() (tea.Model, tea.Cmd) {
	set := m.activeToggles()
	if set == nil {
		return m, nil
	}

	var bm *interaction.Bookmark
	switch {
	case m.mode == paperDetailView && m.selectedPaper != nil:
		bm = set.Bookmark(hub.KindPaper, m.selectedPaper.ID, m.selectedPaper.Bookmarked)
	case m.mode == articleDetailView && m.selectedArticle != nil:
		bm = set.Bookmark(hub.KindArticle, m.selectedArticle.ID, m.selectedArticle.Bookmarked)
	case m.mode == listView && m.tab == papersTab && m.cursor < len(m.papers):
		p := m.papers[m.cursor]
		bm = set.Bookmark(hub.KindPaper, p.ID, p.Bookmarked)
	case m.mode == listView && m.tab == articlesTab && m.cursor < len(m.articles):
		a := m.articles[m.cursor]
		bm = set.Bookmark(hub.KindArticle, a.ID, a.Bookmarked)
	case m.mode == listView && m.tab == bookmarksTab && m.cursor < len(m.bookmarks):
		b := m.bookmarks[m.cursor]
		bm = set.Bookmark(b.Kind, b.EntityID, true)
	default:
		return m, nil
	}

	attempt := bm.Begin()
	m.toggleLog.begin(bm.Kind(), bm.ID())
	verb := "Bookmarked"
	if !attempt.Bookmarked() {
		verb = "Removed bookmark on"
	}
	m.addActivity(fmt.Sprintf("%s %s %s", verb, bm.Kind(), bm.ID()))
	return m, toggleBookmark(attempt)
}

func (m Model) handleLikeSettled(msg likeSettledMsg) (tea.Model, tea.Cmd) {
	like := msg.attempt.Like()
	m.toggleLog.end(like.Kind(), like.ID())
	if err := msg.attempt.Finish(msg.count, msg.err); err != nil {
		m.showError("like "+like.ID(), unwrapReconcile(err))
	}

	// Rows outlive the control that toggled them, so what the hub
	// confirmed is recorded even after the control is disposed
	if liked, count, ok := msg.attempt.Confirmed(msg.count, msg.err); ok {
		m.recordLike(like.Kind(), like.ID(), liked, count)
	}
	if like.Disposed() || like.Pending() {
		return m, nil
	}
	m.recordLike(like.Kind(), like.ID(), like.Liked(), like.Count())
	return m, nil
}

// recordLike stores settled like state on the rows new controls are seeded
// from.
func (m *Model) recordLike(kind hub.EntityKind, id string, liked bool, count int) {
	switch kind {
	case hub.KindPaper:
		if p := m.findPaper(id); p != nil {
			p.Liked, p.LikeCount = liked, count
		}
		if p := m.selectedPaper; p != nil && p.ID == id {
			p.Liked, p.LikeCount = liked, count
		}
	case hub.KindArticle:
		if a := m.findArticle(id); a != nil {
			a.Liked, a.LikeCount = liked, count
		}
		if a := m.selectedArticle; a != nil && a.ID == id {
			a.Liked, a.LikeCount = liked, count
		}
	}
}

func (m Model) handleBookmarkSettled(msg bookmarkSettledMsg) (tea.Model, tea.Cmd) {
	bm := msg.attempt.Bookmark()
	m.toggleLog.end(bm.Kind(), bm.ID())
	if err := msg.attempt.Finish(msg.err); err != nil {
		m.showError("bookmark "+bm.ID(), unwrapReconcile(err))
	}

	if saved, ok := msg.attempt.Confirmed(msg.err); ok {
		m.recordBookmark(bm.Kind(), bm.ID(), saved)
	}
	if bm.Disposed() || bm.Pending() {
		return m, nil
	}
	m.recordBookmark(bm.Kind(), bm.ID(), bm.Bookmarked())
	return m, nil
}

func (m *Model) recordBookmark(kind hub.EntityKind, id string, saved bool) {
	switch kind {
	case hub.KindPaper:
		if p := m.findPaper(id); p != nil {
			p.Bookmarked = saved
		}
		if p := m.selectedPaper; p != nil && p.ID == id {
			p.Bookmarked = saved
		}
	case hub.KindArticle:
		if a := m.findArticle(id); a != nil {
			a.Bookmarked = saved
		}
		if a := m.selectedArticle; a != nil && a.ID == id {
			a.Bookmarked = saved
		}
	}
}

// unwrapReconcile shows the request failure rather than the rollback
// wrapper on the message line.
func unwrapReconcile(err error) error {
	var re *optimistic.ReconcileError
	if errors.As(err, &re) && re.Err != nil {
		return re.Err
	}
	return err
}

func (m Model) handleEditorResult(msg editorResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.showError("edit note", msg.err)
		return m, nil
	}
	if msg.cancelled {
		m.message = "Edit cancelled (no changes)"
		return m, nil
	}

	updated, err := yamlToNote(msg.editedYAML, msg.note)
	if err != nil {
		m.showError("edit note", err)
		return m, nil
	}
	m.startLoading()
	return m, updateNote(m.client, updated)
}

func (m Model) startInput(purpose inputPurpose, value string) (tea.Model, tea.Cmd) {
	m.returnMode = m.mode
	m.mode = inputView
	m.inputPurpose = purpose
	m.message = ""
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.autocomplete.Reset()

	switch purpose {
	case inputSearch:
		m.textInput.Placeholder = "text and #tags"
	case inputAnnotation:
		m.textInput.Placeholder = "quoted passage // comment"
	case inputNoteTitle:
		m.textInput.Placeholder = "title #tag"
	case inputCompareFocus:
		m.textInput.Placeholder = "focus (optional)"
	}

	return m, m.textInput.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.autocomplete.Active {
			m.autocomplete.Deactivate()
			return m, nil
		}
		return m.endInput(), nil

	case "tab":
		if m.autocomplete.Active && len(m.autocomplete.Suggestions) > 0 {
			m.applyCompletion()
		}
		return m, nil

	case "up":
		if m.autocomplete.Active {
			m.autocomplete.SelectPrev()
		}
		return m, nil

	case "down":
		if m.autocomplete.Active {
			m.autocomplete.SelectNext()
		}
		return m, nil

	case "enter":
		if m.autocomplete.Active && len(m.autocomplete.Suggestions) > 0 {
			m.applyCompletion()
			return m, nil
		}
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.inputPurpose == inputSearch || m.inputPurpose == inputNoteTitle {
		m.autocomplete.UpdateFromText(m.textInput.Value(), m.textInput.Position())
	}
	return m, cmd
}

func (m *Model) applyCompletion() {
	value := m.autocomplete.ApplyCompletion(m.textInput.Value())
	m.textInput.SetValue(value + " ")
	m.textInput.CursorEnd()
	m.autocomplete.Reset()
}

func (m Model) endInput() Model {
	m.mode = m.returnMode
	m.textInput.Blur()
	m.textInput.SetValue("")
	m.autocomplete.Reset()
	return m
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.textInput.Value())
	purpose := m.inputPurpose
	m = m.endInput()

	switch purpose {
	case inputSearch:
		return m.applySearch(value)

	case inputAnnotation:
		if value == "" || m.selectedPaper == nil {
			return m, nil
		}
		a := parseAnnotation(m.selectedPaper.ID, value)
		if err := hub.Validate(a); err != nil {
			m.showError("annotate", err)
			return m, nil
		}
		m.startLoading()
		return m, createAnnotation(m.client, a)

	case inputNoteTitle:
		title, tags := splitSearch(value)
		note := &hub.Note{Title: title, Tags: tags, EntityKind: m.draftKind, EntityID: m.draftEntity}
		if err := hub.Validate(note); err != nil {
			m.showError("create note", err)
			return m, nil
		}
		m.startLoading()
		return m, createNote(m.client, note)

	case inputCompareFocus:
		m.startLoading()
		m.message = fmt.Sprintf("Comparing %d papers...", len(m.marked))
		return m, runCompare(m.client, m.marked, value)
	}
	return m, nil
}

func (m Model) applySearch(value string) (tea.Model, tea.Cmd) {
	m.cursor = 0
	switch m.tab {
	case papersTab:
		m.paperSearch = value
		m.startLoading()
		return m, loadPapers(m.client, m.paperQuery())
	case articlesTab:
		m.articleTag = articleTagFromSearch(value)
		m.startLoading()
		return m, loadArticles(m.client, m.articleQuery())
	case notesTab:
		m.noteFilter = noteFilterFromSearch(value, m.noteFilter.PinnedOnly)
		m.refreshNotes()
	}
	return m, nil
}

// parseAnnotation reads "quote // comment".
func parseAnnotation(paperID, input string) *hub.Annotation {
	quote, comment, _ := strings.Cut(input, "//")
	return &hub.Annotation{
		PaperID: paperID,
		Quote:   strings.TrimSpace(quote),
		Comment: strings.TrimSpace(comment),
	}
}

func (m Model) articleQuery() hub.ArticleQuery {
	return hub.ArticleQuery{Tag: m.articleTag, Limit: m.config.PageSize}
}

func (m Model) currentSearch() string {
	switch m.tab {
	case papersTab:
		return m.paperSearch
	case articlesTab:
		if m.articleTag != "" {
			return "#" + m.articleTag
		}
	case notesTab:
		parts := []string{}
		if m.noteFilter.Query != "" {
			parts = append(parts, m.noteFilter.Query)
		}
		for _, t := range m.noteFilter.Tags {
			parts = append(parts, "#"+t)
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// currentNote is the note under the cursor on the notes tab
func (m Model) currentNote() *hub.Note {
	mode := m.mode
	if mode == confirmDeleteView || mode == inputView {
		mode = m.returnMode
	}
	if mode != listView || m.tab != notesTab || m.cursor >= len(m.visibleNotes) {
		return nil
	}
	return m.visibleNotes[m.cursor]
}

// currentPaperID is the paper in detail view or under the list cursor
func (m Model) currentPaperID() string {
	switch {
	case m.mode == paperDetailView && m.selectedPaper != nil:
		return m.selectedPaper.ID
	case m.mode == listView && m.tab == papersTab && m.cursor < len(m.papers):
		return m.papers[m.cursor].ID
	}
	return ""
}

// noteTarget is what a new note gets attached to
func (m Model) noteTarget() (hub.EntityKind, string) {
	switch {
	case m.mode == paperDetailView && m.selectedPaper != nil:
		return hub.KindPaper, m.selectedPaper.ID
	case m.mode == articleDetailView && m.selectedArticle != nil:
		return hub.KindArticle, m.selectedArticle.ID
	case m.mode != listView:
		return "", ""
	case m.tab == papersTab && m.cursor < len(m.papers):
		return hub.KindPaper, m.papers[m.cursor].ID
	case m.tab == articlesTab && m.cursor < len(m.articles):
		return hub.KindArticle, m.articles[m.cursor].ID
	case m.tab == bookmarksTab && m.cursor < len(m.bookmarks):
		return m.bookmarks[m.cursor].Kind, m.bookmarks[m.cursor].EntityID
	}
	return "", ""
}

func (m Model) findPaper(id string) *hub.Paper {
	for _, p := range m.papers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m Model) findArticle(id string) *hub.Article {
	for _, a := range m.articles {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *Model) upsertNote(note *hub.Note) {
	for i, n := range m.notes {
		if n.ID == note.ID {
			m.notes[i] = note
			m.refreshNotes()
			return
		}
	}
	m.notes = append(m.notes, note)
	m.refreshNotes()
}
