package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ohare93/readhub/internal/compare"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/interaction"
	"github.com/ohare93/readhub/internal/watcher"
)

type papersLoadedMsg struct {
	papers []*hub.Paper
	err    error
}

func loadPapers(client Hub, q hub.PaperQuery) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var papers []*hub.Paper
		var err error
		if q.Query != "" {
			papers, err = client.SearchPapers(ctx, q)
		} else {
			papers, err = client.ListPapers(ctx, q)
		}
		return papersLoadedMsg{papers: papers, err: err}
	}
}

type articlesLoadedMsg struct {
	articles []*hub.Article
	err      error
}

func loadArticles(client Hub, q hub.ArticleQuery) tea.Cmd {
	return func() tea.Msg {
		articles, err := client.ListArticles(context.Background(), q)
		return articlesLoadedMsg{articles: articles, err: err}
	}
}

type bookmarksLoadedMsg struct {
	bookmarks []*hub.Bookmark
	err       error
}

func loadBookmarks(client Hub) tea.Cmd {
	return func() tea.Msg {
		bookmarks, err := client.ListBookmarks(context.Background())
		return bookmarksLoadedMsg{bookmarks: bookmarks, err: err}
	}
}

type notesLoadedMsg struct {
	notes []*hub.Note
	err   error
}

func loadNotes(client Hub) tea.Cmd {
	return func() tea.Msg {
		notes, err := client.ListNotes(context.Background())
		return notesLoadedMsg{notes: notes, err: err}
	}
}

type annotationsLoadedMsg struct {
	paperID     string
	annotations []*hub.Annotation
	err         error
}

func loadAnnotations(client Hub, paperID string) tea.Cmd {
	return func() tea.Msg {
		annotations, err := client.ListAnnotations(context.Background(), paperID)
		return annotationsLoadedMsg{paperID: paperID, annotations: annotations, err: err}
	}
}

// mark carries the toggle ledger position at the time the fetch was sent.
type paperLoadedMsg struct {
	paper *hub.Paper
	mark  int
	err   error
}

func loadPaper(client Hub, paperID string, mark int) tea.Cmd {
	return func() tea.Msg {
		paper, err := client.GetPaper(context.Background(), paperID)
		return paperLoadedMsg{paper: paper, mark: mark, err: err}
	}
}

type articleLoadedMsg struct {
	article *hub.Article
	mark    int
	err     error
}

func loadArticle(client Hub, articleID string, mark int) tea.Cmd {
	return func() tea.Msg {
		article, err := client.GetArticle(context.Background(), articleID)
		return articleLoadedMsg{article: article, mark: mark, err: err}
	}
}

type summaryMsg struct {
	summary *hub.Summary
	err     error
}

func summarize(client Hub, paperID string) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.Summarize(context.Background(), paperID)
		return summaryMsg{summary: summary, err: err}
	}
}

type compareDoneMsg struct {
	result *compare.Result
	err    error
}

func runCompare(client Hub, paperIDs []string, focus string) tea.Cmd {
	return func() tea.Msg {
		result, err := compare.Run(context.Background(), client, paperIDs, focus)
		return compareDoneMsg{result: result, err: err}
	}
}

// Toggle outcomes carry the attempt so Update can settle it on the loop.
type likeSettledMsg struct {
	attempt *interaction.LikeAttempt
	count   int
	err     error
}

func toggleLike(attempt *interaction.LikeAttempt) tea.Cmd {
	return func() tea.Msg {
		count, err := attempt.Call(context.Background())
		return likeSettledMsg{attempt: attempt, count: count, err: err}
	}
}

type bookmarkSettledMsg struct {
	attempt *interaction.BookmarkAttempt
	err     error
}

func toggleBookmark(attempt *interaction.BookmarkAttempt) tea.Cmd {
	return func() tea.Msg {
		err := attempt.Call(context.Background())
		return bookmarkSettledMsg{attempt: attempt, err: err}
	}
}

type noteSavedMsg struct {
	note    *hub.Note
	created bool
	err     error
}

func createNote(client Hub, note *hub.Note) tea.Cmd {
	return func() tea.Msg {
		saved, err := client.CreateNote(context.Background(), note)
		return noteSavedMsg{note: saved, created: true, err: err}
	}
}

func updateNote(client Hub, note *hub.Note) tea.Cmd {
	return func() tea.Msg {
		saved, err := client.UpdateNote(context.Background(), note)
		return noteSavedMsg{note: saved, err: err}
	}
}

type noteDeletedMsg struct {
	noteID string
	err    error
}

func deleteNote(client Hub, noteID string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteNote(context.Background(), noteID)
		return noteDeletedMsg{noteID: noteID, err: err}
	}
}

type annotationSavedMsg struct {
	annotation *hub.Annotation
	err        error
}

func createAnnotation(client Hub, a *hub.Annotation) tea.Cmd {
	return func() tea.Msg {
		saved, err := client.CreateAnnotation(context.Background(), a)
		return annotationSavedMsg{annotation: saved, err: err}
	}
}

// Config reload
type configReloadedMsg struct {
	config *hub.Config
	client Hub
	err    error
}

func reloadConfig(opts hub.ConfigOptions, newClient func(*hub.Config) (Hub, error)) tea.Cmd {
	return func() tea.Msg {
		cfg, err := hub.ReadConfigWithOptions(opts)
		if err != nil {
			return configReloadedMsg{err: err}
		}
		if newClient == nil {
			return configReloadedMsg{config: cfg}
		}
		client, err := newClient(cfg)
		if err != nil {
			return configReloadedMsg{err: err}
		}
		return configReloadedMsg{config: cfg, client: client}
	}
}

// Watcher event messages
type watcherEventMsg struct {
	event watcher.Event
}

type watcherErrorMsg struct {
	err error
}

// listenForWatcherEvents creates a command that listens for watcher events
func listenForWatcherEvents(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-w.Events:
			return watcherEventMsg{event: event}
		case err := <-w.Errors:
			return watcherErrorMsg{err: err}
		}
	}
}
