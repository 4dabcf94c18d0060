package hubapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ohare93/readhub/internal/hub"
)

// Papers

// ListPapers returns a page of papers, optionally restricted to categories.
func (c *Client) ListPapers(ctx context.Context, q hub.PaperQuery) ([]*hub.Paper, error) {
	return call[[]*hub.Paper](ctx, c, http.MethodGet, apiPath("papers"), pageQuery(q.Page, q.Limit, "categories", strings.Join(q.Categories, ",")), nil)
}

// SearchPapers runs a full-text search over papers.
func (c *Client) SearchPapers(ctx context.Context, q hub.PaperQuery) ([]*hub.Paper, error) {
	query := pageQuery(q.Page, q.Limit, "categories", strings.Join(q.Categories, ","))
	query.Set("q", q.Query)
	return call[[]*hub.Paper](ctx, c, http.MethodGet, apiPath("search", "papers"), query, nil)
}

// GetPaper fetches one paper by arXiv id.
func (c *Client) GetPaper(ctx context.Context, paperID string) (*hub.Paper, error) {
	return call[*hub.Paper](ctx, c, http.MethodGet, apiPath("papers", paperID), nil, nil)
}

// Articles

// ListArticles returns a page of articles, optionally with one tag.
func (c *Client) ListArticles(ctx context.Context, q hub.ArticleQuery) ([]*hub.Article, error) {
	return call[[]*hub.Article](ctx, c, http.MethodGet, apiPath("articles"), pageQuery(q.Page, q.Limit, "tag", q.Tag), nil)
}

// GetArticle fetches one article.
func (c *Client) GetArticle(ctx context.Context, articleID string) (*hub.Article, error) {
	return call[*hub.Article](ctx, c, http.MethodGet, apiPath("articles", articleID), nil, nil)
}

// Likes and bookmarks

// ToggleLike flips the acting user's like on an entity and returns the new
// authoritative like count.
//
// A success without a count is an invalid response, so the caller rolls
// back rather than showing zero.
func (c *Client) ToggleLike(ctx context.Context, kind hub.EntityKind, entityID string) (int, error) {
	path := apiPath(kind.Plural(), entityID, "like")
	res, err := call[*likeReply](ctx, c, http.MethodPost, path, nil, nil)
	if err != nil {
		return 0, err
	}
	if res == nil || res.Count == nil {
		return 0, &Error{Kind: KindInvalidResponse, Method: http.MethodPost, Path: path, Message: "like response carried no count"}
	}
	return *res.Count, nil
}

// likeReply is hub.LikeResult with the count's presence kept.
type likeReply struct {
	Count *int `json:"count"`
	Liked bool `json:"liked"`
}

// ToggleBookmark flips the acting user's bookmark on an entity.
func (c *Client) ToggleBookmark(ctx context.Context, kind hub.EntityKind, entityID string) error {
	_, err := call[hub.BookmarkResult](ctx, c, http.MethodPost, apiPath(kind.Plural(), entityID, "bookmark"), nil, nil)
	return err
}

// ListBookmarks returns the acting user's bookmarks, newest first.
func (c *Client) ListBookmarks(ctx context.Context) ([]*hub.Bookmark, error) {
	return call[[]*hub.Bookmark](ctx, c, http.MethodGet, apiPath("bookmarks"), nil, nil)
}

// Notes

// ListNotes returns all of the acting user's notes. Filtering and sorting
// happen client side (see hub.SelectNotes).
func (c *Client) ListNotes(ctx context.Context) ([]*hub.Note, error) {
	return call[[]*hub.Note](ctx, c, http.MethodGet, apiPath("notes"), nil, nil)
}

// CreateNote stores a new note and returns it with id and timestamps.
func (c *Client) CreateNote(ctx context.Context, note *hub.Note) (*hub.Note, error) {
	return call[*hub.Note](ctx, c, http.MethodPost, apiPath("notes"), nil, note)
}

// UpdateNote replaces an existing note.
func (c *Client) UpdateNote(ctx context.Context, note *hub.Note) (*hub.Note, error) {
	return call[*hub.Note](ctx, c, http.MethodPut, apiPath("notes", note.ID), nil, note)
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, apiPath("notes", noteID), nil, nil)
	return err
}

// Annotations

// ListAnnotations returns the annotations on a paper.
func (c *Client) ListAnnotations(ctx context.Context, paperID string) ([]*hub.Annotation, error) {
	return call[[]*hub.Annotation](ctx, c, http.MethodGet, apiPath("papers", paperID, "annotations"), nil, nil)
}

// CreateAnnotation adds an annotation to the paper named in a.PaperID.
func (c *Client) CreateAnnotation(ctx context.Context, a *hub.Annotation) (*hub.Annotation, error) {
	return call[*hub.Annotation](ctx, c, http.MethodPost, apiPath("papers", a.PaperID, "annotations"), nil, a)
}

// DeleteAnnotation removes an annotation.
func (c *Client) DeleteAnnotation(ctx context.Context, annotationID string) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, apiPath("annotations", annotationID), nil, nil)
	return err
}

// AI

// Summarize asks the hub for an AI summary of a paper.
func (c *Client) Summarize(ctx context.Context, paperID string) (*hub.Summary, error) {
	return call[*hub.Summary](ctx, c, http.MethodPost, apiPath("papers", paperID, "summary"), nil, nil)
}

type compareRequest struct {
	PaperIDs []string `json:"paper_ids"`
	Focus    string   `json:"focus,omitempty"`
}

// Compare asks the hub for an AI comparison of several papers.
func (c *Client) Compare(ctx context.Context, paperIDs []string, focus string) (*hub.Comparison, error) {
	return call[*hub.Comparison](ctx, c, http.MethodPost, apiPath("compare"), nil, compareRequest{PaperIDs: paperIDs, Focus: focus})
}

func pageQuery(page, limit int, key, value string) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if value != "" {
		q.Set(key, value)
	}
	return q
}
