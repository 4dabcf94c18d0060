package hub

import (
	"fmt"
	"time"
)

// EntityKind identifies what a like, bookmark or note points at.
type EntityKind string

const (
	KindPaper   EntityKind = "paper"
	KindArticle EntityKind = "article"
)

// ValidateKind reports whether kind is a known entity kind.
func ValidateKind(kind string) bool {
	switch EntityKind(kind) {
	case KindPaper, KindArticle:
		return true
	}
	return false
}

// ParseKind converts user input ("paper", "papers", "article", ...) to an
// EntityKind.
func ParseKind(s string) (EntityKind, error) {
	switch s {
	case "paper", "papers", "p":
		return KindPaper, nil
	case "article", "articles", "a":
		return KindArticle, nil
	}
	return "", fmt.Errorf("unknown kind %q (must be paper or article)", s)
}

// Plural returns the collection name used in API paths.
func (k EntityKind) Plural() string {
	return string(k) + "s"
}

// Paper is an arXiv paper as served by the hub.
type Paper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Abstract   string    `json:"abstract"`
	Categories []string  `json:"categories"`
	Published  time.Time `json:"published"`
	PDFURL     string    `json:"pdf_url,omitempty"`
	LikeCount  int       `json:"like_count"`
	Liked      bool      `json:"liked"`
	Bookmarked bool      `json:"bookmarked"`
}

// Article is a user-authored post.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	Tags       []string  `json:"tags"`
	LikeCount  int       `json:"like_count"`
	Liked      bool      `json:"liked"`
	Bookmarked bool      `json:"bookmarked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Bookmark is a saved paper or article.
type Bookmark struct {
	Kind      EntityKind `json:"kind"`
	EntityID  string     `json:"entity_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
}

// Note is free-form text the user keeps, optionally attached to an entity.
type Note struct {
	ID         string     `json:"id"`
	EntityKind EntityKind `json:"entity_kind,omitempty"`
	EntityID   string     `json:"entity_id,omitempty"`
	Title      string     `json:"title" validate:"required,max=200"`
	Body       string     `json:"body" validate:"max=20000"`
	Tags       []string   `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
	Pinned     bool       `json:"pinned"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Annotation is a highlighted quote on a paper with an optional comment.
type Annotation struct {
	ID         string    `json:"id"`
	PaperID    string    `json:"paper_id" validate:"required"`
	Quote      string    `json:"quote" validate:"required,max=2000"`
	Comment    string    `json:"comment,omitempty" validate:"max=5000"`
	PageNumber *int      `json:"page_number,omitempty" validate:"omitempty,min=1"`
	Color      string    `json:"color,omitempty" validate:"omitempty,oneof=yellow green blue pink"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary is the AI-generated digest of a paper.
type Summary struct {
	PaperID     string    `json:"paper_id"`
	Text        string    `json:"text"`
	KeyPoints   []string  `json:"key_points,omitempty"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Comparison is the AI analysis of several papers side by side.
type Comparison struct {
	PaperIDs   []string          `json:"paper_ids"`
	Focus      string            `json:"focus,omitempty"`
	Analysis   string            `json:"analysis"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// LikeResult is what a like toggle returns.
type LikeResult struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}

// BookmarkResult is what a bookmark toggle returns.
type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

// PaperQuery narrows a paper listing or search.
type PaperQuery struct {
	Query      string
	Categories []string
	Page       int
	Limit      int
}

// ArticleQuery narrows an article listing.
type ArticleQuery struct {
	Tag   string
	Page  int
	Limit int
}
