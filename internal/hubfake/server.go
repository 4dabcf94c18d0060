// Package hubfake is an in-memory stand-in for the reading hub backend.
// It speaks the same envelope protocol as the real hub, keeps state for a
// single acting user, and can inject latency and toggle failures so the
// optimistic UI paths can be exercised offline.
package hubfake

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ohare93/readhub/internal/hub"
)

var errInjected = errors.New("injected failure")

type entityKey struct {
	kind hub.EntityKind
	id   string
}

// Server holds the fake hub's state.
type Server struct {
	mu sync.Mutex

	token   string
	latency time.Duration

	failToggles int
	toggleCalls int

	papers      map[string]*hub.Paper
	paperOrder  []string
	articles    map[string]*hub.Article
	articleIDs  []string
	bookmarks   map[entityKey]time.Time
	notes       map[string]*hub.Note
	annotations map[string]*hub.Annotation

	now func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLatency delays every response.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server seeded with sample papers and articles.
func New(opts ...Option) *Server {
	s := &Server{
		papers:      make(map[string]*hub.Paper),
		articles:    make(map[string]*hub.Article),
		bookmarks:   make(map[entityKey]time.Time),
		notes:       make(map[string]*hub.Note),
		annotations: make(map[string]*hub.Annotation),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

// AddPaper inserts or replaces a paper.
func (s *Server) AddPaper(p hub.Paper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.papers[p.ID]; !ok {
		s.paperOrder = append(s.paperOrder, p.ID)
	}
	s.papers[p.ID] = &p
}

// AddArticle inserts or replaces an article.
func (s *Server) AddArticle(a hub.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[a.ID]; !ok {
		s.articleIDs = append(s.articleIDs, a.ID)
	}
	s.articles[a.ID] = &a
}

// FailToggles makes the next n like/bookmark toggles fail with 500.
func (s *Server) FailToggles(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failToggles = n
}

// SetLatency changes the artificial response delay.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// AddExternalLikes simulates other users liking (n > 0) or unliking an
// entity without touching the acting user's state.
func (s *Server) AddExternalLikes(kind hub.EntityKind, entityID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, _, ok := s.likeState(kind, entityID)
	if !ok {
		return fmt.Errorf("%s %s not found", kind, entityID)
	}
	*count += n
	return nil
}

// ToggleCalls returns how many toggle requests have been received.
func (s *Server) ToggleCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleCalls
}

// LikeCount returns the stored count for an entity.
func (s *Server) LikeCount(kind hub.EntityKind, entityID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, _, ok := s.likeState(kind, entityID)
	if !ok {
		return 0
	}
	return *count
}

// Handler builds the gin engine serving the hub API.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery(), s.delay, s.auth)

	api := r.Group("/api")
	api.GET("/papers", s.listPapers)
	api.GET("/search/papers", s.searchPapers)
	api.GET("/papers/:id", s.getPaper)
	api.POST("/papers/:id/like", s.toggleLike(hub.KindPaper))
	api.POST("/papers/:id/bookmark", s.toggleBookmark(hub.KindPaper))
	api.GET("/papers/:id/annotations", s.listAnnotations)
	api.POST("/papers/:id/annotations", s.createAnnotation)
	api.POST("/papers/:id/summary", s.summarize)

	api.GET("/articles", s.listArticles)
	api.GET("/articles/:id", s.getArticle)
	api.POST("/articles/:id/like", s.toggleLike(hub.KindArticle))
	api.POST("/articles/:id/bookmark", s.toggleBookmark(hub.KindArticle))

	api.GET("/bookmarks", s.listBookmarks)

	api.GET("/notes", s.listNotes)
	api.POST("/notes", s.createNote)
	api.PUT("/notes/:id", s.updateNote)
	api.DELETE("/notes/:id", s.deleteNote)

	api.DELETE("/annotations/:id", s.deleteAnnotation)
	api.POST("/compare", s.compare)

	return r
}

// Middleware

func (s *Server) delay(c *gin.Context) {
	s.mu.Lock()
	d := s.latency
	s.mu.Unlock()
	if d > 0 {
		select {
		case <-time.After(d):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	c.Next()
}

func (s *Server) auth(c *gin.Context) {
	if s.token == "" {
		c.Next()
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+s.token {
		fail(c, http.StatusUnauthorized, "missing or invalid token")
		c.Abort()
		return
	}
	c.Next()
}

// Response helpers

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func pageBounds(c *gin.Context, total int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Papers

func (s *Server) paperList(match func(*hub.Paper) bool) []*hub.Paper {
	result := make([]*hub.Paper, 0)
	for _, id := range s.paperOrder {
		p := s.papers[id]
		if match(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result
}

func inCategories(p *hub.Paper, categories string) bool {
	if categories == "" {
		return true
	}
	for _, want := range strings.Split(categories, ",") {
		for _, have := range p.Categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (s *Server) listPapers(c *gin.Context) {
	categories := c.Query("categories")
	s.mu.Lock()
	papers := s.paperList(func(p *hub.Paper) bool { return inCategories(p, categories) })
	s.mu.Unlock()

	start, end := pageBounds(c, len(papers))
	ok(c, http.StatusOK, papers[start:end])
}

func (s *Server) searchPapers(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	categories := c.Query("categories")
	if q == "" && categories == "" {
		fail(c, http.StatusBadRequest, "query or categories required")
		return
	}

	s.mu.Lock()
	papers := s.paperList(func(p *hub.Paper) bool {
		if !inCategories(p, categories) {
			return false
		}
		if q == "" {
			return true
		}
		haystack := strings.ToLower(p.Title + " " + p.Abstract + " " + strings.Join(p.Authors, " "))
		return strings.Contains(haystack, q)
	})
	s.mu.Unlock()

	start, end := pageBounds(c, len(papers))
	ok(c, http.StatusOK, papers[start:end])
}

func (s *Server) getPaper(c *gin.Context) {
	s.mu.Lock()
	p, found := s.papers[c.Param("id")]
	var cp hub.Paper
	if found {
		cp = *p
	}
	s.mu.Unlock()

	if !found {
		fail(c, http.StatusNotFound, "paper not found")
		return
	}
	ok(c, http.StatusOK, &cp)
}

// Articles

func (s *Server) listArticles(c *gin.Context) {
	tag := c.Query("tag")
	s.mu.Lock()
	articles := make([]*hub.Article, 0, len(s.articleIDs))
	for _, id := range s.articleIDs {
		a := s.articles[id]
		if tag != "" && !containsFold(a.Tags, tag) {
			continue
		}
		cp := *a
		articles = append(articles, &cp)
	}
	s.mu.Unlock()

	start, end := pageBounds(c, len(articles))
	ok(c, http.StatusOK, articles[start:end])
}

func (s *Server) getArticle(c *gin.Context) {
	s.mu.Lock()
	a, found := s.articles[c.Param("id")]
	var cp hub.Article
	if found {
		cp = *a
	}
	s.mu.Unlock()

	if !found {
		fail(c, http.StatusNotFound, "article not found")
		return
	}
	ok(c, http.StatusOK, &cp)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// Likes and bookmarks

// likeState returns pointers to the stored count and liked flag.
// Caller holds s.mu.
func (s *Server) likeState(kind hub.EntityKind, entityID string) (*int, *bool, bool) {
	switch kind {
	case hub.KindPaper:
		if p, ok := s.papers[entityID]; ok {
			return &p.LikeCount, &p.Liked, true
		}
	case hub.KindArticle:
		if a, ok := s.articles[entityID]; ok {
			return &a.LikeCount, &a.Liked, true
		}
	}
	return nil, nil, false
}

// consumeFailure records a toggle call and reports whether it should fail.
// Caller holds s.mu.
func (s *Server) consumeFailure() bool {
	s.toggleCalls++
	if s.failToggles > 0 {
		s.failToggles--
		return true
	}
	return false
}

func (s *Server) toggleLike(kind hub.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.consumeFailure() {
			fail(c, http.StatusInternalServerError, errInjected.Error())
			return
		}
		count, liked, found := s.likeState(kind, c.Param("id"))
		if !found {
			fail(c, http.StatusNotFound, string(kind)+" not found")
			return
		}
		if *liked {
			*count--
		} else {
			*count++
		}
		*liked = !*liked
		ok(c, http.StatusOK, hub.LikeResult{Count: *count, Liked: *liked})
	}
}

func (s *Server) toggleBookmark(kind hub.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.consumeFailure() {
			fail(c, http.StatusInternalServerError, errInjected.Error())
			return
		}
		entityID := c.Param("id")
		key := entityKey{kind: kind, id: entityID}

		var flag *bool
		switch kind {
		case hub.KindPaper:
			if p, found := s.papers[entityID]; found {
				flag = &p.Bookmarked
			}
		case hub.KindArticle:
			if a, found := s.articles[entityID]; found {
				flag = &a.Bookmarked
			}
		}
		if flag == nil {
			fail(c, http.StatusNotFound, string(kind)+" not found")
			return
		}

		if *flag {
			delete(s.bookmarks, key)
		} else {
			s.bookmarks[key] = s.now()
		}
		*flag = !*flag
		ok(c, http.StatusOK, hub.BookmarkResult{Bookmarked: *flag})
	}
}

func (s *Server) listBookmarks(c *gin.Context) {
	s.mu.Lock()
	result := make([]*hub.Bookmark, 0, len(s.bookmarks))
	for key, at := range s.bookmarks {
		b := &hub.Bookmark{Kind: key.kind, EntityID: key.id, CreatedAt: at}
		switch key.kind {
		case hub.KindPaper:
			b.Title = s.papers[key.id].Title
		case hub.KindArticle:
			b.Title = s.articles[key.id].Title
		}
		result = append(result, b)
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].EntityID < result[j].EntityID
	})
	ok(c, http.StatusOK, result)
}

// Notes

func (s *Server) listNotes(c *gin.Context) {
	s.mu.Lock()
	result := make([]*hub.Note, 0, len(s.notes))
	for _, n := range s.notes {
		cp := *n
		result = append(result, &cp)
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	ok(c, http.StatusOK, result)
}

func (s *Server) createNote(c *gin.Context) {
	var note hub.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		fail(c, http.StatusBadRequest, "invalid note: "+err.Error())
		return
	}
	if strings.TrimSpace(note.Title) == "" {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	note.ID = uuid.New().String()
	note.CreatedAt = now
	note.UpdatedAt = now
	s.notes[note.ID] = &note
	cp := note
	ok(c, http.StatusCreated, &cp)
}

func (s *Server) updateNote(c *gin.Context) {
	var note hub.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		fail(c, http.StatusBadRequest, "invalid note: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, found := s.notes[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "note not found")
		return
	}
	note.ID = existing.ID
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = s.now()
	s.notes[note.ID] = &note
	cp := note
	ok(c, http.StatusOK, &cp)
}

func (s *Server) deleteNote(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, found := s.notes[id]; !found {
		fail(c, http.StatusNotFound, "note not found")
		return
	}
	delete(s.notes, id)
	ok(c, http.StatusOK, gin.H{})
}

// Annotations

func (s *Server) listAnnotations(c *gin.Context) {
	paperID := c.Param("id")
	s.mu.Lock()
	if _, found := s.papers[paperID]; !found {
		s.mu.Unlock()
		fail(c, http.StatusNotFound, "paper not found")
		return
	}
	result := make([]*hub.Annotation, 0)
	for _, a := range s.annotations {
		if a.PaperID == paperID {
			cp := *a
			result = append(result, &cp)
		}
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		pi, pj := pageOf(result[i]), pageOf(result[j])
		if pi != pj {
			return pi < pj
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	ok(c, http.StatusOK, result)
}

func pageOf(a *hub.Annotation) int {
	if a.PageNumber == nil {
		return 0
	}
	return *a.PageNumber
}

func (s *Server) createAnnotation(c *gin.Context) {
	var a hub.Annotation
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, http.StatusBadRequest, "invalid annotation: "+err.Error())
		return
	}
	if strings.TrimSpace(a.Quote) == "" {
		fail(c, http.StatusBadRequest, "quote is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a.PaperID = c.Param("id")
	if _, found := s.papers[a.PaperID]; !found {
		fail(c, http.StatusNotFound, "paper not found")
		return
	}
	a.ID = uuid.New().String()
	a.CreatedAt = s.now()
	s.annotations[a.ID] = &a
	cp := a
	ok(c, http.StatusCreated, &cp)
}

func (s *Server) deleteAnnotation(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, found := s.annotations[id]; !found {
		fail(c, http.StatusNotFound, "annotation not found")
		return
	}
	delete(s.annotations, id)
	ok(c, http.StatusOK, gin.H{})
}

// AI

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, ". "); i >= 0 {
		return text[:i+1]
	}
	return text
}

func (s *Server) summarize(c *gin.Context) {
	s.mu.Lock()
	p, found := s.papers[c.Param("id")]
	var paper hub.Paper
	if found {
		paper = *p
	}
	now := s.now()
	s.mu.Unlock()

	if !found {
		fail(c, http.StatusNotFound, "paper not found")
		return
	}
	points := make([]string, 0, len(paper.Categories))
	for _, cat := range paper.Categories {
		points = append(points, "Relevant to "+cat)
	}
	ok(c, http.StatusOK, &hub.Summary{
		PaperID:     paper.ID,
		Text:        paper.Title + ": " + firstSentence(paper.Abstract),
		KeyPoints:   points,
		Model:       "hubfake",
		GeneratedAt: now,
	})
}

type compareRequest struct {
	PaperIDs []string `json:"paper_ids" binding:"required"`
	Focus    string   `json:"focus"`
}

func (s *Server) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid compare request: "+err.Error())
		return
	}
	if len(req.PaperIDs) < 2 {
		fail(c, http.StatusBadRequest, "at least two papers are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	highlights := make(map[string]string, len(req.PaperIDs))
	if req.Focus != "" {
		fmt.Fprintf(&b, "Comparison focused on %s.\n", req.Focus)
	}
	for i, id := range req.PaperIDs {
		p, found := s.papers[id]
		if !found {
			fail(c, http.StatusNotFound, "paper not found: "+id)
			return
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, p.Title, strings.Join(p.Categories, ", "))
		highlights[id] = firstSentence(p.Abstract)
	}
	ok(c, http.StatusOK, &hub.Comparison{
		PaperIDs:   req.PaperIDs,
		Focus:      req.Focus,
		Analysis:   strings.TrimSpace(b.String()),
		Highlights: highlights,
	})
}
