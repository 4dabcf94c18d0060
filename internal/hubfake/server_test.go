package hubfake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func TestToggleLikeFlipsAndCounts(t *testing.T) {
	s := New()
	h := s.Handler()

	code, resp := doRequest(t, h, http.MethodPost, "/api/papers/1706.03762/like", "")
	require.Equal(t, http.StatusOK, code)
	var res hub.LikeResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, hub.LikeResult{Count: 11, Liked: true}, res)

	_, resp = doRequest(t, h, http.MethodPost, "/api/papers/1706.03762/like", "")
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, hub.LikeResult{Count: 10, Liked: false}, res)
	assert.Equal(t, 2, s.ToggleCalls())
}

func TestFailTogglesLeavesStateUntouched(t *testing.T) {
	s := New()
	h := s.Handler()
	s.FailToggles(2)

	for i := 0; i < 2; i++ {
		code, resp := doRequest(t, h, http.MethodPost, "/api/articles/a-diffusion-intuition/bookmark", "")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.False(t, resp.Success)
		assert.Equal(t, "injected failure", resp.Error)
	}

	code, resp := doRequest(t, h, http.MethodPost, "/api/articles/a-diffusion-intuition/bookmark", "")
	require.Equal(t, http.StatusOK, code)
	var res hub.BookmarkResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.False(t, res.Bookmarked)
	assert.Equal(t, 3, s.ToggleCalls())
}

func TestToggleUnknownEntity(t *testing.T) {
	h := New().Handler()
	code, resp := doRequest(t, h, http.MethodPost, "/api/articles/nope/like", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "article not found", resp.Error)
}

func TestAddExternalLikes(t *testing.T) {
	s := New()
	require.NoError(t, s.AddExternalLikes(hub.KindArticle, "a-reading-transformers", 3))
	assert.Equal(t, 10, s.LikeCount(hub.KindArticle, "a-reading-transformers"))

	require.NoError(t, s.AddExternalLikes(hub.KindArticle, "a-reading-transformers", -1))
	assert.Equal(t, 9, s.LikeCount(hub.KindArticle, "a-reading-transformers"))

	assert.Error(t, s.AddExternalLikes(hub.KindPaper, "0000.00000", 1))
	assert.Equal(t, 0, s.LikeCount(hub.KindPaper, "0000.00000"))
}

func TestAuthMiddleware(t *testing.T) {
	h := New(WithToken("secret")).Handler()

	code, resp := doRequest(t, h, http.MethodGet, "/api/papers", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/papers", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPagination(t *testing.T) {
	h := New().Handler()

	_, resp := doRequest(t, h, http.MethodGet, "/api/papers?page=2&limit=3", "")
	var papers []hub.Paper
	require.NoError(t, json.Unmarshal(resp.Data, &papers))
	require.Len(t, papers, 1)
	assert.Equal(t, "1512.03385", papers[0].ID)

	_, resp = doRequest(t, h, http.MethodGet, "/api/papers?page=9", "")
	require.NoError(t, json.Unmarshal(resp.Data, &papers))
	assert.Empty(t, papers)
}

func TestSearchRequiresQuery(t *testing.T) {
	h := New().Handler()
	code, _ := doRequest(t, h, http.MethodGet, "/api/search/papers", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := doRequest(t, h, http.MethodGet, "/api/search/papers?q=vaswani", "")
	require.Equal(t, http.StatusOK, code)
	var papers []hub.Paper
	require.NoError(t, json.Unmarshal(resp.Data, &papers))
	require.Len(t, papers, 1)
	assert.Equal(t, "1706.03762", papers[0].ID)
}

func TestArticlesByTag(t *testing.T) {
	h := New().Handler()
	_, resp := doRequest(t, h, http.MethodGet, "/api/articles?tag=VISION", "")
	var articles []hub.Article
	require.NoError(t, json.Unmarshal(resp.Data, &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "a-diffusion-intuition", articles[0].ID)
}

func TestNotesUseClock(t *testing.T) {
	fixed := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	h := New(WithClock(func() time.Time { return fixed })).Handler()

	code, resp := doRequest(t, h, http.MethodPost, "/api/notes", `{"title": "attention heads", "tags": ["nlp"]}`)
	require.Equal(t, http.StatusCreated, code)
	var note hub.Note
	require.NoError(t, json.Unmarshal(resp.Data, &note))
	assert.True(t, note.CreatedAt.Equal(fixed))
	assert.NotEmpty(t, note.ID)

	code, resp = doRequest(t, h, http.MethodPost, "/api/notes", `{"title": "  "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "title is required", resp.Error)

	code, _ = doRequest(t, h, http.MethodPut, "/api/notes/missing", `{"title": "x"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCompareValidation(t *testing.T) {
	h := New().Handler()

	code, resp := doRequest(t, h, http.MethodPost, "/api/compare", `{"paper_ids": ["1706.03762"]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "at least two papers are required", resp.Error)

	code, resp = doRequest(t, h, http.MethodPost, "/api/compare", `{"paper_ids": ["1706.03762", "9999.99999"]}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "paper not found: 9999.99999", resp.Error)
}

func TestSlashInPaperID(t *testing.T) {
	s := New()
	s.AddPaper(hub.Paper{ID: "hep-th/9901001", Title: "Old Strings"})
	h := s.Handler()

	code, resp := doRequest(t, h, http.MethodGet, "/api/papers/hep-th%2F9901001", "")
	require.Equal(t, http.StatusOK, code)
	var p hub.Paper
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, "Old Strings", p.Title)
}
