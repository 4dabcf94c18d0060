package hubapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubfake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeClient(t *testing.T, opts ...hubfake.Option) (*Client, *hubfake.Server) {
	t.Helper()
	fake := hubfake.New(opts...)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	client, err := New(Options{BaseURL: srv.URL, Token: "t0ken", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client, fake
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://hub.example.com"})
	assert.Error(t, err)
}

func TestPapers(t *testing.T) {
	client, _ := newFakeClient(t)
	ctx := context.Background()

	papers, err := client.ListPapers(ctx, hub.PaperQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "1706.03762", papers[0].ID)

	papers, err = client.ListPapers(ctx, hub.PaperQuery{Categories: []string{"cs.CV"}})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "1512.03385", papers[0].ID)

	found, err := client.SearchPapers(ctx, hub.PaperQuery{Query: "diffusion"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2006.11239", found[0].ID)

	paper, err := client.GetPaper(ctx, "1810.04805")
	require.NoError(t, err)
	assert.Contains(t, paper.Title, "BERT")
}

func TestGetPaperNotFound(t *testing.T) {
	client, _ := newFakeClient(t)

	_, err := client.GetPaper(context.Background(), "hep-th/9901001")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "paper not found", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestToggleLikeReturnsAuthoritativeCount(t *testing.T) {
	client, fake := newFakeClient(t)
	ctx := context.Background()

	require.NoError(t, fake.AddExternalLikes(hub.KindPaper, "1706.03762", 1))

	count, err := client.ToggleLike(ctx, hub.KindPaper, "1706.03762")
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	count, err = client.ToggleLike(ctx, hub.KindPaper, "1706.03762")
	require.NoError(t, err)
	assert.Equal(t, 11, count)
}

func TestToggleFailuresAreServerErrors(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.FailToggles(1)

	_, err := client.ToggleLike(context.Background(), hub.KindArticle, "a-reading-transformers")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
	assert.Equal(t, 7, fake.LikeCount(hub.KindArticle, "a-reading-transformers"))
}

func TestBookmarks(t *testing.T) {
	client, _ := newFakeClient(t)
	ctx := context.Background()

	require.NoError(t, client.ToggleBookmark(ctx, hub.KindPaper, "1512.03385"))

	bookmarks, err := client.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)

	ids := []string{bookmarks[0].EntityID, bookmarks[1].EntityID}
	assert.ElementsMatch(t, []string{"1512.03385", "a-diffusion-intuition"}, ids)

	require.NoError(t, client.ToggleBookmark(ctx, hub.KindArticle, "a-diffusion-intuition"))
	bookmarks, err = client.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "Deep Residual Learning for Image Recognition", bookmarks[0].Title)
}

func TestNotesCRUD(t *testing.T) {
	client, _ := newFakeClient(t)
	ctx := context.Background()

	created, err := client.CreateNote(ctx, &hub.Note{Title: "positional encodings", Tags: []string{"nlp"}})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	created.Body = "sinusoidal vs learned"
	updated, err := client.UpdateNote(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "sinusoidal vs learned", updated.Body)

	notes, err := client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, client.DeleteNote(ctx, created.ID))
	err = client.DeleteNote(ctx, created.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestAnnotations(t *testing.T) {
	client, _ := newFakeClient(t)
	ctx := context.Background()

	page := 3
	a, err := client.CreateAnnotation(ctx, &hub.Annotation{PaperID: "1706.03762", Quote: "Scaled Dot-Product Attention", PageNumber: &page})
	require.NoError(t, err)
	assert.Equal(t, "1706.03762", a.PaperID)

	list, err := client.ListAnnotations(ctx, "1706.03762")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].PageNumber)
	assert.Equal(t, 3, *list[0].PageNumber)

	require.NoError(t, client.DeleteAnnotation(ctx, a.ID))
	list, err = client.ListAnnotations(ctx, "1706.03762")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSummarizeAndCompare(t *testing.T) {
	client, _ := newFakeClient(t)
	ctx := context.Background()

	summary, err := client.Summarize(ctx, "1512.03385")
	require.NoError(t, err)
	assert.Equal(t, "1512.03385", summary.PaperID)
	assert.Contains(t, summary.Text, "Deeper neural networks are more difficult to train.")

	cmp, err := client.Compare(ctx, []string{"1706.03762", "1810.04805"}, "pre-training")
	require.NoError(t, err)
	assert.Equal(t, []string{"1706.03762", "1810.04805"}, cmp.PaperIDs)
	assert.Contains(t, cmp.Analysis, "pre-training")
	assert.Len(t, cmp.Highlights, 2)
}

func TestUnauthorized(t *testing.T) {
	fake := hubfake.New(hubfake.WithToken("right"))
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	client, err := New(Options{BaseURL: srv.URL, Token: "wrong"})
	require.NoError(t, err)

	_, err = client.ListPapers(context.Background(), hub.PaperQuery{})
	assert.True(t, IsKind(err, KindUnauthorized))
}

func TestEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
	}{
		{"success false", http.StatusOK, `{"success": false, "error": "quota exceeded"}`, KindServer},
		{"garbage body", http.StatusOK, `<html>`, KindInvalidResponse},
		{"bad gateway without body", http.StatusBadGateway, ``, KindServer},
		{"rate limited", http.StatusTooManyRequests, `{"success": false, "error": "slow down"}`, KindRateLimited},
		{"validation", http.StatusUnprocessableEntity, `{"success": false}`, KindBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := New(Options{BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = client.GetArticle(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestToggleLikeRequiresCount(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no content", http.StatusNoContent, ``},
		{"empty body", http.StatusOK, ``},
		{"no data", http.StatusOK, `{"success": true}`},
		{"null data", http.StatusOK, `{"success": true, "data": null}`},
		{"data without count", http.StatusOK, `{"success": true, "data": {"liked": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := New(Options{BaseURL: srv.URL})
			require.NoError(t, err)

			count, err := client.ToggleLike(context.Background(), hub.KindPaper, "1706.03762")
			require.Error(t, err)
			assert.True(t, IsKind(err, KindInvalidResponse), "got %v", err)
			assert.Equal(t, 0, count)
		})
	}

	t.Run("zero count is a count", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true, "data": {"count": 0, "liked": false}}`))
		}))
		defer srv.Close()

		client, err := New(Options{BaseURL: srv.URL})
		require.NoError(t, err)

		count, err := client.ToggleLike(context.Background(), hub.KindPaper, "1810.04805")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer srv.Close()

	client, err := New(Options{BaseURL: srv.URL, Token: "abc", RequestsPerSecond: 5})
	require.NoError(t, err)

	_, err = client.ListBookmarks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Len(t, got.Get(HeaderRequestID), 36)
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestEscapesSlashInIDs(t *testing.T) {
	var rawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "hep-th/9901001"}}`))
	}))
	defer srv.Close()

	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	paper, err := client.GetPaper(context.Background(), "hep-th/9901001")
	require.NoError(t, err)
	assert.Equal(t, "hep-th/9901001", paper.ID)
	assert.Equal(t, "/api/papers/hep-th%2F9901001", rawPath)
}

func TestCanceledContext(t *testing.T) {
	client, _ := newFakeClient(t, hubfake.WithLatency(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListPapers(ctx, hub.PaperQuery{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCanceled), "got %v", err)
}
