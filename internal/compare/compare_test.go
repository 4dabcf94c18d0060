package compare

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubapi"
	"github.com/ohare93/readhub/internal/hubfake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" 1706.03762", "1810.04805", "", "1706.03762", "1512.03385 "})
	assert.Equal(t, []string{"1706.03762", "1810.04805", "1512.03385"}, got)
}

func TestValidateCounts(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		ok   bool
	}{
		{"one paper", []string{"a"}, false},
		{"duplicates collapse to one", []string{"a", "a"}, false},
		{"two papers", []string{"a", "b"}, true},
		{"five papers", []string{"a", "b", "c", "d", "e"}, true},
		{"six papers", []string{"a", "b", "c", "d", "e", "f"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.ids)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPaperCount)
			}
		})
	}
}

func TestRunAgainstFakeHub(t *testing.T) {
	srv := httptest.NewServer(hubfake.New().Handler())
	defer srv.Close()
	client, err := hubapi.New(hubapi.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	res, err := Run(context.Background(), client, []string{"1810.04805", "1706.03762", "1810.04805"}, " attention ")
	require.NoError(t, err)
	require.Len(t, res.Papers, 2)
	assert.Equal(t, "1810.04805", res.Papers[0].ID)
	assert.Equal(t, "1706.03762", res.Papers[1].ID)
	assert.Equal(t, "attention", res.Comparison.Focus)
	assert.Equal(t, []string{"1810.04805", "1706.03762"}, res.Comparison.PaperIDs)
}

func TestRunFailsOnMissingPaper(t *testing.T) {
	srv := httptest.NewServer(hubfake.New().Handler())
	defer srv.Close()
	client, err := hubapi.New(hubapi.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = Run(context.Background(), client, []string{"1706.03762", "0000.00000"}, "")
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.True(t, hubapi.IsKind(err, hubapi.KindNotFound))

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "0000.00000", fe.PaperID)
}

type recordingAPI struct {
	mu       sync.Mutex
	fetched  []string
	compared bool
	cmpErr   error
}

func (r *recordingAPI) GetPaper(ctx context.Context, id string) (*hub.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetched = append(r.fetched, id)
	return &hub.Paper{ID: id}, nil
}

func (r *recordingAPI) Compare(ctx context.Context, ids []string, focus string) (*hub.Comparison, error) {
	r.compared = true
	if r.cmpErr != nil {
		return nil, r.cmpErr
	}
	return &hub.Comparison{PaperIDs: ids, Focus: focus}, nil
}

func TestRunWrapsCompareError(t *testing.T) {
	api := &recordingAPI{cmpErr: errors.New("model overloaded")}
	_, err := Run(context.Background(), api, []string{"a", "b", "c"}, "")
	require.Error(t, err)
	assert.False(t, IsFetchError(err))
	assert.Contains(t, err.Error(), "failed to compare papers")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, api.fetched)
}

func TestRunSkipsHubWhenInvalid(t *testing.T) {
	api := &recordingAPI{}
	_, err := Run(context.Background(), api, []string{"a"}, "")
	require.Error(t, err)
	assert.Empty(t, api.fetched)
	assert.False(t, api.compared)
}
