// Package compare runs a multi-paper comparison: it loads every paper,
// then asks the hub to compare them.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ohare93/readhub/internal/hub"
	"golang.org/x/sync/errgroup"
)

const (
	// MinPapers is the fewest distinct papers a comparison accepts.
	MinPapers = 2
	// MaxPapers is the most distinct papers a comparison accepts.
	MaxPapers = 5

	fetchConcurrency = 3
)

// ErrPaperCount is returned when the distinct id count is out of range.
var ErrPaperCount = fmt.Errorf("compare needs %d to %d distinct papers", MinPapers, MaxPapers)

// API is the part of the hub client a comparison uses.
type API interface {
	GetPaper(ctx context.Context, paperID string) (*hub.Paper, error)
	Compare(ctx context.Context, paperIDs []string, focus string) (*hub.Comparison, error)
}

// Result is a finished comparison with the papers it covers, in the order
// they were requested.
type Result struct {
	Papers     []*hub.Paper    `json:"papers"`
	Comparison *hub.Comparison `json:"comparison"`
}

// Normalize trims ids, drops blanks and duplicates, and keeps first-seen
// order.
func Normalize(paperIDs []string) []string {
	seen := make(map[string]bool, len(paperIDs))
	result := make([]string, 0, len(paperIDs))
	for _, id := range paperIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// Validate checks the id count after normalization.
func Validate(paperIDs []string) ([]string, error) {
	ids := Normalize(paperIDs)
	if len(ids) < MinPapers || len(ids) > MaxPapers {
		return nil, fmt.Errorf("%w, got %d", ErrPaperCount, len(ids))
	}
	return ids, nil
}

// Run fetches the papers concurrently, failing on the first error, and then
// requests the comparison.
func Run(ctx context.Context, api API, paperIDs []string, focus string) (*Result, error) {
	ids, err := Validate(paperIDs)
	if err != nil {
		return nil, err
	}

	papers, err := fetchPapers(ctx, api, ids)
	if err != nil {
		return nil, err
	}

	cmp, err := api.Compare(ctx, ids, strings.TrimSpace(focus))
	if err != nil {
		return nil, fmt.Errorf("failed to compare papers: %w", err)
	}
	return &Result{Papers: papers, Comparison: cmp}, nil
}

func fetchPapers(ctx context.Context, api API, ids []string) ([]*hub.Paper, error) {
	papers := make([]*hub.Paper, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			p, err := api.GetPaper(gctx, id)
			if err != nil {
				return &FetchError{PaperID: id, Err: err}
			}
			papers[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return papers, nil
}

// FetchError reports which paper could not be loaded.
type FetchError struct {
	PaperID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch paper %s: %v", e.PaperID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err came from loading a paper.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
