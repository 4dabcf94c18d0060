// Package interaction wires like and bookmark controls to the optimistic
// cells and the hub's toggle endpoints.
//
// A Like owns a Flag (liked) and a Counter (like count). A toggle flips the
// flag and moves the counter by one before the request is sent; on failure
// each cell rolls itself back. A Bookmark owns only a Flag.
//
// Both can be driven two ways. Toggle blocks until the hub answers, which
// suits the CLI. Begin applies the change and returns an attempt whose Call
// runs the request and whose Finish settles it, which suits an event loop
// that must return before the request completes.
package interaction

import (
	"context"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/optimistic"
)

// Liker toggles the acting user's like and returns the new count.
type Liker interface {
	ToggleLike(ctx context.Context, kind hub.EntityKind, entityID string) (int, error)
}

// Bookmarker toggles the acting user's bookmark.
type Bookmarker interface {
	ToggleBookmark(ctx context.Context, kind hub.EntityKind, entityID string) error
}

// API is everything the consumers need from the hub client.
type API interface {
	Liker
	Bookmarker
}

// Like is the like control of one paper or article.
type Like struct {
	api     Liker
	kind    hub.EntityKind
	id      string
	flag    *optimistic.Flag
	counter *optimistic.Counter
}

// NewLike seeds a like control with the last known server state.
func NewLike(api Liker, kind hub.EntityKind, entityID string, liked bool, count int, opts ...optimistic.Option) *Like {
	return &Like{
		api:     api,
		kind:    kind,
		id:      entityID,
		flag:    optimistic.NewFlag(liked),
		counter: optimistic.NewCounter(count, opts...),
	}
}

// Kind returns the kind of entity the control belongs to.
func (l *Like) Kind() hub.EntityKind { return l.kind }

// ID returns the paper or article id.
func (l *Like) ID() string { return l.id }

// Liked returns the displayed liked state.
func (l *Like) Liked() bool { return l.flag.Value() }

// Count returns the displayed like count.
func (l *Like) Count() int { return l.counter.Value() }

// Pending reports whether a toggle is waiting for the hub.
func (l *Like) Pending() bool { return l.flag.Pending() || l.counter.Pending() }

// Dispose drops any outcome that arrives later.
func (l *Like) Dispose() {
	l.flag.Dispose()
	l.counter.Dispose()
}

// Disposed reports whether the control has been detached from its view.
func (l *Like) Disposed() bool { return l.counter.Disposed() }

// Begin flips the liked flag and moves the count by one in the same
// direction. The returned attempt must be finished exactly once.
func (l *Like) Begin() *LikeAttempt {
	flip := l.flag.Flip()
	delta := -1
	if flip.Value() {
		delta = 1
	}
	return &LikeAttempt{like: l, flip: flip, step: l.counter.Begin(delta)}
}

// Toggle runs a full like/unlike round trip. A failed request comes back
// as an error matching optimistic.ErrReconciliation after both the flag
// and the count have been restored.
func (l *Like) Toggle(ctx context.Context) error {
	a := l.Begin()
	count, err := a.Call(ctx)
	return a.Finish(count, err)
}

// LikeAttempt is one like or unlike waiting for the hub.
type LikeAttempt struct {
	like *Like
	flip *optimistic.FlagAttempt
	step *optimistic.Attempt
}

// Like returns the control this attempt belongs to.
func (a *LikeAttempt) Like() *Like { return a.like }

// Liked is the state the attempt moved the flag to.
func (a *LikeAttempt) Liked() bool { return a.flip.Value() }

// Call sends the toggle request. It does not touch local state and may run
// off the event loop.
func (a *LikeAttempt) Call(ctx context.Context) (int, error) {
	return a.like.api.ToggleLike(ctx, a.like.kind, a.like.id)
}

// Finish settles the flag and the counter with the request outcome. The
// cells settle independently; the counter's error is returned when both
// report one.
func (a *LikeAttempt) Finish(count int, err error) error {
	flagErr := a.flip.Settle(err)
	countErr := a.step.Settle(count, err)
	if countErr != nil {
		return countErr
	}
	return flagErr
}

// Confirmed returns the server state a request outcome establishes: the
// liked state this attempt asked for and the count the hub answered with.
// ok is false when the request failed, which leaves the server as it was.
// The result holds whether or not the control is still attached to a view.
func (a *LikeAttempt) Confirmed(count int, err error) (liked bool, n int, ok bool) {
	if err != nil {
		return false, 0, false
	}
	return a.flip.Value(), count, true
}

// Bookmark is the bookmark control of one paper or article.
type Bookmark struct {
	api  Bookmarker
	kind hub.EntityKind
	id   string
	flag *optimistic.Flag
}

// NewBookmark seeds a bookmark control with the last known server state.
func NewBookmark(api Bookmarker, kind hub.EntityKind, entityID string, bookmarked bool) *Bookmark {
	return &Bookmark{api: api, kind: kind, id: entityID, flag: optimistic.NewFlag(bookmarked)}
}

// Kind returns the kind of entity the control belongs to.
func (b *Bookmark) Kind() hub.EntityKind { return b.kind }

// ID returns the paper or article id.
func (b *Bookmark) ID() string { return b.id }

// Bookmarked returns the displayed state.
func (b *Bookmark) Bookmarked() bool { return b.flag.Value() }

// Pending reports whether a toggle is waiting for the hub.
func (b *Bookmark) Pending() bool { return b.flag.Pending() }

// Dispose drops any outcome that arrives later.
func (b *Bookmark) Dispose() { b.flag.Dispose() }

// Disposed reports whether the control has been detached from its view.
func (b *Bookmark) Disposed() bool { return b.flag.Disposed() }

// Begin flips the bookmark flag.
func (b *Bookmark) Begin() *BookmarkAttempt {
	return &BookmarkAttempt{bookmark: b, flip: b.flag.Flip()}
}

// Toggle runs a full bookmark round trip.
func (b *Bookmark) Toggle(ctx context.Context) error {
	a := b.Begin()
	return a.Finish(a.Call(ctx))
}

// BookmarkAttempt is one bookmark or unbookmark waiting for the hub.
type BookmarkAttempt struct {
	bookmark *Bookmark
	flip     *optimistic.FlagAttempt
}

// Bookmark returns the control this attempt belongs to.
func (a *BookmarkAttempt) Bookmark() *Bookmark { return a.bookmark }

// Bookmarked is the state the attempt moved the flag to.
func (a *BookmarkAttempt) Bookmarked() bool { return a.flip.Value() }

// Call sends the toggle request.
func (a *BookmarkAttempt) Call(ctx context.Context) error {
	return a.bookmark.api.ToggleBookmark(ctx, a.bookmark.kind, a.bookmark.id)
}

// Finish settles the flag with the request outcome.
func (a *BookmarkAttempt) Finish(err error) error {
	return a.flip.Settle(err)
}

// Confirmed returns the bookmarked state a successful request establishes.
func (a *BookmarkAttempt) Confirmed(err error) (bookmarked bool, ok bool) {
	if err != nil {
		return false, false
	}
	return a.flip.Value(), true
}
