package interaction

import (
	"sync"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/optimistic"
)

type key struct {
	kind hub.EntityKind
	id   string
}

// Set holds the controls shown by one view. Controls are created on first
// use and keep their optimistic state while the view is open; Dispose
// detaches all of them when the view closes.
type Set struct {
	api  API
	opts []optimistic.Option

	mu        sync.Mutex
	likes     map[key]*Like
	bookmarks map[key]*Bookmark
	disposed  bool
}

// NewSet creates an empty set. opts apply to every like counter.
func NewSet(api API, opts ...optimistic.Option) *Set {
	return &Set{
		api:       api,
		opts:      opts,
		likes:     make(map[key]*Like),
		bookmarks: make(map[key]*Bookmark),
	}
}

// Like returns the like control for an entity, creating it from the given
// server state if the set has not seen it yet.
func (s *Set) Like(kind hub.EntityKind, entityID string, liked bool, count int) *Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{kind, entityID}
	if l, ok := s.likes[k]; ok {
		return l
	}
	l := NewLike(s.api, kind, entityID, liked, count, s.opts...)
	if s.disposed {
		l.Dispose()
	}
	s.likes[k] = l
	return l
}

// Bookmark returns the bookmark control for an entity.
func (s *Set) Bookmark(kind hub.EntityKind, entityID string, bookmarked bool) *Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{kind, entityID}
	if b, ok := s.bookmarks[k]; ok {
		return b
	}
	b := NewBookmark(s.api, kind, entityID, bookmarked)
	if s.disposed {
		b.Dispose()
	}
	s.bookmarks[k] = b
	return b
}

// LookupLike returns an existing like control.
func (s *Set) LookupLike(kind hub.EntityKind, entityID string) (*Like, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.likes[key{kind, entityID}]
	return l, ok
}

// LookupBookmark returns an existing bookmark control.
func (s *Set) LookupBookmark(kind hub.EntityKind, entityID string) (*Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[key{kind, entityID}]
	return b, ok
}

// Pending reports whether any control in the set is waiting for the hub.
func (s *Set) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.likes {
		if l.Pending() {
			return true
		}
	}
	for _, b := range s.bookmarks {
		if b.Pending() {
			return true
		}
	}
	return false
}

// Len returns the number of controls in the set.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes) + len(s.bookmarks)
}

// Dispose detaches every control. Controls handed out afterwards start
// disposed.
func (s *Set) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	for _, l := range s.likes {
		l.Dispose()
	}
	for _, b := range s.bookmarks {
		b.Dispose()
	}
}

// Disposed reports whether Dispose has been called.
func (s *Set) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
