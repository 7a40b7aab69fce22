// Package browse ties the session store, the current-session pointer,
// and the page-search cursor into one workspace. The tool surface cannot
// carry session handles (load_more takes no inputs), so the pointers the
// source kept in process-wide dictionaries live here instead, scoped to
// a single workspace instance and guarded by one mutex. The host is
// still expected to issue calls for one conversation at a time.
package browse

import (
	"errors"
	"fmt"
	"sync"

	"webscout/pagesearch"
	"webscout/session"
)

// ErrNoActiveSearch is returned when search_next_on_page runs without a
// preceding search_on_page.
var ErrNoActiveSearch = errors.New("no active search found, call search_on_page first")

type Workspace struct {
	store *session.Store

	mu      sync.Mutex
	current string
	search  *pagesearch.Cursor
}

func NewWorkspace(store *session.Store) *Workspace {
	return &Workspace{store: store}
}

// Store exposes the underlying session store (for the sweeper and tests).
func (w *Workspace) Store() *session.Store { return w.store }

// PageView is the first delivery of a freshly opened page.
type PageView struct {
	SessionID  string
	Content    string
	ChunkIndex int
	HasMore    bool
}

// OpenPage registers fetched content as a new session and points the
// workspace at it. Any outstanding search cursor keeps referencing the
// previous session and will fail to resolve once that session expires.
func (w *Workspace) OpenPage(content string, handle session.Handle) PageView {
	sess := w.store.Create(content, handle)

	w.mu.Lock()
	w.current = sess.ID()
	w.mu.Unlock()

	first := sess.First()
	return PageView{
		SessionID:  sess.ID(),
		Content:    first.Content,
		ChunkIndex: first.Index,
		HasMore:    first.HasMore,
	}
}

// LoadMore advances the current session's linear cursor.
func (w *Workspace) LoadMore() (session.ReadResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sess, err := w.currentLocked()
	if err != nil {
		return session.ReadResult{}, err
	}
	return sess.Advance(), nil
}

// ChunkView is one random-access chunk read.
type ChunkView struct {
	Index       int
	Content     string
	TotalChunks int
	Size        int
}

// ReadChunk returns the raw chunk at index without moving the linear
// cursor.
func (w *Workspace) ReadChunk(index int) (ChunkView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sess, err := w.currentLocked()
	if err != nil {
		return ChunkView{}, err
	}
	content, err := sess.ChunkAt(index)
	if err != nil {
		return ChunkView{}, err
	}
	return ChunkView{
		Index:       index,
		Content:     content,
		TotalChunks: sess.ChunkCount(),
		Size:        len(content),
	}, nil
}

// SearchOnPage starts a fresh substring search over the current session,
// silently discarding any prior search cursor.
func (w *Workspace) SearchOnPage(text string, numSnippets int) (pagesearch.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sess, err := w.currentLocked()
	if err != nil {
		return pagesearch.Result{}, err
	}
	res, cur := pagesearch.Start(sess.ID(), sess.Chunks(), text, numSnippets)
	w.search = cur
	return res, nil
}

// SearchNext continues the outstanding search. The originating session
// is re-resolved so an evicted session surfaces as not-found instead of
// serving stale text.
func (w *Workspace) SearchNext(numSnippets int) (pagesearch.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.search == nil {
		return pagesearch.Result{}, ErrNoActiveSearch
	}
	sess, err := w.store.Get(w.search.SessionID)
	if err != nil {
		return pagesearch.Result{}, fmt.Errorf("search session %s: %w", w.search.SessionID, err)
	}
	return w.search.Next(sess.Chunks(), numSnippets), nil
}

// CurrentSessionID reports the session the workspace points at, empty
// when no page has been visited.
func (w *Workspace) CurrentSessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Workspace) currentLocked() (*session.Session, error) {
	if w.current == "" {
		return nil, session.ErrNoActiveSession
	}
	sess, err := w.store.Get(w.current)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", w.current, err)
	}
	return sess, nil
}
