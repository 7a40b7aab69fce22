// Package session owns the lifecycle of fetched-page state across tool
// calls: the chunk list, the linear read cursor, and idle-based eviction.
package session

import (
	"errors"
	"fmt"
	"time"
)

// ChunkSize is the fixed maximum size of a content chunk in bytes.
const ChunkSize = 5000

var (
	// ErrNoActiveSession is returned when a cursor-dependent tool runs
	// before any page has been visited.
	ErrNoActiveSession = errors.New("no active session found, call visit_page first")
	// ErrNotFound is returned for unknown or expired session ids.
	ErrNotFound = errors.New("session not found")
)

// OutOfRangeError reports a chunk index outside the valid bounds.
type OutOfRangeError struct {
	Index int
	Total int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("chunk index %d is out of range, available chunks: 0 to %d", e.Index, e.Total-1)
}

// Handle is a releasable external resource attached to a session,
// typically a browser tab. Release failures are swallowed by the store.
type Handle interface {
	Release() error
}

// Session holds one fetched document as an immutable chunk list plus the
// linear read cursor. All mutation happens through Store and Workspace;
// callers outside this package treat sessions as read-only.
type Session struct {
	id         string
	chunks     []string
	cursor     int
	createdAt  time.Time
	lastUsedAt time.Time
	handle     Handle
}

func (s *Session) ID() string         { return s.id }
func (s *Session) Cursor() int        { return s.cursor }
func (s *Session) ChunkCount() int    { return len(s.chunks) }
func (s *Session) Chunks() []string   { return s.chunks }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// ChunkAt returns the raw chunk at index without moving the cursor.
func (s *Session) ChunkAt(index int) (string, error) {
	if index < 0 || index >= len(s.chunks) {
		return "", &OutOfRangeError{Index: index, Total: len(s.chunks)}
	}
	return s.chunks[index], nil
}

// ReadResult is the outcome of one linear read.
type ReadResult struct {
	Index    int
	Content  string
	HasMore  bool
	Done     bool // no chunk was delivered, the cursor is at the end
}

// First formats chunk 0 without moving the cursor. visit_page delivers
// this immediately after creation.
func (s *Session) First() ReadResult {
	return ReadResult{
		Index:   0,
		Content: FormatChunk(0, s.chunks[0]),
		HasMore: len(s.chunks) > 1,
	}
}

// Advance delivers the next chunk on the linear path. Reading past the
// end is a terminal condition, not an error.
func (s *Session) Advance() ReadResult {
	next := s.cursor + 1
	if next >= len(s.chunks) {
		return ReadResult{Index: s.cursor, Done: true}
	}
	s.cursor = next
	return ReadResult{
		Index:   next,
		Content: FormatChunk(next, s.chunks[next]),
		HasMore: next < len(s.chunks)-1,
	}
}

// FormatChunk renders a chunk for delivery. A full-size chunk gets a
// trailing ellipsis as a hint that more text likely follows.
func FormatChunk(index int, text string) string {
	out := fmt.Sprintf("Chunk %d\n%s", index, text)
	if len(text) == ChunkSize {
		out += "..."
	}
	return out
}

// Split slices content into ChunkSize pieces at fixed offsets. Slicing is
// byte-based and deliberately ignores word boundaries; concatenating the
// result reproduces the input exactly. An empty document yields a single
// empty chunk so that chunk 0 always exists.
func Split(content string) []string {
	if content == "" {
		return []string{""}
	}
	chunks := make([]string, 0, (len(content)+ChunkSize-1)/ChunkSize)
	for start := 0; start < len(content); start += ChunkSize {
		end := start + ChunkSize
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks
}
