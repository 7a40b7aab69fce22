// Package pagesearch finds and paginates case-insensitive substring
// matches across a session's concatenated chunk text. Matching ignores
// chunk boundaries; each delivered match is a bracketed context snippet
// plus the chunk the match starts in.
package pagesearch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// snippetContext is how many characters of context are kept on each
	// side of a match.
	snippetContext = 100
	// overscanFactor bounds the eager offset scan at a multiple of the
	// requested batch. A safety cap, not a precision guarantee.
	overscanFactor = 10
)

// Snippet is one delivered match.
type Snippet struct {
	ChunkIndex int    `json:"chunk_index"`
	Snippet    string `json:"snippet"`
	Position   int    `json:"position"`
}

// Result is one search or continuation batch.
type Result struct {
	SearchText   string
	TotalMatches int
	Snippets     []Snippet
	HasMore      bool
}

// Cursor is the resumable state of one in-progress search. A new search
// overwrites any outstanding cursor; the session is referenced by id
// only and must be re-resolved on continuation.
type Cursor struct {
	SearchText string
	SessionID  string
	Offsets    []int
	Delivered  int
}

// Start scans chunks for needle and returns the first batch of snippets
// together with a cursor positioned after them.
func Start(sessionID string, chunks []string, needle string, batch int) (Result, *Cursor) {
	text := strings.Join(chunks, "")
	offsets := findOffsets(text, needle, batch*overscanFactor)

	n := batch
	if n > len(offsets) {
		n = len(offsets)
	}
	snippets := buildSnippets(text, chunks, needle, offsets[:n])

	cur := &Cursor{
		SearchText: needle,
		SessionID:  sessionID,
		Offsets:    offsets,
		Delivered:  len(snippets),
	}
	return Result{
		SearchText:   needle,
		TotalMatches: len(offsets),
		Snippets:     snippets,
		HasMore:      cur.Delivered < len(offsets),
	}, cur
}

// Next delivers the following batch from the stored offset list. The
// chunk text is re-concatenated from the caller-resolved session rather
// than cached on the cursor.
func (c *Cursor) Next(chunks []string, batch int) Result {
	text := strings.Join(chunks, "")

	end := c.Delivered + batch
	if end > len(c.Offsets) {
		end = len(c.Offsets)
	}
	snippets := buildSnippets(text, chunks, c.SearchText, c.Offsets[c.Delivered:end])
	c.Delivered = end

	return Result{
		SearchText:   c.SearchText,
		TotalMatches: len(c.Offsets),
		Snippets:     snippets,
		HasMore:      c.Delivered < len(c.Offsets),
	}
}

// findOffsets collects every case-insensitive occurrence of needle in
// text, stopping once max offsets have been collected. The scan folds
// rune-wise over the original text rather than lowering a copy, so
// every offset is a valid byte index into text even when case
// conversion changes a rune's encoded length. Candidate positions
// advance one rune at a time, so overlapping matches are all found.
func findOffsets(text, needle string, max int) []int {
	if needle == "" {
		return nil
	}
	var offsets []int
	for i := range text {
		if matchLen(text[i:], needle) < 0 {
			continue
		}
		offsets = append(offsets, i)
		if max > 0 && len(offsets) >= max {
			break
		}
	}
	return offsets
}

// matchLen reports how many bytes at the start of s case-fold to
// needle, or -1 when they do not match.
func matchLen(s, needle string) int {
	n := 0
	for _, want := range needle {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || !foldEqual(r, want) {
			return -1
		}
		n += size
	}
	return n
}

// foldEqual matches runes under Unicode simple folding, the same
// relation strings.EqualFold uses.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

func buildSnippets(text string, chunks []string, needle string, offsets []int) []Snippet {
	snippets := make([]Snippet, 0, len(offsets))
	for _, off := range offsets {
		snippets = append(snippets, Snippet{
			ChunkIndex: chunkIndexFor(chunks, off),
			Snippet:    buildSnippet(text, needle, off),
			Position:   off,
		})
	}
	return snippets
}

// buildSnippet cuts a context window around the match, clamped to the
// buffer bounds, and wraps the exact matched text in brackets. The
// match length is re-derived from the text because folding can change
// it relative to the needle.
func buildSnippet(text, needle string, off int) string {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	n := matchLen(text[off:], needle)
	if n < 0 {
		n = len(needle)
	}
	matchEnd := off + n
	if matchEnd > len(text) {
		matchEnd = len(text)
	}
	start := off - snippetContext
	if start < 0 {
		start = 0
	}
	end := matchEnd + snippetContext
	if end > len(text) {
		end = len(text)
	}
	var b strings.Builder
	b.WriteString("...")
	b.WriteString(text[start:off])
	b.WriteString("[")
	b.WriteString(text[off:matchEnd])
	b.WriteString("]")
	b.WriteString(text[matchEnd:end])
	b.WriteString("...")
	return strings.TrimSpace(b.String())
}

// chunkIndexFor walks chunk boundaries cumulatively to locate the chunk
// a concatenated-text offset falls in.
func chunkIndexFor(chunks []string, off int) int {
	pos := 0
	for i, chunk := range chunks {
		if off >= pos && off < pos+len(chunk) {
			return i
		}
		pos += len(chunk)
	}
	return 0
}
