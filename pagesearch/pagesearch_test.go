package pagesearch

import (
	"strings"
	"testing"
)

func TestStartFindsCaseInsensitiveMatches(t *testing.T) {
	chunks := []string{"The quick the fox. ", "Another THE here."}
	res, cur := Start("sess", chunks, "the", 10)

	if res.TotalMatches != 4 {
		t.Fatalf("expected 4 matches (incl. Another), got %d", res.TotalMatches)
	}
	if len(res.Snippets) != 4 {
		t.Fatalf("expected 4 snippets, got %d", len(res.Snippets))
	}
	if cur.Delivered != 4 {
		t.Fatalf("cursor should account for delivered snippets, got %d", cur.Delivered)
	}
	for _, s := range res.Snippets {
		if !strings.Contains(s.Snippet, "[") || !strings.Contains(s.Snippet, "]") {
			t.Fatalf("snippet missing match brackets: %q", s.Snippet)
		}
	}
}

func TestOverlappingMatchesAreAllFound(t *testing.T) {
	res, _ := Start("sess", []string{"aaaa"}, "aa", 10)
	want := []int{0, 1, 2}
	if res.TotalMatches != len(want) {
		t.Fatalf("expected %d overlapping matches, got %d", len(want), res.TotalMatches)
	}
	for i, s := range res.Snippets {
		if s.Position != want[i] {
			t.Fatalf("match %d at offset %d, want %d", i, s.Position, want[i])
		}
	}
}

func TestScanCapBoundsOffsetList(t *testing.T) {
	text := strings.Repeat("ab", 100)
	res, _ := Start("sess", []string{text}, "ab", 2)
	if res.TotalMatches != 20 {
		t.Fatalf("scan should stop at 10x batch, got %d offsets", res.TotalMatches)
	}
	if len(res.Snippets) != 2 {
		t.Fatalf("only the first batch should be delivered, got %d", len(res.Snippets))
	}
}

func TestContinuationHasNoOverlapOrGap(t *testing.T) {
	// "the" appears 6 times
	text := "the one, the two, the three, the four, the five, the six"
	chunks := []string{text}

	res, cur := Start("s", chunks, "the", 2)
	if len(res.Snippets) != 2 {
		t.Fatalf("first batch: got %d snippets", len(res.Snippets))
	}

	next := cur.Next(chunks, 3)
	if len(next.Snippets) != 3 {
		t.Fatalf("second batch: got %d snippets", len(next.Snippets))
	}
	if !next.HasMore {
		t.Fatal("one match remains, has_more should be true")
	}

	// batches must be adjacent slices of the same offset list
	if next.Snippets[0].Position <= res.Snippets[1].Position {
		t.Fatal("continuation overlaps the first batch")
	}
	all := append(res.Snippets, next.Snippets...)
	for i := 1; i < len(all); i++ {
		if all[i].Position <= all[i-1].Position {
			t.Fatalf("offsets not strictly increasing at %d", i)
		}
	}

	last := cur.Next(chunks, 3)
	if len(last.Snippets) != 1 || last.HasMore {
		t.Fatalf("final batch should deliver 1 snippet and end: %+v", last)
	}
}

func TestSnippetWindowClampedToBounds(t *testing.T) {
	res, _ := Start("s", []string{"needle at the very start"}, "needle", 1)
	if len(res.Snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(res.Snippets))
	}
	s := res.Snippets[0].Snippet
	if !strings.HasPrefix(s, "...[needle]") {
		t.Fatalf("match at offset 0 should have no leading context: %q", s)
	}
}

func TestChunkIndexResolution(t *testing.T) {
	chunks := []string{strings.Repeat("x", 10), "needle tail"}
	res, _ := Start("s", chunks, "needle", 1)
	if res.Snippets[0].ChunkIndex != 1 {
		t.Fatalf("match should resolve to chunk 1, got %d", res.Snippets[0].ChunkIndex)
	}
	if res.Snippets[0].Position != 10 {
		t.Fatalf("offset should be into the concatenated text, got %d", res.Snippets[0].Position)
	}
}

func TestMatchSpanningChunkBoundary(t *testing.T) {
	chunks := []string{"alpha bet", "a gamma"}
	res, _ := Start("s", chunks, "beta", 1)
	if res.TotalMatches != 1 {
		t.Fatalf("matching must ignore chunk boundaries, got %d matches", res.TotalMatches)
	}
	if res.Snippets[0].ChunkIndex != 0 {
		t.Fatalf("a spanning match belongs to the chunk it starts in, got %d", res.Snippets[0].ChunkIndex)
	}
}

func TestOffsetsValidAfterNonASCIIText(t *testing.T) {
	// "Ⱥ" (2 bytes) lowercases to "ⱥ" (3 bytes); offsets must index the
	// original text, not a case-converted copy of it
	text := strings.Repeat("Ⱥ", 150) + " match here"
	res, _ := Start("s", []string{text}, "match", 5)

	if res.TotalMatches != 1 {
		t.Fatalf("expected 1 match, got %d", res.TotalMatches)
	}
	s := res.Snippets[0]
	if s.Position != 301 {
		t.Fatalf("match offset should index the original bytes, got %d", s.Position)
	}
	if !strings.Contains(s.Snippet, "[match]") {
		t.Fatalf("snippet missing bracketed match: %q", s.Snippet)
	}
}

func TestFoldedMatchWithDifferentByteLength(t *testing.T) {
	res, _ := Start("s", []string{"aȺb"}, "ⱥ", 5)
	if res.TotalMatches != 1 {
		t.Fatalf("expected 1 folded match, got %d", res.TotalMatches)
	}
	s := res.Snippets[0]
	if s.Position != 1 {
		t.Fatalf("match at byte offset 1, got %d", s.Position)
	}
	if !strings.Contains(s.Snippet, "[Ⱥ]") {
		t.Fatalf("brackets should wrap the text as it appears on the page: %q", s.Snippet)
	}
}

func TestEmptyNeedleAndNoMatches(t *testing.T) {
	res, _ := Start("s", []string{"content"}, "", 5)
	if res.TotalMatches != 0 || len(res.Snippets) != 0 {
		t.Fatalf("empty needle should match nothing: %+v", res)
	}
	res, _ = Start("s", []string{"content"}, "zzz", 5)
	if res.TotalMatches != 0 {
		t.Fatalf("expected no matches, got %d", res.TotalMatches)
	}
}
