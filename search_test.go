package vterm

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridWithText(rows, cols int, lines ...string) *Grid {
	g := NewGrid(rows, cols, 100, NewCell())
	for i, line := range lines {
		row := g.Row(i)
		for c, r := range line {
			cell := row.Cell(c)
			cell.Char = r
			cell.SetFlag(FlagTouched)
		}
	}
	return g
}

func TestSearchAllFindsMatchesAcrossRows(t *testing.T) {
	g := gridWithText(3, 10, "hello", "world", "hello again")
	matches := SearchAll(g, regexp.MustCompile("hello"))
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Start.Row)
	assert.Equal(t, 2, matches[1].Start.Row)
}

func TestSearchAllLowercasePatternIsCaseInsensitive(t *testing.T) {
	g := gridWithText(3, 10, "Hello", "world", "HELLO")
	matches := SearchAll(g, regexp.MustCompile("hello"))
	assert.Len(t, matches, 2, "no uppercase in the pattern folds case")
}

func TestSearchAllUppercasePatternIsCaseSensitive(t *testing.T) {
	g := gridWithText(3, 10, "Hello", "world", "hello")
	matches := SearchAll(g, regexp.MustCompile("Hello"))
	require.Len(t, matches, 1, "an uppercase letter in the pattern forces exact case")
	assert.Equal(t, 0, matches[0].Start.Row)
}

func TestSearchRightFindsFirstMatchAtOrAfter(t *testing.T) {
	g := gridWithText(3, 10, "foo", "foo", "foo")
	m, ok := SearchRight(g, regexp.MustCompile("foo"), Point{Row: 1, Col: 0})
	require.True(t, ok)
	assert.Equal(t, 1, m.Start.Row)
}

func TestSearchLeftFindsLastMatchAtOrBefore(t *testing.T) {
	g := gridWithText(3, 10, "foo", "foo", "foo")
	m, ok := SearchLeft(g, regexp.MustCompile("foo"), Point{Row: 1, Col: 0})
	require.True(t, ok)
	assert.Equal(t, 1, m.Start.Row)
}

func TestSearchNextStepsForwardPastCurrent(t *testing.T) {
	g := gridWithText(3, 10, "foo", "foo", "foo")
	m, ok := SearchNext(g, regexp.MustCompile("foo"), Point{Row: 0, Col: 0}, SideStart, true)
	require.True(t, ok)
	assert.Equal(t, 1, m.Start.Row, "steps to the next match, not the one under the cursor")
}

func TestSearchNextStepsBackward(t *testing.T) {
	g := gridWithText(3, 10, "foo", "foo", "foo")
	m, ok := SearchNext(g, regexp.MustCompile("foo"), Point{Row: 2, Col: 0}, SideStart, false)
	require.True(t, ok)
	assert.Equal(t, 1, m.Start.Row)
}

func TestRegexIterForwardAndBackward(t *testing.T) {
	g := gridWithText(3, 10, "a", "a", "a")

	it := NewRegexIter(g, regexp.MustCompile("a"), true)
	var rows []int
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		rows = append(rows, m.Start.Row)
	}
	assert.Equal(t, []int{0, 1, 2}, rows)

	rit := NewRegexIter(g, regexp.MustCompile("a"), false)
	rows = nil
	for {
		m, ok := rit.Next()
		if !ok {
			break
		}
		rows = append(rows, m.Start.Row)
	}
	assert.Equal(t, []int{2, 1, 0}, rows)
}

func TestSearchCacheReturnsSameResultAsUncached(t *testing.T) {
	g := gridWithText(3, 10, "hello", "world", "hello")
	cache := NewSearchCache(2)
	re := regexp.MustCompile("hello")

	want := SearchAll(g, re)
	got := SearchAllCached(cache, g, re)
	assert.Equal(t, want, got)

	// A second call should hit the cache's memoized entry rather than
	// recomputing; the result must still match.
	got2 := SearchAllCached(cache, g, re)
	assert.Equal(t, want, got2)
}

func TestSearchCacheInvalidateForcesRebuild(t *testing.T) {
	g := gridWithText(3, 10, "hello")
	cache := NewSearchCache(2)
	re := regexp.MustCompile("hello|bye")

	SearchAllCached(cache, g, re)
	g.Row(1).Cell(0).Char = 'b'
	g.Row(1).Cell(1).Char = 'y'
	g.Row(1).Cell(2).Char = 'e'
	for i := 0; i < 3; i++ {
		g.Row(1).Cell(i).SetFlag(FlagTouched)
	}

	cache.Invalidate(g)
	got := SearchAllCached(cache, g, re)
	assert.Len(t, got, 2, "invalidated cache picks up the new row content")
}

func TestSearchCacheEvictsBeyondLimit(t *testing.T) {
	cache := NewSearchCache(1)
	g1 := gridWithText(2, 5, "a")
	g2 := gridWithText(2, 5, "b")
	re := regexp.MustCompile(".")

	SearchAllCached(cache, g1, re)
	SearchAllCached(cache, g2, re)

	require.Len(t, cache.entries, 1)
	assert.Same(t, g2, cache.entries[0].g, "most recently used grid survives eviction")
}
