package vterm

import (
	"regexp"
	"sync"
	"unicode"
)

// Side selects which edge of a match RegexIter anchors its cursor to when
// walking matches in a direction, mirroring search_next's side parameter.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

// Match is a single regex match's absolute-row span, used both by the
// one-shot search helpers and by RegexIter.
type Match struct {
	Start Point
	End   Point
}

// gridText linearizes every absolute row in the grid (including
// scrollback) into a single string, recording the absolute (row, col) at
// each byte offset so matches can be mapped back to grid coordinates.
// Soft-wrapped rows are joined without an inserted newline so multi-row
// matches aren't split at a wrap point; hard line breaks become '\n'.
type gridText struct {
	text    string
	offsets []Point // offsets[i] is the grid position of text byte i
}

func buildGridText(g *Grid) gridText {
	var b []byte
	var offsets []Point
	n := g.AbsLen()
	for i := 0; i < n; i++ {
		row, ok := g.AbsRow(i)
		if !ok {
			continue
		}
		cells := row.Cells()
		for col, c := range cells {
			if c.IsWideSpacer() || c.IsLeadingWideCharSpacer() {
				continue
			}
			r := c.Char
			if r == 0 {
				r = ' '
			}
			start := len(b)
			b = append(b, []byte(string(r))...)
			for len(offsets) < len(b) {
				offsets = append(offsets, Point{Row: i, Col: col})
			}
			_ = start
		}
		if !row.SoftWrap() {
			b = append(b, '\n')
			offsets = append(offsets, Point{Row: i, Col: len(cells)})
		}
	}
	return gridText{text: string(b), offsets: offsets}
}

func (gt gridText) pointAt(byteOffset int) Point {
	if byteOffset < 0 {
		return Point{}
	}
	if byteOffset >= len(gt.offsets) {
		if len(gt.offsets) == 0 {
			return Point{}
		}
		return gt.offsets[len(gt.offsets)-1]
	}
	return gt.offsets[byteOffset]
}

// smartCase returns re unchanged if its source pattern spells out an
// uppercase letter (the caller asked for case-sensitive matching), and
// otherwise a recompiled case-insensitive variant. Mirrors the
// smart-case convention of tools like the silver searcher and ripgrep.
func smartCase(re *regexp.Regexp) *regexp.Regexp {
	pattern := re.String()
	for _, r := range pattern {
		if unicode.IsUpper(r) {
			return re
		}
	}
	folded, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return re
	}
	return folded
}

// SearchAll returns every non-overlapping match of re across the grid
// (visible rows plus scrollback), in top-to-bottom, left-to-right order.
func SearchAll(g *Grid, re *regexp.Regexp) []Match {
	re = smartCase(re)
	gt := buildGridText(g)
	idx := re.FindAllStringIndex(gt.text, -1)
	out := make([]Match, 0, len(idx))
	for _, m := range idx {
		out = append(out, Match{Start: gt.pointAt(m[0]), End: gt.pointAt(maxInt(m[0], m[1]-1))})
	}
	return out
}

// SearchRight returns the first match at or after from, searching
// forward. Used for incremental "find next" UIs.
func SearchRight(g *Grid, re *regexp.Regexp, from Point) (Match, bool) {
	matches := SearchAll(g, re)
	for _, m := range matches {
		if !m.Start.less(from) {
			return m, true
		}
	}
	return Match{}, false
}

// SearchLeft returns the last match at or before from, searching
// backward.
func SearchLeft(g *Grid, re *regexp.Regexp, from Point) (Match, bool) {
	matches := SearchAll(g, re)
	best, ok := Match{}, false
	for _, m := range matches {
		if !from.less(m.Start) {
			best, ok = m, true
		}
	}
	return best, ok
}

// SearchNext finds the next match relative to current in the given
// direction, anchored to side (SideStart treats current as pointing at a
// match's start, SideEnd its end), so repeated calls step through
// matches without re-finding the one under the cursor.
func SearchNext(g *Grid, re *regexp.Regexp, current Point, side Side, forward bool) (Match, bool) {
	matches := SearchAll(g, re)
	if forward {
		for _, m := range matches {
			anchor := m.Start
			if side == SideEnd {
				anchor = m.End
			}
			if current.less(anchor) {
				return m, true
			}
		}
		return Match{}, false
	}
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		anchor := m.Start
		if side == SideEnd {
			anchor = m.End
		}
		if anchor.less(current) {
			return m, true
		}
	}
	return Match{}, false
}

// RegexIter walks every match in a single direction, for "find all and
// highlight" UIs that want to stop early. The full match list is computed
// once, when the iterator is built.
type RegexIter struct {
	matches []Match
	pos     int
	forward bool
}

// NewRegexIter builds an iterator over every match of re, walking
// forward or backward from the grid's start/end.
func NewRegexIter(g *Grid, re *regexp.Regexp, forward bool) *RegexIter {
	matches := SearchAll(g, re)
	pos := 0
	if !forward {
		pos = len(matches) - 1
	}
	return &RegexIter{matches: matches, pos: pos, forward: forward}
}

// Next returns the next match and advances, or ok=false when exhausted.
func (it *RegexIter) Next() (Match, bool) {
	if it.forward {
		if it.pos >= len(it.matches) {
			return Match{}, false
		}
		m := it.matches[it.pos]
		it.pos++
		return m, true
	}
	if it.pos < 0 {
		return Match{}, false
	}
	m := it.matches[it.pos]
	it.pos--
	return m, true
}

// SearchCache memoizes buildGridText's linearization across repeated
// searches against the same grid content, bounded to limit distinct
// grids (a Runtime has at most two: main and alt screen). Callers must
// Invalidate an entry once its grid's content changes; Runtime does
// this once per emitted frame rather than per mutation, since rebuilding
// on every keystroke of an incremental search is the case this exists to
// avoid.
type SearchCache struct {
	mu      sync.Mutex
	limit   int
	entries []searchCacheEntry
}

type searchCacheEntry struct {
	g  *Grid
	gt gridText
}

// NewSearchCache returns a cache holding at most limit grids' worth of
// linearized text (WithSearchCacheLimit); limit<=0 defaults to 2.
func NewSearchCache(limit int) *SearchCache {
	if limit <= 0 {
		limit = 2
	}
	return &SearchCache{limit: limit}
}

func (c *SearchCache) get(g *Grid) gridText {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.g == g {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			c.entries = append([]searchCacheEntry{e}, c.entries...)
			return e.gt
		}
	}
	gt := buildGridText(g)
	c.entries = append([]searchCacheEntry{{g: g, gt: gt}}, c.entries...)
	if len(c.entries) > c.limit {
		c.entries = c.entries[:c.limit]
	}
	return gt
}

// Invalidate drops any cached linearization of g, forcing the next
// lookup to rebuild it.
func (c *SearchCache) Invalidate(g *Grid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.g == g {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// SearchAllCached is SearchAll using cache's memoized linearization
// instead of rebuilding it from g on every call.
func SearchAllCached(cache *SearchCache, g *Grid, re *regexp.Regexp) []Match {
	re = smartCase(re)
	gt := cache.get(g)
	idx := re.FindAllStringIndex(gt.text, -1)
	out := make([]Match, 0, len(idx))
	for _, m := range idx {
		out = append(out, Match{Start: gt.pointAt(m[0]), End: gt.pointAt(maxInt(m[0], m[1]-1))})
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
