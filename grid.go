package vterm

// storage is the ring buffer backing a Grid: a fixed-capacity slice of Rows
// addressed through a rotating zero point, so scrolling is index
// arithmetic rather than copying rows.
type storage struct {
	rows         []Row
	zero         int
	visibleLines int
	length       int // number of logically active rows (<= cap(rows))
}

func newStorage(visibleLines, columns int, template Cell) storage {
	rows := make([]Row, visibleLines)
	for i := range rows {
		rows[i] = NewRow(columns, template)
	}
	return storage{rows: rows, zero: 0, visibleLines: visibleLines, length: visibleLines}
}

// computeIndex maps a logical row index (0 = oldest active row) to its
// physical slot in rows.
func (s *storage) computeIndex(index int) int {
	return (s.zero + index) % len(s.rows)
}

// rotate moves the ring's origin forward by n, so the n oldest rows are
// re-purposed as the n newest (their prior content is discarded by the
// caller via clear).
func (s *storage) rotate(n int) {
	if len(s.rows) == 0 {
		return
	}
	s.zero = (s.zero + n) % len(s.rows)
}

// rotateDown is rotate's inverse: moves the origin backward by n.
func (s *storage) rotateDown(n int) {
	if len(s.rows) == 0 {
		return
	}
	n %= len(s.rows)
	s.zero = (s.zero + len(s.rows) - n) % len(s.rows)
}

// growLines extends the active length by additional rows, allocating more
// backing rows if the ring hasn't reached capacity yet.
func (s *storage) growLines(additional, columns int, template Cell) {
	newLen := s.length + additional
	for len(s.rows) < newLen {
		s.rows = append(s.rows, NewRow(columns, template))
	}
	s.length = newLen
}

// shrinkLines reduces the active length by count, never below visibleLines.
func (s *storage) shrinkLines(count int) {
	s.length -= count
	if s.length < 0 {
		s.length = 0
	}
	if s.length < s.visibleLines {
		s.length = s.visibleLines
	}
}

func (s *storage) get(index int) *Row {
	if index < 0 || index >= s.length {
		return nil
	}
	return &s.rows[s.computeIndex(index)]
}

func (s *storage) swap(i, j int) {
	pi, pj := s.computeIndex(i), s.computeIndex(j)
	s.rows[pi], s.rows[pj] = s.rows[pj], s.rows[pi]
}

// ScrollKind selects the form of viewport scrolling scroll_display performs.
type ScrollKind int

const (
	ScrollDelta ScrollKind = iota
	ScrollPageUp
	ScrollPageDown
	ScrollTop
	ScrollBottom
)

// ScrollDirection parameterizes Grid.ScrollDisplay. Delta is only
// meaningful when Kind is ScrollDelta: positive scrolls back into history,
// negative scrolls toward the live tail.
type ScrollDirection struct {
	Kind  ScrollKind
	Delta int
}

// Grid is a terminal's visible rows plus scrollback, stored in a ring
// buffer so scrolling never copies the full screen. Row 0 is always the
// top of whatever is currently displayed (the live tail, or further back
// if DisplayOffset is nonzero).
type Grid struct {
	storage        storage
	columns        int
	visibleLines   int
	maxScrollLimit int
	displayOffset  int
}

// NewGrid returns a grid of visibleLines x columns with scrollback capped
// at maxScrollLimit additional lines beyond the visible area.
func NewGrid(visibleLines, columns, maxScrollLimit int, template Cell) *Grid {
	if visibleLines < 1 {
		visibleLines = 1
	}
	if columns < 1 {
		columns = 1
	}
	return &Grid{
		storage:        newStorage(visibleLines, columns, template),
		columns:        columns,
		visibleLines:   visibleLines,
		maxScrollLimit: maxScrollLimit,
	}
}

func (g *Grid) Width() int  { return g.columns }
func (g *Grid) Height() int { return g.visibleLines }

// HistorySize returns how many rows currently sit above the visible area.
func (g *Grid) HistorySize() int {
	h := g.storage.length - g.visibleLines
	if h < 0 {
		return 0
	}
	return h
}

// TotalLines returns visible rows plus history.
func (g *Grid) TotalLines() int { return g.storage.length }

func (g *Grid) DisplayOffset() int { return g.displayOffset }

// MaxScrollLimit returns the configured scrollback cap.
func (g *Grid) MaxScrollLimit() int { return g.maxScrollLimit }

// logicalOf converts a viewport-relative row index (0 = top of what's
// currently displayed) to a logical storage index.
func (g *Grid) logicalOf(idx int) int {
	history := g.HistorySize()
	base := history - g.displayOffset
	if base < 0 {
		base = 0
	}
	return base + idx
}

// Row returns the viewport row at idx (0 = top of the displayed area).
// Panics if idx is out of [0, Height()) — callers are expected to bound it
// themselves, matching cursor-driven access patterns elsewhere in Surface.
func (g *Grid) Row(idx int) *Row {
	r := g.storage.get(g.logicalOf(idx))
	if r == nil {
		panic("vterm: grid row index out of bounds")
	}
	return r
}

// RowOk is Row without the panic, for callers (search, snapshot) that walk
// a range and must tolerate a short final page.
func (g *Grid) RowOk(idx int) (*Row, bool) {
	r := g.storage.get(g.logicalOf(idx))
	return r, r != nil
}

// liveBase is the logical index of the live (unscrolled) viewport's top
// row — where cursor-driven mutation (print, scroll, erase) always acts,
// regardless of DisplayOffset.
func (g *Grid) liveBase() int { return g.HistorySize() }

// Resize changes the grid's dimensions. A column change triggers a full
// reflow; a visible-line-only change grows or shrinks in place.
func (g *Grid) Resize(columns, visibleLines int, template Cell) {
	if visibleLines < 1 {
		visibleLines = 1
	}
	if columns != g.columns {
		g.reflowColumns(columns, visibleLines, template)
		return
	}
	g.resizeVisibleLines(visibleLines, columns, template)
}

func (g *Grid) resizeVisibleLines(visibleLines, columns int, template Cell) {
	previousOffset := g.displayOffset
	currentTotal := g.storage.length

	if visibleLines > currentTotal {
		g.storage.growLines(visibleLines-currentTotal, columns, template)
	}

	g.storage.visibleLines = visibleLines
	g.visibleLines = visibleLines
	hist := g.HistorySize()
	if previousOffset < hist {
		g.displayOffset = previousOffset
	} else {
		g.displayOffset = hist
	}

	maxTotal := g.visibleLines + g.maxScrollLimit
	if g.storage.length > maxTotal {
		excess := g.storage.length - maxTotal
		if g.storage.length > 0 {
			g.storage.rotate(excess % g.storage.length)
		}
		g.storage.shrinkLines(excess)
	}
}

// reflowColumns rebuilds every row at the new column count, stitching
// soft-wrapped rows back into logical lines and re-splitting them so a
// wide character's leading cell is never separated from its trailing
// spacer.
func (g *Grid) reflowColumns(columns, visibleLines int, template Cell) {
	maxTotal := visibleLines + g.maxScrollLimit

	var logicalLines [][]Cell
	var current []Cell

	for i := 0; i < g.storage.length; i++ {
		row := g.storage.get(i)
		if row == nil {
			continue
		}
		trimmed := trimTrailingBlanks(row.Cells())
		if len(trimmed) == 0 && !row.SoftWrap() {
			if len(current) > 0 {
				logicalLines = append(logicalLines, current)
				current = nil
			}
			logicalLines = append(logicalLines, nil)
			continue
		}

		current = append(current, trimmed...)
		if !row.SoftWrap() {
			logicalLines = append(logicalLines, current)
			current = nil
		}
	}
	if len(current) > 0 {
		logicalLines = append(logicalLines, current)
	}
	if len(logicalLines) == 0 {
		logicalLines = append(logicalLines, nil)
	}

	var newRows []Row
	for _, line := range logicalLines {
		if len(line) == 0 {
			row := NewRow(columns, template)
			row.SetSoftWrap(false)
			newRows = append(newRows, row)
			continue
		}

		cursor := 0
		for cursor < len(line) {
			chunkEnd := cursor + columns
			if chunkEnd > len(line) {
				chunkEnd = len(line)
			}
			if chunkEnd < len(line) {
				for chunkEnd > cursor && line[chunkEnd-1].IsWide() {
					chunkEnd--
				}
				if chunkEnd == cursor {
					chunkEnd = cursor + 1
					if chunkEnd > len(line) {
						chunkEnd = len(line)
					}
				}
			}

			row := NewRow(columns, template)
			cells := row.Cells()
			for i, cell := range line[cursor:chunkEnd] {
				cells[i] = cell
			}
			row.SetSoftWrap(chunkEnd < len(line))
			newRows = append(newRows, row)
			cursor = chunkEnd
		}
	}

	if len(newRows) > maxTotal {
		excess := len(newRows) - maxTotal
		newRows = newRows[excess:]
	}
	for len(newRows) < visibleLines {
		newRows = append(newRows, NewRow(columns, template))
	}

	g.storage.rows = newRows
	g.storage.zero = 0
	g.storage.length = len(newRows)
	if visibleLines > g.storage.length {
		visibleLines = g.storage.length
	}
	g.storage.visibleLines = visibleLines
	g.columns = columns
	g.visibleLines = visibleLines
	hist := g.HistorySize()
	if g.displayOffset > hist {
		g.displayOffset = hist
	}
}

func trimTrailingBlanks(cells []Cell) []Cell {
	end := len(cells)
	for end > 0 {
		c := cells[end-1]
		if !c.IsBlankPadding() || c.IsWide() || c.IsWideSpacer() {
			break
		}
		end--
	}
	out := make([]Cell, end)
	copy(out, cells[:end])
	return out
}

// Clear resets every row (visible and history) to a blank of template.
func (g *Grid) Clear(template Cell) {
	for i := 0; i < g.storage.length; i++ {
		if row := g.storage.get(i); row != nil {
			row.Clear(template)
		}
	}
}

// ClearHistory discards all scrollback, keeping only the visible rows.
func (g *Grid) ClearHistory() {
	g.storage.rotate(g.HistorySize())
	g.storage.length = g.visibleLines
	g.displayOffset = 0
}

// ClearRange blanks columns [startCol, endCol] (inclusive) of viewport row
// rowIdx.
func (g *Grid) ClearRange(rowIdx, startCol, endCol int, template Cell) {
	if rowIdx < 0 || rowIdx >= g.visibleLines || startCol >= g.columns {
		return
	}
	if endCol > g.columns-1 {
		endCol = g.columns - 1
	}
	row := g.Row(rowIdx)
	row.ClearRange(startCol, endCol+1, template)
}

// InsertBlankCells shifts [colIdx, columns) right by count within rowIdx,
// discarding content pushed past the right edge.
func (g *Grid) InsertBlankCells(rowIdx, colIdx, count int, template Cell) {
	if rowIdx < 0 || rowIdx >= g.visibleLines || colIdx >= g.columns || count <= 0 {
		return
	}
	row := g.Row(rowIdx)
	cells := row.Cells()
	maxShift := g.columns - colIdx
	if count > maxShift {
		count = maxShift
	}
	for idx := g.columns - colIdx - count - 1; idx >= 0; idx-- {
		source := colIdx + idx
		target := source + count
		cells[target] = cells[source]
	}
	blank := BlankCell(template)
	end := colIdx + count
	if end > g.columns {
		end = g.columns
	}
	for idx := colIdx; idx < end; idx++ {
		cells[idx] = blank
	}
}

// DeleteCells shifts [colIdx+count, columns) left into colIdx within
// rowIdx, blanking the vacated tail.
func (g *Grid) DeleteCells(rowIdx, colIdx, count int, template Cell) {
	if rowIdx < 0 || rowIdx >= g.visibleLines || colIdx >= g.columns || count <= 0 {
		return
	}
	row := g.Row(rowIdx)
	cells := row.Cells()
	span := g.columns - colIdx
	if count > span {
		count = span
	}
	blank := BlankCell(template)
	for idx := colIdx; idx < g.columns; idx++ {
		source := idx + count
		if source < g.columns {
			cells[idx] = cells[source]
		} else {
			cells[idx] = blank
		}
	}
}

// ScrollUp scrolls the region [top, bottom] (viewport-relative, inclusive)
// up by count rows. When top == 0, the rows scrolled off become
// scrollback history (bounded by MaxScrollLimit); otherwise the region is
// scrolled in place and history is untouched.
func (g *Grid) ScrollUp(top, bottom, count int, template Cell) {
	if top > bottom || bottom >= g.visibleLines || count <= 0 {
		return
	}

	if top == 0 {
		history := g.HistorySize()
		canGrow := g.maxScrollLimit - history
		if canGrow < 0 {
			canGrow = 0
		}
		growBy := count
		if growBy > canGrow {
			growBy = canGrow
		}
		overflow := count - growBy

		if growBy > 0 {
			g.storage.growLines(growBy, g.columns, template)
			newLen := g.storage.length
			for i := 0; i < growBy; i++ {
				if row := g.storage.get(newLen - growBy + i); row != nil {
					row.Clear(template)
				}
			}
		}

		if overflow > 0 && g.storage.length > 0 {
			g.storage.rotate(overflow)
			newLen := g.storage.length
			start := newLen - overflow
			if start < 0 {
				start = 0
			}
			for i := 0; i < overflow; i++ {
				if row := g.storage.get(start + i); row != nil {
					row.Clear(template)
				}
			}
		}

		if g.displayOffset > 0 {
			g.displayOffset = 0
		}
		return
	}

	history := g.HistorySize()
	for n := 0; n < count; n++ {
		for row := top; row < bottom; row++ {
			g.storage.swap(history+row, history+row+1)
		}
		if r := g.storage.get(history + bottom); r != nil {
			r.Clear(template)
		}
	}
}

// ScrollDown scrolls the region [top, bottom] down by count rows. Never
// touches history: rows scrolled past the bottom of the region are
// discarded.
func (g *Grid) ScrollDown(top, bottom, count int, template Cell) {
	if top > bottom || bottom >= g.visibleLines || count <= 0 {
		return
	}

	history := g.HistorySize()
	for n := 0; n < count; n++ {
		for row := bottom; row > top; row-- {
			g.storage.swap(history+row, history+row-1)
		}
		if r := g.storage.get(history + top); r != nil {
			r.Clear(template)
		}
	}
}

// ScrollDisplay moves the viewport through scrollback without touching
// grid content.
func (g *Grid) ScrollDisplay(dir ScrollDirection) {
	history := g.HistorySize()
	switch dir.Kind {
	case ScrollDelta:
		v := g.displayOffset + dir.Delta
		if v < 0 {
			v = 0
		}
		if v > history {
			v = history
		}
		g.displayOffset = v
	case ScrollPageUp:
		v := g.displayOffset + g.visibleLines
		if v > history {
			v = history
		}
		g.displayOffset = v
	case ScrollPageDown:
		v := g.displayOffset - g.visibleLines
		if v < 0 {
			v = 0
		}
		g.displayOffset = v
	case ScrollTop:
		g.displayOffset = history
	case ScrollBottom:
		g.displayOffset = 0
	}
}

// DisplayIter returns the rows currently shown in the viewport, top to
// bottom, accounting for DisplayOffset.
func (g *Grid) DisplayIter() []*Row {
	history := g.HistorySize()
	start := history - g.displayOffset
	if start < 0 {
		start = 0
	}
	out := make([]*Row, 0, g.visibleLines)
	for i := 0; i < g.visibleLines; i++ {
		if row := g.storage.get(start + i); row != nil {
			out = append(out, row)
		}
	}
	return out
}

// AbsRow returns the row at an absolute logical index (0 = oldest row in
// scrollback), for components that need to address history directly
// (search, selection serialization). ok is false if index is out of range.
func (g *Grid) AbsRow(index int) (*Row, bool) {
	r := g.storage.get(index)
	return r, r != nil
}

// AbsLen returns the absolute logical row count (history + visible).
func (g *Grid) AbsLen() int { return g.storage.length }
