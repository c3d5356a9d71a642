package vterm

// Snapshot is an immutable, independent copy of a Surface's visible state,
// cheap to clone and hand to a rendering thread: after construction nothing
// in it is mutated, and nothing in it aliases the Surface it was taken
// from.
type Snapshot struct {
	Rows    int
	Columns int

	Cells [][]Cell // Rows x Columns, viewport only (scrollback is not copied)

	Cursor SnapshotCursor

	DisplayOffset int
	Mode          Mode

	Selection *SnapshotSelection // nil if nothing is selected

	Blocks []Block

	Hyperlinks map[HyperlinkID]string

	Title string
}

// SnapshotCursor is the cursor's position and rendering state at the
// moment of capture.
type SnapshotCursor struct {
	Row     int
	Col     int
	Visible bool
	Shape   CursorShape
	Style   CursorStyle
}

// SnapshotSelection is a selection's serialized bounds and text, captured
// once so a client never needs to re-walk the grid to render or copy it.
type SnapshotSelection struct {
	Kind  SelectionKind
	Start Point
	End   Point
	Text  string
}

// Snapshot captures a's current visible state. Per spec, only the
// viewport (s.grid.Height() rows, rooted at the display offset) is
// copied; scrollback is addressed separately via Grid for history
// scrolling UIs, not duplicated into every snapshot.
func (s *Surface) Snapshot() Snapshot {
	rows := s.grid.Height()
	cols := s.grid.Width()

	cells := make([][]Cell, rows)
	display := s.grid.DisplayIter()
	for i := 0; i < rows && i < len(display); i++ {
		row := display[i]
		line := make([]Cell, cols)
		copy(line, row.Cells())
		cells[i] = line
	}

	snap := Snapshot{
		Rows:    rows,
		Columns: cols,
		Cells:   cells,
		Cursor: SnapshotCursor{
			Row:     s.cursor.Row,
			Col:     s.cursor.Col,
			Visible: s.cursor.Visible,
			Shape:   s.cursor.Shape,
			Style:   s.cursor.Style,
		},
		DisplayOffset: s.grid.DisplayOffset(),
		Mode:          s.mode,
		Blocks:        s.blocks.Blocks(),
		Hyperlinks:    s.hyperlinks.Snapshot(),
		Title:         s.title,
	}

	if s.selection != nil {
		start, end := s.selection.Bounds()
		snap.Selection = &SnapshotSelection{
			Kind:  s.selection.Kind,
			Start: start,
			End:   end,
			Text: serializeRange(func(i int) (*Row, bool) {
				return s.grid.AbsRow(i)
			}, start, end, s.selection.Kind),
		}
	}

	return snap
}
