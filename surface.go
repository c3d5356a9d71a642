package vterm

// EraseMode selects which part of a line or screen an erase operation
// clears, matching the CSI J / CSI K parameter conventions.
type EraseMode int

const (
	EraseToEnd EraseMode = iota
	EraseToStart
	EraseAll
	EraseScrollback // ED mode 3
)

// Surface aggregates everything above the Grid: cursor, modes, scrolling
// region, tab stops, selection, title stack, hyperlinks and shell-
// integration blocks. Only the active grid (main or alternate) receives
// mutations.
type Surface struct {
	main *Grid
	alt  *Grid
	grid *Grid // currently active

	cursor *Cursor
	mode   Mode
	kbMode keyboardModeStack

	scrollTop    int
	scrollBottom int // inclusive

	tabStops map[int]bool

	selection *Selection

	titleStack []string
	title      string

	hyperlinks *hyperlinkTable
	blocks     *blockTracker
	graphics   *graphicsTable

	charsetIndex CharsetIndex
	charsets     [4]Charset

	savedMainCursor Cursor // for 1049's "save cursor" leg
}

// NewSurface returns a Surface with the given visible size and scrollback
// cap (applied to the main grid only; the alt grid never scrolls back).
func NewSurface(rows, columns, maxScrollLimit int) *Surface {
	template := NewCell()
	s := &Surface{
		main:         NewGrid(rows, columns, maxScrollLimit, template),
		alt:          NewGrid(rows, columns, 0, template),
		cursor:       NewCursor(),
		mode:         ModeShowCursor | ModeLineWrap,
		kbMode:       newKeyboardModeStack(),
		scrollBottom: rows - 1,
		tabStops:     defaultTabStops(columns),
		hyperlinks:   newHyperlinkTable(),
		blocks:       newBlockTracker(),
		graphics:     newGraphicsTable(),
	}
	s.grid = s.main
	return s
}

func defaultTabStops(columns int) map[int]bool {
	m := make(map[int]bool)
	for col := 8; col < columns; col += 8 {
		m[col] = true
	}
	return m
}

func (s *Surface) Grid() *Grid      { return s.grid }
func (s *Surface) MainGrid() *Grid  { return s.main }
func (s *Surface) Cursor() *Cursor  { return s.cursor }
func (s *Surface) Mode() Mode       { return s.mode }
func (s *Surface) Title() string    { return s.title }
func (s *Surface) Selection() *Selection { return s.selection }
func (s *Surface) Blocks() []Block  { return s.blocks.Blocks() }

// StartSelection begins a new selection of the given kind, anchored at p.
func (s *Surface) StartSelection(kind SelectionKind, p Point) {
	s.selection = &Selection{Kind: kind, Anchor: p, Head: p}
}

// ExtendSelection moves the live end of the current selection to p; a
// no-op if nothing is selected.
func (s *Surface) ExtendSelection(p Point) {
	if s.selection != nil {
		s.selection.Head = p
	}
}

// ClearSelection drops the current selection, if any.
func (s *Surface) ClearSelection() { s.selection = nil }

// Resize propagates a column/row change to both grids and clamps cursor
// and scroll region to the new bounds. Selection is cleared; block row
// spans are neither recomputed nor remapped, so after a reflow they may
// no longer line up with their marker rows.
func (s *Surface) Resize(rows, columns int) {
	template := BlankCell(s.cursor.Template)
	s.main.Resize(columns, rows, template)
	s.alt.Resize(columns, rows, template)
	s.tabStops = defaultTabStops(columns)
	s.scrollTop = 0
	s.scrollBottom = rows - 1
	if s.cursor.Row >= rows {
		s.cursor.Row = rows - 1
	}
	if s.cursor.Col >= columns {
		s.cursor.Col = columns - 1
	}
	s.selection = nil
}

func (s *Surface) clampScrollRegion() (int, int) {
	top, bottom := s.scrollTop, s.scrollBottom
	if top < 0 {
		top = 0
	}
	if bottom >= s.grid.Height() {
		bottom = s.grid.Height() - 1
	}
	if top > bottom {
		top, bottom = 0, s.grid.Height()-1
	}
	return top, bottom
}

// SetScrollingRegion implements DECSTBM; top is a 0-based row and bottom
// is exclusive (the wire's 1-based bottom row), with 0 or an out-of-range
// bottom meaning the last row.
func (s *Surface) SetScrollingRegion(top, bottom int) {
	h := s.grid.Height()
	if bottom <= 0 || bottom > h {
		bottom = h
	}
	if top < 0 {
		top = 0
	}
	if top >= bottom {
		top, bottom = 0, h
	}
	s.scrollTop = top
	s.scrollBottom = bottom - 1
	s.GotoOrigin()
}

// GotoOrigin moves the cursor to (0,0) or the scroll region's top-left if
// origin mode is active.
func (s *Surface) GotoOrigin() {
	if s.mode.Has(ModeOrigin) {
		s.cursor.Row, s.cursor.Col = s.scrollTop, 0
	} else {
		s.cursor.Row, s.cursor.Col = 0, 0
	}
	s.cursor.PendingWrap = false
}

// ---- printing ----

// Print places r at the cursor, handling pending wrap, insert mode and
// wide-character placement.
func (s *Surface) Print(r rune) {
	width := runeWidth(r)
	if width == 0 {
		s.combineIntoPrevious(r)
		return
	}

	if s.cursor.PendingWrap {
		s.wrapLine()
	}

	cols := s.grid.Width()
	if s.cursor.Col+width > cols {
		// The wide glyph doesn't fit in the remaining column: the last
		// cell is skipped rather than filled, so mark it as such instead
		// of leaving it as ordinary trailing blank.
		if cell := s.grid.Row(s.cursor.Row).Cell(cols - 1); cell != nil {
			cell.SetFlag(FlagLeadingWideCharSpacer)
		}
		s.wrapLine()
	}

	if s.mode.Has(ModeInsert) {
		s.insertBlankAtCursor(width)
	}

	row := s.grid.Row(s.cursor.Row)
	cell := s.cursor.Template
	cell.Char = r
	cell.SetFlag(FlagTouched)
	cell.ClearFlag(FlagWideChar | FlagWideCharSpacer)

	if width == 2 {
		cell.SetFlag(FlagWideChar)
		*row.Cell(s.cursor.Col) = cell
		if s.cursor.Col+1 < cols {
			spacer := BlankCell(s.cursor.Template)
			spacer.SetFlag(FlagWideCharSpacer)
			*row.Cell(s.cursor.Col+1) = spacer
		}
	} else {
		*row.Cell(s.cursor.Col) = cell
	}

	if s.cursor.Col+width >= cols {
		s.cursor.Col = cols - 1
		s.cursor.PendingWrap = true
	} else {
		s.cursor.Col += width
	}
}

// combineIntoPrevious accepts a zero-width combining rune without
// advancing the cursor; the rune is not stored in the previous cell.
func (s *Surface) combineIntoPrevious(r rune) {
	col := s.cursor.Col - 1
	if col < 0 {
		return
	}
	row := s.grid.Row(s.cursor.Row)
	if c := row.Cell(col); c != nil {
		_ = r // combining marks are accepted but not composed into Char;
		// downstream consumers render the base glyph only. Documented
		// simplification (no per-cell rune slices).
	}
}

func (s *Surface) wrapLine() {
	if s.mode.Has(ModeLineWrap) {
		row := s.grid.Row(s.cursor.Row)
		row.SetSoftWrap(true)
		s.cursor.Col = 0
		s.cursor.PendingWrap = false
		s.lineFeed()
	} else {
		s.cursor.PendingWrap = false
	}
}

func (s *Surface) insertBlankAtCursor(n int) {
	s.grid.InsertBlankCells(s.cursor.Row, s.cursor.Col, n, s.cursor.Template)
}

// ---- cursor motion ----

func (s *Surface) Backspace() {
	if s.cursor.Col > 0 {
		s.cursor.Col--
		s.cursor.PendingWrap = false
	}
}

func (s *Surface) CarriageReturn() {
	s.cursor.Col = 0
	s.cursor.PendingWrap = false
}

// LineFeed moves down one row, scrolling the region if at the bottom.
func (s *Surface) LineFeed() { s.lineFeed() }

func (s *Surface) lineFeed() {
	top, bottom := s.clampScrollRegion()
	if s.cursor.Row == bottom {
		s.grid.ScrollUp(top, bottom, 1, BlankCell(s.cursor.Template))
	} else if s.cursor.Row < s.grid.Height()-1 {
		s.cursor.Row++
	}
	if s.mode.Has(ModeLineFeedNewLine) {
		s.cursor.Col = 0
	}
	s.cursor.PendingWrap = false
}

// ReverseIndex moves up one row, scrolling down the region if at the top.
func (s *Surface) ReverseIndex() {
	top, bottom := s.clampScrollRegion()
	if s.cursor.Row == top {
		s.grid.ScrollDown(top, bottom, 1, BlankCell(s.cursor.Template))
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
	s.cursor.PendingWrap = false
}

func (s *Surface) MoveUp(n int)    { s.moveRow(-n) }
func (s *Surface) MoveDown(n int)  { s.moveRow(n) }
func (s *Surface) MoveForward(n int) {
	s.cursor.Col = clamp(s.cursor.Col+n, 0, s.grid.Width()-1)
	s.cursor.PendingWrap = false
}
func (s *Surface) MoveBackward(n int) {
	s.cursor.Col = clamp(s.cursor.Col-n, 0, s.grid.Width()-1)
	s.cursor.PendingWrap = false
}

func (s *Surface) moveRow(delta int) {
	top, bottom := s.minMaxRow()
	s.cursor.Row = clamp(s.cursor.Row+delta, top, bottom)
	s.cursor.PendingWrap = false
}

func (s *Surface) minMaxRow() (int, int) {
	if s.mode.Has(ModeOrigin) {
		top, bottom := s.clampScrollRegion()
		return top, bottom
	}
	return 0, s.grid.Height() - 1
}

// Goto implements CUP: row/col are 0-based here (the interpreter converts
// from the wire's 1-based coordinates), clamped to the origin-mode
// rectangle.
func (s *Surface) Goto(row, col int) {
	top, bottom := s.minMaxRow()
	if s.mode.Has(ModeOrigin) {
		row += top
	}
	s.cursor.Row = clamp(row, top, bottom)
	s.cursor.Col = clamp(col, 0, s.grid.Width()-1)
	s.cursor.PendingWrap = false
}

func (s *Surface) GotoCol(col int) {
	s.cursor.Col = clamp(col, 0, s.grid.Width()-1)
	s.cursor.PendingWrap = false
}

func (s *Surface) GotoRow(row int) {
	top, bottom := s.minMaxRow()
	if s.mode.Has(ModeOrigin) {
		row += top
	}
	s.cursor.Row = clamp(row, top, bottom)
	s.cursor.PendingWrap = false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ---- tabs ----

func (s *Surface) TabForward(n int) {
	for i := 0; i < n; i++ {
		next := -1
		for col := s.cursor.Col + 1; col < s.grid.Width(); col++ {
			if s.tabStops[col] {
				next = col
				break
			}
		}
		if next < 0 {
			s.cursor.Col = s.grid.Width() - 1
			break
		}
		s.cursor.Col = next
	}
}

func (s *Surface) TabBackward(n int) {
	for i := 0; i < n; i++ {
		prev := -1
		for col := s.cursor.Col - 1; col >= 0; col-- {
			if s.tabStops[col] {
				prev = col
				break
			}
		}
		if prev < 0 {
			s.cursor.Col = 0
			break
		}
		s.cursor.Col = prev
	}
}

func (s *Surface) SetTab() { s.tabStops[s.cursor.Col] = true }

// ClearTabs: mode 0 clears the stop at the cursor, 3 clears all.
func (s *Surface) ClearTabs(mode int) {
	if mode == 3 {
		s.tabStops = make(map[int]bool)
		return
	}
	delete(s.tabStops, s.cursor.Col)
}

// ---- erase / line & char editing ----

func (s *Surface) EraseChars(n int) {
	if n < 1 {
		n = 1
	}
	end := s.cursor.Col + n
	if end > s.grid.Width() {
		end = s.grid.Width()
	}
	s.grid.ClearRange(s.cursor.Row, s.cursor.Col, end-1, BlankCell(s.cursor.Template))
}

func (s *Surface) DeleteChars(n int) {
	if n < 1 {
		n = 1
	}
	s.grid.DeleteCells(s.cursor.Row, s.cursor.Col, n, BlankCell(s.cursor.Template))
}

func (s *Surface) InsertBlank(n int) {
	if n < 1 {
		n = 1
	}
	s.grid.InsertBlankCells(s.cursor.Row, s.cursor.Col, n, BlankCell(s.cursor.Template))
}

func (s *Surface) InsertBlankLines(n int) {
	if n < 1 {
		n = 1
	}
	top, bottom := s.clampScrollRegion()
	if s.cursor.Row < top || s.cursor.Row > bottom {
		return
	}
	s.grid.ScrollDown(s.cursor.Row, bottom, n, BlankCell(s.cursor.Template))
}

func (s *Surface) DeleteLines(n int) {
	if n < 1 {
		n = 1
	}
	top, bottom := s.clampScrollRegion()
	if s.cursor.Row < top || s.cursor.Row > bottom {
		return
	}
	s.grid.ScrollUp(s.cursor.Row, bottom, n, BlankCell(s.cursor.Template))
}

func (s *Surface) ClearLine(mode EraseMode) {
	w := s.grid.Width()
	switch mode {
	case EraseToEnd:
		s.grid.ClearRange(s.cursor.Row, s.cursor.Col, w-1, BlankCell(s.cursor.Template))
	case EraseToStart:
		s.grid.ClearRange(s.cursor.Row, 0, s.cursor.Col, BlankCell(s.cursor.Template))
	case EraseAll:
		s.grid.ClearRange(s.cursor.Row, 0, w-1, BlankCell(s.cursor.Template))
	}
}

func (s *Surface) ClearScreen(mode EraseMode) {
	h := s.grid.Height()
	w := s.grid.Width()
	switch mode {
	case EraseToEnd:
		s.grid.ClearRange(s.cursor.Row, s.cursor.Col, w-1, BlankCell(s.cursor.Template))
		for r := s.cursor.Row + 1; r < h; r++ {
			s.grid.ClearRange(r, 0, w-1, BlankCell(s.cursor.Template))
		}
	case EraseToStart:
		for r := 0; r < s.cursor.Row; r++ {
			s.grid.ClearRange(r, 0, w-1, BlankCell(s.cursor.Template))
		}
		s.grid.ClearRange(s.cursor.Row, 0, s.cursor.Col, BlankCell(s.cursor.Template))
	case EraseAll:
		s.grid.Clear(BlankCell(s.cursor.Template))
		s.blocks.Reset()
	case EraseScrollback:
		s.grid.ClearHistory()
	}
}

// ---- save/restore, alt screen ----

func (s *Surface) SaveCursor() {
	s.cursor.Save(s.mode.Has(ModeOrigin), s.charsetIndex, s.charsets)
}

func (s *Surface) RestoreCursor() {
	saved, ok := s.cursor.Restore()
	if !ok {
		s.cursor.Row, s.cursor.Col = 0, 0
		return
	}
	s.cursor.Row = saved.Row
	s.cursor.Col = saved.Col
	s.cursor.Template = saved.Template
	s.cursor.PendingWrap = saved.PendingWrap
	s.charsetIndex = saved.CharsetIndex
	s.charsets = saved.Charsets
	if saved.OriginMode {
		s.mode = s.mode.Set(ModeOrigin)
	} else {
		s.mode = s.mode.Clear(ModeOrigin)
	}
}

// SwapAltScreen implements DECSET/DECRST 1049: on, saves cursor and
// switches to a freshly cleared alt grid; off, restores both.
func (s *Surface) SwapAltScreen(on bool) {
	if on == s.mode.Has(ModeAltScreen) {
		return
	}
	if on {
		s.savedMainCursor = *s.cursor
		s.alt.Clear(BlankCell(s.cursor.Template))
		s.grid = s.alt
		s.mode = s.mode.Set(ModeAltScreen)
		s.selection = nil
		s.cursor.Row, s.cursor.Col = 0, 0
		s.cursor.PendingWrap = false
	} else {
		s.grid = s.main
		s.mode = s.mode.Clear(ModeAltScreen)
		*s.cursor = s.savedMainCursor
		s.selection = nil
	}
}

// ---- modes ----

func (s *Surface) SetMode(m Mode)   { s.mode = s.mode.Set(m) }
func (s *Surface) UnsetMode(m Mode) { s.mode = s.mode.Clear(m) }

func (s *Surface) SetPrivateMode(pm PrivateMode) { s.applyPrivateMode(pm, true) }
func (s *Surface) UnsetPrivateMode(pm PrivateMode) { s.applyPrivateMode(pm, false) }

func (s *Surface) applyPrivateMode(pm PrivateMode, on bool) {
	switch pm {
	case PrivateModeAppCursor:
		s.toggle(ModeAppCursor, on)
	case PrivateModeOrigin:
		s.toggle(ModeOrigin, on)
		s.GotoOrigin()
	case PrivateModeLineWrap:
		s.toggle(ModeLineWrap, on)
	case PrivateModeMouseReportClick:
		s.toggle(ModeMouseReportClick, on)
	case PrivateModeShowCursor:
		s.toggle(ModeShowCursor, on)
		s.cursor.Visible = on
	case PrivateModeReportCellMouseMotion:
		s.toggle(ModeMouseDrag, on)
	case PrivateModeReportAllMouseMotion:
		s.toggle(ModeMouseMotion, on)
	case PrivateModeReportFocusInOut:
		s.toggle(ModeFocusInOut, on)
	case PrivateModeUtf8Mouse:
		s.toggle(ModeUtf8Mouse, on)
	case PrivateModeSgrMouse:
		s.toggle(ModeSgrMouse, on)
	case PrivateModeAlternateScroll:
		s.toggle(ModeAlternateScroll, on)
	case PrivateModeUrgencyHints:
		s.toggle(ModeUrgencyHints, on)
	case PrivateModeAppKeypad:
		s.toggle(ModeAppKeypad, on)
	case PrivateModeBracketedPaste:
		s.toggle(ModeBracketedPaste, on)
	case PrivateModeSwapScreenAndSetRestoreCursor:
		s.SwapAltScreen(on)
	case PrivateModeColumnMode:
		s.ClearScreen(EraseAll)
		s.scrollTop, s.scrollBottom = 0, s.grid.Height()-1
		s.GotoOrigin()
	case PrivateModeSyncUpdate:
		// handled by the Interpreter via the Sync Buffer; Surface tracks
		// no state of its own for 2026 beyond what's reported by DECRQM.
	}
}

func (s *Surface) toggle(m Mode, on bool) {
	if on {
		s.mode = s.mode.Set(m)
	} else {
		s.mode = s.mode.Clear(m)
	}
}

// ---- hyperlinks, title, cursor style ----

func (s *Surface) SetHyperlink(uri, id string) {
	s.cursor.Template.Hyperlink = s.hyperlinks.Intern(uri, id)
}

func (s *Surface) ClearHyperlink() {
	s.cursor.Template.Hyperlink = 0
}

func (s *Surface) SetWindowTitle(title string) { s.title = title }

func (s *Surface) PushTitle() { s.titleStack = append(s.titleStack, s.title) }

func (s *Surface) PopTitle() {
	if n := len(s.titleStack); n > 0 {
		s.title = s.titleStack[n-1]
		s.titleStack = s.titleStack[:n-1]
	}
}

func (s *Surface) SetCursorStyle(style CursorStyle) {
	s.cursor.Style = style
	s.cursor.Shape = style.Shape()
}

// ---- keyboard mode (kitty protocol) ----

func (s *Surface) SetKeyboardMode(flags keyboardModeFlags) { s.kbMode.setCurrent(flags) }
func (s *Surface) PushKeyboardMode(flags keyboardModeFlags) { s.kbMode.push(flags) }
func (s *Surface) PopKeyboardModes(n int)                   { s.kbMode.pop(n) }
func (s *Surface) CurrentKeyboardMode() keyboardModeFlags    { return s.kbMode.current() }

// ---- blocks ----

func (s *Surface) absRow() int {
	return s.grid.HistorySize() + s.cursor.Row
}

func (s *Surface) StartPromptBlock()          { s.blocks.StartPrompt(s.absRow()) }
func (s *Surface) StartCommandBlock(cwd string) { s.blocks.StartCommand(s.absRow(), "", cwd) }
func (s *Surface) SetBlockCommandText(cmd string) { s.blocks.SetCommandText(cmd) }
func (s *Surface) FinishCommandBlock()        { s.blocks.FinishCommand(s.absRow()) }
func (s *Surface) ExtendCurrentBlock()        { s.blocks.Extend(s.absRow()) }

// ---- graphics placements ----

// RecordGraphicsPlacement interns a structurally-parsed sixel/kitty
// placement at the cursor's current position and returns its handle.
func (s *Surface) RecordGraphicsPlacement(kind GraphicsKind, width, height, payloadBytes int) GraphicsPlacement {
	return s.graphics.add(GraphicsPlacement{
		Kind: kind, Row: s.cursor.Row, Col: s.cursor.Col,
		Width: width, Height: height, Bytes: payloadBytes,
	})
}

func (s *Surface) GraphicsPlacements() []GraphicsPlacement { return s.graphics.Placements() }
