package vterm

// CursorShape selects the cursor's rendered shape, independent of blink.
type CursorShape int

const (
	CursorShapeBlock CursorShape = iota
	CursorShapeUnderline
	CursorShapeBar
)

// CursorStyle is the full DECSCUSR style (shape + blink).
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Shape extracts the shape component of a CursorStyle.
func (s CursorStyle) Shape() CursorShape {
	switch s {
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return CursorShapeUnderline
	case CursorStyleBlinkingBar, CursorStyleSteadyBar:
		return CursorShapeBar
	default:
		return CursorShapeBlock
	}
}

// Blinking reports whether the style blinks.
func (s CursorStyle) Blinking() bool {
	switch s {
	case CursorStyleBlinkingBlock, CursorStyleBlinkingUnderline, CursorStyleBlinkingBar:
		return true
	default:
		return false
	}
}

// Cursor tracks position, pending-wrap state, template attributes and
// rendering style. Row/Col are 0-based.
type Cursor struct {
	Row         int
	Col         int
	PendingWrap bool // print at end-of-line deferred the wrap until the next glyph
	Template    Cell // attributes applied to the next printed character
	Shape       CursorShape
	Style       CursorStyle
	Visible     bool

	saved    SavedCursor
	hasSaved bool
}

// NewCursor returns a visible block cursor at the origin with default attributes.
func NewCursor() *Cursor {
	return &Cursor{Visible: true, Template: NewCell()}
}

// SavedCursor is the state captured by DECSC / CSI s and restored by DECRC / CSI u.
type SavedCursor struct {
	Row          int
	Col          int
	Template     Cell
	OriginMode   bool
	PendingWrap  bool
	CharsetIndex CharsetIndex
	Charsets     [4]Charset
}

// Save captures the cursor's restorable state.
func (c *Cursor) Save(origin bool, idx CharsetIndex, charsets [4]Charset) {
	c.saved = SavedCursor{
		Row: c.Row, Col: c.Col, Template: c.Template,
		OriginMode: origin, PendingWrap: c.PendingWrap,
		CharsetIndex: idx, Charsets: charsets,
	}
	c.hasSaved = true
}

// Restore returns the last saved state; ok is false if nothing was ever
// saved (in which case the cursor resets to the origin per DEC convention).
func (c *Cursor) Restore() (SavedCursor, bool) {
	if !c.hasSaved {
		return SavedCursor{Template: NewCell()}, false
	}
	return c.saved, true
}

// Charset selects the character encoding variant mapped to a G0-G3 slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
	CharsetUK
)

// CharsetIndex selects one of the four character-set slots.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
