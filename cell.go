package vterm

import "github.com/unilibs/uniwidth"

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint32

const (
	FlagBold CellFlags = 1 << iota
	FlagDim
	FlagDimBold // both bold and dim requested together (SGR 1 then 2, or vice versa)
	FlagItalic
	FlagUnderline
	FlagDoubleUnderline
	FlagCurlyUnderline
	FlagDottedUnderline
	FlagDashedUnderline
	FlagBlinkSlow
	FlagBlinkFast
	FlagReverse
	FlagHidden
	FlagStrike
	FlagWideChar              // leading cell of a 2-column glyph
	FlagWideCharSpacer        // trailing cell of a 2-column glyph
	FlagLeadingWideCharSpacer // last column of a row, skipped because the next glyph is wide
	FlagWrapAtEndOfLine       // soft wrap continuation marker on the cell itself
	FlagTouched               // cell was explicitly written (not padding); never trimmed by reflow
	FlagDirty                 // changed since last ClearDirty, used for incremental rendering
)

// underlineFlags is every flag that represents some underline style.
const underlineFlags = FlagUnderline | FlagDoubleUnderline | FlagCurlyUnderline |
	FlagDottedUnderline | FlagDashedUnderline

// Cell is a single styled grid position: a Unicode scalar plus its colors,
// underline color, attribute flags and an optional hyperlink handle.
type Cell struct {
	Char           rune
	Fg             Color
	Bg             Color
	UnderlineColor Color // zero value means "no override, use Fg"
	Flags          CellFlags
	Hyperlink      HyperlinkID // 0 means "no hyperlink"
}

// BlankCell returns a cell holding a space with the given template applied
// (colors/attributes carried forward, character and wide/touched flags
// cleared).
func BlankCell(template Cell) Cell {
	c := template
	c.Char = ' '
	c.Flags &^= FlagWideChar | FlagWideCharSpacer | FlagLeadingWideCharSpacer | FlagTouched | FlagWrapAtEndOfLine
	c.Hyperlink = 0
	return c
}

// NewCell returns a default-styled space cell.
func NewCell() Cell {
	return Cell{Char: ' '}
}

// HasFlag reports whether flag is set.
func (c Cell) HasFlag(flag CellFlags) bool { return c.Flags&flag != 0 }

// SetFlag sets flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) { c.Flags |= flag }

// ClearFlag clears flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) { c.Flags &^= flag }

// IsWide reports whether this is the leading cell of a 2-column glyph.
func (c Cell) IsWide() bool { return c.HasFlag(FlagWideChar) }

// IsWideSpacer reports whether this is the trailing cell of a wide glyph.
func (c Cell) IsWideSpacer() bool { return c.HasFlag(FlagWideCharSpacer) }

// IsLeadingWideCharSpacer reports whether this cell marks a row's last
// column as skipped because the next glyph would be wide.
func (c Cell) IsLeadingWideCharSpacer() bool { return c.HasFlag(FlagLeadingWideCharSpacer) }

// IsBlankPadding reports whether the cell is untouched filler: a default
// space that reflow and trailing-space trimming are free to discard.
func (c Cell) IsBlankPadding() bool {
	return c.Char == ' ' && !c.HasFlag(FlagTouched) && !c.HasFlag(FlagWideChar) && !c.HasFlag(FlagWideCharSpacer)
}

// UnderlineStyleOf returns which underline variant (if any) is active.
func (c Cell) UnderlineStyleOf() (style UnderlineStyle, ok bool) {
	switch {
	case c.HasFlag(FlagDoubleUnderline):
		return UnderlineDouble, true
	case c.HasFlag(FlagCurlyUnderline):
		return UnderlineCurly, true
	case c.HasFlag(FlagDottedUnderline):
		return UnderlineDotted, true
	case c.HasFlag(FlagDashedUnderline):
		return UnderlineDashed, true
	case c.HasFlag(FlagUnderline):
		return UnderlineSingle, true
	default:
		return UnderlineNone, false
	}
}

// UnderlineStyle enumerates the underline renderings SGR 4:N can select.
type UnderlineStyle int

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// HyperlinkID is a stable handle into a Surface's hyperlink side table.
// The zero value means "no hyperlink".
type HyperlinkID uint32

// runeWidth is the column width Print reserves for r when placing it on
// the grid: 2 for wide glyphs (CJK, emoji), 1 for normal runes, 0 for
// zero-width ones (combining marks, most control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune reports whether r takes FlagWideChar/FlagWideCharSpacer
// placement rather than a single column.
func isWideRune(r rune) bool {
	return runeWidth(r) == 2
}

// StringWidth sums rune widths across s, the column count a renderer
// needs to reserve for the whole string.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
