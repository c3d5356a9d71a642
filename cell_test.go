package vterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCellIsBlankSpace(t *testing.T) {
	c := NewCell()
	assert.Equal(t, ' ', c.Char)
	assert.Equal(t, CellFlags(0), c.Flags)
}

func TestBlankCellCarriesTemplateButClearsContent(t *testing.T) {
	template := Cell{Char: 'x', Fg: IndexedColorOf(1), Flags: FlagBold | FlagWideChar | FlagTouched}
	b := BlankCell(template)

	assert.Equal(t, ' ', b.Char)
	assert.True(t, b.HasFlag(FlagBold), "non-content attributes survive")
	assert.False(t, b.HasFlag(FlagWideChar))
	assert.False(t, b.HasFlag(FlagTouched))
	assert.Equal(t, HyperlinkID(0), b.Hyperlink)
}

func TestCellFlagRoundTrip(t *testing.T) {
	var c Cell
	c.SetFlag(FlagItalic)
	c.SetFlag(FlagStrike)
	require.True(t, c.HasFlag(FlagItalic))
	require.True(t, c.HasFlag(FlagStrike))

	c.ClearFlag(FlagItalic)
	assert.False(t, c.HasFlag(FlagItalic))
	assert.True(t, c.HasFlag(FlagStrike))
}

func TestUnderlineStyleOfPrecedence(t *testing.T) {
	var c Cell
	c.SetFlag(FlagUnderline)
	c.SetFlag(FlagCurlyUnderline)

	style, ok := c.UnderlineStyleOf()
	require.True(t, ok)
	assert.Equal(t, UnderlineCurly, style, "more specific underline variants take precedence over plain")
}

func TestIsBlankPadding(t *testing.T) {
	blank := NewCell()
	assert.True(t, blank.IsBlankPadding())

	touched := NewCell()
	touched.SetFlag(FlagTouched)
	assert.False(t, touched.IsBlankPadding())

	wide := NewCell()
	wide.SetFlag(FlagWideChar)
	assert.False(t, wide.IsBlankPadding())
}
