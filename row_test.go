package vterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRowBlank(t *testing.T) {
	r := NewRow(5, NewCell())
	require.Equal(t, 5, r.Len())
	for i := 0; i < r.Len(); i++ {
		assert.Equal(t, ' ', r.Cell(i).Char)
	}
	assert.Nil(t, r.Cell(-1))
	assert.Nil(t, r.Cell(5))
}

func TestRowClearRange(t *testing.T) {
	r := NewRow(5, NewCell())
	r.Cells()[2] = Cell{Char: 'x'}
	r.ClearRange(1, 4, NewCell())
	assert.Equal(t, ' ', r.Cell(2).Char, "cleared range resets touched cell")
}

func TestRowResizeShrinkThenGrowRestoresOverflow(t *testing.T) {
	r := NewRow(5, NewCell())
	for i := range r.Cells() {
		r.Cells()[i] = Cell{Char: rune('a' + i)}
	}

	r.Resize(3, NewCell())
	require.Equal(t, 3, r.Len())
	assert.Equal(t, 'a', r.Cell(0).Char)
	assert.Equal(t, 'c', r.Cell(2).Char)

	r.Resize(5, NewCell())
	require.Equal(t, 5, r.Len())
	assert.Equal(t, 'd', r.Cell(3).Char, "overflow restored on grow")
	assert.Equal(t, 'e', r.Cell(4).Char)
}

func TestRowResizeGrowPastOverflowPadsBlank(t *testing.T) {
	r := NewRow(2, NewCell())
	r.Resize(5, NewCell())
	require.Equal(t, 5, r.Len())
	for i := 2; i < 5; i++ {
		assert.Equal(t, ' ', r.Cell(i).Char)
	}
}

func TestRowTrimmedLen(t *testing.T) {
	r := NewRow(5, NewCell())
	assert.Equal(t, 0, r.TrimmedLen())

	c := r.Cell(2)
	c.Char = 'x'
	c.SetFlag(FlagTouched)
	assert.Equal(t, 3, r.TrimmedLen())
}
