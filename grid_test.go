package vterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridDimensions(t *testing.T) {
	g := NewGrid(24, 80, 100, NewCell())
	assert.Equal(t, 80, g.Width())
	assert.Equal(t, 24, g.Height())
	assert.Equal(t, 0, g.HistorySize())
	assert.Equal(t, 24, g.TotalLines())
}

func TestGridScrollUpGrowsHistory(t *testing.T) {
	g := NewGrid(3, 4, 10, NewCell())
	g.Row(0).Cell(0).Char = 'a'

	g.ScrollUp(0, 2, 1, NewCell())

	require.Equal(t, 1, g.HistorySize())
	row, ok := g.AbsRow(0)
	require.True(t, ok)
	assert.Equal(t, 'a', row.Cell(0).Char, "scrolled-off row becomes scrollback")
}

func TestGridScrollUpBeyondCapRotatesOldestOut(t *testing.T) {
	g := NewGrid(2, 3, 1, NewCell())
	for i := 0; i < 3; i++ {
		g.Row(0).Cell(0).Char = rune('a' + i)
		g.ScrollUp(0, 1, 1, NewCell())
	}
	// cap is visibleLines(2) + maxScrollLimit(1) = 3 total lines, never exceeded
	assert.LessOrEqual(t, g.TotalLines(), 3)
}

func TestGridScrollDownNeverTouchesHistory(t *testing.T) {
	g := NewGrid(3, 4, 10, NewCell())
	g.ScrollUp(0, 2, 2, NewCell())
	historyBefore := g.HistorySize()

	g.ScrollDown(0, 2, 1, NewCell())

	assert.Equal(t, historyBefore, g.HistorySize())
}

func TestGridScrollDisplayClampsToHistory(t *testing.T) {
	g := NewGrid(3, 4, 10, NewCell())
	g.ScrollUp(0, 2, 5, NewCell())
	history := g.HistorySize()

	g.ScrollDisplay(ScrollDirection{Kind: ScrollTop})
	assert.Equal(t, history, g.DisplayOffset())

	g.ScrollDisplay(ScrollDirection{Kind: ScrollBottom})
	assert.Equal(t, 0, g.DisplayOffset())

	g.ScrollDisplay(ScrollDirection{Kind: ScrollDelta, Delta: history + 100})
	assert.Equal(t, history, g.DisplayOffset(), "delta scroll clamps at the oldest history line")
}

func TestGridResizeVisibleLinesGrowsInPlace(t *testing.T) {
	g := NewGrid(3, 4, 10, NewCell())
	g.Row(0).Cell(0).Char = 'z'

	g.Resize(4, 5, NewCell())

	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 5, g.Height())
}

func TestGridReflowColumnsPreservesContentAcrossWrap(t *testing.T) {
	g := NewGrid(2, 4, 10, NewCell())
	row := g.Row(0)
	for i, r := range "abcd" {
		cell := row.Cell(i)
		cell.Char = r
		cell.SetFlag(FlagTouched)
	}

	g.Resize(2, 2, NewCell())

	assert.Equal(t, 2, g.Width())
	total := ""
	for i := 0; i < g.TotalLines(); i++ {
		r, ok := g.AbsRow(i)
		require.True(t, ok)
		for _, c := range r.Cells() {
			if c.Char != ' ' || c.HasFlag(FlagTouched) {
				total += string(c.Char)
			}
		}
	}
	assert.Equal(t, "abcd", total, "reflow must not lose or reorder content")
}

func TestGridInsertAndDeleteCells(t *testing.T) {
	g := NewGrid(2, 5, 10, NewCell())
	row := g.Row(0)
	for i, r := range "abcde" {
		row.Cell(i).Char = r
	}

	g.InsertBlankCells(0, 1, 2, NewCell())
	row = g.Row(0)
	assert.Equal(t, 'a', row.Cell(0).Char)
	assert.Equal(t, ' ', row.Cell(1).Char)
	assert.Equal(t, ' ', row.Cell(2).Char)
	assert.Equal(t, 'b', row.Cell(3).Char)
	assert.Equal(t, 'c', row.Cell(4).Char)

	g.DeleteCells(0, 0, 2, NewCell())
	row = g.Row(0)
	assert.Equal(t, ' ', row.Cell(0).Char)
	assert.Equal(t, 'b', row.Cell(1).Char)
}

func TestGridClearHistory(t *testing.T) {
	g := NewGrid(2, 3, 10, NewCell())
	g.ScrollUp(0, 1, 3, NewCell())
	require.Greater(t, g.HistorySize(), 0)

	g.ClearHistory()
	assert.Equal(t, 0, g.HistorySize())
	assert.Equal(t, 0, g.DisplayOffset())
}
