package vterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesViewportNotScrollback(t *testing.T) {
	surf := NewSurface(3, 5, 50)
	surf.Print('x')
	snap := surf.Snapshot()

	require.Equal(t, 3, snap.Rows)
	require.Equal(t, 5, snap.Columns)
	assert.Equal(t, 'x', snap.Cells[0][0].Char)

	// Mutating the surface afterward must not affect the snapshot already taken.
	surf.Goto(0, 0)
	surf.Print('y')
	assert.Equal(t, 'x', snap.Cells[0][0].Char, "snapshot cells must not alias the live grid")
}

func TestSnapshotCursorFields(t *testing.T) {
	surf := NewSurface(5, 10, 10)
	surf.Goto(2, 3)
	snap := surf.Snapshot()
	assert.Equal(t, 2, snap.Cursor.Row)
	assert.Equal(t, 3, snap.Cursor.Col)
	assert.True(t, snap.Cursor.Visible)
}

func TestSnapshotSelectionNilWhenNoneActive(t *testing.T) {
	surf := NewSurface(5, 10, 10)
	snap := surf.Snapshot()
	assert.Nil(t, snap.Selection)
}

func TestSnapshotSelectionCapturedWhenActive(t *testing.T) {
	surf := NewSurface(5, 10, 10)
	surf.Print('h')
	surf.Print('i')
	surf.StartSelection(SelectionSimple, Point{Row: 0, Col: 0})
	surf.ExtendSelection(Point{Row: 0, Col: 1})

	snap := surf.Snapshot()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, Point{Row: 0, Col: 0}, snap.Selection.Start)
}

func TestSnapshotTitleAndBlocks(t *testing.T) {
	surf := NewSurface(5, 10, 10)
	surf.SetWindowTitle("session")
	snap := surf.Snapshot()
	assert.Equal(t, "session", snap.Title)
	assert.NotNil(t, snap.Blocks)
}
