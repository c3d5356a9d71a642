package vterm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncBufferPushAppliesImmediatelyWhenInactive(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	applied := false
	sb.Push(func(*Surface) { applied = true })
	assert.True(t, applied)
}

func TestSyncBufferQueuesUntilEnd(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	sb.Begin()
	applied := false
	sb.Push(func(*Surface) { applied = true })
	assert.False(t, applied, "queued while active")

	sb.End()
	assert.True(t, applied)
	assert.False(t, sb.Active())
}

func TestSyncBufferAbortDiscardsQueue(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	sb.Begin()
	applied := false
	sb.Push(func(*Surface) { applied = true })
	sb.Abort()

	assert.False(t, applied)
	assert.False(t, sb.Active())
}

func TestSyncBufferFlushAppliesWithoutClosing(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	sb.Begin()
	applied := false
	sb.Push(func(*Surface) { applied = true })
	sb.Flush()

	assert.True(t, applied)
	assert.True(t, sb.Active(), "Flush doesn't close the region")

	sb.End()
}

func TestSyncBufferCapacityForcesFlush(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBufferWithCapacity(surf, 2)

	sb.Begin()
	var applied int
	sb.Push(func(*Surface) { applied++ })
	require.Equal(t, 0, applied)
	sb.Push(func(*Surface) { applied++ }) // hits the capacity ceiling

	assert.Equal(t, 2, applied, "capacity overflow forces an implicit flush")
	assert.False(t, sb.Active(), "capacity overflow also closes the region")
}

func TestSyncBufferOnFlushNotifiesOnEnd(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	var mu sync.Mutex
	flushed := false
	sb.OnFlush(func() {
		mu.Lock()
		flushed = true
		mu.Unlock()
	})

	sb.Begin()
	sb.Push(func(*Surface) {})
	sb.End()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, flushed)
}

func TestSyncBufferPushRefreshesDeadline(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	done := make(chan struct{})
	sb.OnFlush(func() { close(done) })

	sb.Begin()
	// Keep pushing faster than the deadline so it never fires while
	// activity continues; each Push must bump the deadline forward.
	for i := 0; i < 4; i++ {
		sb.Push(func(*Surface) {})
		time.Sleep(6 * time.Millisecond)
		select {
		case <-done:
			t.Fatal("deadline fired despite continuous activity refreshing it")
		default:
		}
	}

	sb.End()
}

func TestSyncBufferDeadlineForcesFlush(t *testing.T) {
	surf := NewSurface(3, 10, 10)
	sb := NewSyncBuffer(surf)

	done := make(chan struct{})
	sb.OnFlush(func() { close(done) })

	sb.Begin()
	sb.Push(func(*Surface) {})

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("idle deadline never forced a flush")
	}
	assert.False(t, sb.Active())
}
