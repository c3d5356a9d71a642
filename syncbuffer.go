package vterm

import (
	"sync"
	"time"
)

// SyncBuffer brackets a synchronized-update region (CSI ? 2026 h / l):
// while active, Surface mutations produced by the Interpreter are queued
// as closures instead of applied immediately, then replayed in order on
// End, Flush or an idle/deadline tick. This keeps a renderer from ever
// observing a torn frame mid-redraw.
//
// A region that never closes (a buggy or malicious client) is bounded
// both by a wall-clock deadline and by a capacity ceiling; either one
// forces a flush.
type SyncBuffer struct {
	mu       sync.Mutex
	surf     *Surface
	active   bool
	queue    []func(*Surface)
	deadline time.Time
	timer    *time.Timer
	capacity int

	onFlush func() // notifies the runtime a frame is ready to render
}

const (
	syncBufferDeadline = 10 * time.Millisecond
	syncBufferCapacity = 10000
)

// NewSyncBuffer returns a SyncBuffer applying queued actions to surf,
// using the default capacity ceiling.
func NewSyncBuffer(surf *Surface) *SyncBuffer {
	return &SyncBuffer{surf: surf, capacity: syncBufferCapacity}
}

// NewSyncBufferWithCapacity is NewSyncBuffer with an explicit capacity
// ceiling, wired from WithSyncBudget.
func NewSyncBufferWithCapacity(surf *Surface, capacity int) *SyncBuffer {
	if capacity <= 0 {
		capacity = syncBufferCapacity
	}
	return &SyncBuffer{surf: surf, capacity: capacity}
}

// OnFlush installs a callback invoked (outside the lock) whenever queued
// actions are applied, whether via End, an explicit Flush, a capacity
// trip or the idle deadline.
func (b *SyncBuffer) OnFlush(fn func()) { b.onFlush = fn }

// Active reports whether a synchronized-update region is currently open.
func (b *SyncBuffer) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Begin opens a synchronized-update region, starting the deadline timer.
// Calling Begin while already active extends the deadline rather than
// nesting (CSI ? 2026 h is not a counted push/pop).
func (b *SyncBuffer) Begin() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = true
	b.deadline = timeNow().Add(syncBufferDeadline)
	b.resetTimerLocked()
}

// End closes the region and applies every queued action in order.
func (b *SyncBuffer) End() {
	b.mu.Lock()
	b.active = false
	b.stopTimerLocked()
	actions := b.drainLocked()
	b.mu.Unlock()
	b.apply(actions)
}

// Abort closes the region and discards queued actions without applying
// them — used when the session is torn down mid-update.
func (b *SyncBuffer) Abort() {
	b.mu.Lock()
	b.active = false
	b.stopTimerLocked()
	b.queue = nil
	b.mu.Unlock()
}

// Flush applies whatever is queued so far without closing the region;
// the client can keep appending and a later End/deadline will apply the
// rest.
func (b *SyncBuffer) Flush() {
	b.mu.Lock()
	actions := b.drainLocked()
	b.mu.Unlock()
	b.apply(actions)
}

// Push appends a mutation to the queue, applying it immediately instead
// if the region isn't active or capacity has been exceeded (a runaway
// region must not grow without bound).
func (b *SyncBuffer) Push(action func(*Surface)) {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		action(b.surf)
		return
	}
	b.queue = append(b.queue, action)
	overCapacity := len(b.queue) >= b.capacity
	if overCapacity {
		b.active = false
		b.stopTimerLocked()
	} else {
		b.deadline = timeNow().Add(syncBufferDeadline)
		b.resetTimerLocked()
	}
	actions := ([]func(*Surface))(nil)
	if overCapacity {
		actions = b.drainLocked()
	}
	b.mu.Unlock()
	if overCapacity {
		b.apply(actions)
	}
}

func (b *SyncBuffer) drainLocked() []func(*Surface) {
	actions := b.queue
	b.queue = nil
	return actions
}

func (b *SyncBuffer) apply(actions []func(*Surface)) {
	if len(actions) == 0 {
		return
	}
	for _, a := range actions {
		a(b.surf)
	}
	if b.onFlush != nil {
		b.onFlush()
	}
}

func (b *SyncBuffer) resetTimerLocked() {
	b.stopTimerLocked()
	b.timer = time.AfterFunc(syncBufferDeadline, b.onDeadline)
}

func (b *SyncBuffer) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *SyncBuffer) onDeadline() {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return
	}
	b.active = false
	actions := b.drainLocked()
	b.mu.Unlock()
	b.apply(actions)
}

// timeNow is a seam so tests can fake the clock; production uses
// time.Now directly.
var timeNow = time.Now
