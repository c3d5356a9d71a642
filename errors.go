package vterm

import "errors"

// Sentinel errors returned by Session and Runtime. Callers compare with
// errors.Is; WouldBlock and Interrupted are not fatal and the caller should
// retry or suspend.
var (
	// ErrWouldBlock indicates a non-blocking read/write has no data ready.
	ErrWouldBlock = errors.New("vterm: would block")
	// ErrInterrupted indicates a read/write was interrupted (EINTR) and
	// should be retried.
	ErrInterrupted = errors.New("vterm: interrupted")
	// ErrClosed indicates the session has already been closed.
	ErrClosed = errors.New("vterm: session closed")
	// ErrChildNotStarted indicates an operation requires a spawned child.
	ErrChildNotStarted = errors.New("vterm: child not started")
	// ErrSearchCacheExhausted names a search that ran out of cache budget.
	// The regexp-based search in search.go has no such budget and no
	// function in this package returns it.
	ErrSearchCacheExhausted = errors.New("vterm: search cache exhausted")
)
