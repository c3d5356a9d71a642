package vterm

import "time"

// ExitStatus reports how a Session's child process terminated.
type ExitStatus struct {
	Code   int
	Signal string // empty unless the child died from a signal
}

// Session owns a child process's PTY: spawning it, reading its output,
// forwarding input, resizing its window, and reporting exit. One
// implementation exists per host platform; session_unix.go backs it with
// github.com/creack/pty on Unix-like systems.
type Session interface {
	// Start spawns command with args under a new PTY of the given size.
	// env is appended to the current process's environment (overriding
	// duplicate keys), and dir sets the child's working directory (empty
	// means inherit).
	Start(command string, args []string, dir string, env []string, rows, cols int) error

	// Read reads available child output into p, returning ErrWouldBlock
	// if the Session is in non-blocking mode and nothing is ready yet,
	// or io.EOF once the child has exited and all buffered output is
	// drained.
	Read(p []byte) (int, error)

	// Write sends p to the child's stdin (the PTY master).
	Write(p []byte) (int, error)

	// Resize updates the PTY's window size, notifying the child via
	// SIGWINCH.
	Resize(rows, cols int) error

	// Wait blocks until the child exits (or the Session is closed) and
	// returns its exit status.
	Wait() (ExitStatus, error)

	// TryWait returns the child's exit status without blocking, with ok
	// false if the child hasn't exited yet.
	TryWait() (ExitStatus, bool)

	// Close releases the PTY master and, if the child is still running,
	// terminates it. Close is idempotent.
	Close() error

	// LastActivity reports when output was last read from the child,
	// for idle detection.
	LastActivity() time.Time
}
