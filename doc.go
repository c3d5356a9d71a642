// Package vterm is a headless VT-compatible terminal emulator runtime.
//
// It hosts a child process behind a pseudo-terminal, parses the bytes that
// process emits as escape-coded terminal output, maintains an in-memory
// model of the visible screen plus scrollback history, and serves
// snapshots of that model to a rendering front-end while forwarding
// keyboard and mouse input back to the child.
//
// # Architecture
//
// The package is organized around nine collaborating components:
//
//   - [Parser]: a byte-oriented state machine recognizing C0/C1 controls,
//     CSI/OSC/DCS/SOS/PM/APC sequences and streaming UTF-8.
//   - [Interpreter]: turns parsed actions into terminal operations.
//   - [Grid]: a ring-buffered rectangle of [Cell]s with scrollback and
//     column reflow.
//   - [Surface]: cursor, selection, modes, main/alternate screen, and
//     shell-integration [Block]s layered on top of a pair of Grids.
//   - [SyncBuffer]: bounds how long a synchronized-update batch (DECSET
//     2026) is held before being applied or aborted.
//   - Forward/reverse grid search (see [SearchRight], [SearchLeft]).
//   - [Session]: owns the PTY master, the child process and its exit
//     notification.
//   - [Runtime]: the event-loop glue connecting Session bytes to the
//     Parser/Interpreter/Surface pipeline and back out to a client.
//   - [InputRouter]: maps key and mouse events to outbound byte sequences.
//
// # Quick start
//
//	session := vterm.NewSession()
//	session.Start("bash", nil, "", os.Environ(), 24, 80)
//	rt := vterm.New(session, client, vterm.WithSize(24, 80), vterm.WithAutoResize())
//	for {
//	    switch poller.Wait() {
//	    case readable:
//	        rt.ReadReady()
//	    case writable:
//	        rt.WriteReady()
//	    case tick:
//	        rt.Maintain()
//	    }
//	}
//
// # Thread safety
//
// The Surface is owned exclusively by the Runtime that drives it; nothing
// else should mutate it concurrently. [Snapshot] values are immutable once
// produced and may be handed to a separate rendering goroutine freely.
package vterm
