package vterm

import (
	"fmt"
	"io"
	"regexp"
	"time"
)

// Client receives the events a Runtime emits as it drives a terminal
// instance. Implementations typically forward these to a UI thread;
// Snapshot values handed to SurfaceChanged are immutable and safe to pass
// across goroutines without further synchronization.
type Client interface {
	SurfaceChanged(snap Snapshot)
	ChildExit(status ExitStatus)
	TitleChanged(title string)
	Bell()
	CursorShapeChanged(shape CursorShape)
	CursorStyleChanged(style CursorStyle)
	CursorIconChanged(uri string) // hovering a hyperlink; empty uri clears it
	HyperlinkHover(link Hyperlink)
}

// RequestKind discriminates a Request's payload, mirroring
// otty-libterm's TerminalRequest enum (see DESIGN.md).
type RequestKind int

const (
	RequestWrite RequestKind = iota
	RequestMouseReport
	RequestResize
	RequestScrollViewport
	RequestShutdown
)

// Request is the sum type the host submits to a Runtime: bytes to send
// to the child, a mouse report to encode and send, a resize of both the
// session and the surface, a scrollback viewport move, or a shutdown.
type Request struct {
	Kind RequestKind

	Write []byte // RequestWrite

	Mouse MouseEvent // RequestMouseReport

	Rows, Cols int // RequestResize

	Scroll ScrollDirection // RequestScrollViewport
}

// Runtime connects a Session's byte stream to the Parser/Interpreter/
// Surface pipeline and back out to a Client, per spec.md §4.H. It owns
// the Surface and the outbound write queue exclusively; nothing else may
// mutate either.
type Runtime struct {
	session Session
	parser  *Parser
	interp  *Interpreter
	sync    *SyncBuffer
	client  Client
	search  *SearchCache

	outbound [][]byte

	lastTitle string
	lastShape CursorShape
	lastStyle CursorStyle
	lastIcon  string

	readBuf [4096]byte

	mirror     io.Writer
	autoResize bool
	stopped    bool
}

// Option configures a Runtime built by New, following the teacher's
// functional-options pattern (terminal.go's WithSize/WithAutoResize/...).
type Option func(*runtimeConfig)

type runtimeConfig struct {
	rows, cols       int
	maxScrollback    int
	syncBudget       int
	searchCacheLimit int
	autoResize       bool
	mirror           io.Writer
}

// WithOutputMirror has the Runtime copy every raw chunk read from the
// Session to w before parsing it, for a host that wants to pass the
// child's output straight through to a real terminal (e.g. cmd/vtrun)
// alongside tracking its own Surface state from the same bytes.
func WithOutputMirror(w io.Writer) Option {
	return func(c *runtimeConfig) { c.mirror = w }
}

// WithSize sets the initial surface dimensions (default 24x80).
func WithSize(rows, cols int) Option {
	return func(c *runtimeConfig) { c.rows, c.cols = rows, cols }
}

// WithMaxScrollback bounds the grid's history ring (default 10000 lines,
// set by New).
func WithMaxScrollback(lines int) Option {
	return func(c *runtimeConfig) { c.maxScrollback = lines }
}

// WithSyncBudget overrides the synchronized-update queue's capacity
// ceiling (default 10000 queued actions; see syncbuffer.go).
func WithSyncBudget(n int) Option {
	return func(c *runtimeConfig) { c.syncBudget = n }
}

// WithSearchCacheLimit bounds how many grids' linearized text a
// Runtime's SearchCache holds at once (default 2: main and alt screen).
func WithSearchCacheLimit(n int) Option {
	return func(c *runtimeConfig) { c.searchCacheLimit = n }
}

// WithAutoResize has the Runtime propagate RequestResize calls to the
// underlying Session's PTY size, mirroring the teacher's WithAutoResize.
// Off by default since not every Session backs a real PTY (a test
// double may want resize requests applied to the surface only).
func WithAutoResize() Option {
	return func(c *runtimeConfig) { c.autoResize = true }
}

// New builds a Runtime with a freshly constructed Surface, applying opts
// over these defaults: 24x80, 10000-line scrollback, 10000-action sync
// budget, a 2-entry search cache, auto-resize off.
func New(session Session, client Client, opts ...Option) *Runtime {
	cfg := runtimeConfig{rows: 24, cols: 80, maxScrollback: 10000, syncBudget: syncBufferCapacity, searchCacheLimit: 2, autoResize: false}
	for _, opt := range opts {
		opt(&cfg)
	}
	surf := NewSurface(cfg.rows, cfg.cols, cfg.maxScrollback)
	sb := NewSyncBufferWithCapacity(surf, cfg.syncBudget)
	interp := NewInterpreter(surf, sb)
	rt := &Runtime{
		session:    session,
		parser:     NewParser(),
		interp:     interp,
		sync:       sb,
		client:     client,
		search:     NewSearchCache(cfg.searchCacheLimit),
		autoResize: cfg.autoResize,
		mirror:     cfg.mirror,
	}
	interp.Report = rt.enqueueWrite
	interp.OnBell = client.Bell
	sb.OnFlush(func() { rt.emitSurfaceChanged() })
	return rt
}

// NewRuntime wires a Session to an already-constructed Surface, for
// callers that need to build the Surface themselves; New is preferred
// for the common case.
func NewRuntime(session Session, surf *Surface, client Client) *Runtime {
	sb := NewSyncBuffer(surf)
	interp := NewInterpreter(surf, sb)
	rt := &Runtime{
		session:    session,
		parser:     NewParser(),
		interp:     interp,
		sync:       sb,
		client:     client,
		search:     NewSearchCache(0),
		autoResize: true,
	}
	interp.Report = rt.enqueueWrite
	interp.OnBell = client.Bell
	sb.OnFlush(func() { rt.emitSurfaceChanged() })
	return rt
}

// Search runs re against the current surface's grid, using this
// Runtime's SearchCache to avoid relinearizing unchanged content.
func (rt *Runtime) Search(re *regexp.Regexp) []Match {
	return SearchAllCached(rt.search, rt.interp.Surface().Grid(), re)
}

// ReadReady is called when the event loop's poller reports the session's
// PTY master is readable. It drains available chunks, feeding each to
// the parser and emitting SurfaceChanged after every chunk so a live
// view stays current even when Read never unblocks between chunks.
func (rt *Runtime) ReadReady() {
	for {
		if rt.stopped {
			return
		}
		n, err := rt.session.Read(rt.readBuf[:])
		if n > 0 {
			rt.Feed(rt.readBuf[:n])
		}
		if err == ErrWouldBlock {
			return
		}
		if err != nil {
			rt.fatalIO(err)
			return
		}
		if n == 0 {
			return
		}
	}
}

// Feed parses a chunk of bytes already read from the session (by a
// caller driving its own read loop on a separate goroutine from the one
// that owns Runtime, say), mirroring it first if WithOutputMirror was
// set, then emitting SurfaceChanged. It is what ReadReady calls per
// chunk internally; exported so a single-threaded event loop can own
// Runtime exclusively while a dedicated goroutine only reads bytes off
// the Session and hands them over on a channel.
func (rt *Runtime) Feed(data []byte) {
	if rt.mirror != nil {
		_, _ = rt.mirror.Write(data)
	}
	rt.parser.Advance(data, rt.interp)
	rt.checkAmbientChanges()
	rt.emitSurfaceChanged()
}

// WriteReady is called when the session is writable; it drains the
// outbound queue, leaving any partially-written chunk's remainder queued
// rather than blocking.
func (rt *Runtime) WriteReady() {
	for len(rt.outbound) > 0 {
		chunk := rt.outbound[0]
		n, err := rt.session.Write(chunk)
		if n > 0 {
			chunk = chunk[n:]
		}
		if len(chunk) > 0 {
			rt.outbound[0] = chunk
			return
		}
		rt.outbound = rt.outbound[1:]
		if err == ErrWouldBlock {
			return
		}
		if err != nil {
			rt.fatalIO(err)
			return
		}
	}
}

// Maintain runs the periodic idle tick: flushing the outbound queue,
// and — since SyncBuffer's own timer already forces a deadline flush —
// picking up a SurfaceChanged emission if that flush just happened.
func (rt *Runtime) Maintain() {
	rt.WriteReady()
}

// ChildReadable is called when the session's exit-notification signal
// pipe is readable; it reaps the child if it has exited and stops the
// read loop.
func (rt *Runtime) ChildReadable() {
	status, ok := rt.session.TryWait()
	if !ok {
		return
	}
	rt.stopped = true
	rt.client.ChildExit(status)
}

// Process handles a single host-submitted Request.
func (rt *Runtime) Process(req Request) {
	switch req.Kind {
	case RequestWrite:
		rt.enqueueWrite(req.Write)
	case RequestMouseReport:
		rt.enqueueWrite(encodeMouseReport(req.Mouse, rt.interp.Surface().Mode()))
	case RequestResize:
		if rt.autoResize {
			_ = rt.session.Resize(req.Rows, req.Cols)
		}
		rt.interp.Surface().Resize(req.Rows, req.Cols)
		rt.emitSurfaceChanged()
	case RequestScrollViewport:
		rt.interp.Surface().Grid().ScrollDisplay(req.Scroll)
		rt.emitSurfaceChanged()
	case RequestShutdown:
		rt.shutdown()
	}
}

func (rt *Runtime) enqueueWrite(b []byte) {
	if len(b) == 0 {
		return
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	rt.outbound = append(rt.outbound, cp)
}

func (rt *Runtime) shutdown() {
	rt.stopped = true
	rt.sync.Abort()
	_ = rt.session.Close()
}

func (rt *Runtime) fatalIO(err error) {
	rt.stopped = true
	_ = rt.session.Close()
	rt.client.ChildExit(ExitStatus{Code: -1, Signal: "io-error"})
}

func (rt *Runtime) emitSurfaceChanged() {
	rt.search.Invalidate(rt.interp.Surface().Grid())
	rt.client.SurfaceChanged(rt.interp.Surface().Snapshot())
}

// checkAmbientChanges compares title/cursor-style state against what was
// last reported and emits the corresponding Client events. Bell is
// edge-triggered and driven directly by the Interpreter's OnBell hook;
// Runtime never emits HyperlinkHover or CursorIconChanged.
func (rt *Runtime) checkAmbientChanges() {
	surf := rt.interp.Surface()
	if title := surf.Title(); title != rt.lastTitle {
		rt.lastTitle = title
		rt.client.TitleChanged(title)
	}
	cur := surf.Cursor()
	if cur.Shape != rt.lastShape {
		rt.lastShape = cur.Shape
		rt.client.CursorShapeChanged(cur.Shape)
	}
	if cur.Style != rt.lastStyle {
		rt.lastStyle = cur.Style
		rt.client.CursorStyleChanged(cur.Style)
	}
}

// encodeMouseReport renders a MouseEvent as SGR mouse-report bytes
// (CSI < Cb ; Cx ; Cy M/m) when SGR mouse mode is enabled, the X10 legacy
// single-byte encoding otherwise (UTF-8 mouse mode is not consulted).
func encodeMouseReport(ev MouseEvent, mode Mode) []byte {
	cb := mouseButtonCode(ev)
	if mode.Has(ModeSgrMouse) {
		final := byte('M')
		if ev.Action == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", cb, ev.Col+1, ev.Row+1, final))
	}
	return []byte{0x1b, '[', 'M', byte(32 + cb), byte(32 + ev.Col + 1), byte(32 + ev.Row + 1)}
}

func mouseButtonCode(ev MouseEvent) int {
	code := 0
	switch ev.Button {
	case MouseMiddle:
		code = 1
	case MouseRight:
		code = 2
	case MouseWheelUp:
		code = 64
	case MouseWheelDown:
		code = 65
	}
	if ev.Action == MouseDrag {
		code |= 32
	}
	if ev.Mods&ModShift != 0 {
		code |= 4
	}
	if ev.Mods&ModAlt != 0 {
		code |= 8
	}
	if ev.Mods&ModCtrl != 0 {
		code |= 16
	}
	return code
}

// idleTickInterval matches the Sync Buffer's own deadline granularity, so
// a host wiring a ticker for Maintain doesn't need a second constant.
const idleTickInterval = 10 * time.Millisecond
