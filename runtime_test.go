package vterm

import (
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is an in-memory Session double: Read drains a preloaded
// buffer (returning ErrWouldBlock once empty, matching the non-blocking
// contract Runtime.ReadReady expects), Write records everything sent to
// the child.
type fakeSession struct {
	mu       sync.Mutex
	toRead   []byte
	written  []byte
	resized  []int // rows, cols pairs
	closed   bool
	exit     ExitStatus
	exitedOK bool
}

func (s *fakeSession) Start(string, []string, string, []string, int, int) error { return nil }

func (s *fakeSession) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.toRead) == 0 {
		return 0, ErrWouldBlock
	}
	n := copy(p, s.toRead)
	s.toRead = s.toRead[n:]
	return n, nil
}

func (s *fakeSession) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = append(s.written, p...)
	return len(p), nil
}

func (s *fakeSession) Resize(rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resized = append(s.resized, rows, cols)
	return nil
}

func (s *fakeSession) Wait() (ExitStatus, error) { return s.exit, nil }

func (s *fakeSession) TryWait() (ExitStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exit, s.exitedOK
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) LastActivity() time.Time { return time.Time{} }

// fakeClient records every event a Runtime emits.
type fakeClient struct {
	mu          sync.Mutex
	snapshots   int
	lastTitle   string
	bells       int
	exitStatus  *ExitStatus
	lastShape   *CursorShape
	lastStyle   *CursorStyle
}

func (c *fakeClient) SurfaceChanged(Snapshot) {
	c.mu.Lock()
	c.snapshots++
	c.mu.Unlock()
}
func (c *fakeClient) ChildExit(status ExitStatus) {
	c.mu.Lock()
	c.exitStatus = &status
	c.mu.Unlock()
}
func (c *fakeClient) TitleChanged(title string) {
	c.mu.Lock()
	c.lastTitle = title
	c.mu.Unlock()
}
func (c *fakeClient) Bell() {
	c.mu.Lock()
	c.bells++
	c.mu.Unlock()
}
func (c *fakeClient) CursorShapeChanged(shape CursorShape) {
	c.mu.Lock()
	c.lastShape = &shape
	c.mu.Unlock()
}
func (c *fakeClient) CursorStyleChanged(style CursorStyle) {
	c.mu.Lock()
	c.lastStyle = &style
	c.mu.Unlock()
}
func (c *fakeClient) CursorIconChanged(string)      {}
func (c *fakeClient) HyperlinkHover(Hyperlink)      {}

func TestRuntimeFeedParsesAndEmitsSnapshot(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.Feed([]byte("hello"))

	assert.Equal(t, 1, client.snapshots)
	row := rt.interp.Surface().Grid().Row(0)
	assert.Equal(t, 'h', row.Cell(0).Char)
}

func TestRuntimeReadReadyDrainsUntilWouldBlock(t *testing.T) {
	session := &fakeSession{toRead: []byte("abc")}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.ReadReady()

	row := rt.interp.Surface().Grid().Row(0)
	assert.Equal(t, 'a', row.Cell(0).Char)
	assert.Equal(t, 'c', row.Cell(2).Char)
	assert.GreaterOrEqual(t, client.snapshots, 1)
}

func TestRuntimeOutputMirrorCopiesRawBytes(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	var mirrored bytesBuf
	rt := New(session, client, WithSize(5, 10), WithOutputMirror(&mirrored))

	rt.Feed([]byte("hi"))

	assert.Equal(t, "hi", mirrored.String())
}

func TestRuntimeProcessWriteEnqueuesAndWriteReadyFlushes(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.Process(Request{Kind: RequestWrite, Write: []byte("ls\n")})
	rt.WriteReady()

	assert.Equal(t, "ls\n", string(session.written))
}

func TestRuntimeProcessResizeGatedByAutoResize(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}

	rt := New(session, client, WithSize(5, 10)) // autoResize off by default
	rt.Process(Request{Kind: RequestResize, Rows: 10, Cols: 20})
	assert.Empty(t, session.resized, "without WithAutoResize, the session is never resized")
	assert.Equal(t, 20, rt.interp.Surface().Grid().Width(), "the surface still resizes")

	rt2 := New(&fakeSession{}, client, WithSize(5, 10), WithAutoResize())
	fs := rt2.session.(*fakeSession)
	rt2.Process(Request{Kind: RequestResize, Rows: 8, Cols: 16})
	require.Equal(t, []int{8, 16}, fs.resized)
}

func TestRuntimeProcessShutdownClosesSession(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.Process(Request{Kind: RequestShutdown})

	assert.True(t, session.closed)
}

func TestRuntimeChildReadableNotifiesExit(t *testing.T) {
	session := &fakeSession{exit: ExitStatus{Code: 7}, exitedOK: true}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.ChildReadable()

	require.NotNil(t, client.exitStatus)
	assert.Equal(t, 7, client.exitStatus.Code)
}

func TestRuntimeBellReachesClient(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.Feed([]byte{0x07})

	assert.Equal(t, 1, client.bells)
}

func TestRuntimeTitleChangeEmitsEvent(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.Feed([]byte("\x1b]0;new title\x07"))

	assert.Equal(t, "new title", client.lastTitle)
}

func TestRuntimeSearchUsesCurrentSurfaceContent(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))

	rt.Feed([]byte("hello"))

	matches := rt.Search(regexp.MustCompile("hello"))
	assert.Len(t, matches, 1)
}

func TestRuntimeMouseReportEncodingSGR(t *testing.T) {
	session := &fakeSession{}
	client := &fakeClient{}
	rt := New(session, client, WithSize(5, 10))
	rt.Feed([]byte("\x1b[?1006h")) // enable SGR mouse mode

	rt.Process(Request{Kind: RequestMouseReport, Mouse: MouseEvent{Button: MouseLeft, Action: MousePress, Row: 1, Col: 2}})
	rt.WriteReady()

	assert.Equal(t, "\x1b[<0;3;2M", string(session.written))
}

// bytesBuf is a minimal io.Writer the test can read back as a string,
// avoiding a bytes.Buffer import just for one assertion helper.
type bytesBuf struct {
	data []byte
}

func (b *bytesBuf) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
func (b *bytesBuf) String() string { return string(b.data) }

var _ io.Writer = (*bytesBuf)(nil)
