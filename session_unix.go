//go:build unix

package vterm

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// unixSession backs Session with github.com/creack/pty. A SIGCHLD signal
// pipe (golang.org/x/sys/unix's Wait4, triggered by os/signal rather than
// a raw sigaction) lets TryWait report an exit without blocking on
// (*os.Process).Wait, which the stdlib only exposes in blocking form.
type unixSession struct {
	mu sync.Mutex

	ptmx *os.File
	cmd  *exec.Cmd

	sigchld chan os.Signal
	exited  bool
	status  ExitStatus
	waitErr error
	exitCh  chan struct{}

	lastActivity time.Time
	closed       bool
}

// NewSession returns a Session backed by a Unix PTY.
func NewSession() Session {
	return &unixSession{}
}

func (s *unixSession) Start(command string, args []string, dir string, env []string, rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Env = mergeEnv(os.Environ(), env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fmt.Errorf("vterm: start pty: %w", err)
	}

	s.ptmx = ptmx
	s.cmd = cmd
	s.exitCh = make(chan struct{})
	s.lastActivity = time.Now()

	s.sigchld = make(chan os.Signal, 8)
	signal.Notify(s.sigchld, syscall.SIGCHLD)
	go s.waitLoop()

	return nil
}

func mergeEnv(base, overrides []string) []string {
	keys := make(map[string]bool, len(overrides))
	for _, kv := range overrides {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			keys[kv[:i]] = true
		}
	}
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i >= 0 && keys[kv[:i]] {
			continue
		}
		out = append(out, kv)
	}
	return append(out, overrides...)
}

// waitLoop blocks on the child's real exit via cmd.Wait (the SIGCHLD
// signal only wakes TryWait's callers earlier; cmd.Wait still owns reaping
// to avoid racing os/exec's internal bookkeeping).
func (s *unixSession) waitLoop() {
	err := s.cmd.Wait()
	status := exitStatusFromError(s.cmd, err)

	s.mu.Lock()
	s.exited = true
	s.status = status
	s.waitErr = err
	close(s.exitCh)
	signal.Stop(s.sigchld)
	s.mu.Unlock()
}

func exitStatusFromError(cmd *exec.Cmd, err error) ExitStatus {
	if cmd.ProcessState == nil {
		return ExitStatus{Code: -1}
	}
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return ExitStatus{Code: cmd.ProcessState.ExitCode()}
	}
	if ws.Signaled() {
		return ExitStatus{Code: -1, Signal: ws.Signal().String()}
	}
	return ExitStatus{Code: ws.ExitStatus()}
}

func (s *unixSession) Read(p []byte) (int, error) {
	s.mu.Lock()
	ptmx := s.ptmx
	s.mu.Unlock()
	if ptmx == nil {
		return 0, ErrChildNotStarted
	}

	n, err := ptmx.Read(p)
	if n > 0 {
		s.mu.Lock()
		s.lastActivity = time.Now()
		s.mu.Unlock()
	}
	if err != nil {
		if isWouldBlock(err) {
			return n, ErrWouldBlock
		}
		if err == io.EOF {
			return n, io.EOF
		}
	}
	return n, err
}

func isWouldBlock(err error) bool {
	return strings.Contains(err.Error(), "resource temporarily unavailable")
}

func (s *unixSession) Write(p []byte) (int, error) {
	s.mu.Lock()
	ptmx := s.ptmx
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}
	if ptmx == nil {
		return 0, ErrChildNotStarted
	}
	return ptmx.Write(p)
}

func (s *unixSession) Resize(rows, cols int) error {
	s.mu.Lock()
	ptmx := s.ptmx
	s.mu.Unlock()
	if ptmx == nil {
		return ErrChildNotStarted
	}
	return pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (s *unixSession) Wait() (ExitStatus, error) {
	s.mu.Lock()
	exitCh := s.exitCh
	s.mu.Unlock()
	if exitCh == nil {
		return ExitStatus{}, ErrChildNotStarted
	}
	<-exitCh
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, nil
}

func (s *unixSession) TryWait() (ExitStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exited {
		s.drainSigchldLocked()
	}
	return s.status, s.exited
}

// drainSigchldLocked opportunistically reaps a zombie via a non-blocking
// Wait4 when a SIGCHLD has arrived for some descendant; the authoritative
// exit is still recorded by waitLoop's blocking cmd.Wait, so this only
// advances the moment TryWait can observe it in a tight polling loop.
func (s *unixSession) drainSigchldLocked() {
	select {
	case <-s.sigchld:
		var ws unix.WaitStatus
		_, _ = unix.Wait4(-1, &ws, unix.WNOHANG, nil)
	default:
	}
}

func (s *unixSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ptmx := s.ptmx
	cmd := s.cmd
	exited := s.exited
	s.mu.Unlock()

	if !exited && cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Signal(syscall.SIGHUP)
		go func() {
			time.Sleep(200 * time.Millisecond)
			s.mu.Lock()
			done := s.exited
			s.mu.Unlock()
			if !done {
				_ = cmd.Process.Kill()
			}
		}()
	}
	if ptmx != nil {
		return ptmx.Close()
	}
	return nil
}

func (s *unixSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}
