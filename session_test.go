package vterm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionEchoesChildOutput(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start("sh", []string{"-c", "printf hello"}, "", nil, 24, 80))
	defer s.Close()

	var out []byte
	deadline := time.Now().Add(2 * time.Second)
	buf := make([]byte, 256)
	for time.Now().Before(deadline) {
		n, err := s.Read(buf)
		out = append(out, buf[:n]...)
		if err == ErrWouldBlock {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if len(out) > 0 {
			break
		}
	}
	assert.Contains(t, string(out), "hello")
}

func TestSessionWaitReportsExitCode(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start("sh", []string{"-c", "exit 3"}, "", nil, 24, 80))
	defer s.Close()

	status, err := s.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, status.Code)
}

func TestSessionTryWaitBeforeExit(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start("sh", []string{"-c", "sleep 1"}, "", nil, 24, 80))
	defer s.Close()

	_, ok := s.TryWait()
	assert.False(t, ok, "child is still running")
}

func TestSessionWriteForwardsToChildStdin(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start("cat", nil, "", nil, 24, 80))
	defer s.Close()

	_, err := s.Write([]byte("ping\n"))
	require.NoError(t, err)

	var out []byte
	deadline := time.Now().Add(2 * time.Second)
	buf := make([]byte, 256)
	for time.Now().Before(deadline) {
		n, err := s.Read(buf)
		out = append(out, buf[:n]...)
		if err == ErrWouldBlock {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if len(out) >= len("ping\n") {
			break
		}
	}
	assert.Contains(t, string(out), "ping")
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start("sh", []string{"-c", "sleep 0.1"}, "", nil, 24, 80))

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSessionReadBeforeStartReportsNotStarted(t *testing.T) {
	s := NewSession()
	_, err := s.Read(make([]byte, 10))
	assert.ErrorIs(t, err, ErrChildNotStarted)
}
