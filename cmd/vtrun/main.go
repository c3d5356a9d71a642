// Command vtrun hosts a child process under a PTY, drives it through a
// vterm.Runtime, and mirrors the child's output on the local terminal
// while forwarding local keystrokes to the child. It exists to exercise
// the library end to end, not as a full terminal-emulator UI.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/vtrun/vterm"
)

// config is vtrun's own YAML settings file, distinct from the vterm
// library's Option values (which config translates into at startup).
type config struct {
	MaxScrollback     int `yaml:"max_scrollback"`
	SyncBudgetActions int `yaml:"sync_budget_actions"`
	SearchCacheLimit  int `yaml:"search_cache_limit"`
}

func defaultConfig() config {
	return config{MaxScrollback: 10000, SyncBudgetActions: 10000, SearchCacheLimit: 2}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var configPath string
	exitCode := 0

	root := &cobra.Command{
		Use:   "vtrun [flags] -- <command> [args...]",
		Short: "Run a command under a headless VT terminal runtime",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			code, err := run(args[0], args[1:], cfg)
			exitCode = code
			return err
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vtrun:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// run blocks until the child exits, then returns its exit code. It
// returns (not os.Exit's) so the raw-mode terminal restore below
// actually runs before the process exits.
func run(command string, args []string, cfg config) (int, error) {
	rows, cols := 24, 80
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = w, h
		}
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		state, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return 1, fmt.Errorf("set raw mode: %w", err)
		}
		defer term.Restore(int(os.Stdin.Fd()), state)
	}

	session := vterm.NewSession()
	dir, _ := os.Getwd()
	dir = filepath.Clean(dir)
	if err := session.Start(command, args, dir, nil, rows, cols); err != nil {
		return 1, fmt.Errorf("start %s: %w", command, err)
	}

	client := &passthroughClient{done: make(chan vterm.ExitStatus, 1)}
	rt := vterm.New(session, client,
		vterm.WithSize(rows, cols),
		vterm.WithMaxScrollback(cfg.MaxScrollback),
		vterm.WithSyncBudget(cfg.SyncBudgetActions),
		vterm.WithSearchCacheLimit(cfg.SearchCacheLimit),
		vterm.WithAutoResize(),
		vterm.WithOutputMirror(os.Stdout),
	)

	// Runtime documents itself as single-owner: one goroutine (this one)
	// makes every Feed/Process/Maintain call. Everything else — the PTY
	// reader, the stdin reader, SIGWINCH — only ever hands bytes or
	// signals across a channel, never touches rt directly.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)

	chunks := readLoop(session)
	keys := readLoop(os.Stdin)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil // PTY closed; wait for ChildReadable to report the exit below
				continue
			}
			rt.Feed(chunk)
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			rt.Process(vterm.Request{Kind: vterm.RequestWrite, Write: key})
		case <-winch:
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				rt.Process(vterm.Request{Kind: vterm.RequestResize, Rows: h, Cols: w})
			}
		case <-ticker.C:
			rt.Maintain()
			rt.ChildReadable()
		case status := <-client.done:
			if status.Signal != "" {
				fmt.Fprintf(os.Stderr, "vtrun: child terminated by %s\n", status.Signal)
			}
			return status.Code, nil
		}
	}
}

// readLoop reads r on its own goroutine (Session.Read and os.File.Read
// both block) and forwards copies of each chunk on the returned channel,
// closing it on EOF or any error other than ErrWouldBlock. It never
// touches the Runtime — the select loop in run is the only caller
// allowed to do that.
func readLoop(r io.Reader) <-chan []byte {
	out := make(chan []byte)
	go func() {
		defer close(out)
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				cp := make([]byte, n)
				copy(cp, buf[:n])
				out <- cp
			}
			if err == vterm.ErrWouldBlock {
				continue
			}
			if err != nil {
				return
			}
		}
	}()
	return out
}

// passthroughClient mirrors child output directly to the local terminal
// (vtrun doesn't re-render from Snapshot; the point is to prove the
// library tracks state correctly alongside a transparent pass-through,
// which already carries title/bell/etc. escape sequences to the real
// terminal via WithOutputMirror) and reports the child's exit.
type passthroughClient struct {
	done chan vterm.ExitStatus
}

func (c *passthroughClient) SurfaceChanged(snap vterm.Snapshot)   {}
func (c *passthroughClient) ChildExit(status vterm.ExitStatus)    { c.done <- status }
func (c *passthroughClient) TitleChanged(title string)            {}
func (c *passthroughClient) Bell()                                {}
func (c *passthroughClient) CursorShapeChanged(vterm.CursorShape) {}
func (c *passthroughClient) CursorStyleChanged(vterm.CursorStyle) {}
func (c *passthroughClient) CursorIconChanged(uri string)         {}
func (c *passthroughClient) HyperlinkHover(link vterm.Hyperlink)  {}
