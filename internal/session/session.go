// Package session implements the Session Host: it owns one PTY pair,
// spawns and supervises a child process on its slave side, mediates all
// I/O, and exposes a synchronous operation set to the Protocol Server.
package session

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/pepegar/tui-wright/internal/diff"
	"github.com/pepegar/tui-wright/internal/input"
	"github.com/pepegar/tui-wright/internal/protocol"
	"github.com/pepegar/tui-wright/internal/screen"
	"github.com/pepegar/tui-wright/internal/term"
	"github.com/pepegar/tui-wright/internal/trace"
)

const readChunkSize = 4096

// Session owns one PTY pair, the child running on its slave side, the
// Terminal Model fed by the PTY reader task, and an optional trace
// recorder. The terminal model and the trace recorder are guarded by
// separate locks that are never held simultaneously: the reader task
// locks the model only for the duration of one Write call, and tracing
// completes before the model lock is taken: on the write path before the
// PTY write, on the read path before the chunk is fed to the model.
type Session struct {
	log zerolog.Logger

	ptmx  *os.File
	cmd   *exec.Cmd
	alive atomic.Bool

	modelMu sync.RWMutex
	model   *term.Terminal

	traceMu sync.Mutex
	tracer  *trace.Recorder
}

// Config describes how to construct a Session.
type Config struct {
	Command string
	Args    []string
	Cols    int
	Rows    int
	Cwd     string
	Log     zerolog.Logger
}

// Spawn opens a PTY pair sized cols x rows, starts the child on the slave
// side inheriting cwd, and starts the PTY Reader Task.
func Spawn(cfg Config) (*Session, error) {
	cmd := exec.Command(cfg.Command, cfg.Args...)
	if cfg.Cwd != "" {
		cmd.Dir = cfg.Cwd
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cfg.Cols),
		Rows: uint16(cfg.Rows),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn pty: %w", err)
	}

	s := &Session{
		log:   cfg.Log,
		ptmx:  ptmx,
		cmd:   cmd,
		model: term.New(term.WithSize(cfg.Rows, cfg.Cols)),
	}
	s.alive.Store(true)

	go s.readLoop()
	go s.reap()

	return s, nil
}

// reap blocks on the child's exit and clears alive so IsAlive reflects
// reality without a caller having to reap the process itself. Without
// this, cmd.ProcessState is never populated and a child that exits on
// its own would be reported alive forever.
func (s *Session) reap() {
	err := s.cmd.Wait()
	s.alive.Store(false)
	s.log.Debug().Err(err).Msg("child process reaped")
}

// readLoop is the PTY Reader Task: a dedicated goroutine that loops
// reading up to readChunkSize bytes from the master. For each non-empty
// chunk it tees the bytes into the trace recorder (if active) as an "o"
// event, then feeds them into the terminal model under the model's lock.
// It terminates silently on EOF or a read error.
func (s *Session) readLoop() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			s.traceOutput(chunk)

			s.modelMu.Lock()
			s.model.Write(chunk)
			s.modelMu.Unlock()
		}
		if err != nil {
			s.log.Debug().Err(err).Msg("pty reader task exiting")
			return
		}
	}
}

func (s *Session) traceOutput(chunk []byte) {
	s.traceMu.Lock()
	defer s.traceMu.Unlock()
	if s.tracer == nil {
		return
	}
	if err := s.tracer.RecordOutput(chunk); err != nil {
		s.log.Warn().Err(err).Msg("trace output write failed")
	}
}

// ScreenText returns a plain-text rendering of the current display.
func (s *Session) ScreenText() string {
	return screen.Text(s.ScreenSnapshot())
}

// ScreenSnapshot returns the full structured snapshot of the current display.
func (s *Session) ScreenSnapshot() screen.Snapshot {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return screen.Capture(s.model)
}

// CursorPosition returns the current cursor row and column.
func (s *Session) CursorPosition() (row, col int) {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.model.CursorPos()
}

// writeInput tees raw bytes into the trace recorder as an "i" event
// before writing them to the PTY master, so the trace reflects causal
// order between what was sent and what the child produced in response.
func (s *Session) writeInput(data []byte) error {
	s.traceMu.Lock()
	if s.tracer != nil {
		if err := s.tracer.RecordInput(data); err != nil {
			s.log.Warn().Err(err).Msg("trace input write failed")
		}
	}
	s.traceMu.Unlock()

	_, err := s.ptmx.Write(data)
	return err
}

// TypeText writes a UTF-8 string to the PTY master.
func (s *Session) TypeText(text string) error {
	if err := s.writeInput([]byte(text)); err != nil {
		return fmt.Errorf("write to pty: %w", err)
	}
	return nil
}

// SendKey encodes a symbolic key name and writes the resulting bytes.
func (s *Session) SendKey(name string) error {
	key, err := input.ParseKeyName(name)
	if err != nil {
		return fmt.Errorf("%w: %s", protocol.ErrUnknownKey, name)
	}
	if err := s.writeInput(key.ToEscapeSequence()); err != nil {
		return fmt.Errorf("write to pty: %w", err)
	}
	return nil
}

// SendMouse encodes a symbolic mouse action at (col, row) and writes the
// resulting SGR mouse report.
func (s *Session) SendMouse(action string, col, row int) error {
	act, err := input.ParseMouseAction(action)
	if err != nil {
		return fmt.Errorf("%w: %s", protocol.ErrUnknownMouseAction, action)
	}
	if err := s.writeInput(input.MouseSGRSequence(act, col, row)); err != nil {
		return fmt.Errorf("write to pty: %w", err)
	}
	return nil
}

// Resize instructs the PTY master to resize, then relocks the terminal
// model and updates its geometry. A failure resizing the PTY surfaces as
// an error without mutating the model.
func (s *Session) Resize(cols, rows int) error {
	if err := pty.Setsize(s.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}

	s.modelMu.Lock()
	s.model.Resize(rows, cols)
	s.modelMu.Unlock()

	s.traceMu.Lock()
	if s.tracer != nil {
		if err := s.tracer.RecordResize(cols, rows); err != nil {
			s.log.Warn().Err(err).Msg("trace resize write failed")
		}
	}
	s.traceMu.Unlock()

	return nil
}

// Kill sends SIGTERM (not SIGKILL) to the child process, giving it a
// chance to clean up before it exits.
func (s *Session) Kill() error {
	if s.cmd.Process == nil {
		return nil
	}
	if err := unix.Kill(s.cmd.Process.Pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("kill child: %w", err)
	}
	return nil
}

// IsAlive reports whether the child process is still running. It reflects
// the reaper goroutine's view, not exec.Cmd.ProcessState directly, since
// nothing else in this daemon calls cmd.Wait().
func (s *Session) IsAlive() bool {
	return s.alive.Load()
}

// Diff computes a SnapshotDiff between baseline and the current screen.
func (s *Session) Diff(baseline screen.Snapshot) diff.Diff {
	return diff.Compute(baseline, s.ScreenSnapshot())
}

// TraceStart begins recording to path (or the pid-based default when path
// is empty) with the given optional title.
func (s *Session) TraceStart(path, title string) error {
	if path == "" {
		path = DefaultTracePath()
	}

	s.modelMu.RLock()
	cols, rows := s.model.Cols(), s.model.Rows()
	s.modelMu.RUnlock()

	rec, err := trace.New(path, cols, rows, title)
	if err != nil {
		return fmt.Errorf("start trace: %w", err)
	}

	s.traceMu.Lock()
	s.tracer = rec
	s.traceMu.Unlock()
	return nil
}

// TraceStop finalizes and closes the active trace recorder, if any.
func (s *Session) TraceStop() error {
	s.traceMu.Lock()
	rec := s.tracer
	s.tracer = nil
	s.traceMu.Unlock()

	if rec == nil {
		return nil
	}
	if err := rec.Finish(); err != nil {
		return fmt.Errorf("stop trace: %w", err)
	}
	return nil
}

// TraceMarker records a human-readable marker event. Best-effort: failures
// are logged but not surfaced to the caller.
func (s *Session) TraceMarker(label string) {
	s.traceMu.Lock()
	defer s.traceMu.Unlock()
	if s.tracer == nil {
		return
	}
	if err := s.tracer.RecordMarker(label); err != nil {
		s.log.Warn().Err(err).Msg("trace marker write failed")
	}
}

// DefaultTracePath returns the daemon's default trace output path, keyed
// on its own process id.
func DefaultTracePath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tui-wright-trace-%d.cast", os.Getpid()))
}

// SocketPath returns the well-known socket path for a session id.
func SocketPath(sessionID string) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tui-wright-%s.sock", sessionID))
}

// ListSessions scans the temp directory for daemon sockets and returns the
// session ids embedded in their names. This is a literal directory scan:
// it is race-prone, since a crashed daemon leaves a stale socket behind,
// rather than a per-socket liveness probe.
func ListSessions(tempDir string) ([]string, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "tui-wright-") && strings.HasSuffix(name, ".sock") {
			id := strings.TrimSuffix(strings.TrimPrefix(name, "tui-wright-"), ".sock")
			ids = append(ids, id)
		}
	}
	return ids, nil
}
