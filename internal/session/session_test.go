package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func discardLogger() zerolog.Logger {
	return zerolog.Nop()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func spawnCat(t *testing.T) *Session {
	t.Helper()
	s, err := Spawn(Config{
		Command: "cat",
		Cols:    80,
		Rows:    24,
		Log:     discardLogger(),
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() { s.Kill() })
	return s
}

func TestTypeTextAppearsOnScreen(t *testing.T) {
	s := spawnCat(t)

	if err := s.TypeText("hello\r\n"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		return strings.Contains(s.ScreenText(), "hello")
	})
}

func TestCursorPositionAdvances(t *testing.T) {
	s := spawnCat(t)

	if err := s.TypeText("ab"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		_, col := s.CursorPosition()
		return col == 2
	})
}

func TestSendKeyUnknownNameErrors(t *testing.T) {
	s := spawnCat(t)

	if err := s.SendKey("not-a-real-key"); err == nil {
		t.Fatalf("expected error for unknown key name")
	}
}

func TestSendMouseUnknownActionErrors(t *testing.T) {
	s := spawnCat(t)

	if err := s.SendMouse("not-a-real-action", 1, 1); err == nil {
		t.Fatalf("expected error for unknown mouse action")
	}
}

func TestResizeUpdatesModelGeometry(t *testing.T) {
	s := spawnCat(t)

	if err := s.Resize(100, 30); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	snap := s.ScreenSnapshot()
	if snap.Rows != 30 || snap.Cols != 100 {
		t.Errorf("snapshot dims = %dx%d, want 100x30", snap.Cols, snap.Rows)
	}
}

func TestKillMarksSessionNotAlive(t *testing.T) {
	s := spawnCat(t)

	if !s.IsAlive() {
		t.Fatalf("expected session to be alive before kill")
	}
	if err := s.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return !s.IsAlive()
	})
}

func TestTraceStartStopWritesFile(t *testing.T) {
	s := spawnCat(t)
	path := filepath.Join(t.TempDir(), "session.cast")

	if err := s.TraceStart(path, "test session"); err != nil {
		t.Fatalf("TraceStart: %v", err)
	}
	if err := s.TypeText("x"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return strings.Contains(s.ScreenText(), "x")
	})
	if err := s.TraceStop(); err != nil {
		t.Fatalf("TraceStop: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if !strings.Contains(string(data), "\"version\":2") {
		t.Errorf("trace file missing header, got: %s", data)
	}
}

func TestDiffDetectsChange(t *testing.T) {
	s := spawnCat(t)
	baseline := s.ScreenSnapshot()

	if err := s.TypeText("z"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return strings.Contains(s.ScreenText(), "z")
	})

	d := s.Diff(baseline)
	if d.Identical {
		t.Errorf("expected diff to report a change")
	}
}

func TestListSessionsFindsSocketNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tui-wright-abc.sock", "tui-wright-def.sock", "unrelated.sock"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	ids, err := ListSessions(dir)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}

	want := map[string]bool{"abc": true, "def": true}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2: %v", len(ids), ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected session id %q", id)
		}
	}
}
