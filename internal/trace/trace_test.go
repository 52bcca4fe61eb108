package trace

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tracePath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func TestTraceHeader(t *testing.T) {
	path := tracePath(t, "header.cast")
	r, err := New(path, 80, 24, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	lines := readLines(t, path)
	var h map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h["version"].(float64) != 2 || h["width"].(float64) != 80 || h["height"].(float64) != 24 {
		t.Errorf("unexpected header: %+v", h)
	}
	if h["title"] != "test" {
		t.Errorf("expected title %q, got %v", "test", h["title"])
	}
}

func TestTraceOutputEvent(t *testing.T) {
	path := tracePath(t, "output.cast")
	r, err := New(path, 80, 24, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.RecordOutput([]byte("hello world")); err != nil {
		t.Fatalf("RecordOutput: %v", err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var event []interface{}
	if err := json.Unmarshal([]byte(lines[1]), &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event[1] != "o" || event[2] != "hello world" {
		t.Errorf("unexpected event: %+v", event)
	}
	if event[0].(float64) < 0 {
		t.Errorf("expected non-negative timestamp, got %v", event[0])
	}
}

func TestTraceAllEventTypes(t *testing.T) {
	path := tracePath(t, "all-events.cast")
	r, err := New(path, 80, 24, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.RecordOutput([]byte("output")); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordInput([]byte("input")); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordMarker("checkpoint"); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordResize(120, 40); err != nil {
		t.Fatal(err)
	}
	if err := r.Finish(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, path)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	want := []struct {
		code string
		data string
	}{
		{"o", "output"}, {"i", "input"}, {"m", "checkpoint"}, {"r", "120x40"},
	}
	for i, w := range want {
		var event []interface{}
		if err := json.Unmarshal([]byte(lines[i+1]), &event); err != nil {
			t.Fatalf("unmarshal line %d: %v", i+1, err)
		}
		if event[1] != w.code || event[2] != w.data {
			t.Errorf("line %d: got %+v, want code=%q data=%q", i+1, event, w.code, w.data)
		}
	}
}

func TestTraceTimestampsIncrease(t *testing.T) {
	path := tracePath(t, "timestamps.cast")
	r, err := New(path, 80, 24, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.RecordOutput([]byte("first")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := r.RecordOutput([]byte("second")); err != nil {
		t.Fatal(err)
	}
	if err := r.Finish(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, path)
	var e1, e2 []interface{}
	json.Unmarshal([]byte(lines[1]), &e1)
	json.Unmarshal([]byte(lines[2]), &e2)
	if e2[0].(float64) <= e1[0].(float64) {
		t.Errorf("expected increasing timestamps, got %v then %v", e1[0], e2[0])
	}
}
