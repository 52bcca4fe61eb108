// Package trace implements an asciicast-v2 session recorder: an optional
// sink that tees PTY input, output, resize, and marker events into a
// newline-delimited JSON file for later replay.
package trace

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// header is the first line of an asciicast-v2 file.
type header struct {
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp *int64 `json:"timestamp,omitempty"`
	Title     *string `json:"title,omitempty"`
}

// Recorder writes an asciicast-v2 event log. Every event flushes so a
// mid-run reader sees recent data.
type Recorder struct {
	file   *os.File
	writer *bufio.Writer
	start  time.Time
}

// New creates the trace file at path, writes and flushes its header, and
// starts the recorder's monotonic clock. title is omitted from the header
// when empty.
func New(path string, cols, rows int, title string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriter(f)
	ts := time.Now().Unix()
	h := header{Version: 2, Width: cols, Height: rows, Timestamp: &ts}
	if title != "" {
		h.Title = &title
	}

	data, err := json.Marshal(h)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.WriteByte('\n'); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, err
	}

	return &Recorder{file: f, writer: w, start: time.Now()}, nil
}

func (r *Recorder) elapsedSeconds() float64 {
	return time.Since(r.start).Seconds()
}

func (r *Recorder) writeEvent(code, data string) error {
	event := []interface{}{r.elapsedSeconds(), code, data}
	encoded, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := r.writer.Write(encoded); err != nil {
		return err
	}
	if err := r.writer.WriteByte('\n'); err != nil {
		return err
	}
	return r.writer.Flush()
}

// RecordOutput records raw bytes read from the PTY master as an "o" event.
// Bytes that are not valid UTF-8 are replaced with U+FFFD when the event
// is JSON-encoded (similar to Rust's String::from_utf8_lossy).
func (r *Recorder) RecordOutput(raw []byte) error {
	return r.writeEvent("o", string(raw))
}

// RecordInput records raw bytes written to the PTY master as an "i" event.
func (r *Recorder) RecordInput(raw []byte) error {
	return r.writeEvent("i", string(raw))
}

// RecordMarker records a human-readable marker as an "m" event.
func (r *Recorder) RecordMarker(label string) error {
	return r.writeEvent("m", label)
}

// RecordResize records a geometry change as an "r" event with payload
// "<cols>x<rows>".
func (r *Recorder) RecordResize(cols, rows int) error {
	return r.writeEvent("r", strconv.Itoa(cols)+"x"+strconv.Itoa(rows))
}

// Finish flushes the recorder's buffer and closes the underlying file.
func (r *Recorder) Finish() error {
	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
