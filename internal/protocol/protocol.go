// Package protocol defines the line-delimited JSON request/response wire
// types exchanged over the daemon's Unix socket, and the typed error kinds
// observable at that boundary. Requests and Responses are closed sum
// types: each variant is its own struct, and the "type" discriminant is
// injected/inspected rather than carried as a shared flat field set, so
// the wire JSON for a given variant carries exactly that variant's fields.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pepegar/tui-wright/internal/diff"
	"github.com/pepegar/tui-wright/internal/screen"
)

// Request is implemented by every client-to-daemon message variant.
type Request interface {
	requestType() string
}

type ScreenRequest struct {
	JSON bool `json:"json"`
}

type TypeRequest struct {
	Text string `json:"text"`
}

type KeyRequest struct {
	Name string `json:"name"`
}

type MouseRequest struct {
	Action string `json:"action"`
	Col    int    `json:"col"`
	Row    int    `json:"row"`
}

type ResizeRequest struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

type CursorRequest struct{}

type KillRequest struct{}

type TraceStartRequest struct {
	Output *string `json:"output"`
}

type TraceStopRequest struct{}

type TraceMarkerRequest struct {
	Label string `json:"label"`
}

type SnapshotDiffRequest struct {
	Baseline screen.Snapshot `json:"baseline"`
}

func (ScreenRequest) requestType() string       { return "Screen" }
func (TypeRequest) requestType() string         { return "Type" }
func (KeyRequest) requestType() string          { return "Key" }
func (MouseRequest) requestType() string        { return "Mouse" }
func (ResizeRequest) requestType() string       { return "Resize" }
func (CursorRequest) requestType() string       { return "Cursor" }
func (KillRequest) requestType() string         { return "Kill" }
func (TraceStartRequest) requestType() string   { return "TraceStart" }
func (TraceStopRequest) requestType() string    { return "TraceStop" }
func (TraceMarkerRequest) requestType() string  { return "TraceMarker" }
func (SnapshotDiffRequest) requestType() string { return "SnapshotDiff" }

// DecodeRequest parses a single line of wire JSON into its Request variant.
func DecodeRequest(line []byte) (Request, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &tag); err != nil {
		return nil, fmt.Errorf("Invalid request: %w", err)
	}

	switch tag.Type {
	case "Screen":
		var r ScreenRequest
		return r, decodeInto(line, &r)
	case "Type":
		var r TypeRequest
		return r, decodeInto(line, &r)
	case "Key":
		var r KeyRequest
		return r, decodeInto(line, &r)
	case "Mouse":
		var r MouseRequest
		return r, decodeInto(line, &r)
	case "Resize":
		var r ResizeRequest
		return r, decodeInto(line, &r)
	case "Cursor":
		return CursorRequest{}, nil
	case "Kill":
		return KillRequest{}, nil
	case "TraceStart":
		var r TraceStartRequest
		return r, decodeInto(line, &r)
	case "TraceStop":
		return TraceStopRequest{}, nil
	case "TraceMarker":
		var r TraceMarkerRequest
		return r, decodeInto(line, &r)
	case "SnapshotDiff":
		var r SnapshotDiffRequest
		return r, decodeInto(line, &r)
	default:
		return nil, fmt.Errorf("Invalid request: unknown type %q", tag.Type)
	}
}

func decodeInto(line []byte, v Request) error {
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("Invalid request: %w", err)
	}
	return nil
}

// Response is implemented by every daemon-to-client message variant.
type Response interface {
	MarshalJSON() ([]byte, error)
}

type OkResponse struct{}

type TextResponse struct {
	Text string
}

type ScreenResponse struct {
	Snapshot screen.Snapshot
}

type CursorResponse struct {
	Row int
	Col int
}

type ErrorResponse struct {
	Message string
}

type DiffResponse struct {
	Diff diff.Diff
}

func (OkResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{"Ok"})
}

func (r TextResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{"Text", r.Text})
}

func (r ScreenResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string          `json:"type"`
		Snapshot screen.Snapshot `json:"snapshot"`
	}{"Screen", r.Snapshot})
}

func (r CursorResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Row  int    `json:"row"`
		Col  int    `json:"col"`
	}{"Cursor", r.Row, r.Col})
}

func (r ErrorResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"Error", r.Message})
}

func (r DiffResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string    `json:"type"`
		Diff diff.Diff `json:"diff"`
	}{"Diff", r.Diff})
}

// EncodeResponse serializes a Response as a single line of wire JSON,
// without a trailing newline.
func EncodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

// IsOk reports whether resp is the Ok variant.
func IsOk(resp Response) bool {
	_, ok := resp.(OkResponse)
	return ok
}

// Sentinel error kinds observable at the wire boundary. Daemon code wraps
// these with fmt.Errorf("...: %w", ErrX) for context; the protocol server
// does not inspect them and sends the error's text as the Error message.
var (
	ErrUnknownKey         = errors.New("unknown key name")
	ErrUnknownMouseAction = errors.New("unknown mouse action")
	ErrChildExited        = errors.New("Child process has exited")
	ErrSessionNotFound    = errors.New("session not found")
)
