package protocol

import (
	"strings"
	"testing"
)

func TestDecodeRequestVariants(t *testing.T) {
	cases := []struct {
		line string
		want Request
	}{
		{`{"type":"Screen","json":true}`, ScreenRequest{JSON: true}},
		{`{"type":"Type","text":"hello"}`, TypeRequest{Text: "hello"}},
		{`{"type":"Key","name":"enter"}`, KeyRequest{Name: "enter"}},
		{`{"type":"Mouse","action":"press","col":1,"row":2}`, MouseRequest{Action: "press", Col: 1, Row: 2}},
		{`{"type":"Resize","cols":120,"rows":40}`, ResizeRequest{Cols: 120, Rows: 40}},
		{`{"type":"Cursor"}`, CursorRequest{}},
		{`{"type":"Kill"}`, KillRequest{}},
		{`{"type":"TraceStop"}`, TraceStopRequest{}},
		{`{"type":"TraceMarker","label":"x"}`, TraceMarkerRequest{Label: "x"}},
	}
	for _, c := range cases {
		got, err := DecodeRequest([]byte(c.line))
		if err != nil {
			t.Fatalf("DecodeRequest(%s): %v", c.line, err)
		}
		if got != c.want {
			t.Errorf("DecodeRequest(%s) = %+v, want %+v", c.line, got, c.want)
		}
	}
}

func TestDecodeRequestUnknownType(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"type":"Bogus"}`))
	if err == nil {
		t.Fatalf("expected error for unknown request type")
	}
}

func TestDecodeRequestMalformedJSON(t *testing.T) {
	_, err := DecodeRequest([]byte(`not json`))
	if err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestEncodeResponseVariants(t *testing.T) {
	cases := []struct {
		resp Response
		want string
	}{
		{OkResponse{}, `{"type":"Ok"}`},
		{TextResponse{Text: "hi"}, `{"type":"Text","text":"hi"}`},
		{CursorResponse{Row: 0, Col: 0}, `{"type":"Cursor","row":0,"col":0}`},
		{ErrorResponse{Message: "boom"}, `{"type":"Error","message":"boom"}`},
	}
	for _, c := range cases {
		got, err := EncodeResponse(c.resp)
		if err != nil {
			t.Fatalf("EncodeResponse: %v", err)
		}
		if string(got) != c.want {
			t.Errorf("EncodeResponse(%+v) = %s, want %s", c.resp, got, c.want)
		}
	}
}

func TestCursorResponseIncludesZeroCoordinates(t *testing.T) {
	data, err := EncodeResponse(CursorResponse{Row: 0, Col: 0})
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	if !strings.Contains(string(data), `"row":0`) || !strings.Contains(string(data), `"col":0`) {
		t.Errorf("expected row/col to be present even at zero, got %s", data)
	}
}

func TestIsOk(t *testing.T) {
	if !IsOk(OkResponse{}) {
		t.Errorf("expected OkResponse to be Ok")
	}
	if IsOk(ErrorResponse{Message: "x"}) {
		t.Errorf("expected ErrorResponse not to be Ok")
	}
}
