package server

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pepegar/tui-wright/internal/session"
)

func spawnTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Spawn(session.Config{
		Command: "cat",
		Cols:    80,
		Rows:    24,
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("session.Spawn: %v", err)
	}
	t.Cleanup(func() { s.Kill() })
	return s
}

func startTestServer(t *testing.T, sess *session.Session) (string, *Server) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	srv, err := Listen(sockPath, sess, zerolog.Nop())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	go srv.Serve()

	return sockPath, srv
}

func dial(t *testing.T, sockPath string) net.Conn {
	t.Helper()
	var conn net.Conn
	var err error
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		conn, err = net.Dial("unix", sockPath)
		if err == nil {
			return conn
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("dial %s: %v", sockPath, err)
	return nil
}

func sendRequest(t *testing.T, conn net.Conn, req string) map[string]interface{} {
	t.Helper()
	if _, err := conn.Write([]byte(req + "\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal response %s: %v", line, err)
	}
	return resp
}

func TestCursorRequestRoundTrip(t *testing.T) {
	sess := spawnTestSession(t)
	sockPath, _ := startTestServer(t, sess)
	conn := dial(t, sockPath)
	defer conn.Close()

	resp := sendRequest(t, conn, `{"type":"Cursor"}`)
	if resp["type"] != "Cursor" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp["row"] != float64(0) || resp["col"] != float64(0) {
		t.Errorf("expected cursor at (0,0), got row=%v col=%v", resp["row"], resp["col"])
	}
}

func TestMalformedRequestReturnsError(t *testing.T) {
	sess := spawnTestSession(t)
	sockPath, _ := startTestServer(t, sess)
	conn := dial(t, sockPath)
	defer conn.Close()

	resp := sendRequest(t, conn, `not json`)
	if resp["type"] != "Error" {
		t.Fatalf("expected Error response, got %+v", resp)
	}
}

func TestUnknownKeyReturnsError(t *testing.T) {
	sess := spawnTestSession(t)
	sockPath, _ := startTestServer(t, sess)
	conn := dial(t, sockPath)
	defer conn.Close()

	resp := sendRequest(t, conn, `{"type":"Key","name":"bogus"}`)
	if resp["type"] != "Error" {
		t.Fatalf("expected Error response, got %+v", resp)
	}
	if !strings.Contains(resp["message"].(string), "unknown key") {
		t.Errorf("expected unknown key message, got %v", resp["message"])
	}
}

func TestScreenRequestTextMode(t *testing.T) {
	sess := spawnTestSession(t)
	sockPath, _ := startTestServer(t, sess)

	typeConn := dial(t, sockPath)
	resp := sendRequest(t, typeConn, `{"type":"Type","text":"hi"}`)
	typeConn.Close()
	if resp["type"] != "Ok" {
		t.Fatalf("expected Ok for Type, got %+v", resp)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		c := dial(t, sockPath)
		screenResp := sendRequest(t, c, `{"type":"Screen","json":false}`)
		c.Close()
		if text, ok := screenResp["text"].(string); ok && strings.Contains(text, "hi") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("screen text never showed typed input")
}

func TestKillStopsServeLoop(t *testing.T) {
	sess := spawnTestSession(t)
	sockPath, _ := startTestServer(t, sess)
	conn := dial(t, sockPath)
	defer conn.Close()

	resp := sendRequest(t, conn, `{"type":"Kill"}`)
	if resp["type"] != "Ok" {
		t.Fatalf("expected Ok for Kill, got %+v", resp)
	}

	// Serve removes the socket when its loop returns.
	deadline := time.Now().Add(time.Second)
	for {
		if _, err := os.Stat(sockPath); os.IsNotExist(err) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("socket %s still present after Kill: serve loop did not stop", sockPath)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
