// Package server implements the Protocol Server: it binds a Unix domain
// socket, accepts one connection at a time, and dispatches each
// line-delimited JSON request to a Session Host, replying with a single
// line-delimited JSON response before closing the connection.
package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pepegar/tui-wright/internal/protocol"
	"github.com/pepegar/tui-wright/internal/session"
)

// Server owns the listening socket and the single Session Host it fronts.
type Server struct {
	log      zerolog.Logger
	sock     string
	listener net.Listener
	sess     *session.Session
}

// Listen removes any stale socket at path, binds a new Unix listener
// there, and restricts it to the owning user.
func Listen(path string, sess *session.Session, log zerolog.Logger) (*Server, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	return &Server{
		log:      log.With().Str("component", "server").Logger(),
		sock:     path,
		listener: ln,
		sess:     sess,
	}, nil
}

// Serve accepts connections one at a time until the session's child exits
// or a Kill request is handled, then removes the socket and returns.
func (s *Server) Serve() error {
	defer os.Remove(s.sock)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}

		done := s.handleConn(conn)
		if done {
			return nil
		}
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

// handleConn services one request on conn and reports whether the daemon
// should stop serving afterward (child exited, or a Kill was processed).
func (s *Server) handleConn(conn net.Conn) bool {
	defer conn.Close()

	connID := uuid.NewString()
	log := s.log.With().Str("conn_id", connID).Logger()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		log.Debug().Err(err).Msg("connection closed without a request")
		return false
	}

	req, err := protocol.DecodeRequest(line)
	if err != nil {
		log.Warn().Err(err).Msg("malformed request")
		s.writeResponse(conn, protocol.ErrorResponse{Message: err.Error()})
		return false
	}

	if _, isKill := req.(protocol.KillRequest); !isKill && !s.sess.IsAlive() {
		log.Info().Msg("rejecting request: child has exited")
		s.writeResponse(conn, protocol.ErrorResponse{Message: protocol.ErrChildExited.Error()})
		return true
	}

	s.traceRequest(req)

	resp := s.dispatch(req)
	s.writeResponse(conn, resp)

	if _, isKill := req.(protocol.KillRequest); isKill && protocol.IsOk(resp) {
		return true
	}
	return false
}

// traceRequest records a human-readable marker for requests that mutate
// the child's input stream, before the request is dispatched.
func (s *Server) traceRequest(req protocol.Request) {
	switch r := req.(type) {
	case protocol.KeyRequest:
		s.sess.TraceMarker("key " + r.Name)
	case protocol.TypeRequest:
		s.sess.TraceMarker("type " + strconv.Quote(r.Text))
	case protocol.MouseRequest:
		s.sess.TraceMarker(fmt.Sprintf("mouse %s %d,%d", r.Action, r.Col, r.Row))
	}
}

func (s *Server) dispatch(req protocol.Request) protocol.Response {
	switch r := req.(type) {
	case protocol.ScreenRequest:
		if r.JSON {
			return protocol.ScreenResponse{Snapshot: s.sess.ScreenSnapshot()}
		}
		return protocol.TextResponse{Text: s.sess.ScreenText()}

	case protocol.CursorRequest:
		row, col := s.sess.CursorPosition()
		return protocol.CursorResponse{Row: row, Col: col}

	case protocol.TypeRequest:
		if err := s.sess.TypeText(r.Text); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.KeyRequest:
		if err := s.sess.SendKey(r.Name); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.MouseRequest:
		if err := s.sess.SendMouse(r.Action, r.Col, r.Row); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.ResizeRequest:
		if err := s.sess.Resize(r.Cols, r.Rows); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.KillRequest:
		if err := s.sess.Kill(); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.TraceStartRequest:
		path := ""
		if r.Output != nil {
			path = *r.Output
		}
		if err := s.sess.TraceStart(path, ""); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.TraceStopRequest:
		if err := s.sess.TraceStop(); err != nil {
			return protocol.ErrorResponse{Message: err.Error()}
		}
		return protocol.OkResponse{}

	case protocol.TraceMarkerRequest:
		s.sess.TraceMarker(r.Label)
		return protocol.OkResponse{}

	case protocol.SnapshotDiffRequest:
		return protocol.DiffResponse{Diff: s.sess.Diff(r.Baseline)}

	default:
		return protocol.ErrorResponse{Message: "unsupported request"}
	}
}

func (s *Server) writeResponse(conn net.Conn, resp protocol.Response) {
	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		s.log.Error().Err(err).Msg("encode response failed")
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		var netErr *net.OpError
		if !errors.As(err, &netErr) {
			s.log.Warn().Err(err).Msg("write response failed")
		}
	}
}
