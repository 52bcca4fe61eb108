// Command tui-wright-host is the headless terminal daemon: it spawns a
// child process on a PTY, serves a Unix-socket JSON protocol describing
// its screen, and optionally records an asciicast-v2 trace. It contains
// no business logic of its own; it only parses flags, wires a Session
// Host to a Protocol Server, and waits for either to finish.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pepegar/tui-wright/internal/server"
	"github.com/pepegar/tui-wright/internal/session"
)

var (
	flagCols       int
	flagRows       int
	flagCwd        string
	flagSessionID  string
	flagTrace      string
	flagTraceTitle string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui-wright-host -- <command> [args...]",
		Short: "Run a command under a headless, scriptable terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}

	cmd.Flags().IntVar(&flagCols, "cols", 80, "terminal width in columns")
	cmd.Flags().IntVar(&flagRows, "rows", 24, "terminal height in rows")
	cmd.Flags().StringVar(&flagCwd, "cwd", "", "working directory for the child process")
	cmd.Flags().StringVar(&flagSessionID, "session-id", "", "session identifier (six lowercase hex digits), used to name the socket; generated when omitted")
	cmd.Flags().StringVar(&flagTrace, "trace", "", "path to write an asciicast-v2 trace of this session")
	cmd.Flags().StringVar(&flagTraceTitle, "trace-title", "", "title recorded in the trace header")

	return cmd
}

func newLogger() zerolog.Logger {
	var out = os.Stderr
	if isatty.IsTerminal(out.Fd()) {
		return zerolog.New(zerolog.ConsoleWriter{Out: colorable.NewColorable(out)}).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger().With().Str("component", "daemon").Logger()

	sess, err := session.Spawn(session.Config{
		Command: args[0],
		Args:    args[1:],
		Cols:    flagCols,
		Rows:    flagRows,
		Cwd:     flagCwd,
		Log:     log.With().Str("component", "session").Logger(),
	})
	if err != nil {
		return fmt.Errorf("spawn session: %w", err)
	}

	if flagTrace != "" {
		if err := sess.TraceStart(flagTrace, flagTraceTitle); err != nil {
			log.Error().Err(err).Msg("failed to start trace")
		}
	}

	sessionID := flagSessionID
	if !cmd.Flags().Changed("session-id") {
		var b [3]byte
		if _, err := rand.Read(b[:]); err != nil {
			return fmt.Errorf("generate session id: %w", err)
		}
		sessionID = hex.EncodeToString(b[:])
	}
	sockPath := session.SocketPath(sessionID)
	srv, err := server.Listen(sockPath, sess, log)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info().Str("socket", sockPath).Msg("daemon listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		srv.Close()
		sess.Kill()
	case err := <-serveErr:
		if err != nil {
			log.Warn().Err(err).Msg("server stopped")
		}
	}

	_ = sess.TraceStop()
	return nil
}
