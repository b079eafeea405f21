// Package sshd serves the animation over SSH. Every PTY session gets its own
// frame loop and buffer sized to the client terminal, drawn with half blocks.
package sshd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/gliderlabs/ssh"

	"softraster/internal/frameloop"
	"softraster/internal/logging"
)

// Config holds the server settings.
type Config struct {
	Addr        string
	HostKeyPath string // empty: ephemeral key generated by the SSH library
	Interval    time.Duration
	MaxFrames   uint64
}

// Server wraps the SSH listener.
type Server struct {
	cfg    Config
	srv    *ssh.Server
	log    *slog.Logger
	active atomic.Int64
}

// NewServer configures a server. It does not listen yet.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = frameloop.DefaultInterval
	}
	s := &Server{cfg: cfg, log: logging.Logger()}
	s.srv = &ssh.Server{
		Addr:    cfg.Addr,
		Handler: s.handleSession,
	}
	if cfg.HostKeyPath != "" {
		if err := s.srv.SetOption(ssh.HostKeyFile(cfg.HostKeyPath)); err != nil {
			return nil, fmt.Errorf("sshd: set host key: %w", err)
		}
	}
	return s, nil
}

// ListenAndServe listens on the configured address until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info("ssh server listening", "addr", s.cfg.Addr)
	return s.filter(s.srv.ListenAndServe())
}

// Serve accepts sessions on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("ssh server listening", "addr", l.Addr().String())
	return s.filter(s.srv.Serve(l))
}

// Shutdown stops accepting sessions and waits for active ones up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Active returns the number of sessions currently rendering.
func (s *Server) Active() int64 { return s.active.Load() }

func (s *Server) filter(err error) error {
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleSession(sess ssh.Session) {
	log := s.log.With("user", sess.User(), "remote", sess.RemoteAddr().String())

	ds, err := NewSession(sess)
	if err != nil {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		log.Warn("session rejected", "error", err)
		_ = sess.Exit(1)
		return
	}

	s.active.Add(1)
	defer s.active.Add(-1)
	log.Info("session connected")

	opts := []frameloop.Option{
		frameloop.WithInterval(s.cfg.Interval),
		frameloop.WithMaxFrames(s.cfg.MaxFrames),
		frameloop.WithLogger(log),
	}
	loop, err := frameloop.New(ds, frameloop.ContextInput(sess.Context(), ds), opts...)
	if err != nil {
		_ = ds.Close()
		io.WriteString(sess, err.Error()+"\n")
		log.Warn("session failed", "error", err)
		_ = sess.Exit(1)
		return
	}

	runErr := loop.Run()
	_ = ds.Close()
	if runErr != nil {
		log.Warn("session ended with error", "error", runErr)
		_ = sess.Exit(1)
		return
	}
	log.Info("session disconnected", "frames", loop.Stats().Frames)
	_ = sess.Exit(0)
}
