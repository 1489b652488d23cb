// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the command builder over SSH using Wish. Every
// session gets a fresh builder model over the same discovered schema; remote
// sessions never relaunch a process, a committed invocation is printed to
// the session instead.
package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"

	"github.com/jrcribb/trogon/internal/issue"
	"github.com/jrcribb/trogon/internal/tui"
	"github.com/jrcribb/trogon/pkg/schema"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated ServerState = iota
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopped indicates the server has stopped (terminal state).
	StateStopped
	// StateFailed indicates the server failed to start (terminal state).
	StateFailed
)

type (
	// ServerState is the lifecycle state of the server.
	ServerState int32

	// Config holds the server's immutable configuration.
	Config struct {
		// Host is the address to bind to.
		Host string
		// Port is the port to listen on (0 auto-selects).
		Port int
		// HostKeyPath is the SSH host key location. Wish generates a key
		// there when the file does not exist.
		HostKeyPath string
		// ShutdownTimeout bounds graceful shutdown.
		ShutdownTimeout time.Duration

		// AppName and Root describe the CLI the builder is served for.
		AppName string
		Root    *schema.CommandSchema
		// DeclaredOrder passes through to each session's serializer.
		DeclaredOrder bool
		// ColorScheme selects each session's palette.
		ColorScheme string

		Logger *log.Logger
	}

	// Server is a single-use wish server: once stopped or failed, create a
	// new instance.
	Server struct {
		cfg   Config
		state atomic.Int32

		mu   sync.Mutex
		srv  *ssh.Server
		addr string
		err  error

		done chan struct{}

		logger *log.Logger
	}
)

// String returns a human-readable state name.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// New validates the configuration and creates a stopped server.
func New(cfg Config) (*Server, error) {
	if cfg.Root == nil {
		return nil, issue.NewContext().
			WithOperation("create builder server").
			WithSuggestion("Discover the command tree before serving it").
			Wrap(errors.New("no command schema provided")).
			BuildError()
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = ".ssh/trogon_ed25519"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		done:   make(chan struct{}),
		logger: logger,
	}, nil
}

// State returns the current lifecycle state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// Addr returns the configured address, empty until Start succeeds.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start binds the listener and serves until Shutdown is called or ctx is
// cancelled. It returns once the server is accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return fmt.Errorf("cannot start server in state %s", s.State())
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(s.cfg.HostKeyPath),
		wish.WithMiddleware(
			s.builderMiddleware(),
			activeterm.Middleware(),
			s.loggingMiddleware(),
		),
	)
	if err != nil {
		s.fail(issue.Wrap(err, "create SSH server"))
		close(s.done)
		return s.terminalErr()
	}

	s.mu.Lock()
	s.srv = srv
	s.addr = addr
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.fail(issue.Wrap(err, "serve SSH sessions"))
			return
		}
		s.state.Store(int32(StateStopped))
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown()
		case <-s.done:
		}
	}()

	s.logger.Info("builder server listening", "address", addr)
	return nil
}

// Wait blocks until the server stops and returns its terminal error, if any.
func (s *Server) Wait() error {
	<-s.done
	return s.terminalErr()
}

// Shutdown stops accepting sessions and drains active ones.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return issue.Wrap(err, "shut down builder server")
	}
	return nil
}

func (s *Server) fail(err error) {
	s.state.Store(int32(StateFailed))
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Server) terminalErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// builderMiddleware runs a fresh builder per session so concurrent users
// never share form state. A committed invocation is echoed back to the
// session since there is no process to replace on the remote side.
func (s *Server) builderMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, _ := sess.Pty()

			m := tui.NewModel(tui.Options{
				AppName:       s.cfg.AppName,
				Root:          s.cfg.Root,
				DeclaredOrder: s.cfg.DeclaredOrder,
				ColorScheme:   s.cfg.ColorScheme,
				Logger:        s.logger.With("remote", sess.RemoteAddr().String()),
			})
			p := tea.NewProgram(m,
				tea.WithInput(sess),
				tea.WithOutput(sess),
				tea.WithAltScreen(),
			)

			go func() {
				p.Send(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})
				for w := range winCh {
					p.Send(tea.WindowSizeMsg{Width: w.Width, Height: w.Height})
				}
			}()

			final, err := p.Run()
			if err != nil {
				s.logger.Error("builder session failed", "err", err)
				next(sess)
				return
			}
			if fm, ok := final.(*tui.Model); ok && fm.Committed() {
				wish.Println(sess, "$ "+fm.Preview().DisplayString)
			}
			next(sess)
		}
	}
}

func (s *Server) loggingMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			start := time.Now()
			s.logger.Info("session opened",
				"user", sess.User(),
				"remote", sess.RemoteAddr().String(),
			)
			next(sess)
			s.logger.Info("session closed",
				"user", sess.User(),
				"duration", time.Since(start),
			)
		}
	}
}
