package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	stdhttp "net/http"
	"strings"
	"sync"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/searchktools/fast-dispatch/config"
)

// State is the lifecycle state of a Server
type State int32

const (
	StateIdle State = iota
	StateListening
)

func (s State) String() string {
	if s == StateListening {
		return "listening"
	}
	return "idle"
}

// Server owns the listener and serves a Dispatcher on it
type Server struct {
	cfg        *config.Config
	dispatcher *Dispatcher

	mu    sync.Mutex
	state State
	srv   *stdhttp.Server
	ln    net.Listener
	done  chan error
}

// NewServer creates an idle server. A nil cfg uses config.Default and a nil
// dispatcher gets a fresh one.
func NewServer(cfg *config.Config, d *Dispatcher) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if d == nil {
		d = NewDispatcher()
	}
	return &Server{
		cfg:        cfg,
		dispatcher: d,
	}
}

// Dispatcher returns the dispatcher for route and middleware registration
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Logger returns the dispatcher's logger
func (s *Server) Logger() Logger {
	return s.dispatcher.Logger()
}

// State returns the current lifecycle state
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address, or nil when idle
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Start binds the configured address and begins serving in the background.
// It returns once the bind succeeded.
func (s *Server) Start(ctx context.Context) (*Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateListening {
		return nil, ErrAlreadyStarted
	}

	lc := net.ListenConfig{Control: listenControl(s.cfg)}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}

	logger := s.dispatcher.Logger()
	srv := &stdhttp.Server{
		Handler:      s.handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     log.New(logWriter(logger), "", 0),
	}

	done := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, stdhttp.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()

	s.srv, s.ln, s.done = srv, ln, done
	s.state = StateListening

	proto := "http/1.1"
	if s.cfg.H2C {
		proto += ", h2c"
	}
	logger("Server listening on %s [%s] (%s)", ln.Addr(), s.cfg.Env, proto)

	return s, nil
}

func (s *Server) handler() stdhttp.Handler {
	var h stdhttp.Handler = s.dispatcher
	if s.cfg.H2C {
		h2 := &http2.Server{IdleTimeout: s.cfg.IdleTimeout}
		h = h2c.NewHandler(h, h2)
	}
	return h
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx is done. Stopping a server that is not listening, including one
// that was already stopped, returns ErrNotStarted.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateListening {
		return ErrNotStarted
	}

	srv, done := s.srv, s.done
	s.srv, s.ln, s.done = nil, nil, nil
	s.state = StateIdle

	if err := srv.Shutdown(ctx); err != nil {
		srv.Close()
		<-done
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-done; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	s.dispatcher.Logger()("Server stopped")
	return nil
}

// logWriter adapts a Logger to the io.Writer log.Logger needs
type logWriter Logger

func (w logWriter) Write(p []byte) (int, error) {
	w("%s", strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
