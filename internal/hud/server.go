package hud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/sim"
)

const (
	writeWait    = 5 * time.Second
	shutdownWait = 2 * time.Second
)

// Source is the simulation side of the HUD: the latest published snapshot
// and a queue for debug commands.
type Source interface {
	Latest() *sim.Snapshot
	Enqueue(cmd sim.Command) error
}

// Server streams simulation snapshots to websocket clients and accepts
// debug commands from them.
type Server struct {
	cfg      config.HUD
	src      Source
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
	sessions map[*session]struct{}

	clients atomic.Int32
}

// NewServer creates a HUD server over src.
func NewServer(cfg config.HUD, src Source) *Server {
	if cfg.Interval <= 0 {
		cfg.Interval = 250 * time.Millisecond
	}
	return &Server{
		cfg: cfg,
		src: src,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[*session]struct{}),
	}
}

// Handler returns the HTTP routes: /ws for the stream and /snapshot for a one-off JSON view.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	return mux
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	return int(s.clients.Load())
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled. Used for testing with custom listeners.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		s.closeSessions()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("hud shutdown", "error", err)
		}
	}()

	slog.Info("hud server started", "address", ln.Addr(), "interval", s.cfg.Interval)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving hud: %w", err)
	}
	return nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.src.Latest()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Debug("writing snapshot", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("hud upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(conn, s.src)
	s.track(sess)
	defer s.untrack(sess)

	slog.Info("hud client connected", "remote", r.RemoteAddr, "clients", s.Clients())
	sess.run(r.Context(), s.cfg.Interval)
	slog.Info("hud client disconnected", "remote", r.RemoteAddr, "clients", s.Clients()-1)
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	s.clients.Add(1)
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
	s.clients.Add(-1)
}

// closeSessions closes hijacked websocket connections, which http.Server.Shutdown does not track.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		sess.close()
	}
}
