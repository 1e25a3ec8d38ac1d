// Package app wires the studyhall runtime and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/louisbranch/studyhall/internal/api/rest"
	"github.com/louisbranch/studyhall/internal/auth"
	"github.com/louisbranch/studyhall/internal/platform/config"
	"github.com/louisbranch/studyhall/internal/service"
	"github.com/louisbranch/studyhall/internal/storage/sqlite"
)

// Env is the process configuration read from the environment.
type Env struct {
	Port        int           `env:"STUDYHALL_PORT" envDefault:"8080"`
	DBPath      string        `env:"STUDYHALL_DB_PATH"`
	TokenSecret string        `env:"STUDYHALL_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"STUDYHALL_TOKEN_TTL" envDefault:"24h"`
	CORSOrigins []string      `env:"STUDYHALL_CORS_ORIGINS" envSeparator:","`
}

// LoadEnv reads the process configuration, applying defaults.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := config.ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "studyhall.db")
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return Env{}, fmt.Errorf("STUDYHALL_TOKEN_SECRET is required")
	}
	return cfg, nil
}

// Server hosts the studyhall HTTP API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
	logger     *slog.Logger
}

// New creates a configured server listening on the env port.
func New(env Env, logger *slog.Logger) (*Server, error) {
	return NewWithAddr(env, fmt.Sprintf(":%d", env.Port), logger)
}

// NewWithAddr creates a configured server for the provided address.
func NewWithAddr(env Env, addr string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	tokens, err := auth.NewManager(env.TokenSecret, env.TokenTTL)
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, err
	}

	handler := rest.NewHandler(rest.Config{
		Members:      service.NewMemberService(store),
		Courses:      service.NewCourseService(store),
		Sessions:     service.NewSessionService(store),
		Participants: service.NewParticipantService(store),
		Attendance:   service.NewAttendanceService(store),
		Tokens:       tokens,
		Logger:       logger,
	})

	corsOptions := cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	if len(env.CORSOrigins) > 0 {
		corsOptions.AllowedOrigins = env.CORSOrigins
	}

	httpServer := &http.Server{
		Handler:           cors.New(corsOptions).Handler(handler.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		listener:   listener,
		httpServer: httpServer,
		store:      store,
		logger:     logger,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a server until context cancellation.
func Run(ctx context.Context, env Env, logger *slog.Logger) error {
	server, err := New(env, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	s.logger.Info("server listening", "addr", s.listener.Addr().String())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return store, nil
}
