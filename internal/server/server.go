// Package server exposes the tool registry and the chat orchestrator over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/HexSleeves/hrchat/internal/chat"
	"github.com/HexSleeves/hrchat/internal/config"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/logging"
	"github.com/HexSleeves/hrchat/internal/tools"
)

// Chatter runs one chat turn.
type Chatter interface {
	Chat(ctx context.Context, message string, history []chat.HistoryMessage) (*chat.Result, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the tools and chat over HTTP.
type Server struct {
	cfg      config.ServerConfig
	executor *tools.Executor
	chat     Chatter
	db       Pinger
	logger   *slog.Logger
	now      func() time.Time
}

// New wires the HTTP layer. chatter and db may be nil: /chat then answers
// chat_error and /ready skips the database check.
func New(cfg config.ServerConfig, executor *tools.Executor, chatter Chatter, db Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		cfg:      cfg,
		executor: executor,
		chat:     chatter,
		db:       db,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/tools/list", s.handleToolsList)
	r.Post("/tools/list", s.handleToolsList)
	r.Post("/tools/call", s.handleToolsCall)
	r.Post("/chat", s.handleChat)
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for at most server.shutdown_timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down http server", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    hrerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err in the {"error":{"code","message"}} envelope.
// Errors without a code are reported under fallback.
func writeError(w http.ResponseWriter, err error, fallback hrerrors.Code) {
	code := hrerrors.CodeOf(err, fallback)
	writeJSON(w, hrerrors.HTTPStatus(code), errorBody{Error: errorDetail{
		Code:    code,
		Message: hrerrors.MessageOf(err),
	}})
}
