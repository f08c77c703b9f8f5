package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server wraps the HTTP listener with graceful shutdown.
type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer creates the HTTP server around the given router.
func NewServer(cfg ServerConfig, router http.Handler, logger *zap.Logger) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}

	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Run serves until the listener fails or Stop is called.
func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// NewRouter assembles the route tree. Everything under /v1 except the admin
// group sits behind the enforcement middleware; the webhook and operational
// endpoints authenticate by other means or not at all.
func NewRouter(h *Handler, enforcement *Enforcement, admin *AdminAuth, webhook *WebhookHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated by HMAC signature, not by bearer token.
	r.Post("/webhooks/identity", webhook.ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(enforcement.Middleware)

			r.Get("/users/{id}", h.handleGetUser)
			r.Get("/users", h.handleSearchUsers)

			r.Post("/account/password", h.handleChangePassword)
			r.Post("/account/email", h.handleChangeEmail)
			r.Post("/account/logout-all", h.handleLogoutEverywhere)
			r.Delete("/account", h.handleDeleteAccount)
			r.Get("/account/security-status", h.handleSecurityStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin.Middleware)

			r.Post("/admin/users/{id}/force-logout", h.handleForceLogout)
			r.Delete("/admin/users/{id}/revocation", h.handleClearRevocation)
		})
	})

	return r
}
