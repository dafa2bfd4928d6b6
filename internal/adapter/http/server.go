package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/usecase"
)

// Server represents the HTTP server
type Server struct {
	addr   string
	server *http.Server
	log    *logrus.Logger
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Handlers bundles the route handlers mounted by the server.
type Handlers struct {
	Auth      *AuthHandler
	Claims    *ClaimHandler
	Admin     *AdminHandler
	Dashboard *DashboardHandler
}

// NewServer wires the router: public auth and health endpoints, the
// authenticated /api/v1 subtree and the CpdAdmin-only /api/v1/admin subtree.
func NewServer(config ServerConfig, handlers Handlers, tokens usecase.TokenService, log *logrus.Logger) *Server {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	handlers.Auth.RegisterRoutes(router)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(tokens))
	handlers.Claims.RegisterRoutes(api)
	handlers.Dashboard.RegisterRoutes(api)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireRole(domain.RoleCpdAdmin))
	handlers.Admin.RegisterRoutes(admin)

	addr := config.Host + ":" + config.Port
	return &Server{
		addr: addr,
		log:  log,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
