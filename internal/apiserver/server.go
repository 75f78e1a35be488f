package apiserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
)

// Server is the kubesim REST API server. It exposes generic CRUD endpoints
// over the cluster's verb set. The cluster itself takes no lock, so the
// server serialises every handler with its own mutex.
type Server struct {
	mu      sync.Mutex
	router  *mux.Router
	cluster *cluster.Cluster
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a fully-wired Server ready to Start().
func NewServer(addr string, c *cluster.Cluster, logger *zap.Logger) *Server {
	srv := &Server{
		router:  mux.NewRouter(),
		cluster: c,
		logger:  logger,
	}
	srv.server = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	srv.registerRoutes()
	return srv
}

// Start begins listening and serving HTTP requests. It blocks until the
// server is shut down or encounters a fatal error.
func (s *Server) Start() error {
	s.logger.Info("API server starting", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}
