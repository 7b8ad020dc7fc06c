package server

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator"
	"github.com/doodlesbykumbi/client-project-manager/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/client-project-manager/pkg/config"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/middleware"
	"github.com/doodlesbykumbi/client-project-manager/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/client-project-manager/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/client-project-manager/pkg/token"
)

// Version is reported by the status endpoint. Overridden at build time with
// -ldflags "-X github.com/doodlesbykumbi/client-project-manager/pkg/server.Version=..."
var Version = "0.1.0"

type Server struct {
	Router         *mux.Router
	DB             *gorm.DB
	Tokens         *token.Issuer
	Authenticators *authenticator.Registry
	Metrics        *middleware.Metrics
	Registry       *prometheus.Registry

	ClientsStore  store.ClientsStore
	ProjectsStore store.ProjectsStore
	UsersStore    store.UsersStore
	HealthStore   store.HealthStore

	cfg atomic.Pointer[config.Config]
	srv *http.Server
}

// NewServer wires the GORM stores, the password authenticator and the
// metrics registry around db.
func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	tokens *token.Issuer,
	host string,
	port string,
) *Server {
	s := New(cfg, tokens)
	s.DB = db
	s.ClientsStore = gormstore.NewClientsStore(db)
	s.ProjectsStore = gormstore.NewProjectsStore(db)
	s.UsersStore = gormstore.NewUsersStore(db)
	s.HealthStore = gormstore.NewHealthStore(db)

	s.Authenticators.Register(authn.New(s.UsersStore, s.HealthStore))
	_ = s.Authenticators.Enable(authn.Name)

	s.srv = &http.Server{
		Handler:           s.Handler(),
		Addr:              host + ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// New creates a server with a fresh router and metrics registry but no
// stores. Tests fill in the stores they need.
func New(cfg *config.Config, tokens *token.Issuer) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := mux.NewRouter()
	metrics := middleware.NewMetrics(reg)
	router.Use(metrics.Middleware)

	s := &Server{
		Router:         router,
		Tokens:         tokens,
		Authenticators: authenticator.NewRegistry(),
		Metrics:        metrics,
		Registry:       reg,
	}
	s.SetConfig(cfg)
	return s
}

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	return s.cfg.Load()
}

// SetConfig swaps the configuration seen by handlers, e.g. after a reload.
func (s *Server) SetConfig(cfg *config.Config) {
	s.cfg.Store(cfg)
}

// Handler returns the router wrapped in the outer middleware chain:
// panic recovery, request ids and the combined access log.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	h = middleware.RequestID(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return h
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	if s.srv == nil {
		return ""
	}
	return s.srv.Addr
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
