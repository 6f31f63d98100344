package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/dockspace/internal/api/handler"
	mw "github.com/edvin/dockspace/internal/api/middleware"
	"github.com/edvin/dockspace/internal/config"
	"github.com/edvin/dockspace/internal/core"
	"github.com/edvin/dockspace/internal/dms"
)

type Server struct {
	router      chi.Router
	logger      zerolog.Logger
	services    *core.Services
	pool        *pgxpool.Pool
	syncer      *dms.Syncer
	cfg         *config.Config
	auditLogger *mw.AuditLogger
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, cfg *config.Config) *Server {
	services := core.NewServices(pool)
	syncer := dms.NewSyncer(services.DMSStore, cfg.DMSOutputDir, logger)
	auditLogger := mw.NewAuditLogger(pool, logger)

	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		services:    services,
		pool:        pool,
		syncer:      syncer,
		cfg:         cfg,
		auditLogger: auditLogger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.pool))
		r.Use(s.auditLogger.Middleware)

		exp := handler.NewExporter(s.syncer, s.logger)

		// Mail accounts
		account := handler.NewMailAccount(s.services.MailAccount, exp)
		r.Get("/accounts", account.List)
		r.Post("/accounts", account.Create)
		r.Get("/accounts/{id}", account.Get)
		r.Put("/accounts/{id}", account.Update)
		r.Put("/accounts/{id}/password", account.SetPassword)
		r.Delete("/accounts/{id}", account.Delete)

		// Aliases
		alias := handler.NewMailAlias(s.services.MailAlias, exp)
		r.Get("/accounts/{id}/aliases", alias.ListByAccount)
		r.Post("/accounts/{id}/aliases", alias.Create)
		r.Get("/aliases", alias.List)
		r.Get("/aliases/{aliasID}", alias.Get)
		r.Delete("/aliases/{aliasID}", alias.Delete)

		// Quotas
		quota := handler.NewMailQuota(s.services.MailQuota, exp)
		r.Get("/accounts/{id}/quota", quota.Get)
		r.Put("/accounts/{id}/quota", quota.Put)
		r.Delete("/accounts/{id}/quota", quota.Delete)
		r.Get("/quotas", quota.List)

		// Groups
		group := handler.NewMailGroup(s.services.MailGroup)
		r.Get("/groups", group.List)
		r.Post("/groups", group.Create)
		r.Get("/groups/{id}/members", group.ListMembers)
		r.Post("/groups/{id}/members", group.AddMember)
		r.Delete("/groups/{id}/members/{accountID}", group.RemoveMember)
		r.Delete("/groups/{id}", group.Delete)

		// DMS file synchronization
		dmsHandler := handler.NewDMS(s.syncer)
		r.Post("/dms/export", dmsHandler.Export)
		r.Post("/dms/scan", dmsHandler.Scan)

		// Audit trail
		audit := handler.NewAudit(s.pool)
		r.Get("/audit-logs", audit.List)
		r.Get("/drift-reports", audit.ListDrift)

		// API keys
		apiKey := handler.NewAPIKey(s.services.APIKey)
		r.Get("/api-keys", apiKey.List)
		r.Post("/api-keys", apiKey.Create)
		r.Delete("/api-keys/{id}", apiKey.Revoke)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close flushes the async audit writer.
func (s *Server) Close() {
	s.auditLogger.Close()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(checks)
}
