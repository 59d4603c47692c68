// Package http exposes the finance service as a JSON REST API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/log"
	"fintrack/internal/services"
)

// Pinger reports storage health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	svc    *services.FinanceService
	pinger Pinger
	logger *log.Logger
	srv    *http.Server
}

func NewServer(port string, corsOrigins []string, svc *services.FinanceService, pinger Pinger, logger *log.Logger) *Server {
	s := &Server{
		svc:    svc,
		pinger: pinger,
		logger: logger.WithComponent(log.ComponentHTTP),
	}
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.routes(corsOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(log.RequestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleAddTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleAddAccount)
			r.Put("/{id}", s.handleUpdateAccount)
			r.Delete("/{id}", s.handleDeleteAccount)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Post("/", s.handleAddCard)
			r.Put("/{id}", s.handleUpdateCard)
			r.Delete("/{id}", s.handleDeleteCard)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", s.handleListWallets)
			r.Post("/", s.handleAddWallet)
			r.Put("/{id}", s.handleUpdateWallet)
			r.Delete("/{id}", s.handleDeleteWallet)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", s.handleListLoans)
			r.Post("/", s.handleAddLoan)
			r.Put("/{id}", s.handleUpdateLoan)
			r.Delete("/{id}", s.handleDeleteLoan)
			r.Post("/{id}/payments", s.handleLoanPayment)
			r.Get("/{id}/projection", s.handleLoanProjection)
		})

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", s.handleListInvestments)
			r.Post("/", s.handleAddInvestment)
			r.Put("/{id}", s.handleUpdateInvestment)
			r.Delete("/{id}", s.handleDeleteInvestment)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Put("/", s.handleSetBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
			r.Get("/performance", s.handleBudgetPerformance)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", s.handleDashboardSummary)
			r.Get("/breakdown", s.handleBreakdown)
			r.Get("/trend", s.handleTrend)
		})

		r.Get("/notifications", s.handleNotifications)
		r.Get("/insights", s.handleInsights)
		r.Post("/insights/refresh", s.handleRefreshInsights)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/notifications", s.handleGetPreferences)
			r.Put("/notifications", s.handleUpdatePreferences)
			r.Get("/categories", s.handleGetCategories)
			r.Post("/categories", s.handleAddSubCategory)
			r.Put("/categories", s.handleRenameSubCategory)
			r.Delete("/categories", s.handleDeleteSubCategory)
		})

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)

		r.Get("/snapshot", s.handleSnapshot)
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.srv.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}
