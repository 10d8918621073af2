package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/sebuszqo/khata/internal/auth"
	"github.com/sebuszqo/khata/internal/bonds"
	"github.com/sebuszqo/khata/internal/config"
	"github.com/sebuszqo/khata/internal/database"
	"github.com/sebuszqo/khata/internal/ledger/application"
	"github.com/sebuszqo/khata/internal/ledger/infrastructure"
	"github.com/sebuszqo/khata/internal/ledger/interfaces"
	"github.com/sebuszqo/khata/internal/middleware"
	"github.com/sebuszqo/khata/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]map[string]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	respondJSON(w, status, payload)
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

type Server struct {
	router        *http.ServeMux
	dbService     *database.DBService
	authService   auth.Service
	authHandler   *auth.Handler
	userHandler   *user.Handler
	ledgerHandler *interfaces.LedgerHandler
	bondHandler   *bonds.Handler
	reconciler    *application.BalanceReconciler
}

// NewServer wires repositories, services and handlers on top of an open database.
func NewServer(cfg *config.Config, dbService *database.DBService) *Server {
	db := dbService.DB

	userService := user.NewUserService(user.NewUserRepository(db))
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL.Duration)
	authService := auth.NewAuthService(userService, jwtManager)

	customerRepo := infrastructure.NewCustomerRepository(db)
	expenseRepo := infrastructure.NewExpenseRepository(db)
	bondService := bonds.NewBondService(bonds.NewBondRepository(db))

	ledgerHandler := interfaces.NewLedgerHandler(
		application.NewCustomerService(customerRepo),
		application.NewExpenseService(expenseRepo, customerRepo),
		application.NewNameService(customerRepo, bondService),
		respondJSON,
		respondError,
	)

	s := &Server{
		router:        http.NewServeMux(),
		dbService:     dbService,
		authService:   authService,
		authHandler:   auth.NewHandler(authService, respondJSON, respondError),
		userHandler:   user.NewHandler(userService, respondJSON, respondError),
		ledgerHandler: ledgerHandler,
		bondHandler:   bonds.NewHandler(bondService, respondJSON, respondError),
		reconciler:    application.NewBalanceReconciler(customerRepo, expenseRepo),
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	health := s.dbService.Health()
	status := http.StatusOK
	ready := "ready"
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
		ready = "not ready"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":   ready,
		"database": health,
	})
}

// protect wraps a handler with JWT authentication and UUID checks for the given path values.
func (s *Server) protect(h http.HandlerFunc, pathParams ...string) http.Handler {
	var next http.Handler = h
	if len(pathParams) > 0 {
		next = middleware.ValidateUUIDPathParams(respondError, pathParams...)(next)
	}
	return s.authService.JWTAccessTokenMiddleware()(next)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile", s.protect(s.userHandler.HandleGetUserProfile))

	// CUSTOMERS & EXPENSES
	protectedRoutes.Handle("POST /api/protected/customers", s.protect(s.ledgerHandler.CreateCustomer))
	protectedRoutes.Handle("GET /api/protected/customers", s.protect(s.ledgerHandler.GetCustomers))
	protectedRoutes.Handle("GET /api/protected/customers/{customerID}",
		s.protect(s.ledgerHandler.GetCustomer, "customerID"))
	protectedRoutes.Handle("DELETE /api/protected/customers/{customerID}",
		s.protect(s.ledgerHandler.DeleteCustomer, "customerID"))
	protectedRoutes.Handle("POST /api/protected/customers/{customerID}/expenses",
		s.protect(s.ledgerHandler.CreateExpense, "customerID"))
	protectedRoutes.Handle("GET /api/protected/customers/{customerID}/expenses",
		s.protect(s.ledgerHandler.GetExpenses, "customerID"))
	protectedRoutes.Handle("DELETE /api/protected/expenses/{expenseID}",
		s.protect(s.ledgerHandler.DeleteExpense, "expenseID"))
	protectedRoutes.Handle("GET /api/protected/names", s.protect(s.ledgerHandler.GetNames))

	// BONDS
	protectedRoutes.Handle("GET /api/protected/bonds", s.protect(s.bondHandler.ListRegistries))
	protectedRoutes.Handle("POST /api/protected/bonds", s.protect(s.bondHandler.CreateRegistry))
	protectedRoutes.Handle("GET /api/protected/bonds/by-customer", s.protect(s.bondHandler.GetRegistryByCustomer))
	protectedRoutes.Handle("GET /api/protected/bonds/categories", s.protect(s.bondHandler.GetCategoryNames))
	protectedRoutes.Handle("GET /api/protected/bonds/{registryID}",
		s.protect(s.bondHandler.GetRegistry, "registryID"))
	protectedRoutes.Handle("PUT /api/protected/bonds/{registryID}",
		s.protect(s.bondHandler.UpdateRegistry, "registryID"))
	protectedRoutes.Handle("DELETE /api/protected/bonds/{registryID}",
		s.protect(s.bondHandler.DeleteRegistry, "registryID"))
	protectedRoutes.Handle("POST /api/protected/bonds/{registryID}/categories",
		s.protect(s.bondHandler.AddCategory, "registryID"))
	protectedRoutes.Handle("PATCH /api/protected/bonds/{registryID}/categories/{index}",
		s.protect(s.bondHandler.UpdateCategory, "registryID"))
	protectedRoutes.Handle("DELETE /api/protected/bonds/{registryID}/categories/{index}",
		s.protect(s.bondHandler.DeleteCategory, "registryID"))
	protectedRoutes.Handle("DELETE /api/protected/bonds/{registryID}/categories/{index}/bonds/{number}",
		s.protect(s.bondHandler.RemoveBond, "registryID"))
	protectedRoutes.Handle("GET /api/protected/bonds/{registryID}/categories/{index}/chips",
		s.protect(s.bondHandler.GetChips, "registryID"))
	protectedRoutes.Handle("GET /api/protected/bonds/{registryID}/categories/{index}/copy",
		s.protect(s.bondHandler.CopyBonds, "registryID"))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}
