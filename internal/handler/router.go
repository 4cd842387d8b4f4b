package handler

import (
	"net/http"

	"github.com/Dan9191/bank-ledger/internal/auth"
	"github.com/Dan9191/bank-ledger/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every route; tokens gates the protected ones
func NewRouter(h *Handler, tokens *auth.TokenIssuer, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger), middleware.Recoverer(logger))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)

	// Protected routes
	users := r.PathPrefix("/users").Subrouter()
	users.Use(middleware.AuthMiddleware(tokens))
	users.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.DeleteUser).Methods(http.MethodDelete)

	accounts := r.PathPrefix("/accounts").Subrouter()
	accounts.Use(middleware.AuthMiddleware(tokens))
	accounts.HandleFunc("", h.ListAccounts).Methods(http.MethodGet)
	accounts.HandleFunc("", h.CreateAccount).Methods(http.MethodPost)
	accounts.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	accounts.HandleFunc("/{id}", h.DeleteAccount).Methods(http.MethodDelete)
	accounts.HandleFunc("/{id}/transactions", h.ListTransactions).Methods(http.MethodGet)

	return r
}
