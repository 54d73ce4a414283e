// Package api exposes the rotation ledger operations over HTTP JSON.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Ashraf7ussein/RoscaBackend/internal/auth"
	"github.com/Ashraf7ussein/RoscaBackend/internal/metrics"
	"github.com/Ashraf7ussein/RoscaBackend/internal/service"
)

// API bundles the router with the services it dispatches to.
type API struct {
	router *mux.Router
	groups *service.GroupService
	auth   *service.AuthService
	jwt    *auth.JWTManager
}

// New creates the API and registers all routes.
func New(groups *service.GroupService, authSvc *service.AuthService, jwt *auth.JWTManager) *API {
	a := &API{
		router: mux.NewRouter(),
		groups: groups,
		auth:   authSvc,
		jwt:    jwt,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(loggingMiddleware, metrics.Middleware)

	a.router.Handle("/metrics", metrics.Handler()).Methods("GET")
	a.router.HandleFunc("/api/auth/register", a.handleRegister).Methods("POST")
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("POST")

	// Everything below requires a session token.
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/roscas", a.handleCreate).Methods("POST")
	protected.HandleFunc("/roscas/join", a.handleJoin).Methods("POST")
	protected.HandleFunc("/users/{id}/roscas", a.handleListByUser).Methods("GET")
	protected.HandleFunc("/roscas/{id}", a.handleGet).Methods("GET")
	protected.HandleFunc("/roscas/{id}", a.handleUpdateSchedule).Methods("PUT")
	protected.HandleFunc("/roscas/{id}/status", a.handleSetStatus).Methods("PATCH")
	protected.HandleFunc("/roscas/{id}/members/{userId}/status", a.handleSetMemberStatus).Methods("POST")
	protected.HandleFunc("/roscas/{id}/members/{userId}", a.handleRemoveMember).Methods("DELETE")
	protected.HandleFunc("/roscas/{id}/admin", a.handleTransferAdmin).Methods("POST")
	protected.HandleFunc("/roscas/{id}/settle", a.handleSettle).Methods("POST")
}

// Handler returns the full handler chain, CORS included.
func (a *API) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(a.router)
}
