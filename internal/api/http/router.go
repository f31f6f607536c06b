package http

import (
	"net/http"

	"facility-admin-backend/internal/config"
	"facility-admin-backend/internal/domain"

	"github.com/gorilla/mux"
)

// NewRouter registers the /api/v1 routes. Route names key the security table.
func NewRouter(cfg config.ServerConfig, approvals *ApprovalHandler, auth *Authenticator) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, domain.NewNotFoundError("Not found."))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, domain.Result{Error: "Method not allowed."})
	})

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/healthz", Health).Methods(http.MethodGet).Name("health")
	api.HandleFunc("/approvals/approve", approvals.Approve).Methods(http.MethodPost).Name("approve-request")
	api.HandleFunc("/approvals/reject", approvals.Reject).Methods(http.MethodPost).Name("reject-request")
	api.HandleFunc("/orgs/{orgID}/approvals", approvals.ListPending).Methods(http.MethodGet).Name("list-requests")
	api.HandleFunc("/approvals/{approvalID}/outcome", approvals.GetOutcome).Methods(http.MethodGet).Name("get-outcome")

	api.Use(auth.Middleware)
	if cfg.CSRFKey != "" {
		api.Use(CSRF(cfg))
	}

	return RequestID(Recover(router))
}
