package http

import (
	"net/http"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/service"

	"github.com/gorilla/mux"
)

// ApprovalHandler exposes the membership approval workflow as form actions.
type ApprovalHandler struct {
	approvals service.ApprovalService
}

func NewApprovalHandler(approvals service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

type listResponse struct {
	Requests []domain.ApprovalRequest `json:"requests"`
}

type outcomeResponse struct {
	Outcome *domain.ApprovalOutcome `json:"outcome"`
}

// Approve handles POST /approvals/approve.
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	in, err := parseApproveForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.approvals.Approve(r.Context(), ActorFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, r, msg)
}

// Reject handles POST /approvals/reject.
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	approvalID, err := requiredID(r, "approval_id", "Approval ID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.approvals.Reject(r.Context(), ActorFromContext(r.Context()), approvalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, r, msg)
}

// ListPending handles GET /orgs/{orgID}/approvals.
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseID(mux.Vars(r)["orgID"], "Organization ID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	reqs, err := h.approvals.ListPending(r.Context(), ActorFromContext(r.Context()), orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.ApprovalRequest{}
	}
	writeJSON(w, r, http.StatusOK, listResponse{Requests: reqs})
}

// GetOutcome handles GET /approvals/{approvalID}/outcome.
func (h *ApprovalHandler) GetOutcome(w http.ResponseWriter, r *http.Request) {
	approvalID, err := parseID(mux.Vars(r)["approvalID"], "Approval ID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	outcome, err := h.approvals.GetOutcome(r.Context(), ActorFromContext(r.Context()), approvalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, outcomeResponse{Outcome: outcome})
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func parseApproveForm(w http.ResponseWriter, r *http.Request) (service.ApproveInput, error) {
	var in service.ApproveInput
	if err := parseForm(w, r); err != nil {
		return in, err
	}

	var err error
	if in.ApprovalID, err = requiredID(r, "approval_id", "Approval ID"); err != nil {
		return in, err
	}
	if in.UserID, err = requiredID(r, "user_id", "User ID"); err != nil {
		return in, err
	}
	if in.OrganisationID, err = requiredID(r, "organisation_id", "Organization ID"); err != nil {
		return in, err
	}
	if in.BuildingNumberID, err = optionalID(r, "building_number_id", "Building number ID"); err != nil {
		return in, err
	}
	in.Flat = optionalString(r, "flat")
	return in, nil
}
