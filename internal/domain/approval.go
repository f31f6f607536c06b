package domain

// ApprovalRequest is a pending ask by a user to join an organisation.
// The row only exists while the request is pending.
type ApprovalRequest struct {
	ID               int32   `json:"id"`
	UserID           int32   `json:"user_id"`
	OrgID            int32   `json:"org_id"`
	BuildingNumberID *int32  `json:"building_number_id,omitempty"`
	FlatLabel        *string `json:"flat,omitempty"`
	CreatedOn        string  `json:"created_on"`
}

type ApprovalOutcomeKind string

const (
	ApprovalOutcomeApproved ApprovalOutcomeKind = "APPROVED"
	ApprovalOutcomeRejected ApprovalOutcomeKind = "REJECTED"
)

// ApprovalOutcome records how a processed request was resolved. Keyed by the
// approval id, it also serves as the idempotency key for re-invocation.
type ApprovalOutcome struct {
	ApprovalID int32               `json:"approval_id"`
	Outcome    ApprovalOutcomeKind `json:"outcome"`
	UserID     int32               `json:"user_id"`
	OrgID      int32               `json:"org_id"`
	FlatID     *int32              `json:"flat_id,omitempty"`
	DecidedBy  int32               `json:"decided_by"`
	DecidedOn  string              `json:"decided_on"`
}
