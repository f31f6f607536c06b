package service

import (
	"context"

	"facility-admin-backend/internal/domain"
)

// User-facing confirmation messages.
const (
	MsgApproved = "User approved and linked to organization."
	MsgRejected = "Request rejected."
)

// ApproveInput carries the approve form fields after parsing.
type ApproveInput struct {
	ApprovalID       int32
	UserID           int32
	OrganisationID   int32
	BuildingNumberID *int32
	Flat             *string
}

type ApprovalService interface {
	Approve(ctx context.Context, actor *domain.Profile, in ApproveInput) (string, error)
	Reject(ctx context.Context, actor *domain.Profile, approvalID int32) (string, error)
	ListPending(ctx context.Context, actor *domain.Profile, orgID int32) ([]domain.ApprovalRequest, error)
	GetOutcome(ctx context.Context, actor *domain.Profile, approvalID int32) (*domain.ApprovalOutcome, error)
}

type SessionService interface {
	// Authenticate resolves a session token into the caller's profile.
	Authenticate(ctx context.Context, token string) (*domain.Profile, error)
}

type EmailService interface {
	SendApprovalNotification(ctx context.Context, email, name, orgName string) error
	SendRejectionNotification(ctx context.Context, email, name, orgName string) error
}

// Revalidator invalidates cached dashboard pages after a mutation.
type Revalidator interface {
	Revalidate(ctx context.Context, paths ...string) error
}

type MaintenanceService interface {
	// PurgeProcessed removes stale processed requests and outcomes older than retentionDays.
	PurgeProcessed(ctx context.Context, retentionDays int) (requests int64, outcomes int64, err error)
}
