package repository

import (
	"context"
	"errors"
	"time"

	"facility-admin-backend/internal/domain"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Profile, error)
	GetByAuthID(ctx context.Context, authID string) (*domain.Profile, error)
}

type OrganizationRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
}

type ApprovalRequestRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.ApprovalRequest, error)
	ListByOrg(ctx context.Context, orgID int32) ([]domain.ApprovalRequest, error)
	// Delete removes the request. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int32) error
	// DeleteProcessed removes requests that already have a recorded outcome.
	DeleteProcessed(ctx context.Context) (int64, error)
}

type ApprovalOutcomeRepository interface {
	// Claim inserts the outcome unless one already exists for the approval id.
	// It reports whether this call created the row.
	Claim(ctx context.Context, outcome *domain.ApprovalOutcome) (bool, error)
	Get(ctx context.Context, approvalID int32) (*domain.ApprovalOutcome, error)
	SetFlat(ctx context.Context, approvalID, flatID int32) error
	DeleteDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type FlatRepository interface {
	FindByNumber(ctx context.Context, buildingNumberID int32, flatNumber string) (*domain.Flat, error)
	// Create inserts the flat and sets its ID. A concurrently created row with
	// the same (building number, flat number) is returned instead of a duplicate.
	Create(ctx context.Context, flat *domain.Flat) error
}

type RoleRepository interface {
	ListByName(ctx context.Context, name string, limit int) ([]domain.Role, error)
}

type MembershipRepository interface {
	Create(ctx context.Context, link *domain.MembershipLink) error
	GetByUserAndOrg(ctx context.Context, userID, orgID int32) (*domain.MembershipLink, error)
}

// UnitOfWork exposes the repositories bound to one open transaction.
type UnitOfWork interface {
	ApprovalRequests() ApprovalRequestRepository
	Outcomes() ApprovalOutcomeRepository
	Flats() FlatRepository
	Roles() RoleRepository
	Memberships() MembershipRepository
	// Savepoint runs fn inside a savepoint. When fn fails the transaction is
	// rolled back to the savepoint and stays usable; fn's error is returned.
	Savepoint(ctx context.Context, name string, fn func() error) error
}

type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
