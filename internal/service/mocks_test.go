package service_test

import (
	"context"
	"time"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockApprovalRequestRepo
type MockApprovalRequestRepo struct {
	mock.Mock
}

func (m *MockApprovalRequestRepo) GetByID(ctx context.Context, id int32) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalRequestRepo) ListByOrg(ctx context.Context, orgID int32) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalRequestRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockApprovalRequestRepo) DeleteProcessed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOutcomeRepo
type MockOutcomeRepo struct {
	mock.Mock
}

func (m *MockOutcomeRepo) Claim(ctx context.Context, o *domain.ApprovalOutcome) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}
func (m *MockOutcomeRepo) Get(ctx context.Context, approvalID int32) (*domain.ApprovalOutcome, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalOutcome), args.Error(1)
}
func (m *MockOutcomeRepo) SetFlat(ctx context.Context, approvalID, flatID int32) error {
	args := m.Called(ctx, approvalID, flatID)
	return args.Error(0)
}
func (m *MockOutcomeRepo) DeleteDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockFlatRepo
type MockFlatRepo struct {
	mock.Mock
}

func (m *MockFlatRepo) FindByNumber(ctx context.Context, buildingNumberID int32, flatNumber string) (*domain.Flat, error) {
	args := m.Called(ctx, buildingNumberID, flatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flat), args.Error(1)
}
func (m *MockFlatRepo) Create(ctx context.Context, flat *domain.Flat) error {
	args := m.Called(ctx, flat)
	return args.Error(0)
}

// MockRoleRepo
type MockRoleRepo struct {
	mock.Mock
}

func (m *MockRoleRepo) ListByName(ctx context.Context, name string, limit int) ([]domain.Role, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

// MockMembershipRepo
type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) Create(ctx context.Context, link *domain.MembershipLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}
func (m *MockMembershipRepo) GetByUserAndOrg(ctx context.Context, userID, orgID int32) (*domain.MembershipLink, error) {
	args := m.Called(ctx, userID, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipLink), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockUserRepo) GetByAuthID(ctx context.Context, authID string) (*domain.Profile, error) {
	args := m.Called(ctx, authID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApprovalNotification(ctx context.Context, email, name, orgName string) error {
	args := m.Called(ctx, email, name, orgName)
	return args.Error(0)
}
func (m *MockEmailService) SendRejectionNotification(ctx context.Context, email, name, orgName string) error {
	args := m.Called(ctx, email, name, orgName)
	return args.Error(0)
}

// MockRevalidator
type MockRevalidator struct {
	mock.Mock
}

func (m *MockRevalidator) Revalidate(ctx context.Context, paths ...string) error {
	args := m.Called(ctx, paths)
	return args.Error(0)
}

// fakeUnitOfWork hands out mocks and runs savepoints inline.
type fakeUnitOfWork struct {
	requests   *MockApprovalRequestRepo
	outcomes   *MockOutcomeRepo
	flats      repository.FlatRepository
	roles      *MockRoleRepo
	members    *MockMembershipRepo
	savepoints []string
}

func (u *fakeUnitOfWork) ApprovalRequests() repository.ApprovalRequestRepository { return u.requests }
func (u *fakeUnitOfWork) Outcomes() repository.ApprovalOutcomeRepository         { return u.outcomes }
func (u *fakeUnitOfWork) Flats() repository.FlatRepository                       { return u.flats }
func (u *fakeUnitOfWork) Roles() repository.RoleRepository                       { return u.roles }
func (u *fakeUnitOfWork) Memberships() repository.MembershipRepository           { return u.members }
func (u *fakeUnitOfWork) Savepoint(ctx context.Context, name string, fn func() error) error {
	u.savepoints = append(u.savepoints, name)
	return fn()
}

// fakeTransactor records whether the unit of work committed or rolled back.
type fakeTransactor struct {
	uow        *fakeUnitOfWork
	committed  int
	rolledBack int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := fn(f.uow); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

func (f *fakeTransactor) calls() int {
	return f.committed + f.rolledBack
}
