package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	httpapi "facility-admin-backend/internal/api/http"
	"facility-admin-backend/internal/config"
	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Approve(ctx context.Context, actor *domain.Profile, in service.ApproveInput) (string, error) {
	args := m.Called(ctx, actor, in)
	return args.String(0), args.Error(1)
}
func (m *MockApprovalService) Reject(ctx context.Context, actor *domain.Profile, approvalID int32) (string, error) {
	args := m.Called(ctx, actor, approvalID)
	return args.String(0), args.Error(1)
}
func (m *MockApprovalService) ListPending(ctx context.Context, actor *domain.Profile, orgID int32) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, actor, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}
func (m *MockApprovalService) GetOutcome(ctx context.Context, actor *domain.Profile, approvalID int32) (*domain.ApprovalOutcome, error) {
	args := m.Called(ctx, actor, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalOutcome), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Authenticate(ctx context.Context, token string) (*domain.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

const (
	testToken  = "session-token"
	testCookie = "session"
)

var testActor = &domain.Profile{UserID: 1, Name: "Admin", IsPlatformAdmin: true}

func newTestRouter(cfg config.ServerConfig) (http.Handler, *MockApprovalService, *MockSessionService) {
	approvals := new(MockApprovalService)
	sessions := new(MockSessionService)
	router := httpapi.NewRouter(cfg, httpapi.NewApprovalHandler(approvals), httpapi.NewAuthenticator(sessions, testCookie))
	return router, approvals, sessions
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) domain.Result {
	t.Helper()
	var res domain.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

func TestApprove_Success(t *testing.T) {
	router, approvals, sessions := newTestRouter(config.ServerConfig{})
	sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()

	want := service.ApproveInput{ApprovalID: 10, UserID: 5, OrganisationID: 2}
	bn := int32(7)
	flat := " b 12 "
	want.BuildingNumberID = &bn
	want.Flat = &flat
	approvals.On("Approve", mock.Anything, testActor, want).Return(service.MsgApproved, nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postForm("/api/v1/approvals/approve", url.Values{
		"approval_id":        {"10"},
		"user_id":            {"5"},
		"organisation_id":    {"2"},
		"building_number_id": {"7"},
		"flat":               {" b 12 "},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"User approved and linked to organization."}`, rr.Body.String())
	_, err := uuid.Parse(rr.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
	approvals.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestApprove_BlankOptionalFieldsAreAbsent(t *testing.T) {
	router, approvals, sessions := newTestRouter(config.ServerConfig{})
	sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()
	approvals.On("Approve", mock.Anything, testActor, service.ApproveInput{ApprovalID: 10, UserID: 5, OrganisationID: 2}).
		Return(service.MsgApproved, nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postForm("/api/v1/approvals/approve", url.Values{
		"approval_id":        {"10"},
		"user_id":            {"5"},
		"organisation_id":    {"2"},
		"building_number_id": {""},
		"flat":               {""},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	approvals.AssertExpectations(t)
}

func TestApprove_InvalidForm(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantErr string
	}{
		{"MissingApprovalID", url.Values{"user_id": {"5"}, "organisation_id": {"2"}}, "Approval ID is required."},
		{"NonNumericUserID", url.Values{"approval_id": {"10"}, "user_id": {"abc"}, "organisation_id": {"2"}}, "User ID must be a positive integer."},
		{"ZeroOrganisationID", url.Values{"approval_id": {"10"}, "user_id": {"5"}, "organisation_id": {"0"}}, "Organization ID must be a positive integer."},
		{"NonNumericBuildingNumber", url.Values{"approval_id": {"10"}, "user_id": {"5"}, "organisation_id": {"2"}, "building_number_id": {"x"}, "flat": {"A1"}}, "Building number ID must be a positive integer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, approvals, sessions := newTestRouter(config.ServerConfig{})
			sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, postForm("/api/v1/approvals/approve", tt.form))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, domain.Result{Error: tt.wantErr}, decodeResult(t, rr))
			approvals.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestApprove_ErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Validation", domain.NewValidationError("Flat number is required."), http.StatusBadRequest},
		{"Configuration", domain.NewConfigurationError("System configuration error: 'member' role not found."), http.StatusInternalServerError},
		{"Persistence", domain.NewPersistenceError("Failed to link user to organization", assert.AnError), http.StatusInternalServerError},
		{"Forbidden", domain.NewForbiddenError("You are not allowed to manage this organization."), http.StatusForbidden},
		{"Conflict", domain.NewConflictError("Request was already rejected.", nil), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, approvals, sessions := newTestRouter(config.ServerConfig{})
			sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()
			approvals.On("Approve", mock.Anything, testActor, mock.Anything).Return("", tt.err).Once()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, postForm("/api/v1/approvals/approve", url.Values{
				"approval_id": {"10"}, "user_id": {"5"}, "organisation_id": {"2"},
			}))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, domain.Result{Error: tt.err.Error()}, decodeResult(t, rr))
		})
	}
}

func TestReject(t *testing.T) {
	router, approvals, sessions := newTestRouter(config.ServerConfig{})
	sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()
	approvals.On("Reject", mock.Anything, testActor, int32(10)).Return(service.MsgRejected, nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postForm("/api/v1/approvals/reject", url.Values{"approval_id": {"10"}}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.Succeeded("Request rejected."), decodeResult(t, rr))
	approvals.AssertExpectations(t)
}

func TestReject_MissingID(t *testing.T) {
	router, approvals, sessions := newTestRouter(config.ServerConfig{})
	sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postForm("/api/v1/approvals/reject", url.Values{}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Approval ID is required.", decodeResult(t, rr).Error)
	approvals.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPending(t *testing.T) {
	router, approvals, sessions := newTestRouter(config.ServerConfig{})
	sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Once()
	approvals.On("ListPending", mock.Anything, testActor, int32(2)).Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orgs/2/approvals", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"requests":[]}`, rr.Body.String())
}

func TestGetOutcome(t *testing.T) {
	router, approvals, sessions := newTestRouter(config.ServerConfig{})
	sessions.On("Authenticate", mock.Anything, testToken).Return(testActor, nil).Twice()
	approvals.On("GetOutcome", mock.Anything, testActor, int32(10)).
		Return(&domain.ApprovalOutcome{ApprovalID: 10, Outcome: domain.ApprovalOutcomeRejected, UserID: 5, OrgID: 2, DecidedBy: 1, DecidedOn: "2026-10-14"}, nil).Once()
	approvals.On("GetOutcome", mock.Anything, testActor, int32(11)).
		Return(nil, domain.NewNotFoundError("No outcome recorded for this request.")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/approvals/10/outcome", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"outcome":{"approval_id":10,"outcome":"REJECTED","user_id":5,"org_id":2,"decided_by":1,"decided_on":"2026-10-14"}}`, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/approvals/11/outcome", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
