package service

import (
	"context"
	"errors"
	"fmt"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

const finalizeSavepoint = "finalize_request"

// ApprovalOptions tunes how approvals are written.
type ApprovalOptions struct {
	StoreBuildingNumber bool
}

type approvalService struct {
	tx          repository.Transactor
	reqRepo     repository.ApprovalRequestRepository
	outcomeRepo repository.ApprovalOutcomeRepository
	memberRepo  repository.MembershipRepository
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	emailSvc    EmailService
	revalidator Revalidator
	opts        ApprovalOptions
}

func NewApprovalService(
	tx repository.Transactor,
	reqRepo repository.ApprovalRequestRepository,
	outcomeRepo repository.ApprovalOutcomeRepository,
	memberRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	emailSvc EmailService,
	revalidator Revalidator,
	opts ApprovalOptions,
) ApprovalService {
	if emailSvc == nil {
		emailSvc = NoopEmailService{}
	}
	if revalidator == nil {
		revalidator = NoopRevalidator{}
	}
	return &approvalService{
		tx:          tx,
		reqRepo:     reqRepo,
		outcomeRepo: outcomeRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		emailSvc:    emailSvc,
		revalidator: revalidator,
		opts:        opts,
	}
}

func (in ApproveInput) hasFlat() bool {
	return in.BuildingNumberID != nil && in.Flat != nil
}

// Validate checks the required identifiers. Building number and flat must be
// given together or not at all.
func (in ApproveInput) Validate() error {
	if in.ApprovalID <= 0 {
		return domain.NewValidationError("Approval ID is required.")
	}
	if in.UserID <= 0 {
		return domain.NewValidationError("User ID is required.")
	}
	if in.OrganisationID <= 0 {
		return domain.NewValidationError("Organization ID is required.")
	}
	if (in.BuildingNumberID == nil) != (in.Flat == nil) {
		return domain.NewValidationError("Building number and flat must be provided together.")
	}
	if in.BuildingNumberID != nil && *in.BuildingNumberID <= 0 {
		return domain.NewValidationError("Building number ID must be a positive integer.")
	}
	return nil
}

func (s *approvalService) Approve(ctx context.Context, actor *domain.Profile, in ApproveInput) (string, error) {
	const method = "approvalService.Approve"
	logger.EnterMethod(ctx, method, "approval_id", in.ApprovalID, "user_id", in.UserID, "org_id", in.OrganisationID)

	if err := in.Validate(); err != nil {
		return "", err
	}
	userID, orgID, err := s.approvalSubject(ctx, in.ApprovalID)
	if err != nil {
		return "", err
	}
	if userID != in.UserID || orgID != in.OrganisationID {
		return "", domain.NewValidationError("User and organization do not match the approval request.")
	}
	if err := s.authorize(ctx, actor, orgID); err != nil {
		return "", err
	}

	var replayed bool
	var flatID *int32
	err = s.tx.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		outcome := &domain.ApprovalOutcome{
			ApprovalID: in.ApprovalID,
			Outcome:    domain.ApprovalOutcomeApproved,
			UserID:     in.UserID,
			OrgID:      in.OrganisationID,
			DecidedBy:  actor.UserID,
		}
		claimed, err := uow.Outcomes().Claim(ctx, outcome)
		if err != nil {
			return domain.NewPersistenceError("Failed to record approval outcome", err)
		}
		if !claimed {
			replayed = true
			return checkReplay(ctx, uow.Outcomes(), in.ApprovalID, domain.ApprovalOutcomeApproved)
		}

		roleID, err := ResolveMemberRoleID(ctx, uow.Roles())
		if err != nil {
			return err
		}

		if in.hasFlat() {
			id, err := ResolveFlat(ctx, uow.Flats(), *in.BuildingNumberID, *in.Flat)
			if err != nil {
				return err
			}
			flatID = &id
			if err := uow.Outcomes().SetFlat(ctx, in.ApprovalID, id); err != nil {
				return domain.NewPersistenceError("Failed to record approval outcome", err)
			}
		}

		link := &domain.MembershipLink{
			UserID: in.UserID,
			OrgID:  in.OrganisationID,
			RoleID: roleID,
			FlatID: flatID,
		}
		if s.opts.StoreBuildingNumber {
			link.BuildingNumberID = in.BuildingNumberID
		}
		if err := uow.Memberships().Create(ctx, link); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.NewConflictError("User is already a member of this organization.", err)
			}
			return domain.NewPersistenceError("Failed to link user to organization", err)
		}

		// The membership link is the authoritative outcome; a failed cleanup
		// only leaves a stale request row for the purge job.
		err = uow.Savepoint(ctx, finalizeSavepoint, func() error {
			return uow.ApprovalRequests().Delete(ctx, in.ApprovalID)
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to delete approval request after linking", "approval_id", in.ApprovalID, "error", err)
		}
		return nil
	})
	if err != nil {
		err = boundaryError(err, "Failed to approve request")
		logger.ExitMethodWithError(ctx, method, err, "approval_id", in.ApprovalID)
		return "", err
	}

	if replayed {
		logger.InfoContext(ctx, "Approval already processed", "approval_id", in.ApprovalID)
	} else {
		logger.InfoContext(ctx, "Approval request approved", "approval_id", in.ApprovalID, "user_id", in.UserID, "org_id", in.OrganisationID, "flat_id", flatID)
		s.notify(ctx, domain.ApprovalOutcomeApproved, in.UserID, in.OrganisationID)
		s.revalidate(ctx, in.OrganisationID)
	}

	logger.ExitMethod(ctx, method, "approval_id", in.ApprovalID)
	return MsgApproved, nil
}

func (s *approvalService) Reject(ctx context.Context, actor *domain.Profile, approvalID int32) (string, error) {
	const method = "approvalService.Reject"
	logger.EnterMethod(ctx, method, "approval_id", approvalID)

	if approvalID <= 0 {
		return "", domain.NewValidationError("Approval ID is required.")
	}

	req, err := s.reqRepo.GetByID(ctx, approvalID)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleting a request that is already gone is a success.
		logger.ExitMethod(ctx, method, "approval_id", approvalID, "found", false)
		return MsgRejected, nil
	}
	if err != nil {
		return "", domain.NewPersistenceError("Failed to load approval request", err)
	}
	if err := s.authorize(ctx, actor, req.OrgID); err != nil {
		return "", err
	}

	var replayed bool
	err = s.tx.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		outcome := &domain.ApprovalOutcome{
			ApprovalID: approvalID,
			Outcome:    domain.ApprovalOutcomeRejected,
			UserID:     req.UserID,
			OrgID:      req.OrgID,
			DecidedBy:  actor.UserID,
		}
		claimed, err := uow.Outcomes().Claim(ctx, outcome)
		if err != nil {
			return domain.NewPersistenceError("Failed to record rejection", err)
		}
		if !claimed {
			replayed = true
			if err := checkReplay(ctx, uow.Outcomes(), approvalID, domain.ApprovalOutcomeRejected); err != nil {
				return err
			}
		}
		if err := uow.ApprovalRequests().Delete(ctx, approvalID); err != nil {
			return domain.NewPersistenceError("Failed to reject request", err)
		}
		return nil
	})
	if err != nil {
		err = boundaryError(err, "Failed to reject request")
		logger.ExitMethodWithError(ctx, method, err, "approval_id", approvalID)
		return "", err
	}

	if !replayed {
		logger.InfoContext(ctx, "Approval request rejected", "approval_id", approvalID, "org_id", req.OrgID)
		s.notify(ctx, domain.ApprovalOutcomeRejected, req.UserID, req.OrgID)
		s.revalidate(ctx, req.OrgID)
	}

	logger.ExitMethod(ctx, method, "approval_id", approvalID)
	return MsgRejected, nil
}

func (s *approvalService) ListPending(ctx context.Context, actor *domain.Profile, orgID int32) ([]domain.ApprovalRequest, error) {
	if orgID <= 0 {
		return nil, domain.NewValidationError("Organization ID is required.")
	}
	if err := s.authorize(ctx, actor, orgID); err != nil {
		return nil, err
	}
	reqs, err := s.reqRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to list approval requests", err)
	}
	return reqs, nil
}

func (s *approvalService) GetOutcome(ctx context.Context, actor *domain.Profile, approvalID int32) (*domain.ApprovalOutcome, error) {
	if approvalID <= 0 {
		return nil, domain.NewValidationError("Approval ID is required.")
	}
	outcome, err := s.outcomeRepo.Get(ctx, approvalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNotFoundError("No outcome recorded for this request.")
	}
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to load approval outcome", err)
	}
	if err := s.authorize(ctx, actor, outcome.OrgID); err != nil {
		return nil, err
	}
	return outcome, nil
}

// approvalSubject returns the applicant and organisation of a request. A
// request that is already gone is answered from its recorded outcome.
func (s *approvalService) approvalSubject(ctx context.Context, approvalID int32) (int32, int32, error) {
	req, err := s.reqRepo.GetByID(ctx, approvalID)
	if err == nil {
		return req.UserID, req.OrgID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, 0, domain.NewPersistenceError("Failed to load approval request", err)
	}

	outcome, err := s.outcomeRepo.Get(ctx, approvalID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, 0, domain.NewNotFoundError("Approval request not found.")
	}
	if err != nil {
		return 0, 0, domain.NewPersistenceError("Failed to load approval outcome", err)
	}
	return outcome.UserID, outcome.OrgID, nil
}

// authorize allows platform admins and admins/owners of the organisation.
func (s *approvalService) authorize(ctx context.Context, actor *domain.Profile, orgID int32) error {
	if actor == nil {
		return domain.NewUnauthenticatedError("You must be signed in.")
	}
	if actor.IsPlatformAdmin {
		return nil
	}
	link, err := s.memberRepo.GetByUserAndOrg(ctx, actor.UserID, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewForbiddenError("You are not allowed to manage this organization.")
	}
	if err != nil {
		return domain.NewPersistenceError("Failed to check permissions", err)
	}
	switch link.RoleName {
	case domain.RoleNameAdmin, domain.RoleNameOwner:
		return nil
	default:
		return domain.NewForbiddenError("You are not allowed to manage this organization.")
	}
}

// checkReplay decides what a repeated decision on an already processed
// request means: the same decision is a no-op, the opposite one a conflict.
func checkReplay(ctx context.Context, outcomes repository.ApprovalOutcomeRepository, approvalID int32, want domain.ApprovalOutcomeKind) error {
	prior, err := outcomes.Get(ctx, approvalID)
	if err != nil {
		return domain.NewPersistenceError("Failed to load approval outcome", err)
	}
	if prior.Outcome != want {
		return domain.NewConflictError(fmt.Sprintf("Request was already %s.", describeOutcome(prior.Outcome)), nil)
	}
	return nil
}

func describeOutcome(kind domain.ApprovalOutcomeKind) string {
	if kind == domain.ApprovalOutcomeApproved {
		return "approved"
	}
	return "rejected"
}

// boundaryError converts anything that is not already a domain error.
func boundaryError(err error, what string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	return domain.NewPersistenceError(what, err)
}

func (s *approvalService) notify(ctx context.Context, outcome domain.ApprovalOutcomeKind, userID, orgID int32) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping notification, applicant not found", "user_id", userID, "error", err)
		return
	}
	if user.Email == "" {
		return
	}
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping notification, organization not found", "org_id", orgID, "error", err)
		return
	}

	if outcome == domain.ApprovalOutcomeApproved {
		err = s.emailSvc.SendApprovalNotification(ctx, user.Email, user.Name, org.Name)
	} else {
		err = s.emailSvc.SendRejectionNotification(ctx, user.Email, user.Name, org.Name)
	}
	if err != nil {
		logger.WarnContext(ctx, "Failed to send applicant notification", "user_id", userID, "org_id", orgID, "error", err)
	}
}

func (s *approvalService) revalidate(ctx context.Context, orgID int32) {
	paths := []string{
		fmt.Sprintf("/dashboard/organisations/%d/members", orgID),
		fmt.Sprintf("/dashboard/organisations/%d/approvals", orgID),
	}
	if err := s.revalidator.Revalidate(ctx, paths...); err != nil {
		logger.WarnContext(ctx, "Failed to revalidate dashboard pages", "org_id", orgID, "error", err)
	}
}
