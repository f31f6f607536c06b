package service

import (
	"context"
	"errors"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/repository"
	"facility-admin-backend/internal/security"
)

type sessionService struct {
	tokens   security.TokenManager
	userRepo repository.UserRepository
}

func NewSessionService(tokens security.TokenManager, userRepo repository.UserRepository) SessionService {
	return &sessionService{tokens: tokens, userRepo: userRepo}
}

func (s *sessionService) Authenticate(ctx context.Context, token string) (*domain.Profile, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrMissingToken):
			return nil, domain.NewUnauthenticatedError("You must be signed in.")
		case errors.Is(err, security.ErrExpiredToken):
			return nil, domain.NewUnauthenticatedError("Your session has expired. Please sign in again.")
		default:
			return nil, domain.NewUnauthenticatedError("Invalid session.")
		}
	}

	profile, err := s.userRepo.GetByAuthID(ctx, claims.Principal())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewForbiddenError("No profile found for this account.")
	}
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to load profile", err)
	}
	return profile, nil
}
