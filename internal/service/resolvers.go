package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

const (
	msgMemberRoleMissing   = "System configuration error: 'member' role not found."
	msgMemberRoleAmbiguous = "System configuration error: 'member' role is ambiguous."
)

// NormalizeFlatLabel upper-cases the label and strips all whitespace,
// so "a 101" and " A101 " name the same flat.
func NormalizeFlatLabel(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
}

// ResolveFlat finds or creates the flat for (buildingNumberID, rawLabel) and returns its id.
func ResolveFlat(ctx context.Context, flats repository.FlatRepository, buildingNumberID int32, rawLabel string) (int32, error) {
	flatNumber := NormalizeFlatLabel(rawLabel)
	if flatNumber == "" {
		return 0, domain.NewValidationError("Flat number is required.")
	}

	existing, err := flats.FindByNumber(ctx, buildingNumberID, flatNumber)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, domain.NewPersistenceError("Failed to look up flat", err)
	}

	flat := &domain.Flat{BuildingNumberID: buildingNumberID, FlatNumber: flatNumber}
	if err := flats.Create(ctx, flat); err != nil {
		return 0, domain.NewPersistenceError("Failed to create flat", err)
	}
	logger.InfoContext(ctx, "Created flat", "flat_id", flat.ID, "building_number_id", buildingNumberID, "flat_number", flatNumber)
	return flat.ID, nil
}

// ResolveMemberRoleID returns the id of the single role named "member".
func ResolveMemberRoleID(ctx context.Context, roles repository.RoleRepository) (int32, error) {
	found, err := roles.ListByName(ctx, domain.RoleNameMember, 2)
	if err != nil {
		return 0, domain.NewPersistenceError("Failed to look up member role", err)
	}
	switch len(found) {
	case 0:
		return 0, domain.NewConfigurationError(msgMemberRoleMissing)
	case 1:
		return found[0].ID, nil
	default:
		return 0, domain.NewConfigurationError(msgMemberRoleAmbiguous)
	}
}
