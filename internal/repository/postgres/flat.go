package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

// ErrNoFlatID means the insert reported success without returning an id.
var ErrNoFlatID = errors.New("flat insert returned no identifier")

type flatRepository struct {
	db DBTX
}

func NewFlatRepository(db DBTX) repository.FlatRepository {
	return &flatRepository{db: db}
}

func (r *flatRepository) FindByNumber(ctx context.Context, buildingNumberID int32, flatNumber string) (*domain.Flat, error) {
	query := `SELECT id, building_number_id, flat_number FROM flats WHERE building_number_id = $1 AND flat_number = $2`
	logger.DatabaseCall("SELECT", query, "building_number_id", buildingNumberID, "flat_number", flatNumber)

	f := &domain.Flat{}
	err := r.db.QueryRowContext(ctx, query, buildingNumberID, flatNumber).Scan(&f.ID, &f.BuildingNumberID, &f.FlatNumber)
	if err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (r *flatRepository) Create(ctx context.Context, f *domain.Flat) error {
	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `INSERT INTO flats (building_number_id, flat_number) VALUES ($1, $2)
	          ON CONFLICT (building_number_id, flat_number) DO UPDATE SET flat_number = EXCLUDED.flat_number
	          RETURNING id`
	logger.DatabaseCall("INSERT", query, "building_number_id", f.BuildingNumberID, "flat_number", f.FlatNumber)

	var id sql.NullInt32
	err := r.db.QueryRowContext(ctx, query, f.BuildingNumberID, f.FlatNumber).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && (!id.Valid || id.Int32 == 0)) {
		logger.DatabaseResult("INSERT", 0, ErrNoFlatID)
		return ErrNoFlatID
	}
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return fmt.Errorf("failed to insert flat: %w", err)
	}
	logger.DatabaseResult("INSERT", 1, nil)
	f.ID = id.Int32
	return nil
}
