package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OrganizationRepository
	repository.ApprovalRequestRepository
	repository.ApprovalOutcomeRepository
	repository.FlatRepository
	repository.RoleRepository
	repository.MembershipRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                        db,
		UserRepository:            NewUserRepository(db),
		OrganizationRepository:    NewOrganizationRepository(db),
		ApprovalRequestRepository: NewApprovalRequestRepository(db),
		ApprovalOutcomeRepository: NewApprovalOutcomeRepository(db),
		FlatRepository:            NewFlatRepository(db),
		RoleRepository:            NewRoleRepository(db),
		MembershipRepository:      NewMembershipRepository(db),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(uow repository.UnitOfWork) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&unitOfWork{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type unitOfWork struct {
	tx *sql.Tx
}

func (u *unitOfWork) ApprovalRequests() repository.ApprovalRequestRepository {
	return NewApprovalRequestRepository(u.tx)
}

func (u *unitOfWork) Outcomes() repository.ApprovalOutcomeRepository {
	return NewApprovalOutcomeRepository(u.tx)
}

func (u *unitOfWork) Flats() repository.FlatRepository {
	return NewFlatRepository(u.tx)
}

func (u *unitOfWork) Roles() repository.RoleRepository {
	return NewRoleRepository(u.tx)
}

func (u *unitOfWork) Memberships() repository.MembershipRepository {
	return NewMembershipRepository(u.tx)
}

func (u *unitOfWork) Savepoint(ctx context.Context, name string, fn func() error) error {
	ident := pq.QuoteIdentifier(name)
	if _, err := u.tx.ExecContext(ctx, "SAVEPOINT "+ident); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if fnErr := fn(); fnErr != nil {
		if _, err := u.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+ident); err != nil {
			return errors.Join(fnErr, fmt.Errorf("failed to roll back to savepoint %s: %w", name, err))
		}
		return fnErr
	}

	if _, err := u.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+ident); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Message)
	}
	return err
}
