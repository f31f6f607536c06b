package postgres_test

import (
	"context"
	"errors"
	"testing"

	"facility-admin-backend/internal/repository"
	"facility-admin-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTx(t *testing.T) {
	t.Run("Commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM approval_requests").WithArgs(int32(10)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = store.WithinTx(context.Background(), func(uow repository.UnitOfWork) error {
			return uow.ApprovalRequests().Delete(context.Background(), 10)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = store.WithinTx(context.Background(), func(uow repository.UnitOfWork) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SavepointRollbackKeepsTransaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec(`^SAVEPOINT "cleanup"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM approval_requests").WithArgs(int32(10)).WillReturnError(assert.AnError)
		mock.ExpectExec(`ROLLBACK TO SAVEPOINT "cleanup"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		var spErr error
		err = store.WithinTx(ctx, func(uow repository.UnitOfWork) error {
			spErr = uow.Savepoint(ctx, "cleanup", func() error {
				return uow.ApprovalRequests().Delete(ctx, 10)
			})
			return nil
		})
		assert.NoError(t, err)
		assert.ErrorIs(t, spErr, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SavepointRelease", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		store := postgres.NewStore(db)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec(`^SAVEPOINT "cleanup"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`RELEASE SAVEPOINT "cleanup"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = store.WithinTx(ctx, func(uow repository.UnitOfWork) error {
			return uow.Savepoint(ctx, "cleanup", func() error { return nil })
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
