package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectred/donor-api/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestDonationRepository_MarkScheduled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	id := uuid.New()
	hospitalID := uuid.New()

	mock.ExpectExec("UPDATE donations").
		WithArgs(model.DonationStatusScheduled, &hospitalID, true, sqlmock.AnyArg(), id, model.DonationStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkScheduled(context.Background(), id, &hospitalID, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_MarkScheduled_AlreadyTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	id := uuid.New()

	// Status guard misses: the donation was scheduled by a concurrent accept.
	mock.ExpectExec("UPDATE donations").
		WithArgs(model.DonationStatusScheduled, nil, false, sqlmock.AnyArg(), id, model.DonationStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkScheduled(context.Background(), id, nil, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_MarkCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	id := uuid.New()
	at := time.Now()

	mock.ExpectExec("UPDATE donations").
		WithArgs(model.DonationStatusCompleted, at, sqlmock.AnyArg(), id, model.DonationStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkCompleted(context.Background(), id, at)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_MarkCompleted_NotScheduled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	id := uuid.New()

	mock.ExpectExec("UPDATE donations").
		WithArgs(model.DonationStatusCompleted, sqlmock.AnyArg(), sqlmock.AnyArg(), id, model.DonationStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkCompleted(context.Background(), id, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationRepository_CountCompletedForRequest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	requestID := uuid.New()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(requestID, model.DonationStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountCompletedForRequest(context.Background(), requestID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
