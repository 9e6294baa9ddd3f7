package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

func TestEnrollmentCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEnrollmentRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(int64(10), int64(1), "RAZORPAY_abc", 4999.0, entity.EnrollmentCompleted, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))

	enrollment := &entity.Enrollment{
		StudentID: 10,
		BatchID:   1,
		PaymentID: "RAZORPAY_abc",
		Amount:    4999,
		Status:    entity.EnrollmentCompleted,
		CreatedAt: now,
	}
	err = repo.Create(context.Background(), enrollment)

	assert.NoError(t, err)
	assert.Equal(t, int64(20), enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCreateLostRaceReturnsAlreadyEnrolled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEnrollmentRepository(db)

	// ON CONFLICT DO NOTHING yields zero rows for the loser; the statement
	// itself succeeds, so a surrounding transaction stays usable for the
	// re-read of the winner's row.
	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err = repo.Create(context.Background(), &entity.Enrollment{StudentID: 10, BatchID: 1})

	assert.ErrorIs(t, err, entity.ErrAlreadyEnrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCreateUniqueViolationReturnsAlreadyEnrolled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "enrollments_student_id_batch_id_key"})

	err = repo.Create(context.Background(), &entity.Enrollment{StudentID: 10, BatchID: 1})

	assert.ErrorIs(t, err, entity.ErrAlreadyEnrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentFindByStudentAndBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEnrollmentRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "student_id", "batch_id", "payment_id", "amount", "status", "created_at"}).
		AddRow(20, 10, 1, "RAZORPAY_abc", 4999.0, entity.EnrollmentCompleted, now)
	mock.ExpectQuery("SELECT id, student_id, batch_id, payment_id, amount, status, created_at").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(rows)

	enrollment, err := repo.FindByStudentAndBatch(context.Background(), 10, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(20), enrollment.ID)
	assert.Equal(t, "RAZORPAY_abc", enrollment.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentFindByStudentAndBatchNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT id, student_id, batch_id, payment_id, amount, status, created_at").
		WithArgs(int64(10), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "batch_id", "payment_id", "amount", "status", "created_at"}))

	enrollment, err := repo.FindByStudentAndBatch(context.Background(), 10, 99)

	assert.Nil(t, enrollment)
	assert.ErrorIs(t, err, entity.ErrEnrollmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
