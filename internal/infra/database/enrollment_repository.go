package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

type EnrollmentRepository struct {
	db dbtx
}

func NewEnrollmentRepository(db dbtx) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts the enrollment and fills in its id. A duplicate of the
// (student_id, batch_id) pair comes back as entity.ErrAlreadyEnrolled so a
// retried payment event can never double-enroll. The conflict must not raise
// a unique violation: inside a transaction a 23505 aborts it and the
// caller's re-read would then fail with 25P02 instead of returning the
// winner.
func (r *EnrollmentRepository) Create(ctx context.Context, e *entity.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, batch_id, payment_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, batch_id) DO NOTHING
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.StudentID, e.BatchID, e.PaymentID, e.Amount, e.Status, e.CreatedAt,
	).Scan(&e.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrAlreadyEnrolled
	}
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

func (r *EnrollmentRepository) FindByStudentAndBatch(ctx context.Context, studentID, batchID int64) (*entity.Enrollment, error) {
	query := `
		SELECT id, student_id, batch_id, payment_id, amount, status, created_at
		FROM enrollments
		WHERE student_id = $1 AND batch_id = $2
	`
	e := &entity.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, studentID, batchID).Scan(
		&e.ID, &e.StudentID, &e.BatchID, &e.PaymentID, &e.Amount, &e.Status, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
