package usecase

import (
	"context"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	// Create returns entity.ErrEmailTaken when the email unique
	// constraint fires; the caller re-reads the winner's row.
	Create(ctx context.Context, a *entity.Account) error
}

type LeadRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Lead, error)
	FindByEmail(ctx context.Context, email string) (*entity.Lead, error)
	Upsert(ctx context.Context, l *entity.Lead) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type EnrollmentRepository interface {
	FindByStudentAndBatch(ctx context.Context, studentID, batchID int64) (*entity.Enrollment, error)
	// Create returns entity.ErrAlreadyEnrolled on the (student_id,
	// batch_id) unique constraint; the caller re-reads.
	Create(ctx context.Context, e *entity.Enrollment) error
}

type BatchRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Batch, error)
	// FirstByCourse returns the earliest-starting batch of a course,
	// or entity.ErrBatchNotFound when the course has none.
	FirstByCourse(ctx context.Context, courseID int64) (*entity.Batch, error)
	FindCourse(ctx context.Context, courseID int64) (*entity.Course, error)
}

type CommunicationLogRepository interface {
	Append(ctx context.Context, log *entity.CommunicationLog) error
	ListByLead(ctx context.Context, leadID int64) ([]entity.CommunicationLog, error)
}

// ConversionStore bundles the repositories a single conversion touches.
type ConversionStore interface {
	Accounts() AccountRepository
	Leads() LeadRepository
	Enrollments() EnrollmentRepository
	Batches() BatchRepository
}

// Store adds transactional execution: every repository call made through the
// ConversionStore passed to fn happens in one database transaction.
type Store interface {
	ConversionStore
	RunInTx(ctx context.Context, fn func(ctx context.Context, s ConversionStore) error) error
}

// BatchSelector decides which batch a conversion without an explicit batch
// lands in. Injected so the fallback policy stays visible and testable.
type BatchSelector interface {
	Select(ctx context.Context, s ConversionStore, lead *entity.Lead) (int64, error)
}

// NotificationPublisher hands a post-commit notice to the delivery pipeline.
// Publishing is best-effort: a failure is logged, never returned to the
// event's origin.
type NotificationPublisher interface {
	PublishNotice(ctx context.Context, n Notice) error
}
