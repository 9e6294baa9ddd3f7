package entity

import "time"

// Enrollment statuses. The conversion flow only ever writes "completed";
// a payment event arriving at all means the payment succeeded.
const (
	EnrollmentPending   = "pending"
	EnrollmentCompleted = "completed"
	EnrollmentFailed    = "failed"
)

// Enrollment links a student account to a batch. At most one row may exist
// per (student, batch) pair, enforced by a unique constraint.
type Enrollment struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	BatchID   int64     `json:"batch_id"`
	PaymentID string    `json:"payment_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
