package entity

import (
	"fmt"
	"time"
)

// Lead lifecycle statuses, in order. A lead only ever moves forward.
const (
	LeadStatusNew        = "new"
	LeadStatusContacted  = "contacted"
	LeadStatusInterested = "interested"
	LeadStatusEnrolled   = "enrolled"
)

var leadStatusRank = map[string]int{
	LeadStatusNew:        0,
	LeadStatusContacted:  1,
	LeadStatusInterested: 2,
	LeadStatusEnrolled:   3,
}

// Lead is a prospective student captured from a form before any payment.
type Lead struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city,omitempty"`
	Role      string    `json:"role"` // "student" or "parent"
	Status    string    `json:"status"`
	CourseID  *int64    `json:"course_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidLeadStatus reports whether s names a known lifecycle status.
func ValidLeadStatus(s string) bool {
	_, ok := leadStatusRank[s]
	return ok
}

// AdvanceTo moves the lead to target. Re-applying the current status is a
// no-op (duplicate events must be safe); moving backwards is an error.
func (l *Lead) AdvanceTo(target string) error {
	to, ok := leadStatusRank[target]
	if !ok {
		return fmt.Errorf("unknown lead status %q", target)
	}
	from, ok := leadStatusRank[l.Status]
	if !ok {
		return fmt.Errorf("lead %d has corrupt status %q", l.ID, l.Status)
	}
	if to < from {
		return fmt.Errorf("lead status cannot move from %q back to %q", l.Status, target)
	}
	l.Status = target
	return nil
}

// Enrolled reports whether the lead has reached the terminal status.
func (l *Lead) Enrolled() bool {
	return l.Status == LeadStatusEnrolled
}
