package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

// CaptureLeadUseCase handles public intake-form submissions. Leads are
// upserted by email so a repeated submission refreshes contact details
// instead of duplicating the lead.
type CaptureLeadUseCase struct {
	leads    LeadRepository
	courses  BatchRepository
	notifier NotificationPublisher
	log      *slog.Logger
}

func NewCaptureLeadUseCase(leads LeadRepository, courses BatchRepository, notifier NotificationPublisher, log *slog.Logger) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		leads:    leads,
		courses:  courses,
		notifier: notifier,
		log:      log,
	}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*entity.Lead, error) {
	if errs := validateCaptureLead(&input); len(errs) > 0 {
		return nil, joinValidationErrors(errs)
	}

	lead := &entity.Lead{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		City:     input.City,
		Role:     input.Role,
		Status:   entity.LeadStatusNew,
		CourseID: input.CourseID,
	}
	if err := uc.leads.Upsert(ctx, lead); err != nil {
		return nil, &PersistenceError{Op: "capturing lead " + input.Email, Err: err}
	}

	notice := Notice{
		Kind:       NoticeWelcome,
		LeadID:     lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		CourseName: uc.courseName(ctx, lead.CourseID),
	}
	if err := uc.notifier.PublishNotice(ctx, notice); err != nil {
		uc.log.Error("welcome notice publish failed", "email", lead.Email, "error", err)
	}

	return lead, nil
}

func (uc *CaptureLeadUseCase) courseName(ctx context.Context, courseID *int64) string {
	if courseID == nil {
		return fallbackCourseName
	}
	course, err := uc.courses.FindCourse(ctx, *courseID)
	if err != nil {
		return fallbackCourseName
	}
	return course.Title
}

// UpdateLeadStatus applies a manual lifecycle transition. The state machine
// rejects regressions; re-applying the current status succeeds as a no-op.
func (uc *CaptureLeadUseCase) UpdateLeadStatus(ctx context.Context, leadID int64, status string) (*entity.Lead, error) {
	if !entity.ValidLeadStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "is not a valid lead status"}
	}

	lead, err := uc.leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status == status {
		return lead, nil
	}
	if err := lead.AdvanceTo(status); err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}
	if err := uc.leads.UpdateStatus(ctx, lead.ID, status); err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("updating lead %d status", leadID), Err: err}
	}
	return lead, nil
}
