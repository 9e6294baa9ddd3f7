package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

// CourseBatchSelector picks the earliest batch of the lead's declared course
// and otherwise falls back to a configured default batch. The fallback is a
// known simplification for multi-batch courses: whichever batch sorts first
// wins, which is why the policy is injected rather than buried in the
// orchestrator.
type CourseBatchSelector struct {
	DefaultBatchID int64
}

func NewCourseBatchSelector(defaultBatchID int64) *CourseBatchSelector {
	return &CourseBatchSelector{DefaultBatchID: defaultBatchID}
}

func (sel *CourseBatchSelector) Select(ctx context.Context, s ConversionStore, lead *entity.Lead) (int64, error) {
	if lead != nil && lead.CourseID != nil {
		batch, err := s.Batches().FirstByCourse(ctx, *lead.CourseID)
		if err == nil {
			return batch.ID, nil
		}
		if !errors.Is(err, entity.ErrBatchNotFound) {
			return 0, fmt.Errorf("selecting batch for course %d: %w", *lead.CourseID, err)
		}
	}
	return sel.DefaultBatchID, nil
}
