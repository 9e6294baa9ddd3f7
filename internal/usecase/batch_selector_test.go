package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

func TestBatchSelectorNilLeadUsesDefault(t *testing.T) {
	store := newFakeStore()
	sel := NewCourseBatchSelector(1)

	batchID, err := sel.Select(context.Background(), store, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), batchID)
	store.batches.AssertNotCalled(t, "FirstByCourse")
}

func TestBatchSelectorLeadWithoutCourseUsesDefault(t *testing.T) {
	store := newFakeStore()
	sel := NewCourseBatchSelector(1)
	lead := &entity.Lead{ID: 5, Status: entity.LeadStatusNew}

	batchID, err := sel.Select(context.Background(), store, lead)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), batchID)
}

func TestBatchSelectorPicksEarliestCourseBatch(t *testing.T) {
	store := newFakeStore()
	store.batches.On("FirstByCourse", mock.Anything, int64(3)).
		Return(&entity.Batch{ID: 7, CourseID: 3}, nil)

	sel := NewCourseBatchSelector(1)
	courseID := int64(3)
	lead := &entity.Lead{ID: 5, CourseID: &courseID, Status: entity.LeadStatusNew}

	batchID, err := sel.Select(context.Background(), store, lead)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), batchID)
}

func TestBatchSelectorCourseWithoutBatchesFallsBack(t *testing.T) {
	store := newFakeStore()
	store.batches.On("FirstByCourse", mock.Anything, int64(3)).
		Return(nil, entity.ErrBatchNotFound)

	sel := NewCourseBatchSelector(1)
	courseID := int64(3)
	lead := &entity.Lead{ID: 5, CourseID: &courseID, Status: entity.LeadStatusNew}

	batchID, err := sel.Select(context.Background(), store, lead)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), batchID)
}

func TestBatchSelectorPropagatesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.batches.On("FirstByCourse", mock.Anything, int64(3)).
		Return(nil, errors.New("connection reset"))

	sel := NewCourseBatchSelector(1)
	courseID := int64(3)
	lead := &entity.Lead{ID: 5, CourseID: &courseID, Status: entity.LeadStatusNew}

	_, err := sel.Select(context.Background(), store, lead)

	assert.Error(t, err)
}
