package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

// BatchRepository reads catalog data (batches and their courses). The
// conversion core never writes these tables.
type BatchRepository struct {
	db dbtx
}

func NewBatchRepository(db dbtx) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) FindByID(ctx context.Context, id int64) (*entity.Batch, error) {
	query := `
		SELECT id, course_id, start_date, timings, COALESCE(meeting_link, '')
		FROM batches
		WHERE id = $1
	`
	return r.scanBatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *BatchRepository) FirstByCourse(ctx context.Context, courseID int64) (*entity.Batch, error) {
	query := `
		SELECT id, course_id, start_date, timings, COALESCE(meeting_link, '')
		FROM batches
		WHERE course_id = $1
		ORDER BY start_date, id
		LIMIT 1
	`
	return r.scanBatch(r.db.QueryRowContext(ctx, query, courseID))
}

func (r *BatchRepository) FindCourse(ctx context.Context, courseID int64) (*entity.Course, error) {
	query := `SELECT id, title, description, price FROM courses WHERE id = $1`
	c := &entity.Course{}
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(&c.ID, &c.Title, &c.Description, &c.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *BatchRepository) scanBatch(row *sql.Row) (*entity.Batch, error) {
	b := &entity.Batch{}
	err := row.Scan(&b.ID, &b.CourseID, &b.StartDate, &b.Timings, &b.MeetingLink)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrBatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
