package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

type LeadRepository struct {
	db dbtx
}

func NewLeadRepository(db dbtx) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, name, email, phone, city, role, status, course_id, created_at, updated_at`

// Upsert inserts the lead or, when the email already exists, refreshes its
// contact details. The lifecycle status is deliberately left untouched on
// conflict so a repeated form submission cannot reset an advanced lead.
func (r *LeadRepository) Upsert(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (name, email, phone, city, role, status, course_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			city = COALESCE(NULLIF(EXCLUDED.city, ''), leads.city),
			course_id = COALESCE(EXCLUDED.course_id, leads.course_id),
			updated_at = NOW()
		RETURNING id, status, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		l.Name, l.Email, l.Phone, l.City, l.Role, l.Status, l.CourseID,
	).Scan(&l.ID, &l.Status, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return r.scanLead(r.db.QueryRowContext(ctx, query, id))
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = $1`
	return r.scanLead(r.db.QueryRowContext(ctx, query, email))
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) scanLead(row *sql.Row) (*entity.Lead, error) {
	l := &entity.Lead{}
	var courseID sql.NullInt64
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.City, &l.Role,
		&l.Status, &courseID, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	if courseID.Valid {
		l.CourseID = &courseID.Int64
	}
	return l, nil
}
