package database

import (
	"context"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

// CommunicationLogRepository is append-only: rows record every outbound
// notification attempt and are never updated or deleted.
type CommunicationLogRepository struct {
	db dbtx
}

func NewCommunicationLogRepository(db dbtx) *CommunicationLogRepository {
	return &CommunicationLogRepository{db: db}
}

func (r *CommunicationLogRepository) Append(ctx context.Context, l *entity.CommunicationLog) error {
	query := `
		INSERT INTO communication_logs (lead_id, type, status, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		l.LeadID, l.Channel, l.Status, l.Content, l.Timestamp,
	).Scan(&l.ID)
}

func (r *CommunicationLogRepository) ListByLead(ctx context.Context, leadID int64) ([]entity.CommunicationLog, error) {
	query := `
		SELECT id, lead_id, type, status, content, timestamp
		FROM communication_logs
		WHERE lead_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []entity.CommunicationLog
	for rows.Next() {
		var l entity.CommunicationLog
		if err := rows.Scan(&l.ID, &l.LeadID, &l.Channel, &l.Status, &l.Content, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
