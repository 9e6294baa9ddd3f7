package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

type AccountRepository struct {
	db dbtx
}

func NewAccountRepository(db dbtx) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and fills in its id. Losing a concurrent
// creation race comes back as entity.ErrEmailTaken so the caller can re-read
// the row the winner created. The conflict must not raise a unique violation:
// inside a transaction a 23505 aborts it and the re-read would then fail
// with 25P02 instead of returning the winner.
func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (name, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		a.Name, a.Email, a.Role, a.PasswordHash, a.CreatedAt,
	).Scan(&a.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrEmailTaken
	}
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `
		SELECT id, name, email, role, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`
	a := &entity.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Name, &a.Email, &a.Role, &a.PasswordHash, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
