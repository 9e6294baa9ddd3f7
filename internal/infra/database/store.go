package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/pythonpro/coaching-backend/internal/usecase"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Store implements usecase.Store on a single Postgres database. The unique
// constraints declared in schema.sql are the only synchronization primitive:
// concurrent duplicate conversions are settled by insert-conflict-reread,
// not by locks.
type Store struct {
	db        *sql.DB
	txTimeout time.Duration

	accounts    *AccountRepository
	leads       *LeadRepository
	enrollments *EnrollmentRepository
	batches     *BatchRepository
}

func NewStore(db *sql.DB, txTimeout time.Duration) *Store {
	return &Store{
		db:          db,
		txTimeout:   txTimeout,
		accounts:    NewAccountRepository(db),
		leads:       NewLeadRepository(db),
		enrollments: NewEnrollmentRepository(db),
		batches:     NewBatchRepository(db),
	}
}

func (s *Store) Accounts() usecase.AccountRepository       { return s.accounts }
func (s *Store) Leads() usecase.LeadRepository             { return s.leads }
func (s *Store) Enrollments() usecase.EnrollmentRepository { return s.enrollments }
func (s *Store) Batches() usecase.BatchRepository          { return s.batches }

// RunInTx runs fn inside one transaction with its own bounded timeout. Any
// error from fn rolls everything back; the commit error, if any, is the
// caller's signal that nothing was persisted.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, cs usecase.ConversionStore) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, &txStore{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore binds the repositories to one open transaction.
type txStore struct {
	tx *sql.Tx
}

func (s *txStore) Accounts() usecase.AccountRepository       { return NewAccountRepository(s.tx) }
func (s *txStore) Leads() usecase.LeadRepository             { return NewLeadRepository(s.tx) }
func (s *txStore) Enrollments() usecase.EnrollmentRepository { return NewEnrollmentRepository(s.tx) }
func (s *txStore) Batches() usecase.BatchRepository          { return NewBatchRepository(s.tx) }
