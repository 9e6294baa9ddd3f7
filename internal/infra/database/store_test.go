package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pythonpro/coaching-backend/internal/entity"
	"github.com/pythonpro/coaching-backend/internal/usecase"
)

func TestRunInTxCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email, role, password_hash, created_at").
		WithArgs("priya@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "password_hash", "created_at"}).
			AddRow(10, "Priya", "priya@example.com", "student", "hashed", time.Now().UTC()))
	mock.ExpectCommit()

	err = store.RunInTx(context.Background(), func(ctx context.Context, s usecase.ConversionStore) error {
		_, err := s.Accounts().FindByEmail(ctx, "priya@example.com")
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = store.RunInTx(context.Background(), func(ctx context.Context, s usecase.ConversionStore) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A loser of a concurrent account-creation race must be able to re-read the
// winner's row on the same transaction and still commit: the conflict-silent
// insert keeps the transaction usable after the lost race.
func TestRunInTxSurvivesLostCreationRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, time.Second)
	now := time.Now().UTC()

	accountCols := []string{"id", "name", "email", "role", "password_hash", "created_at"}

	mock.ExpectBegin()
	// Initial lookup sees nothing.
	mock.ExpectQuery("SELECT id, name, email, role, password_hash, created_at").
		WithArgs("priya@example.com").
		WillReturnRows(sqlmock.NewRows(accountCols))
	// The insert loses the race: zero rows, no error, transaction intact.
	mock.ExpectQuery("INSERT INTO accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// The re-read on the same transaction returns the winner.
	mock.ExpectQuery("SELECT id, name, email, role, password_hash, created_at").
		WithArgs("priya@example.com").
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(11, "Priya", "priya@example.com", "student", "hashed", now))
	mock.ExpectCommit()

	var winner *entity.Account
	err = store.RunInTx(context.Background(), func(ctx context.Context, s usecase.ConversionStore) error {
		if _, err := s.Accounts().FindByEmail(ctx, "priya@example.com"); !errors.Is(err, entity.ErrAccountNotFound) {
			return err
		}
		createErr := s.Accounts().Create(ctx, &entity.Account{
			Name: "Priya", Email: "priya@example.com", Role: "student",
			PasswordHash: "hashed", CreatedAt: now,
		})
		if !errors.Is(createErr, entity.ErrEmailTaken) {
			return createErr
		}
		var err error
		winner, err = s.Accounts().FindByEmail(ctx, "priya@example.com")
		return err
	})

	assert.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, int64(11), winner.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
