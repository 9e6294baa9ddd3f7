package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

const (
	bcryptCost = 10

	// Used when neither the lead's course nor the batch can be resolved
	// to a title for the notification body.
	fallbackCourseName = "Python Mastery Program"
)

// ConvertLeadUseCase turns one payment-confirmation event (or an explicit
// admin command) into a committed account + enrollment + lead transition,
// then hands a notice to the notification pipeline. Safe against duplicate
// and concurrent deliveries of the same event: all idempotency rests on the
// store's unique constraints, never on in-process locks.
type ConvertLeadUseCase struct {
	store         Store
	selector      BatchSelector
	notifier      NotificationPublisher
	defaultAmount float64
	log           *slog.Logger
}

func NewConvertLeadUseCase(
	store Store,
	selector BatchSelector,
	notifier NotificationPublisher,
	defaultAmount float64,
	log *slog.Logger,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		store:         store,
		selector:      selector,
		notifier:      notifier,
		defaultAmount: defaultAmount,
		log:           log,
	}
}

// Execute processes one conversion event. On success the state change is
// committed; the notification is published afterwards and its failure is
// never surfaced to the caller.
func (uc *ConvertLeadUseCase) Execute(ctx context.Context, event ConversionEvent) (*ConversionResult, error) {
	email := normalizeEmail(event.Email)
	if verr := validateEmail(email); verr != nil {
		return nil, verr
	}

	amount := uc.defaultAmount
	if event.Amount != nil {
		amount = *event.Amount
	}

	paymentRef := event.PaymentRef
	if paymentRef == "" {
		provider := event.Provider
		if provider == "" {
			provider = "payment"
		}
		paymentRef = fmt.Sprintf("%s_%s", strings.ToUpper(provider), uuid.NewString())
	}

	var (
		result ConversionResult
		notice Notice
	)

	err := uc.store.RunInTx(ctx, func(ctx context.Context, s ConversionStore) error {
		account, credential, err := uc.resolveAccount(ctx, s, email, event.Name)
		if err != nil {
			return err
		}

		// A payment can arrive for an email with no prior lead; that
		// is not an error.
		lead, err := s.Leads().FindByEmail(ctx, email)
		if errors.Is(err, entity.ErrLeadNotFound) {
			lead, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("looking up lead: %w", err)
		}

		batchID := event.BatchID
		if batchID == 0 {
			batchID, err = uc.selector.Select(ctx, s, lead)
			if err != nil {
				return err
			}
		}

		enrollment, created, err := uc.resolveEnrollment(ctx, s, account.ID, batchID, paymentRef, amount)
		if err != nil {
			return err
		}

		if lead != nil && !lead.Enrolled() {
			if err := lead.AdvanceTo(entity.LeadStatusEnrolled); err != nil {
				return err
			}
			if err := s.Leads().UpdateStatus(ctx, lead.ID, entity.LeadStatusEnrolled); err != nil {
				return fmt.Errorf("advancing lead %d: %w", lead.ID, err)
			}
		}

		courseName, batchStart, timings := uc.describeBatch(ctx, s, batchID)

		result = ConversionResult{
			AccountID:         account.ID,
			EnrollmentID:      enrollment.ID,
			EnrollmentCreated: created,
			CredentialIssued:  credential != "",
			CourseName:        courseName,
		}

		notice = Notice{
			Kind:       NoticeConfirmation,
			Name:       account.Name,
			Email:      account.Email,
			CourseName: courseName,
			BatchStart: batchStart,
			Timings:    timings,
		}
		if credential != "" {
			notice.Kind = NoticeCredentials
			notice.Credential = credential
		}
		if lead != nil {
			notice.LeadID = lead.ID
			notice.Phone = lead.Phone
		}
		return nil
	})
	if err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "converting " + email, Err: err}
	}

	uc.publish(ctx, notice)
	return &result, nil
}

// ExecuteForLead is the admin conversion command: the batch is explicit and
// the enrollment is free of charge.
func (uc *ConvertLeadUseCase) ExecuteForLead(ctx context.Context, leadID, batchID int64) (*ConversionResult, error) {
	lead, err := uc.store.Leads().FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: fmt.Sprintf("loading lead %d", leadID), Err: err}
	}
	if batchID <= 0 {
		return nil, &ValidationError{Field: "batch_id", Message: "is required"}
	}

	free := 0.0
	return uc.Execute(ctx, ConversionEvent{
		Email:      lead.Email,
		Name:       lead.Name,
		Provider:   "admin",
		Amount:     &free,
		PaymentRef: "ADMIN_LEAD_CONVERSION",
		BatchID:    batchID,
	})
}

// resolveAccount finds or creates the student account for email. The
// plaintext credential is non-empty only on the call that created the row.
func (uc *ConvertLeadUseCase) resolveAccount(ctx context.Context, s ConversionStore, email, name string) (*entity.Account, string, error) {
	account, err := s.Accounts().FindByEmail(ctx, email)
	if err == nil {
		return account, "", nil
	}
	if !errors.Is(err, entity.ErrAccountNotFound) {
		return nil, "", fmt.Errorf("looking up account: %w", err)
	}

	credential, err := generateCredential()
	if err != nil {
		return nil, "", fmt.Errorf("generating credential: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing credential: %w", err)
	}

	if name == "" {
		name = "Student"
	}
	account = &entity.Account{
		Name:         name,
		Email:        email,
		Role:         "student",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.Accounts().Create(ctx, account)
	if err == nil {
		return account, credential, nil
	}
	if !errors.Is(err, entity.ErrEmailTaken) {
		return nil, "", fmt.Errorf("creating account: %w", err)
	}

	// Lost the creation race; the winner's row is committed, read it.
	account, err = s.Accounts().FindByEmail(ctx, email)
	if err != nil {
		return nil, "", &ConflictError{Key: email, Err: err}
	}
	return account, "", nil
}

// resolveEnrollment finds or creates the (student, batch) enrollment. An
// existing row is returned unchanged whatever payment reference or amount a
// duplicate event carries.
func (uc *ConvertLeadUseCase) resolveEnrollment(ctx context.Context, s ConversionStore, studentID, batchID int64, paymentRef string, amount float64) (*entity.Enrollment, bool, error) {
	existing, err := s.Enrollments().FindByStudentAndBatch(ctx, studentID, batchID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, entity.ErrEnrollmentNotFound) {
		return nil, false, fmt.Errorf("looking up enrollment: %w", err)
	}

	enrollment := &entity.Enrollment{
		StudentID: studentID,
		BatchID:   batchID,
		PaymentID: paymentRef,
		Amount:    amount,
		Status:    entity.EnrollmentCompleted,
		CreatedAt: time.Now().UTC(),
	}

	err = s.Enrollments().Create(ctx, enrollment)
	if err == nil {
		return enrollment, true, nil
	}
	if !errors.Is(err, entity.ErrAlreadyEnrolled) {
		return nil, false, fmt.Errorf("creating enrollment: %w", err)
	}

	existing, err = s.Enrollments().FindByStudentAndBatch(ctx, studentID, batchID)
	if err != nil {
		return nil, false, &ConflictError{Key: fmt.Sprintf("enrollment %d/%d", studentID, batchID), Err: err}
	}
	return existing, false, nil
}

func (uc *ConvertLeadUseCase) describeBatch(ctx context.Context, s ConversionStore, batchID int64) (courseName, batchStart, timings string) {
	courseName = fallbackCourseName
	batch, err := s.Batches().FindByID(ctx, batchID)
	if err != nil {
		return
	}
	batchStart, timings = batch.StartDate, batch.Timings
	if course, err := s.Batches().FindCourse(ctx, batch.CourseID); err == nil {
		courseName = course.Title
	}
	return
}

func (uc *ConvertLeadUseCase) publish(ctx context.Context, n Notice) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.PublishNotice(ctx, n); err != nil {
		uc.log.Error("notice publish failed",
			"kind", n.Kind,
			"email", n.Email,
			"error", err)
	}
}

func generateCredential() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
