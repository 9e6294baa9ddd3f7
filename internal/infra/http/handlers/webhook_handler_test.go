package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pythonpro/coaching-backend/internal/usecase"
)

type MockConversionExecutor struct {
	mock.Mock
}

func (m *MockConversionExecutor) Execute(ctx context.Context, event usecase.ConversionEvent) (*usecase.ConversionResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ConversionResult), args.Error(1)
}

func webhookRouter(executor ConversionExecutor) *chi.Mux {
	h := NewWebhookHandler(executor, slog.Default())
	r := chi.NewRouter()
	r.Post("/payments/webhook/{provider}", h.Handle)
	return r
}

func postWebhook(r http.Handler, provider string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/"+provider, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWebhookSuccess(t *testing.T) {
	executor := new(MockConversionExecutor)
	executor.On("Execute", mock.Anything, mock.Anything).Return(&usecase.ConversionResult{
		AccountID:         10,
		EnrollmentID:      20,
		EnrollmentCreated: true,
		CredentialIssued:  true,
	}, nil)

	rec := postWebhook(webhookRouter(executor), "razorpay", map[string]any{
		"status":   "success",
		"email":    "priya@example.com",
		"name":     "Priya",
		"amount":   4999,
		"order_id": "order_123",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())

	event := executor.Calls[0].Arguments.Get(1).(usecase.ConversionEvent)
	assert.Equal(t, "razorpay", event.Provider)
	assert.Equal(t, "order_123", event.PaymentRef)
	assert.NotNil(t, event.Amount)
	assert.Equal(t, 4999.0, *event.Amount)
}

func TestWebhookNonSuccessStatusIgnored(t *testing.T) {
	executor := new(MockConversionExecutor)

	rec := postWebhook(webhookRouter(executor), "razorpay", map[string]any{
		"status": "failed",
		"email":  "priya@example.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
	executor.AssertNotCalled(t, "Execute")
}

func TestWebhookBadJSON(t *testing.T) {
	executor := new(MockConversionExecutor)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/razorpay", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	webhookRouter(executor).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	executor.AssertNotCalled(t, "Execute")
}

func TestWebhookValidationErrorIs400(t *testing.T) {
	executor := new(MockConversionExecutor)
	executor.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.ValidationError{Field: "email", Message: "is invalid"})

	rec := postWebhook(webhookRouter(executor), "razorpay", map[string]any{
		"status": "success",
		"email":  "not-an-email",
	})

	// 4xx tells the provider not to retry a malformed event.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookPersistenceErrorIs500(t *testing.T) {
	executor := new(MockConversionExecutor)
	executor.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.PersistenceError{Op: "converting", Err: errors.New("connection reset")})

	rec := postWebhook(webhookRouter(executor), "razorpay", map[string]any{
		"status": "success",
		"email":  "priya@example.com",
	})

	// 5xx tells the provider to retry; the conversion is idempotent.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookAmountOmitted(t *testing.T) {
	executor := new(MockConversionExecutor)
	executor.On("Execute", mock.Anything, mock.Anything).Return(&usecase.ConversionResult{
		AccountID:    10,
		EnrollmentID: 20,
	}, nil)

	rec := postWebhook(webhookRouter(executor), "stripe", map[string]any{
		"status": "paid",
		"email":  "priya@example.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	event := executor.Calls[0].Arguments.Get(1).(usecase.ConversionEvent)
	assert.Nil(t, event.Amount)
	assert.Empty(t, event.PaymentRef)
}
