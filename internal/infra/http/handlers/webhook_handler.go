package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pythonpro/coaching-backend/internal/infra/http/middleware"
	"github.com/pythonpro/coaching-backend/internal/usecase"
)

// ConversionExecutor is what the webhook needs from the conversion flow.
type ConversionExecutor interface {
	Execute(ctx context.Context, event usecase.ConversionEvent) (*usecase.ConversionResult, error)
}

type WebhookHandler struct {
	Converter ConversionExecutor
	Log       *slog.Logger
}

func NewWebhookHandler(converter ConversionExecutor, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{Converter: converter, Log: log}
}

type webhookPayload struct {
	Status  string   `json:"status"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Amount  *float64 `json:"amount"`
	OrderID string   `json:"order_id"`
}

// Handle processes one provider delivery. Anything but a success status is
// acknowledged and dropped; a 5xx tells the provider to retry later, which
// the idempotent conversion flow tolerates.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	provider := strings.ToLower(chi.URLParam(r, "provider"))

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.RecordPayment(provider, "bad_request")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if !isSuccessStatus(payload.Status) {
		h.Log.Info("ignoring non-success webhook",
			"provider", provider,
			"status", payload.Status,
			"order_id", payload.OrderID)
		middleware.RecordPayment(provider, "ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	result, err := h.Converter.Execute(r.Context(), usecase.ConversionEvent{
		Email:      payload.Email,
		Name:       payload.Name,
		Provider:   provider,
		Amount:     payload.Amount,
		PaymentRef: payload.OrderID,
	})
	if err != nil {
		if usecase.IsValidationError(err) {
			middleware.RecordPayment(provider, "bad_request")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.Log.Error("webhook conversion failed",
			"provider", provider,
			"order_id", payload.OrderID,
			"error", err)
		middleware.RecordPayment(provider, "error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "conversion failed"})
		return
	}

	middleware.RecordPayment(provider, "success")
	if result.EnrollmentCreated {
		middleware.RecordConversion()
	}

	h.Log.Info("webhook converted",
		"provider", provider,
		"account_id", result.AccountID,
		"enrollment_id", result.EnrollmentID,
		"enrollment_created", result.EnrollmentCreated)

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func isSuccessStatus(status string) bool {
	switch strings.ToLower(status) {
	case "success", "captured", "paid", "completed":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
