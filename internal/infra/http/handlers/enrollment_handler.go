package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pythonpro/coaching-backend/internal/entity"
	"github.com/pythonpro/coaching-backend/internal/infra/http/middleware"
	"github.com/pythonpro/coaching-backend/internal/usecase"
)

// LeadConverter is the admin-side conversion command.
type LeadConverter interface {
	ExecuteForLead(ctx context.Context, leadID, batchID int64) (*usecase.ConversionResult, error)
}

type EnrollmentHandler struct {
	Converter LeadConverter
	Log       *slog.Logger
}

func NewEnrollmentHandler(converter LeadConverter, log *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{Converter: converter, Log: log}
}

type enrollFromLeadRequest struct {
	LeadID  int64 `json:"lead_id"`
	BatchID int64 `json:"batch_id"`
}

type enrollFromLeadResponse struct {
	AccountID         int64  `json:"account_id"`
	EnrollmentID      int64  `json:"enrollment_id"`
	EnrollmentCreated bool   `json:"enrollment_created"`
	CredentialIssued  bool   `json:"credential_issued"`
	Course            string `json:"course"`
}

// EnrollFromLead converts a known lead into an enrolled student without a
// payment event. Re-running it for the same lead and batch is a no-op.
func (h *EnrollmentHandler) EnrollFromLead(w http.ResponseWriter, r *http.Request) {
	var req enrollFromLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	result, err := h.Converter.ExecuteForLead(r.Context(), req.LeadID, req.BatchID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrLeadNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		case usecase.IsValidationError(err):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			h.Log.Error("admin conversion failed", "lead_id", req.LeadID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "conversion failed"})
		}
		return
	}

	if result.EnrollmentCreated {
		middleware.RecordConversion()
	}

	writeJSON(w, http.StatusOK, enrollFromLeadResponse{
		AccountID:         result.AccountID,
		EnrollmentID:      result.EnrollmentID,
		EnrollmentCreated: result.EnrollmentCreated,
		CredentialIssued:  result.CredentialIssued,
		Course:            result.CourseName,
	})
}
