package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pythonpro/coaching-backend/internal/entity"
	"github.com/pythonpro/coaching-backend/internal/infra/http/middleware"
	"github.com/pythonpro/coaching-backend/internal/infra/notify"
	"github.com/pythonpro/coaching-backend/internal/usecase"
)

type LeadHandler struct {
	Capture     *usecase.CaptureLeadUseCase
	Leads       usecase.LeadRepository
	Logs        usecase.CommunicationLogRepository
	Dispatcher  *notify.Dispatcher
	Log         *slog.Logger
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	capture *usecase.CaptureLeadUseCase,
	leads usecase.LeadRepository,
	logs usecase.CommunicationLogRepository,
	dispatcher *notify.Dispatcher,
	log *slog.Logger,
) *LeadHandler {
	return &LeadHandler{
		Capture:     capture,
		Leads:       leads,
		Logs:        logs,
		Dispatcher:  dispatcher,
		Log:         log,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type captureLeadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	City     string `json:"city,omitempty"`
	Role     string `json:"role,omitempty"`
	CourseID *int64 `json:"course_id,omitempty"`
}

// CaptureLead handles the public intake form.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "too many requests, please try again later",
		})
		return
	}

	var req captureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	lead, err := h.Capture.Execute(r.Context(), usecase.CaptureLeadInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		City:     req.City,
		Role:     req.Role,
		CourseID: req.CourseID,
	})
	if err != nil {
		if usecase.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.Log.Error("lead capture failed", "email", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to capture lead"})
		return
	}

	middleware.RecordLeadCaptured()
	writeJSON(w, http.StatusCreated, lead)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus applies a manual lifecycle transition to a lead.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID, err := leadIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	lead, err := h.Capture.UpdateLeadStatus(r.Context(), leadID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrLeadNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		case usecase.IsValidationError(err):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			h.Log.Error("lead status update failed", "lead_id", leadID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		}
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// ListCommunications returns a lead's communication history, newest first.
func (h *LeadHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	leadID, err := leadIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead id"})
		return
	}

	if _, err := h.Leads.FindByID(r.Context(), leadID); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
			return
		}
		h.Log.Error("lead lookup failed", "lead_id", leadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}

	logs, err := h.Logs.ListByLead(r.Context(), leadID)
	if err != nil {
		h.Log.Error("listing communications failed", "lead_id", leadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing failed"})
		return
	}
	if logs == nil {
		logs = []entity.CommunicationLog{}
	}

	writeJSON(w, http.StatusOK, logs)
}

// TriggerCall kicks off an outbound voice call to a lead.
func (h *LeadHandler) TriggerCall(w http.ResponseWriter, r *http.Request) {
	leadID, err := leadIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead id"})
		return
	}

	lead, err := h.Leads.FindByID(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
			return
		}
		h.Log.Error("lead lookup failed", "lead_id", leadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		return
	}
	if lead.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lead has no phone number"})
		return
	}

	res := h.Dispatcher.Dispatch(r.Context(), entity.ChannelCall, lead.ID, lead.Phone, "followup_call", map[string]string{
		"name": lead.Name,
	})
	middleware.RecordNotification(res.Channel, res.Status)

	code := http.StatusOK
	if res.Status == notify.StatusError {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, res)
}

func leadIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
