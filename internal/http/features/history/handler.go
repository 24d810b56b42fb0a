package history

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/httputil"
	"github.com/carebridge/hospital-api/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler handles medical history endpoints under a patient.
type Handler struct {
	logger  *slog.Logger
	history *repository.HistoryRepository
}

// NewHandler creates a new history handler.
func NewHandler(logger *slog.Logger, history *repository.HistoryRepository) *Handler {
	return &Handler{logger: logger, history: history}
}

// EntryRequest represents a create payload.
type EntryRequest struct {
	Condition   string `json:"condition"`
	Details     string `json:"details"`
	DiagnosedAt string `json:"diagnosed_at,omitempty"` // YYYY-MM-DD
	ResolvedAt  string `json:"resolved_at,omitempty"`  // YYYY-MM-DD
}

// List returns a patient's medical history.
// GET /v1/patients/{patientID}/history
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	entries, err := h.history.FindAllByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"history": entries})
}

// Create records a history entry.
// POST /v1/patients/{patientID}/history
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Condition == "" {
		httputil.Error(w, http.StatusBadRequest, "condition is required")
		return
	}

	entry := &domain.MedicalHistoryEntry{
		ID:        uuid.New(),
		PatientID: patientID,
		Condition: req.Condition,
		Details:   req.Details,
		CreatedAt: time.Now(),
	}
	if req.DiagnosedAt != "" {
		t, err := time.Parse("2006-01-02", req.DiagnosedAt)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "diagnosed_at must be YYYY-MM-DD")
			return
		}
		entry.DiagnosedAt = &t
	}
	if req.ResolvedAt != "" {
		t, err := time.Parse("2006-01-02", req.ResolvedAt)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "resolved_at must be YYYY-MM-DD")
			return
		}
		entry.ResolvedAt = &t
	}

	if err := h.history.Create(r.Context(), entry); err != nil {
		h.logger.Error("failed to create history entry", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create history entry")
		return
	}
	httputil.JSON(w, http.StatusCreated, entry)
}
