package allergies

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/httputil"
	"github.com/carebridge/hospital-api/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler handles allergy endpoints under a patient.
type Handler struct {
	logger    *slog.Logger
	allergies *repository.AllergiesRepository
}

// NewHandler creates a new allergies handler.
func NewHandler(logger *slog.Logger, allergies *repository.AllergiesRepository) *Handler {
	return &Handler{logger: logger, allergies: allergies}
}

// AllergyRequest represents a create payload.
type AllergyRequest struct {
	Substance string `json:"substance"`
	Severity  string `json:"severity"`
	Reaction  string `json:"reaction"`
}

// List returns a patient's allergies.
// GET /v1/patients/{patientID}/allergies
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	list, err := h.allergies.FindAllByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list allergies", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list allergies")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"allergies": list})
}

// Create records an allergy.
// POST /v1/patients/{patientID}/allergies
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	var req AllergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Substance == "" {
		httputil.Error(w, http.StatusBadRequest, "substance is required")
		return
	}

	a := &domain.Allergy{
		ID:        uuid.New(),
		PatientID: patientID,
		Substance: req.Substance,
		Severity:  req.Severity,
		Reaction:  req.Reaction,
		CreatedAt: time.Now(),
	}
	if err := h.allergies.Create(r.Context(), a); err != nil {
		h.logger.Error("failed to create allergy", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create allergy")
		return
	}
	httputil.JSON(w, http.StatusCreated, a)
}

// Delete removes an allergy record.
// DELETE /v1/patients/{patientID}/allergies/{allergyID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "allergyID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid allergy id")
		return
	}

	if err := h.allergies.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAllergyNotFound) {
			httputil.Error(w, http.StatusNotFound, "allergy not found")
			return
		}
		h.logger.Error("failed to delete allergy", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete allergy")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "allergy deleted"})
}
