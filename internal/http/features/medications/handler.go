package medications

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/http/middleware"
	"github.com/carebridge/hospital-api/internal/httputil"
	"github.com/carebridge/hospital-api/internal/medication"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler handles medication endpoints under a patient.
type Handler struct {
	logger *slog.Logger
	svc    *medication.Service
	store  medication.MedicationStore
}

// NewHandler creates a new medications handler.
func NewHandler(logger *slog.Logger, svc *medication.Service, store medication.MedicationStore) *Handler {
	return &Handler{logger: logger, svc: svc, store: store}
}

// PrescriptionRequest represents a prescription create/update payload.
type PrescriptionRequest struct {
	DrugName              string `json:"drug_name"`
	Dose                  string `json:"dose"`
	Frequency             string `json:"frequency"`
	Duration              string `json:"duration"`
	Route                 string `json:"route"`
	Override              bool   `json:"override"`
	OverrideJustification string `json:"override_justification"`
}

// List returns a patient's medications.
// GET /v1/patients/{patientID}/medications
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	meds, err := h.store.FindAllByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list medications", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list medications")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"medications": meds})
}

// Create writes a prescription after conflict evaluation. Conflicting
// candidates are rejected with 409 unless the doctor overrides.
// POST /v1/patients/{patientID}/medications
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	doctorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req PrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.CreatePrescription(r.Context(), patientID, doctorID, medication.Candidate{
		DrugName:  req.DrugName,
		Dose:      req.Dose,
		Frequency: req.Frequency,
		Duration:  req.Duration,
		Route:     req.Route,
	}, req.Override, req.OverrideJustification)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create prescription", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create prescription")
		return
	}

	writeResult(w, result, http.StatusCreated)
}

// Update re-evaluates conflicts against the patient's other current
// medications before applying the change.
// PUT /v1/patients/{patientID}/medications/{medicationID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	medicationID, err := uuid.Parse(chi.URLParam(r, "medicationID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid medication id")
		return
	}
	doctorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req PrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.UpdateMedication(r.Context(), patientID, doctorID, medicationID, medication.Candidate{
		DrugName:  req.DrugName,
		Dose:      req.Dose,
		Frequency: req.Frequency,
		Duration:  req.Duration,
		Route:     req.Route,
	}, req.Override, req.OverrideJustification)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrMedicationNotFound):
			httputil.Error(w, http.StatusNotFound, "medication not found")
		default:
			h.logger.Error("failed to update medication", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to update medication")
		}
		return
	}

	writeResult(w, result, http.StatusOK)
}

func writeResult(w http.ResponseWriter, result *medication.Result, savedStatus int) {
	body := map[string]any{
		"conflicts":         result.Conflicts,
		"conflict_messages": result.Messages,
		"prescription":      result.Prescription,
	}
	if result.Conflicts && result.Prescription == nil {
		httputil.JSON(w, http.StatusConflict, body)
		return
	}
	httputil.JSON(w, savedStatus, body)
}
