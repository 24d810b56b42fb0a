package patients

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/httputil"
	"github.com/carebridge/hospital-api/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler handles patient CRUD endpoints.
type Handler struct {
	logger   *slog.Logger
	patients *repository.PatientsRepository
}

// NewHandler creates a new patients handler.
func NewHandler(logger *slog.Logger, patients *repository.PatientsRepository) *Handler {
	return &Handler{logger: logger, patients: patients}
}

// PatientRequest represents a create/update payload.
type PatientRequest struct {
	MRN         string `json:"mrn"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// Create registers a new patient.
// POST /v1/patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MRN == "" || req.FirstName == "" || req.LastName == "" {
		httputil.Error(w, http.StatusBadRequest, "mrn, first_name and last_name are required")
		return
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		return
	}

	now := time.Now()
	p := &domain.Patient{
		ID:          uuid.New(),
		MRN:         req.MRN,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.patients.Create(r.Context(), p); err != nil {
		h.logger.Error("failed to create patient", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create patient")
		return
	}
	httputil.JSON(w, http.StatusCreated, p)
}

// Get returns a patient by ID.
// GET /v1/patients/{patientID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.patients.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			httputil.Error(w, http.StatusNotFound, "patient not found")
			return
		}
		h.logger.Error("failed to load patient", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load patient")
		return
	}
	httputil.JSON(w, http.StatusOK, p)
}

// List returns patients with paging.
// GET /v1/patients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit > 200 {
		limit = 200
	}

	patients, err := h.patients.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"patients": patients})
}

// Update modifies a patient record.
// PUT /v1/patients/{patientID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.patients.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			httputil.Error(w, http.StatusNotFound, "patient not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, "failed to load patient")
		return
	}

	if req.FirstName != "" {
		p.FirstName = req.FirstName
	}
	if req.LastName != "" {
		p.LastName = req.LastName
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		p.DateOfBirth = dob
	}
	if req.Gender != "" {
		p.Gender = req.Gender
	}
	if req.Phone != "" {
		p.Phone = req.Phone
	}
	if req.Email != "" {
		p.Email = req.Email
	}
	if req.Address != "" {
		p.Address = req.Address
	}

	if err := h.patients.Update(r.Context(), p); err != nil {
		h.logger.Error("failed to update patient", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to update patient")
		return
	}
	httputil.JSON(w, http.StatusOK, p)
}

// Delete removes a patient record.
// DELETE /v1/patients/{patientID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.patients.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			httputil.Error(w, http.StatusNotFound, "patient not found")
			return
		}
		h.logger.Error("failed to delete patient", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete patient")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "patient deleted"})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}
