package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/carebridge/hospital-api/internal/http/middleware"
	"github.com/carebridge/hospital-api/internal/httputil"
	"github.com/carebridge/hospital-api/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler handles chart note endpoints under a patient.
type Handler struct {
	logger *slog.Logger
	notes  *repository.NotesRepository
}

// NewHandler creates a new notes handler.
func NewHandler(logger *slog.Logger, notes *repository.NotesRepository) *Handler {
	return &Handler{logger: logger, notes: notes}
}

// NoteRequest represents a create/update payload.
type NoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// List returns a patient's notes.
// GET /v1/patients/{patientID}/notes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	list, err := h.notes.FindAllByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list notes", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"notes": list})
}

// Create records a note authored by the authenticated user.
// POST /v1/patients/{patientID}/notes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	authorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		httputil.Error(w, http.StatusBadRequest, "body is required")
		return
	}

	now := time.Now()
	n := &domain.MedicalNote{
		ID:        uuid.New(),
		PatientID: patientID,
		AuthorID:  authorID,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.notes.Create(r.Context(), n); err != nil {
		h.logger.Error("failed to create note", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to create note")
		return
	}
	httputil.JSON(w, http.StatusCreated, n)
}

// Delete removes a note.
// DELETE /v1/patients/{patientID}/notes/{noteID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid note id")
		return
	}

	if err := h.notes.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			httputil.Error(w, http.StatusNotFound, "note not found")
			return
		}
		h.logger.Error("failed to delete note", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}
