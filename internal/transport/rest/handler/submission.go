package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"caliper/internal/model"
	"caliper/internal/service"
)

// SubmissionHandler handles intake endpoints
type SubmissionHandler struct {
	intakeSvc     *service.IntakeService
	assessmentSvc *service.AssessmentService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(intakeSvc *service.IntakeService, assessmentSvc *service.AssessmentService) *SubmissionHandler {
	return &SubmissionHandler{
		intakeSvc:     intakeSvc,
		assessmentSvc: assessmentSvc,
	}
}

// Create handles POST /v1/submissions, intake from the collection UI.
// The draft assessment is scored in the same request; scoring is pure
// computation and adds no meaningful latency.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.intakeSvc.Submit(r.Context(), &sub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAnswers), errors.Is(err, service.ErrWrongInstrument):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateCase):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if _, err := h.assessmentSvc.ScoreCase(r.Context(), created.CaseID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"caseId": created.CaseID,
		"status": "draft_ready",
	})
}

// List handles GET /v1/submissions (reviewer only)
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.intakeSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if subs == nil {
		subs = []*model.Submission{}
	}

	writeJSON(w, http.StatusOK, subs)
}

// Get handles GET /v1/submissions/{caseId} (reviewer only)
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]

	sub, err := h.intakeSvc.GetByCaseID(r.Context(), caseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// Status handles GET /v1/submissions/{caseId}/status, the public polling
// endpoint for the intake UI.
func (h *SubmissionHandler) Status(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]

	status, err := h.assessmentSvc.Status(r.Context(), caseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if status == "" {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"caseId": caseID,
		"status": status,
	})
}
