package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"caliper/internal/service"
	"caliper/internal/transport/rest/middleware"
)

// AssessmentHandler handles draft review endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	approvalSvc   *service.ApprovalService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, approvalSvc *service.ApprovalService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentSvc: assessmentSvc,
		approvalSvc:   approvalSvc,
	}
}

// DecisionRequest is the body for approve/reject calls
type DecisionRequest struct {
	Overrides map[string]float64 `json:"overrides,omitempty"`
	Note      string             `json:"note,omitempty"`
}

// List handles GET /v1/assessments?status=draft
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.assessmentSvc.ListDrafts(r.Context(), r.URL.Query().Get("instrumentId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

// Get handles GET /v1/assessments/{caseId}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]

	a, err := h.assessmentSvc.GetByCaseID(r.Context(), caseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Rescore handles POST /v1/assessments/{caseId}/rescore
func (h *AssessmentHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]

	a, err := h.assessmentSvc.ScoreCase(r.Context(), caseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssessmentFinal):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Approve handles POST /v1/assessments/{caseId}/approve
func (h *AssessmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	reviewerID := middleware.GetReviewerID(r.Context())
	if reviewerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DecisionRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	a, err := h.approvalSvc.Approve(r.Context(), caseID, reviewerID, req.Overrides, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDraft):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssessmentFinal):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrUnknownOverride):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Reject handles POST /v1/assessments/{caseId}/reject
func (h *AssessmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	reviewerID := middleware.GetReviewerID(r.Context())
	if reviewerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DecisionRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	a, err := h.approvalSvc.Reject(r.Context(), caseID, reviewerID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDraft):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssessmentFinal):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, a)
}
