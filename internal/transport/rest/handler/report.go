package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"caliper/internal/service"
	"caliper/internal/transport/rest/middleware"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// DeliverRequest is the body for report delivery
type DeliverRequest struct {
	Recipient string `json:"recipient"`
}

// GetSnapshot handles GET /v1/reports/{caseId}
func (h *ReportHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	if middleware.GetReviewerID(r.Context()) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	snapshot, err := h.reportSvc.Snapshot(r.Context(), caseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotApproved):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Deliver handles POST /v1/reports/{caseId}/deliver
func (h *ReportHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseId"]
	if middleware.GetReviewerID(r.Context()) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DeliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Recipient == "" {
		writeError(w, http.StatusBadRequest, "recipient required")
		return
	}

	if err := h.reportSvc.Deliver(r.Context(), caseID, req.Recipient); err != nil {
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotApproved):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "delivering"})
}
