package handler

import (
	"net/http"

	"caliper/internal/service"
)

// InstrumentHandler exposes the loaded instrument definition
type InstrumentHandler struct {
	instrumentSvc *service.InstrumentService
}

// NewInstrumentHandler creates a new instrument handler
func NewInstrumentHandler(instrumentSvc *service.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{instrumentSvc: instrumentSvc}
}

// Get handles GET /v1/instrument, the active instrument (read-only)
func (h *InstrumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.instrumentSvc.Instrument())
}
