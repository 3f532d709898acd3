package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"caliper/internal/service"
	"caliper/internal/transport/rest/handler"
	"caliper/internal/transport/rest/middleware"
	"caliper/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	InstrumentService *service.InstrumentService
	IntakeService     *service.IntakeService
	AssessmentService *service.AssessmentService
	ApprovalService   *service.ApprovalService
	ReportService     *service.ReportService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	instrumentHandler := handler.NewInstrumentHandler(c.InstrumentService)
	submissionHandler := handler.NewSubmissionHandler(c.IntakeService, c.AssessmentService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.ApprovalService)
	reportHandler := handler.NewReportHandler(c.ReportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes: intake and status polling for the collection UI
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/submissions", submissionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/submissions/{caseId}/status", submissionHandler.Status).Methods("GET", "OPTIONS")

	// WebSocket review feed (token in query param)
	v1.HandleFunc("/ws/review", wsHandler.ReviewWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Reviewer routes (require reviewer auth)
	reviewerRoutes := v1.NewRoute().Subrouter()
	reviewerRoutes.Use(authMW.RequireReviewer)

	reviewerRoutes.HandleFunc("/instrument", instrumentHandler.Get).Methods("GET", "OPTIONS")
	reviewerRoutes.HandleFunc("/submissions", submissionHandler.List).Methods("GET", "OPTIONS")
	reviewerRoutes.HandleFunc("/submissions/{caseId}", submissionHandler.Get).Methods("GET", "OPTIONS")
	reviewerRoutes.HandleFunc("/assessments", assessmentHandler.List).Methods("GET", "OPTIONS")
	reviewerRoutes.HandleFunc("/assessments/{caseId}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	reviewerRoutes.HandleFunc("/assessments/{caseId}/rescore", assessmentHandler.Rescore).Methods("POST", "OPTIONS")
	reviewerRoutes.HandleFunc("/assessments/{caseId}/approve", assessmentHandler.Approve).Methods("POST", "OPTIONS")
	reviewerRoutes.HandleFunc("/assessments/{caseId}/reject", assessmentHandler.Reject).Methods("POST", "OPTIONS")
	reviewerRoutes.HandleFunc("/reports/{caseId}", reportHandler.GetSnapshot).Methods("GET", "OPTIONS")
	reviewerRoutes.HandleFunc("/reports/{caseId}/deliver", reportHandler.Deliver).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
