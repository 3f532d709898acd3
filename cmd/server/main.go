package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caliper/internal/cache"
	"caliper/internal/config"
	"caliper/internal/repository"
	"caliper/internal/service"
	"caliper/internal/transport/rest"
	"caliper/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	instrumentRepo := repository.NewInstrumentRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)

	// Initialize caches
	resultCache := cache.NewResultCache(rdb)
	statusCache := cache.NewStatusCache(rdb)

	// Initialize services. The instrument loads once here and is shared
	// read-only for the life of the process; a broken instrument is a
	// broken deployment, so failing to load is fatal.
	authSvc := service.NewAuthService()
	instrumentSvc := service.NewInstrumentService(instrumentRepo)
	if err := instrumentSvc.Load(ctx, cfg.InstrumentID); err != nil {
		log.Fatal("Failed to load instrument: ", err)
	}

	intakeSvc := service.NewIntakeService(submissionRepo, resultCache, statusCache, instrumentSvc)
	assessmentSvc := service.NewAssessmentService(submissionRepo, assessmentRepo, resultCache, statusCache, instrumentSvc)
	approvalSvc := service.NewApprovalService(assessmentRepo, statusCache, instrumentSvc)
	reportSvc := service.NewReportService(assessmentRepo, submissionRepo, instrumentSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	intakeSvc.SetBroadcaster(wsHub)
	assessmentSvc.SetBroadcaster(wsHub)
	approvalSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		InstrumentService: instrumentSvc,
		IntakeService:     intakeSvc,
		AssessmentService: assessmentSvc,
		ApprovalService:   approvalSvc,
		ReportService:     reportSvc,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Active instrument: %s", cfg.InstrumentID)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/submissions")
		log.Println("  GET  /v1/submissions/{caseId}/status")
		log.Println("  GET  /v1/assessments")
		log.Println("  POST /v1/assessments/{caseId}/approve")
		log.Println("  GET  /v1/reports/{caseId}")
		log.Println("  WS   /v1/ws/review")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
