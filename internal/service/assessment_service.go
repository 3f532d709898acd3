package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"caliper/internal/cache"
	"caliper/internal/model"
	"caliper/internal/repository"
)

var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrAssessmentFinal = errors.New("assessment already decided")
)

// AssessmentService runs the engine over stored submissions and manages
// the resulting drafts. A draft is derived data: rescoring regenerates it
// from the submission, but a decided assessment is immutable.
type AssessmentService struct {
	submissionRepo repository.SubmissionRepo
	assessmentRepo repository.AssessmentRepo
	resultCache    cache.ResultCache
	statusCache    cache.StatusCache
	instrumentSvc  *InstrumentService
	broadcaster    Broadcaster
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	submissionRepo repository.SubmissionRepo,
	assessmentRepo repository.AssessmentRepo,
	resultCache cache.ResultCache,
	statusCache cache.StatusCache,
	instrumentSvc *InstrumentService,
) *AssessmentService {
	return &AssessmentService{
		submissionRepo: submissionRepo,
		assessmentRepo: assessmentRepo,
		resultCache:    resultCache,
		statusCache:    statusCache,
		instrumentSvc:  instrumentSvc,
	}
}

// SetBroadcaster sets the broadcaster for review-feed events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ScoreCase scores one submission into a draft assessment. Safe to call
// again for the same case while it is still a draft; each call regenerates
// the derived results in full.
func (s *AssessmentService) ScoreCase(ctx context.Context, caseID string) (*model.Assessment, error) {
	sub, err := s.submissionRepo.GetByCaseID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", caseID, err)
	}
	if sub == nil {
		return nil, ErrCaseNotFound
	}

	existing, err := s.assessmentRepo.GetByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != model.AssessmentStatusDraft {
		return nil, ErrAssessmentFinal
	}

	engine := s.instrumentSvc.Engine()
	scoringResult := engine.Score(sub)
	consistencyResult := engine.CheckConsistency(sub)

	assessment := &model.Assessment{
		CaseID:       caseID,
		InstrumentID: sub.InstrumentID,
		Status:       model.AssessmentStatusDraft,
		Scoring:      *scoringResult,
		Consistency:  *consistencyResult,
	}
	if existing != nil {
		assessment.ID = existing.ID
		assessment.CreatedAt = existing.CreatedAt
	}

	if err := s.assessmentRepo.UpsertDraft(ctx, assessment); err != nil {
		return nil, fmt.Errorf("persist draft %s: %w", caseID, err)
	}

	// Cache failures only cost later reads a Mongo round trip.
	if err := s.resultCache.SetScoring(ctx, scoringResult); err != nil {
		log.Printf("cache scoring for %s: %v", caseID, err)
	}
	if err := s.resultCache.SetConsistency(ctx, consistencyResult); err != nil {
		log.Printf("cache consistency for %s: %v", caseID, err)
	}
	if err := s.statusCache.SetStatus(ctx, caseID, cache.StatusDraftReady); err != nil {
		log.Printf("set status for %s: %v", caseID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToReviewers(sub.InstrumentID, "draft_ready", map[string]interface{}{
			"caseId":     caseID,
			"confidence": consistencyResult.Confidence,
			"hits":       len(consistencyResult.Hits),
		})
	}

	return assessment, nil
}

// GetByCaseID retrieves the assessment for a case
func (s *AssessmentService) GetByCaseID(ctx context.Context, caseID string) (*model.Assessment, error) {
	return s.assessmentRepo.GetByCaseID(ctx, caseID)
}

// GetScoring returns the engine output for a case, preferring the cache
func (s *AssessmentService) GetScoring(ctx context.Context, caseID string) (*model.ScoringResult, error) {
	if cached, err := s.resultCache.GetScoring(ctx, caseID); err == nil && cached != nil {
		return cached, nil
	}
	a, err := s.assessmentRepo.GetByCaseID(ctx, caseID)
	if err != nil || a == nil {
		return nil, err
	}
	return &a.Scoring, nil
}

// ListDrafts returns pending drafts for the review queue
func (s *AssessmentService) ListDrafts(ctx context.Context, instrumentID string) ([]*model.Assessment, error) {
	return s.assessmentRepo.ListByStatus(ctx, instrumentID, model.AssessmentStatusDraft)
}

// Status reports the pipeline stage for a case. The status cache is an
// accelerator; cache errors fall through to the assessment record.
func (s *AssessmentService) Status(ctx context.Context, caseID string) (string, error) {
	status, err := s.statusCache.GetStatus(ctx, caseID)
	if err != nil {
		log.Printf("get status for %s: %v", caseID, err)
	} else if status != "" {
		return status, nil
	}
	a, err := s.assessmentRepo.GetByCaseID(ctx, caseID)
	if err != nil || a == nil {
		return "", err
	}
	return string(a.Status), nil
}
