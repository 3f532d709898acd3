package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"caliper/internal/cache"
	"caliper/internal/model"
	"caliper/internal/repository"
)

var (
	ErrNoDraft         = errors.New("no draft assessment for case")
	ErrUnknownOverride = errors.New("override references unknown dimension")
)

// ApprovalService is the human gate between engine drafts and rendered
// reports. Reviewers may override individual dimension scores; overrides
// are recorded alongside the engine values and never trigger recomputation.
type ApprovalService struct {
	assessmentRepo repository.AssessmentRepo
	statusCache    cache.StatusCache
	instrumentSvc  *InstrumentService
	broadcaster    Broadcaster
}

// NewApprovalService creates a new approval service
func NewApprovalService(
	assessmentRepo repository.AssessmentRepo,
	statusCache cache.StatusCache,
	instrumentSvc *InstrumentService,
) *ApprovalService {
	return &ApprovalService{
		assessmentRepo: assessmentRepo,
		statusCache:    statusCache,
		instrumentSvc:  instrumentSvc,
	}
}

// SetBroadcaster sets the broadcaster for review-feed events
func (s *ApprovalService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Approve finalizes a draft, optionally with per-dimension overrides
func (s *ApprovalService) Approve(ctx context.Context, caseID, reviewerID string, overrides map[string]float64, note string) (*model.Assessment, error) {
	a, err := s.draftFor(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		known := make(map[string]bool)
		for _, d := range s.instrumentSvc.Instrument().Dimensions {
			known[d.Code] = true
		}
		for code := range overrides {
			if !known[code] {
				return nil, fmt.Errorf("%w: %s", ErrUnknownOverride, code)
			}
		}
		a.Overrides = overrides
	}

	now := time.Now().UTC()
	a.Status = model.AssessmentStatusApproved
	a.ReviewedBy = reviewerID
	a.ReviewNote = note
	a.DecidedAt = &now

	if err := s.assessmentRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("approve %s: %w", caseID, err)
	}
	// The decision is committed; a stale status cache only delays polling.
	if err := s.statusCache.SetStatus(ctx, caseID, cache.StatusApproved); err != nil {
		log.Printf("set status for %s: %v", caseID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToReviewers(a.InstrumentID, "case_approved", map[string]string{
			"caseId":     caseID,
			"reviewerId": reviewerID,
		})
	}

	return a, nil
}

// Reject closes a draft without a report
func (s *ApprovalService) Reject(ctx context.Context, caseID, reviewerID, note string) (*model.Assessment, error) {
	a, err := s.draftFor(ctx, caseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a.Status = model.AssessmentStatusRejected
	a.ReviewedBy = reviewerID
	a.ReviewNote = note
	a.DecidedAt = &now

	if err := s.assessmentRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("reject %s: %w", caseID, err)
	}
	if err := s.statusCache.SetStatus(ctx, caseID, cache.StatusRejected); err != nil {
		log.Printf("set status for %s: %v", caseID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToReviewers(a.InstrumentID, "case_rejected", map[string]string{
			"caseId":     caseID,
			"reviewerId": reviewerID,
		})
	}

	return a, nil
}

func (s *ApprovalService) draftFor(ctx context.Context, caseID string) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNoDraft
	}
	if a.Status != model.AssessmentStatusDraft {
		return nil, ErrAssessmentFinal
	}
	return a, nil
}
