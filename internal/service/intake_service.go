package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"caliper/internal/cache"
	"caliper/internal/model"
	"caliper/internal/repository"
)

var (
	ErrNoAnswers       = errors.New("submission has no answers")
	ErrWrongInstrument = errors.New("submission targets a different instrument")
	ErrDuplicateCase   = errors.New("case already submitted")
)

// IntakeService accepts submissions from the external collection UI. The
// intake schema is fixed: payloads either conform or are rejected, there is
// no field-name guessing.
type IntakeService struct {
	submissionRepo repository.SubmissionRepo
	resultCache    cache.ResultCache
	statusCache    cache.StatusCache
	instrumentSvc  *InstrumentService
	broadcaster    Broadcaster
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	submissionRepo repository.SubmissionRepo,
	resultCache cache.ResultCache,
	statusCache cache.StatusCache,
	instrumentSvc *InstrumentService,
) *IntakeService {
	return &IntakeService{
		submissionRepo: submissionRepo,
		resultCache:    resultCache,
		statusCache:    statusCache,
		instrumentSvc:  instrumentSvc,
	}
}

// SetBroadcaster sets the broadcaster for review-feed events
func (s *IntakeService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit validates and persists one submission, assigning a case ID when
// the intake layer did not. Submissions are immutable once stored.
func (s *IntakeService) Submit(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	inst := s.instrumentSvc.Instrument()
	if sub.InstrumentID != "" && sub.InstrumentID != inst.ID {
		return nil, ErrWrongInstrument
	}
	sub.InstrumentID = inst.ID

	if len(sub.Answers) == 0 {
		return nil, ErrNoAnswers
	}

	if sub.CaseID == "" {
		sub.CaseID = "case_" + uuid.New().String()[:12]
	} else {
		existing, err := s.submissionRepo.GetByCaseID(ctx, sub.CaseID)
		if err != nil {
			return nil, fmt.Errorf("check case %s: %w", sub.CaseID, err)
		}
		if existing != nil {
			return nil, ErrDuplicateCase
		}
	}
	sub.SubmittedAt = time.Now().UTC()

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("persist submission %s: %w", sub.CaseID, err)
	}

	// The submission is committed; cache trouble must not fail the intake.
	// A fresh case can't have stale results, but a retried intake might.
	if err := s.resultCache.Invalidate(ctx, sub.CaseID); err != nil {
		log.Printf("invalidate results for %s: %v", sub.CaseID, err)
	}
	if err := s.statusCache.SetStatus(ctx, sub.CaseID, cache.StatusReceived); err != nil {
		log.Printf("set status for %s: %v", sub.CaseID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToReviewers(inst.ID, "case_received", map[string]string{
			"caseId": sub.CaseID,
		})
	}

	return sub, nil
}

// GetByCaseID retrieves a stored submission
func (s *IntakeService) GetByCaseID(ctx context.Context, caseID string) (*model.Submission, error) {
	return s.submissionRepo.GetByCaseID(ctx, caseID)
}

// List returns every submission received for the active instrument
func (s *IntakeService) List(ctx context.Context) ([]*model.Submission, error) {
	return s.submissionRepo.ListByInstrument(ctx, s.instrumentSvc.Instrument().ID)
}
