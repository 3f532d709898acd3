package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"caliper/internal/model"
	"caliper/internal/repository"
	"caliper/internal/scoring"
)

var ErrNotApproved = errors.New("assessment not approved")

// Renderer turns an approved snapshot into a deliverable document.
// PDF layout lives outside this service.
type Renderer interface {
	Render(ctx context.Context, snapshot *model.ReportSnapshot) ([]byte, error)
}

// Mailer delivers a rendered report to the respondent.
// Email transport lives outside this service.
type Mailer interface {
	Send(ctx context.Context, recipient string, document []byte) error
}

// ReportService builds report snapshots for approved assessments: banded
// dimension scores with reviewer overrides applied, aggregate indices,
// consistency hits, and confidence.
type ReportService struct {
	assessmentRepo repository.AssessmentRepo
	submissionRepo repository.SubmissionRepo
	instrumentSvc  *InstrumentService
	renderer       Renderer
	mailer         Mailer
}

// NewReportService creates a new report service
func NewReportService(
	assessmentRepo repository.AssessmentRepo,
	submissionRepo repository.SubmissionRepo,
	instrumentSvc *InstrumentService,
) *ReportService {
	return &ReportService{
		assessmentRepo: assessmentRepo,
		submissionRepo: submissionRepo,
		instrumentSvc:  instrumentSvc,
	}
}

// SetRenderer attaches the external document renderer
func (s *ReportService) SetRenderer(r Renderer) {
	s.renderer = r
}

// SetMailer attaches the external delivery channel
func (s *ReportService) SetMailer(m Mailer) {
	s.mailer = m
}

// Snapshot assembles the report data for an approved case. Overrides take
// precedence over engine-computed dimension scores; banding is applied to
// whichever value is effective.
func (s *ReportService) Snapshot(ctx context.Context, caseID string) (*model.ReportSnapshot, error) {
	a, err := s.assessmentRepo.GetByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrCaseNotFound
	}
	if a.Status != model.AssessmentStatusApproved {
		return nil, ErrNotApproved
	}

	inst := s.instrumentSvc.Instrument()

	dimensions := make([]model.ReportDimension, 0, len(inst.Dimensions))
	for _, d := range inst.Dimensions {
		score := a.EffectiveDimensionScore(d.Code)
		_, overridden := a.Overrides[d.Code]
		dimensions = append(dimensions, model.ReportDimension{
			Code:       d.Code,
			Name:       d.Name,
			Score:      score,
			Band:       scoring.ClassifyBand(score, inst.Bands),
			Overridden: overridden,
		})
	}

	indices := make([]model.ReportIndex, 0, len(inst.AggregateIndices))
	for _, idx := range inst.AggregateIndices {
		score := a.Scoring.AggregateIndices[idx.Name]
		indices = append(indices, model.ReportIndex{
			Name:  idx.Name,
			Score: score,
			Band:  scoring.ClassifyBand(score, inst.Bands),
		})
	}

	snapshot := &model.ReportSnapshot{
		CaseID:          a.CaseID,
		InstrumentID:    inst.ID,
		InstrumentTitle: inst.Title,
		Dimensions:      dimensions,
		Indices:         indices,
		Hits:            a.Consistency.Hits,
		Confidence:      a.Consistency.Confidence,
		ReviewedBy:      a.ReviewedBy,
		GeneratedAt:     time.Now().UTC(),
	}
	if a.DecidedAt != nil {
		snapshot.ApprovedAt = *a.DecidedAt
	}

	if sub, err := s.submissionRepo.GetByCaseID(ctx, caseID); err == nil && sub != nil {
		snapshot.Respondent = sub.Respondent
	}

	return snapshot, nil
}

// Deliver renders and emails the report when both collaborators are
// configured. Missing collaborators are a deployment choice, not an error:
// the snapshot remains available over the API either way.
func (s *ReportService) Deliver(ctx context.Context, caseID, recipient string) error {
	if s.renderer == nil || s.mailer == nil {
		log.Printf("report delivery skipped for %s: renderer/mailer not configured", caseID)
		return nil
	}

	snapshot, err := s.Snapshot(ctx, caseID)
	if err != nil {
		return err
	}
	document, err := s.renderer.Render(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("render report %s: %w", caseID, err)
	}
	if err := s.mailer.Send(ctx, recipient, document); err != nil {
		return fmt.Errorf("deliver report %s: %w", caseID, err)
	}
	return nil
}
