package service

import (
	"context"
	"sync"

	"caliper/internal/model"
)

// In-memory fakes for the repo and cache interfaces so service behavior can
// be exercised without Mongo or Redis.

type fakeInstrumentRepo struct {
	inst *model.Instrument
}

func (f *fakeInstrumentRepo) GetByID(ctx context.Context, id string) (*model.Instrument, error) {
	if f.inst == nil || f.inst.ID != id {
		return nil, nil
	}
	return f.inst, nil
}

func (f *fakeInstrumentRepo) Upsert(ctx context.Context, inst *model.Instrument) error {
	f.inst = inst
	return nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: make(map[string]*model.Submission)}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.CaseID] = sub
	return nil
}

func (f *fakeSubmissionRepo) GetByCaseID(ctx context.Context, caseID string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[caseID], nil
}

func (f *fakeSubmissionRepo) ListByInstrument(ctx context.Context, instrumentID string) ([]*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Submission
	for _, s := range f.subs {
		if s.InstrumentID == instrumentID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAssessmentRepo struct {
	mu     sync.Mutex
	byCase map[string]*model.Assessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{byCase: make(map[string]*model.Assessment)}
}

func (f *fakeAssessmentRepo) UpsertDraft(ctx context.Context, a *model.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = "as_" + a.CaseID
	}
	cp := *a
	f.byCase[a.CaseID] = &cp
	return nil
}

func (f *fakeAssessmentRepo) GetByCaseID(ctx context.Context, caseID string) (*model.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byCase[caseID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssessmentRepo) Update(ctx context.Context, a *model.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.byCase[a.CaseID] = &cp
	return nil
}

func (f *fakeAssessmentRepo) ListByStatus(ctx context.Context, instrumentID string, status model.AssessmentStatus) ([]*model.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Assessment
	for _, a := range f.byCase {
		if a.Status != status {
			continue
		}
		if instrumentID != "" && a.InstrumentID != instrumentID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

type fakeResultCache struct {
	mu          sync.Mutex
	scoring     map[string]*model.ScoringResult
	consistency map[string]*model.ConsistencyResult
	writeErr    error // returned by every write when set
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{
		scoring:     make(map[string]*model.ScoringResult),
		consistency: make(map[string]*model.ConsistencyResult),
	}
}

func (f *fakeResultCache) GetScoring(ctx context.Context, caseID string) (*model.ScoringResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scoring[caseID], nil
}

func (f *fakeResultCache) SetScoring(ctx context.Context, r *model.ScoringResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.scoring[r.CaseID] = r
	return nil
}

func (f *fakeResultCache) GetConsistency(ctx context.Context, caseID string) (*model.ConsistencyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consistency[caseID], nil
}

func (f *fakeResultCache) SetConsistency(ctx context.Context, r *model.ConsistencyResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.consistency[r.CaseID] = r
	return nil
}

func (f *fakeResultCache) Invalidate(ctx context.Context, caseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	delete(f.scoring, caseID)
	delete(f.consistency, caseID)
	return nil
}

type fakeStatusCache struct {
	mu     sync.Mutex
	m      map[string]string
	setErr error // returned by SetStatus when set
	getErr error // returned by GetStatus when set
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{m: make(map[string]string)}
}

func (f *fakeStatusCache) SetStatus(ctx context.Context, caseID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.m[caseID] = status
	return nil
}

func (f *fakeStatusCache) GetStatus(ctx context.Context, caseID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.m[caseID], nil
}

type broadcastEvent struct {
	instrumentID string
	msgType      string
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (f *fakeBroadcaster) BroadcastToReviewers(instrumentID string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcastEvent{instrumentID, msgType})
}

func (f *fakeBroadcaster) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.msgType
	}
	return out
}

func testInstrument() *model.Instrument {
	return &model.Instrument{
		ID:      "probity-v1",
		Version: "1.0",
		Title:   "Decision Probity Assessment",
		Dimensions: []model.Dimension{
			{Code: "DI", Name: "Decision Integrity"},
			{Code: "AC", Name: "Accountability"},
			{Code: "TR", Name: "Transparency"},
		},
		Questions: []model.Question{
			{ID: "DI-1", Dimension: "DI", Type: model.QuestionTypeLikert5},
			{ID: "DI-2", Dimension: "DI", Type: model.QuestionTypeLikert5, ReverseScored: true},
			{ID: "AC-1", Dimension: "AC", Type: model.QuestionTypeLikert5},
			{ID: "TR-1", Dimension: "TR", Type: model.QuestionTypeMultipleChoice, Options: []model.Option{
				{Value: "yes", Score: 5}, {Value: "no", Score: 1},
			}},
		},
		Bands: []model.Band{
			{Label: "Risk Zone", UpperBound: 2.5},
			{Label: "Developing", UpperBound: 3.5},
			{Label: "Sound", UpperBound: 5},
		},
		AggregateIndices: []model.AggregateIndex{
			{Name: "overall", Dimensions: []string{"DI", "AC", "TR"}},
		},
		ConsistencyRules: []model.Rule{
			{
				ID: "CR-1", Kind: model.RuleKindContradictionPair,
				Title:    "Integrity contradiction",
				Severity: model.SeverityMedium,
				If:       []model.Predicate{{QuestionID: "DI-1", GteLikert: intPtr(4)}},
				And:      []model.Predicate{{QuestionID: "TR-1", Equals: strPtr("no")}},
				Message:  "High integrity rating contradicts reported opacity.",
			},
		},
		Confidence: model.ConfidenceConfig{
			Base:  0.85,
			Floor: 0.40,
			PenaltyBySeverity: map[model.Severity]float64{
				model.SeverityLow:    0.03,
				model.SeverityMedium: 0.06,
				model.SeverityHigh:   0.12,
			},
		},
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
