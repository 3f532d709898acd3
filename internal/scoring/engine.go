package scoring

import (
	"fmt"
	"time"

	"caliper/internal/model"
)

// Engine scores submissions against one immutable instrument. It holds no
// per-call state, so a single engine is safe to share across concurrent
// scoring calls.
type Engine struct {
	inst      *model.Instrument
	questions map[string]model.Question
}

// NewEngine validates the instrument and builds the question lookup.
// Validation failures are deployment problems and surface immediately
// rather than degrading individual scores later.
func NewEngine(inst *model.Instrument) (*Engine, error) {
	if inst == nil {
		return nil, fmt.Errorf("scoring: nil instrument")
	}
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("scoring: invalid instrument: %w", err)
	}
	return &Engine{
		inst:      inst,
		questions: inst.QuestionIndex(),
	}, nil
}

// Instrument exposes the engine's read-only instrument
func (e *Engine) Instrument() *model.Instrument {
	return e.inst
}

// Score normalizes every answer, aggregates per-dimension means and the
// instrument's named indices. One synchronous pass, no I/O; malformed or
// missing answers degrade to nil scores instead of failing the call.
func (e *Engine) Score(sub *model.Submission) *model.ScoringResult {
	answers := sub.AnswersByQuestion()

	items := make([]model.ScoredItem, 0, len(e.inst.Questions))
	for _, q := range e.inst.Questions {
		raw, answered := answers[q.ID]
		item := model.ScoredItem{
			QuestionID: q.ID,
			Dimension:  q.Dimension,
			Type:       q.Type,
		}
		if answered {
			item.Response = raw
			item.Score = Normalize(q, raw)
		}
		items = append(items, item)
	}

	dimensions, indices := Aggregate(e.inst, items)

	return &model.ScoringResult{
		CaseID:           sub.CaseID,
		ScoredItems:      items,
		DimensionScores:  dimensions,
		AggregateIndices: indices,
		ComputedAt:       time.Now().UTC(),
	}
}

// CheckConsistency evaluates the instrument's contradiction rules and
// derives the confidence score from the hits.
func (e *Engine) CheckConsistency(sub *model.Submission) *model.ConsistencyResult {
	hits := EvaluateRules(e.inst.ConsistencyRules, sub.AnswersByQuestion())
	return &model.ConsistencyResult{
		CaseID:     sub.CaseID,
		Hits:       hits,
		Confidence: DeriveConfidence(hits, e.inst.Confidence),
	}
}
