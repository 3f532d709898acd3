package model

import "time"

// AssessmentStatus tracks the approval gate
type AssessmentStatus string

const (
	AssessmentStatusDraft    AssessmentStatus = "draft"
	AssessmentStatusApproved AssessmentStatus = "approved"
	AssessmentStatusRejected AssessmentStatus = "rejected"
)

// Assessment is the reviewable unit: engine output for one case plus the
// reviewer's decision. A rescore regenerates Scoring and Consistency but
// an approved assessment is final.
type Assessment struct {
	ID           string             `json:"id" bson:"_id,omitempty"`
	CaseID       string             `json:"caseId" bson:"caseId"`
	InstrumentID string             `json:"instrumentId" bson:"instrumentId"`
	Status       AssessmentStatus   `json:"status" bson:"status"`
	Scoring      ScoringResult      `json:"scoring" bson:"scoring"`
	Consistency  ConsistencyResult  `json:"consistency" bson:"consistency"`
	Overrides    map[string]float64 `json:"overrides,omitempty" bson:"overrides,omitempty"` // dimension code -> reviewer value
	ReviewedBy   string             `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewNote   string             `json:"reviewNote,omitempty" bson:"reviewNote,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
	DecidedAt    *time.Time         `json:"decidedAt,omitempty" bson:"decidedAt,omitempty"`
}

// EffectiveDimensionScore returns the reviewer override for a dimension
// when one exists, otherwise the engine-computed score. Overrides never
// trigger recomputation.
func (a *Assessment) EffectiveDimensionScore(code string) *float64 {
	if v, ok := a.Overrides[code]; ok {
		return &v
	}
	return a.Scoring.DimensionScores[code]
}
