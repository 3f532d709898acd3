package model

import "time"

// ScoredItem is one question's normalized outcome. Score is nil when the
// answer was missing, malformed, or the question type never scores.
type ScoredItem struct {
	QuestionID string       `json:"questionId" bson:"questionId"`
	Dimension  string       `json:"dimension" bson:"dimension"`
	Type       QuestionType `json:"type" bson:"type"`
	Response   interface{}  `json:"response" bson:"response"`
	Score      *float64     `json:"score" bson:"score"`
}

// ScoringResult is derived data: regenerable at any time from the
// instrument plus the submission, never hand-edited.
type ScoringResult struct {
	CaseID           string              `json:"caseId" bson:"caseId"`
	ScoredItems      []ScoredItem        `json:"scoredItems" bson:"scoredItems"`
	DimensionScores  map[string]*float64 `json:"dimensionScores" bson:"dimensionScores"`
	AggregateIndices map[string]*float64 `json:"aggregateIndices" bson:"aggregateIndices"`
	ComputedAt       time.Time           `json:"computedAt" bson:"computedAt"`
}

// RuleHit records one consistency rule whose predicates all matched
type RuleHit struct {
	RuleID   string   `json:"ruleId" bson:"ruleId"`
	Title    string   `json:"title" bson:"title"`
	Severity Severity `json:"severity" bson:"severity"`
	Message  string   `json:"message" bson:"message"`
}

// ConfidenceLevel is the qualitative reading of a confidence score
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// Confidence is the derived reliability indicator for one submission
type Confidence struct {
	Score float64         `json:"score" bson:"score"`
	Level ConfidenceLevel `json:"level" bson:"level"`
}

// ConsistencyResult holds the contradiction hits and derived confidence
type ConsistencyResult struct {
	CaseID     string     `json:"caseId" bson:"caseId"`
	Hits       []RuleHit  `json:"hits" bson:"hits"`
	Confidence Confidence `json:"confidence" bson:"confidence"`
}
