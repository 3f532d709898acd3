package model

import (
	"fmt"
)

// QuestionType defines how a question's raw answer is scored
type QuestionType string

const (
	QuestionTypeLikert5        QuestionType = "likert5"         // 1-5 agreement scale, may be reverse-scored
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // Fixed options with per-option scores
	QuestionTypeOpenText       QuestionType = "open_text"       // Free text, kept for narrative review, never scored
	QuestionTypeScale          QuestionType = "scale"           // General bounded numeric (e.g. 0-100)
)

// Severity classifies how damaging a consistency hit is to overall confidence
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Option maps one multiple-choice value to its score
type Option struct {
	Value string  `json:"value" bson:"value"`
	Score float64 `json:"score" bson:"score"`
}

// Question is one entry in the instrument's question bank
type Question struct {
	ID            string       `json:"id" bson:"id"`
	Dimension     string       `json:"dimension" bson:"dimension"`
	Type          QuestionType `json:"type" bson:"type"`
	Prompt        string       `json:"prompt" bson:"prompt"`
	ReverseScored bool         `json:"reverseScored,omitempty" bson:"reverseScored,omitempty"`
	MinChars      int          `json:"minChars,omitempty" bson:"minChars,omitempty"`     // open_text only
	ScaleMin      float64      `json:"scaleMin,omitempty" bson:"scaleMin,omitempty"`     // scale only
	ScaleMax      float64      `json:"scaleMax,omitempty" bson:"scaleMax,omitempty"`     // scale only
	Options       []Option     `json:"options,omitempty" bson:"options,omitempty"`       // multiple_choice only
}

// Dimension is a named category grouping questions for aggregate scoring
type Dimension struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

// Band is one labeled interval of a score range. Bands are ordered by
// ascending upper bound; the last band acts as the unbounded top.
type Band struct {
	Label      string  `json:"label" bson:"label"`
	UpperBound float64 `json:"upperBound" bson:"upperBound"`
}

// Predicate tests a single answer. Exactly one of Equals, In, GteLikert
// is set; which one determines the predicate kind.
type Predicate struct {
	QuestionID string   `json:"questionId" bson:"questionId"`
	Equals     *string  `json:"equals,omitempty" bson:"equals,omitempty"`
	In         []string `json:"in,omitempty" bson:"in,omitempty"`
	GteLikert  *int     `json:"gteLikert,omitempty" bson:"gteLikert,omitempty"`
}

// RuleKind tags the logical shape of a consistency rule
type RuleKind string

const (
	// RuleKindContradictionPair fires when every predicate in both the
	// if-group and the and-group matches.
	RuleKindContradictionPair RuleKind = "contradiction_pair"
)

// Rule is one declarative consistency check over submitted answers
type Rule struct {
	ID       string      `json:"id" bson:"id"`
	Kind     RuleKind    `json:"kind" bson:"kind"`
	Title    string      `json:"title" bson:"title"`
	Severity Severity    `json:"severity" bson:"severity"`
	If       []Predicate `json:"if" bson:"if"`
	And      []Predicate `json:"and,omitempty" bson:"and,omitempty"`
	Message  string      `json:"message" bson:"message"`
}

// AggregateIndex is a named mean over a subset of dimension codes
type AggregateIndex struct {
	Name       string   `json:"name" bson:"name"`
	Dimensions []string `json:"dimensions" bson:"dimensions"`
}

// ConfidenceConfig drives the derived confidence score
type ConfidenceConfig struct {
	Base              float64              `json:"base" bson:"base"`
	PenaltyBySeverity map[Severity]float64 `json:"penaltyBySeverity" bson:"penaltyBySeverity"`
	Floor             float64              `json:"floor" bson:"floor"`
}

// Instrument is the versioned definition of one assessment type: question
// bank, dimensions, bands, consistency rules, and confidence adjustments.
// Loaded once at startup and treated as immutable for the process lifetime.
type Instrument struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	Version          string           `json:"version" bson:"version"`
	Title            string           `json:"title" bson:"title"`
	Questions        []Question       `json:"question_bank" bson:"question_bank"`
	Dimensions       []Dimension      `json:"dimensions" bson:"dimensions"`
	Bands            []Band           `json:"bands" bson:"bands"`
	ConsistencyRules []Rule           `json:"consistency_checks" bson:"consistency_checks"`
	AggregateIndices []AggregateIndex `json:"aggregate_indices" bson:"aggregate_indices"`
	Confidence       ConfidenceConfig `json:"confidence_adjustments" bson:"confidence_adjustments"`
}

// Validate checks referential integrity of the instrument. A broken
// instrument indicates a bad deployment, so the caller should fail fast
// rather than score against it.
func (inst *Instrument) Validate() error {
	dims := make(map[string]bool, len(inst.Dimensions))
	for _, d := range inst.Dimensions {
		if d.Code == "" {
			return fmt.Errorf("instrument %s: dimension with empty code", inst.ID)
		}
		if dims[d.Code] {
			return fmt.Errorf("instrument %s: duplicate dimension %q", inst.ID, d.Code)
		}
		dims[d.Code] = true
	}

	questions := make(map[string]bool, len(inst.Questions))
	for _, q := range inst.Questions {
		if q.ID == "" {
			return fmt.Errorf("instrument %s: question with empty id", inst.ID)
		}
		if questions[q.ID] {
			return fmt.Errorf("instrument %s: duplicate question %q", inst.ID, q.ID)
		}
		questions[q.ID] = true

		if !dims[q.Dimension] {
			return fmt.Errorf("instrument %s: question %q references unknown dimension %q", inst.ID, q.ID, q.Dimension)
		}
		switch q.Type {
		case QuestionTypeLikert5, QuestionTypeOpenText:
		case QuestionTypeMultipleChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("instrument %s: multiple_choice question %q has no options", inst.ID, q.ID)
			}
		case QuestionTypeScale:
			if q.ScaleMax <= q.ScaleMin {
				return fmt.Errorf("instrument %s: scale question %q has invalid bounds [%g,%g]", inst.ID, q.ID, q.ScaleMin, q.ScaleMax)
			}
		default:
			return fmt.Errorf("instrument %s: question %q has unknown type %q", inst.ID, q.ID, q.Type)
		}
	}

	for _, r := range inst.ConsistencyRules {
		for _, p := range append(append([]Predicate{}, r.If...), r.And...) {
			if !questions[p.QuestionID] {
				return fmt.Errorf("instrument %s: rule %q references unknown question %q", inst.ID, r.ID, p.QuestionID)
			}
		}
	}

	for _, idx := range inst.AggregateIndices {
		for _, code := range idx.Dimensions {
			if !dims[code] {
				return fmt.Errorf("instrument %s: index %q references unknown dimension %q", inst.ID, idx.Name, code)
			}
		}
	}

	var prev float64
	for i, b := range inst.Bands {
		if i > 0 && b.UpperBound <= prev {
			return fmt.Errorf("instrument %s: band %q breaks ascending threshold order", inst.ID, b.Label)
		}
		prev = b.UpperBound
	}

	return nil
}

// QuestionIndex builds a lookup from question id to question. The returned
// map must be treated as read-only alongside the instrument itself.
func (inst *Instrument) QuestionIndex() map[string]Question {
	idx := make(map[string]Question, len(inst.Questions))
	for _, q := range inst.Questions {
		idx[q.ID] = q
	}
	return idx
}
