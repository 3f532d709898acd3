package model

import "time"

// Answer is one respondent answer. Raw carries whatever the intake layer
// collected: a number, a Likert label, a boolean, a choice value, or free
// text. Scoring decides what it is worth.
type Answer struct {
	QuestionID string      `json:"question_id" bson:"questionId"`
	Raw        interface{} `json:"response" bson:"response"`
}

// Submission is one respondent's complete answer set for one instrument.
// Created at intake, persisted, never mutated afterwards.
type Submission struct {
	CaseID       string    `json:"case_id" bson:"_id"`
	InstrumentID string    `json:"instrument_id" bson:"instrumentId"`
	Respondent   string    `json:"respondent,omitempty" bson:"respondent,omitempty"`
	Answers      []Answer  `json:"answers" bson:"answers"`
	SubmittedAt  time.Time `json:"submitted_at" bson:"submittedAt"`
}

// AnswersByQuestion collapses the answer list into a lookup by question id.
// Duplicate answers for the same question resolve last-write-wins.
func (s *Submission) AnswersByQuestion() map[string]interface{} {
	byID := make(map[string]interface{}, len(s.Answers))
	for _, a := range s.Answers {
		byID[a.QuestionID] = a.Raw
	}
	return byID
}
