package scoring

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"caliper/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(testInstrument())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func TestNewEngineRejectsBrokenInstrument(t *testing.T) {
	inst := testInstrument()
	inst.Questions = append(inst.Questions, model.Question{
		ID: "XX-1", Dimension: "NOPE", Type: model.QuestionTypeLikert5,
	})
	if _, err := NewEngine(inst); err == nil {
		t.Fatal("expected error for question with unknown dimension")
	}

	inst = testInstrument()
	inst.ConsistencyRules = []model.Rule{{
		ID: "R1", Kind: model.RuleKindContradictionPair,
		If: []model.Predicate{{QuestionID: "GHOST", Equals: strPtr("x")}},
	}}
	if _, err := NewEngine(inst); err == nil {
		t.Fatal("expected error for rule over unknown question")
	}
}

func TestEngineScoreSingleLikert(t *testing.T) {
	eng := newTestEngine(t)
	sub := &model.Submission{
		CaseID:  "case-a",
		Answers: []model.Answer{{QuestionID: "DI-1", Raw: 4}},
	}

	res := eng.Score(sub)
	if got := res.DimensionScores["DI"]; got == nil || *got != 4.00 {
		t.Errorf("DI = %v, want 4.00", got)
	}
}

func TestEngineScoreReverseLikert(t *testing.T) {
	eng := newTestEngine(t)
	sub := &model.Submission{
		CaseID:  "case-b",
		Answers: []model.Answer{{QuestionID: "DI-2", Raw: 4}},
	}

	res := eng.Score(sub)
	if got := res.DimensionScores["DI"]; got == nil || *got != 2.00 {
		t.Errorf("DI = %v, want 2.00", got)
	}
}

func TestEngineScoreMalformedAnswerDegrades(t *testing.T) {
	eng := newTestEngine(t)
	sub := &model.Submission{
		CaseID: "case-e",
		Answers: []model.Answer{
			{QuestionID: "DI-1", Raw: "banana"},
			{QuestionID: "AC-1", Raw: 3},
		},
	}

	res := eng.Score(sub)
	var di *model.ScoredItem
	for i := range res.ScoredItems {
		if res.ScoredItems[i].QuestionID == "DI-1" {
			di = &res.ScoredItems[i]
		}
	}
	if di == nil || di.Score != nil {
		t.Errorf("DI-1 score = %+v, want present with nil score", di)
	}
	if res.DimensionScores["DI"] != nil {
		t.Errorf("DI = %v, want nil (malformed answer must not count)", *res.DimensionScores["DI"])
	}
	if got := res.DimensionScores["AC"]; got == nil || *got != 3 {
		t.Errorf("AC = %v, want 3 (other answers unaffected)", got)
	}
}

func TestEngineScoreDuplicateAnswersLastWriteWins(t *testing.T) {
	eng := newTestEngine(t)
	sub := &model.Submission{
		CaseID: "case-dup",
		Answers: []model.Answer{
			{QuestionID: "DI-1", Raw: 1},
			{QuestionID: "DI-1", Raw: 5},
		},
	}

	res := eng.Score(sub)
	if got := res.DimensionScores["DI"]; got == nil || *got != 5 {
		t.Errorf("DI = %v, want 5 (last answer wins)", got)
	}
}

func TestEngineScoreRetainsOpenText(t *testing.T) {
	eng := newTestEngine(t)
	sub := &model.Submission{
		CaseID:  "case-txt",
		Answers: []model.Answer{{QuestionID: "RM-1", Raw: "we review incidents quarterly"}},
	}

	res := eng.Score(sub)
	for _, item := range res.ScoredItems {
		if item.QuestionID != "RM-1" {
			continue
		}
		if item.Score != nil {
			t.Errorf("open_text score = %v, want nil", *item.Score)
		}
		if item.Response != "we review incidents quarterly" {
			t.Errorf("open_text response = %v, want verbatim text", item.Response)
		}
		return
	}
	t.Fatal("RM-1 missing from scored items")
}

func TestEngineCheckConsistency(t *testing.T) {
	inst := testInstrument()
	inst.ConsistencyRules = []model.Rule{{
		ID:       "R1",
		Kind:     model.RuleKindContradictionPair,
		Title:    "Oversight contradiction",
		Severity: model.SeverityMedium,
		If:       []model.Predicate{{QuestionID: "DI-1", GteLikert: intPtr(4)}},
		And:      []model.Predicate{{QuestionID: "TR-1", Equals: strPtr("rarely")}},
	}}
	eng, err := NewEngine(inst)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	sub := &model.Submission{
		CaseID: "case-c",
		Answers: []model.Answer{
			{QuestionID: "DI-1", Raw: 5},
			{QuestionID: "TR-1", Raw: "rarely"},
		},
	}

	res := eng.CheckConsistency(sub)
	if len(res.Hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(res.Hits))
	}
	if res.Confidence.Score != 0.79 {
		t.Errorf("confidence = %v, want 0.79", res.Confidence.Score)
	}
	if res.Confidence.Level != model.ConfidenceMedium {
		t.Errorf("level = %q, want MEDIUM", res.Confidence.Level)
	}
}

func TestScoringResultJSONRoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	sub := &model.Submission{
		CaseID: "case-rt",
		Answers: []model.Answer{
			{QuestionID: "DI-1", Raw: "4"},
			{QuestionID: "DI-2", Raw: 2},
			{QuestionID: "TR-1", Raw: "always"},
		},
	}

	res := eng.Score(sub)
	res.ComputedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Responses entered the engine as typed values; JSON brings numbers back
	// as float64, so compare the derived fields rather than raw responses.
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back model.ScoringResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(back.DimensionScores, res.DimensionScores) {
		t.Errorf("dimension scores drifted across JSON: %v vs %v", back.DimensionScores, res.DimensionScores)
	}
	if !reflect.DeepEqual(back.AggregateIndices, res.AggregateIndices) {
		t.Errorf("indices drifted across JSON: %v vs %v", back.AggregateIndices, res.AggregateIndices)
	}
	for i, item := range back.ScoredItems {
		if !floatPtrEq(item.Score, res.ScoredItems[i].Score) {
			t.Errorf("item %s score drifted across JSON", item.QuestionID)
		}
	}
}
