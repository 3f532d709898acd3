package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caliper/internal/model"
	"caliper/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "caliperdb"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	instrument := defaultInstrument()
	if err := instrument.Validate(); err != nil {
		log.Fatalf("Seed instrument is invalid: %v", err)
	}

	repo := repository.NewInstrumentRepo(client.Database(mongoDB))
	if err := repo.Upsert(ctx, instrument); err != nil {
		log.Fatalf("Failed to upsert instrument: %v", err)
	}

	fmt.Printf("Seeded instrument '%s' (%s): %d questions, %d consistency rules\n",
		instrument.Title, instrument.ID, len(instrument.Questions), len(instrument.ConsistencyRules))
}

func defaultInstrument() *model.Instrument {
	return &model.Instrument{
		ID:      "probity-v1",
		Version: "1.0",
		Title:   "Decision Probity Assessment",
		Dimensions: []model.Dimension{
			{Code: "DI", Name: "Decision Integrity"},
			{Code: "AC", Name: "Accountability"},
			{Code: "TR", Name: "Transparency"},
			{Code: "RM", Name: "Risk Mindset"},
			{Code: "CP", Name: "Compliance Posture"},
			{Code: "ET", Name: "Ethical Tone"},
		},
		Questions: []model.Question{
			{ID: "DI-1", Dimension: "DI", Type: model.QuestionTypeLikert5,
				Prompt: "Significant decisions in my team are documented with their rationale."},
			{ID: "DI-2", Dimension: "DI", Type: model.QuestionTypeLikert5, ReverseScored: true,
				Prompt: "Decisions are often revisited informally without recording why."},
			{ID: "DI-3", Dimension: "DI", Type: model.QuestionTypeLikert5,
				Prompt: "Dissenting views are heard before a decision is final."},
			{ID: "AC-1", Dimension: "AC", Type: model.QuestionTypeLikert5,
				Prompt: "Each decision has a single named owner."},
			{ID: "AC-2", Dimension: "AC", Type: model.QuestionTypeMultipleChoice,
				Prompt: "How often are decision outcomes reviewed against expectations?",
				Options: []model.Option{
					{Value: "every_decision", Score: 5},
					{Value: "major_only", Score: 4},
					{Value: "occasionally", Score: 2},
					{Value: "never", Score: 1},
				}},
			{ID: "TR-1", Dimension: "TR", Type: model.QuestionTypeLikert5,
				Prompt: "Stakeholders outside the team can find out how a decision was made."},
			{ID: "TR-2", Dimension: "TR", Type: model.QuestionTypeMultipleChoice,
				Prompt: "Do affected parties get told about decisions before they take effect?",
				Options: []model.Option{
					{Value: "yes", Score: 5},
					{Value: "sometimes", Score: 3},
					{Value: "no", Score: 1},
				}},
			{ID: "RM-1", Dimension: "RM", Type: model.QuestionTypeLikert5, ReverseScored: true,
				Prompt: "We accept risks without writing down who accepted them."},
			{ID: "RM-2", Dimension: "RM", Type: model.QuestionTypeScale, ScaleMin: 0, ScaleMax: 100,
				Prompt: "What share of significant decisions include an explicit risk assessment? (0-100)"},
			{ID: "CP-1", Dimension: "CP", Type: model.QuestionTypeLikert5,
				Prompt: "Regulatory constraints are checked as part of the decision process."},
			{ID: "ET-1", Dimension: "ET", Type: model.QuestionTypeLikert5,
				Prompt: "Leadership visibly declines advantageous but questionable options."},
			{ID: "ET-2", Dimension: "ET", Type: model.QuestionTypeOpenText, MinChars: 40,
				Prompt: "Describe a recent decision where integrity concerns changed the outcome."},
		},
		Bands: []model.Band{
			{Label: "Risk Zone", UpperBound: 2.5},
			{Label: "Developing", UpperBound: 3.5},
			{Label: "Sound", UpperBound: 4.3},
			{Label: "Exemplary", UpperBound: 5},
		},
		AggregateIndices: []model.AggregateIndex{
			{Name: "governance", Dimensions: []string{"DI", "AC", "TR"}},
			{Name: "culture", Dimensions: []string{"RM", "CP", "ET"}},
			{Name: "overall", Dimensions: []string{"DI", "AC", "TR", "RM", "CP", "ET"}},
		},
		ConsistencyRules: []model.Rule{
			{
				ID: "CR-1", Kind: model.RuleKindContradictionPair,
				Title:    "Ownership without review",
				Severity: model.SeverityMedium,
				If:       []model.Predicate{{QuestionID: "AC-1", GteLikert: intPtr(4)}},
				And:      []model.Predicate{{QuestionID: "AC-2", Equals: strPtr("never")}},
				Message:  "Strong ownership claimed while outcomes are never reviewed.",
			},
			{
				ID: "CR-2", Kind: model.RuleKindContradictionPair,
				Title:    "Transparency without notice",
				Severity: model.SeverityHigh,
				If:       []model.Predicate{{QuestionID: "TR-1", GteLikert: intPtr(4)}},
				And:      []model.Predicate{{QuestionID: "TR-2", Equals: strPtr("no")}},
				Message:  "High transparency rating while affected parties are never informed.",
			},
			{
				ID: "CR-3", Kind: model.RuleKindContradictionPair,
				Title:    "Inconsistent review cadence",
				Severity: model.SeverityLow,
				If:       []model.Predicate{{QuestionID: "DI-1", GteLikert: intPtr(4)}},
				And:      []model.Predicate{{QuestionID: "AC-2", In: []string{"occasionally", "never"}}},
				Message:  "Documented decisions but little outcome review suggests inflated self-report.",
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
