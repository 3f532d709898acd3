package scoring

import (
	"testing"

	"caliper/internal/model"
)

func confidenceCfg() model.ConfidenceConfig {
	return model.ConfidenceConfig{
		Base:  0.85,
		Floor: 0.40,
		PenaltyBySeverity: map[model.Severity]float64{
			model.SeverityLow:    0.03,
			model.SeverityMedium: 0.06,
			model.SeverityHigh:   0.12,
		},
	}
}

func TestDeriveConfidence(t *testing.T) {
	tests := []struct {
		name      string
		hits      []model.RuleHit
		wantScore float64
		wantLevel model.ConfidenceLevel
	}{
		{"no-hits", nil, 0.85, model.ConfidenceHigh},
		{"one-medium", []model.RuleHit{{Severity: model.SeverityMedium}}, 0.79, model.ConfidenceMedium},
		{"one-high", []model.RuleHit{{Severity: model.SeverityHigh}}, 0.73, model.ConfidenceMedium},
		{"low-plus-high", []model.RuleHit{
			{Severity: model.SeverityLow}, {Severity: model.SeverityHigh},
		}, 0.70, model.ConfidenceMedium},
		{"unknown-severity-costs-medium", []model.RuleHit{{Severity: "CRITICAL"}}, 0.79, model.ConfidenceMedium},
		{"floored", []model.RuleHit{
			{Severity: model.SeverityHigh}, {Severity: model.SeverityHigh},
			{Severity: model.SeverityHigh}, {Severity: model.SeverityHigh},
			{Severity: model.SeverityHigh},
		}, 0.40, model.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveConfidence(tt.hits, confidenceCfg())
			if got.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %q, want %q", got.Level, tt.wantLevel)
			}
		})
	}
}

func TestDeriveConfidenceMonotonicInHighHits(t *testing.T) {
	cfg := confidenceCfg()
	var hits []model.RuleHit
	prev := DeriveConfidence(hits, cfg).Score
	for i := 0; i < 12; i++ {
		hits = append(hits, model.RuleHit{Severity: model.SeverityHigh})
		got := DeriveConfidence(hits, cfg)
		if got.Score > prev {
			t.Fatalf("score rose from %v to %v after adding a HIGH hit", prev, got.Score)
		}
		if got.Score < cfg.Floor {
			t.Fatalf("score %v dropped below floor %v", got.Score, cfg.Floor)
		}
		prev = got.Score
	}
}
