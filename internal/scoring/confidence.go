package scoring

import "caliper/internal/model"

// Level cutoffs are fixed on purpose: the review UI bakes the same three
// readings into its legend, so making them configurable per instrument
// would let the two drift apart.
const (
	confidenceHighCutoff   = 0.80
	confidenceMediumCutoff = 0.65
)

// DeriveConfidence turns consistency hits into a single reliability score:
// the configured base minus one penalty per hit keyed by severity, clamped
// at the configured floor and rounded to two decimals.
func DeriveConfidence(hits []model.RuleHit, cfg model.ConfidenceConfig) model.Confidence {
	score := cfg.Base
	for _, hit := range hits {
		score -= penaltyFor(hit.Severity, cfg)
	}
	if score < cfg.Floor {
		score = cfg.Floor
	}
	score = round2(score)

	return model.Confidence{
		Score: score,
		Level: confidenceLevel(score),
	}
}

// penaltyFor is total over severities: anything the config does not name
// costs the MEDIUM penalty rather than silently costing nothing.
func penaltyFor(sev model.Severity, cfg model.ConfidenceConfig) float64 {
	if p, ok := cfg.PenaltyBySeverity[sev]; ok {
		return p
	}
	return cfg.PenaltyBySeverity[model.SeverityMedium]
}

func confidenceLevel(score float64) model.ConfidenceLevel {
	switch {
	case score >= confidenceHighCutoff:
		return model.ConfidenceHigh
	case score >= confidenceMediumCutoff:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
