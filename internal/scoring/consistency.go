package scoring

import (
	"log"
	"strings"

	"caliper/internal/model"
)

// EvaluateRules runs every consistency rule against the submitted answers
// and reports all hits in declaration order. A rule fires only when every
// predicate in its if-group and its and-group matches; an empty group is
// vacuously true. Predicates over missing answers evaluate false. Rules of
// an unrecognized kind are skipped so new rule shapes can ship in the
// instrument ahead of engine support.
func EvaluateRules(rules []model.Rule, answers map[string]interface{}) []model.RuleHit {
	hits := []model.RuleHit{}
	for _, rule := range rules {
		if rule.Kind != model.RuleKindContradictionPair {
			log.Printf("scoring: skipping rule %s with unknown kind %q", rule.ID, rule.Kind)
			continue
		}
		if !groupMatches(rule.If, answers) || !groupMatches(rule.And, answers) {
			continue
		}
		hits = append(hits, model.RuleHit{
			RuleID:   rule.ID,
			Title:    rule.Title,
			Severity: rule.Severity,
			Message:  rule.Message,
		})
	}
	return hits
}

func groupMatches(group []model.Predicate, answers map[string]interface{}) bool {
	for _, p := range group {
		if !evalPredicate(p, answers) {
			return false
		}
	}
	return true
}

func evalPredicate(p model.Predicate, answers map[string]interface{}) bool {
	raw, ok := answers[p.QuestionID]
	if !ok || raw == nil {
		return false
	}

	switch {
	case p.Equals != nil:
		return strings.EqualFold(stringify(raw), *p.Equals)
	case len(p.In) > 0:
		got := stringify(raw)
		for _, want := range p.In {
			if strings.EqualFold(got, want) {
				return true
			}
		}
		return false
	case p.GteLikert != nil:
		v, ok := coerceInt(raw)
		return ok && v >= *p.GteLikert
	default:
		return false
	}
}
