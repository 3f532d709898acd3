package scoring

import (
	"math"
	"strconv"
	"strings"

	"caliper/internal/model"
)

// likertLabels maps well-known agreement wordings onto the 1-5 steps used
// when spreading a textual answer across a scale question's bounds
var likertLabels = map[string]int{
	"strongly disagree":          1,
	"disagree":                   2,
	"neither agree nor disagree": 3,
	"neutral":                    3,
	"agree":                      4,
	"strongly agree":             5,
}

// Normalize converts a raw answer into a canonical numeric score for its
// question, or nil when the answer is missing, malformed, or the question
// type never scores. It is a pure function and never fails: one bad answer
// must not take down the rest of the submission.
func Normalize(q model.Question, raw interface{}) *float64 {
	if raw == nil {
		return nil
	}

	switch q.Type {
	case model.QuestionTypeLikert5:
		return normalizeLikert(q, raw)
	case model.QuestionTypeMultipleChoice:
		return normalizeChoice(q, raw)
	case model.QuestionTypeOpenText:
		// Text is kept verbatim on the scored item for manual review.
		return nil
	case model.QuestionTypeScale:
		return normalizeScale(q, raw)
	default:
		return nil
	}
}

// normalizeLikert accepts only integral answers. Agreement wordings are a
// scale-question convenience; the collection UI sends likert5 answers as
// numbers, so a label here means a malformed payload.
func normalizeLikert(q model.Question, raw interface{}) *float64 {
	v, ok := coerceInt(raw)
	if !ok || v < 1 || v > 5 {
		return nil
	}
	if q.ReverseScored {
		v = 6 - v
	}
	return float64Ptr(float64(v))
}

func normalizeChoice(q model.Question, raw interface{}) *float64 {
	key := stringify(raw)
	for _, opt := range q.Options {
		if strings.EqualFold(opt.Value, key) {
			return float64Ptr(opt.Score)
		}
	}
	return nil
}

func normalizeScale(q model.Question, raw interface{}) *float64 {
	if f, ok := coerceFloat(raw); ok {
		if f < q.ScaleMin || f > q.ScaleMax {
			return nil
		}
		return float64Ptr(f)
	}

	s, ok := raw.(string)
	if !ok {
		if b, isBool := raw.(bool); isBool {
			return boolToScale(q, b)
		}
		return nil
	}

	switch canonical(s) {
	case "yes", "true":
		return boolToScale(q, true)
	case "no", "false":
		return boolToScale(q, false)
	}
	if lv, found := likertLabels[canonical(s)]; found {
		// Spread the five Likert steps linearly across the scale bounds.
		span := q.ScaleMax - q.ScaleMin
		return float64Ptr(q.ScaleMin + span*float64(lv-1)/4)
	}
	return nil
}

func boolToScale(q model.Question, b bool) *float64 {
	if b {
		return float64Ptr(q.ScaleMax)
	}
	return float64Ptr(q.ScaleMin)
}

// coerceInt accepts integral values in any of the numeric shapes JSON
// decoding can produce, plus numeric strings.
func coerceInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func coerceFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringify renders a raw answer the way predicates and choice maps compare
// it: trimmed, with integral floats printed without a fraction.
func stringify(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func float64Ptr(f float64) *float64 {
	return &f
}
