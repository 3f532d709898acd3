package scoring

import (
	"math"

	"caliper/internal/model"
)

// Aggregate groups scored items by dimension, computes per-dimension means
// and the instrument's named aggregate indices. A dimension with zero
// scorable items yields nil, never zero: absence of data must stay
// distinguishable from a neutral score. Returned values are rounded to two
// decimals; the index means are computed from unrounded dimension means.
func Aggregate(inst *model.Instrument, items []model.ScoredItem) (map[string]*float64, map[string]*float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, item := range items {
		if item.Score == nil {
			continue
		}
		sums[item.Dimension] += *item.Score
		counts[item.Dimension]++
	}

	raw := make(map[string]*float64, len(inst.Dimensions))
	for _, d := range inst.Dimensions {
		if counts[d.Code] == 0 {
			raw[d.Code] = nil
			continue
		}
		raw[d.Code] = float64Ptr(sums[d.Code] / float64(counts[d.Code]))
	}

	indices := make(map[string]*float64, len(inst.AggregateIndices))
	for _, idx := range inst.AggregateIndices {
		var sum float64
		var n int
		for _, code := range idx.Dimensions {
			if v := raw[code]; v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			indices[idx.Name] = nil
			continue
		}
		indices[idx.Name] = float64Ptr(round2(sum / float64(n)))
	}

	dimensions := make(map[string]*float64, len(raw))
	for code, v := range raw {
		if v == nil {
			dimensions[code] = nil
			continue
		}
		dimensions[code] = float64Ptr(round2(*v))
	}

	return dimensions, indices
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
