package scoring

import "caliper/internal/model"

// BandInsufficientData is returned for nil scores. It is distinct from any
// real band: a missing score must never read as a low one.
const BandInsufficientData = "Insufficient Data"

// ClassifyBand maps a score onto the first band whose ascending upper bound
// it does not exceed; scores above every bound land in the last band.
func ClassifyBand(score *float64, bands []model.Band) string {
	if score == nil || len(bands) == 0 {
		return BandInsufficientData
	}
	for _, b := range bands {
		if *score <= b.UpperBound {
			return b.Label
		}
	}
	return bands[len(bands)-1].Label
}
