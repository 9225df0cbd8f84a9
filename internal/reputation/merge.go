package reputation

import "math"

// MergeLevel combines the model's final score with the locally held
// onboarding boost, rounded and clamped to the 0..1000 score range.
func MergeLevel(modelScore, initialBoost float64) float64 {
	return clampScore(math.Round(modelScore) + initialBoost)
}

// MergeSpam combines the stored spam score (carrying login-cadence
// penalties) with the model's independent spam figure. Taking the maximum
// retains whichever contributor signals higher risk and keeps a repeated
// refresh under an unchanged model response idempotent.
func MergeSpam(stored, model float64) float64 {
	return math.Max(stored, model)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1000 {
		return 1000
	}
	return score
}
