package reputation

import "github.com/loopwork/credo/internal/domain"

// Engagement sub-score weights. They sum to 1.0; financial history weighs
// heaviest, one-off job engagement least.
const (
	WeightSocial    = 0.2
	WeightFinancial = 0.4
	WeightGigWorker = 0.3
	WeightJob       = 0.1
)

// MaxBoost is the ceiling for the one-time onboarding boost.
const MaxBoost = 20.0

// Composite returns the weighted engagement composite on a 0..1 scale.
// Sub-scores are expected in 0..100.
func Composite(rec domain.EngagementRecord) float64 {
	sum := rec.Social*WeightSocial +
		rec.Financial*WeightFinancial +
		rec.GigWorker*WeightGigWorker +
		rec.Job*WeightJob
	return sum / 100
}

// RawBoost scales the composite to the boost ceiling.
func RawBoost(rec domain.EngagementRecord) float64 {
	return Composite(rec) * MaxBoost
}

// Boost computes the onboarding boost for own, normalized against the raw
// boosts of its comparison window (own plus the records with the next
// engagement identifiers). The partner's boost is rescaled to where its raw
// value sits between the window's min and max, keeping boosts comparable
// across cohorts registered around the same time. A window of one record,
// or one with no spread, degrades to the unscaled raw boost.
func Boost(own domain.EngagementRecord, window []domain.EngagementRecord) float64 {
	raw := RawBoost(own)
	if len(window) < 2 {
		return raw
	}

	min, max := raw, raw
	for _, rec := range window {
		b := RawBoost(rec)
		if b < min {
			min = b
		}
		if b > max {
			max = b
		}
	}
	if max == min {
		return raw
	}
	return (raw - min) / (max - min) * MaxBoost
}
