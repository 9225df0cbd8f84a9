// Package reputation holds the pure scoring rules of the reputation engine:
// tier classification, onboarding boost math, login-cadence bot signals and
// score merging. Nothing in here touches storage or the network.
package reputation

// Tier is the ordinal trust classification derived solely from level score.
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierAmber  Tier = "Amber"
	TierRuby   Tier = "Ruby"
	TierGold   Tier = "Gold"
)

// Classify maps a level score to its tier. Inclusive lower bounds, highest
// matching band wins: >=750 Gold, >=500 Ruby, >=250 Amber, else Bronze.
// Total over all reals; out-of-range scores fall into the boundary bands.
func Classify(levelScore float64) Tier {
	switch {
	case levelScore >= 750:
		return TierGold
	case levelScore >= 500:
		return TierRuby
	case levelScore >= 250:
		return TierAmber
	default:
		return TierBronze
	}
}

// Rank returns the ordinal position of a tier (Bronze=0 .. Gold=3).
func Rank(t Tier) int {
	switch t {
	case TierGold:
		return 3
	case TierRuby:
		return 2
	case TierAmber:
		return 1
	default:
		return 0
	}
}
