package ratingdomain

// Tier is a player's skill band, derived from the population of conservative
// scores.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierU Tier = "U"
)

// AllTiers lists tiers from strongest to unclassified.
var AllTiers = []Tier{TierS, TierA, TierB, TierC, TierU}

// IsValid reports whether t is one of the known tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierS, TierA, TierB, TierC, TierU:
		return true
	default:
		return false
	}
}

// Rating is a Gaussian skill belief.
type Rating struct {
	Mu    float64
	Sigma float64
}

// Conservative returns mu - 3 sigma.
func (r Rating) Conservative() float64 {
	return ConservativeScore(r.Mu, r.Sigma)
}

// ConservativeScore is the pessimistic skill estimate used for ranking and tiers.
func ConservativeScore(mu, sigma float64) float64 {
	return mu - 3*sigma
}
