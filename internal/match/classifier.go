package match

import "github.com/hmalvik/matchflow/internal/model"

// Priority tiers, lower is more certain.
const (
	// TierExactPO: PO reference matched and confidence is at the cap.
	TierExactPO = 1
	// TierCorroborated: name, vendor and purchase date all agree.
	TierCorroborated = 2
	// TierFuzzyPO: PO reference matched with a reasonably strong name score.
	TierFuzzyPO = 3
	// TierFuzzy: fuzzy name/vendor/date combination, nothing stronger fired.
	TierFuzzy = 4
)

// ClassifyPriority maps a confidence score and criteria flags to a priority
// tier. Rules are checked in order; the first that fires wins, so identical
// inputs always yield the same tier.
func ClassifyPriority(confidence float64, criteria model.MatchCriteria) int {
	switch {
	case criteria.POMatch && confidence >= 1.0:
		return TierExactPO
	case criteria.NameMatch && criteria.VendorMatch && criteria.DateMatch:
		return TierCorroborated
	case criteria.POMatch && confidence >= 0.7:
		return TierFuzzyPO
	default:
		return TierFuzzy
	}
}
