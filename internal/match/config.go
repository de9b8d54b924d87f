// Package match implements the product matching engine: similarity scoring,
// multi-signal confidence, priority classification and best-match selection.
package match

// Config holds the tunable weights and thresholds for the matching engine.
// It is injected into the scorer and selector so thresholds can be adjusted
// at runtime without a redeploy.
type Config struct {
	PrimaryNameWeight   float64
	SecondaryNameWeight float64
	VendorBonus         float64
	POBonus             float64
	DateBonus           float64
	NameMatchThreshold  float64
	MinConfidence       float64
	AutoApplyThreshold  float64
	PartialMatchScore   float64
	MinSubstringLength  int
	PartialMatch        bool
}

// DefaultConfig returns the stock weights and thresholds.
func DefaultConfig() Config {
	return Config{
		PrimaryNameWeight:   1.0,
		SecondaryNameWeight: 0.9,
		VendorBonus:         0.1,
		POBonus:             0.2,
		DateBonus:           0.1,
		NameMatchThreshold:  0.8,
		MinConfidence:       0.6,
		AutoApplyThreshold:  0.75,
		PartialMatch:        false,
		PartialMatchScore:   0.85,
		MinSubstringLength:  5,
	}
}
