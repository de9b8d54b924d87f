package match

import (
	"sort"

	"github.com/hmalvik/matchflow/internal/model"
)

// Selector scores every candidate for a request, filters by minimum
// confidence and orders the survivors.
type Selector struct {
	scorer *Scorer
	cfg    Config
}

// NewSelector creates a selector with the given configuration.
func NewSelector(cfg Config) *Selector {
	return &Selector{
		scorer: NewScorer(cfg),
		cfg:    cfg,
	}
}

// Select scores all candidates and returns the ones at or above the
// request's minimum confidence (falling back to the configured default),
// sorted by priority tier ascending with confidence descending as the
// tie-breaker. The best match is the first element, or nil when nothing
// survives the filter.
func (s *Selector) Select(req model.MatchRequest, products []model.Product) ([]model.ProductMatch, *model.ProductMatch) {
	minConfidence := req.MinConfidence
	if minConfidence <= 0 {
		minConfidence = s.cfg.MinConfidence
	}

	matches := make([]model.ProductMatch, 0, len(products))
	for _, p := range products {
		m := s.scorer.Score(req, p)
		if m.Confidence >= minConfidence {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].PriorityTier != matches[j].PriorityTier {
			return matches[i].PriorityTier < matches[j].PriorityTier
		}
		return matches[i].Confidence > matches[j].Confidence
	})

	if len(matches) == 0 {
		return matches, nil
	}

	best := matches[0]
	return matches, &best
}
