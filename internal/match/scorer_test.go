package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hmalvik/matchflow/internal/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestScorerExactName(t *testing.T) {
	s := NewScorer(DefaultConfig())

	got := s.Score(
		model.MatchRequest{SearchName: "Acme Widget 500"},
		model.Product{ID: "p1", Name: "Acme Widget 500"},
	)

	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	assert.True(t, got.Criteria.NameMatch)
	assert.False(t, got.Criteria.VendorMatch)
	assert.False(t, got.Criteria.POMatch)
	assert.False(t, got.Criteria.DateMatch)
}

func TestScorerTransposedName(t *testing.T) {
	s := NewScorer(DefaultConfig())

	got := s.Score(
		model.MatchRequest{SearchName: "acme wdiget 500"},
		model.Product{ID: "p1", Name: "Acme Widget 500"},
	)

	assert.Greater(t, got.Confidence, 0.8)
	assert.Less(t, got.Confidence, 1.0)
	assert.True(t, got.Criteria.NameMatch)
	assert.NotEqual(t, TierExactPO, got.PriorityTier)
}

func TestScorerSecondaryNameWeighted(t *testing.T) {
	s := NewScorer(DefaultConfig())

	// Perfect alias similarity scores 0.9, below a perfect primary match.
	got := s.Score(
		model.MatchRequest{SearchName: "Frobnicator"},
		model.Product{ID: "p1", Name: "Completely Different", VendorName: "Frobnicator"},
	)

	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	assert.True(t, got.Criteria.NameMatch)
}

func TestScorerVendorBonus(t *testing.T) {
	s := NewScorer(DefaultConfig())

	got := s.Score(
		model.MatchRequest{SearchName: "Widget", VendorUID: " acme-01 "},
		model.Product{ID: "p1", Name: "Widget", VendorCode: "ACME-01"},
	)

	assert.True(t, got.Criteria.VendorMatch)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9) // capped
	assert.Contains(t, got.Details, "Vendor match")
}

func TestScorerPOBonusSubstring(t *testing.T) {
	s := NewScorer(DefaultConfig())

	got := s.Score(
		model.MatchRequest{SearchName: "Acme Widget 500", PONumber: "PO123"},
		model.Product{ID: "p1", Name: "Acme Widget 500", PurchaseOrderRef: "Invoice #PO123-X"},
	)

	assert.True(t, got.Criteria.POMatch)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	assert.Equal(t, TierExactPO, got.PriorityTier)
	assert.Contains(t, got.Details, "PO match")
}

func TestScorerDateBonus(t *testing.T) {
	s := NewScorer(DefaultConfig())

	morning := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 22, 30, 0, 0, time.UTC)

	got := s.Score(
		model.MatchRequest{SearchName: "Widget", PurchaseDate: timePtr(morning)},
		model.Product{ID: "p1", Name: "Gadget", PurchaseDate: timePtr(evening)},
	)

	// Time of day is ignored, only the calendar date counts.
	assert.True(t, got.Criteria.DateMatch)
	assert.Contains(t, got.Details, "Purchase date match")
}

func TestScorerDifferentDatesNoBonus(t *testing.T) {
	s := NewScorer(DefaultConfig())

	got := s.Score(
		model.MatchRequest{
			SearchName:   "Widget",
			PurchaseDate: timePtr(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)),
		},
		model.Product{
			ID:           "p1",
			Name:         "Widget",
			PurchaseDate: timePtr(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)),
		},
	)

	assert.False(t, got.Criteria.DateMatch)
}

func TestScorerSparseCandidate(t *testing.T) {
	s := NewScorer(DefaultConfig())

	// Missing optional candidate fields never cause errors or bonuses.
	got := s.Score(
		model.MatchRequest{
			SearchName:   "Widget",
			VendorUID:    "ACME",
			PONumber:     "PO9",
			PurchaseDate: timePtr(time.Now()),
		},
		model.Product{ID: "p1", Name: "Widget"},
	)

	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	assert.False(t, got.Criteria.VendorMatch)
	assert.False(t, got.Criteria.POMatch)
	assert.False(t, got.Criteria.DateMatch)
}

func TestScorerConfidenceRange(t *testing.T) {
	s := NewScorer(DefaultConfig())

	day := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	req := model.MatchRequest{
		SearchName:   "Acme Widget 500",
		VendorUID:    "ACME",
		PONumber:     "PO123",
		PurchaseDate: timePtr(day),
	}
	products := []model.Product{
		{ID: "a", Name: "Acme Widget 500", VendorCode: "ACME", PurchaseOrderRef: "PO123", PurchaseDate: timePtr(day)},
		{ID: "b", Name: "Unrelated"},
		{ID: "c"},
		{ID: "d", VendorName: "Acme Widget"},
	}

	for _, p := range products {
		got := s.Score(req, p)
		assert.GreaterOrEqual(t, got.Confidence, 0.0, "product %s", p.ID)
		assert.LessOrEqual(t, got.Confidence, 1.0, "product %s", p.ID)
	}
}

func TestScorerPartialMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PartialMatch = true
	s := NewScorer(cfg)

	got := s.Score(
		model.MatchRequest{SearchName: "Widget 500"},
		model.Product{ID: "p1", Name: "Acme Widget 500 Deluxe Edition"},
	)

	assert.GreaterOrEqual(t, got.Confidence, cfg.PartialMatchScore)
	assert.True(t, got.Criteria.NameMatch)

	// Below the minimum substring length the floor does not apply.
	short := s.Score(
		model.MatchRequest{SearchName: "Wi"},
		model.Product{ID: "p1", Name: "Acme Widget 500 Deluxe Edition"},
	)
	assert.Less(t, short.Confidence, cfg.PartialMatchScore)
}
