package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/similarity"
)

// Scorer computes a confidence score and criteria flags for one
// (request, candidate) pair. Scoring is a pure function of its inputs;
// sparse candidate fields are treated as absent rather than errors.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer with the given configuration.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score compares the request against a single candidate product.
//
// The base confidence is the weighted name score: the better of the primary
// name similarity at full weight and the vendor alias similarity at reduced
// weight, so an alias alone can never outscore a perfect primary match.
// Corroborating signals (vendor code, PO reference, purchase date) add fixed
// bonuses on top, capped at 1.0.
func (s *Scorer) Score(req model.MatchRequest, p model.Product) model.ProductMatch {
	nameSim := similarity.Similarity(req.SearchName, p.Name)
	altSim := similarity.Similarity(req.SearchName, p.VendorName)

	if s.cfg.PartialMatch {
		nameSim = s.applyPartialMatch(req.SearchName, p.Name, nameSim)
		altSim = s.applyPartialMatch(req.SearchName, p.VendorName, altSim)
	}

	weighted := nameSim * s.cfg.PrimaryNameWeight
	if alt := altSim * s.cfg.SecondaryNameWeight; alt > weighted {
		weighted = alt
	}

	confidence := weighted
	criteria := model.MatchCriteria{
		NameMatch: weighted > s.cfg.NameMatchThreshold,
	}

	details := []string{fmt.Sprintf("Name score %.2f", weighted)}

	if vendorCodesEqual(req.VendorUID, p.VendorCode) {
		confidence += s.cfg.VendorBonus
		criteria.VendorMatch = true
		details = append(details, "Vendor match")
	}

	if poRefContains(p.PurchaseOrderRef, req.PONumber) {
		confidence += s.cfg.POBonus
		criteria.POMatch = true
		details = append(details, "PO match")
	}

	if sameCalendarDay(req.PurchaseDate, p.PurchaseDate) {
		confidence += s.cfg.DateBonus
		criteria.DateMatch = true
		details = append(details, "Purchase date match")
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	return model.ProductMatch{
		CandidateID:  p.ID,
		ExternalID:   p.ExternalID,
		Confidence:   confidence,
		PriorityTier: ClassifyPriority(confidence, criteria),
		Criteria:     criteria,
		Details:      strings.Join(details, "; "),
	}
}

// applyPartialMatch raises the similarity floor when one name contains the
// other as a substring and the search term is long enough to be meaningful.
func (s *Scorer) applyPartialMatch(search, name string, sim float64) float64 {
	search = strings.ToLower(strings.TrimSpace(search))
	name = strings.ToLower(strings.TrimSpace(name))

	if len(search) < s.cfg.MinSubstringLength || name == "" {
		return sim
	}
	if strings.Contains(name, search) || strings.Contains(search, name) {
		if s.cfg.PartialMatchScore > sim {
			return s.cfg.PartialMatchScore
		}
	}
	return sim
}

func vendorCodesEqual(requestUID, candidateCode string) bool {
	requestUID = strings.TrimSpace(requestUID)
	candidateCode = strings.TrimSpace(candidateCode)
	if requestUID == "" || candidateCode == "" {
		return false
	}
	return strings.EqualFold(requestUID, candidateCode)
}

func poRefContains(ref, poNumber string) bool {
	ref = strings.TrimSpace(ref)
	poNumber = strings.TrimSpace(poNumber)
	if ref == "" || poNumber == "" {
		return false
	}
	return strings.Contains(strings.ToLower(ref), strings.ToLower(poNumber))
}

func sameCalendarDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
