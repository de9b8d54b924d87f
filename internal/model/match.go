package model

import "time"

// MatchStatus indicates how far a persisted match has progressed.
type MatchStatus string

// Match status constants.
const (
	MatchStatusPending  MatchStatus = "PENDING"
	MatchStatusApproved MatchStatus = "APPROVED"
)

// MatchRequest describes a single search against the candidate pool.
// PurchaseDate and the identifier fields are optional corroborating signals;
// only SearchName is required.
type MatchRequest struct {
	PurchaseDate  *time.Time
	SearchName    string
	VendorName    string
	PONumber      string
	VendorUID     string
	MinConfidence float64
}

// MatchCriteria records which independent signals agreed for one
// (request, candidate) pair.
type MatchCriteria struct {
	NameMatch   bool `json:"nameMatch"`
	VendorMatch bool `json:"vendorMatch"`
	POMatch     bool `json:"poMatch"`
	DateMatch   bool `json:"dateMatch"`
}

// ProductMatch is the scored result for one candidate. It is created fresh
// per scoring call and never mutated afterward.
type ProductMatch struct {
	CandidateID  string        `json:"candidateId"`
	ExternalID   string        `json:"externalId,omitempty"`
	Details      string        `json:"matchDetails"`
	Criteria     MatchCriteria `json:"matchCriteria"`
	Confidence   float64       `json:"confidenceScore"`
	PriorityTier int           `json:"priorityTier"`
}

// MatchRecord is the persisted form of a match, keyed by message.
type MatchRecord struct {
	CreatedAt    time.Time   `json:"createdAt"`
	MessageID    string      `json:"messageId"`
	ProductID    string      `json:"productId"`
	Details      string      `json:"matchDetails"`
	Status       MatchStatus `json:"status"`
	Confidence   float64     `json:"confidenceScore"`
	PriorityTier int         `json:"priorityTier"`
	Applied      bool        `json:"applied"`
}

// BatchItemStatus classifies the outcome for one message in a batch run.
type BatchItemStatus string

// Batch item outcomes.
const (
	BatchItemMatched   BatchItemStatus = "MATCHED"
	BatchItemUnmatched BatchItemStatus = "UNMATCHED"
	BatchItemFailed    BatchItemStatus = "FAILED"
)

// BatchItem is the per-message outcome of a batch run. Exactly one of Match
// or Error is populated for matched and failed items respectively.
type BatchItem struct {
	Match       *ProductMatch   `json:"match,omitempty"`
	MessageID   string          `json:"messageId"`
	Error       string          `json:"errorMessage,omitempty"`
	Status      BatchItemStatus `json:"status"`
	AutoApplied bool            `json:"autoApplied"`
}

// BatchSummary aggregates a batch run. Matched + Unmatched + Failed == Total.
type BatchSummary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Failed    int `json:"failed"`
}

// BatchResult is the full outcome of one batch invocation, with items in
// the same order as the requested message IDs.
type BatchResult struct {
	Items   []BatchItem  `json:"results"`
	Summary BatchSummary `json:"summary"`
}
