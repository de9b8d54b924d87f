package model

import "time"

// Message is an ingested chat caption awaiting product resolution.
type Message struct {
	CreatedAt          time.Time  `json:"createdAt"`
	LastMatchAttemptAt *time.Time `json:"lastMatchAttemptAt,omitempty"`
	ID                 string     `json:"id"`
	Caption            string     `json:"caption"`
	VendorHint         string     `json:"vendorHint,omitempty"`
	ResolvedProductID  string     `json:"resolvedProductId,omitempty"`
	NeedsReview        bool       `json:"needsReview"`
}
