package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
)

// Patterns for signals embedded in captions. Pre-compiled once.
var (
	poPattern     = regexp.MustCompile(`(?i)\bPO[-#]?\d[\dA-Z-]*`)
	datePattern   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	vendorPattern = regexp.MustCompile(`(?i)\bvendor[:\s]\s*([A-Za-z0-9_-]{2,})`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// RequestFromMessage derives a match request from a message caption. The
// first caption line is the search name; PO numbers, ISO dates and vendor
// tags found anywhere in the caption become corroborating signals and are
// stripped from the search name so they don't distort name similarity.
func RequestFromMessage(msg model.Message) model.MatchRequest {
	caption := strings.TrimSpace(msg.Caption)

	req := model.MatchRequest{}

	if po := poPattern.FindString(caption); po != "" {
		req.PONumber = strings.TrimSuffix(po, "-")
	}

	if iso := datePattern.FindString(caption); iso != "" {
		if d, err := time.Parse("2006-01-02", iso); err == nil {
			req.PurchaseDate = &d
		}
	}

	req.VendorUID = strings.TrimSpace(msg.VendorHint)
	if req.VendorUID == "" {
		if m := vendorPattern.FindStringSubmatch(caption); m != nil {
			req.VendorUID = m[1]
		}
	}

	line := caption
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = poPattern.ReplaceAllString(line, " ")
	line = datePattern.ReplaceAllString(line, " ")
	line = vendorPattern.ReplaceAllString(line, " ")
	req.SearchName = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))

	return req
}
