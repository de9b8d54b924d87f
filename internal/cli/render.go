package cli

import (
	"fmt"
	"strings"

	"github.com/hmalvik/matchflow/internal/model"
)

// RenderMatch formats a scored candidate for terminal display.
func RenderMatch(m model.ProductMatch) string {
	var b strings.Builder

	b.WriteString(BoldStyle.Render(m.CandidateID))
	if m.ExternalID != "" {
		b.WriteString(SubtleStyle.Render(" (" + m.ExternalID + ")"))
	}
	b.WriteString(fmt.Sprintf("  tier %d  %s", m.PriorityTier, formatConfidence(m.Confidence)))
	b.WriteString("\n  " + SubtleStyle.Render(m.Details))
	b.WriteString("\n  " + renderCriteria(m.Criteria))

	return b.String()
}

// RenderMatchList formats a ranked candidate list, best first.
func RenderMatchList(matches []model.ProductMatch) string {
	if len(matches) == 0 {
		return FormatWarning("no candidates above the confidence floor")
	}

	lines := make([]string, 0, len(matches))
	for i, m := range matches {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, RenderMatch(m)))
	}
	return strings.Join(lines, "\n")
}

// RenderBatchSummary formats the aggregate outcome of a batch run.
func RenderBatchSummary(summary model.BatchSummary) string {
	content := fmt.Sprintf(
		"Total:     %d\nMatched:   %s\nUnmatched: %s\nFailed:    %s",
		summary.Total,
		SuccessStyle.Render(fmt.Sprintf("%d", summary.Matched)),
		WarningStyle.Render(fmt.Sprintf("%d", summary.Unmatched)),
		ErrorStyle.Render(fmt.Sprintf("%d", summary.Failed)),
	)
	return RenderBox("Batch Summary", content)
}

// RenderBatchItem formats a single batch outcome line.
func RenderBatchItem(item model.BatchItem) string {
	switch item.Status {
	case model.BatchItemMatched:
		applied := ""
		if item.AutoApplied {
			applied = SubtleStyle.Render(" [auto-applied]")
		}
		return FormatSuccess(fmt.Sprintf("%s → %s (%s)%s",
			item.MessageID, item.Match.CandidateID,
			formatConfidence(item.Match.Confidence), applied))
	case model.BatchItemFailed:
		return FormatError(fmt.Sprintf("%s: %s", item.MessageID, item.Error))
	default:
		return FormatWarning(item.MessageID + ": no match")
	}
}

func renderCriteria(c model.MatchCriteria) string {
	parts := make([]string, 0, 4)
	parts = append(parts, criterion("name", c.NameMatch))
	parts = append(parts, criterion("vendor", c.VendorMatch))
	parts = append(parts, criterion("po", c.POMatch))
	parts = append(parts, criterion("date", c.DateMatch))
	return strings.Join(parts, " ")
}

func criterion(label string, hit bool) string {
	if hit {
		return SuccessStyle.Render(SuccessIcon + label)
	}
	return SubtleStyle.Render("·" + label)
}

func formatConfidence(score float64) string {
	text := fmt.Sprintf("%.0f%%", score*100)
	switch {
	case score >= 0.9:
		return SuccessStyle.Render(text)
	case score >= 0.7:
		return WarningStyle.Render(text)
	default:
		return ErrorStyle.Render(text)
	}
}
