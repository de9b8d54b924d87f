package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
)

// RunBatch matches a fixed list of messages against a single candidate pool
// fetched once up front. Failures to fetch messages or the pool are fatal
// and produce no result; failures while processing an individual message are
// recorded on that item only and never abort the batch.
func (e *MatchEngine) RunBatch(ctx context.Context, messageIDs []string) (*model.BatchResult, error) {
	if len(messageIDs) == 0 {
		return nil, ErrNoMessageIDs
	}

	messages, err := e.storage.GetMessagesByIDs(ctx, messageIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: messages: %v", ErrCandidateFetch, err)
	}

	products, err := e.storage.GetProducts(ctx, service.ProductFilter{Limit: e.cfg.PoolLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: candidate pool: %v", ErrCandidateFetch, err)
	}

	byID := make(map[string]model.Message, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
	}

	slog.Info("Starting batch match run",
		"messages", len(messageIDs),
		"pool_size", len(products),
		"auto_apply_threshold", e.cfg.Matching.AutoApplyThreshold)

	result := &model.BatchResult{
		Items: make([]model.BatchItem, 0, len(messageIDs)),
	}
	result.Summary.Total = len(messageIDs)

	for _, id := range messageIDs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		item := e.processMessage(ctx, id, byID, products)
		switch item.Status {
		case model.BatchItemMatched:
			result.Summary.Matched++
		case model.BatchItemUnmatched:
			result.Summary.Unmatched++
		case model.BatchItemFailed:
			result.Summary.Failed++
		}
		result.Items = append(result.Items, item)
	}

	slog.Info("Batch match run complete",
		"total", result.Summary.Total,
		"matched", result.Summary.Matched,
		"unmatched", result.Summary.Unmatched,
		"failed", result.Summary.Failed)

	return result, nil
}

// processMessage scores one message against the shared pool and persists the
// outcome. Every error path is folded into a failed item.
func (e *MatchEngine) processMessage(ctx context.Context, id string, byID map[string]model.Message, products []model.Product) model.BatchItem {
	msg, ok := byID[id]
	if !ok {
		return model.BatchItem{
			MessageID: id,
			Status:    model.BatchItemFailed,
			Error:     "message not found",
		}
	}

	req := RequestFromMessage(msg)
	_, best := e.selector.Select(req, products)

	if best == nil || best.Confidence < e.cfg.Matching.MinConfidence {
		slog.Debug("No match for message", "message_id", id)
		return model.BatchItem{
			MessageID: id,
			Status:    model.BatchItemUnmatched,
		}
	}

	autoApply := best.Confidence >= e.cfg.Matching.AutoApplyThreshold

	record := &model.MatchRecord{
		MessageID:    id,
		ProductID:    best.CandidateID,
		PriorityTier: best.PriorityTier,
		Confidence:   best.Confidence,
		Details:      best.Details,
		Status:       model.MatchStatusPending,
		Applied:      false,
	}
	if autoApply {
		record.Status = model.MatchStatusApproved
		record.Applied = true
	}

	if err := e.storage.SaveMatch(ctx, record); err != nil {
		slog.Error("Failed to save match", "message_id", id, "error", err)
		return model.BatchItem{
			MessageID: id,
			Status:    model.BatchItemFailed,
			Error:     err.Error(),
		}
	}

	if autoApply {
		if err := e.storage.ApplyMatchToMessage(ctx, id, best.CandidateID, time.Now()); err != nil {
			slog.Error("Failed to apply match to message", "message_id", id, "error", err)
			return model.BatchItem{
				MessageID: id,
				Status:    model.BatchItemFailed,
				Error:     err.Error(),
			}
		}
		slog.Info("Auto-applied match",
			"message_id", id,
			"product_id", best.CandidateID,
			"confidence", best.Confidence,
			"tier", best.PriorityTier)
	}

	return model.BatchItem{
		MessageID:   id,
		Match:       best,
		Status:      model.BatchItemMatched,
		AutoApplied: autoApply,
	}
}
