package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hmalvik/matchflow/internal/cli"
	"github.com/hmalvik/matchflow/internal/common"
	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
)

const batchChunkSize = 25

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [message-id...]",
		Short: "Match a set of messages against the catalog",
		Long: `Run the matching orchestrator over the given message IDs. With --all,
every message still needing review is processed instead. Matches at or
above the auto-apply threshold are applied to their messages; the rest
are stored as pending for review.`,
		RunE: runBatch,
	}

	cmd.Flags().Bool("all", false, "process all messages needing review")
	cmd.Flags().Int("limit", 500, "maximum messages to process with --all")
	cmd.Flags().Bool("verbose", false, "print the outcome of every message")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	all, _ := cmd.Flags().GetBool("all")
	verbose, _ := cmd.Flags().GetBool("verbose")

	ids := args
	if all {
		limit, _ := cmd.Flags().GetInt("limit")
		messages, listErr := store.GetMessagesNeedingReview(ctx, limit)
		if listErr != nil {
			return fmt.Errorf("failed to list messages needing review: %w", listErr)
		}
		ids = make([]string, 0, len(messages))
		for _, m := range messages {
			ids = append(ids, m.ID)
		}
	}

	if len(ids) == 0 {
		fmt.Println(cli.FormatWarning("nothing to match"))
		return nil
	}

	e := engine.NewWithConfig(store, engineConfig())
	slog.Info("Starting batch match", "messages", len(ids))

	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetDescription("Matching messages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var items []model.BatchItem
	var summary model.BatchSummary

	for start := 0; start < len(ids); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		var result *model.BatchResult
		err = common.WithRetry(ctx, func() error {
			var runErr error
			result, runErr = e.RunBatch(ctx, chunk)
			return runErr
		}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond})
		if err != nil {
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			return fmt.Errorf("batch run failed: %w", err)
		}

		items = append(items, result.Items...)
		summary.Total += result.Summary.Total
		summary.Matched += result.Summary.Matched
		summary.Unmatched += result.Summary.Unmatched
		summary.Failed += result.Summary.Failed
		_ = bar.Add(len(chunk))
	}
	_ = bar.Finish()

	for _, item := range items {
		if verbose || item.Status == model.BatchItemFailed {
			fmt.Println(cli.RenderBatchItem(item))
		}
	}

	fmt.Println(cli.RenderBatchSummary(summary))
	return nil
}
