package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmalvik/matchflow/internal/cli"
	"github.com/hmalvik/matchflow/internal/model"
)

func matchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Review persisted match records",
	}

	cmd.AddCommand(matchesListCmd())
	cmd.AddCommand(matchesApproveCmd())

	return cmd
}

func matchesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List match records by status, newest first",
		RunE:  runMatchesList,
	}

	cmd.Flags().String("status", "PENDING", "match status (PENDING, APPROVED)")
	cmd.Flags().Int("limit", 20, "maximum records to show")

	return cmd
}

func runMatchesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rawStatus, _ := cmd.Flags().GetString("status")
	status := model.MatchStatus(strings.ToUpper(rawStatus))
	switch status {
	case model.MatchStatusPending, model.MatchStatusApproved:
	default:
		return fmt.Errorf("invalid status %q, expected PENDING or APPROVED", rawStatus)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.GetMatchesByStatus(ctx, status, limit)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	if len(records) == 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("no %s matches", status)))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s matches (%d)", status, len(records))))
	for _, r := range records {
		applied := ""
		if r.Applied {
			applied = cli.SubtleStyle.Render(" [applied]")
		}
		fmt.Printf("%s → %s  tier %d  %.0f%%%s\n",
			cli.BoldStyle.Render(r.MessageID), r.ProductID, r.PriorityTier, r.Confidence*100, applied)
		fmt.Println("  " + cli.SubtleStyle.Render(r.Details))
	}
	return nil
}

func matchesApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <message-id>",
		Short: "Approve a pending match and apply it to its message",
		Args:  cobra.ExactArgs(1),
		RunE:  runMatchesApprove,
	}
}

func runMatchesApprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	messageID := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	record, err := store.GetMatchByMessageID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to load match for %s: %w", messageID, err)
	}

	if err := store.ApproveMatch(ctx, messageID); err != nil {
		return fmt.Errorf("failed to approve match: %w", err)
	}
	if err := store.ApplyMatchToMessage(ctx, messageID, record.ProductID, time.Now()); err != nil {
		return fmt.Errorf("failed to apply match to message: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("approved %s → %s", messageID, record.ProductID)))
	return nil
}
