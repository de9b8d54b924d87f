package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hmalvik/matchflow/internal/cli"
	"github.com/hmalvik/matchflow/internal/model"
)

func messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Manage ingested messages",
	}

	cmd.AddCommand(messagesImportCmd())
	cmd.AddCommand(messagesListCmd())

	return cmd
}

func messagesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import messages from a JSON file",
		Long: `Load messages from a JSON array and upsert them. Imported messages are
flagged as needing review unless already resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: runMessagesImport,
	}
}

func runMessagesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var messages []model.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	if len(messages) == 0 {
		fmt.Println(cli.FormatWarning("no messages in file"))
		return nil
	}

	for i := range messages {
		if messages[i].ResolvedProductID == "" {
			messages[i].NeedsReview = true
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	bar := progressbar.NewOptions(len(messages),
		progressbar.OptionSetDescription("Importing messages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for start := 0; start < len(messages); start += importChunkSize {
		end := start + importChunkSize
		if end > len(messages) {
			end = len(messages)
		}
		if err := store.SaveMessages(ctx, messages[start:end]); err != nil {
			return fmt.Errorf("failed to save messages: %w", err)
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	slog.Info("Message import completed", "count", len(messages))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d messages", len(messages))))
	return nil
}

func messagesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages still needing review, oldest first",
		RunE:  runMessagesList,
	}

	cmd.Flags().Int("limit", 20, "maximum messages to show")

	return cmd
}

func runMessagesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	messages, err := store.GetMessagesNeedingReview(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	if len(messages) == 0 {
		fmt.Println(cli.FormatSuccess("no messages need review"))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Messages needing review (%d)", len(messages))))
	for _, m := range messages {
		line := cli.BoldStyle.Render(m.ID) + "  " + m.Caption
		if m.VendorHint != "" {
			line += cli.SubtleStyle.Render("  hint=" + m.VendorHint)
		}
		fmt.Println(line)
	}
	return nil
}
