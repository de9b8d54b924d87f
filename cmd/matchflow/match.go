package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmalvik/matchflow/internal/cli"
	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/model"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <search name>",
		Short: "Score a single search against the catalog",
		Long: `Run one match request against the candidate pool and print the ranked
candidates. Nothing is persisted; use this to tune thresholds or inspect
why a caption does or does not resolve.`,
		Args: cobra.ExactArgs(1),
		RunE: runMatch,
	}

	cmd.Flags().String("po", "", "purchase order number to corroborate against")
	cmd.Flags().String("vendor", "", "vendor name for secondary name scoring")
	cmd.Flags().String("vendor-uid", "", "vendor code for exact vendor corroboration")
	cmd.Flags().String("date", "", "purchase date (YYYY-MM-DD)")
	cmd.Flags().Float64("min-confidence", 0, "override the confidence floor")

	return cmd
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	req := model.MatchRequest{SearchName: args[0]}
	req.PONumber, _ = cmd.Flags().GetString("po")
	req.VendorName, _ = cmd.Flags().GetString("vendor")
	req.VendorUID, _ = cmd.Flags().GetString("vendor-uid")
	req.MinConfidence, _ = cmd.Flags().GetFloat64("min-confidence")

	if rawDate, _ := cmd.Flags().GetString("date"); rawDate != "" {
		d, parseErr := time.Parse("2006-01-02", rawDate)
		if parseErr != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", parseErr)
		}
		req.PurchaseDate = &d
	}

	e := engine.NewWithConfig(store, engineConfig())
	matches, best, err := e.Match(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Candidates for " + req.SearchName))
	fmt.Println(cli.RenderMatchList(matches))

	if best != nil {
		fmt.Println()
		fmt.Println(cli.RenderBox("Best Match", cli.RenderMatch(*best)))
	}

	return nil
}
