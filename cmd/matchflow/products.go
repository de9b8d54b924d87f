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
	"github.com/hmalvik/matchflow/internal/service"
)

const importChunkSize = 100

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}

	cmd.AddCommand(productsImportCmd())
	cmd.AddCommand(productsListCmd())

	return cmd
}

func productsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import catalog products from a JSON file",
		Long: `Load products from a JSON array and upsert them into the catalog.
Existing products with the same ID are updated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runProductsImport,
	}
}

func runProductsImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	if len(products) == 0 {
		fmt.Println(cli.FormatWarning("no products in file"))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	bar := progressbar.NewOptions(len(products),
		progressbar.OptionSetDescription("Importing products"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for start := 0; start < len(products); start += importChunkSize {
		end := start + importChunkSize
		if end > len(products) {
			end = len(products)
		}
		if err := store.SaveProducts(ctx, products[start:end]); err != nil {
			return fmt.Errorf("failed to save products: %w", err)
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	slog.Info("Product import completed", "count", len(products))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d products", len(products))))
	return nil
}

func productsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products, newest first",
		RunE:  runProductsList,
	}

	cmd.Flags().String("vendor", "", "filter by vendor code")
	cmd.Flags().Int("limit", 20, "maximum products to show")

	return cmd
}

func runProductsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	filter := service.ProductFilter{}
	filter.VendorCode, _ = cmd.Flags().GetString("vendor")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	products, err := store.GetProducts(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if len(products) == 0 {
		fmt.Println(cli.FormatWarning("no products found"))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Products (%d)", len(products))))
	for _, p := range products {
		line := cli.BoldStyle.Render(p.ID) + "  " + p.Name
		if p.VendorCode != "" {
			line += cli.SubtleStyle.Render("  vendor=" + p.VendorCode)
		}
		if p.PurchaseOrderRef != "" {
			line += cli.SubtleStyle.Render("  po=" + p.PurchaseOrderRef)
		}
		fmt.Println(line)
	}
	return nil
}
