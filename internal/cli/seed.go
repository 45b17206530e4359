package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/retail"
)

// NewSeedCommand creates the seed command, which loads a small sample
// dataset through the repository so all back-references come out consistent.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "seed",
		Short:         "Load sample data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := openRepository(cmd.Context(), rootOpts, cfg, slog.Default())
			if err != nil {
				return err
			}
			if err := seed(cmd.Context(), repo); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sample data loaded")
			return nil
		},
	}
}

func seed(ctx context.Context, repo *retail.Repository) error {
	tv1, err := repo.AddItem(ctx, retail.ItemParams{
		Model:       "X900H",
		Brand:       "Sony",
		Price:       retail.NewMoney(decimal.RequireFromString("999.99")),
		ReleaseDate: retail.NewDate(2023, time.May, 15),
		Type:        retail.ItemLED,
		Smart:       true,
	})
	if err != nil {
		return err
	}
	tv2, err := repo.AddItem(ctx, retail.ItemParams{
		Model:       "Q80T",
		Brand:       "Samsung",
		Price:       retail.NewMoney(decimal.RequireFromString("1299.99")),
		ReleaseDate: retail.NewDate(2023, time.June, 20),
		Type:        retail.ItemQLED,
		Smart:       true,
	})
	if err != nil {
		return err
	}

	cust1, err := repo.AddCustomer(ctx, retail.CustomerParams{
		FirstName:        "John",
		LastName:         "Doe",
		Email:            "john.doe@email.com",
		Phone:            "555-0123",
		RegistrationDate: retail.NewDate(2024, time.January, 10),
		Type:             retail.CustomerWorker,
	})
	if err != nil {
		return err
	}
	cust2, err := repo.AddCustomer(ctx, retail.CustomerParams{
		FirstName:        "Jane",
		LastName:         "Smith",
		Email:            "jane.smith@email.com",
		Phone:            "555-0124",
		RegistrationDate: retail.NewDate(2024, time.February, 15),
		Type:             retail.CustomerStudent,
	})
	if err != nil {
		return err
	}

	supp1, err := repo.AddSupplier(ctx, retail.SupplierParams{
		Name:    "TechDistributors Inc",
		Phone:   "555-1000",
		Address: "123 Tech Street, Tech City",
		Email:   "contact@techdist.com",
	})
	if err != nil {
		return err
	}
	supp2, err := repo.AddSupplier(ctx, retail.SupplierParams{
		Name:    "ElectroSupply Co",
		Phone:   "555-2000",
		Address: "456 Supply Road, Supply Town",
		Email:   "sales@electrosupply.com",
	})
	if err != nil {
		return err
	}

	sales := []retail.SaleParams{
		{CustomerID: cust1, ItemID: tv1, SaleDate: retail.NewDate(2025, time.January, 20), Quantity: 1, Total: retail.NewMoney(decimal.RequireFromString("999.99"))},
		{CustomerID: cust1, ItemID: tv1, SaleDate: retail.NewDate(2025, time.January, 25), Quantity: 2, Total: retail.NewMoney(decimal.RequireFromString("1999.98"))},
		{CustomerID: cust2, ItemID: tv2, SaleDate: retail.NewDate(2025, time.February, 1), Quantity: 1, Total: retail.NewMoney(decimal.RequireFromString("1299.99"))},
	}
	for _, s := range sales {
		if _, err := repo.AddSale(ctx, s); err != nil {
			return err
		}
	}

	entries := []retail.StockEntryParams{
		{ItemID: tv1, SupplierID: supp1, EntryDate: retail.NewDate(2024, time.December, 1), Quantity: 50},
		{ItemID: tv2, SupplierID: supp2, EntryDate: retail.NewDate(2025, time.January, 15), Quantity: 30},
	}
	for _, e := range entries {
		if _, err := repo.AddStockEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
