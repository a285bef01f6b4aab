package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedFile is the JSON layout accepted by `storefront seed` and `serve --seed`.
type seedFile struct {
	Coffees   []domain.Product      `json:"coffees"`
	Inventory []domain.InventoryRow `json:"inventory"`
}

type productWriter interface {
	PutProduct(ctx context.Context, p domain.Product) error
}

type inventoryWriter interface {
	PutRow(ctx context.Context, row domain.InventoryRow) error
}

func readSeedFile(path string) (seedFile, error) {
	var seed seedFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, err
	}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return seed, nil
}

func applySeed(ctx context.Context, seed seedFile, products productWriter, inventory inventoryWriter, logger *zap.Logger) error {
	for _, p := range seed.Coffees {
		if p.PriceRef == "" {
			return domain.NewValidationError("stripe_price_id", "must not be empty", p.Name)
		}
		if err := products.PutProduct(ctx, p); err != nil {
			return fmt.Errorf("coffee %s: %w", p.PriceRef, err)
		}
	}
	for _, row := range seed.Inventory {
		if row.ID <= 0 {
			return domain.NewValidationError("id", "must be positive", row.ID)
		}
		if err := inventory.PutRow(ctx, row); err != nil {
			return fmt.Errorf("inventory %d: %w", row.ID, err)
		}
	}
	logger.Info("Seed data loaded",
		zap.Int("coffees", len(seed.Coffees)),
		zap.Int("inventory_rows", len(seed.Inventory)))
	return nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file.json]",
		Short: "Load coffees and inventory rows into DynamoDB",
		Long: `Load catalog and inventory data from a JSON file of the form

  {"coffees": [...], "inventory": [...]}

Existing items with the same key are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			client, err := repository.NewDynamoDBClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return applySeed(cmd.Context(),
				seed,
				repository.NewCatalogRepository(client, cfg.CatalogTableName),
				repository.NewInventoryRepository(client, cfg.InventoryTableName),
				logger)
		},
	}
}
