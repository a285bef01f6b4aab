package main

import (
	"context"
	"time"

	"github.com/fourways-coffee/storefront/internal/repository"
	"github.com/fourways-coffee/storefront/pkg/config"
	"github.com/spf13/cobra"
)

func tableSpecs(cfg *config.Config) []repository.TableSpec {
	return []repository.TableSpec{
		{Name: cfg.CatalogTableName},
		{Name: cfg.OrderTableName, WithGSI: true},
		{Name: cfg.InventoryTableName},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the DynamoDB tables if they do not exist",
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

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			client, err := repository.NewDynamoDBClient(ctx, cfg)
			if err != nil {
				return err
			}
			return repository.EnsureTables(ctx, client, tableSpecs(cfg), logger)
		},
	}
}
