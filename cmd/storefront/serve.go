package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fourways-coffee/storefront/internal/auth"
	"github.com/fourways-coffee/storefront/internal/events"
	"github.com/fourways-coffee/storefront/internal/handler"
	"github.com/fourways-coffee/storefront/internal/payment"
	"github.com/fourways-coffee/storefront/internal/repository"
	"github.com/fourways-coffee/storefront/internal/service"
	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/fourways-coffee/storefront/internal/web"
	"github.com/fourways-coffee/storefront/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type catalogStore interface {
	service.CatalogReader
	productWriter
}

type inventoryStore interface {
	service.InventoryStore
	inventoryWriter
}

type stores struct {
	catalog   catalogStore
	orders    service.OrderStore
	inventory inventoryStore
}

type publisher interface {
	service.EventPublisher
	handler.HealthChecker
	Close() error
}

func serveCmd() *cobra.Command {
	var (
		inMemory bool
		seedPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP server",
		Long: `Start the storefront HTTP server.

Examples:
  storefront serve
  storefront serve --in-memory --seed cmd/storefront/testdata/seed.json`,
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

			return runServe(cmd.Context(), cfg, logger, inMemory, seedPath)
		},
	}

	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "keep catalog, orders and inventory in memory instead of DynamoDB")
	cmd.Flags().StringVar(&seedPath, "seed", "", "JSON seed file loaded at startup")

	return cmd
}

func openStores(ctx context.Context, cfg *config.Config, inMemory bool) (stores, error) {
	if inMemory {
		return stores{
			catalog:   repository.NewMemoryCatalog(),
			orders:    repository.NewMemoryOrders(),
			inventory: repository.NewMemoryInventory(),
		}, nil
	}

	client, err := repository.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	return stores{
		catalog:   repository.NewCatalogRepository(client, cfg.CatalogTableName),
		orders:    repository.NewOrderRepository(client, cfg.OrderTableName),
		inventory: repository.NewInventoryRepository(client, cfg.InventoryTableName),
	}, nil
}

func newPublisher(cfg *config.Config, logger *zap.Logger) publisher {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, order events are not published")
		return events.NewNoopPublisher(logger)
	}
	return events.NewKafkaProducer(brokers, cfg.OrderEventsTopic, logger)
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger, inMemory bool, seedPath string) error {
	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.Bool("in_memory", inMemory),
		zap.String("kafka_brokers", cfg.KafkaBrokers))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStores(ctx, cfg, inMemory)
	if err != nil {
		return err
	}
	if seedPath != "" {
		seed, err := readSeedFile(seedPath)
		if err != nil {
			return err
		}
		if err := applySeed(ctx, seed, st.catalog, st.inventory, logger); err != nil {
			return err
		}
	}

	tmpl, err := web.Templates(cfg.Shipping.Currency)
	if err != nil {
		return err
	}

	pub := newPublisher(cfg, logger)
	defer pub.Close()

	stripeGateway, err := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.Shipping)
	if err != nil {
		return err
	}
	supabase := auth.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)

	cartService := service.NewCartService(st.catalog, logger)
	checkoutService := service.NewCheckoutService(st.catalog, stripeGateway, logger)
	fulfillmentService := service.NewFulfillmentService(st.catalog, st.orders, stripeGateway, pub, logger)
	orderAdminService := service.NewOrderAdminService(st.orders, pub, logger)
	inventoryService := service.NewInventoryService(st.inventory, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Logger:     logger,
		Sessions:   session.NewManager(cfg.SessionSecret, cfg.IsProduction(), logger),
		Templates:  tmpl,
		Origin:     cfg.PublicOrigin,
		Kafka:      pub,
		Storefront: handler.NewStorefrontHandler(st.catalog, logger),
		Cart:       handler.NewCartHandler(cartService, logger),
		Checkout:   handler.NewCheckoutHandler(checkoutService, fulfillmentService, stripeGateway, logger),
		Admin:      handler.NewAdminHandler(orderAdminService, inventoryService, logger),
		Auth:       handler.NewAuthHandler(supabase, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
