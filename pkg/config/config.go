package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// PublicOrigin is the shop's scheme and host, used in the CSP header.
	PublicOrigin string `envconfig:"PUBLIC_ORIGIN" default:""`

	AWSRegion          string `envconfig:"AWS_REGION" default:"eu-west-2"`
	DynamoDBEndpoint   string `envconfig:"DYNAMODB_ENDPOINT" default:""` // DynamoDB Local
	CatalogTableName   string `envconfig:"CATALOG_TABLE_NAME" default:"coffees"`
	OrderTableName     string `envconfig:"ORDER_TABLE_NAME" default:"orders"`
	InventoryTableName string `envconfig:"INVENTORY_TABLE_NAME" default:"inventory"`

	KafkaBrokers     string `envconfig:"KAFKA_BROKERS" default:""`
	OrderEventsTopic string `envconfig:"ORDER_EVENTS_TOPIC" default:"order-events"`

	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`

	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`

	SupabaseURL     string `envconfig:"SUPABASE_URL"`
	SupabaseAnonKey string `envconfig:"SUPABASE_ANON_KEY"`

	Shipping
}

// Shipping is the single flat-rate option offered at checkout.
type Shipping struct {
	Country         string `envconfig:"SHIPPING_COUNTRY" default:"GB"`
	Amount          int64  `envconfig:"SHIPPING_AMOUNT" default:"355"`
	Currency        string `envconfig:"SHIPPING_CURRENCY" default:"gbp"`
	DisplayName     string `envconfig:"SHIPPING_DISPLAY_NAME" default:"Royal Mail Tracked 48"`
	MinBusinessDays int64  `envconfig:"SHIPPING_MIN_BUSINESS_DAYS" default:"3"`
	MaxBusinessDays int64  `envconfig:"SHIPPING_MAX_BUSINESS_DAYS" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Brokers splits KAFKA_BROKERS on commas. It is empty when publishing is off.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
