// Package config loads runtime configuration from the environment and the
// on-disk preferences file.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"storefront/retail"
)

// Config holds the process-level settings read from the environment.
type Config struct {
	// Addr is the HTTP listen address. Default ":8080".
	Addr string

	// AWSRegion overrides the SDK's region resolution when set.
	AWSRegion string

	// DynamoEndpoint points the DynamoDB client at a local endpoint
	// (DynamoDB Local, LocalStack) when set.
	DynamoEndpoint string

	// TablePrefix is prepended to every table name, e.g. "dev_".
	TablePrefix string

	// PreferencesPath is where UI preferences are persisted.
	// Default "preferences.json".
	PreferencesPath string
}

// Load reads configuration from the environment, first merging a .env file
// from the working directory when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("STOREFRONT_ADDR", ":8080"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		DynamoEndpoint:  os.Getenv("STOREFRONT_DYNAMO_ENDPOINT"),
		TablePrefix:     os.Getenv("STOREFRONT_TABLE_PREFIX"),
		PreferencesPath: envOr("STOREFRONT_PREFERENCES", "preferences.json"),
	}
}

// Tables returns the table set with the configured prefix applied.
func (c Config) Tables() retail.Tables {
	t := retail.DefaultTables()
	if c.TablePrefix == "" {
		return t
	}
	return retail.Tables{
		Items:        c.TablePrefix + t.Items,
		Customers:    c.TablePrefix + t.Customers,
		Suppliers:    c.TablePrefix + t.Suppliers,
		Sales:        c.TablePrefix + t.Sales,
		StockEntries: c.TablePrefix + t.StockEntries,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
