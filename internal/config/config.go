package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort       string        `envconfig:"HTTP_PORT" default:"8080"`
	CatalogBaseURL string        `envconfig:"CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// StorageBackend selects the ledger snapshot store: memory, redis or
	// mongo.
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	MongoURI       string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase  string `envconfig:"MONGO_DATABASE" default:"kartcentral"`

	// KafkaBrokers enables the order event publisher when non-empty.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine in production

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
