// Package config loads the footprint service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/carbon-tracker-api/shared/logger"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/mailer"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/registry"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"footprint-service"`

	HTTP       HTTPConfig       `envPrefix:"HTTP_"`
	GRPCHealth GRPCHealthConfig `envPrefix:"GRPC_HEALTH_"`
	Store      StoreConfig      `envPrefix:"STORE_"`
	Mongo      MongoConfig      `envPrefix:"MONGO_"`
	Postgres   PostgresConfig   `envPrefix:"POSTGRES_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`
	Token      TokenConfig      `envPrefix:"JWT_"`
	Query      QueryConfig
	Google     GoogleConfig    `envPrefix:"GOOGLE_"`
	Log        logger.Config   `envPrefix:"LOG_"`
	SMTP       mailer.Config   `envPrefix:"SMTP_"`
	Consul     registry.Config `envPrefix:"CONSUL_"`
}

type HTTPConfig struct {
	Address         string        `env:"ADDR"             envDefault:":9000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"  envDefault:"*" envSeparator:","`
}

// GRPCHealthConfig enables the grpc.health.v1 server when Address is set.
type GRPCHealthConfig struct {
	Address string `env:"ADDR"`
}

type StoreConfig struct {
	Driver string `env:"DRIVER" envDefault:"mongo"`
}

type MongoConfig struct {
	URI      string `env:"URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"carbon_tracker"`
}

type PostgresConfig struct {
	URL string `env:"URL"`
}

// RedisConfig enables the stats cache when Address is set.
type RedisConfig struct {
	Address  string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB"        envDefault:"0"`
	StatsTTL time.Duration `env:"STATS_TTL" envDefault:"5m"`
}

type TokenConfig struct {
	Secret    string        `env:"SECRET"`
	Issuer    string        `env:"ISSUER"     envDefault:"carbon-tracker-api"`
	Audience  string        `env:"AUDIENCE"   envDefault:"carbon-tracker-web"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"168h"`
}

type QueryConfig struct {
	DefaultPageLimit int `env:"DEFAULT_PAGE_LIMIT" envDefault:"10"`
	MaxPageLimit     int `env:"MAX_PAGE_LIMIT"     envDefault:"100"`
	FetchLimit       int `env:"STATS_FETCH_LIMIT"  envDefault:"1000"`
}

// GoogleConfig enables Google sign-in when ClientID is set.
type GoogleConfig struct {
	ClientID string `env:"CLIENT_ID"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Token.Secret == "" {
		return errors.New("missing JWT_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}

	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return errors.New("missing MONGO_URI environment variable")
		}
		if c.Mongo.Database == "" {
			return errors.New("missing MONGO_DATABASE environment variable")
		}
	case StorePostgres:
		if c.Postgres.URL == "" {
			return errors.New("missing POSTGRES_URL environment variable")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Query.DefaultPageLimit < 1 || c.Query.MaxPageLimit < 1 {
		return errors.New("page limits must be positive")
	}
	if c.Query.DefaultPageLimit > c.Query.MaxPageLimit {
		return errors.New("DEFAULT_PAGE_LIMIT must not exceed MAX_PAGE_LIMIT")
	}
	if c.Query.FetchLimit < 1 {
		return errors.New("STATS_FETCH_LIMIT must be positive")
	}

	if c.SMTP.Enabled() {
		if err := c.SMTP.Validate(); err != nil {
			return err
		}
	}

	return nil
}
