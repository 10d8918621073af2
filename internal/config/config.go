package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDBDriver          = "pgx"
	defaultReconcileSchedule = "@every 6h"
	defaultAccessTokenTTL    = 30 * time.Minute
)

type Config struct {
	HTTPAddr          string   `toml:"http_addr"`
	JWTSecret         string   `toml:"jwt_secret"`
	AccessTokenTTL    Duration `toml:"access_token_ttl"`
	ReconcileSchedule string   `toml:"reconcile_schedule"`
	Database          Database `toml:"database"`
}

type Database struct {
	Driver           string `toml:"driver"`
	ConnectionString string `toml:"connection_string"`
}

// Duration lets TOML files use strings like "15m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load builds the configuration from defaults, an optional TOML file and the environment,
// in that order of precedence (environment wins).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	cfg := &Config{
		HTTPAddr:          defaultHTTPAddr,
		AccessTokenTTL:    Duration{defaultAccessTokenTTL},
		ReconcileSchedule: defaultReconcileSchedule,
		Database:          Database{Driver: defaultDBDriver},
	}

	if path == "" {
		path = os.Getenv("KHATA_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_CONNECTION_STRING"); v != "" {
		c.Database.ConnectionString = v
	}
	if v := os.Getenv("RECONCILE_SCHEDULE"); v != "" {
		c.ReconcileSchedule = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
		}
		c.AccessTokenTTL = Duration{ttl}
	}
	return nil
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("no JWT_SECRET provided"))
	}
	if c.Database.ConnectionString == "" {
		errs = append(errs, errors.New("missing DB_CONNECTION_STRING"))
	}
	if c.Database.Driver != "pgx" && c.Database.Driver != "sqlite3" {
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.AccessTokenTTL.Duration <= 0 {
		errs = append(errs, errors.New("access token ttl must be positive"))
	}
	return errors.Join(errs...)
}
