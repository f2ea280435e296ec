// Package config handles configuration for the service: defaults, then
// environment variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds runtime settings for the blog service.
//
// Fields:
//   - Port: HTTP listen port.
//   - DBDriver: "sqlite3" or "postgres".
//   - DatabaseURL: SQLite file path or PostgreSQL connection string.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - BcryptCost: bcrypt work factor for password hashes.
type Config struct {
	Port            string
	DBDriver        string
	DatabaseURL     string
	ShutdownTimeout time.Duration
	BcryptCost      int
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.DBDriver = DriverSQLite
	c.DatabaseURL = "./blog_service.db"
	c.ShutdownTimeout = 10 * time.Second
	c.BcryptCost = 10
}

// Load builds a Config from defaults overlaid with environment variables.
// Flags are bound separately with BindFlags so that the caller owns parsing.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok {
		c.Port = v
	}
	if v, ok := lookup("DB_DRIVER"); ok {
		c.DBDriver = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		c.DatabaseURL = v
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}
	return nil
}

// BindFlags registers the config flags on fs using the current values as
// defaults.
//
//	-port string          HTTP listen port
//	-db-driver string     sqlite3 or postgres
//	-database-url string  SQLite path or PostgreSQL DSN
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "HTTP listen port")
	fs.StringVar(&c.DBDriver, "db-driver", c.DBDriver, "database driver (sqlite3 or postgres)")
	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "SQLite file path or PostgreSQL connection string")
}

// Validate reports configuration that cannot start the service.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database url is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range", c.BcryptCost))
	}
	return errors.Join(errs...)
}
