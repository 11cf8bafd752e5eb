package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "CASSFRAME_"

const defaultPort = 9042

// Config holds the connection parameters and local file locations used by
// the cassframe CLI.
//
// Values come from CASSFRAME_* environment variables, optionally seeded
// from a .env file in the working directory. CLI flags override them.
type Config struct {
	Cassandra CassandraConfig

	// LedgerPath is the sqlite file recording every exported file.
	LedgerPath string `env:"LEDGER_PATH" envDefault:"cassframe.db"`

	// LogFile is the rotating log file; console logging is always on.
	// Empty places it next to the ledger.
	LogFile string `env:"LOG_FILE"`
}

// CassandraConfig contains the contact point and credentials for a cluster.
type CassandraConfig struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port int    `env:"PORT" envDefault:"9042"`
	User string `env:"USER" envDefault:"cassandra"`
	// Password is base64 encoded; see the encode command.
	Password string `env:"PASSWORD"`
	Keyspace string `env:"KEYSPACE"`
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Sanitize()
	return &cfg, nil
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *Config) Sanitize() {
	if c.Cassandra.Port <= 0 || c.Cassandra.Port > 65535 {
		c.Cassandra.Port = defaultPort
	}
}
