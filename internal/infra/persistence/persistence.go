// Package persistence selects and configures the sequence-value store backing
// value generation.
package persistence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trackcore/internal/infra/persistence/memory"
	"trackcore/internal/infra/persistence/postgres"
	"trackcore/internal/infra/persistence/sqlite"
	"trackcore/pkg/domain"
)

// Driver identifies a sequence store backend.
type Driver string

// Supported sequence store drivers.
const (
	// DriverMemory keeps sequence positions in process memory.
	DriverMemory Driver = "memory"
	// DriverSQLite persists sequence positions in a SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres uses native Postgres sequences.
	DriverPostgres Driver = "postgres"
)

// DefaultBlockSize is the default hi/lo block size handed to sequence
// generators configured from this package.
const DefaultBlockSize = 10

// Config controls sequence store selection and generation tuning.
type Config struct {
	// Driver selects the backend: memory, sqlite, or postgres.
	Driver Driver `yaml:"driver"`
	// DSN is the Postgres connection string when driver=postgres.
	DSN string `yaml:"dsn"`
	// Path is the database file location when driver=sqlite.
	Path string `yaml:"path"`
	// BlockSize is the hi/lo block size for sequence generators.
	BlockSize int64 `yaml:"block_size"`
}

// DefaultConfig returns the baseline configuration: in-memory store with the
// default block size.
func DefaultConfig() Config {
	return Config{Driver: DriverMemory, BlockSize: DefaultBlockSize}
}

// Load reads a YAML configuration file, applying defaults for absent fields
// and the TRACKCORE_DSN environment override. An empty path yields the
// default configuration.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if dsn := os.Getenv("TRACKCORE_DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverMemory
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown sequence store driver %q", c.Driver)
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	return nil
}

// Open constructs the configured sequence source.
func (c Config) Open() (domain.SequenceSource, error) {
	switch c.Driver {
	case DriverMemory, "":
		return memory.NewStore(), nil
	case DriverSQLite:
		store, err := sqlite.NewStore(c.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverPostgres:
		store, err := postgres.NewStore(c.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown sequence store driver %q", c.Driver)
	}
}
