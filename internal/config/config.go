// Package config loads the service configuration from a YAML file, a .env file
// and UNMA_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config is the complete service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Matching MatchingConfig `yaml:"matching"`
	Log      LogConfig      `yaml:"log"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `yaml:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode string `yaml:"mode"`
}

// StoreConfig selects and configures the registration store.
type StoreConfig struct {
	// Driver is one of memory, mongo, postgres.
	Driver string `yaml:"driver"`
	// FixtureFile seeds the memory store (YAML or JSON).
	FixtureFile string         `yaml:"fixture_file"`
	Mongo       MongoConfig    `yaml:"mongo"`
	Postgres    PostgresConfig `yaml:"postgres"`
}

// MongoConfig locates the registrations collection.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// PostgresConfig locates the registrations table.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// MatchingConfig tunes the matcher.
type MatchingConfig struct {
	MaxDistance  int           `yaml:"max_distance"`
	ResultLimit  int           `yaml:"result_limit"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	// TimeZone is the IANA zone travel dates are compared in; empty means local.
	TimeZone string `yaml:"time_zone"`
}

// LogConfig configures google/logger.
type LogConfig struct {
	// Verbose mirrors log output to stdout.
	Verbose bool `yaml:"verbose"`
	// Level enables logger.V(n) output for n <= Level.
	Level int `yaml:"level"`
	// File, when set, receives log output as well.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with the defaults used in development.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "unma",
				Collection: "registrations",
			},
			Postgres: PostgresConfig{
				Table: "registrations",
			},
		},
		Matching: MatchingConfig{
			MaxDistance:  50,
			ResultLimit:  20,
			QueryTimeout: 10 * time.Second,
			TimeZone:     "Asia/Kolkata",
		},
		Log: LogConfig{
			Verbose: true,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "" {
			return fmt.Errorf("store.mongo uri, database and collection are required")
		}
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" || c.Store.Postgres.Table == "" {
			return fmt.Errorf("store.postgres dsn and table are required")
		}
	default:
		return fmt.Errorf("store.driver %q is not one of memory, mongo, postgres", c.Store.Driver)
	}
	if c.Matching.MaxDistance < 0 {
		return fmt.Errorf("matching.max_distance must not be negative")
	}
	if c.Matching.ResultLimit <= 0 {
		return fmt.Errorf("matching.result_limit must be positive")
	}
	if c.Matching.QueryTimeout < 0 {
		return fmt.Errorf("matching.query_timeout must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("matching.time_zone: %w", err)
	}
	return nil
}

// Location resolves Matching.TimeZone.
func (c *Config) Location() (*time.Location, error) {
	if c.Matching.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Matching.TimeZone)
}

// LoadFromFile reads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration. path may be empty, in which case
// only defaults and the environment apply. A missing .env file is ignored.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from UNMA_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	stringVars := map[string]*string{
		"UNMA_HTTP_ADDR":        &c.HTTP.Addr,
		"UNMA_GIN_MODE":         &c.HTTP.Mode,
		"UNMA_STORE_DRIVER":     &c.Store.Driver,
		"UNMA_FIXTURE_FILE":     &c.Store.FixtureFile,
		"UNMA_MONGO_URI":        &c.Store.Mongo.URI,
		"UNMA_MONGO_DATABASE":   &c.Store.Mongo.Database,
		"UNMA_MONGO_COLLECTION": &c.Store.Mongo.Collection,
		"UNMA_POSTGRES_DSN":     &c.Store.Postgres.DSN,
		"UNMA_POSTGRES_TABLE":   &c.Store.Postgres.Table,
		"UNMA_TIME_ZONE":        &c.Matching.TimeZone,
		"UNMA_LOG_FILE":         &c.Log.File,
	}
	for key, dst := range stringVars {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"UNMA_MAX_DISTANCE": &c.Matching.MaxDistance,
		"UNMA_RESULT_LIMIT": &c.Matching.ResultLimit,
		"UNMA_LOG_LEVEL":    &c.Log.Level,
	}
	for key, dst := range intVars {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("UNMA_QUERY_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UNMA_QUERY_TIMEOUT: %w", err)
		}
		c.Matching.QueryTimeout = d
	}
	if v, ok := lookup("UNMA_LOG_VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("UNMA_LOG_VERBOSE: %w", err)
		}
		c.Log.Verbose = b
	}
	return nil
}
