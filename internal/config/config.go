// Package config loads esread settings from a YAML file, ESREAD_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
	"github.com/shogotsuneto/go-simple-eventsource/postgres"
)

// Supported backends
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "ESREAD"

// Configuration keys
const (
	KeyBackend          = "backend"
	KeyDSN              = "dsn"
	KeyTable            = "table"
	KeyBatchSize        = "batch_size"
	KeyStartingPosition = "starting_position"
	KeyLogLevel         = "log_level"
)

// Config holds the settings of a read.
type Config struct {
	Backend          string `mapstructure:"backend"`
	DSN              string `mapstructure:"dsn"`
	Table            string `mapstructure:"table"`
	BatchSize        int    `mapstructure:"batch_size"`
	StartingPosition int64  `mapstructure:"starting_position"`
	LogLevel         string `mapstructure:"log_level"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackend, BackendPostgres)
	v.SetDefault(KeyDSN, "")
	v.SetDefault(KeyTable, postgres.DefaultTableName)
	v.SetDefault(KeyBatchSize, eventsource.DefaultBatchSize)
	v.SetDefault(KeyStartingPosition, 0)
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads the configuration into a Config. path may be empty, in which
// case only defaults, environment variables and bound flags apply.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a read.
func (c Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendPostgres, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn must not be empty"))
	}
	if c.Table == "" {
		errs = append(errs, errors.New("table must not be empty"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: batch_size must be positive, got %d", eventsource.ErrInvalidArgument, c.BatchSize))
	}
	if c.StartingPosition < 0 {
		errs = append(errs, fmt.Errorf("%w: starting_position must not be negative, got %d", eventsource.ErrInvalidArgument, c.StartingPosition))
	}

	return errors.Join(errs...)
}
