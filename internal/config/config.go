// Package config provides Viper-based configuration loading for Scoundrel.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Leaderboard backends.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// LeaderboardConfig selects where finished runs are recorded.
type LeaderboardConfig struct {
	// Backend is "json" for a local score file, "sqlite" for a local
	// database or "postgres" for a shared one.
	Backend string `mapstructure:"backend"`
	// Path is the JSON score file used by the json backend.
	Path string `mapstructure:"path"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
	// Size is the number of rows shown on the leaderboard.
	Size int `mapstructure:"size"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the log file path. The terminal belongs to the UI, so logs
	// go to a file; "stderr" or "stdout" are accepted for headless binaries.
	Output string `mapstructure:"output"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	// TickRate is the redraw interval.
	TickRate time.Duration `mapstructure:"tick_rate"`
	// Mouse enables mouse wheel scrolling and click-to-select.
	Mouse bool `mapstructure:"mouse"`
	// DefaultName is recorded when the player leaves the name blank.
	DefaultName string `mapstructure:"default_name"`
}

// AutoplayConfig holds headless autoplay settings.
type AutoplayConfig struct {
	// Strategy is a Lua strategy file; empty uses the built-in chooser.
	Strategy string `mapstructure:"strategy"`
	// InstructionLimit caps Lua opcodes per decision; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// MaxSteps aborts a run that has not finished after this many actions.
	MaxSteps int `mapstructure:"max_steps"`
	// Runs is the number of runs played per invocation.
	Runs int `mapstructure:"runs"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Database    DatabaseConfig    `mapstructure:"database"`
	UI          UIConfig          `mapstructure:"ui"`
	Autoplay    AutoplayConfig    `mapstructure:"autoplay"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLeaderboard(c.Leaderboard); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Leaderboard.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateUI(c.UI); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAutoplay(c.Autoplay); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateLeaderboard(l LeaderboardConfig) error {
	var errs []string
	switch l.Backend {
	case BackendJSON:
		if l.Path == "" {
			errs = append(errs, "leaderboard.path must not be empty for the json backend")
		}
	case BackendSQLite:
		if l.SQLitePath == "" {
			errs = append(errs, "leaderboard.sqlite_path must not be empty for the sqlite backend")
		}
	case BackendPostgres:
	default:
		errs = append(errs, fmt.Sprintf("leaderboard.backend must be one of [json, sqlite, postgres], got %q", l.Backend))
	}
	if l.Size < 1 || l.Size > 100 {
		errs = append(errs, fmt.Sprintf("leaderboard.size must be 1-100, got %d", l.Size))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateUI(u UIConfig) error {
	var errs []string
	if u.TickRate <= 0 {
		errs = append(errs, fmt.Sprintf("ui.tick_rate must be positive, got %s", u.TickRate))
	}
	if strings.TrimSpace(u.DefaultName) == "" {
		errs = append(errs, "ui.default_name must not be empty")
	}
	if len(u.DefaultName) > 20 {
		errs = append(errs, fmt.Sprintf("ui.default_name must be at most 20 characters, got %d", len(u.DefaultName)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAutoplay(a AutoplayConfig) error {
	var errs []string
	if a.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("autoplay.instruction_limit must be >= 0, got %d", a.InstructionLimit))
	}
	if a.MaxSteps < 1 {
		errs = append(errs, fmt.Sprintf("autoplay.max_steps must be >= 1, got %d", a.MaxSteps))
	}
	if a.Runs < 1 {
		errs = append(errs, fmt.Sprintf("autoplay.runs must be >= 1, got %d", a.Runs))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Precondition: path must be empty or a path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SCOUNDREL_ prefix
	v.SetEnvPrefix("SCOUNDREL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default settings.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "scoundrel.log")

	v.SetDefault("leaderboard.backend", BackendJSON)
	v.SetDefault("leaderboard.path", "scoundrel_scores.json")
	v.SetDefault("leaderboard.sqlite_path", "scoundrel_scores.db")
	v.SetDefault("leaderboard.size", 10)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "scoundrel")
	v.SetDefault("database.password", "scoundrel")
	v.SetDefault("database.name", "scoundrel")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("ui.tick_rate", "33ms")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.default_name", "Scoundrel")

	v.SetDefault("autoplay.strategy", "")
	v.SetDefault("autoplay.instruction_limit", 0)
	v.SetDefault("autoplay.max_steps", 500)
	v.SetDefault("autoplay.runs", 1)
}
