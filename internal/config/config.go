// Package config provides Viper-based configuration loading for the brawl runner.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/brawl/internal/game/mode"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns battle log persistence on.
	Enabled         bool          `mapstructure:"enabled"`
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
}

// ContentConfig locates the YAML and Lua content trees.
type ContentConfig struct {
	ClassesDir   string `mapstructure:"classes_dir"`
	AIDir        string `mapstructure:"ai_dir"`
	AIScriptsDir string `mapstructure:"ai_scripts_dir"`
	// ScriptInstructionLimit caps the Lua instructions of one precondition call; 0 selects the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// MatchConfig holds the numeric rules of the objective modes.
type MatchConfig struct {
	RoundLimit     int   `mapstructure:"round_limit"`
	HealDelay      int   `mapstructure:"heal_delay"`
	HealAmount     int   `mapstructure:"heal_amount"`
	RespawnTurns   int   `mapstructure:"respawn_turns"`
	GemTarget      int   `mapstructure:"gem_target"`
	GemWeights     []int `mapstructure:"gem_weights"`
	PowerUpWeights []int `mapstructure:"powerup_weights"`
	PoisonRound    int   `mapstructure:"poison_round"`
	PoisonDamage   int   `mapstructure:"poison_damage"`
	// Seed fixes the random source; 0 selects a crypto source.
	Seed uint64 `mapstructure:"seed"`
}

// Rules converts the match section to mode.Rules.
//
// Precondition: GemWeights and PowerUpWeights have exactly two entries.
func (m MatchConfig) Rules() mode.Rules {
	r := mode.Rules{
		RoundLimit:   m.RoundLimit,
		HealDelay:    m.HealDelay,
		HealAmount:   m.HealAmount,
		RespawnTurns: m.RespawnTurns,
		GemTarget:    m.GemTarget,
		PoisonRound:  m.PoisonRound,
		PoisonDamage: m.PoisonDamage,
	}
	copy(r.GemWeights[:], m.GemWeights)
	copy(r.PowerUpWeights[:], m.PowerUpWeights)
	return r
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Match    MatchConfig    `mapstructure:"match"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMatch(c.Match); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.ClassesDir == "" {
		errs = append(errs, "content.classes_dir must not be empty")
	}
	if c.AIDir == "" {
		errs = append(errs, "content.ai_dir must not be empty")
	}
	if c.AIScriptsDir == "" {
		errs = append(errs, "content.ai_scripts_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, "content.script_instruction_limit must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMatch(m MatchConfig) error {
	var errs []string
	if len(m.GemWeights) != 2 {
		errs = append(errs, fmt.Sprintf("match.gem_weights must have 2 entries, got %d", len(m.GemWeights)))
	}
	if len(m.PowerUpWeights) != 2 {
		errs = append(errs, fmt.Sprintf("match.powerup_weights must have 2 entries, got %d", len(m.PowerUpWeights)))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	if err := m.Rules().Validate(); err != nil {
		return fmt.Errorf("match: %s", strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BRAWL_ prefix
	v.SetEnvPrefix("BRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
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

// Default returns a Viper instance holding only the defaults.
func Default() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "brawl")
	v.SetDefault("database.password", "brawl")
	v.SetDefault("database.name", "brawl")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.classes_dir", "content/classes")
	v.SetDefault("content.ai_dir", "content/ai")
	v.SetDefault("content.ai_scripts_dir", "content/scripts/ai")
	v.SetDefault("content.script_instruction_limit", 0)

	r := mode.DefaultRules()
	v.SetDefault("match.round_limit", r.RoundLimit)
	v.SetDefault("match.heal_delay", r.HealDelay)
	v.SetDefault("match.heal_amount", r.HealAmount)
	v.SetDefault("match.respawn_turns", r.RespawnTurns)
	v.SetDefault("match.gem_target", r.GemTarget)
	v.SetDefault("match.gem_weights", r.GemWeights[:])
	v.SetDefault("match.powerup_weights", r.PowerUpWeights[:])
	v.SetDefault("match.poison_round", r.PoisonRound)
	v.SetDefault("match.poison_damage", r.PoisonDamage)
	v.SetDefault("match.seed", 0)
}
