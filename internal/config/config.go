// Package config provides Viper-based configuration loading for the fitting tool.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// CatalogConfig locates the static item and skill content.
type CatalogConfig struct {
	// Dir holds skills.yaml, modules.yaml, weapons.yaml, and dropsuits.yaml.
	Dir string `mapstructure:"dir"`
}

// StorageConfig selects where characters and saved fittings are kept.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend string `mapstructure:"backend"`
	// Dir is the data directory used by the file backend.
	Dir string `mapstructure:"dir"`
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
	// Output is "stderr" or a file path. Reports own stdout.
	Output string `mapstructure:"output"`
}

// EngineConfig tunes the fitting calculator.
type EngineConfig struct {
	// StackingOrder is "insertion" or "magnitude".
	StackingOrder string `mapstructure:"stacking_order"`
}

// Config is the top-level application configuration.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres backend is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var p problems
	if c.Catalog.Dir == "" {
		p.add("catalog.dir must not be empty")
	}
	c.Storage.check(&p)
	if c.Storage.Backend == BackendPostgres {
		c.Database.check(&p)
	}
	c.Logging.check(&p)
	p.oneOf("engine.stacking_order", c.Engine.StackingOrder, "insertion", "magnitude")
	return p.err()
}

// problems accumulates validation failures so every violation is reported at once.
type problems []string

func (p *problems) add(format string, args ...interface{}) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p *problems) oneOf(key, got string, allowed ...string) {
	for _, a := range allowed {
		if got == a {
			return
		}
	}
	p.add("%s must be one of [%s], got %q", key, strings.Join(allowed, ", "), got)
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(p, "; "))
}

func (s StorageConfig) check(p *problems) {
	p.oneOf("storage.backend", s.Backend, BackendFile, BackendPostgres)
	if s.Backend == BackendFile && s.Dir == "" {
		p.add("storage.dir must not be empty for the %s backend", BackendFile)
	}
}

func (d DatabaseConfig) check(p *problems) {
	for _, f := range [...]struct{ key, v string }{
		{"database.host", d.Host},
		{"database.user", d.User},
		{"database.name", d.Name},
	} {
		if f.v == "" {
			p.add("%s must not be empty", f.key)
		}
	}
	if d.Port < 1 || d.Port > 65535 {
		p.add("database.port must be 1-65535, got %d", d.Port)
	}
	p.oneOf("database.sslmode", d.SSLMode, "disable", "require", "verify-ca", "verify-full")
	switch {
	case d.MaxConns < 1:
		p.add("database.max_conns must be >= 1, got %d", d.MaxConns)
	case d.MinConns < 0:
		p.add("database.min_conns must be >= 0, got %d", d.MinConns)
	case d.MinConns > d.MaxConns:
		p.add("database.min_conns must not exceed database.max_conns")
	}
}

func (l LoggingConfig) check(p *problems) {
	p.oneOf("logging.level", l.Level, "debug", "info", "warn", "error")
	p.oneOf("logging.format", l.Format, "json", "console")
}

// Load reads the YAML file at path, lets DFT_-prefixed environment variables
// override it (DFT_STORAGE_DIR for storage.dir), and validates the result.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("DFT")
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

// Defaults returns a Viper instance carrying only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.dir", "content/catalog")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", "data")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dft")
	v.SetDefault("database.password", "dft")
	v.SetDefault("database.name", "dft")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("engine.stacking_order", "insertion")
}
