package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to run
type Config struct {
	Root          string        `mapstructure:"root"`
	Addr          string        `mapstructure:"addr"`
	Workers       int           `mapstructure:"workers"`
	Backlog       int           `mapstructure:"backlog"`
	ReusePort     bool          `mapstructure:"reusePort"`
	NotFoundPage  string        `mapstructure:"notFoundPage"`
	ShutdownGrace time.Duration `mapstructure:"shutdownGrace"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultAddr          = "127.0.0.1:7878"
	DefaultWorkers       = 15
	DefaultBacklog       = 512
	DefaultNotFoundPage  = "notfound.html"
	DefaultShutdownGrace = 2 * time.Second
)

// DefaultConfig returns the default configuration for the given root folder
func DefaultConfig(root string) *Config {
	return &Config{
		Root:          root,
		Addr:          DefaultAddr,
		Workers:       DefaultWorkers,
		Backlog:       DefaultBacklog,
		NotFoundPage:  DefaultNotFoundPage,
		ShutdownGrace: DefaultShutdownGrace,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// NewViper returns a viper instance with every default registered
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("backlog", DefaultBacklog)
	v.SetDefault("reusePort", false)
	v.SetDefault("notFoundPage", DefaultNotFoundPage)
	v.SetDefault("shutdownGrace", DefaultShutdownGrace)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "human")
	return v
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads a config file (format chosen from its extension) on top of the defaults
func LoadFile(path string) (*Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return Load(v)
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Root == "" {
		return &ConfigError{Field: "root", Message: "root folder is required"}
	}
	if c.Addr == "" {
		return &ConfigError{Field: "addr", Message: "listen address is required"}
	}
	if c.Workers <= 0 {
		return &ConfigError{Field: "workers", Message: "must be positive"}
	}
	if c.Backlog <= 0 {
		return &ConfigError{Field: "backlog", Message: "must be positive"}
	}
	if c.NotFoundPage == "" || strings.ContainsAny(c.NotFoundPage, `/\`) {
		return &ConfigError{Field: "notFoundPage", Message: "must be a file name directly under root"}
	}
	if c.ShutdownGrace < 0 {
		return &ConfigError{Field: "shutdownGrace", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
