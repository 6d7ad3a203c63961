// Package config loads storefront settings from defaults, an optional YAML
// file and LUXE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	configFileEnvName = "LUXE_CONFIG_FILE"
	envPrefix         = "LUXE"

	minSecretLen = 32
)

type logConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type catalogConfig struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
	// DSN falls back to storage.dsn.
	DSN string `mapstructure:"dsn"`
}

type storageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type ordersConfig struct {
	Driver string `mapstructure:"driver"`
}

type sessionConfig struct {
	Secret        string        `mapstructure:"secret"`
	TTL           time.Duration `mapstructure:"ttl"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

type shopConfig struct {
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

type metricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

type Config struct {
	HTTPAddr string        `mapstructure:"http_addr"`
	Log      logConfig     `mapstructure:"log"`
	Catalog  catalogConfig `mapstructure:"catalog"`
	Storage  storageConfig `mapstructure:"storage"`
	Orders   ordersConfig  `mapstructure:"orders"`
	Session  sessionConfig `mapstructure:"session"`
	Shop     shopConfig    `mapstructure:"shop"`
	Metrics  metricsConfig `mapstructure:"metrics"`
}

var defaults = map[string]any{
	"http_addr":              ":8080",
	"log.level":              "info",
	"log.file":               "",
	"catalog.source":         "builtin",
	"catalog.file":           "",
	"catalog.dsn":            "",
	"storage.driver":         "memory",
	"storage.path":           "",
	"storage.dsn":            "",
	"orders.driver":          "memory",
	"session.secret":         "",
	"session.ttl":            "720h",
	"session.idle_timeout":   "30m",
	"session.sweep_schedule": "@every 5m",
	"shop.search_debounce":   "300ms",
	"metrics.enabled":        true,
	"metrics.token":          "",
}

// Load reads the configuration. args are the command line arguments without the program name.
func Load(args []string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := configFilepath(args)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Catalog.DSN == "" {
		cfg.Catalog.DSN = cfg.Storage.DSN
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFilepath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	arg := cmdLine.String("config", "", "config file (yaml)")
	if err := cmdLine.Parse(args); err != nil {
		return "", err
	}
	if env, ok := os.LookupEnv(configFileEnvName); ok && *arg == "" {
		return env, nil
	}
	return *arg, nil
}

var ErrInvalid = errors.New("invalid config")

func (c Config) Validate() error {
	var errs []error
	bad := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, a...)...))
	}

	switch c.Catalog.Source {
	case "builtin":
	case "file":
		if c.Catalog.File == "" {
			bad("catalog.file is required for the file source")
		}
	case "postgres":
		if c.Catalog.DSN == "" {
			bad("catalog.dsn or storage.dsn is required for the postgres source")
		}
	default:
		bad("unknown catalog.source %q", c.Catalog.Source)
	}

	switch c.Storage.Driver {
	case "memory":
	case "bolt", "pebble":
		if c.Storage.Path == "" {
			bad("storage.path is required for %s", c.Storage.Driver)
		}
	case "postgres":
		if c.Storage.DSN == "" {
			bad("storage.dsn is required for postgres")
		}
	default:
		bad("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Orders.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			bad("storage.dsn is required for postgres orders")
		}
	default:
		bad("unknown orders.driver %q", c.Orders.Driver)
	}

	if len(c.Session.Secret) < minSecretLen {
		bad("session.secret must be at least %d bytes", minSecretLen)
	}
	if c.Session.TTL <= 0 || c.Session.IdleTimeout <= 0 {
		bad("session.ttl and session.idle_timeout must be positive")
	}
	if c.Shop.SearchDebounce <= 0 {
		bad("shop.search_debounce must be positive")
	}

	return errors.Join(errs...)
}

// Fields describes the loaded configuration for the startup log. Secrets are left out.
func (c Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("http_addr", c.HTTPAddr),
		zap.String("log_level", c.Log.Level),
		zap.String("catalog_source", c.Catalog.Source),
		zap.String("storage_driver", c.Storage.Driver),
		zap.String("orders_driver", c.Orders.Driver),
		zap.Duration("session_ttl", c.Session.TTL),
		zap.Duration("session_idle_timeout", c.Session.IdleTimeout),
		zap.String("session_sweep_schedule", c.Session.SweepSchedule),
		zap.Duration("search_debounce", c.Shop.SearchDebounce),
		zap.Bool("metrics_enabled", c.Metrics.Enabled),
	}
}
