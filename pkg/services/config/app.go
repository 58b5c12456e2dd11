package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "FINANCE"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Board  BoardConfig  `mapstructure:"board"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type BoardConfig struct {
	ProfilePath        string        `mapstructure:"profile_path"`
	Profile            string        `mapstructure:"profile"`
	PageSize           int           `mapstructure:"page_size"`
	MaxItems           int           `mapstructure:"max_items"`
	DateColumn         string        `mapstructure:"date_column"`
	AmountColumn       string        `mapstructure:"amount_column"`
	MinRequestInterval time.Duration `mapstructure:"min_request_interval"`
}

type LedgerConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	Table          string        `mapstructure:"table"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`

	// RefreshInterval keeps snapshots warm in the background; zero disables refreshing.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type ReportConfig struct {
	TopN  int `mapstructure:"top_n"`
	Years int `mapstructure:"years"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)

	v.SetDefault("board.profile_path", "")
	v.SetDefault("board.profile", "DEFAULT")
	v.SetDefault("board.page_size", 500)
	v.SetDefault("board.max_items", 10000)
	v.SetDefault("board.date_column", "Pmt Date")
	v.SetDefault("board.amount_column", "Total Amount")
	v.SetDefault("board.min_request_interval", 0)

	v.SetDefault("ledger.driver", "duckdb")
	v.SetDefault("ledger.dsn", "finance-atlas.db")
	v.SetDefault("ledger.table", "payments")
	v.SetDefault("ledger.query_timeout", 30*time.Second)
	v.SetDefault("ledger.migrate_on_start", true)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.refresh_interval", 0)

	v.SetDefault("report.top_n", 5)
	v.SetDefault("report.years", 3)

	v.SetDefault("log.level", "info")
}

// Load reads the optional config file at path and overlays FINANCE_* environment variables,
// e.g. FINANCE_LEDGER_DSN for ledger.dsn.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Ledger.Driver {
	case "duckdb", "postgres":
	default:
		errs = append(errs, fmt.Errorf("ledger.driver must be duckdb or postgres, got %q", c.Ledger.Driver))
	}
	if c.Board.PageSize < 1 || c.Board.PageSize > 500 {
		errs = append(errs, fmt.Errorf("board.page_size must be in 1..500, got %d", c.Board.PageSize))
	}
	if c.Board.MaxItems < 1 {
		errs = append(errs, fmt.Errorf("board.max_items must be positive, got %d", c.Board.MaxItems))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	return errors.Join(errs...)
}
