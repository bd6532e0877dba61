package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"taskboard/internal/util"
)

// EnvPrefix namespaces every environment override, e.g. TASKBOARD_SERVER_ADDR.
const EnvPrefix = "TASKBOARD"

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Names      NamesConfig      `mapstructure:"names"`
	Pagination PaginationConfig `mapstructure:"pagination"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig represents SQLite configuration.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NamesConfig holds the prefixes used for default record names.
type NamesConfig struct {
	BoardPrefix string `mapstructure:"board_prefix"`
	TaskPrefix  string `mapstructure:"task_prefix"`
}

// PaginationConfig bounds listing page sizes.
type PaginationConfig struct {
	DefaultSize int `mapstructure:"default_size"`
	MaxSize     int `mapstructure:"max_size"`
}

var defaults = map[string]any{
	"server.addr":              ":8080",
	"server.shutdown_timeout":  5 * time.Second,
	"database.path":            "data/taskboard.db",
	"database.busy_timeout_ms": 5000,
	"log.level":                "info",
	"log.format":               "text",
	"names.board_prefix":       "New Board",
	"names.task_prefix":        "New Task",
	"pagination.default_size":  20,
	"pagination.max_size":      100,
}

// Load reads configuration from defaults, an optional config file, a .env
// file and TASKBOARD_* environment variables, in increasing priority.
// An empty path searches config.yaml in the working directory and ./config;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(util.EnvOrDefault(util.EnvName(EnvPrefix, "env_file"), ".env"))

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if c.Database.BusyTimeoutMS < 0 {
		errs = append(errs, errors.New("database.busy_timeout_ms must not be negative"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Pagination.DefaultSize <= 0 || c.Pagination.MaxSize <= 0 {
		errs = append(errs, errors.New("pagination sizes must be positive"))
	} else if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		errs = append(errs, errors.New("pagination.default_size must not exceed pagination.max_size"))
	}
	if strings.TrimSpace(c.Names.BoardPrefix) == "" || strings.TrimSpace(c.Names.TaskPrefix) == "" {
		errs = append(errs, errors.New("name prefixes must not be blank"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
