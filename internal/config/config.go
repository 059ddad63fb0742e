package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/models"
	"github.com/TWRT/taskdesk/internal/repository"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Backend      BackendConfig      `yaml:"backend"`
	Log          LogConfig          `yaml:"log"`
	Display      DisplayConfig      `yaml:"display"`
	History      HistoryConfig      `yaml:"history"`
	Gamification GamificationConfig `yaml:"gamification"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// BackendConfig points the CLI at a running server. An empty URL means
// the CLI opens the database itself.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DisplayConfig struct {
	// strftime pattern
	DateFormat string `yaml:"date_format"`
}

type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

type GamificationConfig struct {
	XPByPriority map[string]int `yaml:"xp_by_priority"`
}

func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Driver: repository.DriverSQLite, Path: "./taskdesk.db"},
		Backend:  BackendConfig{Timeout: 10 * time.Second},
		Log:      LogConfig{Level: "info", Format: logger.FormatJSON},
		Display:  DisplayConfig{DateFormat: "%Y-%m-%d %H:%M"},
		History:  HistoryConfig{Limit: 100},
	}
}

// Load layers defaults, the YAML file at path (skipped when path is
// empty), a .env file in the working directory and environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("TASKDESK_ADDR", c.Server.Addr)
	c.Database.Driver = getEnv("TASKDESK_DB_DRIVER", c.Database.Driver)
	c.Database.Path = getEnv("TASKDESK_DB_PATH", c.Database.Path)
	c.Backend.URL = getEnv("TASKDESK_BACKEND_URL", c.Backend.URL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("TASKDESK_BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKDESK_BACKEND_TIMEOUT: %w", err)
		}
		c.Backend.Timeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	switch c.Database.Driver {
	case repository.DriverSQLite, repository.DriverSQLite3:
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case logger.FormatJSON, logger.FormatText:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Backend.Timeout < 0 {
		return errors.New("backend.timeout must not be negative")
	}
	if c.History.Limit < 0 {
		return errors.New("history.limit must not be negative")
	}
	for p, xp := range c.Gamification.XPByPriority {
		if !models.Priority(p).Valid() {
			return fmt.Errorf("gamification.xp_by_priority: unknown priority %q", p)
		}
		if xp < 0 {
			return fmt.Errorf("gamification.xp_by_priority.%s must not be negative", p)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
