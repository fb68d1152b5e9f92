package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`

	Data struct {
		Path string `yaml:"path"`
	} `yaml:"data"`

	// Dashboards lists the enabled variants; empty enables all.
	Dashboards []string `yaml:"dashboards"`

	Summarizer struct {
		APIKey         string        `yaml:"api_key"`
		Model          string        `yaml:"model"`
		Timeout        time.Duration `yaml:"timeout"`
		RequestsPerSec float64       `yaml:"requests_per_second"`
	} `yaml:"summarizer"`

	Logging struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Data.Path = "data/salaries.csv"
	cfg.Summarizer.Timeout = 30 * time.Second
	cfg.Summarizer.RequestsPerSec = 2
	cfg.Logging.Level = "info"
	return cfg
}

// Load reads a YAML file over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SALARYBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SALARYBOARD_DATA"); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv("SALARYBOARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Summarizer.APIKey = v
	}
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every problem at once.
func Validate(cfg Config) error {
	var errs []string

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be > 0")
	}
	if strings.TrimSpace(cfg.Data.Path) == "" {
		errs = append(errs, "data.path is required")
	}
	if cfg.Summarizer.Timeout < 0 {
		errs = append(errs, "summarizer.timeout must be >= 0")
	}
	if cfg.Summarizer.RequestsPerSec <= 0 {
		errs = append(errs, "summarizer.requests_per_second must be > 0")
	}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level %q must be one of debug, info, warn, error", cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.New("invalid config:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
