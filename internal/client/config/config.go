package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/filex"
)

// Config holds runtime settings for the ContactX CLI.
type Config struct {
	APIBaseURL string
	Env        string
	DataDir    string
	Timeout    time.Duration
}

// LoadDefaults populates c with production defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.Env = common.EnvProduction
	c.DataDir = filex.HomeSubdir(common.DefaultDataDirName)
	c.Timeout = 30 * time.Second
}

func (c *Config) Development() bool {
	return c.Env == common.EnvDevelopment
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, common.DefaultDatabaseName)
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api url is empty")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api url %q must start with http:// or https://", c.APIBaseURL)
	}
	if c.Env != common.EnvDevelopment && c.Env != common.EnvProduction {
		return fmt.Errorf("env %q must be %s or %s", c.Env, common.EnvDevelopment, common.EnvProduction)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// LoadConfig applies every source in order. fs may be nil when there are no
// command-line flags.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, jsonPath(fs)); err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
