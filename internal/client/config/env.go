package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL  = "CONTACTX_API_URL"
	EnvEnv     = "CONTACTX_ENV"
	EnvDataDir = "CONTACTX_DATA_DIR"
	EnvTimeout = "CONTACTX_TIMEOUT"
)

// DotEnvFile is read relative to the working directory.
var DotEnvFile = ".env"

// loadDotEnv exports the file's variables without overriding ones that are
// already set. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvAPIURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvEnv); ok && v != "" {
		cfg.Env = v
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}
