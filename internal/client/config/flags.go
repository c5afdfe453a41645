package config

import (
	"github.com/spf13/pflag"
)

const (
	FlagAPIURL  = "api-url"
	FlagEnv     = "env"
	FlagDataDir = "data-dir"
	FlagTimeout = "timeout"
	FlagConfig  = "config"
)

// RegisterFlags adds the configuration flags to fs. Defaults are left empty
// so that an unset flag never masks the environment or the JSON file.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagAPIURL, "", "API base URL (default "+defaultAPIURL()+")")
	fs.String(FlagEnv, "", "environment: development or production")
	fs.String(FlagDataDir, "", "directory for the local database")
	fs.Duration(FlagTimeout, 0, "per-request timeout (default 30s)")
	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
}

func defaultAPIURL() string {
	var c Config
	c.LoadDefaults()
	return c.APIBaseURL
}

func jsonPath(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString(FlagConfig)
	return path
}

// applyFlags copies only the flags the user actually set.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagAPIURL:
			cfg.APIBaseURL = f.Value.String()
		case FlagEnv:
			cfg.Env = f.Value.String()
		case FlagDataDir:
			cfg.DataDir = f.Value.String()
		case FlagTimeout:
			cfg.Timeout, err = fs.GetDuration(FlagTimeout)
		}
	})
	return err
}
