// Package config loads runtime configuration for the ContactX CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present.
//  3. Environment variables CONTACTX_API_URL, CONTACTX_ENV, CONTACTX_DATA_DIR
//     and CONTACTX_TIMEOUT.
//  4. Optional JSON file selected with --config.
//  5. Command-line flags that were set explicitly.
//
// Supported flags
//
//	--api-url string    API base URL, conventionally ending in /api
//	--env string        development or production
//	--data-dir string   directory holding the local database
//	--timeout duration  per-request timeout
//	--config string     JSON config file
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "api_url": "https://api.contactx.app/api",
//	  "env": "production",
//	  "data_dir": "/home/me/.contactx",
//	  "timeout": "30s"
//	}
package config
