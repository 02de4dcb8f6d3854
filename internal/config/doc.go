// Package config loads runtime configuration for the spc CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the vault database file
//	-t int      clipboard clear delay (seconds)
//	-b string   S3 bucket for remote sync
//	-r string   S3 region
//	-e string   S3 endpoint override (for S3-compatible storage)
//	-p string   S3 object key prefix
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "database_path": "spc.db",
//	  "clipboard_clear_delay": "30s",
//	  "s3_bucket": "spc-backups",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "..."
//	}
//
// S3 credentials are accepted only through the JSON file, never through
// command-line flags.
//
// Primary API
//
//   - type Config                     — holds database, clipboard and sync settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
