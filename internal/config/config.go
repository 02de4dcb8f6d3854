package config

import "time"

// Config holds runtime settings for the spc CLI.
//
// Fields:
//   - DatabasePath: sqlite file holding the encrypted vault blobs.
//   - ClipboardClearDelay: how long a copied secret stays on the
//     clipboard before the best-effort clear.
//   - S3*: optional remote-relay settings; sync stays disabled while
//     S3Bucket is empty.
type Config struct {
	DatabasePath        string
	ClipboardClearDelay time.Duration

	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "spc.db"
	c.ClipboardClearDelay = 30 * time.Second
	c.S3Region = "us-east-1"
}

// SyncEnabled reports whether a remote relay is configured.
func (c *Config) SyncEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
