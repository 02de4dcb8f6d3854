package config

import (
	"encoding/json"
	"os"

	"github.com/hzh666kevin-hue/spc/internal/flagx"
	"github.com/hzh666kevin-hue/spc/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so intervals can be written either as strings like
// "30s" or as integer nanoseconds. Parsed values are copied into the
// runtime Config.
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	ClipboardClearDelay timex.Duration `json:"clipboard_clear_delay"`

	S3Region    string `json:"s3_region"`
	S3Bucket    string `json:"s3_bucket"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
	S3Prefix    string `json:"s3_prefix"`
}

// parseJson overlays cfg with values loaded from a JSON file selected
// via the -c or -config flags. Absent file path means no JSON is loaded.
// Fields missing from the file keep their current values. Read or
// unmarshal errors panic; the entry point treats a broken explicit
// config file as fatal.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ClipboardClearDelay.Duration > 0 {
		cfg.ClipboardClearDelay = jc.ClipboardClearDelay.Duration
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.S3Prefix != "" {
		cfg.S3Prefix = jc.S3Prefix
	}
}
