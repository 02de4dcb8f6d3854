package config

import (
	"flag"
	"os"
	"time"

	"github.com/hzh666kevin-hue/spc/internal/flagx"
)

// parseFlags overlays cfg with values from command-line flags. Only the
// flags owned by this package are considered, so the config file flags
// handled by flagx pass through untouched. S3 credentials are not
// accepted on the command line; they come from the JSON config only.
func parseFlags(cfg *Config) {
	allowed := []string{"-d", "-t", "-b", "-r", "-e", "-p"}
	args := flagx.FilterArgs(os.Args[1:], allowed)

	var (
		databasePath string
		clearSeconds int
		bucket       string
		region       string
		endpoint     string
		prefix       string
	)

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&databasePath, "d", "", "Path to the vault database file")
	fs.IntVar(&clearSeconds, "t", 0, "Clipboard clear delay in seconds")
	fs.StringVar(&bucket, "b", "", "S3 bucket for remote sync")
	fs.StringVar(&region, "r", "", "S3 region")
	fs.StringVar(&endpoint, "e", "", "S3 endpoint override")
	fs.StringVar(&prefix, "p", "", "S3 object key prefix")
	_ = fs.Parse(args)

	if databasePath != "" {
		cfg.DatabasePath = databasePath
	}
	if clearSeconds > 0 {
		cfg.ClipboardClearDelay = time.Duration(clearSeconds) * time.Second
	}
	if bucket != "" {
		cfg.S3Bucket = bucket
	}
	if region != "" {
		cfg.S3Region = region
	}
	if endpoint != "" {
		cfg.S3Endpoint = endpoint
	}
	if prefix != "" {
		cfg.S3Prefix = prefix
	}
}
