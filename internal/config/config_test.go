package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "spc.db", c.DatabasePath)
	assert.Equal(t, 30*time.Second, c.ClipboardClearDelay)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Empty(t, c.S3Bucket)
}

func TestSyncEnabled(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.False(t, c.SyncEnabled())

	c.S3Bucket = "spc-backups"
	assert.True(t, c.SyncEnabled())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "spc.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.ClipboardClearDelay)
}
