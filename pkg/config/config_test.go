package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		uploadDir := filepath.Join(t.TempDir(), "up")
		t.Setenv("TEST_REDDIT_SECRET", "s3cret")
		configPath := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s
  relay_timeout: 15m
  max_upload_size: 1048576

rate_limit:
  global: 10
  upload: 5
  fetch: 3

ledger:
  type: json
  path: /tmp/sent.json
  retention: 48h

reddit:
  client_id: my-id
  client_secret: ${TEST_REDDIT_SECRET}
  user_agent: "test-agent/2.0"
  max_pages: 3

discord:
  timeout: 5s

uploads:
  dir: `+uploadDir+`
  max_age: 2h
  cleanup_interval: 10m
`)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 15*time.Minute, cfg.Server.RelayTimeout)
		assert.Equal(t, int64(1048576), cfg.Server.MaxUploadSize)
		assert.Equal(t, RateLimitConfig{Global: 10, Upload: 5, Fetch: 3}, cfg.RateLimit)

		assert.Equal(t, "json", cfg.Ledger.Type)
		assert.Equal(t, "/tmp/sent.json", cfg.Ledger.Path)
		assert.Equal(t, 48*time.Hour, cfg.Ledger.Retention)

		assert.Equal(t, "my-id", cfg.Reddit.ClientID)
		assert.Equal(t, "s3cret", cfg.Reddit.ClientSecret, "env expanded")
		assert.Equal(t, "test-agent/2.0", cfg.Reddit.UserAgent)
		assert.Equal(t, 3, cfg.Reddit.MaxPages)
		assert.True(t, cfg.HasRedditCredentials())

		assert.Equal(t, 5*time.Second, cfg.Discord.Timeout)
		assert.Equal(t, "https://discord.com/api/webhooks/", cfg.Discord.WebhookPrefix)

		assert.Equal(t, uploadDir, cfg.Uploads.Dir)
		assert.Equal(t, 2*time.Hour, cfg.Uploads.MaxAge)
		assert.Equal(t, 10*time.Minute, cfg.Uploads.CleanupInterval)
		assert.DirExists(t, uploadDir)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		configPath := writeConfig(t, "server:\n  listen: \":8080\"\n")

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// check server defaults
		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 10*time.Minute, cfg.Server.RelayTimeout)
		assert.Equal(t, int64(64*1024*1024), cfg.Server.MaxUploadSize)
		assert.Equal(t, RateLimitConfig{Global: 100, Upload: 50, Fetch: 30}, cfg.RateLimit)

		// check storage defaults
		assert.Equal(t, "file:redhook.db?cache=shared&mode=rwc&_txlock=immediate", cfg.Database.DSN)
		assert.Equal(t, "sqlite", cfg.Ledger.Type)
		assert.Equal(t, "sent_posts.json", cfg.Ledger.Path)
		assert.Equal(t, 7*24*time.Hour, cfg.Ledger.Retention)

		// check reddit defaults
		assert.False(t, cfg.HasRedditCredentials())
		assert.Equal(t, "redhook/1.0", cfg.Reddit.UserAgent)
		assert.Equal(t, "https://oauth.reddit.com", cfg.Reddit.APIURL)
		assert.Equal(t, "https://www.reddit.com/api/v1/access_token", cfg.Reddit.TokenURL)
		assert.Equal(t, "https://www.reddit.com", cfg.Reddit.RSSURL)
		assert.Equal(t, 60, cfg.Reddit.RequestsPerMinute)
		assert.Equal(t, 10, cfg.Reddit.MaxPages)

		// check uploads defaults
		assert.Equal(t, "uploads", cfg.Uploads.Dir)
		assert.Equal(t, 24*time.Hour, cfg.Uploads.MaxAge)
		assert.Equal(t, 24*time.Hour, cfg.Uploads.CleanupInterval)
		assert.DirExists(t, "uploads")
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := writeConfig(t, `
invalid yaml content
  with bad indentation
    and no structure
`)
		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("all problems reported", func(t *testing.T) {
		configPath := writeConfig(t, `
server:
  timeout: 100ms
ledger:
  type: redis
reddit:
  client_id: only-id
uploads:
  dir: `+t.TempDir()+`
`)
		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "validate config")
		assert.Contains(t, err.Error(), "server timeout must be at least 1 second")
		assert.Contains(t, err.Error(), `ledger type must be sqlite or json, got "redis"`)
		assert.Contains(t, err.Error(), "reddit client_secret is missing")
	})
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg := &Config{}
		cfg.Uploads.Dir = t.TempDir()
		cfg.setDefaults()
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, validate(valid(t)))
	})

	t.Run("secret without id", func(t *testing.T) {
		cfg := valid(t)
		cfg.Reddit.ClientSecret = "secret"
		assert.EqualError(t, validate(cfg), "reddit client_id is missing")
	})

	t.Run("bad webhook prefix", func(t *testing.T) {
		cfg := valid(t)
		cfg.Discord.WebhookPrefix = "discord.com/api/webhooks/"
		require.Error(t, validate(cfg))
		assert.Contains(t, validate(cfg).Error(), "webhook_prefix")
	})

	t.Run("relay timeout shorter than server timeout", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.RelayTimeout = 10 * time.Second
		assert.EqualError(t, validate(cfg), "server relay_timeout must not be shorter than server timeout")
	})

	t.Run("short retention", func(t *testing.T) {
		cfg := valid(t)
		cfg.Ledger.Retention = time.Second
		assert.EqualError(t, validate(cfg), "ledger retention must be at least 1 minute")
	})

	t.Run("upload dir not writable", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("root can write anywhere")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0o500)) //nolint:gosec // test needs read-only dir
		t.Cleanup(func() { _ = os.Chmod(dir, 0o700) }) //nolint:gosec // restore for cleanup
		cfg := valid(t)
		cfg.Uploads.Dir = dir
		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not writable")
	})

	t.Run("upload dir is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		cfg := valid(t)
		cfg.Uploads.Dir = file
		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not writable")
	})
}
