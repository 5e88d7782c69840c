package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit" jsonschema:"description=Per client request limits"`
	Database  DatabaseConfig  `yaml:"database" json:"database" jsonschema:"description=Database configuration for the sqlite ledger"`
	Ledger    LedgerConfig    `yaml:"ledger" json:"ledger" jsonschema:"description=Sent posts ledger configuration"`
	Reddit    RedditConfig    `yaml:"reddit" json:"reddit" jsonschema:"description=Reddit source configuration"`
	Discord   DiscordConfig   `yaml:"discord" json:"discord" jsonschema:"description=Discord webhook configuration"`
	Uploads   UploadsConfig   `yaml:"uploads" json:"uploads" jsonschema:"description=Uploaded files storage"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen        string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=HTTP server timeout"`
	RelayTimeout  time.Duration `yaml:"relay_timeout" json:"relay_timeout" jsonschema:"description=HTTP timeout of upload and subreddit relay requests"`
	MaxUploadSize int64         `yaml:"max_upload_size" json:"max_upload_size" jsonschema:"default=67108864,minimum=1,description=Maximum request body size in bytes"`
}

// RateLimitConfig holds per client request limits, in requests per minute
type RateLimitConfig struct {
	Global int `yaml:"global" json:"global" jsonschema:"default=100,minimum=1,description=Requests per minute for all endpoints"`
	Upload int `yaml:"upload" json:"upload" jsonschema:"default=50,minimum=1,description=Requests per minute for /upload"`
	Fetch  int `yaml:"fetch" json:"fetch" jsonschema:"default=30,minimum=1,description=Requests per minute for /fetch_reddit"`
}

// DatabaseConfig holds sqlite connection settings
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" json:"dsn" jsonschema:"default=file:redhook.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,minimum=1,description=Maximum number of open connections"`
}

// LedgerConfig holds sent posts ledger settings
type LedgerConfig struct {
	Type      string        `yaml:"type" json:"type" jsonschema:"default=sqlite,enum=sqlite,enum=json,description=Ledger backend"`
	Path      string        `yaml:"path" json:"path" jsonschema:"default=sent_posts.json,description=Ledger file for the json backend"`
	Retention time.Duration `yaml:"retention" json:"retention" jsonschema:"description=How long sent posts are remembered"`
}

// RedditConfig holds reddit source settings. Without credentials the public feed is used.
type RedditConfig struct {
	ClientID          string        `yaml:"client_id" json:"client_id" jsonschema:"description=Reddit app client id (can use environment variable)"`
	ClientSecret      string        `yaml:"client_secret" json:"client_secret" jsonschema:"description=Reddit app client secret (can use environment variable)"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=redhook/1.0,description=User agent for reddit requests"`
	APIURL            string        `yaml:"api_url" json:"api_url" jsonschema:"default=https://oauth.reddit.com,description=Reddit API base URL"`
	TokenURL          string        `yaml:"token_url" json:"token_url" jsonschema:"default=https://www.reddit.com/api/v1/access_token,description=Reddit token endpoint"`
	RSSURL            string        `yaml:"rss_url" json:"rss_url" jsonschema:"default=https://www.reddit.com,description=Reddit site serving public feeds"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=Reddit request timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute" jsonschema:"default=60,minimum=1,description=Reddit API request pacing"`
	MaxPages          int           `yaml:"max_pages" json:"max_pages" jsonschema:"default=10,minimum=1,description=Maximum listing pages read per fetch"`
}

// DiscordConfig holds webhook settings
type DiscordConfig struct {
	WebhookPrefix string        `yaml:"webhook_prefix" json:"webhook_prefix" jsonschema:"default=https://discord.com/api/webhooks/,description=Accepted beginning of webhook URLs"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"description=Webhook request timeout"`
}

// UploadsConfig holds uploaded files storage settings
type UploadsConfig struct {
	Dir             string        `yaml:"dir" json:"dir" jsonschema:"default=uploads,description=Directory for uploaded files"`
	MaxAge          time.Duration `yaml:"max_age" json:"max_age" jsonschema:"description=Uploaded files older than this are removed"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" jsonschema:"description=How often old uploads are removed"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, mismatch is logged only
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.RelayTimeout == 0 {
		c.Server.RelayTimeout = 10 * time.Minute
	}
	if c.Server.MaxUploadSize == 0 {
		c.Server.MaxUploadSize = 64 * 1024 * 1024
	}

	// rate limits
	if c.RateLimit.Global == 0 {
		c.RateLimit.Global = 100
	}
	if c.RateLimit.Upload == 0 {
		c.RateLimit.Upload = 50
	}
	if c.RateLimit.Fetch == 0 {
		c.RateLimit.Fetch = 30
	}

	// database and ledger
	if c.Database.DSN == "" {
		c.Database.DSN = "file:redhook.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 4
	}
	if c.Ledger.Type == "" {
		c.Ledger.Type = "sqlite"
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "sent_posts.json"
	}
	if c.Ledger.Retention == 0 {
		c.Ledger.Retention = 7 * 24 * time.Hour
	}

	// reddit
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "redhook/1.0"
	}
	if c.Reddit.APIURL == "" {
		c.Reddit.APIURL = "https://oauth.reddit.com"
	}
	if c.Reddit.TokenURL == "" {
		c.Reddit.TokenURL = "https://www.reddit.com/api/v1/access_token"
	}
	if c.Reddit.RSSURL == "" {
		c.Reddit.RSSURL = "https://www.reddit.com"
	}
	if c.Reddit.Timeout == 0 {
		c.Reddit.Timeout = 30 * time.Second
	}
	if c.Reddit.RequestsPerMinute == 0 {
		c.Reddit.RequestsPerMinute = 60
	}
	if c.Reddit.MaxPages == 0 {
		c.Reddit.MaxPages = 10
	}

	// discord
	if c.Discord.WebhookPrefix == "" {
		c.Discord.WebhookPrefix = "https://discord.com/api/webhooks/"
	}
	if c.Discord.Timeout == 0 {
		c.Discord.Timeout = 30 * time.Second
	}

	// uploads
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Uploads.MaxAge == 0 {
		c.Uploads.MaxAge = 24 * time.Hour
	}
	if c.Uploads.CleanupInterval == 0 {
		c.Uploads.CleanupInterval = 24 * time.Hour
	}
}

// validate checks configuration for correctness and reports all problems at once
func validate(cfg *Config) error {
	var errs []error

	// validate server config
	if cfg.Server.Timeout < time.Second {
		errs = append(errs, errors.New("server timeout must be at least 1 second"))
	}
	if cfg.Server.RelayTimeout < cfg.Server.Timeout {
		errs = append(errs, errors.New("server relay_timeout must not be shorter than server timeout"))
	}
	if cfg.Server.MaxUploadSize < 0 {
		errs = append(errs, errors.New("server max_upload_size must be positive"))
	}
	if cfg.RateLimit.Global < 0 || cfg.RateLimit.Upload < 0 || cfg.RateLimit.Fetch < 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}

	// validate ledger config
	if cfg.Ledger.Type != "sqlite" && cfg.Ledger.Type != "json" {
		errs = append(errs, fmt.Errorf("ledger type must be sqlite or json, got %q", cfg.Ledger.Type))
	}
	if cfg.Ledger.Retention < time.Minute {
		errs = append(errs, errors.New("ledger retention must be at least 1 minute"))
	}

	// validate reddit config, credentials are optional but must come in pairs
	if cfg.Reddit.ClientID != "" && cfg.Reddit.ClientSecret == "" {
		errs = append(errs, errors.New("reddit client_secret is missing"))
	}
	if cfg.Reddit.ClientID == "" && cfg.Reddit.ClientSecret != "" {
		errs = append(errs, errors.New("reddit client_id is missing"))
	}
	if strings.TrimSpace(cfg.Reddit.UserAgent) == "" {
		errs = append(errs, errors.New("reddit user_agent is missing"))
	}
	if cfg.Reddit.MaxPages < 0 || cfg.Reddit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("reddit max_pages and requests_per_minute must be positive"))
	}

	// validate discord config
	if !strings.HasPrefix(cfg.Discord.WebhookPrefix, "https://") && !strings.HasPrefix(cfg.Discord.WebhookPrefix, "http://") {
		errs = append(errs, fmt.Errorf("discord webhook_prefix must be an http(s) URL, got %q", cfg.Discord.WebhookPrefix))
	}

	// validate uploads config
	if err := checkWritable(cfg.Uploads.Dir); err != nil {
		errs = append(errs, fmt.Errorf("upload folder %s is not writable: %w", cfg.Uploads.Dir, err))
	}

	return errors.Join(errs...)
}

// checkWritable makes sure dir exists and a file can be created in it
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}

// HasRedditCredentials reports whether the reddit API can be used instead of the public feed
func (c *Config) HasRedditCredentials() bool {
	return c.Reddit.ClientID != "" && c.Reddit.ClientSecret != ""
}
