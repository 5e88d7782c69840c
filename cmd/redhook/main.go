package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/redhook/pkg/config"
	"github.com/umputun/redhook/pkg/discord"
	"github.com/umputun/redhook/pkg/feed"
	"github.com/umputun/redhook/pkg/ledger"
	"github.com/umputun/redhook/pkg/relay"
	"github.com/umputun/redhook/pkg/uploads"
	"github.com/umputun/redhook/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	EnvFile string `long:"env-file" env:"ENV_FILE" default:".env" description:"dotenv file with secrets, skipped if missing"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)

	log.Printf("[INFO] starting redhook version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Reddit.ClientSecret != "" {
		SetupLog(opts.Debug, cfg.Reddit.ClientSecret)
	}

	store, err := ledger.Open(ctx, ledger.Params{
		Type:      cfg.Ledger.Type,
		DSN:       cfg.Database.DSN,
		MaxConns:  cfg.Database.MaxOpenConns,
		Path:      cfg.Ledger.Path,
		Retention: cfg.Ledger.Retention,
	})
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[WARN] failed to close ledger: %v", err)
		}
	}()

	uploadStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxAge)
	if err != nil {
		return fmt.Errorf("failed to create upload store: %w", err)
	}

	dispatcher := relay.NewDispatcher(discord.NewClient(cfg.Discord.Timeout), uploadStore)
	fetcher := feed.NewFetcher(makeSource(cfg), cfg.Reddit.MaxPages)
	svc := relay.NewService(dispatcher, fetcher, store, relay.Params{WebhookPrefix: cfg.Discord.WebhookPrefix})

	srv := server.New(server.Config{
		Listen:        cfg.Server.Listen,
		Timeout:       cfg.Server.Timeout,
		RelayTimeout:  cfg.Server.RelayTimeout,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		GlobalRate:    cfg.RateLimit.Global,
		UploadRate:    cfg.RateLimit.Upload,
		FetchRate:     cfg.RateLimit.Fetch,
		Version:       revision,
		Debug:         opts.Debug,
	}, svc)
	janitor := uploads.NewJanitor(uploadStore, cfg.Uploads.CleanupInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return janitor.Run(gctx) })
	return g.Wait()
}

// makeSource picks the reddit API when credentials are configured, the public feed otherwise
func makeSource(cfg *config.Config) feed.Source {
	if cfg.HasRedditCredentials() {
		log.Printf("[INFO] using reddit API at %s", cfg.Reddit.APIURL)
		return feed.NewRedditClient(feed.RedditParams{
			ClientID:          cfg.Reddit.ClientID,
			ClientSecret:      cfg.Reddit.ClientSecret,
			UserAgent:         cfg.Reddit.UserAgent,
			APIURL:            cfg.Reddit.APIURL,
			TokenURL:          cfg.Reddit.TokenURL,
			Timeout:           cfg.Reddit.Timeout,
			RequestsPerMinute: cfg.Reddit.RequestsPerMinute,
		})
	}
	log.Printf("[INFO] no reddit credentials, using public feeds at %s", cfg.Reddit.RSSURL)
	return feed.NewRSSSource(cfg.Reddit.RSSURL, cfg.Reddit.UserAgent, cfg.Reddit.Timeout)
}

// loadEnvFile sets variables from the dotenv file without overriding the environment
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// SetupLog configures lgr and the std logger, secrets are masked in the output
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
