package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/brightside-news/brightside/pkg/classify"
	"github.com/brightside-news/brightside/pkg/config"
	"github.com/brightside-news/brightside/pkg/content"
	"github.com/brightside-news/brightside/pkg/feed"
	"github.com/brightside-news/brightside/pkg/icons"
	"github.com/brightside-news/brightside/pkg/images"
	"github.com/brightside-news/brightside/pkg/llm"
	"github.com/brightside-news/brightside/pkg/pipeline"
	"github.com/brightside-news/brightside/pkg/scheduler"
	"github.com/brightside-news/brightside/pkg/sentiment"
	"github.com/brightside-news/brightside/pkg/store"
	"github.com/brightside-news/brightside/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"brightside.yml" description:"config file path"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address override"`

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

	setupLog(opts.Debug)

	log.Printf("[INFO] starting brightside version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	cfg := loadConfig(opts)

	if err := run(ctx, cfg, opts.Debug); err != nil {
		log.Printf("[ERROR] brightside failed: %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

// loadConfig reads the config file, falling back to built-in defaults when
// the default config path does not exist
func loadConfig(opts Opts) *config.Config {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[WARN] config file %s not loaded, using defaults: %v", opts.Config, err)
			cfg = config.Default()
		} else {
			log.Printf("[ERROR] can't load config %s: %v", opts.Config, err)
			os.Exit(1)
		}
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return cfg
}

// run wires all components and blocks until the context is canceled
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	analyzer := sentiment.NewVADER()

	iconTable := icons.Load(ctx, cfg.Icons.DatasetFile, cfg.Icons.DatasetURL)

	// scoring: heuristic by default, LLM variant behind the same interface
	var scorer classify.Scorer = classify.NewHeuristicScorer(analyzer)
	if cfg.LLM.Enabled {
		scorer = llm.NewScorer(cfg.GetLLMConfig(), classify.NewHeuristicScorer(analyzer))
		log.Printf("[INFO] llm scorer enabled with model %s", cfg.LLM.Model)
	}

	// optional summary backfill
	extCfg := cfg.GetExtractionConfig()
	var extractor pipeline.Extractor
	if extCfg.Enabled {
		extractor = content.NewHTTPExtractor(extCfg.Timeout, extCfg.UserAgent)
		log.Printf("[INFO] content extraction enabled")
	}

	articleStore := store.NewStore()
	cache := store.NewCache(cfg.Cache.File)
	if snap, err := cache.Load(); err != nil {
		log.Printf("[WARN] can't load article cache, starting empty: %v", err)
	} else {
		articleStore.Restore(snap)
		log.Printf("[INFO] restored %d articles from cache", articleStore.Count())
	}

	sources := feed.NewSources(cfg.Sources.FeedsFile, cfg.Sources.RemovedFile)

	pipe := pipeline.New(pipeline.Config{
		Parser:           feed.NewParser(cfg.Fetcher.Timeout, cfg.Fetcher.UserAgent),
		Sources:          sources,
		Filter:           classify.NewFilter(analyzer, cfg.Filter.PositiveThreshold),
		Topics:           classify.NewTopicClassifier(iconTable),
		Scorer:           scorer,
		Tagger:           classify.NewTagger(),
		Images:           images.NewResolver(cfg.Images.PlaceholderDir, cfg.Images.FaviconService),
		Store:            articleStore,
		Cache:            cache,
		Extractor:        extractor,
		MinSummaryLength: extCfg.MinSummaryLength,
	})

	sched := scheduler.New(pipe, cfg.Cache.RefreshInterval)

	srv := server.New(server.Deps{
		Config:      cfg,
		Articles:    articleStore,
		Scheduler:   sched,
		Maintenance: pipe,
		Sources:     sources,
		Cache:       cache,
		Generator:   feed.NewGenerator(cfg.Server.BaseURL),
		Version:     revision,
		Debug:       debug,
	})

	sched.Start(ctx)
	defer sched.Stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return srv.Run(ctx) })
	return group.Wait()
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
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
