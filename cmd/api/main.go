// Package main runs the networkai API server: conversational onboarding
// plus event search and recommendations.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/config"
	"github.com/carolzy/networkai/internal/events"
	"github.com/carolzy/networkai/internal/flow"
	"github.com/carolzy/networkai/internal/llm"
	"github.com/carolzy/networkai/internal/question"
	"github.com/carolzy/networkai/internal/recstore"
	"github.com/carolzy/networkai/internal/server"
	"github.com/carolzy/networkai/internal/website"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := llm.New(cfg.LLM)
	if !client.Available() {
		log.Warn().Msg("No LLM API key configured, running with canned fallbacks only")
	}

	catalog := events.NewCatalog(cfg.Catalog.Path)
	if err := catalog.Load(); err != nil {
		log.Error().Err(err).Msg("Initial catalog load failed")
	}

	var watcher *events.CatalogWatcher
	if cfg.Catalog.Watch {
		watcher, err = events.NewCatalogWatcher(catalog)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create catalog watcher")
		} else if err := watcher.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start catalog watcher")
		}
	}

	var store *recstore.Store
	if cfg.RecommendPath != "" {
		store, err = recstore.Open(cfg.RecommendPath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.RecommendPath).Msg("Recommendation store unavailable, continuing without persistence")
			store = nil
		}
	}

	registry := flow.NewRegistry()
	analyzer := website.NewLLMAnalyzer(client)
	controller := flow.NewController(client, analyzer, question.NewEngine(client), cfg.MaxKeywords)

	ranker := events.NewRanker(
		catalog,
		events.NewTradeShowSearcher(client),
		events.NewURLValidator(time.Duration(cfg.Validation.TimeoutSecs)*time.Second, cfg.Validation.FailOpen),
		events.Scorer{Floor: cfg.Scoring.Floor},
		cfg.Scoring.MaxResults,
	)

	var recStore events.RecommendationStore
	if store != nil {
		recStore = store
	}
	recommender := events.NewRecommender(client, recStore)

	svc := server.New(registry, controller, ranker, recommender, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.ListenAndServe(ctx, cfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}

	if watcher != nil {
		_ = watcher.Stop()
	}
	if store != nil {
		_ = store.Close()
	}
	log.Info().Msg("Shutdown complete")
}
