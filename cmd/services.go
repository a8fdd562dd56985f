package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gist/internal/cache"
	"gist/internal/config"
	"gist/internal/database"
	"gist/internal/fetch"
	"gist/internal/lexrank"
	"gist/internal/metrics"
	"gist/internal/pipeline"
	"gist/internal/summarizer"

	"github.com/prometheus/client_golang/prometheus"
)

type services struct {
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	db       *database.Database
	redis    *cache.Redis
	fetcher  *fetch.Fetcher
	pipeline *pipeline.Orchestrator
	log      *slog.Logger
}

func newServices(ctx context.Context, cfg config.Config, log *slog.Logger) (*services, error) {
	s := &services{
		registry: prometheus.NewRegistry(),
		log:      log,
	}
	s.metrics = metrics.New(s.registry)

	layers := []cache.Layer{
		{Name: "memory", Cache: cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL)},
	}

	if cfg.Cache.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL, log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.redis = r
		layers = append(layers, cache.Layer{Name: "redis", Cache: r})

		log.InfoContext(ctx, "Redis cache is connected")
	}

	if cfg.Cache.DBPath != "" {
		db, err := database.New(ctx, cfg.Cache.DBPath, cfg.Cache.TTL, log)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("init db: %w", err), s.Close())
		}
		s.db = db
		layers = append(layers, cache.Layer{Name: "sqlite", Cache: db})

		log.InfoContext(ctx, "DB is initialized",
			"dbPath", cfg.Cache.DBPath)
	}

	c := cache.NewTiered(s.metrics, layers...)

	s.fetcher = fetch.New(fetch.Config{
		Timeout:         cfg.Fetch.Timeout,
		UserAgent:       cfg.Fetch.UserAgent,
		HostInterval:    cfg.Fetch.HostInterval,
		MaxBodyBytes:    cfg.Fetch.MaxBodyBytes,
		YouTubeBaseURL:  cfg.Fetch.YouTubeBaseURL,
		TelegramBaseURL: cfg.Fetch.TelegramBaseURL,
	}, c, s.metrics, log)

	ext := summarizer.NewExtractive(lexrank.New(), c, summarizer.Options{
		ChunkMaxChars:   cfg.Summary.ChunkMaxChars,
		ChunkWordBudget: cfg.Summary.ChunkWordBudget,
	}, s.metrics, log)

	s.pipeline = pipeline.New(ext, pipeline.Options{
		DefaultWordBudget: cfg.Summary.WordBudget,
		BulletLimit:       cfg.Summary.BulletLimit,
	}, s.metrics, log)

	return s, nil
}

func (s *services) Close() error {
	var errs []error

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
