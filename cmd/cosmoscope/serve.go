package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cosmoscope/cosmoscope/pkg/cache"
	cachesqlite "github.com/cosmoscope/cosmoscope/pkg/cache/sqlite"
	"github.com/cosmoscope/cosmoscope/pkg/config"
	"github.com/cosmoscope/cosmoscope/pkg/nasa"
	"github.com/cosmoscope/cosmoscope/pkg/ratelimit"
	"github.com/cosmoscope/cosmoscope/pkg/server"
	"github.com/cosmoscope/cosmoscope/pkg/tracker"
)

const trackerRetentionEvery = time.Hour

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := nasa.New(cfg.Upstream, nasa.WithLogger(logger))
			cache.StartJanitor(ctx, client, cfg.Cache.SweepInterval, logger)

			opts := []server.Option{server.WithLogger(logger), server.WithVersion(version)}

			if cfg.Cache.Enabled {
				store, err := openCacheStore(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				cache.StartJanitor(ctx, store, cfg.Cache.SweepInterval, logger)
				opts = append(opts, server.WithResponseCache(cache.NewResponseCache(store, cfg.Cache.TTL, logger)))
			}

			if cfg.RateLimit.Enabled {
				store, closeStore, err := openLimitStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer closeStore()
				if ms, ok := store.(*ratelimit.MemoryStore); ok {
					ms.StartJanitor(ctx, cfg.RateLimit.SweepInterval)
				}
				opts = append(opts, server.WithLimiter(ratelimit.New(store, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window,
					ratelimit.WithLogger(logger))))
			}

			if cfg.Tracker.Enabled {
				tr, err := tracker.New(cfg.Tracker.DBPath)
				if err != nil {
					return fmt.Errorf("init tracker: %w", err)
				}
				defer func() { _ = tr.Close() }()
				tracker.StartRetention(ctx, tr, cfg.Tracker.Retention, trackerRetentionEvery, logger)

				rec := tracker.NewAsync(tr, 1024, logger)
				defer rec.Close()
				opts = append(opts, server.WithRecorder(rec))
			}

			srv := server.New(cfg, client, opts...)
			logger.Info("starting cosmoscope",
				"config", configPath,
				"cache", cacheDescription(cfg),
				"rate_limit", cfg.RateLimit.Enabled,
				"tracker", cfg.Tracker.Enabled,
			)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cosmoscope.yaml", "path to config file")
	return cmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "sqlite":
		c, err := cachesqlite.New(cfg.Cache.DBPath, cfg.Cache.TTL, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemory(cfg.Cache.TTL, cache.WithMaxEntries(cfg.Cache.MaxEntries)), nil
	}
}

func openLimitStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, func(), error) {
	if cfg.RateLimit.Backend != "redis" {
		return ratelimit.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	return ratelimit.NewRedisStore(rdb, ratelimit.WithPrefix(cfg.Redis.Prefix)), func() { _ = rdb.Close() }, nil
}

func cacheDescription(cfg *config.Config) string {
	if !cfg.Cache.Enabled {
		return "disabled"
	}
	return strings.Join([]string{cfg.Cache.Backend, cfg.Cache.TTL.String()}, "/")
}
