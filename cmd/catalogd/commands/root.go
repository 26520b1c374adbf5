// Package commands implements the catalogd CLI.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/hookahdb/catalog-scraper/internal/config"
	"github.com/hookahdb/catalog-scraper/internal/storage"
	"github.com/hookahdb/catalog-scraper/pkg/cache"
	"github.com/hookahdb/catalog-scraper/pkg/client"
	"github.com/hookahdb/catalog-scraper/pkg/logging"
	"github.com/hookahdb/catalog-scraper/pkg/scraper"
)

var rootCmd = &cobra.Command{
	Use:   "catalogd",
	Short: "catalogd harvests a hookah tobacco catalogue site into typed records.",
}

// ExecuteContext runs the CLI.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the wired-up process: configuration plus the scraper and its
// collaborators.
type app struct {
	cfg     *config.Config
	scraper *scraper.Scraper

	redisClient *redis.Client
	pgPool      *pgxpool.Pool
}

// setup loads configuration and wires logging, cache, storage and the
// scraper. Callers must close the returned app.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.Config{Level: logging.LogLevel(cfg.LogLevel)})

	clientCfg := client.DefaultConfig()
	clientCfg.Timeout = cfg.Timeout
	clientCfg.MaxRetries = cfg.MaxRetries
	clientCfg.MinRequestDelay = cfg.RequestDelay
	httpClient, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	a := &app{cfg: cfg}

	var catalogCache cache.CatalogCache
	if cfg.RedisAddr != "" {
		a.redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		catalogCache = cache.NewRedisStore(a.redisClient, cfg.CacheTTL)
	} else {
		store := cache.NewStore(cfg.CacheTTL)
		store.StartSweeper(cfg.CacheTTL / 4)
		catalogCache = store
	}

	scraperCfg := scraper.DefaultConfig()
	scraperCfg.BaseURL = cfg.BaseURL
	scraperCfg.PageSize = cfg.PageSize
	scraperCfg.UseAPIDiscovery = cfg.UseAPIDiscovery
	scraperCfg.EnableFallback = cfg.EnableFallback
	s, err := scraper.New(httpClient, catalogCache, scraperCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create scraper: %w", err)
	}
	a.scraper = s

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pgPool = pool

		store := storage.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		s.SetStore(store)
	}

	return a, nil
}

// Close releases external connections.
func (a *app) Close() {
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	if a.pgPool != nil {
		a.pgPool.Close()
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
