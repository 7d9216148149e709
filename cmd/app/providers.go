package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	"github.com/yanqian/critter-checklist/internal/domain/checklist"
	"github.com/yanqian/critter-checklist/internal/infra/config"
	"github.com/yanqian/critter-checklist/internal/infra/dataset"
	"github.com/yanqian/critter-checklist/internal/infra/statestore"
	"github.com/yanqian/critter-checklist/pkg/util"
)

func provideClock(cfg *config.Config) (func() time.Time, error) {
	return util.LocalClock(cfg.Checklist.Timezone)
}

func provideChecklistConfig(cfg *config.Config) checklist.Config {
	hemisphere, ok := catalog.ParseHemisphere(cfg.Checklist.DefaultHemisphere)
	if !ok {
		hemisphere = catalog.HemisphereNorth
	}
	return checklist.Config{
		DefaultHemisphere: hemisphere,
		SuggestionLimit:   cfg.Checklist.SuggestionLimit,
	}
}

// provideDatasetLoader orders the sources: HTTP, then the bucket mirror, then the bundled copy.
func provideDatasetLoader(cfg *config.Config, logger *slog.Logger) *catalog.Loader {
	var sources []catalog.Source
	if base := strings.TrimSpace(cfg.Dataset.BaseURL); base != "" {
		sources = append(sources, dataset.NewHTTPSource(base, cfg.Dataset.Timeout))
	}
	if cfg.Dataset.Mirror.Enabled {
		mirror := cfg.Dataset.Mirror
		src, err := dataset.NewObjectSource(dataset.ObjectConfig{
			Endpoint:  mirror.Endpoint,
			AccessKey: mirror.AccessKey,
			SecretKey: mirror.SecretKey,
			Bucket:    mirror.Bucket,
			Prefix:    mirror.Prefix,
			Region:    mirror.Region,
		}, logger)
		if err != nil {
			logger.Error("dataset mirror unavailable, skipping", "error", err)
		} else {
			sources = append(sources, src)
		}
	}
	if cfg.Dataset.Bundled {
		sources = append(sources, dataset.NewEmbeddedSource())
	}
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name())
	}
	logger.Info("dataset sources configured", "sources", names)
	return catalog.NewLoader(logger, sources...)
}

// provideStateStore picks the configured backend. Remote backends that cannot
// be reached fall back to process memory.
func provideStateStore(cfg *config.Config, logger *slog.Logger) (checklist.Store, func(), error) {
	noop := func() {}
	switch cfg.State.Backend {
	case config.BackendFile:
		logger.Info("checklist state stored in file", "path", cfg.State.FilePath)
		return statestore.NewFileStore(cfg.State.FilePath), noop, nil
	case config.BackendValkey:
		return provideValkeyStore(cfg, logger)
	case config.BackendPostgres:
		return providePostgresStore(cfg, logger)
	default:
		logger.Info("checklist state kept in memory")
		return statestore.NewMemoryStore(), noop, nil
	}
}

func provideValkeyStore(cfg *config.Config, logger *slog.Logger) (checklist.Store, func(), error) {
	fallback := statestore.NewMemoryStore()
	opt, err := buildValkeyOptions(cfg.State.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return fallback, func() {}, nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return fallback, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return fallback, func() {}, nil
	}
	logger.Info("checklist valkey store enabled", "addr", cfg.State.Valkey.Addr, "key", cfg.State.Key)
	return statestore.NewValkeyStore(client, cfg.State.Key), client.Close, nil
}

func providePostgresStore(cfg *config.Config, logger *slog.Logger) (checklist.Store, func(), error) {
	fallback := statestore.NewMemoryStore()
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.State.Postgres.DSN))
	if err != nil {
		logger.Error("invalid postgres dsn, using memory store", "error", err)
		return fallback, func() {}, nil
	}
	if cfg.State.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.State.Postgres.MaxConns
	}
	if cfg.State.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.State.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory store", "error", err)
		return fallback, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory store", "error", err)
		pool.Close()
		return fallback, func() {}, nil
	}
	store := statestore.NewPostgresStore(pool, cfg.State.Key)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory store", "error", err)
		pool.Close()
		return fallback, func() {}, nil
	}
	logger.Info("checklist postgres store enabled", "key", cfg.State.Key)
	return store, pool.Close, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
