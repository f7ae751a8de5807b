package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishRaid_Go/internal/config"
	"github.com/osse101/BrandishRaid_Go/internal/cooldown"
	"github.com/osse101/BrandishRaid_Go/internal/database"
	"github.com/osse101/BrandishRaid_Go/internal/database/memory"
	"github.com/osse101/BrandishRaid_Go/internal/database/postgres"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

// Storage holds the repositories and cooldown backend chosen by configuration
type Storage struct {
	Raids       repository.Raid
	Characters  repository.CharacterRoster
	Expeditions repository.Expedition
	Jobs        repository.ScheduledJob
	Cooldowns   cooldown.Service

	// pool is nil when nothing is backed by postgres
	pool *pgxpool.Pool
}

// OpenStorage connects and migrates postgres when any backend needs it, then
// builds the repositories and the cooldown service
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	s := &Storage{}

	if cfg.UsesPostgres() {
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime, cfg.DB.MaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		applied, err := database.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDB, err)
		}
		slog.Info(LogMsgMigrationsComplete, "applied", applied)
		s.pool = pool
	}

	if cfg.DB.Backend == config.BackendPostgres {
		store := postgres.NewStore(s.pool)
		s.Raids = store.Raids()
		s.Characters = store.Characters()
		s.Expeditions = store.Expeditions()
		s.Jobs = store.Jobs()
	} else {
		store := memory.NewStore()
		s.Raids = store.Raids()
		s.Characters = store.Characters()
		s.Expeditions = store.Expeditions()
		s.Jobs = store.Jobs()
	}

	coolCfg := cooldownConfig(cfg)
	if cfg.Cooldowns.Backend == config.BackendPostgres {
		s.Cooldowns = cooldown.NewPostgresService(s.pool, coolCfg)
	} else {
		s.Cooldowns = cooldown.NewMemoryService(coolCfg)
	}

	slog.Info(LogMsgStorageReady,
		"db_backend", cfg.DB.Backend,
		"cooldown_backend", cfg.Cooldowns.Backend,
		"dev_mode", cfg.DevMode)

	return s, nil
}

func cooldownConfig(cfg *config.Config) cooldown.Config {
	return cooldown.Config{
		DevMode: cfg.DevMode,
		Durations: map[string]time.Duration{
			domain.CooldownScopeVillage: cfg.Cooldowns.Village,
			domain.CooldownScopeGlobal:  cfg.Cooldowns.Global,
		},
	}
}

// DBPool returns the pool for readiness checks, or an untyped nil on the
// memory backend so that the readiness handler sees a nil interface
func (s *Storage) DBPool() database.Pool {
	if s.pool == nil {
		return nil
	}
	return s.pool
}

// Close releases the connection pool, if any
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
