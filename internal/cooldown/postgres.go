package cooldown

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// postgresBackend implements Service using PostgreSQL
type postgresBackend struct {
	db     *pgxpool.Pool
	config Config
}

// NewPostgresService creates a new cooldown service with Postgres backend
func NewPostgresService(db *pgxpool.Pool, config Config) Service {
	return &postgresBackend{
		db:     db,
		config: config,
	}
}

// CheckCooldown checks whether a key is on cooldown (unlocked read)
func (b *postgresBackend) CheckCooldown(ctx context.Context, scope, subject string) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}

	lastUsed, err := b.getLastUsed(ctx, scope, subject)
	if err != nil {
		return false, 0, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}

	onCooldown, remaining := remainingCooldown(b.config.now(), lastUsed, b.config.GetCooldownDuration(scope))
	return onCooldown, remaining, nil
}

// EnforceCooldown uses check-then-lock: a cheap unlocked read rejects most
// requests, then an advisory lock serializes the recheck, fn and the write.
func (b *postgresBackend) EnforceCooldown(ctx context.Context, scope, subject string, fn func() error) error {
	log := logger.FromContext(ctx)

	onCooldown, remaining, err := b.CheckCooldown(ctx, scope, subject)
	if err != nil {
		return err
	}
	if onCooldown {
		return ErrOnCooldown{Scope: scope, Subject: subject, Remaining: remaining}
	}

	if b.config.DevMode {
		log.Debug(LogMsgDevModeBypass, "scope", scope, "subject", subject)
		if err := fn(); err != nil {
			return err
		}
		return b.updateCooldown(ctx, b.db, scope, subject, b.config.now())
	}

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Advisory locks work even when no row exists yet, unlike SELECT FOR UPDATE
	if _, err := tx.Exec(ctx, SQLAdvisoryLock, hashScopeSubject(scope, subject)); err != nil {
		return fmt.Errorf(ErrMsgAcquireLockFailed, err)
	}

	lastUsed, err := b.getLastUsedTx(ctx, tx, scope, subject)
	if err != nil {
		return fmt.Errorf(ErrMsgGetCooldownTxFailed, err)
	}
	if onCooldown, remaining := remainingCooldown(b.config.now(), lastUsed, b.config.GetCooldownDuration(scope)); onCooldown {
		log.Debug(LogMsgRaceConditionDetected, "scope", scope, "subject", subject, "remaining", remaining)
		return ErrOnCooldown{Scope: scope, Subject: subject, Remaining: remaining}
	}

	if err := fn(); err != nil {
		return err
	}

	if err := b.updateCooldown(ctx, tx, scope, subject, b.config.now()); err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Debug(LogMsgCooldownEnforced, "scope", scope, "subject", subject)
	return nil
}

// ResetCooldown manually resets a cooldown
func (b *postgresBackend) ResetCooldown(ctx context.Context, scope, subject string) error {
	if _, err := b.db.Exec(ctx, SQLDeleteCooldown, scope, subject); err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}

// GetLastUsed returns when the key was last used
func (b *postgresBackend) GetLastUsed(ctx context.Context, scope, subject string) (*time.Time, error) {
	return b.getLastUsed(ctx, scope, subject)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (b *postgresBackend) updateCooldown(ctx context.Context, e execer, scope, subject string, at time.Time) error {
	_, err := e.Exec(ctx, SQLUpsertCooldown, scope, subject, at)
	return err
}

func (b *postgresBackend) getLastUsed(ctx context.Context, scope, subject string) (*time.Time, error) {
	return scanLastUsed(ctx, b.db, scope, subject)
}

func (b *postgresBackend) getLastUsedTx(ctx context.Context, tx pgx.Tx, scope, subject string) (*time.Time, error) {
	return scanLastUsed(ctx, tx, scope, subject)
}

func scanLastUsed(ctx context.Context, q querier, scope, subject string) (*time.Time, error) {
	var lastUsed time.Time
	err := q.QueryRow(ctx, SQLSelectLastUsed, scope, subject).Scan(&lastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgGetLastUsedFailed, err)
	}
	return &lastUsed, nil
}

// hashScopeSubject creates a consistent positive int64 for advisory locking
func hashScopeSubject(scope, subject string) int64 {
	h := sha256.Sum256([]byte(keyOf(scope, subject)))
	return int64(binary.BigEndian.Uint64(h[:8]) & HashMaskPositiveInt64)
}
