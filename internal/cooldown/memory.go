package cooldown

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/BrandishRaid_Go/internal/concurrency"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// memoryBackend implements Service in process memory. Entries expire from the
// LRU once no configured cooldown could still be running.
type memoryBackend struct {
	lastUsed *expirable.LRU[string, time.Time]
	locks    *concurrency.KeyedLock
	config   Config
}

// NewMemoryService creates a cooldown service for single-process deployments and tests
func NewMemoryService(config Config) Service {
	return &memoryBackend{
		lastUsed: expirable.NewLRU[string, time.Time](DefaultMemoryCapacity, nil, config.longest()),
		locks:    concurrency.NewKeyedLock(),
		config:   config,
	}
}

func (b *memoryBackend) CheckCooldown(_ context.Context, scope, subject string) (bool, time.Duration, error) {
	if b.config.DevMode {
		return false, 0, nil
	}
	onCooldown, remaining := remainingCooldown(b.config.now(), b.get(scope, subject), b.config.GetCooldownDuration(scope))
	return onCooldown, remaining, nil
}

func (b *memoryBackend) EnforceCooldown(ctx context.Context, scope, subject string, fn func() error) error {
	log := logger.FromContext(ctx)

	unlock := b.locks.Lock(keyOf(scope, subject))
	defer unlock()

	if b.config.DevMode {
		log.Debug(LogMsgDevModeBypass, "scope", scope, "subject", subject)
	} else if onCooldown, remaining := remainingCooldown(b.config.now(), b.get(scope, subject), b.config.GetCooldownDuration(scope)); onCooldown {
		return ErrOnCooldown{Scope: scope, Subject: subject, Remaining: remaining}
	}

	if err := fn(); err != nil {
		return err
	}

	b.lastUsed.Add(keyOf(scope, subject), b.config.now())
	log.Debug(LogMsgCooldownEnforced, "scope", scope, "subject", subject)
	return nil
}

func (b *memoryBackend) ResetCooldown(_ context.Context, scope, subject string) error {
	b.lastUsed.Remove(keyOf(scope, subject))
	return nil
}

func (b *memoryBackend) GetLastUsed(_ context.Context, scope, subject string) (*time.Time, error) {
	return b.get(scope, subject), nil
}

func (b *memoryBackend) get(scope, subject string) *time.Time {
	t, ok := b.lastUsed.Get(keyOf(scope, subject))
	if !ok {
		return nil
	}
	return &t
}
