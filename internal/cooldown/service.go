package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Service manages cooldowns keyed by (scope, subject), e.g. ("village", "rudania")
type Service interface {
	// CheckCooldown reports whether the key is on cooldown and for how long
	CheckCooldown(ctx context.Context, scope, subject string) (bool, time.Duration, error)

	// EnforceCooldown atomically checks the cooldown, runs fn, and records the use
	// only when fn succeeds
	EnforceCooldown(ctx context.Context, scope, subject string, fn func() error) error

	// ResetCooldown manually resets a cooldown (admin/testing)
	ResetCooldown(ctx context.Context, scope, subject string) error

	// GetLastUsed returns when the key was last used
	GetLastUsed(ctx context.Context, scope, subject string) (*time.Time, error)
}

// ErrOnCooldown is returned when a key is still on cooldown.
// errors.Is matches both ErrOnCooldown{} and domain.ErrRaidOnCooldown.
type ErrOnCooldown struct {
	Scope     string
	Subject   string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % SecondsPerMinute

	if minutes > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, e.label(), minutes, seconds)
	}
	return fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.label(), seconds)
}

func (e ErrOnCooldown) label() string {
	if e.Scope == domain.CooldownScopeGlobal {
		return LabelGlobal
	}
	return e.Subject
}

// Is allows errors.Is() to work with ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	if target == domain.ErrRaidOnCooldown {
		return true
	}
	_, ok := target.(ErrOnCooldown)
	return ok
}

// remainingCooldown returns whether lastUsed+duration is still ahead of now
func remainingCooldown(now time.Time, lastUsed *time.Time, duration time.Duration) (bool, time.Duration) {
	if lastUsed == nil {
		return false, 0
	}
	elapsed := now.Sub(*lastUsed)
	if elapsed < duration {
		return true, duration - elapsed
	}
	return false, 0
}

func keyOf(scope, subject string) string {
	return scope + HashSeparator + subject
}
