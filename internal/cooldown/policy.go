package cooldown

import (
	"context"
	"strings"
	"time"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// RaidPolicy applies the per-village and global raid start cooldowns.
// Keys are taken in a fixed order (global, then village) so concurrent starts
// in different villages cannot deadlock on the postgres advisory locks.
type RaidPolicy struct {
	svc Service
}

// NewRaidPolicy wraps a cooldown service
func NewRaidPolicy(svc Service) *RaidPolicy {
	return &RaidPolicy{svc: svc}
}

// Enforce runs start under both cooldowns and records them only if start succeeds.
// Triggers that bypass cooldowns and expedition raids (empty village) run start directly.
func (p *RaidPolicy) Enforce(ctx context.Context, village string, trigger domain.RaidTrigger, start func() error) error {
	if trigger.BypassesCooldown() || village == "" {
		logger.FromContext(ctx).Debug(LogMsgCooldownBypassed, "trigger", trigger, "village", village)
		return start()
	}

	subject := strings.ToLower(village)
	return p.svc.EnforceCooldown(ctx, domain.CooldownScopeGlobal, domain.CooldownSubjectGlobal, func() error {
		return p.svc.EnforceCooldown(ctx, domain.CooldownScopeVillage, subject, start)
	})
}

// Remaining reports the longer of the two cooldowns blocking a village
func (p *RaidPolicy) Remaining(ctx context.Context, village string) (time.Duration, error) {
	_, global, err := p.svc.CheckCooldown(ctx, domain.CooldownScopeGlobal, domain.CooldownSubjectGlobal)
	if err != nil {
		return 0, err
	}
	_, local, err := p.svc.CheckCooldown(ctx, domain.CooldownScopeVillage, strings.ToLower(village))
	if err != nil {
		return 0, err
	}
	return max(global, local), nil
}

// Reset clears a village cooldown
func (p *RaidPolicy) Reset(ctx context.Context, village string) error {
	return p.svc.ResetCooldown(ctx, domain.CooldownScopeVillage, strings.ToLower(village))
}
