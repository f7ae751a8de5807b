package cooldown

import (
	"time"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Config holds cooldown service configuration
type Config struct {
	// DevMode bypasses all cooldowns when true
	DevMode bool

	// Durations maps scopes to their cooldowns; missing scopes use the domain defaults
	Durations map[string]time.Duration

	// Now overrides the clock in tests
	Now func() time.Time
}

// GetCooldownDuration returns the cooldown duration for a scope
func (c *Config) GetCooldownDuration(scope string) time.Duration {
	if c.Durations != nil {
		if d, ok := c.Durations[scope]; ok {
			return d
		}
	}

	switch scope {
	case domain.CooldownScopeVillage:
		return domain.DefaultVillageRaidCooldown
	case domain.CooldownScopeGlobal:
		return domain.DefaultGlobalRaidCooldown
	default:
		return DefaultCooldownDuration
	}
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// longest is the TTL for cached entries; nothing is on cooldown longer than this
func (c *Config) longest() time.Duration {
	d := max(DefaultCooldownDuration, domain.DefaultVillageRaidCooldown, domain.DefaultGlobalRaidCooldown)
	for _, v := range c.Durations {
		d = max(d, v)
	}
	return d
}
