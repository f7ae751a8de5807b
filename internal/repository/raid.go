package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Raid defines the interface for raid aggregate storage.
// Update is a compare-and-swap on Version: it writes only when the stored version
// equals raid.Version, bumps raid.Version on success and returns
// domain.ErrVersionConflict otherwise.
type Raid interface {
	CreateRaid(ctx context.Context, raid *domain.Raid) error
	GetRaid(ctx context.Context, id uuid.UUID) (*domain.Raid, error)
	UpdateRaid(ctx context.Context, raid *domain.Raid) error
	ListActiveRaids(ctx context.Context) ([]*domain.Raid, error)
	ListExpiredRaids(ctx context.Context, now time.Time) ([]*domain.Raid, error)
}

// Character defines the character reads and writes a raid needs
type Character interface {
	GetCharacter(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	UpdateCombatState(ctx context.Context, id uuid.UUID, update domain.CombatStateUpdate) error
}

// CharacterRoster is Character plus registration, used by the character sync endpoint
type CharacterRoster interface {
	Character
	SaveCharacter(ctx context.Context, c *domain.Character) error
}
