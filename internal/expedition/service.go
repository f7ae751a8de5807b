// Package expedition owns the shared party pool of traveling parties.
//
// While an expedition is active its pool is the only record of the party's
// hearts and stamina; raids linked to it debit the pool instead of writing
// individual characters.
package expedition

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

// Service defines the interface for party pool operations
type Service interface {
	StartExpedition(ctx context.Context, members []domain.PartyMember, hearts, stamina int) (*domain.PartyPool, error)

	// FindActiveByLinkageID returns the pool of an active expedition
	FindActiveByLinkageID(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error)
	GetPool(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error)
	SavePool(ctx context.Context, pool *domain.PartyPool) error

	// ApplyRaidDamage debits damage from the pool with optimistic retries and
	// returns the saved pool
	ApplyRaidDamage(ctx context.Context, expeditionID uuid.UUID, damage int) (*domain.PartyPool, error)

	// RecordRaidOutcome journals a raid's end; only the first record for a raid
	// advances the party turn
	RecordRaidOutcome(ctx context.Context, expeditionID, raidID uuid.UUID, outcome domain.RaidOutcome) (bool, error)

	// FailExpedition moves an active expedition to failed at most once
	FailExpedition(ctx context.Context, expeditionID, raidID uuid.UUID) (bool, error)

	GetJournal(ctx context.Context, expeditionID uuid.UUID) ([]domain.RaidOutcomeRecord, error)
}

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	repo      repository.Expedition
	publisher EventPublisher
}

// NewService creates a new expedition service. publisher may be nil.
func NewService(repo repository.Expedition, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

// DebitPool subtracts damage from the pool's hearts, flooring at zero, and
// returns the hearts left
func DebitPool(pool *domain.PartyPool, damage int) int {
	if damage > 0 {
		pool.TotalHearts -= damage
	}
	if pool.TotalHearts < 0 {
		pool.TotalHearts = 0
	}
	return pool.TotalHearts
}
