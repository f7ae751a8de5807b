package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Expedition defines the interface for party pool and raid journal storage
type Expedition interface {
	CreatePool(ctx context.Context, pool *domain.PartyPool) error
	GetPool(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error)

	// SavePool writes the pool when its version matches and bumps pool.Version
	SavePool(ctx context.Context, pool *domain.PartyPool) error

	// MarkFailed moves an active expedition to failed; false when it was not active
	MarkFailed(ctx context.Context, expeditionID uuid.UUID) (bool, error)

	// AppendJournal inserts the outcome once per (expedition, raid); false for repeats
	AppendJournal(ctx context.Context, record domain.RaidOutcomeRecord) (bool, error)
	ListJournal(ctx context.Context, expeditionID uuid.UUID) ([]domain.RaidOutcomeRecord, error)

	// AdvanceTurn moves the party's turn pointer on by one member
	AdvanceTurn(ctx context.Context, expeditionID uuid.UUID) error
}
