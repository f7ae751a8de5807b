package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.Expedition = (*ExpeditionRepository)(nil)

// ExpeditionRepository stores party pools and raid journals
type ExpeditionRepository struct {
	s *Store
}

// CreatePool stores a new pool at version 1
func (r *ExpeditionRepository) CreatePool(_ context.Context, pool *domain.PartyPool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.pools[pool.ExpeditionID]; exists {
		return fmt.Errorf("%s: %s", ErrMsgDuplicateKey, pool.ExpeditionID)
	}
	pool.Version = 1
	pool.UpdatedAt = time.Now().UTC()
	r.s.pools[pool.ExpeditionID] = clonePool(pool)
	return nil
}

// GetPool returns a copy of the pool
func (r *ExpeditionRepository) GetPool(_ context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pool, ok := r.s.pools[expeditionID]
	if !ok {
		return nil, domain.ErrExpeditionNotFound
	}
	return clonePool(pool), nil
}

// SavePool writes the pool when its version matches
func (r *ExpeditionRepository) SavePool(_ context.Context, pool *domain.PartyPool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.pools[pool.ExpeditionID]
	if !ok {
		return domain.ErrExpeditionNotFound
	}
	if stored.Version != pool.Version {
		return fmt.Errorf("%w: pool %s at version %d, write carried %d", domain.ErrVersionConflict, pool.ExpeditionID, stored.Version, pool.Version)
	}
	pool.Version++
	pool.UpdatedAt = time.Now().UTC()
	r.s.pools[pool.ExpeditionID] = clonePool(pool)
	return nil
}

// MarkFailed moves an active pool to failed
func (r *ExpeditionRepository) MarkFailed(_ context.Context, expeditionID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pool, ok := r.s.pools[expeditionID]
	if !ok {
		return false, domain.ErrExpeditionNotFound
	}
	if pool.Status != domain.ExpeditionStatusActive {
		return false, nil
	}
	pool.Status = domain.ExpeditionStatusFailed
	pool.Version++
	pool.UpdatedAt = time.Now().UTC()
	return true, nil
}

// AppendJournal records a raid outcome once per (expedition, raid)
func (r *ExpeditionRepository) AppendJournal(_ context.Context, record domain.RaidOutcomeRecord) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.journal[record.ExpeditionID] {
		if existing.RaidID == record.RaidID {
			return false, nil
		}
	}
	r.s.journal[record.ExpeditionID] = append(r.s.journal[record.ExpeditionID], record)
	return true, nil
}

// ListJournal returns the journal in insertion order
func (r *ExpeditionRepository) ListJournal(_ context.Context, expeditionID uuid.UUID) ([]domain.RaidOutcomeRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.RaidOutcomeRecord(nil), r.s.journal[expeditionID]...), nil
}

// AdvanceTurn moves the party turn pointer to the next member
func (r *ExpeditionRepository) AdvanceTurn(_ context.Context, expeditionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pool, ok := r.s.pools[expeditionID]
	if !ok {
		return domain.ErrExpeditionNotFound
	}
	if n := len(pool.Members); n > 0 {
		pool.CurrentTurn = (pool.CurrentTurn + 1) % n
	}
	pool.Version++
	pool.UpdatedAt = time.Now().UTC()
	return nil
}

func clonePool(p *domain.PartyPool) *domain.PartyPool {
	c := *p
	c.Members = append([]domain.PartyMember(nil), p.Members...)
	return &c
}
