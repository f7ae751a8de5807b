package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.Raid = (*RaidRepository)(nil)

// RaidRepository stores raid documents with compare-and-swap versioning
type RaidRepository struct {
	s *Store
}

// CreateRaid stores a new raid at version 1
func (r *RaidRepository) CreateRaid(_ context.Context, raid *domain.Raid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.raids[raid.ID]; exists {
		return fmt.Errorf("%s: %s", ErrMsgDuplicateKey, raid.ID)
	}
	raid.Version = 1
	r.s.raids[raid.ID] = raid.Clone()
	return nil
}

// GetRaid returns a copy of the stored raid
func (r *RaidRepository) GetRaid(_ context.Context, id uuid.UUID) (*domain.Raid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.raids[id]
	if !ok {
		return nil, domain.ErrRaidNotFound
	}
	return stored.Clone(), nil
}

// UpdateRaid writes the raid when its version matches the stored one
func (r *RaidRepository) UpdateRaid(_ context.Context, raid *domain.Raid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.raids[raid.ID]
	if !ok {
		return domain.ErrRaidNotFound
	}
	if stored.Version != raid.Version {
		return fmt.Errorf("%w: raid %s at version %d, write carried %d", domain.ErrVersionConflict, raid.ID, stored.Version, raid.Version)
	}
	raid.Version++
	r.s.raids[raid.ID] = raid.Clone()
	return nil
}

// ListActiveRaids returns active raids, oldest first
func (r *RaidRepository) ListActiveRaids(_ context.Context) ([]*domain.Raid, error) {
	return r.list(func(raid *domain.Raid) bool { return raid.IsActive() }), nil
}

// ListExpiredRaids returns active raids whose deadline has passed
func (r *RaidRepository) ListExpiredRaids(_ context.Context, now time.Time) ([]*domain.Raid, error) {
	return r.list(func(raid *domain.Raid) bool { return raid.IsExpired(now) }), nil
}

func (r *RaidRepository) list(keep func(*domain.Raid) bool) []*domain.Raid {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Raid
	for _, raid := range r.s.raids {
		if keep(raid) {
			out = append(out, raid.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
