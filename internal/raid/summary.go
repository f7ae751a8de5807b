package raid

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

func (s *service) GetRaid(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error) {
	if r, ok := s.cache.Get(raidID); ok {
		logger.FromContext(ctx).Debug(LogMsgRaidCacheHit, "raid_id", raidID)
		return r, nil
	}
	return s.loadRaid(ctx, raidID)
}

// GetSummary returns the state digest that chat surfaces render
func (s *service) GetSummary(ctx context.Context, raidID uuid.UUID) (*domain.RaidSummary, error) {
	r, err := s.GetRaid(ctx, raidID)
	if err != nil {
		return nil, err
	}

	sum := &domain.RaidSummary{
		RaidID:       r.ID,
		Status:       r.Status,
		Monster:      r.Monster,
		Village:      r.Village,
		ExpeditionID: r.ExpeditionID,
		Participants: r.Participants,
	}
	if r.IsActive() {
		sum.TimeRemaining = max(0, r.ExpiresAt.Sub(s.now()))
		if holder := r.CurrentHolder(); holder != nil {
			sum.CurrentTurnName = holder.Name
			sum.CurrentTurnUser = holder.UserID
		}
	}
	return sum, nil
}

func (s *service) ListActive(ctx context.Context) ([]*domain.Raid, error) {
	raids, err := s.raids.ListActiveRaids(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListRaids, err)
	}
	return raids, nil
}
