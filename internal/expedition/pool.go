package expedition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/concurrency"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// StartExpedition seeds a new active party pool. Non-positive totals default to
// a per-member allowance.
func (s *service) StartExpedition(ctx context.Context, members []domain.PartyMember, hearts, stamina int) (*domain.PartyPool, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoMembers)
	}
	seen := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		if seen[m.CharacterID] {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgDuplicateMember)
		}
		seen[m.CharacterID] = true
	}
	if hearts <= 0 {
		hearts = DefaultHeartsPerMember * len(members)
	}
	if stamina <= 0 {
		stamina = DefaultStaminaPerMember * len(members)
	}

	pool := &domain.PartyPool{
		ExpeditionID: uuid.New(),
		Status:       domain.ExpeditionStatusActive,
		TotalHearts:  hearts,
		TotalStamina: stamina,
		Members:      append([]domain.PartyMember(nil), members...),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreatePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreate, err)
	}

	logger.FromContext(ctx).Info(LogMsgExpeditionStarted, "expedition_id", pool.ExpeditionID, "members", len(members), "hearts", hearts)
	return pool, nil
}

func (s *service) FindActiveByLinkageID(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	pool, err := s.GetPool(ctx, expeditionID)
	if err != nil {
		return nil, err
	}
	if pool.Status != domain.ExpeditionStatusActive {
		return nil, domain.ErrExpeditionNotActive
	}
	return pool, nil
}

func (s *service) GetPool(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	pool, err := s.repo.GetPool(ctx, expeditionID)
	if err != nil {
		if errors.Is(err, domain.ErrExpeditionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPool, err)
	}
	return pool, nil
}

func (s *service) SavePool(ctx context.Context, pool *domain.PartyPool) error {
	if err := s.repo.SavePool(ctx, pool); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToSavePool, err)
	}
	return nil
}

func (s *service) ApplyRaidDamage(ctx context.Context, expeditionID uuid.UUID, damage int) (*domain.PartyPool, error) {
	res, err := concurrency.RetryOptimistic(ctx, concurrency.Options{Operation: "pool_debit"},
		func(ctx context.Context, _ int) (*domain.PartyPool, error) {
			pool, err := s.GetPool(ctx, expeditionID)
			if err != nil {
				return nil, err
			}
			DebitPool(pool, damage)
			if err := s.SavePool(ctx, pool); err != nil {
				return nil, err
			}
			return pool, nil
		})
	if err != nil {
		return nil, err
	}

	pool := res.Value
	log := logger.FromContext(ctx)
	log.Debug(LogMsgPoolDebited, "expedition_id", expeditionID, "damage", damage, "hearts", pool.TotalHearts)
	if pool.TotalHearts == 0 {
		log.Info(LogMsgPoolExhausted, "expedition_id", expeditionID)
	}
	return pool, nil
}
