package raid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
)

// StartRaidRequest describes a new raid
type StartRaidRequest struct {
	Monster      domain.Monster
	Village      string
	ExpeditionID *uuid.UUID
	GrottoID     string
	Trigger      domain.RaidTrigger
	ThreadID     string
	MessageID    string
}

func (s *service) StartRaid(ctx context.Context, req StartRaidRequest) (r *domain.Raid, err error) {
	ctx, span := s.tracer.Start(ctx, SpanStartRaid)
	defer func() { endSpan(span, err) }()

	log := logger.FromContext(ctx)

	hearts, err := validateMonster(req.Monster)
	if err != nil {
		return nil, err
	}

	expedition := req.ExpeditionID != nil && *req.ExpeditionID != uuid.Nil
	village := strings.TrimSpace(req.Village)
	if !expedition && village == "" {
		return nil, domain.ErrMissingLinkage
	}
	if expedition {
		if _, err := s.activePool(ctx, *req.ExpeditionID); err != nil {
			return nil, err
		}
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = domain.RaidTriggerManual
		if expedition {
			trigger = domain.RaidTriggerExploration
		}
	}

	now := s.now().UTC()
	r = &domain.Raid{
		ID: uuid.New(),
		Monster: domain.Monster{
			Name:          strings.TrimSpace(req.Monster.Name),
			Tier:          req.Monster.Tier,
			CurrentHearts: hearts,
			MaxHearts:     hearts,
		},
		GrottoID:     req.GrottoID,
		Trigger:      trigger,
		Participants: []domain.RaidParticipant{},
		Status:       domain.RaidStatusActive,
		CreatedAt:    now,
		ThreadID:     req.ThreadID,
		MessageID:    req.MessageID,
		Analytics:    domain.RaidAnalytics{BaseMonsterHearts: hearts},
	}
	if expedition {
		id := *req.ExpeditionID
		r.ExpeditionID = &id
		r.ExpiresAt = now.Add(domain.ExpeditionRaidHorizon)
	} else {
		r.Village = village
		r.ExpiresAt = now.Add(ExpiryForTier(r.Monster.Tier))
	}

	create := func() error {
		if err := s.raids.CreateRaid(ctx, r); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCreateRaid, err)
		}
		return nil
	}
	if s.policy != nil {
		// expedition raids carry no village and skip cooldowns
		err = s.policy.Enforce(ctx, r.Village, trigger, create)
	} else {
		err = create()
	}
	if err != nil {
		return nil, err
	}

	if !expedition {
		if _, err := s.jobs.ScheduleOneTime(ctx, domain.JobNameRaidExpire, r.ExpiresAt, raidMatch(r.ID), domain.PayloadKeyRaidID); err != nil {
			log.Warn(LogMsgExpireJobScheduleFailed, "raid_id", r.ID, "error", err)
		}
	}

	metrics.RaidsStarted.WithLabelValues(string(trigger)).Inc()
	metrics.RaidActive.Inc()
	s.publish(ctx, event.NewRaidEvent(event.RaidStarted, r, nil))

	log.Info(LogMsgRaidStarted, "raid_id", r.ID, "monster", r.Monster.Name, "tier", r.Monster.Tier,
		"village", r.Village, "trigger", trigger, "expires_in", r.ExpiresAt.Sub(now).Round(time.Second))
	return r, nil
}

// validateMonster checks the snapshot and returns its starting hearts
func validateMonster(m domain.Monster) (int, error) {
	hearts := m.MaxHearts
	if hearts <= 0 {
		hearts = m.CurrentHearts
	}
	if strings.TrimSpace(m.Name) == "" || m.Tier < domain.MinMonsterTier || m.Tier > domain.MaxMonsterTier || hearts <= 0 {
		return 0, domain.ErrInvalidMonsterSnapshot
	}
	return hearts, nil
}

// activePool loads an expedition's pool, mapping a missing or finished
// expedition to ErrNotInExpedition
func (s *service) activePool(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	if s.pools == nil {
		return nil, domain.ErrNotInExpedition
	}
	pool, err := s.pools.FindActiveByLinkageID(ctx, expeditionID)
	switch {
	case err == nil:
		return pool, nil
	case errors.Is(err, domain.ErrExpeditionNotFound), errors.Is(err, domain.ErrExpeditionNotActive):
		return nil, fmt.Errorf("%w: %w", domain.ErrNotInExpedition, err)
	default:
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPool, err)
	}
}
