package expedition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

func (s *service) RecordRaidOutcome(ctx context.Context, expeditionID, raidID uuid.UUID, outcome domain.RaidOutcome) (bool, error) {
	log := logger.FromContext(ctx)

	inserted, err := s.repo.AppendJournal(ctx, domain.RaidOutcomeRecord{
		ExpeditionID: expeditionID,
		RaidID:       raidID,
		Outcome:      outcome,
		RecordedAt:   time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextFailedToJournal, err)
	}
	if !inserted {
		log.Debug(LogMsgOutcomeDuplicate, "expedition_id", expeditionID, "raid_id", raidID)
		return false, nil
	}

	if err := s.repo.AdvanceTurn(ctx, expeditionID); err != nil {
		return true, fmt.Errorf("%s: %w", ErrContextFailedToAdvance, err)
	}
	log.Info(LogMsgOutcomeRecorded, "expedition_id", expeditionID, "raid_id", raidID, "outcome", outcome)
	return true, nil
}

func (s *service) FailExpedition(ctx context.Context, expeditionID, raidID uuid.UUID) (bool, error) {
	log := logger.FromContext(ctx)

	changed, err := s.repo.MarkFailed(ctx, expeditionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextFailedToMarkFail, err)
	}
	if !changed {
		log.Debug(LogMsgExpeditionNotActive, "expedition_id", expeditionID)
		return false, nil
	}

	log.Warn(LogMsgExpeditionFailed, "expedition_id", expeditionID, "raid_id", raidID)

	// journaled without advancing the turn; a failed party has no next turn
	if _, err := s.repo.AppendJournal(ctx, domain.RaidOutcomeRecord{
		ExpeditionID: expeditionID,
		RaidID:       raidID,
		Outcome:      domain.RaidOutcomePoolZero,
		RecordedAt:   time.Now().UTC(),
	}); err != nil {
		return true, fmt.Errorf("%s: %w", ErrContextFailedToJournal, err)
	}
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewExpeditionFailedEvent(expeditionID, raidID))
	}
	return true, nil
}

func (s *service) GetJournal(ctx context.Context, expeditionID uuid.UUID) ([]domain.RaidOutcomeRecord, error) {
	records, err := s.repo.ListJournal(ctx, expeditionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListJourn, err)
	}
	return records, nil
}
