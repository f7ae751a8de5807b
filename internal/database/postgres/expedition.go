package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.Expedition = (*ExpeditionRepository)(nil)

// ExpeditionRepository stores party pools and their raid journals
type ExpeditionRepository struct {
	db *pgxpool.Pool
}

// NewExpeditionRepository creates a new ExpeditionRepository
func NewExpeditionRepository(db *pgxpool.Pool) *ExpeditionRepository {
	return &ExpeditionRepository{db: db}
}

const (
	sqlInsertPool = `
		INSERT INTO party_pools (expedition_id, status, total_hearts, total_stamina, members, current_turn, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, NOW())
		RETURNING updated_at`

	sqlSelectPool = `
		SELECT expedition_id, status, total_hearts, total_stamina, members, current_turn, version, updated_at
		FROM party_pools
		WHERE expedition_id = $1`

	sqlSavePool = `
		UPDATE party_pools
		SET status = $3, total_hearts = $4, total_stamina = $5, members = $6, current_turn = $7,
		    version = version + 1, updated_at = NOW()
		WHERE expedition_id = $1 AND version = $2
		RETURNING version, updated_at`

	sqlPoolExists = `SELECT EXISTS (SELECT 1 FROM party_pools WHERE expedition_id = $1)`

	sqlMarkPoolFailed = `
		UPDATE party_pools
		SET status = 'failed', version = version + 1, updated_at = NOW()
		WHERE expedition_id = $1 AND status = 'active'`

	sqlAdvancePoolTurn = `
		UPDATE party_pools
		SET current_turn = CASE
		        WHEN jsonb_array_length(members) > 0 THEN (current_turn + 1) % jsonb_array_length(members)
		        ELSE current_turn
		    END,
		    version = version + 1,
		    updated_at = NOW()
		WHERE expedition_id = $1`

	sqlInsertJournal = `
		INSERT INTO expedition_raid_journal (expedition_id, raid_id, outcome, recorded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (expedition_id, raid_id) DO NOTHING`

	sqlListJournal = `
		SELECT expedition_id, raid_id, outcome, recorded_at
		FROM expedition_raid_journal
		WHERE expedition_id = $1
		ORDER BY id`
)

// CreatePool inserts a new pool at version 1
func (r *ExpeditionRepository) CreatePool(ctx context.Context, pool *domain.PartyPool) error {
	members, err := json.Marshal(pool.Members)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeMembers, err)
	}

	err = r.db.QueryRow(ctx, sqlInsertPool,
		pool.ExpeditionID, string(pool.Status), pool.TotalHearts, pool.TotalStamina, members, pool.CurrentTurn,
	).Scan(&pool.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %s", ErrMsgPoolAlreadyExists, pool.ExpeditionID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	pool.Version = 1
	return nil
}

// GetPool loads a pool by expedition ID
func (r *ExpeditionRepository) GetPool(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	var (
		pool    domain.PartyPool
		status  string
		members []byte
	)
	err := r.db.QueryRow(ctx, sqlSelectPool, expeditionID).Scan(
		&pool.ExpeditionID, &status, &pool.TotalHearts, &pool.TotalStamina, &members,
		&pool.CurrentTurn, &pool.Version, &pool.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpeditionNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
	}
	pool.Status = domain.ExpeditionStatus(status)
	if err := json.Unmarshal(members, &pool.Members); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, err)
	}
	return &pool, nil
}

// SavePool writes the pool when its version matches
func (r *ExpeditionRepository) SavePool(ctx context.Context, pool *domain.PartyPool) error {
	members, err := json.Marshal(pool.Members)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeMembers, err)
	}

	err = r.db.QueryRow(ctx, sqlSavePool,
		pool.ExpeditionID, pool.Version, string(pool.Status), pool.TotalHearts, pool.TotalStamina,
		members, pool.CurrentTurn,
	).Scan(&pool.Version, &pool.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePool, err)
	}

	exists, err := r.exists(ctx, pool.ExpeditionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePool, err)
	}
	if !exists {
		return domain.ErrExpeditionNotFound
	}
	return fmt.Errorf("%w: pool %s, write carried version %d", domain.ErrVersionConflict, pool.ExpeditionID, pool.Version)
}

// MarkFailed moves an active pool to failed
func (r *ExpeditionRepository) MarkFailed(ctx context.Context, expeditionID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, sqlMarkPoolFailed, expeditionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToMarkFailed, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	exists, err := r.exists(ctx, expeditionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToMarkFailed, err)
	}
	if !exists {
		return false, domain.ErrExpeditionNotFound
	}
	return false, nil
}

// AppendJournal records a raid outcome once per (expedition, raid)
func (r *ExpeditionRepository) AppendJournal(ctx context.Context, record domain.RaidOutcomeRecord) (bool, error) {
	tag, err := r.db.Exec(ctx, sqlInsertJournal,
		record.ExpeditionID, record.RaidID, string(record.Outcome), record.RecordedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrExpeditionNotFound
		}
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToAppendJournal, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListJournal returns the journal in insertion order
func (r *ExpeditionRepository) ListJournal(ctx context.Context, expeditionID uuid.UUID) ([]domain.RaidOutcomeRecord, error) {
	rows, err := r.db.Query(ctx, sqlListJournal, expeditionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJournal, err)
	}
	defer rows.Close()

	var out []domain.RaidOutcomeRecord
	for rows.Next() {
		var (
			rec     domain.RaidOutcomeRecord
			outcome string
		)
		if err := rows.Scan(&rec.ExpeditionID, &rec.RaidID, &outcome, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJournal, err)
		}
		rec.Outcome = domain.RaidOutcome(outcome)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJournal, err)
	}
	return out, nil
}

// AdvanceTurn moves the party turn pointer to the next member
func (r *ExpeditionRepository) AdvanceTurn(ctx context.Context, expeditionID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, sqlAdvancePoolTurn, expeditionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAdvanceTurn, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpeditionNotFound
	}
	return nil
}

func (r *ExpeditionRepository) exists(ctx context.Context, expeditionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, sqlPoolExists, expeditionID).Scan(&exists)
	return exists, err
}
