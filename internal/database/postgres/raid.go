package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.Raid = (*RaidRepository)(nil)

// RaidRepository stores each raid as a JSONB document next to the columns the
// sweeps filter on. The version column carries the compare-and-swap.
type RaidRepository struct {
	db *pgxpool.Pool
}

// NewRaidRepository creates a new RaidRepository
func NewRaidRepository(db *pgxpool.Pool) *RaidRepository {
	return &RaidRepository{db: db}
}

const (
	sqlInsertRaid = `
		INSERT INTO raids (id, status, village, expedition_id, expires_at, version, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7, NOW())`

	sqlSelectRaid = `SELECT version, document FROM raids WHERE id = $1`

	sqlUpdateRaid = `
		UPDATE raids
		SET status = $3, expires_at = $4, version = version + 1, document = $5, updated_at = NOW()
		WHERE id = $1 AND version = $2`

	sqlRaidExists = `SELECT EXISTS (SELECT 1 FROM raids WHERE id = $1)`

	sqlListActiveRaids = `
		SELECT version, document FROM raids
		WHERE status = 'active'
		ORDER BY created_at`

	sqlListExpiredRaids = `
		SELECT version, document FROM raids
		WHERE status = 'active' AND expires_at <= $1
		ORDER BY expires_at`
)

// CreateRaid inserts a new raid at version 1
func (r *RaidRepository) CreateRaid(ctx context.Context, raid *domain.Raid) error {
	raid.Version = 1
	doc, err := json.Marshal(raid)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeRaid, err)
	}

	_, err = r.db.Exec(ctx, sqlInsertRaid,
		raid.ID, string(raid.Status), raid.Village, raid.ExpeditionID, raid.ExpiresAt, doc, raid.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %s", ErrMsgRaidAlreadyExists, raid.ID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateRaid, err)
	}
	return nil
}

// GetRaid loads a raid by ID
func (r *RaidRepository) GetRaid(ctx context.Context, id uuid.UUID) (*domain.Raid, error) {
	raid, err := scanRaid(r.db.QueryRow(ctx, sqlSelectRaid, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRaidNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRaid, err)
	}
	return raid, nil
}

// UpdateRaid writes the raid if nobody else has written since it was read
func (r *RaidRepository) UpdateRaid(ctx context.Context, raid *domain.Raid) error {
	next := raid.Clone()
	next.Version = raid.Version + 1
	doc, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeRaid, err)
	}

	tag, err := r.db.Exec(ctx, sqlUpdateRaid, raid.ID, raid.Version, string(raid.Status), raid.ExpiresAt, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRaid, err)
	}
	if tag.RowsAffected() == 1 {
		raid.Version = next.Version
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sqlRaidExists, raid.ID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRaid, err)
	}
	if !exists {
		return domain.ErrRaidNotFound
	}
	return fmt.Errorf("%w: raid %s, write carried version %d", domain.ErrVersionConflict, raid.ID, raid.Version)
}

// ListActiveRaids returns active raids, oldest first
func (r *RaidRepository) ListActiveRaids(ctx context.Context) ([]*domain.Raid, error) {
	return r.list(ctx, sqlListActiveRaids)
}

// ListExpiredRaids returns active raids whose deadline has passed
func (r *RaidRepository) ListExpiredRaids(ctx context.Context, now time.Time) ([]*domain.Raid, error) {
	return r.list(ctx, sqlListExpiredRaids, now)
}

func (r *RaidRepository) list(ctx context.Context, sql string, args ...any) ([]*domain.Raid, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRaids, err)
	}
	defer rows.Close()

	var raids []*domain.Raid
	for rows.Next() {
		raid, err := scanRaid(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRaids, err)
		}
		raids = append(raids, raid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRaids, err)
	}
	return raids, nil
}

func scanRaid(row pgx.Row) (*domain.Raid, error) {
	var (
		version int64
		doc     []byte
	)
	if err := row.Scan(&version, &doc); err != nil {
		return nil, err
	}

	var raid domain.Raid
	if err := json.Unmarshal(doc, &raid); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeRaid, err)
	}
	// the column is authoritative for the compare-and-swap
	raid.Version = version
	return &raid, nil
}
