package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.Character = (*CharacterRepository)(nil)

// CharacterRepository reads and writes character combat records
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const (
	sqlSelectCharacter = `
		SELECT id, user_id, name, current_village, hearts, max_hearts, stamina,
		       attack, defense, gear, knocked_out, is_mod
		FROM characters
		WHERE id = $1`

	sqlUpsertCharacter = `
		INSERT INTO characters (id, user_id, name, current_village, hearts, max_hearts, stamina,
		                        attack, defense, gear, knocked_out, is_mod, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			current_village = EXCLUDED.current_village,
			hearts = EXCLUDED.hearts,
			max_hearts = EXCLUDED.max_hearts,
			stamina = EXCLUDED.stamina,
			attack = EXCLUDED.attack,
			defense = EXCLUDED.defense,
			gear = EXCLUDED.gear,
			knocked_out = EXCLUDED.knocked_out,
			is_mod = EXCLUDED.is_mod,
			updated_at = NOW()`

	sqlUpdateCombatState = `
		UPDATE characters
		SET hearts = $2, stamina = $3, knocked_out = $4, updated_at = NOW()
		WHERE id = $1`
)

// SaveCharacter inserts or replaces a character
func (r *CharacterRepository) SaveCharacter(ctx context.Context, c *domain.Character) error {
	_, err := r.db.Exec(ctx, sqlUpsertCharacter,
		c.ID, c.UserID, c.Name, c.CurrentVillage, c.Hearts, c.MaxHearts, c.Stamina,
		c.Attack, c.Defense, c.Gear, c.KnockedOut, c.IsModCharacter)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveCharacter, err)
	}
	return nil
}

// GetCharacter loads a character by ID
func (r *CharacterRepository) GetCharacter(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	var c domain.Character
	err := r.db.QueryRow(ctx, sqlSelectCharacter, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.CurrentVillage, &c.Hearts, &c.MaxHearts, &c.Stamina,
		&c.Attack, &c.Defense, &c.Gear, &c.KnockedOut, &c.IsModCharacter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCharacter, err)
	}
	return &c, nil
}

// UpdateCombatState writes hearts, stamina and knockout state
func (r *CharacterRepository) UpdateCombatState(ctx context.Context, id uuid.UUID, update domain.CombatStateUpdate) error {
	tag, err := r.db.Exec(ctx, sqlUpdateCombatState, id, update.Hearts, update.Stamina, update.KnockedOut)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateCharacter, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}
