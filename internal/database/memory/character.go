package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.Character = (*CharacterRepository)(nil)

// CharacterRepository stores characters by ID
type CharacterRepository struct {
	s *Store
}

// SaveCharacter inserts or replaces a character
func (r *CharacterRepository) SaveCharacter(_ context.Context, c *domain.Character) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.characters[c.ID] = *c
	return nil
}

// GetCharacter returns a copy of the character
func (r *CharacterRepository) GetCharacter(_ context.Context, id uuid.UUID) (*domain.Character, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.characters[id]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return &c, nil
}

// UpdateCombatState writes hearts, stamina and knockout state
func (r *CharacterRepository) UpdateCombatState(_ context.Context, id uuid.UUID, update domain.CombatStateUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.characters[id]
	if !ok {
		return domain.ErrCharacterNotFound
	}
	c.Hearts = update.Hearts
	c.Stamina = update.Stamina
	c.KnockedOut = update.KnockedOut
	r.s.characters[id] = c
	return nil
}
